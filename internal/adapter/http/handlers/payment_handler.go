package handlers

import (
	"context"
	"errors"
	"net"
	"net/http"

	request "payment_gateway/internal/adapter/http/dto/request"
	response "payment_gateway/internal/adapter/http/dto/response"
	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/infrastructure/httpclient"
	"payment_gateway/internal/logger"
	"payment_gateway/internal/usecase"
	"payment_gateway/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	errInvalidPaymentPayload = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request payload", http.StatusBadRequest)
)

// PaymentHandler exposes the payment facade over HTTP.
type PaymentHandler struct {
	usecase       usecase.IPaymentUseCase
	exposeDetails bool
}

// NewPaymentHandler builds the handler. exposeDetails adds wrapped error text
// and raw provider payloads to error bodies.
func NewPaymentHandler(uc usecase.IPaymentUseCase, exposeDetails bool) *PaymentHandler {
	return &PaymentHandler{usecase: uc, exposeDetails: exposeDetails}
}

// CreatePayment godoc
// @Summary Create a payment
// @Description Creates a razorpay order or a Zoho payment session depending on paymentMethod.
// @Tags payments
// @Accept json
// @Produce json
// @Param request body request.CreatePaymentRequest true "Payment data"
// @Success 200 {object} response.CreatePaymentResponse
// @Failure 400 {object} pkg.HTTPError
// @Failure 502 {object} pkg.HTTPError
// @Failure 503 {object} pkg.HTTPError
// @Router /payments/create [post]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	ctx := c.Request.Context()
	var payload request.CreatePaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		logger.FromCtx(ctx).Warn("[payment][handler] invalid create payload", zap.Error(err))
		h.writeError(c, pkg.NewDomainError(errInvalidPaymentPayload.Code, errInvalidPaymentPayload.Message, err, http.StatusBadRequest))
		return
	}

	created, err := h.usecase.CreatePayment(ctx, payload.ToEntity())
	if err != nil {
		h.fail(ctx, c, "create", err)
		return
	}

	c.JSON(http.StatusOK, response.FromPaymentCreation(created))
}

// VerifyPayment godoc
// @Summary Verify a payment
// @Description Verifies the checkout response returned by the provider widget and records the payment.
// @Tags payments
// @Accept json
// @Produce json
// @Param request body request.VerifyPaymentRequest true "Checkout response"
// @Success 200 {object} response.VerifyPaymentResponse
// @Failure 400 {object} pkg.HTTPError
// @Failure 404 {object} pkg.HTTPError
// @Failure 502 {object} pkg.HTTPError
// @Router /payments/verify [post]
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	ctx := c.Request.Context()
	var payload request.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		logger.FromCtx(ctx).Warn("[payment][handler] invalid verify payload", zap.Error(err))
		h.writeError(c, pkg.NewDomainError(errInvalidPaymentPayload.Code, errInvalidPaymentPayload.Message, err, http.StatusBadRequest))
		return
	}

	verified, err := h.usecase.VerifyPayment(ctx, payload.Method(), payload.Response)
	if err != nil {
		h.fail(ctx, c, "verify", err)
		return
	}

	c.JSON(http.StatusOK, response.FromPaymentVerification(verified))
}

// ProcessRefund godoc
// @Summary Refund a payment
// @Description Issues a refund with the provider. refundAmount wins over amount when both are sent.
// @Tags payments
// @Accept json
// @Produce json
// @Param request body request.RefundRequest true "Refund data"
// @Success 200 {object} response.RefundResponse
// @Failure 400 {object} pkg.HTTPError
// @Failure 404 {object} pkg.HTTPError
// @Failure 502 {object} pkg.HTTPError
// @Router /payments/refund [post]
func (h *PaymentHandler) ProcessRefund(c *gin.Context) {
	ctx := c.Request.Context()
	var payload request.RefundRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		logger.FromCtx(ctx).Warn("[payment][handler] invalid refund payload", zap.Error(err))
		h.writeError(c, pkg.NewDomainError(errInvalidPaymentPayload.Code, errInvalidPaymentPayload.Message, err, http.StatusBadRequest))
		return
	}

	refund, err := h.usecase.ProcessRefund(ctx, payload.ToEntity())
	if err != nil {
		h.fail(ctx, c, "refund", err)
		return
	}

	c.JSON(http.StatusOK, response.FromRefund(refund))
}

// GetTransactionStatus godoc
// @Summary Get transaction status
// @Tags payments
// @Produce json
// @Param transaction_id path string true "Provider payment id"
// @Param paymentMethod query string true "razorpay or zoho"
// @Success 200 {object} response.TransactionStatusResponse
// @Failure 400 {object} pkg.HTTPError
// @Failure 404 {object} pkg.HTTPError
// @Failure 502 {object} pkg.HTTPError
// @Router /payments/status/{transaction_id} [get]
func (h *PaymentHandler) GetTransactionStatus(c *gin.Context) {
	ctx := c.Request.Context()
	method := entities.PaymentMethod(c.Query("paymentMethod"))

	tx, err := h.usecase.GetTransactionStatus(ctx, c.Param("transaction_id"), method)
	if err != nil {
		h.fail(ctx, c, "status", err)
		return
	}

	c.JSON(http.StatusOK, response.FromTransactionStatus(tx))
}

// GetAllTransactions godoc
// @Summary List recent transactions of every provider
// @Description A failing provider is reported in its own branch and never fails the request.
// @Tags payments
// @Produce json
// @Success 200 {object} response.AllTransactionsResponse
// @Router /payments/transactions [get]
func (h *PaymentHandler) GetAllTransactions(c *gin.Context) {
	all := h.usecase.GetAllTransactions(c.Request.Context())
	c.JSON(http.StatusOK, response.FromAllTransactions(all))
}

// GetPaymentRecord godoc
// @Summary Get a recorded payment
// @Tags payments
// @Produce json
// @Param transaction_id path string true "Provider payment id"
// @Success 200 {object} response.PaymentRecordResponse
// @Failure 404 {object} pkg.HTTPError
// @Failure 503 {object} pkg.HTTPError
// @Router /payments/records/{transaction_id} [get]
func (h *PaymentHandler) GetPaymentRecord(c *gin.Context) {
	ctx := c.Request.Context()

	rec, err := h.usecase.GetPaymentRecord(ctx, c.Param("transaction_id"))
	if err != nil {
		h.fail(ctx, c, "record", err)
		return
	}

	c.JSON(http.StatusOK, response.FromPaymentRecord(rec))
}

func (h *PaymentHandler) fail(ctx context.Context, c *gin.Context, operation string, err error) {
	appErr := mapPaymentError(err)
	log := logger.FromCtx(ctx).With(zap.String("operation", operation), zap.Int("status", appErr.HTTPStatus), zap.Error(err))
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		log.Error("[payment][handler] request failed")
	} else {
		log.Warn("[payment][handler] request rejected")
	}
	h.writeError(c, appErr)
}

func (h *PaymentHandler) writeError(c *gin.Context, appErr *pkg.AppError) {
	if !h.exposeDetails {
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	body := appErr.ToDebugHTTPError()
	var pe *entities.ProviderError
	if errors.As(appErr.Err, &pe) && pe.Raw != "" {
		body.Details = body.Details + " | provider response: " + pe.Raw
	}
	c.JSON(appErr.HTTPStatus, body)
}

func mapPaymentError(err error) *pkg.AppError {
	var pe *entities.ProviderError
	var netErr net.Error

	switch {
	case errors.Is(err, usecase.ErrInvalidPaymentRequest),
		errors.Is(err, usecase.ErrMissingTransactionID),
		errors.Is(err, usecase.ErrInvalidRefundAmount),
		errors.Is(err, usecase.ErrInvalidVerificationPayload),
		errors.Is(err, entities.ErrInvalidCheckoutPayload),
		errors.Is(err, entities.ErrInvalidPaymentData):
		return pkg.NewDomainError("INVALID_REQUEST", err.Error(), err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrMissingPaymentMethod):
		return pkg.NewDomainError("MISSING_PAYMENT_METHOD", "Payment method is required", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrUnsupportedPaymentMethod):
		return pkg.NewDomainError("UNSUPPORTED_PAYMENT_METHOD", "Unsupported payment method", err, http.StatusBadRequest)
	case errors.Is(err, entities.ErrInvalidSignature):
		return pkg.NewDomainError("INVALID_SIGNATURE", "Invalid payment signature", err, http.StatusBadRequest)
	case errors.Is(err, entities.ErrProviderNotConfigured):
		return pkg.NewDomainError("PROVIDER_NOT_CONFIGURED", "Payment provider not configured", err, http.StatusServiceUnavailable)
	case errors.Is(err, usecase.ErrPaymentRecordsNotConfigured):
		return pkg.NewDomainError("RECORDS_NOT_CONFIGURED", "Payment records not configured", err, http.StatusServiceUnavailable)
	case errors.Is(err, httpclient.ErrCircuitOpen):
		return pkg.NewDomainError("PROVIDER_UNAVAILABLE", "Payment provider temporarily unavailable", err, http.StatusServiceUnavailable)
	case errors.Is(err, entities.ErrVerificationFailed):
		return pkg.NewDomainError("PAYMENT_NOT_FOUND", "Payment could not be verified", err, http.StatusNotFound)
	case errors.Is(err, entities.ErrPaymentRecordNotFound):
		return pkg.NewDomainError("PAYMENT_RECORD_NOT_FOUND", "Payment record not found", err, http.StatusNotFound)
	case errors.As(err, &pe):
		status := http.StatusBadGateway
		if pe.StatusCode == http.StatusBadRequest || pe.StatusCode == http.StatusNotFound {
			status = pe.StatusCode
		}
		return pkg.NewDomainError("PROVIDER_ERROR", pe.Message, err, status)
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return pkg.NewDomainError("PROVIDER_TIMEOUT", "Payment provider timed out", err, http.StatusGatewayTimeout)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
