package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/infrastructure/httpclient"
	"payment_gateway/internal/logger"
	"payment_gateway/internal/usecase/interfaces"

	"go.uber.org/zap"
)

const razorpayListPageSize = 50

type RazorpayGateway struct {
	baseURL  string
	currency string
	keys     interfaces.IRazorpayKeySource
	client   *httpclient.Client
	now      func() time.Time
}

var _ interfaces.IPaymentGateway = (*RazorpayGateway)(nil)

func NewRazorpayGateway(baseURL, currency string, keys interfaces.IRazorpayKeySource, client *httpclient.Client) *RazorpayGateway {
	if currency == "" {
		currency = entities.DefaultCurrency
	}
	return &RazorpayGateway{
		baseURL:  strings.TrimRight(baseURL, "/"),
		currency: currency,
		keys:     keys,
		client:   client,
		now:      time.Now,
	}
}

func (g *RazorpayGateway) Method() entities.PaymentMethod {
	return entities.PaymentMethodRazorpay
}

type razorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type razorpayPayment struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Status    string `json:"status"`
	Method    string `json:"method"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"created_at"`
}

type razorpayRefund struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

type razorpayErrorBody struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// razorpayCheckoutResponse is what the checkout widget hands back to the storefront.
type razorpayCheckoutResponse struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// VerifyRazorpaySignature checks hex(HMAC-SHA256(secret, orderID|paymentID))
// against the supplied signature in constant time.
func VerifyRazorpaySignature(secret, orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (g *RazorpayGateway) credentials(ctx context.Context) (entities.RazorpayKeys, error) {
	keys, err := g.keys.RazorpayKeys(ctx)
	if err != nil {
		return entities.RazorpayKeys{}, fmt.Errorf("resolve razorpay keys: %w", err)
	}
	if !keys.Configured() {
		return entities.RazorpayKeys{}, fmt.Errorf("razorpay: %w", entities.ErrProviderNotConfigured)
	}
	return keys, nil
}

func (g *RazorpayGateway) CreatePayment(ctx context.Context, req entities.PaymentRequest) (entities.PaymentCreation, error) {
	log := logger.FromCtx(ctx).With(zap.String("order_id", req.OrderID))

	keys, err := g.credentials(ctx)
	if err != nil {
		log.Warn("[payment][razorpay] create rejected", zap.Error(err))
		return entities.PaymentCreation{}, err
	}

	currency := req.Currency
	if currency == "" {
		currency = g.currency
	}
	amountMinor := entities.MinorUnits(req.Amount)

	notes := map[string]string{
		"order_id":       req.OrderID,
		"customer_name":  req.CustomerName,
		"customer_email": req.CustomerEmail,
	}
	if req.CustomerPhone != "" {
		notes["customer_phone"] = req.CustomerPhone
	}
	if req.ProductInfo != "" {
		notes["product_info"] = req.ProductInfo
	}

	body := map[string]any{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  req.OrderID,
		"notes":    notes,
	}

	log.Info("[payment][razorpay] create start", zap.Int64("amount_minor", amountMinor))

	var order razorpayOrder
	if err := g.call(ctx, keys, http.MethodPost, "/orders", body, "create_order", &order); err != nil {
		log.Error("[payment][razorpay] create failed", zap.Error(err))
		return entities.PaymentCreation{}, err
	}

	log.Info("[payment][razorpay] create success", zap.String("razorpay_order_id", order.ID))

	if order.Amount == 0 {
		order.Amount = amountMinor
	}
	if order.Currency == "" {
		order.Currency = currency
	}

	return entities.PaymentCreation{
		Method:          entities.PaymentMethodRazorpay,
		OrderID:         req.OrderID,
		AmountMinor:     order.Amount,
		Currency:        order.Currency,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ProductInfo:     req.ProductInfo,
		RazorpayOrderID: order.ID,
		KeyID:           keys.KeyID,
	}, nil
}

func (g *RazorpayGateway) VerifyPayment(ctx context.Context, checkoutResponse json.RawMessage) (entities.PaymentVerification, error) {
	var in razorpayCheckoutResponse
	if err := json.Unmarshal(checkoutResponse, &in); err != nil {
		return entities.PaymentVerification{}, fmt.Errorf("%w: %v", entities.ErrInvalidCheckoutPayload, err)
	}
	var missing []string
	if in.OrderID == "" {
		missing = append(missing, "razorpay_order_id")
	}
	if in.PaymentID == "" {
		missing = append(missing, "razorpay_payment_id")
	}
	if in.Signature == "" {
		missing = append(missing, "razorpay_signature")
	}
	if len(missing) > 0 {
		return entities.PaymentVerification{}, fmt.Errorf("%w: missing %s", entities.ErrInvalidCheckoutPayload, strings.Join(missing, ", "))
	}

	log := logger.FromCtx(ctx).With(
		zap.String("razorpay_order_id", in.OrderID),
		zap.String("payment_id", in.PaymentID),
	)

	keys, err := g.credentials(ctx)
	if err != nil {
		return entities.PaymentVerification{}, err
	}

	if !VerifyRazorpaySignature(keys.KeySecret, in.OrderID, in.PaymentID, in.Signature) {
		log.Warn("[payment][razorpay] signature mismatch")
		return entities.PaymentVerification{}, entities.ErrInvalidSignature
	}

	p, err := g.fetchPayment(ctx, keys, in.PaymentID)
	if err != nil {
		log.Error("[payment][razorpay] fetch after verify failed", zap.Error(err))
		return entities.PaymentVerification{}, err
	}

	log.Info("[payment][razorpay] verify success", zap.String("status", p.Status))

	orderID := p.OrderID
	if orderID == "" {
		orderID = in.OrderID
	}
	return entities.PaymentVerification{
		Method:         entities.PaymentMethodRazorpay,
		TransactionID:  p.ID,
		OrderID:        orderID,
		AmountMinor:    p.Amount,
		Currency:       p.Currency,
		Verified:       true,
		Status:         entities.NormalizeRazorpayStatus(p.Status),
		ProviderStatus: p.Status,
		CustomerEmail:  p.Email,
	}, nil
}

func (g *RazorpayGateway) Refund(ctx context.Context, transactionID string, amountMinor int64, reason string) (entities.Refund, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("payment_id", transactionID),
		zap.Int64("amount_minor", amountMinor),
	)

	keys, err := g.credentials(ctx)
	if err != nil {
		return entities.Refund{}, err
	}

	body := map[string]any{
		"amount": amountMinor,
		"notes":  map[string]string{"reason": reason},
	}

	log.Info("[payment][razorpay] refund start")

	var r razorpayRefund
	path := "/payments/" + url.PathEscape(transactionID) + "/refund"
	if err := g.call(ctx, keys, http.MethodPost, path, body, "refund", &r); err != nil {
		log.Error("[payment][razorpay] refund failed", zap.Error(err))
		return entities.Refund{}, refundError(err)
	}

	log.Info("[payment][razorpay] refund success", zap.String("refund_id", r.ID), zap.String("status", r.Status))

	processedAt := g.now().UTC()
	if r.CreatedAt > 0 {
		processedAt = time.Unix(r.CreatedAt, 0).UTC()
	}
	paymentID := r.PaymentID
	if paymentID == "" {
		paymentID = transactionID
	}
	return entities.Refund{
		Method:        entities.PaymentMethodRazorpay,
		RefundID:      r.ID,
		AmountMinor:   r.Amount,
		Status:        r.Status,
		Reason:        reason,
		TransactionID: paymentID,
		ProcessedAt:   processedAt,
	}, nil
}

// refundError rewrites provider failures into the messages surfaced for refunds.
func refundError(err error) error {
	pe, ok := asProviderError(err)
	if !ok {
		return err
	}
	out := *pe
	switch pe.StatusCode {
	case http.StatusBadRequest:
		if out.Message == "" {
			out.Message = "invalid refund request"
		}
	case http.StatusNotFound:
		out.Message = "payment not found"
	}
	return &out
}

func (g *RazorpayGateway) GetTransactionStatus(ctx context.Context, transactionID string) (entities.Transaction, error) {
	keys, err := g.credentials(ctx)
	if err != nil {
		return entities.Transaction{}, err
	}
	p, err := g.fetchPayment(ctx, keys, transactionID)
	if err != nil {
		logger.FromCtx(ctx).Error("[payment][razorpay] status failed",
			zap.String("payment_id", transactionID), zap.Error(err))
		return entities.Transaction{}, err
	}
	return p.toTransaction(), nil
}

func (g *RazorpayGateway) ListTransactions(ctx context.Context) ([]entities.Transaction, error) {
	log := logger.FromCtx(ctx)

	keys, err := g.credentials(ctx)
	if err != nil {
		return nil, err
	}

	var page struct {
		Count int               `json:"count"`
		Items []json.RawMessage `json:"items"`
	}
	path := fmt.Sprintf("/payments?count=%d&skip=0", razorpayListPageSize)
	if err := g.call(ctx, keys, http.MethodGet, path, nil, "list_payments", &page); err != nil {
		log.Error("[payment][razorpay] list failed", zap.Error(err))
		return nil, err
	}

	out := make([]entities.Transaction, 0, len(page.Items))
	for i, item := range page.Items {
		var p razorpayPayment
		if err := json.Unmarshal(item, &p); err != nil || p.ID == "" {
			log.Warn("[payment][razorpay] dropping malformed payment", zap.Int("index", i), zap.Error(err))
			continue
		}
		out = append(out, p.toTransaction())
	}
	return out, nil
}

func (p razorpayPayment) toTransaction() entities.Transaction {
	var createdAt time.Time
	if p.CreatedAt > 0 {
		createdAt = time.Unix(p.CreatedAt, 0).UTC()
	}
	return entities.Transaction{
		Method:         entities.PaymentMethodRazorpay,
		PaymentID:      p.ID,
		OrderID:        p.OrderID,
		AmountMinor:    p.Amount,
		Currency:       p.Currency,
		Status:         entities.NormalizeRazorpayStatus(p.Status),
		ProviderStatus: p.Status,
		PaymentType:    p.Method,
		CreatedAt:      createdAt,
	}
}

func (g *RazorpayGateway) fetchPayment(ctx context.Context, keys entities.RazorpayKeys, paymentID string) (razorpayPayment, error) {
	var p razorpayPayment
	err := g.call(ctx, keys, http.MethodGet, "/payments/"+url.PathEscape(paymentID), nil, "fetch_payment", &p)
	return p, err
}

// call sends one authenticated request and decodes a 2xx body into out.
func (g *RazorpayGateway) call(ctx context.Context, keys entities.RazorpayKeys, method, path string, body any, operation string, out any) error {
	req, err := newJSONRequest(ctx, method, g.baseURL+path, body)
	if err != nil {
		return err
	}
	req.SetBasicAuth(keys.KeyID, keys.KeySecret)

	resp, err := g.client.Do(req, operation)
	if err != nil {
		return err
	}

	if !resp.IsSuccess() {
		var eb razorpayErrorBody
		_ = json.Unmarshal(resp.Body, &eb)
		msg := eb.Error.Description
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &entities.ProviderError{
			Provider:   entities.PaymentMethodRazorpay,
			StatusCode: resp.StatusCode,
			Code:       eb.Error.Code,
			Message:    msg,
			Raw:        string(resp.Body),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode razorpay %s response: %w", operation, err)
	}
	return nil
}
