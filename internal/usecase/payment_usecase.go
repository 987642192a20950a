package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/logger"
	"payment_gateway/internal/usecase/interfaces"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidPaymentRequest       = errors.New("invalid payment request")
	ErrUnsupportedPaymentMethod    = errors.New("unsupported payment method")
	ErrMissingPaymentMethod        = errors.New("payment method is required")
	ErrMissingTransactionID        = errors.New("transaction id is required")
	ErrInvalidRefundAmount         = errors.New("refund amount must be greater than zero")
	ErrInvalidVerificationPayload  = errors.New("verification payload is required")
	ErrPaymentRecordsNotConfigured = errors.New("payment records not configured")
)

// listedMethods is the fixed order of GetAllTransactions branches.
var listedMethods = []entities.PaymentMethod{
	entities.PaymentMethodRazorpay,
	entities.PaymentMethodZoho,
}

// IPaymentUseCase is the single entry point that hides which provider serves
// a request. Every operation is dispatched on the payment method.

type IPaymentUseCase interface {
	CreatePayment(ctx context.Context, req entities.PaymentRequest) (entities.PaymentCreation, error)
	VerifyPayment(ctx context.Context, method entities.PaymentMethod, checkoutResponse json.RawMessage) (entities.PaymentVerification, error)
	ProcessRefund(ctx context.Context, req entities.RefundRequest) (entities.Refund, error)
	GetTransactionStatus(ctx context.Context, transactionID string, method entities.PaymentMethod) (entities.Transaction, error)
	GetAllTransactions(ctx context.Context) entities.AllTransactions
	GetPaymentRecord(ctx context.Context, transactionID string) (entities.PaymentRecord, error)
}

type PaymentUseCase struct {
	gateways map[entities.PaymentMethod]interfaces.IPaymentGateway
	records  interfaces.IPaymentRecordRepository
	events   interfaces.IEventPublisher
	now      func() time.Time
}

var _ IPaymentUseCase = (*PaymentUseCase)(nil)

// NewPaymentUseCase wires the dispatch table. records and events are optional.
func NewPaymentUseCase(
	gateways map[entities.PaymentMethod]interfaces.IPaymentGateway,
	records interfaces.IPaymentRecordRepository,
	events interfaces.IEventPublisher,
) *PaymentUseCase {
	return &PaymentUseCase{
		gateways: gateways,
		records:  records,
		events:   events,
		now:      time.Now,
	}
}

func (u *PaymentUseCase) gateway(method entities.PaymentMethod) (interfaces.IPaymentGateway, error) {
	if strings.TrimSpace(string(method)) == "" {
		return nil, ErrMissingPaymentMethod
	}
	m, ok := entities.ParsePaymentMethod(string(method))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPaymentMethod, string(method))
	}
	gw, ok := u.gateways[m]
	if !ok || gw == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPaymentMethod, string(m))
	}
	return gw, nil
}

func (u *PaymentUseCase) CreatePayment(ctx context.Context, req entities.PaymentRequest) (entities.PaymentCreation, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("order_id", req.OrderID),
		zap.String("payment_method", string(req.Method)),
	)
	log.Info("[payment][usecase] create start", zap.Float64("amount", req.Amount))

	if err := validatePaymentRequest(req); err != nil {
		log.Warn("[payment][usecase] invalid create request", zap.Error(err))
		return entities.PaymentCreation{}, err
	}

	gw, err := u.gateway(req.Method)
	if err != nil {
		log.Warn("[payment][usecase] create rejected", zap.Error(err))
		return entities.PaymentCreation{}, err
	}
	req.Method = gw.Method()
	req.OrderID = strings.TrimSpace(req.OrderID)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)

	res, err := gw.CreatePayment(ctx, req)
	if err != nil {
		log.Error("[payment][usecase] create failed", zap.Error(err))
		return entities.PaymentCreation{}, err
	}

	log.Info("[payment][usecase] create success", zap.Int64("amount_minor", res.AmountMinor))
	return res, nil
}

func validatePaymentRequest(req entities.PaymentRequest) error {
	var problems []string
	if strings.TrimSpace(req.OrderID) == "" {
		problems = append(problems, "orderId is required")
	}
	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) || req.Amount <= 0 {
		problems = append(problems, "amount must be greater than zero")
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		problems = append(problems, "customerName is required")
	}
	if strings.TrimSpace(req.CustomerEmail) == "" {
		problems = append(problems, "customerEmail is required")
	}
	if strings.TrimSpace(string(req.Method)) == "" {
		problems = append(problems, "paymentMethod is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidPaymentRequest, strings.Join(problems, "; "))
	}
	return nil
}

func (u *PaymentUseCase) VerifyPayment(ctx context.Context, method entities.PaymentMethod, checkoutResponse json.RawMessage) (entities.PaymentVerification, error) {
	log := logger.FromCtx(ctx).With(zap.String("payment_method", string(method)))

	gw, err := u.gateway(method)
	if err != nil {
		return entities.PaymentVerification{}, err
	}
	trimmed := strings.TrimSpace(string(checkoutResponse))
	if trimmed == "" || trimmed == "null" || !json.Valid(checkoutResponse) {
		return entities.PaymentVerification{}, ErrInvalidVerificationPayload
	}

	log.Info("[payment][usecase] verify start")

	v, err := gw.VerifyPayment(ctx, checkoutResponse)
	if err != nil {
		log.Warn("[payment][usecase] verify failed", zap.Error(err))
		return entities.PaymentVerification{}, err
	}

	log = log.With(zap.String("transaction_id", v.TransactionID), zap.Bool("verified", v.Verified))
	if !v.Verified || v.Status == entities.PaymentStatusFailed {
		log.Info("[payment][usecase] payment not settled", zap.String("status", string(v.Status)))
		return v, nil
	}

	recorded, err := u.record(ctx, v, checkoutResponse)
	if err != nil {
		log.Error("[payment][usecase] payment record failed", zap.Error(err))
		return entities.PaymentVerification{}, err
	}
	if recorded {
		u.publish(ctx, entities.EventPaymentVerified, paymentVerifiedEvent{
			TransactionID: v.TransactionID,
			OrderID:       v.OrderID,
			PaymentMethod: string(v.Method),
			Amount:        entities.MajorUnits(v.AmountMinor),
			Currency:      v.Currency,
			Status:        string(v.Status),
			CustomerEmail: v.CustomerEmail,
		})
	}

	log.Info("[payment][usecase] verify success", zap.String("status", string(v.Status)))
	return v, nil
}

// record stores the verified payment. It reports false when the payment was
// already recorded by an earlier verification.
func (u *PaymentUseCase) record(ctx context.Context, v entities.PaymentVerification, raw json.RawMessage) (bool, error) {
	if u.records == nil {
		return true, nil
	}

	_, err := u.records.Create(ctx, entities.PaymentRecord{
		TransactionID:      v.TransactionID,
		OrderID:            v.OrderID,
		Method:             v.Method,
		AmountMinor:        v.AmountMinor,
		Currency:           v.Currency,
		Status:             v.Status,
		CustomerEmail:      v.CustomerEmail,
		RecordedAt:         u.now().UTC(),
		ProviderPayloadRaw: raw,
	})
	if errors.Is(err, entities.ErrPaymentRecordExists) {
		logger.FromCtx(ctx).Info("[payment][usecase] payment already recorded",
			zap.String("transaction_id", v.TransactionID))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("record payment %s: %w", v.TransactionID, err)
	}
	return true, nil
}

func (u *PaymentUseCase) ProcessRefund(ctx context.Context, req entities.RefundRequest) (entities.Refund, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("transaction_id", req.TransactionID),
		zap.String("payment_method", string(req.Method)),
	)

	if strings.TrimSpace(req.TransactionID) == "" {
		return entities.Refund{}, ErrMissingTransactionID
	}
	amount := req.EffectiveAmount()
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 || entities.MinorUnits(amount) <= 0 {
		return entities.Refund{}, ErrInvalidRefundAmount
	}
	if strings.TrimSpace(string(req.Method)) == "" {
		return entities.Refund{}, ErrMissingPaymentMethod
	}
	gw, err := u.gateway(req.Method)
	if err != nil {
		return entities.Refund{}, err
	}

	amountMinor := entities.MinorUnits(amount)
	log.Info("[payment][usecase] refund start", zap.Int64("amount_minor", amountMinor))

	r, err := gw.Refund(ctx, strings.TrimSpace(req.TransactionID), amountMinor, req.Reason)
	if err != nil {
		log.Error("[payment][usecase] refund failed", zap.Error(err))
		return entities.Refund{}, err
	}

	u.publish(ctx, entities.EventPaymentRefunded, paymentRefundedEvent{
		TransactionID: r.TransactionID,
		RefundID:      r.RefundID,
		PaymentMethod: string(r.Method),
		Amount:        entities.MajorUnits(r.AmountMinor),
		Status:        r.Status,
		Reason:        r.Reason,
	})

	log.Info("[payment][usecase] refund success", zap.String("refund_id", r.RefundID), zap.String("status", r.Status))
	return r, nil
}

func (u *PaymentUseCase) GetTransactionStatus(ctx context.Context, transactionID string, method entities.PaymentMethod) (entities.Transaction, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return entities.Transaction{}, ErrMissingTransactionID
	}
	gw, err := u.gateway(method)
	if err != nil {
		return entities.Transaction{}, err
	}

	tx, err := gw.GetTransactionStatus(ctx, transactionID)
	if err != nil {
		logger.FromCtx(ctx).Warn("[payment][usecase] status failed",
			zap.String("transaction_id", transactionID), zap.Error(err))
		return entities.Transaction{}, err
	}
	return tx, nil
}

// GetAllTransactions lists every provider concurrently. A failing provider
// only marks its own branch as unsuccessful.
func (u *PaymentUseCase) GetAllTransactions(ctx context.Context) entities.AllTransactions {
	results := make([]entities.TransactionList, len(listedMethods))

	var g errgroup.Group
	for i, m := range listedMethods {
		g.Go(func() error {
			results[i] = u.listBranch(ctx, m)
			return nil
		})
	}
	_ = g.Wait()

	return entities.AllTransactions{
		Razorpay: results[0],
		Zoho:     results[1],
	}
}

func (u *PaymentUseCase) listBranch(ctx context.Context, method entities.PaymentMethod) entities.TransactionList {
	log := logger.FromCtx(ctx).With(zap.String("payment_method", string(method)))

	gw, ok := u.gateways[method]
	if !ok || gw == nil {
		return entities.TransactionList{
			Transactions: []entities.Transaction{},
			Error:        fmt.Sprintf("%s is not configured", method),
		}
	}

	txs, err := gw.ListTransactions(ctx)
	if err != nil {
		log.Warn("[payment][usecase] list failed", zap.Error(err))
		return entities.TransactionList{
			Transactions: []entities.Transaction{},
			Error:        err.Error(),
		}
	}
	if txs == nil {
		txs = []entities.Transaction{}
	}
	return entities.TransactionList{Success: true, Transactions: txs}
}

func (u *PaymentUseCase) GetPaymentRecord(ctx context.Context, transactionID string) (entities.PaymentRecord, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return entities.PaymentRecord{}, ErrMissingTransactionID
	}
	if u.records == nil {
		return entities.PaymentRecord{}, ErrPaymentRecordsNotConfigured
	}
	return u.records.GetByTransactionID(ctx, transactionID)
}

type paymentVerifiedEvent struct {
	TransactionID string  `json:"transaction_id"`
	OrderID       string  `json:"order_id"`
	PaymentMethod string  `json:"payment_method"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
	CustomerEmail string  `json:"customer_email,omitempty"`
}

type paymentRefundedEvent struct {
	TransactionID string  `json:"transaction_id"`
	RefundID      string  `json:"refund_id"`
	PaymentMethod string  `json:"payment_method"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	Reason        string  `json:"reason,omitempty"`
}

// publish never fails the calling operation.
func (u *PaymentUseCase) publish(ctx context.Context, eventType string, payload any) {
	if u.events == nil {
		return
	}
	if err := u.events.Publish(ctx, eventType, payload); err != nil {
		logger.FromCtx(ctx).Warn("[payment][usecase] event publish failed",
			zap.String("event_type", eventType), zap.Error(err))
	}
}
