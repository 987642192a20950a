package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/infrastructure/httpclient"
	"payment_gateway/internal/logger"
	"payment_gateway/internal/usecase/interfaces"

	"go.uber.org/zap"
)

const defaultRefundReason = "requested_by_customer"

// zohoCredentialSource is satisfied by ZohoTokenManager.
type zohoCredentialSource interface {
	Credentials(ctx context.Context) (entities.ZohoCredentials, error)
}

type ZohoGateway struct {
	baseURL  string
	business string
	currency string
	tokens   zohoCredentialSource
	client   *httpclient.Client
	now      func() time.Time
}

var _ interfaces.IPaymentGateway = (*ZohoGateway)(nil)

func NewZohoGateway(baseURL, business, currency string, tokens *ZohoTokenManager, client *httpclient.Client) *ZohoGateway {
	if currency == "" {
		currency = entities.DefaultCurrency
	}
	return &ZohoGateway{
		baseURL:  strings.TrimRight(baseURL, "/"),
		business: business,
		currency: currency,
		tokens:   tokens,
		client:   client,
		now:      time.Now,
	}
}

func (g *ZohoGateway) Method() entities.PaymentMethod {
	return entities.PaymentMethodZoho
}

// zohoEnvelope is the part shared by every Zoho Payments response.
type zohoEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type zohoPayment struct {
	PaymentID         string     `json:"payment_id"`
	PaymentsSessionID string     `json:"payments_session_id"`
	Amount            flexAmount `json:"amount"`
	Currency          string     `json:"currency"`
	Status            string     `json:"status"`
	InvoiceNumber     string     `json:"invoice_number"`
	ReferenceNumber   string     `json:"reference_number"`
	ReceiptEmail      string     `json:"receipt_email"`
	Date              flexInt    `json:"date"`
	PaymentMethod     struct {
		Type string `json:"type"`
	} `json:"payment_method"`
}

type zohoSession struct {
	PaymentsSessionID string        `json:"payments_session_id"`
	Amount            flexAmount    `json:"amount"`
	Currency          string        `json:"currency"`
	Status            string        `json:"status"`
	InvoiceNumber     string        `json:"invoice_number"`
	Payments          []zohoPayment `json:"payments"`
}

type zohoRefund struct {
	RefundID  string     `json:"refund_id"`
	PaymentID string     `json:"payment_id"`
	Amount    flexAmount `json:"amount"`
	Status    string     `json:"status"`
	Reason    string     `json:"reason"`
	Date      flexInt    `json:"date"`
}

type zohoMetaData struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// zohoCheckoutResponse is what the Zoho checkout widget hands back.
type zohoCheckoutResponse struct {
	PaymentID         string `json:"payment_id"`
	PaymentsSessionID string `json:"payments_session_id"`
	SessionID         string `json:"session_id"`
}

func (g *ZohoGateway) CreatePayment(ctx context.Context, req entities.PaymentRequest) (entities.PaymentCreation, error) {
	log := logger.FromCtx(ctx).With(zap.String("order_id", req.OrderID))

	if err := validateZohoSession(req); err != nil {
		return entities.PaymentCreation{}, err
	}

	creds, err := g.tokens.Credentials(ctx)
	if err != nil {
		log.Warn("[payment][zoho] create rejected", zap.Error(err))
		return entities.PaymentCreation{}, err
	}

	currency := req.Currency
	if currency == "" {
		currency = g.currency
	}
	amountMinor := entities.MinorUnits(req.Amount)
	description := req.ProductInfo
	if description == "" {
		description = "Order " + req.OrderID
	}

	meta := []zohoMetaData{
		{Key: "order_id", Value: req.OrderID},
		{Key: "customer_name", Value: req.CustomerName},
		{Key: "customer_email", Value: req.CustomerEmail},
	}
	if req.CustomerPhone != "" {
		meta = append(meta, zohoMetaData{Key: "customer_phone", Value: req.CustomerPhone})
	}

	body := map[string]any{
		"amount":         entities.MajorUnits(amountMinor),
		"currency":       currency,
		"description":    description,
		"invoice_number": req.OrderID,
		"meta_data":      meta,
	}

	log.Info("[payment][zoho] create session start", zap.Int64("amount_minor", amountMinor))

	var out struct {
		zohoEnvelope
		Session zohoSession `json:"payments_session"`
	}
	if err := g.call(ctx, creds, http.MethodPost, "/paymentsessions", true, body, "create_session", &out, &out.zohoEnvelope); err != nil {
		log.Error("[payment][zoho] create session failed", zap.Error(err))
		return entities.PaymentCreation{}, err
	}
	sessionID := out.Session.PaymentsSessionID

	log.Info("[payment][zoho] create session success", zap.String("session_id", sessionID))

	sessionData := map[string]any{
		"account_id":          creds.PaymentsAccountID,
		"api_key":             creds.PayAPIKey,
		"payments_session_id": sessionID,
		"amount":              entities.MajorUnits(amountMinor),
		"currency":            currency,
		"description":         description,
		"business":            g.business,
		"customer": map[string]string{
			"name":  req.CustomerName,
			"email": req.CustomerEmail,
			"phone": req.CustomerPhone,
		},
	}

	return entities.PaymentCreation{
		Method:        entities.PaymentMethodZoho,
		OrderID:       req.OrderID,
		AmountMinor:   amountMinor,
		Currency:      currency,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		ProductInfo:   req.ProductInfo,
		SessionID:     sessionID,
		SessionData:   sessionData,
	}, nil
}

func validateZohoSession(req entities.PaymentRequest) error {
	var problems []string
	if req.Amount <= 0 {
		problems = append(problems, "amount must be greater than zero")
	}
	if strings.TrimSpace(req.CustomerEmail) == "" {
		problems = append(problems, "customerEmail is required")
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		problems = append(problems, "customerName is required")
	}
	if strings.TrimSpace(req.OrderID) == "" {
		problems = append(problems, "orderId is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", entities.ErrInvalidPaymentData, strings.Join(problems, "; "))
	}
	return nil
}

// VerifyPayment looks the payment up directly first, then through its session.
// A session without an attached payment yields an unverified pending result.
func (g *ZohoGateway) VerifyPayment(ctx context.Context, checkoutResponse json.RawMessage) (entities.PaymentVerification, error) {
	var in zohoCheckoutResponse
	if err := json.Unmarshal(checkoutResponse, &in); err != nil {
		return entities.PaymentVerification{}, fmt.Errorf("%w: %v", entities.ErrInvalidCheckoutPayload, err)
	}
	sessionID := in.PaymentsSessionID
	if sessionID == "" {
		sessionID = in.SessionID
	}
	paymentID := in.PaymentID
	if paymentID == "" {
		paymentID = sessionID
	}
	if paymentID == "" {
		return entities.PaymentVerification{}, fmt.Errorf("%w: payment_id or payments_session_id is required", entities.ErrInvalidCheckoutPayload)
	}
	if sessionID == "" {
		sessionID = paymentID
	}

	log := logger.FromCtx(ctx).With(
		zap.String("payment_id", paymentID),
		zap.String("session_id", sessionID),
	)

	creds, err := g.tokens.Credentials(ctx)
	if err != nil {
		return entities.PaymentVerification{}, err
	}

	p, directErr := g.fetchPayment(ctx, creds, paymentID)
	if directErr == nil {
		log.Info("[payment][zoho] verify success", zap.String("status", p.Status))
		return p.toVerification(), nil
	}
	log.Warn("[payment][zoho] direct lookup failed, trying session", zap.Error(directErr))

	var out struct {
		zohoEnvelope
		Session zohoSession `json:"payments_session"`
	}
	path := "/paymentsessions/" + url.PathEscape(sessionID)
	if err := g.call(ctx, creds, http.MethodGet, path, true, nil, "fetch_session", &out, &out.zohoEnvelope); err != nil {
		log.Error("[payment][zoho] verify failed", zap.Error(err))
		return entities.PaymentVerification{}, fmt.Errorf("%w: payment lookup: %v; session lookup: %v",
			entities.ErrVerificationFailed, directErr, err)
	}

	if len(out.Session.Payments) > 0 {
		sp := out.Session.Payments[0]
		if sp.PaymentsSessionID == "" {
			sp.PaymentsSessionID = out.Session.PaymentsSessionID
		}
		if sp.InvoiceNumber == "" {
			sp.InvoiceNumber = out.Session.InvoiceNumber
		}
		if sp.Currency == "" {
			sp.Currency = out.Session.Currency
		}
		log.Info("[payment][zoho] verify success via session", zap.String("status", sp.Status))
		return sp.toVerification(), nil
	}

	log.Info("[payment][zoho] session has no payment yet")
	return entities.PaymentVerification{
		Method:         entities.PaymentMethodZoho,
		TransactionID:  out.Session.PaymentsSessionID,
		OrderID:        out.Session.InvoiceNumber,
		AmountMinor:    entities.MinorUnits(float64(out.Session.Amount)),
		Currency:       out.Session.Currency,
		Verified:       false,
		Status:         entities.PaymentStatusPending,
		ProviderStatus: out.Session.Status,
	}, nil
}

// toVerification reports Verified only for a settled payment; a failed or
// pending one found by either lookup is returned unverified.
func (p zohoPayment) toVerification() entities.PaymentVerification {
	status := entities.NormalizeZohoStatus(p.Status)
	return entities.PaymentVerification{
		Method:         entities.PaymentMethodZoho,
		TransactionID:  p.PaymentID,
		OrderID:        p.InvoiceNumber,
		AmountMinor:    entities.MinorUnits(float64(p.Amount)),
		Currency:       p.Currency,
		Verified:       status == entities.PaymentStatusSucceeded,
		Status:         status,
		ProviderStatus: p.Status,
		CustomerEmail:  p.ReceiptEmail,
	}
}

func (p zohoPayment) toTransaction() entities.Transaction {
	var createdAt time.Time
	if p.Date > 0 {
		createdAt = time.Unix(int64(p.Date), 0).UTC()
	}
	return entities.Transaction{
		Method:         entities.PaymentMethodZoho,
		PaymentID:      p.PaymentID,
		OrderID:        p.InvoiceNumber,
		AmountMinor:    entities.MinorUnits(float64(p.Amount)),
		Currency:       p.Currency,
		Status:         entities.NormalizeZohoStatus(p.Status),
		ProviderStatus: p.Status,
		PaymentType:    p.PaymentMethod.Type,
		CreatedAt:      createdAt,
	}
}

func (g *ZohoGateway) Refund(ctx context.Context, transactionID string, amountMinor int64, reason string) (entities.Refund, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("payment_id", transactionID),
		zap.Int64("amount_minor", amountMinor),
	)

	creds, err := g.tokens.Credentials(ctx)
	if err != nil {
		return entities.Refund{}, err
	}

	if strings.TrimSpace(reason) == "" {
		reason = defaultRefundReason
	}
	body := map[string]any{
		"amount": entities.MajorUnits(amountMinor),
		"reason": reason,
		"type":   "initiated_by_merchant",
	}

	log.Info("[payment][zoho] refund start")

	var out struct {
		zohoEnvelope
		Refund zohoRefund `json:"refund"`
	}
	path := "/payments/" + url.PathEscape(transactionID) + "/refunds"
	if err := g.call(ctx, creds, http.MethodPost, path, true, body, "refund", &out, &out.zohoEnvelope); err != nil {
		log.Error("[payment][zoho] refund failed", zap.Error(err))
		return entities.Refund{}, err
	}

	r := out.Refund
	log.Info("[payment][zoho] refund success", zap.String("refund_id", r.RefundID), zap.String("status", r.Status))

	processedAt := g.now().UTC()
	if r.Date > 0 {
		processedAt = time.Unix(int64(r.Date), 0).UTC()
	}
	refundedMinor := entities.MinorUnits(float64(r.Amount))
	if refundedMinor == 0 {
		refundedMinor = amountMinor
	}
	if r.Reason != "" {
		reason = r.Reason
	}
	paymentID := r.PaymentID
	if paymentID == "" {
		paymentID = transactionID
	}
	return entities.Refund{
		Method:        entities.PaymentMethodZoho,
		RefundID:      r.RefundID,
		AmountMinor:   refundedMinor,
		Status:        r.Status,
		Reason:        reason,
		TransactionID: paymentID,
		ProcessedAt:   processedAt,
	}, nil
}

func (g *ZohoGateway) GetTransactionStatus(ctx context.Context, transactionID string) (entities.Transaction, error) {
	creds, err := g.tokens.Credentials(ctx)
	if err != nil {
		return entities.Transaction{}, err
	}
	p, err := g.fetchPayment(ctx, creds, transactionID)
	if err != nil {
		logger.FromCtx(ctx).Error("[payment][zoho] status failed",
			zap.String("payment_id", transactionID), zap.Error(err))
		return entities.Transaction{}, err
	}
	return p.toTransaction(), nil
}

func (g *ZohoGateway) ListTransactions(ctx context.Context) ([]entities.Transaction, error) {
	log := logger.FromCtx(ctx)

	creds, err := g.tokens.Credentials(ctx)
	if err != nil {
		return nil, err
	}

	var out struct {
		zohoEnvelope
		Payments []json.RawMessage `json:"payments"`
	}
	// Some Zoho accounts reject account-scoped listing and others require it,
	// depending on how the payments account was provisioned. Try unscoped first.
	err = g.call(ctx, creds, http.MethodGet, "/payments", false, nil, "list_payments", &out, &out.zohoEnvelope)
	if err != nil {
		log.Warn("[payment][zoho] unscoped list failed, retrying with account_id", zap.Error(err))
		out.Payments = nil
		out.zohoEnvelope = zohoEnvelope{}
		if err := g.call(ctx, creds, http.MethodGet, "/payments", true, nil, "list_payments", &out, &out.zohoEnvelope); err != nil {
			log.Error("[payment][zoho] list failed", zap.Error(err))
			return nil, err
		}
	}

	txs := make([]entities.Transaction, 0, len(out.Payments))
	for i, item := range out.Payments {
		var p zohoPayment
		if err := json.Unmarshal(item, &p); err != nil || p.PaymentID == "" {
			log.Warn("[payment][zoho] dropping malformed payment", zap.Int("index", i), zap.Error(err))
			continue
		}
		txs = append(txs, p.toTransaction())
	}
	return txs, nil
}

func (g *ZohoGateway) fetchPayment(ctx context.Context, creds entities.ZohoCredentials, paymentID string) (zohoPayment, error) {
	var out struct {
		zohoEnvelope
		Payment zohoPayment `json:"payment"`
	}
	path := "/payments/" + url.PathEscape(paymentID)
	if err := g.call(ctx, creds, http.MethodGet, path, true, nil, "fetch_payment", &out, &out.zohoEnvelope); err != nil {
		return zohoPayment{}, err
	}
	if out.Payment.PaymentID == "" {
		return zohoPayment{}, &entities.ProviderError{
			Provider:   entities.PaymentMethodZoho,
			StatusCode: http.StatusNotFound,
			Message:    "payment not found",
		}
	}
	return out.Payment, nil
}

// call sends one authenticated request, decodes the body into out and checks
// the envelope code: any non-zero code is a provider error.
func (g *ZohoGateway) call(ctx context.Context, creds entities.ZohoCredentials, method, path string, scoped bool, body any, operation string, out any, env *zohoEnvelope) error {
	endpoint := g.baseURL + path
	if scoped {
		q := url.Values{}
		q.Set("account_id", creds.PaymentsAccountID)
		endpoint += "?" + q.Encode()
	}

	req, err := newJSONRequest(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Zoho-oauthtoken "+creds.AccessToken)

	resp, err := g.client.Do(req, operation)
	if err != nil {
		return err
	}

	decodeErr := json.Unmarshal(resp.Body, out)

	if !resp.IsSuccess() {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		pe := &entities.ProviderError{
			Provider:   entities.PaymentMethodZoho,
			StatusCode: resp.StatusCode,
			Message:    msg,
			Raw:        string(resp.Body),
		}
		if env.Code != 0 {
			pe.Code = strconv.Itoa(env.Code)
		}
		return pe
	}
	if decodeErr != nil {
		return fmt.Errorf("decode zoho %s response: %w", operation, decodeErr)
	}
	if env.Code != 0 {
		return &entities.ProviderError{
			Provider:   entities.PaymentMethodZoho,
			StatusCode: resp.StatusCode,
			Code:       strconv.Itoa(env.Code),
			Message:    env.Message,
			Raw:        string(resp.Body),
		}
	}
	return nil
}
