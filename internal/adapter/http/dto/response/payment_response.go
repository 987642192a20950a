package response

import (
	"time"

	"payment_gateway/internal/domain/entities"
)

type CreatePaymentResponse struct {
	Success       bool   `json:"success"`
	PaymentMethod string `json:"paymentMethod"`
	OrderID       string `json:"orderId"`
	// Paise for razorpay (the checkout script consumes it); major units for zoho.
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone string  `json:"customerPhone,omitempty"`
	ProductInfo   string  `json:"productInfo,omitempty"`

	RazorpayOrderID string `json:"razorpayOrderId,omitempty"`
	KeyID           string `json:"keyId,omitempty"`

	// Zoho session id, repeated under the names the checkout widget reads.
	SessionID      string         `json:"sessionId,omitempty"`
	PaymentID      string         `json:"payment_id,omitempty"`
	SessionIDAlias string         `json:"session_id,omitempty"`
	SessionData    map[string]any `json:"sessionData,omitempty"`
}

func FromPaymentCreation(p entities.PaymentCreation) CreatePaymentResponse {
	out := CreatePaymentResponse{
		Success:       true,
		PaymentMethod: string(p.Method),
		OrderID:       p.OrderID,
		Amount:        entities.MajorUnits(p.AmountMinor),
		Currency:      p.Currency,
		CustomerName:  p.CustomerName,
		CustomerEmail: p.CustomerEmail,
		CustomerPhone: p.CustomerPhone,
		ProductInfo:   p.ProductInfo,
	}
	switch p.Method {
	case entities.PaymentMethodRazorpay:
		out.Amount = float64(p.AmountMinor)
		out.RazorpayOrderID = p.RazorpayOrderID
		out.KeyID = p.KeyID
	case entities.PaymentMethodZoho:
		out.SessionID = p.SessionID
		out.PaymentID = p.SessionID
		out.SessionIDAlias = p.SessionID
		out.SessionData = p.SessionData
	}
	return out
}

type VerifyPaymentResponse struct {
	Success        bool    `json:"success"`
	PaymentMethod  string  `json:"paymentMethod"`
	TransactionID  string  `json:"transactionId"`
	OrderID        string  `json:"orderId"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	Verified       bool    `json:"verified"`
	Status         string  `json:"status,omitempty"`
	ProviderStatus string  `json:"providerStatus,omitempty"`
}

func FromPaymentVerification(v entities.PaymentVerification) VerifyPaymentResponse {
	return VerifyPaymentResponse{
		Success:        true,
		PaymentMethod:  string(v.Method),
		TransactionID:  v.TransactionID,
		OrderID:        v.OrderID,
		Amount:         entities.MajorUnits(v.AmountMinor),
		Currency:       v.Currency,
		Verified:       v.Verified,
		Status:         string(v.Status),
		ProviderStatus: v.ProviderStatus,
	}
}

type RefundResponse struct {
	Success       bool      `json:"success"`
	PaymentMethod string    `json:"paymentMethod"`
	RefundID      string    `json:"refundId"`
	RefundAmount  float64   `json:"refundAmount"`
	Status        string    `json:"status"`
	Reason        string    `json:"reason,omitempty"`
	TransactionID string    `json:"transactionId"`
	ProcessedAt   time.Time `json:"processedAt"`
}

func FromRefund(r entities.Refund) RefundResponse {
	return RefundResponse{
		Success:       true,
		PaymentMethod: string(r.Method),
		RefundID:      r.RefundID,
		RefundAmount:  entities.MajorUnits(r.AmountMinor),
		Status:        r.Status,
		Reason:        r.Reason,
		TransactionID: r.TransactionID,
		ProcessedAt:   r.ProcessedAt,
	}
}

type TransactionResponse struct {
	PaymentMethod  string     `json:"paymentMethod"`
	PaymentID      string     `json:"paymentId"`
	OrderID        string     `json:"orderId,omitempty"`
	Amount         float64    `json:"amount"`
	Currency       string     `json:"currency"`
	Status         string     `json:"status"`
	ProviderStatus string     `json:"providerStatus,omitempty"`
	PaymentType    string     `json:"paymentType,omitempty"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
}

func FromTransaction(t entities.Transaction) TransactionResponse {
	out := TransactionResponse{
		PaymentMethod:  string(t.Method),
		PaymentID:      t.PaymentID,
		OrderID:        t.OrderID,
		Amount:         entities.MajorUnits(t.AmountMinor),
		Currency:       t.Currency,
		Status:         string(t.Status),
		ProviderStatus: t.ProviderStatus,
		PaymentType:    t.PaymentType,
	}
	if !t.CreatedAt.IsZero() {
		created := t.CreatedAt
		out.CreatedAt = &created
	}
	return out
}

type TransactionStatusResponse struct {
	Success bool `json:"success"`
	TransactionResponse
}

func FromTransactionStatus(t entities.Transaction) TransactionStatusResponse {
	return TransactionStatusResponse{Success: true, TransactionResponse: FromTransaction(t)}
}

type TransactionListResponse struct {
	Success      bool                  `json:"success"`
	Transactions []TransactionResponse `json:"transactions"`
	Error        string                `json:"error,omitempty"`
}

// AllTransactionsResponse always succeeds at the top level; provider
// failures are reported in their own branch.
type AllTransactionsResponse struct {
	Success  bool                    `json:"success"`
	Razorpay TransactionListResponse `json:"razorpay"`
	Zoho     TransactionListResponse `json:"zoho"`
}

func FromAllTransactions(all entities.AllTransactions) AllTransactionsResponse {
	return AllTransactionsResponse{
		Success:  true,
		Razorpay: fromTransactionList(all.Razorpay),
		Zoho:     fromTransactionList(all.Zoho),
	}
}

func fromTransactionList(l entities.TransactionList) TransactionListResponse {
	// Always an array on the wire, never null.
	txs := make([]TransactionResponse, 0, len(l.Transactions))
	for _, t := range l.Transactions {
		txs = append(txs, FromTransaction(t))
	}
	return TransactionListResponse{Success: l.Success, Transactions: txs, Error: l.Error}
}

type PaymentRecordResponse struct {
	TransactionID string    `json:"transactionId"`
	OrderID       string    `json:"orderId"`
	PaymentMethod string    `json:"paymentMethod"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	RecordedAt    time.Time `json:"recordedAt"`
}

func FromPaymentRecord(r entities.PaymentRecord) PaymentRecordResponse {
	return PaymentRecordResponse{
		TransactionID: r.TransactionID,
		OrderID:       r.OrderID,
		PaymentMethod: string(r.Method),
		Amount:        entities.MajorUnits(r.AmountMinor),
		Currency:      r.Currency,
		Status:        string(r.Status),
		CustomerEmail: r.CustomerEmail,
		RecordedAt:    r.RecordedAt,
	}
}
