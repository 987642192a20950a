package request

import (
	"encoding/json"
	"strings"

	"payment_gateway/internal/domain/entities"
)

// CreatePaymentRequest is the storefront payload for starting a payment.
//
// Required fields are checked by the use case so every missing field is
// reported at once; binding only rejects malformed values.
type CreatePaymentRequest struct {
	OrderID       string  `json:"orderId"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail" binding:"omitempty,email"`
	CustomerPhone string  `json:"customerPhone"`
	ProductInfo   string  `json:"productInfo"`
	PaymentMethod string  `json:"paymentMethod"`
}

func (r CreatePaymentRequest) ToEntity() entities.PaymentRequest {
	return entities.PaymentRequest{
		OrderID:       r.OrderID,
		Amount:        r.Amount,
		Currency:      strings.ToUpper(strings.TrimSpace(r.Currency)),
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		ProductInfo:   r.ProductInfo,
		Method:        entities.PaymentMethod(r.PaymentMethod),
	}
}

// VerifyPaymentRequest wraps the checkout response exactly as the provider
// widget handed it to the storefront.
type VerifyPaymentRequest struct {
	PaymentMethod string          `json:"paymentMethod"`
	Response      json.RawMessage `json:"response"`
}

func (r VerifyPaymentRequest) Method() entities.PaymentMethod {
	return entities.PaymentMethod(r.PaymentMethod)
}

// RefundRequest accepts both "amount" and "refundAmount"; the latter wins.
type RefundRequest struct {
	TransactionID string   `json:"transactionId"`
	Amount        *float64 `json:"amount"`
	RefundAmount  *float64 `json:"refundAmount"`
	Reason        string   `json:"reason"`
	PaymentMethod string   `json:"paymentMethod"`
}

func (r RefundRequest) ToEntity() entities.RefundRequest {
	return entities.RefundRequest{
		TransactionID: r.TransactionID,
		Amount:        r.Amount,
		RefundAmount:  r.RefundAmount,
		Reason:        r.Reason,
		Method:        entities.PaymentMethod(r.PaymentMethod),
	}
}
