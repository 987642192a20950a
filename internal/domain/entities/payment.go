package entities

import (
	"math"
	"strings"
	"time"
)

// PaymentMethod selects the provider that serves a request.

type PaymentMethod string

const (
	PaymentMethodRazorpay PaymentMethod = "razorpay"
	PaymentMethodZoho     PaymentMethod = "zoho"
)

// ParsePaymentMethod normalizes the discriminator sent by callers.
// The second value reports whether the method is one of the known providers.
func ParsePaymentMethod(raw string) (PaymentMethod, bool) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(raw)))
	switch m {
	case PaymentMethodRazorpay, PaymentMethodZoho:
		return m, true
	}
	return m, false
}

// PaymentStatus is the normalized status vocabulary shared by every provider.

type PaymentStatus string

const (
	PaymentStatusCreated   PaymentStatus = "created"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

const DefaultCurrency = "INR"

// MinorUnits converts a decimal major-currency amount (rupees) into integer
// minor units (paise) the way the providers round it.
func MinorUnits(major float64) int64 {
	return int64(math.Round(major * 100))
}

// MajorUnits converts integer minor units back into the major currency unit.
// The result is exact (29950 -> 299.5), not rounded to whole rupees.
func MajorUnits(minor int64) float64 {
	return float64(minor) / 100
}

// PaymentRequest is the caller input for creating a payment.
//
// Amount is expressed in the major currency unit, as sent by the storefront.

type PaymentRequest struct {
	OrderID       string
	Amount        float64
	Currency      string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	ProductInfo   string
	Method        PaymentMethod
}

// PaymentCreation is the result of creating a payment with a provider.
//
// Exactly one of the provider blocks is populated, selected by Method:
//   - razorpay: RazorpayOrderID + KeyID, used by the checkout script.
//   - zoho: SessionID + SessionData, used to initialize the checkout widget.

type PaymentCreation struct {
	Method        PaymentMethod
	OrderID       string
	AmountMinor   int64
	Currency      string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	ProductInfo   string

	RazorpayOrderID string
	KeyID           string

	SessionID   string
	SessionData map[string]any
}

// PaymentVerification is the normalized outcome of verifying a checkout response.

type PaymentVerification struct {
	Method         PaymentMethod
	TransactionID  string
	OrderID        string
	AmountMinor    int64
	Currency       string
	Verified       bool
	Status         PaymentStatus
	ProviderStatus string
	CustomerEmail  string
}

// RefundRequest carries both the legacy "amount" and the explicit "refundAmount"
// fields; RefundAmount wins when both are present.

type RefundRequest struct {
	TransactionID string
	Amount        *float64
	RefundAmount  *float64
	Reason        string
	Method        PaymentMethod
}

// EffectiveAmount resolves refundAmount ?? amount. Zero means no amount was given.
func (r RefundRequest) EffectiveAmount() float64 {
	if r.RefundAmount != nil {
		return *r.RefundAmount
	}
	if r.Amount != nil {
		return *r.Amount
	}
	return 0
}

// Refund is a single refund processed by a provider. Partial refund history
// is not tracked.

type Refund struct {
	Method        PaymentMethod
	RefundID      string
	AmountMinor   int64
	Status        string
	Reason        string
	TransactionID string
	ProcessedAt   time.Time
}

// Transaction is a provider payment normalized to minor units.

type Transaction struct {
	Method         PaymentMethod
	PaymentID      string
	OrderID        string
	AmountMinor    int64
	Currency       string
	Status         PaymentStatus
	ProviderStatus string
	PaymentType    string
	CreatedAt      time.Time
}

// TransactionList is one provider branch of a listing.

type TransactionList struct {
	Success      bool
	Transactions []Transaction
	Error        string
}

// AllTransactions groups the per-provider listings.

type AllTransactions struct {
	Razorpay TransactionList
	Zoho     TransactionList
}
