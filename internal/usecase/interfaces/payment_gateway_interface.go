package interfaces

import (
	"context"
	"encoding/json"
	"payment_gateway/internal/domain/entities"
)

// IPaymentGateway abstracts one external payment provider (razorpay, Zoho Payments).
//
// Amounts cross this boundary in minor units; each implementation converts to
// and from its provider's wire unit. Implementations resolve their credentials
// lazily on every call and fail with entities.ErrProviderNotConfigured when
// they are absent.
type IPaymentGateway interface {
	Method() entities.PaymentMethod
	CreatePayment(ctx context.Context, req entities.PaymentRequest) (entities.PaymentCreation, error)
	// VerifyPayment checks the raw checkout response sent back by the storefront.
	VerifyPayment(ctx context.Context, checkoutResponse json.RawMessage) (entities.PaymentVerification, error)
	Refund(ctx context.Context, transactionID string, amountMinor int64, reason string) (entities.Refund, error)
	GetTransactionStatus(ctx context.Context, transactionID string) (entities.Transaction, error)
	ListTransactions(ctx context.Context) ([]entities.Transaction, error)
}
