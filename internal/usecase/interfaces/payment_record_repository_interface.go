package interfaces

import (
	"context"
	"payment_gateway/internal/domain/entities"
)

// IPaymentRecordRepository abstracts DynamoDB persistence for PaymentRecord.
//
// Create must fail with entities.ErrPaymentRecordExists when a record with the
// same transaction id is already stored.

type IPaymentRecordRepository interface {
	Create(ctx context.Context, r entities.PaymentRecord) (entities.PaymentRecord, error)
	GetByTransactionID(ctx context.Context, transactionID string) (entities.PaymentRecord, error)
}
