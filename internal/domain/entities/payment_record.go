package entities

import (
	"encoding/json"
	"time"
)

// PaymentRecord is the system-of-record entry written once a payment is verified.
//
// Storage model (DynamoDB):
//   - PK: transaction_id
//
// The conditional put on transaction_id is what keeps two concurrent
// verifications of the same payment from producing two records.
//
// ProviderPayloadRaw keeps the checkout response as received for traceability.

type PaymentRecord struct {
	TransactionID string        `json:"transaction_id"`
	OrderID       string        `json:"order_id"`
	Method        PaymentMethod `json:"payment_method"`
	AmountMinor   int64         `json:"amount_minor"`
	Currency      string        `json:"currency"`
	Status        PaymentStatus `json:"status"`
	CustomerEmail string        `json:"customer_email,omitempty"`
	RecordedAt    time.Time     `json:"recorded_at"`

	ProviderPayloadRaw json.RawMessage `json:"provider_payload_raw,omitempty"`
}
