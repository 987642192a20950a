package entities

// Payment lifecycle events published for downstream consumers.
const (
	EventPaymentVerified = "payment.verified"
	EventPaymentRefunded = "payment.refunded"
)
