package entities

import "strings"

// NormalizeRazorpayStatus maps the razorpay payment/order vocabulary.
func NormalizeRazorpayStatus(raw string) PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "created":
		return PaymentStatusCreated
	case "authorized", "attempted":
		return PaymentStatusPending
	case "captured", "paid":
		return PaymentStatusSucceeded
	case "refunded":
		return PaymentStatusRefunded
	case "failed":
		return PaymentStatusFailed
	default:
		return PaymentStatusPending
	}
}

// NormalizeZohoStatus maps the Zoho Payments vocabulary.
func NormalizeZohoStatus(raw string) PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "initiated", "pending", "processing", "created":
		return PaymentStatusPending
	case "succeeded", "success", "paid":
		return PaymentStatusSucceeded
	case "failed", "canceled", "cancelled", "expired", "blocked":
		return PaymentStatusFailed
	case "refunded", "partially_refunded":
		return PaymentStatusRefunded
	default:
		return PaymentStatusPending
	}
}
