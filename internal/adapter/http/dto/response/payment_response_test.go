package response

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"payment_gateway/internal/domain/entities"
)

func TestFromPaymentCreation_Razorpay(t *testing.T) {
	res := FromPaymentCreation(entities.PaymentCreation{
		Method:          entities.PaymentMethodRazorpay,
		OrderID:         "ord-1",
		AmountMinor:     29900,
		Currency:        "INR",
		CustomerName:    "Asha",
		RazorpayOrderID: "order_X",
		KeyID:           "rzp_test",
	})

	if res.Amount != 29900 {
		t.Fatalf("razorpay amount should stay in paise, got %v", res.Amount)
	}
	if !res.Success || res.RazorpayOrderID != "order_X" || res.KeyID != "rzp_test" {
		t.Fatalf("unexpected response: %+v", res)
	}
	if res.SessionID != "" || res.SessionData != nil {
		t.Fatalf("zoho block must be empty: %+v", res)
	}
}

func TestFromPaymentCreation_Zoho(t *testing.T) {
	res := FromPaymentCreation(entities.PaymentCreation{
		Method:      entities.PaymentMethodZoho,
		AmountMinor: 29950,
		SessionID:   "ps_1",
		SessionData: map[string]any{"payments_session_id": "ps_1"},
	})

	if res.Amount != 299.5 {
		t.Fatalf("zoho amount should be major units, got %v", res.Amount)
	}
	if res.SessionID != "ps_1" || res.PaymentID != "ps_1" || res.SessionIDAlias != "ps_1" {
		t.Fatalf("unexpected session ids: %+v", res)
	}
	if res.RazorpayOrderID != "" {
		t.Fatalf("razorpay block must be empty: %+v", res)
	}
}

func TestFromPaymentVerification(t *testing.T) {
	res := FromPaymentVerification(entities.PaymentVerification{
		Method:        entities.PaymentMethodRazorpay,
		TransactionID: "pay_1",
		OrderID:       "order_1",
		AmountMinor:   29900,
		Currency:      "INR",
		Verified:      true,
		Status:        entities.PaymentStatusSucceeded,
	})
	if res.Amount != 299 || !res.Verified || res.Status != "succeeded" {
		t.Fatalf("unexpected response: %+v", res)
	}
}

func TestFromRefund(t *testing.T) {
	now := time.Now().UTC()
	res := FromRefund(entities.Refund{RefundID: "R1", AmountMinor: 10000, Status: "processed", TransactionID: "pay_1", ProcessedAt: now})
	if res.RefundAmount != 100 || res.RefundID != "R1" || !res.ProcessedAt.Equal(now) {
		t.Fatalf("unexpected response: %+v", res)
	}
}

func TestFromAllTransactions_EmptyBranchIsArray(t *testing.T) {
	res := FromAllTransactions(entities.AllTransactions{
		Razorpay: entities.TransactionList{Success: true, Transactions: []entities.Transaction{{PaymentID: "pay_1", AmountMinor: 150}}},
		Zoho:     entities.TransactionList{Success: false, Error: "boom"},
	})

	if !res.Success {
		t.Fatalf("top level must succeed when a branch fails")
	}
	if len(res.Razorpay.Transactions) != 1 || res.Razorpay.Transactions[0].Amount != 1.5 {
		t.Fatalf("unexpected razorpay branch: %+v", res.Razorpay)
	}

	body, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(body), `"zoho":{"success":false,"transactions":[],"error":"boom"}`) {
		t.Fatalf("failing branch must carry an empty array: %s", body)
	}
}

func TestFromTransaction_OmitsZeroCreatedAt(t *testing.T) {
	res := FromTransaction(entities.Transaction{PaymentID: "pay_1"})
	if res.CreatedAt != nil {
		t.Fatalf("expected nil createdAt, got %v", res.CreatedAt)
	}
}

func TestFromPaymentRecord(t *testing.T) {
	res := FromPaymentRecord(entities.PaymentRecord{TransactionID: "pay_1", AmountMinor: 29900, Method: entities.PaymentMethodZoho})
	if res.Amount != 299 || res.PaymentMethod != "zoho" {
		t.Fatalf("unexpected response: %+v", res)
	}
}
