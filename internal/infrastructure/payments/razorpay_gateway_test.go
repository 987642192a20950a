package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/infrastructure/secrets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKeyID     = "rzp_test_key"
	testKeySecret = "rzp_test_secret"
)

func newTestRazorpay(rt http.RoundTripper) *RazorpayGateway {
	keys := secrets.NewStaticRazorpayKeys(testKeyID, testKeySecret)
	return NewRazorpayGateway("https://api.razorpay.test/v1", "INR", keys, newTestClient("razorpay", rt))
}

func signHex(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

func sign(orderID, paymentID string) string {
	return signHex(testKeySecret, orderID+"|"+paymentID)
}

func TestVerifyRazorpaySignature(t *testing.T) {
	orderID := "order_ABC123"
	paymentID := "pay_XYZ789"
	good := signHex(testKeySecret, orderID+"|"+paymentID)

	assert.True(t, VerifyRazorpaySignature(testKeySecret, orderID, paymentID, good))
	assert.True(t, VerifyRazorpaySignature(testKeySecret, orderID, paymentID, good), "deterministic")

	alter := func(s string) string {
		b := []byte(s)
		if b[len(b)-1] == 'a' {
			b[len(b)-1] = 'b'
		} else {
			b[len(b)-1] = 'a'
		}
		return string(b)
	}

	assert.False(t, VerifyRazorpaySignature(testKeySecret, alter(orderID), paymentID, good))
	assert.False(t, VerifyRazorpaySignature(testKeySecret, orderID, alter(paymentID), good))
	assert.False(t, VerifyRazorpaySignature(testKeySecret, orderID, paymentID, alter(good)))
	assert.False(t, VerifyRazorpaySignature(testKeySecret, orderID, paymentID, good[:len(good)-1]))
	assert.False(t, VerifyRazorpaySignature("other-secret", orderID, paymentID, good))
}

func TestRazorpayGateway_CreatePayment(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		gw := newTestRazorpay(MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Equal(t, "https://api.razorpay.test/v1/orders", req.URL.String())

			user, pass, ok := req.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, testKeyID, user)
			assert.Equal(t, testKeySecret, pass)

			raw, _ := io.ReadAll(req.Body)
			var body map[string]any
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, float64(29900), body["amount"])
			assert.Equal(t, "INR", body["currency"])
			assert.Equal(t, "ORD-1", body["receipt"])
			notes := body["notes"].(map[string]any)
			assert.Equal(t, "Asha", notes["customer_name"])
			assert.NotContains(t, notes, "customer_phone")

			return jsonResponse(http.StatusOK, `{"id":"order_ABC123","amount":29900,"currency":"INR","receipt":"ORD-1","status":"created"}`)
		}))

		res, err := gw.CreatePayment(context.Background(), entities.PaymentRequest{
			OrderID:       "ORD-1",
			Amount:        299.00,
			CustomerName:  "Asha",
			CustomerEmail: "asha@example.com",
			Method:        entities.PaymentMethodRazorpay,
		})
		require.NoError(t, err)
		assert.Equal(t, "order_ABC123", res.RazorpayOrderID)
		assert.Equal(t, int64(29900), res.AmountMinor)
		assert.Equal(t, testKeyID, res.KeyID)
		assert.Equal(t, "INR", res.Currency)
		assert.Equal(t, "ORD-1", res.OrderID)
	})

	t.Run("Provider error", func(t *testing.T) {
		gw := newTestRazorpay(MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusBadRequest, `{"error":{"code":"BAD_REQUEST_ERROR","description":"amount too small"}}`)
		}))

		_, err := gw.CreatePayment(context.Background(), entities.PaymentRequest{OrderID: "ORD-1", Amount: 0.5})
		var pe *entities.ProviderError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, http.StatusBadRequest, pe.StatusCode)
		assert.Equal(t, "amount too small", pe.Message)
		assert.Equal(t, "BAD_REQUEST_ERROR", pe.Code)
	})

	t.Run("Not configured", func(t *testing.T) {
		called := false
		gw := NewRazorpayGateway("https://api.razorpay.test/v1", "INR",
			secrets.NewStaticRazorpayKeys(testKeyID, ""),
			newTestClient("razorpay", MockRoundTripper(func(req *http.Request) *http.Response {
				called = true
				return jsonResponse(http.StatusOK, `{}`)
			})))

		_, err := gw.CreatePayment(context.Background(), entities.PaymentRequest{OrderID: "ORD-1", Amount: 10})
		assert.True(t, errors.Is(err, entities.ErrProviderNotConfigured))
		assert.False(t, called)
	})
}

func TestRazorpayGateway_VerifyPayment(t *testing.T) {
	orderID := "order_ABC123"
	paymentID := "pay_XYZ789"

	payload := func(sig string) json.RawMessage {
		b, _ := json.Marshal(map[string]string{
			"razorpay_order_id":   orderID,
			"razorpay_payment_id": paymentID,
			"razorpay_signature":  sig,
		})
		return b
	}

	t.Run("Valid signature", func(t *testing.T) {
		gw := newTestRazorpay(MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Equal(t, "/v1/payments/"+paymentID, req.URL.Path)
			return jsonResponse(http.StatusOK, `{"id":"pay_XYZ789","order_id":"order_ABC123","amount":29900,"currency":"INR","status":"captured","method":"upi","email":"asha@example.com","created_at":1700000000}`)
		}))

		res, err := gw.VerifyPayment(context.Background(), payload(sign(orderID, paymentID)))
		require.NoError(t, err)
		assert.True(t, res.Verified)
		assert.Equal(t, paymentID, res.TransactionID)
		assert.Equal(t, orderID, res.OrderID)
		assert.Equal(t, int64(29900), res.AmountMinor)
		assert.Equal(t, entities.PaymentStatusSucceeded, res.Status)
		assert.Equal(t, "captured", res.ProviderStatus)
		assert.Equal(t, "asha@example.com", res.CustomerEmail)
	})

	t.Run("Invalid signature never calls provider", func(t *testing.T) {
		called := false
		gw := newTestRazorpay(MockRoundTripper(func(req *http.Request) *http.Response {
			called = true
			return jsonResponse(http.StatusOK, `{}`)
		}))

		_, err := gw.VerifyPayment(context.Background(), payload(strings.Repeat("0", 64)))
		assert.True(t, errors.Is(err, entities.ErrInvalidSignature))
		assert.False(t, called)
	})

	t.Run("Missing fields", func(t *testing.T) {
		gw := newTestRazorpay(MockRoundTripper(func(req *http.Request) *http.Response {
			t.Fatalf("unexpected request to %s", req.URL)
			return nil
		}))

		_, err := gw.VerifyPayment(context.Background(), json.RawMessage(`{"razorpay_order_id":"order_1"}`))
		assert.True(t, errors.Is(err, entities.ErrInvalidCheckoutPayload))
		assert.Contains(t, err.Error(), "razorpay_payment_id")
		assert.Contains(t, err.Error(), "razorpay_signature")
	})

	t.Run("Malformed payload", func(t *testing.T) {
		gw := newTestRazorpay(MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusOK, `{}`)
		}))

		_, err := gw.VerifyPayment(context.Background(), json.RawMessage(`"not an object"`))
		assert.True(t, errors.Is(err, entities.ErrInvalidCheckoutPayload))
	})
}

func TestRazorpayGateway_Refund(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		gw := newTestRazorpay(MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Equal(t, "/v1/payments/pay_1/refund", req.URL.Path)

			raw, _ := io.ReadAll(req.Body)
			var body map[string]any
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, float64(10000), body["amount"])
			assert.Equal(t, "damaged copy", body["notes"].(map[string]any)["reason"])

			return jsonResponse(http.StatusOK, `{"id":"R1","payment_id":"pay_1","amount":10000,"status":"processed","created_at":1700000000}`)
		}))

		res, err := gw.Refund(context.Background(), "pay_1", 10000, "damaged copy")
		require.NoError(t, err)
		assert.Equal(t, "R1", res.RefundID)
		assert.Equal(t, int64(10000), res.AmountMinor)
		assert.Equal(t, 100.0, entities.MajorUnits(res.AmountMinor))
		assert.Equal(t, "processed", res.Status)
		assert.Equal(t, "pay_1", res.TransactionID)
		assert.Equal(t, int64(1700000000), res.ProcessedAt.Unix())
	})

	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"Bad request surfaces description", http.StatusBadRequest, `{"error":{"code":"BAD_REQUEST_ERROR","description":"The refund amount provided is greater than amount captured"}}`, "The refund amount provided is greater than amount captured"},
		{"Not found", http.StatusNotFound, `{"error":{"code":"BAD_REQUEST_ERROR","description":"The id provided does not exist"}}`, "payment not found"},
		{"Other failure", http.StatusUnauthorized, `{"error":{"code":"BAD_REQUEST_ERROR","description":"Authentication failed"}}`, "Authentication failed"},
		{"Other failure without description", http.StatusBadGateway, `{}`, "Bad Gateway"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := newTestRazorpay(MockRoundTripper(func(req *http.Request) *http.Response {
				return jsonResponse(tc.status, tc.body)
			}))

			_, err := gw.Refund(context.Background(), "pay_1", 10000, "")
			var pe *entities.ProviderError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tc.status, pe.StatusCode)
			assert.Equal(t, tc.message, pe.Message)
		})
	}

	t.Run("Transport error", func(t *testing.T) {
		gw := newTestRazorpay(MockRoundTripperWithError(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection reset")
		}))

		_, err := gw.Refund(context.Background(), "pay_1", 10000, "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
	})
}

func TestRazorpayGateway_GetTransactionStatus(t *testing.T) {
	gw := newTestRazorpay(MockRoundTripper(func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusOK, `{"id":"pay_1","order_id":"order_1","amount":5000,"currency":"INR","status":"authorized","method":"card","created_at":1700000000}`)
	}))

	tx, err := gw.GetTransactionStatus(context.Background(), "pay_1")
	require.NoError(t, err)
	assert.Equal(t, "pay_1", tx.PaymentID)
	assert.Equal(t, entities.PaymentStatusPending, tx.Status)
	assert.Equal(t, "authorized", tx.ProviderStatus)
	assert.Equal(t, "card", tx.PaymentType)
	assert.Equal(t, int64(5000), tx.AmountMinor)
}

func TestRazorpayGateway_ListTransactions(t *testing.T) {
	t.Run("Drops malformed entries", func(t *testing.T) {
		gw := newTestRazorpay(MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, "/v1/payments", req.URL.Path)
			assert.Equal(t, "50", req.URL.Query().Get("count"))
			assert.Equal(t, "0", req.URL.Query().Get("skip"))
			return jsonResponse(http.StatusOK, `{"entity":"collection","count":3,"items":[
				{"id":"pay_1","order_id":"order_1","amount":10000,"currency":"INR","status":"captured","created_at":1700000000},
				{"id":"pay_2","amount":"not-a-number"},
				{"order_id":"order_3","amount":300}
			]}`)
		}))

		txs, err := gw.ListTransactions(context.Background())
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, "pay_1", txs[0].PaymentID)
		assert.Equal(t, entities.PaymentStatusSucceeded, txs[0].Status)
		assert.Equal(t, entities.PaymentMethodRazorpay, txs[0].Method)
	})

	t.Run("Provider error", func(t *testing.T) {
		gw := newTestRazorpay(MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusUnauthorized, `{"error":{"description":"Authentication failed"}}`)
		}))

		_, err := gw.ListTransactions(context.Background())
		var pe *entities.ProviderError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "Authentication failed", pe.Message)
	})
}
