package payments

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"payment_gateway/internal/domain/entities"
	mock_interfaces "payment_gateway/internal/usecase/interfaces/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestZoho(t *testing.T, rt http.RoundTripper) *ZohoGateway {
	ctrl := gomock.NewController(t)
	store := mock_interfaces.NewMockICredentialStore(ctrl)
	store.EXPECT().Get(gomock.Any()).Return(validZohoCreds(time.Now().Add(time.Hour)), nil).AnyTimes()

	client := newTestClient("zoho", rt)
	tm := NewZohoTokenManager(store, "https://accounts.zoho.test", client)
	return NewZohoGateway("https://payments.zoho.test/api/v1", "Bookstore", "INR", tm, client)
}

func assertZohoAuth(t *testing.T, req *http.Request) {
	assert.Equal(t, "Zoho-oauthtoken access-1", req.Header.Get("Authorization"))
}

func TestZohoGateway_CreatePayment(t *testing.T) {
	validReq := entities.PaymentRequest{
		OrderID:       "ORD-7",
		Amount:        299.00,
		CustomerName:  "Asha",
		CustomerEmail: "asha@example.com",
		CustomerPhone: "9999999999",
		ProductInfo:   "Paperback edition",
		Method:        entities.PaymentMethodZoho,
	}

	t.Run("Success", func(t *testing.T) {
		gw := newTestZoho(t, MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Equal(t, "/api/v1/paymentsessions", req.URL.Path)
			assert.Equal(t, "acc-1", req.URL.Query().Get("account_id"))
			assertZohoAuth(t, req)

			raw, _ := io.ReadAll(req.Body)
			var body map[string]any
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, 299.0, body["amount"])
			assert.Equal(t, "INR", body["currency"])
			assert.Equal(t, "ORD-7", body["invoice_number"])
			assert.Equal(t, "Paperback edition", body["description"])
			assert.Len(t, body["meta_data"], 4)

			return jsonResponse(http.StatusCreated, `{"code":0,"message":"success","payments_session":{"payments_session_id":"ps_100","amount":"299.00","currency":"INR"}}`)
		}))

		res, err := gw.CreatePayment(context.Background(), validReq)
		require.NoError(t, err)
		assert.Equal(t, "ps_100", res.SessionID)
		assert.Equal(t, int64(29900), res.AmountMinor)
		assert.Equal(t, "acc-1", res.SessionData["account_id"])
		assert.Equal(t, "pay-key-1", res.SessionData["api_key"])
		assert.Equal(t, "ps_100", res.SessionData["payments_session_id"])
		assert.Equal(t, "Bookstore", res.SessionData["business"])
		assert.Equal(t, 299.0, res.SessionData["amount"])
		customer := res.SessionData["customer"].(map[string]string)
		assert.Equal(t, "asha@example.com", customer["email"])
	})

	t.Run("Validation fails before any call", func(t *testing.T) {
		gw := newTestZoho(t, MockRoundTripper(func(req *http.Request) *http.Response {
			t.Fatalf("unexpected request to %s", req.URL)
			return nil
		}))

		bad := validReq
		bad.CustomerEmail = ""
		bad.Amount = 0
		_, err := gw.CreatePayment(context.Background(), bad)
		assert.True(t, errors.Is(err, entities.ErrInvalidPaymentData))
		assert.Contains(t, err.Error(), "customerEmail")
		assert.Contains(t, err.Error(), "amount")
	})

	t.Run("Non-zero code is an error", func(t *testing.T) {
		gw := newTestZoho(t, MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusOK, `{"code":1038,"message":"Invalid amount"}`)
		}))

		_, err := gw.CreatePayment(context.Background(), validReq)
		var pe *entities.ProviderError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "1038", pe.Code)
		assert.Equal(t, "Invalid amount", pe.Message)
		assert.Equal(t, entities.PaymentMethodZoho, pe.Provider)
	})
}

func TestZohoGateway_VerifyPayment(t *testing.T) {
	paymentBody := `{"code":0,"message":"success","payment":{"payment_id":"pay_1","payments_session_id":"ps_1","amount":"299.00","currency":"INR","status":"succeeded","invoice_number":"ORD-7","receipt_email":"asha@example.com","date":1700000000}}`

	t.Run("Direct payment lookup", func(t *testing.T) {
		gw := newTestZoho(t, MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, "/api/v1/payments/pay_1", req.URL.Path)
			assert.Equal(t, "acc-1", req.URL.Query().Get("account_id"))
			return jsonResponse(http.StatusOK, paymentBody)
		}))

		res, err := gw.VerifyPayment(context.Background(), json.RawMessage(`{"payment_id":"pay_1","payments_session_id":"ps_1"}`))
		require.NoError(t, err)
		assert.True(t, res.Verified)
		assert.Equal(t, "pay_1", res.TransactionID)
		assert.Equal(t, "ORD-7", res.OrderID)
		assert.Equal(t, int64(29900), res.AmountMinor)
		assert.Equal(t, entities.PaymentStatusSucceeded, res.Status)
		assert.Equal(t, "asha@example.com", res.CustomerEmail)
	})

	t.Run("Failed payment is not verified", func(t *testing.T) {
		gw := newTestZoho(t, MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusOK, `{"code":0,"message":"success","payment":{"payment_id":"zp_1","amount":"299.00","currency":"INR","status":"failed","invoice_number":"ORD-9"}}`)
		}))

		res, err := gw.VerifyPayment(context.Background(), json.RawMessage(`{"payment_id":"zp_1"}`))
		require.NoError(t, err)
		assert.False(t, res.Verified)
		assert.Equal(t, entities.PaymentStatusFailed, res.Status)
		assert.Equal(t, "failed", res.ProviderStatus)
	})

	t.Run("Failed payment attached to session is not verified", func(t *testing.T) {
		gw := newTestZoho(t, MockRoundTripper(func(req *http.Request) *http.Response {
			if req.URL.Path == "/api/v1/payments/ps_1" {
				return jsonResponse(http.StatusNotFound, `{"code":1002,"message":"Payment does not exist"}`)
			}
			return jsonResponse(http.StatusOK, `{"code":0,"payments_session":{"payments_session_id":"ps_1","amount":"299.00","currency":"INR","status":"created","invoice_number":"ORD-9","payments":[{"payment_id":"zp_2","amount":"299.00","status":"canceled"}]}}`)
		}))

		res, err := gw.VerifyPayment(context.Background(), json.RawMessage(`{"session_id":"ps_1"}`))
		require.NoError(t, err)
		assert.False(t, res.Verified)
		assert.Equal(t, entities.PaymentStatusFailed, res.Status)
		assert.Equal(t, "zp_2", res.TransactionID)
	})

	t.Run("Falls back to session lookup", func(t *testing.T) {
		var paths []string
		gw := newTestZoho(t, MockRoundTripper(func(req *http.Request) *http.Response {
			paths = append(paths, req.URL.Path)
			if req.URL.Path == "/api/v1/payments/pay_1" {
				return jsonResponse(http.StatusNotFound, `{"code":1002,"message":"Payment does not exist"}`)
			}
			return jsonResponse(http.StatusOK, `{"code":0,"payments_session":{"payments_session_id":"ps_1","amount":"299.00","currency":"INR","status":"paid","invoice_number":"ORD-7","payments":[{"payment_id":"pay_1","amount":"299.00","status":"success"}]}}`)
		}))

		res, err := gw.VerifyPayment(context.Background(), json.RawMessage(`{"payment_id":"pay_1","payments_session_id":"ps_1"}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"/api/v1/payments/pay_1", "/api/v1/paymentsessions/ps_1"}, paths)
		assert.True(t, res.Verified)
		assert.Equal(t, "pay_1", res.TransactionID)
		assert.Equal(t, "ORD-7", res.OrderID)
		assert.Equal(t, "INR", res.Currency)
		assert.Equal(t, entities.PaymentStatusSucceeded, res.Status)
	})

	t.Run("Session without payment is pending", func(t *testing.T) {
		gw := newTestZoho(t, MockRoundTripper(func(req *http.Request) *http.Response {
			if req.URL.Path == "/api/v1/payments/ps_1" {
				return jsonResponse(http.StatusOK, `{"code":1002,"message":"Payment does not exist"}`)
			}
			return jsonResponse(http.StatusOK, `{"code":0,"payments_session":{"payments_session_id":"ps_1","amount":150.5,"currency":"INR","status":"created","invoice_number":"ORD-8","payments":[]}}`)
		}))

		res, err := gw.VerifyPayment(context.Background(), json.RawMessage(`{"session_id":"ps_1"}`))
		require.NoError(t, err)
		assert.False(t, res.Verified)
		assert.Equal(t, entities.PaymentStatusPending, res.Status)
		assert.Equal(t, "ps_1", res.TransactionID)
		assert.Equal(t, "ORD-8", res.OrderID)
		assert.Equal(t, int64(15050), res.AmountMinor)
	})

	t.Run("Both lookups failing", func(t *testing.T) {
		gw := newTestZoho(t, MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusNotFound, `{"code":1002,"message":"not found"}`)
		}))

		_, err := gw.VerifyPayment(context.Background(), json.RawMessage(`{"payment_id":"pay_1"}`))
		assert.True(t, errors.Is(err, entities.ErrVerificationFailed))
	})

	t.Run("Missing identifiers", func(t *testing.T) {
		gw := newTestZoho(t, MockRoundTripper(func(req *http.Request) *http.Response {
			t.Fatalf("unexpected request to %s", req.URL)
			return nil
		}))

		_, err := gw.VerifyPayment(context.Background(), json.RawMessage(`{}`))
		assert.True(t, errors.Is(err, entities.ErrInvalidCheckoutPayload))
	})
}

func TestZohoGateway_Refund(t *testing.T) {
	t.Run("Default reason and major units", func(t *testing.T) {
		gw := newTestZoho(t, MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Equal(t, "/api/v1/payments/pay_1/refunds", req.URL.Path)
			assertZohoAuth(t, req)

			raw, _ := io.ReadAll(req.Body)
			var body map[string]any
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, 100.0, body["amount"])
			assert.Equal(t, "requested_by_customer", body["reason"])
			assert.Equal(t, "initiated_by_merchant", body["type"])

			return jsonResponse(http.StatusOK, `{"code":0,"message":"success","refund":{"refund_id":"rf_1","payment_id":"pay_1","amount":"100.00","status":"initiated","date":1700000100}}`)
		}))

		res, err := gw.Refund(context.Background(), "pay_1", 10000, "")
		require.NoError(t, err)
		assert.Equal(t, "rf_1", res.RefundID)
		assert.Equal(t, int64(10000), res.AmountMinor)
		assert.Equal(t, "requested_by_customer", res.Reason)
		assert.Equal(t, "initiated", res.Status)
		assert.Equal(t, int64(1700000100), res.ProcessedAt.Unix())
	})

	t.Run("Provider failure", func(t *testing.T) {
		gw := newTestZoho(t, MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusBadRequest, `{"code":1040,"message":"Refund amount exceeds payment"}`)
		}))

		_, err := gw.Refund(context.Background(), "pay_1", 10000, "damaged")
		var pe *entities.ProviderError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, http.StatusBadRequest, pe.StatusCode)
		assert.Equal(t, "Refund amount exceeds payment", pe.Message)
	})
}

func TestZohoGateway_GetTransactionStatus(t *testing.T) {
	gw := newTestZoho(t, MockRoundTripper(func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusOK, `{"code":0,"payment":{"payment_id":"pay_1","amount":"50.25","currency":"INR","status":"processing","payment_method":{"type":"upi"}}}`)
	}))

	tx, err := gw.GetTransactionStatus(context.Background(), "pay_1")
	require.NoError(t, err)
	assert.Equal(t, entities.PaymentStatusPending, tx.Status)
	assert.Equal(t, "processing", tx.ProviderStatus)
	assert.Equal(t, int64(5025), tx.AmountMinor)
	assert.Equal(t, "upi", tx.PaymentType)
}

func TestZohoGateway_ListTransactions(t *testing.T) {
	t.Run("Retries with account scope", func(t *testing.T) {
		var queries []string
		gw := newTestZoho(t, MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, "/api/v1/payments", req.URL.Path)
			queries = append(queries, req.URL.RawQuery)
			if req.URL.Query().Get("account_id") == "" {
				return jsonResponse(http.StatusOK, `{"code":7,"message":"account_id is required"}`)
			}
			return jsonResponse(http.StatusOK, `{"code":0,"payments":[
				{"payment_id":"pay_1","amount":"10.00","currency":"INR","status":"succeeded","date":1700000000},
				{"payment_id":"pay_2","amount":"oops"},
				{"amount":"5.00"}
			]}`)
		}))

		txs, err := gw.ListTransactions(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"", "account_id=acc-1"}, queries)
		require.Len(t, txs, 1)
		assert.Equal(t, "pay_1", txs[0].PaymentID)
		assert.Equal(t, int64(1000), txs[0].AmountMinor)
		assert.Equal(t, entities.PaymentStatusSucceeded, txs[0].Status)
	})

	t.Run("Unscoped success needs one call", func(t *testing.T) {
		calls := 0
		gw := newTestZoho(t, MockRoundTripper(func(req *http.Request) *http.Response {
			calls++
			return jsonResponse(http.StatusOK, `{"code":0,"payments":[]}`)
		}))

		txs, err := gw.ListTransactions(context.Background())
		require.NoError(t, err)
		assert.Empty(t, txs)
		assert.Equal(t, 1, calls)
	})

	t.Run("Both attempts failing", func(t *testing.T) {
		gw := newTestZoho(t, MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusUnauthorized, `{"code":57,"message":"You are not authorized to perform this operation"}`)
		}))

		_, err := gw.ListTransactions(context.Background())
		var pe *entities.ProviderError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, http.StatusUnauthorized, pe.StatusCode)
	})
}
