package pkg

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError(t *testing.T) {
	cause := errors.New("zoho error (status=500): boom")
	e := NewDomainError("PAYMENT_PROVIDER_ERROR", "Payment provider error", cause, http.StatusBadGateway)

	if !errors.Is(e, cause) {
		t.Fatalf("expected wrapped cause")
	}
	if e.Error() != "PAYMENT_PROVIDER_ERROR: Payment provider error: zoho error (status=500): boom" {
		t.Fatalf("unexpected message: %s", e.Error())
	}

	body := e.ToHTTPError()
	if body.Success || body.Details != "" || body.Code != "PAYMENT_PROVIDER_ERROR" {
		t.Fatalf("unexpected body: %+v", body)
	}

	debug := e.ToDebugHTTPError()
	if debug.Details != cause.Error() {
		t.Fatalf("expected details in debug body, got %+v", debug)
	}

	simple := NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	if simple.Error() != "INVALID_REQUEST: Invalid request" || simple.ToDebugHTTPError().Details != "" {
		t.Fatalf("unexpected simple error: %+v", simple)
	}
}
