package entities

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrProviderNotConfigured  = errors.New("payment provider not configured")
	ErrInvalidSignature       = errors.New("invalid payment signature")
	ErrVerificationFailed     = errors.New("payment verification failed")
	ErrInvalidPaymentData     = errors.New("invalid payment data")
	ErrInvalidCheckoutPayload = errors.New("invalid checkout response payload")
	ErrPaymentRecordExists    = errors.New("payment record already exists")
	ErrPaymentRecordNotFound  = errors.New("payment record not found")
)

// MissingCredentialsError enumerates every required credential that is absent.
type MissingCredentialsError struct {
	Provider PaymentMethod
	Fields   []string
}

func (e *MissingCredentialsError) Error() string {
	return fmt.Sprintf("%s credentials missing: %s", e.Provider, strings.Join(e.Fields, ", "))
}

func (e *MissingCredentialsError) Unwrap() error { return ErrProviderNotConfigured }

// ProviderError is a failure reported by a remote provider API, either a
// non-2xx HTTP status or a provider-specific failure code in a 2xx body.
type ProviderError struct {
	Provider   PaymentMethod
	StatusCode int
	Code       string
	Message    string
	Raw        string
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s error (status=%d code=%s): %s", e.Provider, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error (status=%d): %s", e.Provider, e.StatusCode, e.Message)
}
