package interfaces

import (
	"context"
	"payment_gateway/internal/domain/entities"
)

// ICredentialStore is the external store holding Zoho Payments secrets and tokens.
//
// Update has merge semantics: fields left nil in the update are never dropped.

type ICredentialStore interface {
	Get(ctx context.Context) (entities.ZohoCredentials, error)
	Update(ctx context.Context, update entities.CredentialUpdate) error
}

// IRazorpayKeySource resolves the razorpay key id and secret.

type IRazorpayKeySource interface {
	RazorpayKeys(ctx context.Context) (entities.RazorpayKeys, error)
}
