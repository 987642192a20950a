package entities

import (
	"strings"
	"time"
)

// TokenRefreshMargin is how long before expiry an access token stops being used.
const TokenRefreshMargin = 3 * time.Minute

// ZohoCredentials is the secret bundle kept in the credential store.
//
// Storage model (DynamoDB):
//   - PK: provider ("zoho")
//   - attribute names follow the environment variable names used to seed them.
//
// TokenExpiresAt is epoch milliseconds; zero means no token was ever issued.

type ZohoCredentials struct {
	ClientID          string `json:"ZOHO_CLIENT_ID" dynamodbav:"ZOHO_CLIENT_ID"`
	ClientSecret      string `json:"ZOHO_CLIENT_SECRET" dynamodbav:"ZOHO_CLIENT_SECRET"`
	RefreshToken      string `json:"ZOHO_REFRESH_TOKEN" dynamodbav:"ZOHO_REFRESH_TOKEN"`
	AccessToken       string `json:"ZOHO_ACCESS_TOKEN,omitempty" dynamodbav:"ZOHO_ACCESS_TOKEN,omitempty"`
	TokenExpiresAt    int64  `json:"token_expires_at,omitempty" dynamodbav:"token_expires_at,omitempty"`
	OrganizationID    string `json:"ZOHO_ORGANIZATION_ID" dynamodbav:"ZOHO_ORGANIZATION_ID"`
	PaymentsAccountID string `json:"ZOHO_PAYMENTS_ACCOUNT_ID" dynamodbav:"ZOHO_PAYMENTS_ACCOUNT_ID"`
	PayAPIKey         string `json:"ZOHO_PAY_API_KEY" dynamodbav:"ZOHO_PAY_API_KEY"`
	PaySigningKey     string `json:"ZOHO_PAY_SIGNING_KEY" dynamodbav:"ZOHO_PAY_SIGNING_KEY"`
}

// MissingFields lists every required field that is empty, in a stable order.
func (c ZohoCredentials) MissingFields() []string {
	required := []struct {
		name  string
		value string
	}{
		{"ZOHO_CLIENT_ID", c.ClientID},
		{"ZOHO_CLIENT_SECRET", c.ClientSecret},
		{"ZOHO_REFRESH_TOKEN", c.RefreshToken},
		{"ZOHO_ORGANIZATION_ID", c.OrganizationID},
		{"ZOHO_PAYMENTS_ACCOUNT_ID", c.PaymentsAccountID},
		{"ZOHO_PAY_API_KEY", c.PayAPIKey},
		{"ZOHO_PAY_SIGNING_KEY", c.PaySigningKey},
	}

	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// TokenUsable reports whether the access token can still be used at now,
// keeping TokenRefreshMargin of headroom before expiry.
func (c ZohoCredentials) TokenUsable(now time.Time) bool {
	if c.AccessToken == "" || c.TokenExpiresAt == 0 {
		return false
	}
	expiresAt := time.UnixMilli(c.TokenExpiresAt)
	return now.Before(expiresAt.Add(-TokenRefreshMargin))
}

// CredentialUpdate is a partial update: nil fields are left untouched.

type CredentialUpdate struct {
	AccessToken    *string
	TokenExpiresAt *int64
	RefreshToken   *string
}

// Apply merges the update into c.
func (u CredentialUpdate) Apply(c ZohoCredentials) ZohoCredentials {
	if u.AccessToken != nil {
		c.AccessToken = *u.AccessToken
	}
	if u.TokenExpiresAt != nil {
		c.TokenExpiresAt = *u.TokenExpiresAt
	}
	if u.RefreshToken != nil {
		c.RefreshToken = *u.RefreshToken
	}
	return c
}

// RazorpayKeys are the two secrets needed for every razorpay call.

type RazorpayKeys struct {
	KeyID     string `json:"key_id"`
	KeySecret string `json:"key_secret"`
}

func (k RazorpayKeys) Configured() bool {
	return strings.TrimSpace(k.KeyID) != "" && strings.TrimSpace(k.KeySecret) != ""
}
