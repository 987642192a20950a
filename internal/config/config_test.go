package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, "INR", cfg.Currency)
		assert.Equal(t, 15*time.Second, cfg.ProviderTimeout)
		assert.Equal(t, CredentialStoreDynamoDB, cfg.CredentialStore)
		assert.False(t, cfg.ExposeErrorDetails)
	})

	t.Run("Success loading from env", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("APP_ENV", "production")
		t.Setenv("PROVIDER_TIMEOUT", "3s")
		t.Setenv("CREDENTIAL_STORE", "memory")
		t.Setenv("RAZORPAY_KEY_ID", "rzp_test_key")
		t.Setenv("ZOHO_CLIENT_ID", "zoho-client")
		t.Setenv("ZOHO_TOKEN_EXPIRES_AT", "1700000000000")
		t.Setenv("EXPOSE_ERROR_DETAILS", "true")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Port)
		assert.True(t, cfg.IsProduction())
		assert.Equal(t, 3*time.Second, cfg.ProviderTimeout)
		assert.Equal(t, CredentialStoreMemory, cfg.CredentialStore)
		assert.Equal(t, "rzp_test_key", cfg.RazorpayKeyID)
		assert.Equal(t, "zoho-client", cfg.ZohoSeed.ClientID)
		assert.Equal(t, int64(1700000000000), cfg.ZohoSeed.TokenExpiresAt)
		assert.True(t, cfg.ExposeErrorDetails)
	})

	t.Run("Unsupported credential store", func(t *testing.T) {
		t.Setenv("CREDENTIAL_STORE", "firestore")

		_, err := Load()
		assert.Error(t, err)
	})
}
