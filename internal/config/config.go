package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	CredentialStoreDynamoDB = "dynamodb"
	CredentialStoreMemory   = "memory"
)

// Config holds all configuration for the payment gateway service.
type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Raw provider payloads and wrapped errors are only returned to clients when set.
	ExposeErrorDetails bool `env:"EXPOSE_ERROR_DETAILS" envDefault:"false"`

	Currency        string        `env:"PAYMENT_CURRENCY" envDefault:"INR"`
	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"15s"`

	RazorpayBaseURL    string `env:"RAZORPAY_BASE_URL" envDefault:"https://api.razorpay.com/v1"`
	RazorpayKeyID      string `env:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret  string `env:"RAZORPAY_KEY_SECRET"`
	RazorpaySecretName string `env:"RAZORPAY_SECRET_NAME"`

	ZohoPaymentsBaseURL string `env:"ZOHO_PAYMENTS_BASE_URL" envDefault:"https://payments.zoho.in/api/v1"`
	ZohoAccountsURL     string `env:"ZOHO_ACCOUNTS_URL" envDefault:"https://accounts.zoho.in"`
	ZohoBusinessName    string `env:"ZOHO_BUSINESS_NAME" envDefault:"Bookstore"`

	// memory: credentials seeded from ZohoSeed, lost on restart.
	CredentialStore     string `env:"CREDENTIAL_STORE" envDefault:"dynamodb"`
	CredentialsTable    string `env:"CREDENTIALS_TABLE" envDefault:"payment_credentials"`
	PaymentRecordsTable string `env:"PAYMENT_RECORDS_TABLE" envDefault:"payment_records"`

	PaymentEventsTopicARN string `env:"PAYMENT_EVENTS_TOPIC_ARN"`

	ZohoSeed ZohoSeed
}

// ZohoSeed seeds the in-memory credential store.
type ZohoSeed struct {
	ClientID          string `env:"ZOHO_CLIENT_ID"`
	ClientSecret      string `env:"ZOHO_CLIENT_SECRET"`
	RefreshToken      string `env:"ZOHO_REFRESH_TOKEN"`
	AccessToken       string `env:"ZOHO_ACCESS_TOKEN"`
	TokenExpiresAt    int64  `env:"ZOHO_TOKEN_EXPIRES_AT"`
	OrganizationID    string `env:"ZOHO_ORGANIZATION_ID"`
	PaymentsAccountID string `env:"ZOHO_PAYMENTS_ACCOUNT_ID"`
	PayAPIKey         string `env:"ZOHO_PAY_API_KEY"`
	PaySigningKey     string `env:"ZOHO_PAY_SIGNING_KEY"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	switch cfg.CredentialStore {
	case CredentialStoreDynamoDB, CredentialStoreMemory:
	default:
		return nil, fmt.Errorf("unsupported CREDENTIAL_STORE %q", cfg.CredentialStore)
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
