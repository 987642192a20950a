package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/infrastructure/httpclient"
	"payment_gateway/internal/logger"
	"payment_gateway/internal/usecase/interfaces"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// defaultTokenLifetime is assumed when the token endpoint omits expires_in.
const defaultTokenLifetime = time.Hour

// ZohoTokenManager hands out Zoho credentials carrying a usable OAuth access
// token, refreshing it from the long-lived refresh token when it is absent or
// within entities.TokenRefreshMargin of expiry.
type ZohoTokenManager struct {
	store       interfaces.ICredentialStore
	accountsURL string
	client      *httpclient.Client
	now         func() time.Time

	refreshes singleflight.Group
}

func NewZohoTokenManager(store interfaces.ICredentialStore, accountsURL string, client *httpclient.Client) *ZohoTokenManager {
	return &ZohoTokenManager{
		store:       store,
		accountsURL: strings.TrimRight(accountsURL, "/"),
		client:      client,
		now:         time.Now,
	}
}

type zohoTokenResponse struct {
	AccessToken string  `json:"access_token"`
	ExpiresIn   flexInt `json:"expires_in"`
	Error       string  `json:"error"`
}

// Credentials loads the stored credentials, validates them and returns them
// with an access token that stays valid for at least the refresh margin.
func (m *ZohoTokenManager) Credentials(ctx context.Context) (entities.ZohoCredentials, error) {
	creds, err := m.store.Get(ctx)
	if err != nil {
		return entities.ZohoCredentials{}, fmt.Errorf("load zoho credentials: %w", err)
	}
	if missing := creds.MissingFields(); len(missing) > 0 {
		return entities.ZohoCredentials{}, &entities.MissingCredentialsError{
			Provider: entities.PaymentMethodZoho,
			Fields:   missing,
		}
	}
	if creds.TokenUsable(m.now()) {
		return creds, nil
	}

	// Detached from the caller's cancellation; the client timeout still applies.
	v, err, shared := m.refreshes.Do("zoho", func() (any, error) {
		return m.refresh(context.WithoutCancel(ctx), creds)
	})
	if err != nil {
		return entities.ZohoCredentials{}, err
	}
	if shared {
		logger.FromCtx(ctx).Debug("[payment][zoho] joined in-flight token refresh")
	}
	return v.(entities.ZohoCredentials), nil
}

func (m *ZohoTokenManager) refresh(ctx context.Context, creds entities.ZohoCredentials) (entities.ZohoCredentials, error) {
	log := logger.FromCtx(ctx)
	log.Info("[payment][zoho] token refresh start")

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", creds.ClientID)
	form.Set("client_secret", creds.ClientSecret)
	form.Set("refresh_token", creds.RefreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.accountsURL+"/oauth/v2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return entities.ZohoCredentials{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req, "token_refresh")
	if err != nil {
		log.Error("[payment][zoho] token refresh failed", zap.Error(err))
		return entities.ZohoCredentials{}, err
	}

	var tok zohoTokenResponse
	decodeErr := json.Unmarshal(resp.Body, &tok)
	if !resp.IsSuccess() || decodeErr != nil || tok.Error != "" || tok.AccessToken == "" {
		msg := tok.Error
		if msg == "" {
			msg = "no access token returned"
		}
		log.Error("[payment][zoho] token refresh rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("error", msg),
		)
		return entities.ZohoCredentials{}, &entities.ProviderError{
			Provider:   entities.PaymentMethodZoho,
			StatusCode: resp.StatusCode,
			Code:       tok.Error,
			Message:    "token refresh failed: " + msg,
			Raw:        string(resp.Body),
		}
	}

	lifetime := time.Duration(tok.ExpiresIn) * time.Second
	if lifetime <= 0 {
		lifetime = defaultTokenLifetime
	}
	expiresAt := m.now().Add(lifetime).UnixMilli()

	update := entities.CredentialUpdate{
		AccessToken:    &tok.AccessToken,
		TokenExpiresAt: &expiresAt,
		RefreshToken:   &creds.RefreshToken,
	}
	if err := m.store.Update(ctx, update); err != nil {
		log.Error("[payment][zoho] token persist failed", zap.Error(err))
		return entities.ZohoCredentials{}, fmt.Errorf("persist zoho token: %w", err)
	}

	log.Info("[payment][zoho] token refresh success", zap.Int64("expires_at", expiresAt))
	return update.Apply(creds), nil
}
