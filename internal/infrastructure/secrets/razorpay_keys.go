package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/logger"
	"payment_gateway/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"
)

// StaticRazorpayKeys serves keys read from the environment.
type StaticRazorpayKeys struct {
	keys entities.RazorpayKeys
}

var _ interfaces.IRazorpayKeySource = (*StaticRazorpayKeys)(nil)

func NewStaticRazorpayKeys(keyID, keySecret string) *StaticRazorpayKeys {
	return &StaticRazorpayKeys{keys: entities.RazorpayKeys{KeyID: keyID, KeySecret: keySecret}}
}

func (s *StaticRazorpayKeys) RazorpayKeys(_ context.Context) (entities.RazorpayKeys, error) {
	return s.keys, nil
}

type secretsAPI interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManagerRazorpayKeys reads a JSON secret {"key_id": ..., "key_secret": ...}
// from AWS Secrets Manager. The first successful read is cached for the process lifetime.
type SecretsManagerRazorpayKeys struct {
	client     secretsAPI
	secretName string

	mu     sync.RWMutex
	cached *entities.RazorpayKeys
}

var _ interfaces.IRazorpayKeySource = (*SecretsManagerRazorpayKeys)(nil)

func NewSecretsManagerRazorpayKeys(client *secretsmanager.Client, secretName string) *SecretsManagerRazorpayKeys {
	return &SecretsManagerRazorpayKeys{client: client, secretName: secretName}
}

func (s *SecretsManagerRazorpayKeys) RazorpayKeys(ctx context.Context) (entities.RazorpayKeys, error) {
	s.mu.RLock()
	if s.cached != nil {
		keys := *s.cached
		s.mu.RUnlock()
		return keys, nil
	}
	s.mu.RUnlock()

	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(s.secretName)})
	if err != nil {
		logger.FromCtx(ctx).Error("[payment][secrets] get secret failed", zap.String("secret", s.secretName), zap.Error(err))
		return entities.RazorpayKeys{}, fmt.Errorf("get secret %s: %w", s.secretName, err)
	}
	if out.SecretString == nil {
		return entities.RazorpayKeys{}, fmt.Errorf("secret %s has no string value", s.secretName)
	}

	var keys entities.RazorpayKeys
	if err := json.Unmarshal([]byte(*out.SecretString), &keys); err != nil {
		return entities.RazorpayKeys{}, fmt.Errorf("decode secret %s: %w", s.secretName, err)
	}

	// Incomplete secrets are not cached so a fixed secret is picked up without a restart.
	if keys.Configured() {
		s.mu.Lock()
		s.cached = &keys
		s.mu.Unlock()
	}
	return keys, nil
}
