package repository

import (
	"context"
	"sync"

	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/usecase/interfaces"
)

// CredentialMemoryRepository keeps the Zoho credentials in process memory,
// seeded from the environment. Refreshed tokens are lost on restart.
type CredentialMemoryRepository struct {
	mu    sync.RWMutex
	creds entities.ZohoCredentials
}

var _ interfaces.ICredentialStore = (*CredentialMemoryRepository)(nil)

func NewCredentialMemoryRepository(seed entities.ZohoCredentials) *CredentialMemoryRepository {
	return &CredentialMemoryRepository{creds: seed}
}

func (r *CredentialMemoryRepository) Get(_ context.Context) (entities.ZohoCredentials, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.creds, nil
}

func (r *CredentialMemoryRepository) Update(_ context.Context, u entities.CredentialUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creds = u.Apply(r.creds)
	return nil
}
