// Package memory provides an in-memory AccountRepository for tests and for
// running the service without a database. Semantics match the postgres
// adapter, including the compare-and-swap rotation.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/thienan2003bt/awp-user-registration-be/internal/auth/domain"
	autherror "github.com/thienan2003bt/awp-user-registration-be/internal/errors"
)

type MemoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account // keyed by id
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (r *MemoryRepository) GetByEmailOrUsername(_ context.Context, email, username string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.Email == email || a.Username == username {
			return copyAccount(a), nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.Email == email {
			return copyAccount(a), nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if a, ok := r.accounts[id]; ok {
		return copyAccount(a), nil
	}
	return nil, nil
}

func (r *MemoryRepository) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if a.Email == account.Email || a.Username == account.Username {
			return autherror.ErrDuplicateAccount
		}
	}
	r.accounts[account.ID] = copyAccount(account)
	return nil
}

// UpdateRefreshToken overwrites the slot. A missing account is a no-op so
// that logout stays idempotent.
func (r *MemoryRepository) UpdateRefreshToken(_ context.Context, id, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.accounts[id]; ok {
		a.CurrentRefreshToken = token
		a.UpdatedAt = time.Now()
	}
	return nil
}

func (r *MemoryRepository) RotateRefreshToken(_ context.Context, id, current, next string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok || a.CurrentRefreshToken != current {
		return autherror.ErrAccessDenied
	}
	a.CurrentRefreshToken = next
	a.UpdatedAt = time.Now()
	return nil
}

func copyAccount(a *domain.Account) *domain.Account {
	dup := *a
	return &dup
}
