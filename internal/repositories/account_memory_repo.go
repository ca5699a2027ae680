package repositories

import (
	"context"
	"sync"

	"github.com/prudhvinik1/presence/internal/models"
)

// MemoryAccountRepository is an in-process directory for local development and tests.
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]models.Account
}

func NewMemoryAccountRepository(accounts ...models.Account) *MemoryAccountRepository {
	repo := &MemoryAccountRepository{accounts: make(map[string]models.Account, len(accounts))}
	for _, account := range accounts {
		repo.accounts[account.ID] = account
	}
	return repo
}

// Put inserts or replaces an account.
func (r *MemoryAccountRepository) Put(account models.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[account.ID] = account
}

// Remove deletes an account outright, as if it had been purged from the directory.
func (r *MemoryAccountRepository) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.accounts, id)
}

func (r *MemoryAccountRepository) GetByID(_ context.Context, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &account, nil
}

func (r *MemoryAccountRepository) LookupAccounts(_ context.Context, ids []string) (map[string]models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found := make(map[string]models.Account, len(ids))
	for _, id := range ids {
		if account, ok := r.accounts[id]; ok {
			found[id] = account
		}
	}
	return found, nil
}
