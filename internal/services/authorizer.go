package services

import (
	"context"
	"errors"

	"github.com/prudhvinik1/presence/internal/repositories"
)

// AccountAuthorizer answers whether a user id belongs to an active directory account.
type AccountAuthorizer struct {
	accounts repositories.AccountRepository
}

func NewAccountAuthorizer(accounts repositories.AccountRepository) *AccountAuthorizer {
	return &AccountAuthorizer{accounts: accounts}
}

// IsActiveAccount returns false for unknown, deactivated and soft-deleted
// accounts. Only directory failures are returned as errors.
func (a *AccountAuthorizer) IsActiveAccount(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	account, err := a.accounts.GetByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return account.Active(), nil
}
