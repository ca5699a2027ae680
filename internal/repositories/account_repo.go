package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prudhvinik1/presence/internal/models"
)

// PostgresAccountRepository reads the HR accounts table, which is the
// directory of record for user ids, display names and active status.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

const (
	accountColumns = `id, email, display_name, is_active, created_at, updated_at, deleted_at`

	getAccountQuery     = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	lookupAccountsQuery = `SELECT ` + accountColumns + ` FROM accounts WHERE id = ANY($1)`
)

func (r *PostgresAccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	account, err := scanAccount(r.pool.QueryRow(ctx, getAccountQuery, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr("failed to get account", err)
	}
	return account, nil
}

// LookupAccounts resolves ids in one round trip. Soft-deleted accounts are
// returned with DeletedAt set; unknown ids are simply absent from the map.
func (r *PostgresAccountRepository) LookupAccounts(ctx context.Context, ids []string) (map[string]models.Account, error) {
	accounts := make(map[string]models.Account, len(ids))
	if len(ids) == 0 {
		return accounts, nil
	}

	rows, err := r.pool.Query(ctx, lookupAccountsQuery, ids)
	if err != nil {
		return nil, storeErr("failed to query accounts", err)
	}
	defer rows.Close()

	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, storeErr("failed to scan account", err)
		}
		accounts[account.ID] = *account
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("error iterating accounts", err)
	}

	return accounts, nil
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.DisplayName,
		&account.IsActive,
		&account.CreatedAt,
		&account.UpdatedAt,
		&account.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}
