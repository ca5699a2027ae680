package repositories

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prudhvinik1/presence/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAccountRepository_LookupAccounts(t *testing.T) {
	repo := NewMemoryAccountRepository(
		models.Account{ID: "u1", DisplayName: "Ana", IsActive: true},
		models.Account{ID: "u2", DisplayName: "Ben", IsActive: false},
	)

	found, err := repo.LookupAccounts(context.Background(), []string{"u1", "u2", "missing"})

	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, "Ana", found["u1"].DisplayName)
	assert.NotContains(t, found, "missing")

	repo.Remove("u1")
	_, err = repo.GetByID(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresAccountRepository_LookupAccounts(t *testing.T) {
	pool := getTestPool(t)
	repo := NewPostgresAccountRepository(pool)
	ctx := context.Background()

	active, inactive, deleted := testUserID(), testUserID(), testUserID()
	_, err := pool.Exec(ctx, `INSERT INTO accounts (id, email, display_name, is_active, deleted_at) VALUES
		($1, $1::text || '@example.com', 'Active User', TRUE, NULL),
		($2, $2::text || '@example.com', 'Inactive User', FALSE, NULL),
		($3, $3::text || '@example.com', 'Deleted User', TRUE, $4)`,
		active, inactive, deleted, time.Now())
	require.NoError(t, err)

	// ACT
	found, err := repo.LookupAccounts(ctx, []string{active, inactive, deleted, testUserID()})

	// ASSERT: unknown id omitted, soft-deleted returned but not active
	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.True(t, found[active].Active())
	assert.False(t, found[inactive].Active())
	assert.False(t, found[deleted].Active())
	assert.Equal(t, "Active User", found[active].DisplayName)

	account, err := repo.GetByID(ctx, active)
	require.NoError(t, err)
	assert.Equal(t, active, account.ID)

	_, err = repo.GetByID(ctx, testUserID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresAccountRepository_QueriesUsePrimaryKey(t *testing.T) {
	pool := getTestPool(t)
	ctx := context.Background()

	conn, err := pool.Acquire(ctx)
	require.NoError(t, err)
	defer conn.Release()

	// With sequential scans priced out, only a query on the bare key column
	// can be planned as an index scan.
	_, err = conn.Exec(ctx, `SET enable_seqscan = off`)
	require.NoError(t, err)
	defer func() { _, _ = conn.Exec(ctx, `RESET enable_seqscan`) }()

	tests := []struct {
		name  string
		query string
		arg   any
	}{
		{name: "get by id", query: getAccountQuery, arg: testUserID()},
		{name: "lookup accounts", query: lookupAccountsQuery, arg: []string{testUserID(), testUserID()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := conn.Query(ctx, "EXPLAIN "+tt.query, tt.arg)
			require.NoError(t, err)

			var plan []string
			for rows.Next() {
				var line string
				require.NoError(t, rows.Scan(&line))
				plan = append(plan, line)
			}
			require.NoError(t, rows.Err())

			assert.Contains(t, strings.Join(plan, "\n"), "Index", "expected an index scan on accounts")
		})
	}
}
