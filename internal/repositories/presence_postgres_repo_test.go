package repositories

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func TestPostgresPresenceRepository_Contract(t *testing.T) {
	pool := getTestPool(t)

	runPresenceContract(t, func(t *testing.T) PresenceRepository {
		// Each subtest starts from an empty set of test rows so eviction counts are exact.
		_, err := pool.Exec(context.Background(), `DELETE FROM user_presence WHERE user_id LIKE 'test-user-%'`)
		require.NoError(t, err)
		return NewPostgresPresenceRepository(pool)
	})
}

// getTestPool connects to TEST_DATABASE_URL or skips the test. The tables
// used by the suite are created if missing and test rows removed afterwards.
func getTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err, "Failed to connect to test database")

	_, err = pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS user_presence (
		user_id      TEXT PRIMARY KEY,
		last_seen_at TIMESTAMPTZ NOT NULL
	)`)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS accounts (
		id           TEXT PRIMARY KEY,
		email        TEXT NOT NULL,
		display_name TEXT NOT NULL,
		is_active    BOOLEAN NOT NULL DEFAULT TRUE,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at   TIMESTAMPTZ
	)`)
	require.NoError(t, err)

	t.Cleanup(func() {
		if _, err := pool.Exec(ctx, `DELETE FROM user_presence WHERE user_id LIKE 'test-user-%'`); err != nil {
			t.Logf("Warning: failed to cleanup presence: %v", err)
		}
		if _, err := pool.Exec(ctx, `DELETE FROM accounts WHERE id LIKE 'test-user-%'`); err != nil {
			t.Logf("Warning: failed to cleanup accounts: %v", err)
		}
		pool.Close()
	})
	return pool
}
