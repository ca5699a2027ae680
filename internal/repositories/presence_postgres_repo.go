package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prudhvinik1/presence/internal/models"
)

// PostgresPresenceRepository persists presence in
// user_presence(user_id text primary key, last_seen_at timestamptz not null).
type PostgresPresenceRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPresenceRepository(pool *pgxpool.Pool) *PostgresPresenceRepository {
	return &PostgresPresenceRepository{pool: pool}
}

func (r *PostgresPresenceRepository) Upsert(ctx context.Context, userID string, now time.Time) error {
	query := `INSERT INTO user_presence (user_id, last_seen_at)
	          VALUES ($1, $2)
	          ON CONFLICT (user_id) DO UPDATE
	          SET last_seen_at = GREATEST(user_presence.last_seen_at, EXCLUDED.last_seen_at)`

	if _, err := r.pool.Exec(ctx, query, userID, now.UTC()); err != nil {
		return storeErr("failed to upsert presence", err)
	}
	return nil
}

func (r *PostgresPresenceRepository) ListFresh(ctx context.Context, now time.Time, window time.Duration) ([]models.PresenceRecord, error) {
	query := `SELECT user_id, last_seen_at
	          FROM user_presence
	          WHERE last_seen_at >= $1`

	rows, err := r.pool.Query(ctx, query, now.Add(-window).UTC())
	if err != nil {
		return nil, storeErr("failed to query presence", err)
	}
	defer rows.Close()

	var records []models.PresenceRecord
	for rows.Next() {
		var record models.PresenceRecord
		if err := rows.Scan(&record.UserID, &record.LastSeenAt); err != nil {
			return nil, storeErr("failed to scan presence", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("error iterating presence", err)
	}

	return records, nil
}

func (r *PostgresPresenceRepository) DeleteByKey(ctx context.Context, userID string) error {
	query := `DELETE FROM user_presence WHERE user_id = $1`

	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		return storeErr("failed to delete presence", err)
	}
	return nil
}

func (r *PostgresPresenceRepository) DeleteStale(ctx context.Context, now time.Time, window time.Duration) (int64, error) {
	query := `DELETE FROM user_presence WHERE last_seen_at < $1`

	result, err := r.pool.Exec(ctx, query, now.Add(-window).UTC())
	if err != nil {
		return 0, storeErr("failed to delete stale presence", err)
	}
	return result.RowsAffected(), nil
}
