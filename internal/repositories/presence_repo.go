package repositories

import (
	"context"
	"strconv"
	"time"

	"github.com/prudhvinik1/presence/internal/models"
	"github.com/redis/go-redis/v9"
)

// presenceSetKey holds every user's last heartbeat as a sorted set:
// member = user id, score = last_seen_at in unix milliseconds.
const presenceSetKey = "presence:last_seen"

type RedisPresenceRepository struct {
	client *redis.Client
	key    string
}

func NewRedisPresenceRepository(client *redis.Client) *RedisPresenceRepository {
	return &RedisPresenceRepository{client: client, key: presenceSetKey}
}

// Upsert records a heartbeat. ZADD GT only ever raises the score, so a
// late-applied older heartbeat cannot move last_seen_at backwards.
func (r *RedisPresenceRepository) Upsert(ctx context.Context, userID string, now time.Time) error {
	err := r.client.ZAddArgs(ctx, r.key, redis.ZAddArgs{
		GT:      true,
		Members: []redis.Z{{Score: float64(now.UnixMilli()), Member: userID}},
	}).Err()
	if err != nil {
		return storeErr("failed to set presence", err)
	}
	return nil
}

func (r *RedisPresenceRepository) ListFresh(ctx context.Context, now time.Time, window time.Duration) ([]models.PresenceRecord, error) {
	cutoff := now.Add(-window).UnixMilli()

	results, err := r.client.ZRangeByScoreWithScores(ctx, r.key, &redis.ZRangeBy{
		Min: strconv.FormatInt(cutoff, 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, storeErr("failed to list presence", err)
	}

	records := make([]models.PresenceRecord, 0, len(results))
	for _, z := range results {
		userID, ok := z.Member.(string)
		if !ok {
			continue
		}
		records = append(records, models.PresenceRecord{
			UserID:     userID,
			LastSeenAt: time.UnixMilli(int64(z.Score)).UTC(),
		})
	}
	return records, nil
}

func (r *RedisPresenceRepository) DeleteByKey(ctx context.Context, userID string) error {
	if err := r.client.ZRem(ctx, r.key, userID).Err(); err != nil {
		return storeErr("failed to delete presence", err)
	}
	return nil
}

func (r *RedisPresenceRepository) DeleteStale(ctx context.Context, now time.Time, window time.Duration) (int64, error) {
	cutoff := now.Add(-window).UnixMilli()

	// "(" makes the bound exclusive: a record exactly at the cutoff is still fresh.
	removed, err := r.client.ZRemRangeByScore(ctx, r.key, "-inf", "("+strconv.FormatInt(cutoff, 10)).Result()
	if err != nil {
		return 0, storeErr("failed to delete stale presence", err)
	}
	return removed, nil
}
