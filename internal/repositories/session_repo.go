package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prudhvinik1/presence/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const sessionPrefix = "session:"
const userSessionsPrefix = "account:%s:sessions"

// ErrSessionExpired is returned when a session would be stored with no time left.
var ErrSessionExpired = errors.New("session already expired")

type RedisSessionRepository struct {
	client *redis.Client
}

func NewRedisSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

func (r *RedisSessionRepository) Create(ctx context.Context, session *models.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return ErrSessionExpired
	}

	jsonData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKey(session.ID), jsonData, ttl)
	pipe.SAdd(ctx, userSessionsKey(session.UserID), session.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return storeErr("failed to create session", err)
	}
	return nil
}

func (r *RedisSessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	jsonData, err := r.client.Get(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr("failed to get session", err)
	}

	var session models.Session
	if err := json.Unmarshal([]byte(jsonData), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// ListByUserID returns the live sessions for a user and drops ids whose
// session key has already expired from the index.
func (r *RedisSessionRepository) ListByUserID(ctx context.Context, userID string) ([]*models.Session, error) {
	indexKey := userSessionsKey(userID)
	sessionIDs, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, storeErr("failed to get user sessions", err)
	}

	var sessions []*models.Session
	var expiredIDs []interface{}

	for _, id := range sessionIDs {
		session, err := r.GetByID(ctx, id)
		if errors.Is(err, ErrNotFound) {
			expiredIDs = append(expiredIDs, id)
			continue
		}
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("session_id", id).Msg("skipping unreadable session")
			continue
		}
		sessions = append(sessions, session)
	}

	if len(expiredIDs) > 0 {
		if err := r.client.SRem(ctx, indexKey, expiredIDs...).Err(); err != nil {
			return nil, storeErr("failed to remove expired sessions", err)
		}
	}
	return sessions, nil
}

func (r *RedisSessionRepository) Delete(ctx context.Context, id string) error {
	session, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.SRem(ctx, userSessionsKey(session.UserID), id)
	pipe.Del(ctx, sessionKey(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return storeErr("failed to delete session", err)
	}
	return nil
}

func (r *RedisSessionRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	sessionIDs, err := r.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return storeErr("failed to get user sessions", err)
	}

	for _, id := range sessionIDs {
		if err := r.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
			zerolog.Ctx(ctx).Warn().Err(err).Str("session_id", id).Msg("failed to delete session")
		}
	}
	if err := r.client.Del(ctx, userSessionsKey(userID)).Err(); err != nil {
		return storeErr("failed to clear session index", err)
	}
	return nil
}

func sessionKey(id string) string {
	return sessionPrefix + id
}

func userSessionsKey(userID string) string {
	return fmt.Sprintf(userSessionsPrefix, userID)
}
