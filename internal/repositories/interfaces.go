package repositories

import (
	"context"
	"time"

	"github.com/prudhvinik1/presence/internal/models"
)

// PresenceRepository stores one PresenceRecord per user.
type PresenceRepository interface {
	Upsert(ctx context.Context, userID string, now time.Time) error
	ListFresh(ctx context.Context, now time.Time, window time.Duration) ([]models.PresenceRecord, error)
	DeleteByKey(ctx context.Context, userID string) error
	DeleteStale(ctx context.Context, now time.Time, window time.Duration) (int64, error)
}

// AccountRepository is the read side of the user directory.
// LookupAccounts omits ids it cannot resolve.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
	LookupAccounts(ctx context.Context, ids []string) (map[string]models.Account, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	ListByUserID(ctx context.Context, userID string) ([]*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteAllForUser(ctx context.Context, userID string) error
}
