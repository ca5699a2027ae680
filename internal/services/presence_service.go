package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/prudhvinik1/presence/internal/models"
	"github.com/prudhvinik1/presence/internal/repositories"
	"github.com/rs/zerolog"
)

// DefaultPresenceWindow is how long a heartbeat counts as "online". The
// same value drives both the presence query and stale eviction.
const DefaultPresenceWindow = 2 * time.Minute

type PresenceService struct {
	presence   repositories.PresenceRepository
	accounts   repositories.AccountRepository
	authorizer *AccountAuthorizer
	clock      Clock
	window     time.Duration
}

func NewPresenceService(
	presence repositories.PresenceRepository,
	accounts repositories.AccountRepository,
	clock Clock,
	window time.Duration,
) (*PresenceService, error) {
	if presence == nil {
		return nil, errors.New("presence repository is required")
	}
	if accounts == nil {
		return nil, errors.New("account repository is required")
	}
	if clock == nil {
		return nil, errors.New("clock is required")
	}
	if window <= 0 {
		window = DefaultPresenceWindow
	}

	return &PresenceService{
		presence:   presence,
		accounts:   accounts,
		authorizer: NewAccountAuthorizer(accounts),
		clock:      clock,
		window:     window,
	}, nil
}

func (s *PresenceService) Window() time.Duration {
	return s.window
}

// Heartbeat marks the caller as present. targetUserID is optional; when set
// it must name the caller, since nobody may mark another user present.
func (s *PresenceService) Heartbeat(ctx context.Context, caller models.Identity, targetUserID string) error {
	if caller.UserID == "" {
		return ErrUnauthenticated
	}
	if targetUserID != "" && targetUserID != caller.UserID {
		return fmt.Errorf("%w: cannot send heartbeat for another user", ErrForbidden)
	}

	active, err := s.authorizer.IsActiveAccount(ctx, caller.UserID)
	if err != nil {
		return fmt.Errorf("failed to check account: %w", err)
	}
	if !active {
		return fmt.Errorf("%w: account is not active", ErrForbidden)
	}

	return s.presence.Upsert(ctx, caller.UserID, s.clock.Now())
}

// Online returns the users with a fresh heartbeat, enriched with their
// display names. Records that no longer resolve to an active account are
// left out rather than reported as errors.
func (s *PresenceService) Online(ctx context.Context, caller models.Identity) (*models.PresenceList, error) {
	if caller.UserID == "" {
		return nil, ErrUnauthenticated
	}

	now := s.clock.Now()
	records, err := s.presence.ListFresh(ctx, now, s.window)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.UserID)
	}

	accounts, err := s.accounts.LookupAccounts(ctx, ids)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int("records", len(records)).Msg("directory lookup failed, dropping unresolved presence")
		accounts = nil
	}

	// Redis keeps whole-millisecond scores, so the cutoff is compared at that
	// precision or a record at the edge would drop out early.
	cutoff := now.Add(-s.window).Truncate(time.Millisecond)

	users := make([]models.OnlineUser, 0, len(records))
	orphaned := 0
	for _, record := range records {
		if record.LastSeenAt.Before(cutoff) {
			continue
		}
		account, ok := accounts[record.UserID]
		if !ok || !account.Active() {
			orphaned++
			continue
		}
		users = append(users, models.OnlineUser{
			UserID:      record.UserID,
			DisplayName: account.DisplayName,
			LastSeenAt:  record.LastSeenAt,
		})
	}

	if orphaned > 0 {
		zerolog.Ctx(ctx).Debug().Int("orphaned", orphaned).Msg("dropped presence without active account")
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].DisplayName != users[j].DisplayName {
			return users[i].DisplayName < users[j].DisplayName
		}
		return users[i].UserID < users[j].UserID
	})

	return &models.PresenceList{
		Count:     len(users),
		Users:     users,
		Timestamp: now,
	}, nil
}

// SignOut removes the caller's own presence. It succeeds when there is nothing to remove.
func (s *PresenceService) SignOut(ctx context.Context, caller models.Identity) error {
	if caller.UserID == "" {
		return ErrUnauthenticated
	}
	return s.presence.DeleteByKey(ctx, caller.UserID)
}

// Sweep evicts every record older than the presence window and returns how many were removed.
func (s *PresenceService) Sweep(ctx context.Context) (int64, error) {
	return s.presence.DeleteStale(ctx, s.clock.Now(), s.window)
}
