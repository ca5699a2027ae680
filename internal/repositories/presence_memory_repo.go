package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/prudhvinik1/presence/internal/models"
)

// MemoryPresenceRepository keeps presence in process. Intended for local
// development and tests.
type MemoryPresenceRepository struct {
	mu       sync.RWMutex
	lastSeen map[string]time.Time
}

func NewMemoryPresenceRepository() *MemoryPresenceRepository {
	return &MemoryPresenceRepository{lastSeen: make(map[string]time.Time)}
}

func (r *MemoryPresenceRepository) Upsert(_ context.Context, userID string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.lastSeen[userID]; ok && current.After(now) {
		return nil
	}
	r.lastSeen[userID] = now
	return nil
}

func (r *MemoryPresenceRepository) ListFresh(_ context.Context, now time.Time, window time.Duration) ([]models.PresenceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]models.PresenceRecord, 0, len(r.lastSeen))
	for userID, lastSeen := range r.lastSeen {
		record := models.PresenceRecord{UserID: userID, LastSeenAt: lastSeen}
		if record.Fresh(now, window) {
			records = append(records, record)
		}
	}
	return records, nil
}

func (r *MemoryPresenceRepository) DeleteByKey(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.lastSeen, userID)
	return nil
}

func (r *MemoryPresenceRepository) DeleteStale(_ context.Context, now time.Time, window time.Duration) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for userID, lastSeen := range r.lastSeen {
		record := models.PresenceRecord{UserID: userID, LastSeenAt: lastSeen}
		if !record.Fresh(now, window) {
			delete(r.lastSeen, userID)
			removed++
		}
	}
	return removed, nil
}

// Get returns the stored record for userID.
func (r *MemoryPresenceRepository) Get(_ context.Context, userID string) (models.PresenceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lastSeen, ok := r.lastSeen[userID]
	if !ok {
		return models.PresenceRecord{}, ErrNotFound
	}
	return models.PresenceRecord{UserID: userID, LastSeenAt: lastSeen}, nil
}

// Len returns the number of stored records, fresh or stale.
func (r *MemoryPresenceRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.lastSeen)
}
