package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prudhvinik1/presence/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWindow = 120 * time.Second

// runPresenceContract exercises the behavior every PresenceRepository must share.
// User ids are random so the suite can run against a shared database.
func runPresenceContract(t *testing.T, newRepo func(t *testing.T) PresenceRepository) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	t.Run("upsert keeps a single record with the latest timestamp", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := testUserID()

		// ACT: two heartbeats, 10 seconds apart
		require.NoError(t, repo.Upsert(ctx, userID, base))
		require.NoError(t, repo.Upsert(ctx, userID, base.Add(10*time.Second)))

		// ASSERT: exactly one record at the later time
		records := filterRecords(t, repo, base.Add(10*time.Second), userID)
		require.Len(t, records, 1)
		assert.True(t, records[0].LastSeenAt.Equal(base.Add(10*time.Second)), "got %v", records[0].LastSeenAt)
	})

	t.Run("late older heartbeat does not move last seen backwards", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := testUserID()

		require.NoError(t, repo.Upsert(ctx, userID, base.Add(30*time.Second)))
		require.NoError(t, repo.Upsert(ctx, userID, base))

		records := filterRecords(t, repo, base.Add(30*time.Second), userID)
		require.Len(t, records, 1)
		assert.True(t, records[0].LastSeenAt.Equal(base.Add(30*time.Second)))
	})

	t.Run("freshness window boundaries", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		now := base.Add(time.Hour)
		inside, edge, outside := testUserID(), testUserID(), testUserID()

		require.NoError(t, repo.Upsert(ctx, inside, now.Add(-testWindow+time.Second)))
		require.NoError(t, repo.Upsert(ctx, edge, now.Add(-testWindow)))
		require.NoError(t, repo.Upsert(ctx, outside, now.Add(-testWindow-time.Second)))

		records := filterRecords(t, repo, now, inside, edge, outside)
		assert.ElementsMatch(t, []string{inside, edge}, userIDs(records))
	})

	t.Run("heartbeat drops out of the list after the window", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := testUserID()

		require.NoError(t, repo.Upsert(ctx, userID, base))

		assert.Len(t, filterRecords(t, repo, base.Add(30*time.Second), userID), 1)
		assert.Empty(t, filterRecords(t, repo, base.Add(150*time.Second), userID))
	})

	t.Run("delete by key removes only that user and tolerates absence", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		self, other, never := testUserID(), testUserID(), testUserID()

		require.NoError(t, repo.Upsert(ctx, self, base))
		require.NoError(t, repo.Upsert(ctx, other, base))

		require.NoError(t, repo.DeleteByKey(ctx, self))
		require.NoError(t, repo.DeleteByKey(ctx, never))

		records := filterRecords(t, repo, base, self, other, never)
		assert.Equal(t, []string{other}, userIDs(records))
	})

	t.Run("delete stale removes only expired records", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		now := base.Add(2 * time.Hour)
		fresh, edge, stale := testUserID(), testUserID(), testUserID()

		require.NoError(t, repo.Upsert(ctx, fresh, now.Add(-10*time.Second)))
		require.NoError(t, repo.Upsert(ctx, edge, now.Add(-testWindow)))
		require.NoError(t, repo.Upsert(ctx, stale, now.Add(-200*time.Second)))

		removed, err := repo.DeleteStale(ctx, now, testWindow)
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		// Looking back far enough to see stale rows proves they are physically gone.
		remaining := filterRecordsWithin(t, repo, now, time.Hour, fresh, edge, stale)
		assert.ElementsMatch(t, []string{fresh, edge}, userIDs(remaining))
	})
}

func testUserID() string {
	return "test-user-" + uuid.New().String()
}

func filterRecords(t *testing.T, repo PresenceRepository, now time.Time, ids ...string) []models.PresenceRecord {
	return filterRecordsWithin(t, repo, now, testWindow, ids...)
}

func filterRecordsWithin(t *testing.T, repo PresenceRepository, now time.Time, window time.Duration, ids ...string) []models.PresenceRecord {
	t.Helper()
	records, err := repo.ListFresh(context.Background(), now, window)
	require.NoError(t, err)

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var out []models.PresenceRecord
	for _, record := range records {
		if wanted[record.UserID] {
			out = append(out, record)
		}
	}
	return out
}

func userIDs(records []models.PresenceRecord) []string {
	ids := make([]string, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.UserID)
	}
	return ids
}
