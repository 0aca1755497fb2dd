package queue_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmonteiro/scoresync/internal/models"
	"github.com/dmonteiro/scoresync/internal/queue"
	"github.com/dmonteiro/scoresync/internal/repository/sqlite"
	"github.com/dmonteiro/scoresync/internal/testutil"
)

func newQueue(t *testing.T) (*queue.Queue, *clockwork.FakeClock) {
	db := testutil.NewTestDB(t)
	t.Cleanup(func() { testutil.MustClose(t, db) })
	clock := clockwork.NewFakeClock()
	return queue.New(sqlite.NewScoreQueueRepository(db), clock), clock
}

func pending(t *testing.T, q *queue.Queue, userID string) []models.QueuedScoreEntry {
	entries, err := q.PendingFor(context.Background(), userID)
	require.NoError(t, err)
	return entries
}

func TestEnqueue_HigherScoreSupersedesLower(t *testing.T) {
	q, _ := newQueue(t)
	ctx := context.Background()

	stored, err := q.Enqueue(ctx, models.QueuedScoreEntry{UserID: "u1", GameMode: models.ModeClassic, Score: 30, SessionID: "sess-30"})
	require.NoError(t, err)
	assert.True(t, stored)

	stored, err = q.Enqueue(ctx, models.QueuedScoreEntry{UserID: "u1", GameMode: models.ModeClassic, Score: 50, SessionID: "sess-50"})
	require.NoError(t, err)
	assert.True(t, stored)

	entries := pending(t, q, "u1")
	require.Len(t, entries, 1)
	assert.Equal(t, 50, entries[0].Score)
	assert.Equal(t, "sess-50", entries[0].SessionID)
}

func TestEnqueue_LowerScoreIsNoOp(t *testing.T) {
	q, _ := newQueue(t)
	ctx := context.Background()

	_, err := q.Enqueue(ctx, models.QueuedScoreEntry{UserID: "u1", GameMode: models.ModeClassic, Score: 50, SessionID: "sess-50"})
	require.NoError(t, err)

	stored, err := q.Enqueue(ctx, models.QueuedScoreEntry{UserID: "u1", GameMode: models.ModeClassic, Score: 30, SessionID: "sess-30"})
	require.NoError(t, err)
	assert.False(t, stored)

	entries := pending(t, q, "u1")
	require.Len(t, entries, 1)
	assert.Equal(t, 50, entries[0].Score)
	assert.Equal(t, "sess-50", entries[0].SessionID)
}

func TestEnqueue_EqualScoreReplacedByNewerSession(t *testing.T) {
	q, _ := newQueue(t)
	ctx := context.Background()

	_, err := q.Enqueue(ctx, models.QueuedScoreEntry{UserID: "u1", GameMode: models.ModeClassic, Score: 50, SessionID: "sess-a"})
	require.NoError(t, err)

	stored, err := q.Enqueue(ctx, models.QueuedScoreEntry{UserID: "u1", GameMode: models.ModeClassic, Score: 50, SessionID: "sess-b"})
	require.NoError(t, err)
	assert.True(t, stored)

	entries := pending(t, q, "u1")
	require.Len(t, entries, 1)
	assert.Equal(t, "sess-b", entries[0].SessionID)
}

func TestEnqueue_KeysAreIndependent(t *testing.T) {
	q, _ := newQueue(t)
	ctx := context.Background()

	_, err := q.Enqueue(ctx, models.QueuedScoreEntry{UserID: "u1", GameMode: models.ModeClassic, Score: 50, SessionID: "sess-1"})
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, models.QueuedScoreEntry{UserID: "u1", GameMode: models.ModeEndless, Score: 20, SessionID: "sess-2"})
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, models.QueuedScoreEntry{UserID: "u2", GameMode: models.ModeClassic, Score: 10, SessionID: "sess-3"})
	require.NoError(t, err)

	n, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestEnqueue_StampsQueuedAtFromClock(t *testing.T) {
	q, clock := newQueue(t)
	ctx := context.Background()

	_, err := q.Enqueue(ctx, models.QueuedScoreEntry{UserID: "u1", GameMode: models.ModeClassic, Score: 50, SessionID: "sess-1"})
	require.NoError(t, err)

	entries := pending(t, q, "u1")
	require.Len(t, entries, 1)
	assert.WithinDuration(t, clock.Now(), entries[0].QueuedAt, time.Second)
}

func TestEnqueue_ConcurrentCallersKeepSingleBest(t *testing.T) {
	q, _ := newQueue(t)
	ctx := context.Background()

	const callers = 16
	var wg sync.WaitGroup
	for i := 1; i <= callers; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			_, err := q.Enqueue(ctx, models.QueuedScoreEntry{
				UserID:    "u1",
				GameMode:  models.ModeClassic,
				Score:     score,
				SessionID: fmt.Sprintf("sess-%d", score),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// Whatever the interleaving, exactly the maximum score survives.
	entries := pending(t, q, "u1")
	require.Len(t, entries, 1)
	assert.Equal(t, callers, entries[0].Score)

	n, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRemoveAndCount(t *testing.T) {
	q, _ := newQueue(t)
	ctx := context.Background()

	_, err := q.Enqueue(ctx, models.QueuedScoreEntry{UserID: "u1", GameMode: models.ModeClassic, Score: 50, SessionID: "sess-1"})
	require.NoError(t, err)

	require.NoError(t, q.Remove(ctx, "sess-1"))

	n, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
