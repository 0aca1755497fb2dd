package queue

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/dmonteiro/scoresync/internal/models"
	"github.com/dmonteiro/scoresync/internal/repository"
)

// Queue is the offline score backlog. It owns the single-best-per-key
// invariant: for any (userID, gameMode) pair at most one entry exists,
// and it is always the best pending score for that pair. Replacement is
// remove-then-append, never an in-place edit.
type Queue struct {
	mu    sync.Mutex
	repo  repository.ScoreQueueRepository
	clock clockwork.Clock
}

func New(repo repository.ScoreQueueRepository, clock clockwork.Clock) *Queue {
	return &Queue{repo: repo, clock: clock}
}

// Enqueue adds a pending score, superseding any lower-or-equal entry for
// the same (user, mode) key. It reports whether the entry was stored: a
// strictly higher score already queued for the key makes the call a no-op.
func (q *Queue) Enqueue(ctx context.Context, entry models.QueuedScoreEntry) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	existing, err := q.repo.ListByUser(ctx, entry.UserID)
	if err != nil {
		return false, err
	}
	for _, e := range existing {
		if e.GameMode != entry.GameMode {
			continue
		}
		if e.Score > entry.Score {
			log.Debug().
				Str("user_id", entry.UserID).
				Str("game_mode", string(entry.GameMode)).
				Int("queued_score", e.Score).
				Int("new_score", entry.Score).
				Msg("higher score already queued, dropping new entry")
			return false, nil
		}
		if err := q.repo.Remove(ctx, e.SessionID); err != nil {
			return false, err
		}
		log.Debug().
			Str("user_id", entry.UserID).
			Str("game_mode", string(entry.GameMode)).
			Int("superseded_score", e.Score).
			Msg("superseded queued score")
	}

	if entry.QueuedAt.IsZero() {
		entry.QueuedAt = q.clock.Now()
	}
	if err := q.repo.Append(ctx, entry); err != nil {
		return false, err
	}
	log.Info().
		Str("user_id", entry.UserID).
		Str("game_mode", string(entry.GameMode)).
		Int("score", entry.Score).
		Msg("score queued for later submission")
	return true, nil
}

// PendingFor returns the user's queued entries in insertion order.
func (q *Queue) PendingFor(ctx context.Context, userID string) ([]models.QueuedScoreEntry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.repo.ListByUser(ctx, userID)
}

// PendingAll returns every queued entry in insertion order.
func (q *Queue) PendingAll(ctx context.Context) ([]models.QueuedScoreEntry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.repo.ListAll(ctx)
}

// Remove deletes the entry with the given session id.
func (q *Queue) Remove(ctx context.Context, sessionID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.repo.Remove(ctx, sessionID)
}

// Count returns the number of scores waiting for sync.
func (q *Queue) Count(ctx context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.repo.Count(ctx)
}
