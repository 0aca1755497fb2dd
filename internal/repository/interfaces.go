package repository

import (
	"context"

	"github.com/dmonteiro/scoresync/internal/models"
)

// ScoreQueueRepository persists the offline score backlog. It exposes
// append/list/remove primitives only — no in-place mutation — so the
// durable log stays simple to reason about after a crash mid-write.
// Deduplication policy lives above this layer, in queue.Queue.
type ScoreQueueRepository interface {
	// Append inserts a new entry at the end of the log.
	Append(ctx context.Context, entry models.QueuedScoreEntry) error
	// ListByUser returns the user's entries in insertion order.
	ListByUser(ctx context.Context, userID string) ([]models.QueuedScoreEntry, error)
	// ListAll returns every entry in insertion order.
	ListAll(ctx context.Context) ([]models.QueuedScoreEntry, error)
	// Remove deletes the entry with the given session id, if present.
	Remove(ctx context.Context, sessionID string) error
	// Count returns the total number of queued entries.
	Count(ctx context.Context) (int, error)
}
