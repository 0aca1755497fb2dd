package leaderboard

import (
	"context"

	"github.com/dmonteiro/scoresync/internal/models"
)

// Client defines the interface for remote leaderboard operations.
// This interface enables testability by allowing mock implementations.
type Client interface {
	// QueryBest returns the best published record for (userID, mode), or
	// nil when the user has no record in that mode yet.
	QueryBest(ctx context.Context, userID string, mode models.GameMode) (*models.ScoreRecord, error)
	// SubmitScore publishes a score together with its session metadata.
	SubmitScore(ctx context.Context, entry models.QueuedScoreEntry, meta models.SessionRecord) error
}

// Ensure HTTPClient implements the interface
var _ Client = (*HTTPClient)(nil)
