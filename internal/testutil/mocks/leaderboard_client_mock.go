package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmonteiro/scoresync/internal/models"
)

// MockLeaderboardClient is a mock implementation of leaderboard.Client
type MockLeaderboardClient struct {
	mock.Mock
}

func (m *MockLeaderboardClient) QueryBest(ctx context.Context, userID string, mode models.GameMode) (*models.ScoreRecord, error) {
	args := m.Called(ctx, userID, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScoreRecord), args.Error(1)
}

func (m *MockLeaderboardClient) SubmitScore(ctx context.Context, entry models.QueuedScoreEntry, meta models.SessionRecord) error {
	args := m.Called(ctx, entry, meta)
	return args.Error(0)
}
