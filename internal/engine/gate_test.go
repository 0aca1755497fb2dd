package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	syncerrors "github.com/dmonteiro/scoresync/internal/errors"
	"github.com/dmonteiro/scoresync/internal/engine"
	"github.com/dmonteiro/scoresync/internal/models"
	"github.com/dmonteiro/scoresync/internal/testutil/mocks"
)

func record(score int) *models.ScoreRecord {
	return &models.ScoreRecord{
		UserID:   "u1",
		GameMode: models.ModeClassic,
		Score:    score,
	}
}

func TestShouldSubmit_NoRemoteRecord(t *testing.T) {
	client := new(mocks.MockLeaderboardClient)
	client.On("QueryBest", mock.Anything, "u1", models.ModeClassic).Return(nil, nil)

	gate := engine.NewGate(client, clockwork.NewRealClock(), time.Second)

	should, err := gate.ShouldSubmit(context.Background(), "u1", models.ModeClassic, 10)
	require.NoError(t, err)
	assert.True(t, should, "first-ever score always qualifies")
}

func TestShouldSubmit_StrictImprovement(t *testing.T) {
	tests := []struct {
		name   string
		remote int
		score  int
		want   bool
	}{
		{"higher than remote", 40, 50, true},
		{"equal to remote", 50, 50, false},
		{"lower than remote", 60, 50, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(mocks.MockLeaderboardClient)
			client.On("QueryBest", mock.Anything, "u1", models.ModeClassic).Return(record(tt.remote), nil)

			gate := engine.NewGate(client, clockwork.NewRealClock(), time.Second)

			should, err := gate.ShouldSubmit(context.Background(), "u1", models.ModeClassic, tt.score)
			require.NoError(t, err)
			assert.Equal(t, tt.want, should)
		})
	}
}

func TestShouldSubmit_QueryFailureDefaultsToSubmit(t *testing.T) {
	client := new(mocks.MockLeaderboardClient)
	client.On("QueryBest", mock.Anything, "u1", models.ModeClassic).
		Return(nil, syncerrors.NewNetworkError(context.DeadlineExceeded))

	gate := engine.NewGate(client, clockwork.NewRealClock(), time.Second)

	should, err := gate.ShouldSubmit(context.Background(), "u1", models.ModeClassic, 10)
	assert.True(t, should, "a failed query must never drop a potentially good score")
	assert.Error(t, err, "the degraded answer is still reported to the caller")
}

func TestShouldSubmit_BudgetExceeded(t *testing.T) {
	clock := clockwork.NewFakeClock()
	client := new(mocks.MockLeaderboardClient)
	client.On("QueryBest", mock.Anything, "u1", models.ModeClassic).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			<-ctx.Done()
		}).
		Return(nil, nil)

	gate := engine.NewGate(client, clock, time.Second)

	type result struct {
		should bool
		err    error
	}
	done := make(chan result, 1)
	go func() {
		should, err := gate.ShouldSubmit(context.Background(), "u1", models.ModeClassic, 10)
		done <- result{should, err}
	}()

	// Wait for the budget timer, then let it win the race.
	clock.BlockUntil(1)
	clock.Advance(time.Second)

	select {
	case res := <-done:
		assert.True(t, res.should)
		require.Error(t, res.err)
		assert.True(t, syncerrors.HasCode(res.err, syncerrors.ErrCodeNetwork))
	case <-time.After(2 * time.Second):
		t.Fatal("gate did not resolve after the budget elapsed")
	}
}
