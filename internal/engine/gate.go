package engine

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	syncerrors "github.com/dmonteiro/scoresync/internal/errors"
	"github.com/dmonteiro/scoresync/internal/leaderboard"
	"github.com/dmonteiro/scoresync/internal/models"
)

// Gate decides whether a candidate score improves on the user's
// currently published best and is therefore worth writing.
type Gate struct {
	client leaderboard.Client
	clock  clockwork.Clock
	budget time.Duration
}

func NewGate(client leaderboard.Client, clock clockwork.Clock, budget time.Duration) *Gate {
	return &Gate{client: client, clock: clock, budget: budget}
}

// ShouldSubmit queries the remote best record for (userID, mode) under
// the per-call budget. No remote record means a first-ever score and
// always qualifies; ties do not resubmit. When the query itself fails
// the gate answers true anyway — never silently dropping a potentially
// good score beats avoiding a redundant write — and returns the failure
// so the caller can tell a degraded answer from a definitive one.
func (g *Gate) ShouldSubmit(ctx context.Context, userID string, mode models.GameMode, score int) (bool, error) {
	var rec *models.ScoreRecord
	err := callWithBudget(ctx, g.clock, g.budget, func(cctx context.Context) error {
		r, qerr := g.client.QueryBest(cctx, userID, mode)
		if qerr != nil {
			return qerr
		}
		rec = r
		return nil
	})
	if err != nil {
		log.Warn().Err(err).
			Str("user_id", userID).
			Str("game_mode", string(mode)).
			Msg("best score query degraded, defaulting to submit")
		return true, err
	}
	if rec == nil {
		log.Debug().Str("user_id", userID).Str("game_mode", string(mode)).Msg("no remote record, first score qualifies")
		return true, nil
	}
	return score > rec.Score, nil
}

// callWithBudget races fn against a wall-clock timer. A timer win
// cancels fn's context and surfaces as a network error.
func callWithBudget(ctx context.Context, clock clockwork.Clock, budget time.Duration, fn func(context.Context) error) error {
	cctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- fn(cctx) }()

	timer := clock.NewTimer(budget)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.Chan():
		cancel()
		return syncerrors.NewNetworkError(context.DeadlineExceeded)
	}
}
