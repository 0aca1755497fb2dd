package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	syncerrors "github.com/dmonteiro/scoresync/internal/errors"
	"github.com/dmonteiro/scoresync/internal/connectivity"
	"github.com/dmonteiro/scoresync/internal/leaderboard"
	"github.com/dmonteiro/scoresync/internal/models"
	"github.com/dmonteiro/scoresync/internal/queue"
)

// Coordinator orchestrates validation, the best-score gate, and the
// submit-or-queue decision for each completed session. A single mutex
// serializes submissions and queue draining so two writers can never
// race on the gate query or on the same queue key.
type Coordinator struct {
	validator *Validator
	gate      *Gate
	client    leaderboard.Client
	queue     *queue.Queue
	monitor   connectivity.Monitor
	clock     clockwork.Clock
	budget    time.Duration

	mu         sync.Mutex
	submitting atomic.Bool
}

func NewCoordinator(
	validator *Validator,
	gate *Gate,
	client leaderboard.Client,
	q *queue.Queue,
	monitor connectivity.Monitor,
	clock clockwork.Clock,
	budget time.Duration,
) *Coordinator {
	return &Coordinator{
		validator: validator,
		gate:      gate,
		client:    client,
		queue:     q,
		monitor:   monitor,
		clock:     clock,
		budget:    budget,
	}
}

// Submit decides the fate of one completed session's score. It always
// runs to a terminal outcome within the call budget; there is no
// external cancel. At most two network legs are made (the gate query
// and the optional write), each under its own budget.
func (c *Coordinator) Submit(ctx context.Context, session models.SessionRecord, user models.UserIdentity, mode models.GameMode) models.SubmissionOutcome {
	score := session.FinalScore

	// Fast-fail before any I/O.
	if err := c.validator.ValidateSession(session); err != nil {
		log.Warn().Err(err).Str("session_id", session.SessionID).Msg("rejecting invalid session")
		return models.OutcomeInvalidScore
	}
	if mode.RequiresIdentity() && (user.UserID == "" || user.IsGuest) {
		log.Debug().Str("game_mode", string(mode)).Msg("submission requires an authenticated identity")
		return models.OutcomeNotAuthenticated
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting.Store(true)
	defer c.submitting.Store(false)

	// The restart-disable window is sized at 1.5x the call budget: both
	// network legs together must resolve within it.
	start := c.clock.Now()

	should, gateErr := c.gate.ShouldSubmit(ctx, user.UserID, mode, score)
	if gateErr == nil && !should {
		log.Info().
			Str("user_id", user.UserID).
			Str("game_mode", string(mode)).
			Int("score", score).
			Msg("a better score already exists remotely")
		return models.OutcomeNotBestScore
	}

	entry := models.QueuedScoreEntry{
		UserID:    user.UserID,
		GameMode:  mode,
		Score:     score,
		SessionID: session.SessionID,
		QueuedAt:  c.clock.Now(),
	}

	if !c.monitor.IsOnline() {
		if _, err := c.queue.Enqueue(ctx, entry); err != nil {
			log.Error().Err(err).Str("session_id", session.SessionID).Msg("failed to queue score while offline")
			return models.OutcomeFailed
		}
		return models.OutcomeQueued
	}

	// The submit leg runs under its own sub-budget, capped to whatever
	// is left of the overall window. A gate query that spent its full
	// budget leaves the write half a budget, keeping the worst case at
	// 1.5x instead of 2x.
	submitBudget := c.budget
	if remaining := c.budget + c.budget/2 - c.clock.Now().Sub(start); remaining < submitBudget {
		submitBudget = remaining
	}

	var err error
	if submitBudget <= 0 {
		err = syncerrors.NewNetworkError(context.DeadlineExceeded)
	} else {
		err = callWithBudget(ctx, c.clock, submitBudget, func(cctx context.Context) error {
			return c.client.SubmitScore(cctx, entry, session)
		})
	}
	if err == nil {
		return models.OutcomeSuccess
	}
	if syncerrors.HasCode(err, syncerrors.ErrCodeRemoteRejected) {
		log.Error().Err(err).Str("session_id", session.SessionID).Msg("leaderboard rejected the submission")
		return models.OutcomeFailed
	}

	// Transport failure: queue the score as a safety net so it is not
	// lost. The caller still observes the network error, but the queued
	// copy means no manual retry is needed.
	if _, qerr := c.queue.Enqueue(ctx, entry); qerr != nil {
		log.Error().Err(qerr).Str("session_id", session.SessionID).Msg("failed to queue score after network error")
	}
	return models.OutcomeNetworkError
}

// IsSubmissionInProgress reports whether a Submit call is in flight.
func (c *Coordinator) IsSubmissionInProgress() bool {
	return c.submitting.Load()
}

// IsRestartEnabled reports whether the UI may offer the restart control.
// It is disabled exactly while a submission is in flight.
func (c *Coordinator) IsRestartEnabled() bool {
	return !c.submitting.Load()
}

// State exposes the coordinator lifecycle for UI gating.
func (c *Coordinator) State() models.CoordinatorState {
	if c.submitting.Load() {
		return models.StateSubmitting
	}
	return models.StateIdle
}

// QueuedCount returns the number of scores pending sync.
func (c *Coordinator) QueuedCount(ctx context.Context) (int, error) {
	return c.queue.Count(ctx)
}

// processQueued replays one queued entry through the gate/submit path
// under the coordinator's mutex. It reports whether the entry reached a
// terminal state (submitted or discarded as superseded) and was removed.
// A transient network failure leaves the entry in place for a later
// drain.
func (c *Coordinator) processQueued(ctx context.Context, entry models.QueuedScoreEntry) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// The drain snapshot was taken before this lock: a concurrent submit
	// may have superseded the entry since. Only process entries the
	// queue still holds; a replacement was not in the snapshot and waits
	// for the next drain.
	held, err := c.stillQueued(ctx, entry)
	if err != nil {
		return false, err
	}
	if !held {
		log.Debug().
			Str("session_id", entry.SessionID).
			Str("user_id", entry.UserID).
			Str("game_mode", string(entry.GameMode)).
			Msg("queued score superseded mid-drain, skipping")
		return false, nil
	}

	should, gateErr := c.gate.ShouldSubmit(ctx, entry.UserID, entry.GameMode, entry.Score)
	if gateErr != nil {
		return false, gateErr
	}
	if !should {
		// Another device published a better score since this was queued.
		log.Info().
			Str("user_id", entry.UserID).
			Str("game_mode", string(entry.GameMode)).
			Int("score", entry.Score).
			Msg("queued score superseded remotely, discarding")
		if err := c.queue.Remove(ctx, entry.SessionID); err != nil {
			return false, err
		}
		return true, nil
	}

	meta := models.SessionRecord{SessionID: entry.SessionID, FinalScore: entry.Score}
	err = callWithBudget(ctx, c.clock, c.budget, func(cctx context.Context) error {
		return c.client.SubmitScore(cctx, entry, meta)
	})
	if err != nil {
		if syncerrors.HasCode(err, syncerrors.ErrCodeRemoteRejected) {
			// A payload the service refuses once it will refuse forever;
			// leaving it queued would wedge the drain.
			log.Error().Err(err).Str("session_id", entry.SessionID).Msg("dropping queued score rejected by leaderboard")
			if rerr := c.queue.Remove(ctx, entry.SessionID); rerr != nil {
				return false, rerr
			}
			return true, nil
		}
		return false, err
	}

	if err := c.queue.Remove(ctx, entry.SessionID); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Coordinator) stillQueued(ctx context.Context, entry models.QueuedScoreEntry) (bool, error) {
	pending, err := c.queue.PendingFor(ctx, entry.UserID)
	if err != nil {
		return false, err
	}
	for _, e := range pending {
		if e.GameMode == entry.GameMode && e.SessionID == entry.SessionID {
			return true, nil
		}
	}
	return false, nil
}
