// Package scoresync decides, for each completed play session, whether a
// score is worth sending to the shared leaderboard. It guarantees only a
// user's best score per game mode ever reaches the server, bounds every
// network interaction with a wall-clock budget, and degrades to a
// durable local queue when connectivity is unavailable.
package scoresync

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jonboulle/clockwork"

	"github.com/dmonteiro/scoresync/internal/config"
	"github.com/dmonteiro/scoresync/internal/connectivity"
	"github.com/dmonteiro/scoresync/internal/db"
	"github.com/dmonteiro/scoresync/internal/engine"
	"github.com/dmonteiro/scoresync/internal/leaderboard"
	"github.com/dmonteiro/scoresync/internal/logging"
	"github.com/dmonteiro/scoresync/internal/queue"
	"github.com/dmonteiro/scoresync/internal/repository/sqlite"
)

// Config holds the engine's settings. LoadConfig reads it from the
// environment.
type Config = config.Config

// LoadConfig reads configuration from a .env file and the environment.
func LoadConfig() Config {
	return config.Load()
}

// Engine is the score-synchronization engine embedded in the game
// client. It owns the offline queue, the drain worker, and the
// connectivity monitor; the game owns everything else.
type Engine struct {
	database *db.DB
	coord    *engine.Coordinator
	worker   *engine.DrainWorker
	monitor  *connectivity.ProbeMonitor

	startOnce sync.Once
	stopOnce  sync.Once
	started   atomic.Bool
}

// New wires the engine from configuration: local queue storage, the
// remote leaderboard client, and the connectivity probe.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	clock := clockwork.NewRealClock()
	repo := sqlite.NewScoreQueueRepository(database.DB)
	q := queue.New(repo, clock)
	client := leaderboard.New(cfg.LeaderboardBaseURL)
	monitor := connectivity.NewProbeMonitor(cfg.LeaderboardBaseURL, cfg.ProbeInterval, clock)
	validator := engine.NewValidator(cfg.ScoreCeiling)
	gate := engine.NewGate(client, clock, cfg.RemoteCallBudget)
	coord := engine.NewCoordinator(validator, gate, client, q, monitor, clock, cfg.RemoteCallBudget)

	return &Engine{
		database: database,
		coord:    coord,
		worker:   engine.NewDrainWorker(coord, monitor),
		monitor:  monitor,
	}, nil
}

// Submit runs one completed session through validation, the best-score
// gate, and the submit-or-queue decision, returning a terminal outcome.
func (e *Engine) Submit(ctx context.Context, session SessionRecord, user UserIdentity, mode GameMode) SubmissionOutcome {
	return e.coord.Submit(ctx, session, user, mode)
}

// IsSubmissionInProgress reports whether a Submit call is in flight.
func (e *Engine) IsSubmissionInProgress() bool {
	return e.coord.IsSubmissionInProgress()
}

// IsRestartEnabled reports whether the UI may offer the restart control.
func (e *Engine) IsRestartEnabled() bool {
	return e.coord.IsRestartEnabled()
}

// QueuedCount returns the number of scores pending sync, for
// "N scores pending" indicators.
func (e *Engine) QueuedCount(ctx context.Context) (int, error) {
	return e.coord.QueuedCount(ctx)
}

// StartDrainWorker begins connectivity probing and background queue
// draining. Safe to call more than once; only the first call starts
// anything. The worker flushes any backlog left from a previous session
// as soon as connectivity is confirmed.
func (e *Engine) StartDrainWorker(ctx context.Context) {
	e.startOnce.Do(func() {
		e.started.Store(true)
		e.monitor.Start(ctx)
		e.worker.Start(ctx)
	})
}

// Close stops the background worker and releases the queue database.
// Safe to call more than once.
func (e *Engine) Close() error {
	e.stopOnce.Do(func() {
		if e.started.Load() {
			e.worker.Stop()
			e.monitor.Stop()
		}
	})
	return e.database.Close()
}
