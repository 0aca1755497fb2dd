package engine

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dmonteiro/scoresync/internal/connectivity"
)

// DrainWorker replays the offline backlog through the coordinator's
// gate/submit path. It runs once at startup to flush anything left from
// a previous session, then once per connectivity-restored edge.
type DrainWorker struct {
	coord   *Coordinator
	monitor connectivity.Monitor

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewDrainWorker(coord *Coordinator, monitor connectivity.Monitor) *DrainWorker {
	return &DrainWorker{coord: coord, monitor: monitor}
}

// Start launches the worker goroutine. The edge-triggered online signal
// means the worker never spins while connectivity stays up.
func (w *DrainWorker) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		// Startup flush: the previous session may have left scores queued.
		if w.monitor.IsOnline() {
			w.drainOnce(ctx)
		}

		for {
			select {
			case <-ctx.Done():
				log.Debug().Msg("drain worker shutting down")
				return
			case <-w.monitor.Online():
				w.drainOnce(ctx)
			}
		}
	}()
}

// Stop halts the worker. Draining stops between items, never mid-item.
func (w *DrainWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

// Drain replays every queued entry sequentially and returns how many
// reached a terminal state (submitted or discarded as superseded). The
// first transient network failure stops the pass — the remaining
// entries stay queued rather than hammering an unreachable backend —
// and draining resumes on the next connectivity edge.
func (w *DrainWorker) Drain(ctx context.Context) (int, error) {
	entries, err := w.coord.queue.PendingAll(ctx)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return processed, ctx.Err()
		default:
		}

		done, err := w.coord.processQueued(ctx, entry)
		if err != nil {
			log.Warn().Err(err).
				Int("processed", processed).
				Int("remaining", len(entries)-processed).
				Msg("drain stopped on transient failure")
			return processed, err
		}
		if done {
			processed++
		}
	}
	return processed, nil
}

func (w *DrainWorker) drainOnce(ctx context.Context) {
	processed, err := w.Drain(ctx)
	if err != nil {
		log.Warn().Err(err).Int("processed", processed).Msg("queue drain incomplete")
		return
	}
	if processed > 0 {
		log.Info().Int("processed", processed).Msg("queue drain complete")
	}
}
