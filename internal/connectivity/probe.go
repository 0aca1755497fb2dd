package connectivity

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// ProbeMonitor polls the leaderboard base URL on a fixed interval and
// turns the observed reachability into an edge-triggered online signal.
type ProbeMonitor struct {
	httpClient *http.Client
	probeURL   string
	interval   time.Duration
	clock      clockwork.Clock

	online  atomic.Bool
	onlineC chan struct{}

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewProbeMonitor(probeURL string, interval time.Duration, clock clockwork.Clock) *ProbeMonitor {
	return &ProbeMonitor{
		httpClient: &http.Client{Timeout: 3 * time.Second},
		probeURL:   probeURL,
		interval:   interval,
		clock:      clock,
		onlineC:    make(chan struct{}, 1),
	}
}

func (m *ProbeMonitor) IsOnline() bool {
	return m.online.Load()
}

func (m *ProbeMonitor) Online() <-chan struct{} {
	return m.onlineC
}

// Start begins probing. The first probe runs immediately so the engine
// has a real reading before the first submit.
func (m *ProbeMonitor) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	m.probe(ctx)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := m.clock.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Debug().Msg("connectivity monitor shutting down")
				return
			case <-ticker.Chan():
				m.probe(ctx)
			}
		}
	}()
}

func (m *ProbeMonitor) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}

func (m *ProbeMonitor) probe(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, m.probeURL, nil)
	if err != nil {
		m.setOnline(false)
		return
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		m.setOnline(false)
		return
	}
	resp.Body.Close()

	// Any HTTP response proves the backend is reachable, even an error
	// status: reachability and application health are separate questions.
	m.setOnline(true)
}

func (m *ProbeMonitor) setOnline(online bool) {
	was := m.online.Swap(online)
	if online && !was {
		log.Info().Msg("connectivity restored")
		select {
		case m.onlineC <- struct{}{}:
		default:
			// Listener has not consumed the previous edge yet.
		}
	}
	if !online && was {
		log.Warn().Msg("connectivity lost")
	}
}
