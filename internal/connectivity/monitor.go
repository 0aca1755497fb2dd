package connectivity

// Monitor reports whether the leaderboard backend is reachable and
// notifies listeners when connectivity comes back.
type Monitor interface {
	// IsOnline reports the last known connectivity state.
	IsOnline() bool
	// Online delivers one signal per offline-to-online transition. It is
	// edge-triggered: it never fires repeatedly while the state stays
	// online.
	Online() <-chan struct{}
}
