package testutil

import "sync/atomic"

// ManualMonitor is a connectivity.Monitor whose state tests flip by
// hand. SetOnline(true) after an offline period emits one edge, the
// same way the probe monitor does.
type ManualMonitor struct {
	online  atomic.Bool
	onlineC chan struct{}
}

func NewManualMonitor(online bool) *ManualMonitor {
	m := &ManualMonitor{onlineC: make(chan struct{}, 1)}
	m.online.Store(online)
	return m
}

func (m *ManualMonitor) IsOnline() bool {
	return m.online.Load()
}

func (m *ManualMonitor) Online() <-chan struct{} {
	return m.onlineC
}

func (m *ManualMonitor) SetOnline(online bool) {
	was := m.online.Swap(online)
	if online && !was {
		select {
		case m.onlineC <- struct{}{}:
		default:
		}
	}
}
