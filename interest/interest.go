// Package interest tracks which targets a client currently wants updates
// for.
//
// Every target starts uninteresting. Only a transition from uninterested to
// interested asks the toolkit for a repaint, so the client gets a fresh
// frame the moment it starts caring about a target and no work is wasted
// before that.
package interest

import (
	"sync"

	"github.com/gogpu/ggstream"
	"github.com/gogpu/ggstream/command"
)

// RepaintFunc requests a full repaint of target.
type RepaintFunc func(target command.Target)

// Manager holds the interest flags of one client.
//
// Manager is safe for concurrent use. The repaint callback runs on the
// goroutine that caused the transition, after the manager's lock is
// released.
type Manager struct {
	repaint RepaintFunc

	mu         sync.Mutex
	interested map[command.Target]bool
}

// NewManager creates a manager that calls repaint on every gain of
// interest. A nil repaint is allowed.
func NewManager(repaint RepaintFunc) *Manager {
	return &Manager{
		repaint:    repaint,
		interested: make(map[command.Target]bool),
	}
}

// SetInterest records whether the client is interested in target. It
// reports whether a repaint was requested.
func (m *Manager) SetInterest(target command.Target, interested bool) bool {
	m.mu.Lock()
	was := m.interested[target]
	m.interested[target] = interested
	m.mu.Unlock()

	if was || !interested {
		return false
	}
	ggstream.Logger().Debug("interest: gained", "target", target.String())
	if m.repaint != nil {
		m.repaint(target)
	}
	return true
}

// Interested reports whether the client is interested in target.
func (m *Manager) Interested(target command.Target) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interested[target]
}

// Remove forgets target, typically when it is destroyed.
func (m *Manager) Remove(target command.Target) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.interested, target)
}

// Len returns the number of targets with a recorded flag.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.interested)
}
