// Package connectivity provides network reachability signaling.
package connectivity

import "sync"

// Signal reports current network reachability and notifies subscribers on
// transitions. The queue layer consumes a Signal; it never owns one.
type Signal interface {
	// IsOnline reports current reachability.
	IsOnline() bool

	// Subscribe registers a listener invoked on every online/offline
	// transition. The returned cancel func removes the listener.
	Subscribe(listener func(online bool)) (cancel func())
}

// Static is a manually driven Signal, used by tests and by callers that
// receive reachability from the host platform instead of probing.
type Static struct {
	mu        sync.RWMutex
	online    bool
	listeners map[int]func(online bool)
	nextID    int
}

// NewStatic creates a Static signal with the given initial state.
func NewStatic(online bool) *Static {
	return &Static{
		online:    online,
		listeners: make(map[int]func(online bool)),
	}
}

// IsOnline reports the current state.
func (s *Static) IsOnline() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.online
}

// SetOnline updates the state, notifying listeners on transitions.
func (s *Static) SetOnline(online bool) {
	s.mu.Lock()
	if s.online == online {
		s.mu.Unlock()
		return
	}
	s.online = online
	listeners := make([]func(online bool), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(online)
	}
}

// Subscribe registers a transition listener.
func (s *Static) Subscribe(listener func(online bool)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}
