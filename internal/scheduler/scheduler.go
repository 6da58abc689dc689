// Package scheduler provides background flushing of the offline queue.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/lunchline/core/internal/connectivity"
	"github.com/lunchline/core/internal/logging"
	"github.com/lunchline/core/internal/queue"
)

// FlushScheduler triggers queue replay passes: immediately when
// connectivity returns, and periodically as a safety net. Overlapping
// triggers are harmless because the queue manager is single-flight.
type FlushScheduler struct {
	queue  *queue.Manager
	signal connectivity.Signal

	flushInterval time.Duration

	mu        sync.Mutex
	isRunning bool
	stopCh    chan struct{}
	unsub     func()
	wg        sync.WaitGroup
}

// Config holds scheduler configuration.
type Config struct {
	FlushInterval time.Duration // periodic flush cadence (default: 1 minute)
}

// DefaultConfig returns default scheduler configuration.
func DefaultConfig() *Config {
	return &Config{
		FlushInterval: 1 * time.Minute,
	}
}

// NewFlushScheduler creates a FlushScheduler.
func NewFlushScheduler(q *queue.Manager, signal connectivity.Signal, config *Config) *FlushScheduler {
	if config == nil {
		config = DefaultConfig()
	}

	return &FlushScheduler{
		queue:         q,
		signal:        signal,
		flushInterval: config.FlushInterval,
	}
}

// Start begins background flushing. Calling Start on a running scheduler
// is a no-op.
func (s *FlushScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	// Flush as soon as connectivity comes back.
	s.unsub = s.signal.Subscribe(func(online bool) {
		if online {
			logging.Info("connectivity restored, flushing queue", nil)
			go s.flush(ctx)
		}
	})

	s.wg.Add(1)
	go s.flushLoop(ctx)

	logging.Info("flush scheduler started", nil)
}

// Stop stops the scheduler gracefully.
func (s *FlushScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	s.unsub()
	close(s.stopCh)
	s.wg.Wait()

	logging.Info("flush scheduler stopped", nil)
}

// flushLoop periodically flushes while online.
func (s *FlushScheduler) flushLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			if !s.signal.IsOnline() {
				continue
			}
			s.flush(ctx)
		}
	}
}

// flush runs one replay pass and logs its outcome.
func (s *FlushScheduler) flush(ctx context.Context) {
	result := s.queue.ProcessQueue(ctx)
	if result.Sent == 0 && result.Quarantined == 0 && result.Deferred == 0 && !result.Stopped {
		return
	}

	logging.Info("queue flush finished", map[string]interface{}{
		"sent":        result.Sent,
		"quarantined": result.Quarantined,
		"deferred":    result.Deferred,
		"stopped":     result.Stopped,
	})
}
