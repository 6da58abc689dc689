package connectivity

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/lunchline/core/internal/logging"
)

// Monitor is a probe-based Signal: it periodically issues a lightweight
// request against a health endpoint and flips state on the result.
type Monitor struct {
	healthURL string
	interval  time.Duration
	client    *http.Client

	state *Static // state + listener bookkeeping

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// MonitorConfig holds monitor configuration.
type MonitorConfig struct {
	HealthURL string        // endpoint probed for reachability
	Interval  time.Duration // probe cadence (default: 30 seconds)
	Timeout   time.Duration // per-probe timeout (default: 5 seconds)
}

// NewMonitor creates a Monitor. The monitor assumes online until the first
// probe says otherwise.
func NewMonitor(config MonitorConfig) *Monitor {
	if config.Interval <= 0 {
		config.Interval = 30 * time.Second
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}

	return &Monitor{
		healthURL: config.HealthURL,
		interval:  config.Interval,
		client:    &http.Client{Timeout: config.Timeout},
		state:     NewStatic(true),
	}
}

// IsOnline reports the state observed by the last probe.
func (m *Monitor) IsOnline() bool {
	return m.state.IsOnline()
}

// Subscribe registers a transition listener.
func (m *Monitor) Subscribe(listener func(online bool)) (cancel func()) {
	return m.state.Subscribe(listener)
}

// Start begins probing in the background. Calling Start on a running
// monitor is a no-op.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.mu.Unlock()

	m.wg.Add(1)
	go m.probeLoop(ctx)
}

// Stop halts probing and waits for the probe loop to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	close(m.stopCh)
	m.mu.Unlock()

	m.wg.Wait()
}

// Probe performs one reachability check immediately and updates the state.
func (m *Monitor) Probe(ctx context.Context) bool {
	online := m.check(ctx)
	if online != m.state.IsOnline() {
		logging.Info("connectivity changed", map[string]interface{}{"online": online})
	}
	m.state.SetOnline(online)
	return online
}

func (m *Monitor) probeLoop(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Probe(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.Probe(ctx)
		}
	}
}

// check issues the health request. Any response at all means the network
// path to the server works; only transport failures count as offline.
func (m *Monitor) check(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.healthURL, nil)
	if err != nil {
		return false
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}
