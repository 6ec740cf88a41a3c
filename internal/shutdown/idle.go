// Package shutdown provides idle monitoring for scale-to-zero deployments.
package shutdown

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// IdleMonitor tracks request activity and signals when the server has
// seen no traffic for a configurable duration, letting platforms like
// Fly.io stop the machine. A timeout of 0 disables it. Probe paths are
// excluded so health checks don't keep the server alive.
type IdleMonitor struct {
	timeout      time.Duration
	logger       *slog.Logger
	excludePaths []string

	activeRequests atomic.Int64
	mu             sync.RWMutex
	lastActivity   time.Time

	shutdownChan chan struct{}
	stopChan     chan struct{}
}

// NewIdleMonitor creates an idle monitor.
func NewIdleMonitor(timeout time.Duration, excludePaths []string, logger *slog.Logger) *IdleMonitor {
	return &IdleMonitor{
		timeout:      timeout,
		logger:       logger,
		excludePaths: excludePaths,
		lastActivity: time.Now(),
		shutdownChan: make(chan struct{}),
		stopChan:     make(chan struct{}),
	}
}

// Start begins watching for idle periods.
func (m *IdleMonitor) Start() {
	if m.timeout <= 0 {
		return
	}
	m.logger.Info("idle monitoring started", "timeout", m.timeout)
	go m.run()
}

// Stop ends monitoring without signaling shutdown.
func (m *IdleMonitor) Stop() {
	if m.timeout <= 0 {
		return
	}
	close(m.stopChan)
}

// ShutdownChan is closed when the idle timeout is reached.
func (m *IdleMonitor) ShutdownChan() <-chan struct{} {
	return m.shutdownChan
}

// Middleware tracks request activity, skipping excluded paths.
func (m *IdleMonitor) Middleware(next http.Handler) http.Handler {
	if m.timeout <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.excluded(r.URL.Path) {
			m.activeRequests.Add(1)
			m.touch()
			defer func() {
				m.activeRequests.Add(-1)
				m.touch()
			}()
		}
		next.ServeHTTP(w, r)
	})
}

func (m *IdleMonitor) excluded(path string) bool {
	for _, p := range m.excludePaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func (m *IdleMonitor) touch() {
	m.mu.Lock()
	m.lastActivity = time.Now()
	m.mu.Unlock()
}

func (m *IdleMonitor) run() {
	// Poll well below the timeout so shutdown is responsive, but never
	// busier than every 5s.
	interval := m.timeout / 6
	if interval < 5*time.Second {
		interval = 5 * time.Second
	}
	if interval > 30*time.Second {
		interval = 30 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopChan:
			return
		case <-ticker.C:
			active := m.activeRequests.Load()
			if active > 0 {
				m.touch()
				continue
			}
			m.mu.RLock()
			idle := time.Since(m.lastActivity)
			m.mu.RUnlock()
			if idle >= m.timeout {
				m.logger.Info("idle timeout reached, signaling graceful shutdown",
					"idle_time", idle, "timeout", m.timeout)
				close(m.shutdownChan)
				return
			}
		}
	}
}
