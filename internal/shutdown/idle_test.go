package shutdown

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDisabledMonitorPassesThrough(t *testing.T) {
	m := NewIdleMonitor(0, nil, testLogger())
	m.Start()
	defer m.Stop()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	wrapped := m.Middleware(handler)

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/games", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}

	select {
	case <-m.ShutdownChan():
		t.Fatal("disabled monitor should never signal shutdown")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestExcludedPathsDoNotCountAsActivity(t *testing.T) {
	m := NewIdleMonitor(time.Minute, []string{"/healthz"}, testLogger())

	wrapped := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	before := m.lastActivity
	time.Sleep(time.Millisecond)
	wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if !m.lastActivity.Equal(before) {
		t.Error("probe request should not refresh activity")
	}

	wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/games", nil))
	if m.lastActivity.Equal(before) {
		t.Error("real request should refresh activity")
	}
}

func TestActiveRequestCounting(t *testing.T) {
	m := NewIdleMonitor(time.Minute, nil, testLogger())

	entered := make(chan struct{})
	release := make(chan struct{})
	wrapped := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
	}))

	go wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	<-entered
	if got := m.activeRequests.Load(); got != 1 {
		t.Errorf("active = %d, want 1", got)
	}
	close(release)

	deadline := time.After(time.Second)
	for m.activeRequests.Load() != 0 {
		select {
		case <-deadline:
			t.Fatal("active count never returned to 0")
		case <-time.After(time.Millisecond):
		}
	}
}
