package servers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"adachi/logger"
	"adachi/metrics"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLog() *logger.Adapter {
	return logger.Wrap(logger.New(&strings.Builder{}, "error"))
}

func TestHealthReflectsReadiness(t *testing.T) {
	var ready atomic.Bool
	s := NewStatusServer("127.0.0.1:0", ready.Load, testLog())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	ready.Store(true)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestMetricsRoute(t *testing.T) {
	metrics.VerdictCounter.WithLabelValues("maybe").Inc()
	s := NewStatusServer("127.0.0.1:0", func() bool { return true }, testLog())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `adachi_verdicts_total{verdict="maybe"}`)
}

func TestUnknownRoute(t *testing.T) {
	s := NewStatusServer("127.0.0.1:0", func() bool { return true }, testLog())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStatusServerStopsOnCancel(t *testing.T) {
	s := NewStatusServer("127.0.0.1:0", func() bool { return true }, testLog())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("status server did not stop")
	}
}

type stubServer struct {
	name string
	err  error
}

func (s *stubServer) Name() string { return s.name }

func (s *stubServer) Start(ctx context.Context) error {
	if s.err != nil {
		return s.err
	}
	<-ctx.Done()
	return nil
}

func TestManagerFirstFailureCancelsOthers(t *testing.T) {
	m := NewManager(testLog())
	m.AddServer(&stubServer{name: "waits"})
	m.AddServer(&stubServer{name: "fails", err: errors.New("bind: address in use")})

	err := m.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server fails")
}

func TestManagerStopsOnCancel(t *testing.T) {
	m := NewManager(testLog())
	m.AddServer(&stubServer{name: "a"})
	m.AddServer(&stubServer{name: "b"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, m.Run(ctx))
}
