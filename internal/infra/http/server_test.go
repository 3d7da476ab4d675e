//go:build !integration

package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adminhttp "stock-lookup-bot/internal/infra/http"
)

type pingStub struct{ err error }

func (p pingStub) Ping(ctx context.Context) error { return p.err }

func TestHealth_StoreUp(t *testing.T) {
	srv := adminhttp.NewServer(0, pingStub{}, prometheus.NewRegistry(), nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "up", body["store"])
}

func TestHealth_StoreDown(t *testing.T) {
	srv := adminhttp.NewServer(0, pingStub{err: errors.New("no reachable servers")}, prometheus.NewRegistry(), nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"degraded","store":"down"}`, rec.Body.String())
}

func TestMetrics_ServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "admin_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()

	srv := adminhttp.NewServer(0, nil, reg, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin_test_total 1")
}

func TestUnknownRoute(t *testing.T) {
	srv := adminhttp.NewServer(0, nil, prometheus.NewRegistry(), nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestTraceHeader(t *testing.T) {
	srv := adminhttp.NewServer(0, pingStub{}, prometheus.NewRegistry(), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Trace-Id", "trace-123")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "trace-123", rec.Header().Get("X-Trace-Id"))

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Len(t, rec.Header().Get("X-Trace-Id"), 36)
}

func TestShutdownBeforeStart(t *testing.T) {
	srv := adminhttp.NewServer(0, nil, nil, nil)
	assert.NoError(t, srv.Shutdown(context.Background()))
}
