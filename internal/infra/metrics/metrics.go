// File: internal/infra/metrics/metrics.go
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(lookupsTotal, lookupLatencyMs)
}

var (
	lookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_lookups_total",
			Help: "Stock lookups by outcome (found/not_found/error/invalid).",
		},
		[]string{"outcome"},
	)

	lookupLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stock_lookup_latency_ms",
			Help:    "Stock lookup latency distribution in milliseconds.",
			Buckets: []float64{5, 10, 25, 50, 100, 200, 400, 800, 1600, 5000},
		},
		[]string{"outcome"},
	)
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// ObserveLookup records one lookup with its outcome and duration.
func ObserveLookup(outcome string, elapsed time.Duration) {
	lookupsTotal.WithLabelValues(norm(outcome)).Inc()
	lookupLatencyMs.WithLabelValues(norm(outcome)).Observe(float64(elapsed.Milliseconds()))
}

// IncInvalidInput counts messages rejected before reaching the store.
func IncInvalidInput() {
	lookupsTotal.WithLabelValues("invalid").Inc()
}
