package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(storeUp, storeConnectAttempts) }

var (
	storeUp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "document_store_up",
			Help: "1 when the last document store ping succeeded, 0 otherwise.",
		},
	)

	storeConnectAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_store_connect_attempts_total",
			Help: "Startup connection attempts by result.",
		},
		[]string{"result"}, // 'ok', 'failed'
	)
)

func SetStoreUp(up bool) {
	if up {
		storeUp.Set(1)
		return
	}
	storeUp.Set(0)
}

func IncStoreConnectAttempt(ok bool) {
	if ok {
		storeConnectAttempts.WithLabelValues("ok").Inc()
		return
	}
	storeConnectAttempts.WithLabelValues("failed").Inc()
}
