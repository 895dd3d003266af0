package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	DispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lambdagate_dispatch_total",
			Help: "Total number of dispatched requests by outcome",
		},
		[]string{"worker_id", "outcome"},
	)

	DispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lambdagate_dispatch_duration_seconds",
			Help:    "Duration of a dispatch from request arrival to response",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"worker_id", "outcome"},
	)

	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lambdagate_cache_hits_total",
			Help: "Total number of response cache hits",
		},
	)

	CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lambdagate_cache_misses_total",
			Help: "Total number of response cache misses",
		},
	)

	WorkersReady = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "lambdagate_workers_ready",
			Help: "Number of workers currently in the ready state",
		},
	)
)

func Init() {
	prometheus.MustRegister(DispatchTotal)
	prometheus.MustRegister(DispatchDuration)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
	prometheus.MustRegister(WorkersReady)
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordDispatch is a helper to record one dispatch outcome.
func RecordDispatch(workerID, outcome string, duration time.Duration) {
	DispatchTotal.WithLabelValues(workerID, outcome).Inc()
	DispatchDuration.WithLabelValues(workerID, outcome).Observe(duration.Seconds())
}
