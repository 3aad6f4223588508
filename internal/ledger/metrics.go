package ledger

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	callDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "condovote_ledger_call_duration_seconds",
		Help:    "Latency of ledger operations including confirmation waits",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"op", "outcome"})

	breakerOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "condovote_ledger_breaker_open",
		Help: "1 while the ledger circuit breaker is open",
	})
)

func observe(op string, err error, start time.Time) {
	outcome := "ok"
	if k := KindOf(err); k != "" {
		outcome = string(k)
	} else if err != nil {
		outcome = "error"
	}
	callDuration.WithLabelValues(op, outcome).Observe(time.Since(start).Seconds())
}
