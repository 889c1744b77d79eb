package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ServiceName = "traceyourstack"
)

var (
	ExceptionsCaptured = promauto.NewCounter(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "staging", "captured_total"),
		Help: "Number of exceptions captured into the staging slot",
	})
	DeliveryAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "delivery", "attempts_total"),
		Help: "Delivery attempts by outcome",
	}, []string{"outcome"})
	FlushRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "flush", "runs_total"),
		Help: "Flush runs by outcome",
	}, []string{"outcome"})
	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: prometheus.BuildFQName(ServiceName, "flush", "pending_reports"),
		Help: "Unflushed reports observed at the start of the last flush run",
	})
)
