// Package metrics exposes GraphQL operation counters to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// outcomes of an operation
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Recorder - records count and duration of GraphQL operations
// A nil Recorder drops every observation
type Recorder struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewRecorder - creates recorder and registers its collectors in reg
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "imoddit",
			Subsystem: "graphql",
			Name:      "operations_total",
			Help:      "Number of handled GraphQL operations by outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "imoddit",
			Subsystem: "graphql",
			Name:      "operation_duration_seconds",
			Help:      "Time spent handling GraphQL operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	for _, c := range []prometheus.Collector{r.operations, r.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Observe - records one operation that started at start
func (r *Recorder) Observe(operation string, start time.Time, outcome string) {
	if r == nil {
		return
	}
	r.operations.WithLabelValues(operation, outcome).Inc()
	r.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
