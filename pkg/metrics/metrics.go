package metrics

import (
	"errors"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var histogramBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

var (
	RequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pinta",
		Subsystem: "api",
		Name:      "http_requests_total",
		Help:      "Count of processed HTTP requests",
	}, []string{"method", "route", "status"})

	RequestLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pinta",
		Subsystem: "api",
		Name:      "http_request_duration_seconds",
		Help:      "Latency distribution of HTTP handlers",
		Buckets:   histogramBuckets,
	}, []string{"method", "route", "status"})

	JobTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pinta",
		Subsystem: "jobs",
		Name:      "transitions_total",
		Help:      "Job lifecycle transitions by kind and outcome",
	}, []string{"transition", "outcome"})

	ActiveSessions = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "pinta",
		Subsystem: "stream",
		Name:      "sessions_active",
		Help:      "Interactive exec, commit and log sessions currently open",
	}, []string{"kind"})

	registerOnce sync.Once
)

// Register adds every collector to the default registry. Calling it more than
// once is harmless.
func Register() {
	registerOnce.Do(func() {
		collectors := []prometheus.Collector{RequestTotal, RequestLatency, JobTransitions, ActiveSessions}
		for _, c := range collectors {
			if err := prometheus.Register(c); err != nil {
				var are prometheus.AlreadyRegisteredError
				if !errors.As(err, &are) {
					log.Printf("metrics: register collector: %v", err)
				}
			}
		}
	})
}

func RecordRequest(method, route string, status int, duration time.Duration) {
	labels := prometheus.Labels{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}
	RequestTotal.With(labels).Inc()
	RequestLatency.With(labels).Observe(duration.Seconds())
}

// JobTransition counts one lifecycle step. err decides the outcome label.
func JobTransition(transition string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	JobTransitions.WithLabelValues(transition, outcome).Inc()
}

// SessionStarted marks an interactive session open and returns the func that
// marks it closed.
func SessionStarted(kind string) func() {
	g := ActiveSessions.WithLabelValues(kind)
	g.Inc()
	return g.Dec
}
