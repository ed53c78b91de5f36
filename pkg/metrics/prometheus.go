package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run status label values
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	EmailsFetched   prometheus.Counter
	EmailsSubmitted prometheus.Counter
	Runs            *prometheus.CounterVec
	RunDuration     prometheus.Histogram
	ErrorsCount     *prometheus.CounterVec
}

// NewMetrics creates prometheus metrics registered on reg
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		EmailsFetched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_fetched_total",
			Help:      "The total number of messages fetched and normalized from Gmail",
		}),
		EmailsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_submitted_total",
			Help:      "The total number of emails sent to the categorization service",
		}),
		Runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "categorization_runs_total",
			Help:      "The total number of categorization runs by outcome",
		}, []string{"status"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "categorization_run_seconds",
			Help:      "Time taken by a full fetch and categorize run",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
