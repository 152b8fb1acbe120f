package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for screening runs.
type Metrics struct {
	// Source load latencies by list
	SourceLatency *prometheus.HistogramVec

	// Source failures by list and error kind
	SourceFailures *prometheus.CounterVec

	// Corpus size of the latest run by list
	CorpusSize *prometheus.GaugeVec

	// Reported matches by list
	Matches *prometheus.CounterVec

	// Run outcomes: "ok" or "failed"
	RunOutcome *prometheus.CounterVec

	// Full run latency including roster and sources
	RunLatency prometheus.Histogram
}

// New registers the screening metrics with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		SourceLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sanctionscan_source_load_duration_seconds",
			Help:    "Duration of fetching and extracting one sanctions list",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"list"}), // list: "OFAC", "EU", "UK", "UN"

		SourceFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sanctionscan_source_failures_total",
			Help: "Sanctions list load failures by list and error kind",
		}, []string{"list", "kind"}),

		CorpusSize: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sanctionscan_corpus_entries",
			Help: "Number of names extracted from each list in the latest run",
		}, []string{"list"}),

		Matches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sanctionscan_matches_total",
			Help: "Reported matches by list",
		}, []string{"list"}),

		RunOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sanctionscan_runs_total",
			Help: "Screening runs by outcome",
		}, []string{"outcome"}),

		RunLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sanctionscan_run_duration_seconds",
			Help:    "Duration of a full screening run",
			Buckets: []float64{1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
	}
}

// ObserveSourceLatency records how long loading a list took.
func (m *Metrics) ObserveSourceLatency(list string, d time.Duration) {
	if m != nil {
		m.SourceLatency.WithLabelValues(list).Observe(d.Seconds())
	}
}

// IncrementSourceFailure records a failed list load.
func (m *Metrics) IncrementSourceFailure(list, kind string) {
	if m != nil {
		m.SourceFailures.WithLabelValues(list, kind).Inc()
	}
}

func (m *Metrics) SetCorpusSize(list string, n int) {
	if m != nil {
		m.CorpusSize.WithLabelValues(list).Set(float64(n))
	}
}

func (m *Metrics) AddMatches(list string, n int) {
	if m != nil {
		m.Matches.WithLabelValues(list).Add(float64(n))
	}
}

// IncrementRun records a run outcome.
func (m *Metrics) IncrementRun(outcome string) {
	if m != nil {
		m.RunOutcome.WithLabelValues(outcome).Inc()
	}
}

// ObserveRunLatency records the total run duration.
func (m *Metrics) ObserveRunLatency(d time.Duration) {
	if m != nil {
		m.RunLatency.Observe(d.Seconds())
	}
}
