package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	cyclesTotal    *prometheus.CounterVec
	corruptRecords prometheus.Counter
	appendErrors   prometheus.Counter
	lastProb       *prometheus.GaugeVec
	sourceLatency  *prometheus.HistogramVec
	cacheLookups   *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		cyclesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oddscast_cycles_total",
				Help: "Collection cycles by result (recorded, skipped, failed)",
			},
			[]string{"result"},
		),
		corruptRecords: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "oddscast_corrupt_records_total",
				Help: "Log lines skipped on read because they failed to parse",
			},
		),
		appendErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "oddscast_append_errors_total",
				Help: "Snapshot log append failures",
			},
		),
		lastProb: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "oddscast_last_probability",
				Help: "Last accepted probability for a candidate",
			},
			[]string{"candidate"},
		),
		sourceLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "oddscast_source_fetch_seconds",
				Help:    "Duration of market source fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		cacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oddscast_chart_cache_lookups_total",
				Help: "Chart cache lookups by result (hit, miss)",
			},
			[]string{"result"},
		),
	}
}

// RecordCycle records the outcome of one collection cycle.
func (r *Recorder) RecordCycle(result string) {
	r.cyclesTotal.WithLabelValues(result).Inc()
}

// RecordCorruptRecord records a skipped unparseable log line.
func (r *Recorder) RecordCorruptRecord() {
	r.corruptRecords.Inc()
}

// RecordAppendError records a failed snapshot append.
func (r *Recorder) RecordAppendError() {
	r.appendErrors.Inc()
}

// RecordProbability records the last accepted probability for a candidate.
func (r *Recorder) RecordProbability(candidate string, pct float64) {
	r.lastProb.WithLabelValues(candidate).Set(pct)
}

// RecordSourceLatency records a market source fetch duration in seconds.
func (r *Recorder) RecordSourceLatency(source string, seconds float64) {
	r.sourceLatency.WithLabelValues(source).Observe(seconds)
}

// RecordCache records a chart cache lookup result.
func (r *Recorder) RecordCache(result string) {
	r.cacheLookups.WithLabelValues(result).Inc()
}
