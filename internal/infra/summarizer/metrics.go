package summarizer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Invocation statuses recorded by RecordInvocation.
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusRejected = "rejected"
)

// SummaryMetricsRecorder records summarizer metrics. Tests inject a fake; production
// uses the Prometheus implementation.
type SummaryMetricsRecorder interface {
	// RecordWords records the word count of a generated summary.
	RecordWords(words int)

	// RecordOutOfRange counts summaries outside the requested length range.
	RecordOutOfRange()

	// RecordCompliance sets the gauge to 1 when the last summary was within range, 0 otherwise.
	RecordCompliance(withinRange bool)

	// RecordDuration records the time spent in the model call.
	RecordDuration(duration time.Duration)

	// RecordInvocation counts calls per provider and outcome.
	RecordInvocation(provider, status string)
}

// PrometheusSummaryMetrics implements SummaryMetricsRecorder with Prometheus collectors.
type PrometheusSummaryMetrics struct {
	wordsHistogram    prometheus.Histogram
	outOfRangeCounter prometheus.Counter
	complianceGauge   prometheus.Gauge
	durationHistogram prometheus.Histogram
	invocations       *prometheus.CounterVec
}

var (
	prometheusMetricsInstance *PrometheusSummaryMetrics
	prometheusMetricsOnce     sync.Once
)

var (
	wordsOpts = prometheus.HistogramOpts{
		Name:    "pdf_digest_summary_words",
		Help:    "Distribution of summary lengths in words",
		Buckets: []float64{25, 50, 100, 150, 200, 250, 300, 400, 600},
	}
	outOfRangeOpts = prometheus.CounterOpts{
		Name: "pdf_digest_summary_out_of_range_total",
		Help: "Total number of summaries outside the requested word range",
	}
	complianceOpts = prometheus.GaugeOpts{
		Name: "pdf_digest_summary_range_compliance",
		Help: "1 when the last summary was within the requested word range, 0 otherwise",
	}
	durationOpts = prometheus.HistogramOpts{
		Name:    "pdf_digest_summarization_duration_seconds",
		Help:    "Time spent in the summarization model call",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
	}
	invocationOpts = prometheus.CounterOpts{
		Name: "pdf_digest_summarizer_invocations_total",
		Help: "Summarizer calls by provider and status",
	}
)

// getOrCreate registers c on the default registry, or returns the collector already
// registered under the same name.
func getOrCreate[T prometheus.Collector](c T) T {
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// NewPrometheusSummaryMetrics returns the process-wide recorder, registering its
// collectors on the default registry on first use.
func NewPrometheusSummaryMetrics() *PrometheusSummaryMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusSummaryMetrics{
			wordsHistogram:    getOrCreate(prometheus.NewHistogram(wordsOpts)),
			outOfRangeCounter: getOrCreate(prometheus.NewCounter(outOfRangeOpts)),
			complianceGauge:   getOrCreate(prometheus.NewGauge(complianceOpts)),
			durationHistogram: getOrCreate(prometheus.NewHistogram(durationOpts)),
			invocations:       getOrCreate(prometheus.NewCounterVec(invocationOpts, []string{"provider", "status"})),
		}
	})
	return prometheusMetricsInstance
}

// NewSummaryMetricsWithRegistry registers a fresh set of collectors on reg.
func NewSummaryMetricsWithRegistry(reg prometheus.Registerer) *PrometheusSummaryMetrics {
	f := promauto.With(reg)
	return &PrometheusSummaryMetrics{
		wordsHistogram:    f.NewHistogram(wordsOpts),
		outOfRangeCounter: f.NewCounter(outOfRangeOpts),
		complianceGauge:   f.NewGauge(complianceOpts),
		durationHistogram: f.NewHistogram(durationOpts),
		invocations:       f.NewCounterVec(invocationOpts, []string{"provider", "status"}),
	}
}

func (p *PrometheusSummaryMetrics) RecordWords(words int) {
	p.wordsHistogram.Observe(float64(words))
}

func (p *PrometheusSummaryMetrics) RecordOutOfRange() {
	p.outOfRangeCounter.Inc()
}

func (p *PrometheusSummaryMetrics) RecordCompliance(withinRange bool) {
	if withinRange {
		p.complianceGauge.Set(1)
	} else {
		p.complianceGauge.Set(0)
	}
}

func (p *PrometheusSummaryMetrics) RecordDuration(duration time.Duration) {
	p.durationHistogram.Observe(duration.Seconds())
}

func (p *PrometheusSummaryMetrics) RecordInvocation(provider, status string) {
	p.invocations.WithLabelValues(provider, status).Inc()
}
