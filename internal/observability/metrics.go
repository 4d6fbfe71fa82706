package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mbti_geo"

// Metrics holds the Prometheus counters, histograms, and gauges for the pipeline.
type Metrics struct {
	PipelineRuns       *prometheus.CounterVec // labels: outcome={success,schema_error,shape_error,io_error,error}
	RunDuration        prometheus.Histogram
	RowsRead           prometheus.Counter
	RecordsProduced    prometheus.Counter
	JoinResults        *prometheus.CounterVec // labels: result={matched,unmatched}
	ReferenceAvailable prometheus.Gauge

	// Reference fetch metrics.
	FetchRequests *prometheus.CounterVec   // labels: resource={capitals,world}, outcome={success,error}
	FetchCache    *prometheus.CounterVec   // labels: resource, result={hit,miss}
	FetchDuration *prometheus.HistogramVec // labels: resource

	RecordsPublished prometheus.Counter
	PublishErrors    prometheus.Counter
}

func newMetrics() *Metrics {
	return &Metrics{
		PipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete pipeline run.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Raw input rows read.",
		}),
		RecordsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_produced_total",
			Help:      "Geo-enriched country records produced.",
		}),
		JoinResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "join_results_total",
			Help:      "Reference join outcomes per country row.",
		}, []string{"result"}),
		ReferenceAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reference_available",
			Help:      "1 when the last run joined against reference data, 0 otherwise.",
		}),
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_requests_total",
			Help:      "Reference resource fetches by resource and outcome.",
		}, []string{"resource", "outcome"}),
		FetchCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_cache_total",
			Help:      "Reference cache lookups by resource and result.",
		}, []string{"resource", "result"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Reference resource fetch duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"resource"}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_published_total",
			Help:      "Geo records written to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed result publications.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.PipelineRuns,
		m.RunDuration,
		m.RowsRead,
		m.RecordsProduced,
		m.JoinResults,
		m.ReferenceAvailable,
		m.FetchRequests,
		m.FetchCache,
		m.FetchDuration,
		m.RecordsPublished,
		m.PublishErrors,
	}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewUnregisteredMetrics creates Metrics that are not exposed on any
// registry, for short-lived tools that never serve /metrics.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics()
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return NewUnregisteredMetrics()
}
