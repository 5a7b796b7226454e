package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains Prometheus metrics for pipeline runs. A nil *Metrics
// records nothing.
type Metrics struct {
	runsTotal           *prometheus.CounterVec
	runDuration         *prometheus.HistogramVec
	stageDuration       *prometheus.HistogramVec
	comorbidities       prometheus.Gauge
	diseasesIndexed     prometheus.Gauge
	droppedAssociations prometheus.Counter
	quarantinedRows     *prometheus.CounterVec
	batchesCommitted    prometheus.Counter
}

// NewMetrics creates the pipeline metrics and registers them on registry.
func NewMetrics(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "comorbidity_runs_total",
				Help: "Total number of pipeline runs",
			},
			[]string{"source", "status"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "comorbidity_run_duration_seconds",
				Help:    "Time taken by a full pipeline run",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
			},
			[]string{"source"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "comorbidity_stage_duration_seconds",
				Help:    "Time taken by each pipeline stage",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
			},
			[]string{"stage"},
		),
		comorbidities: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "comorbidity_pairs",
			Help: "Comorbidity pairs produced by the last successful run",
		}),
		diseasesIndexed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "comorbidity_indexed_diseases",
			Help: "Diseases with at least one association in the last successful run",
		}),
		droppedAssociations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "comorbidity_dropped_associations_total",
			Help: "Association rows dropped because a reference did not resolve",
		}),
		quarantinedRows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "comorbidity_quarantined_rows_total",
				Help: "Seed rows rejected at the load boundary",
			},
			[]string{"kind"},
		),
		batchesCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "comorbidity_batches_committed_total",
			Help: "Comorbidity upsert batches committed",
		}),
	}
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Describe implements the Collector interface
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.runsTotal.Describe(ch)
	m.runDuration.Describe(ch)
	m.stageDuration.Describe(ch)
	m.comorbidities.Describe(ch)
	m.diseasesIndexed.Describe(ch)
	m.droppedAssociations.Describe(ch)
	m.quarantinedRows.Describe(ch)
	m.batchesCommitted.Describe(ch)
}

// Collect implements the Collector interface
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.runsTotal.Collect(ch)
	m.runDuration.Collect(ch)
	m.stageDuration.Collect(ch)
	m.comorbidities.Collect(ch)
	m.diseasesIndexed.Collect(ch)
	m.droppedAssociations.Collect(ch)
	m.quarantinedRows.Collect(ch)
	m.batchesCommitted.Collect(ch)
}

func (m *Metrics) observeStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *Metrics) observeRun(source, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(source, status).Inc()
	m.runDuration.WithLabelValues(source).Observe(d.Seconds())
}

func (m *Metrics) recordQuarantined(kind string) {
	if m == nil {
		return
	}
	m.quarantinedRows.WithLabelValues(kind).Inc()
}

func (m *Metrics) recordDropped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.droppedAssociations.Add(float64(n))
}

func (m *Metrics) recordBatches(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.batchesCommitted.Add(float64(n))
}

func (m *Metrics) setResult(diseases, pairs int) {
	if m == nil {
		return
	}
	m.diseasesIndexed.Set(float64(diseases))
	m.comorbidities.Set(float64(pairs))
}
