package stats

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors updated while pipelines run.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	rowsProcessed       *prometheus.CounterVec
	partitionsProcessed *prometheus.CounterVec
	jobDuration         *prometheus.HistogramVec
	backendSelected     *prometheus.CounterVec
}

// NewMetrics creates the pipeline collectors and registers them with reg.
// A nil Registerer disables metrics, returning a nil *Metrics.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		return nil, nil
	}
	m := &Metrics{
		rowsProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crimeflow_rows_processed_total",
				Help: "Total number of rows processed, by stage",
			},
			[]string{"stage"},
		),
		partitionsProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crimeflow_partitions_processed_total",
				Help: "Total number of partitions processed, by stage",
			},
			[]string{"stage"},
		),
		jobDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "crimeflow_job_duration_seconds",
				Help:    "Wall time of pipeline executions, by backend",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backend"},
		),
		backendSelected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crimeflow_backend_selected_total",
				Help: "Number of times each backend was chosen to run a pipeline",
			},
			[]string{"backend"},
		),
	}
	var err error
	if m.rowsProcessed, err = register(reg, m.rowsProcessed); err != nil {
		return nil, err
	}
	if m.partitionsProcessed, err = register(reg, m.partitionsProcessed); err != nil {
		return nil, err
	}
	if m.jobDuration, err = register(reg, m.jobDuration); err != nil {
		return nil, err
	}
	if m.backendSelected, err = register(reg, m.backendSelected); err != nil {
		return nil, err
	}
	return m, nil
}

// register registers a collector, sharing the existing one if reg has seen an identical collector before
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) observePartition(stage string, numRows int) {
	if m == nil {
		return
	}
	m.rowsProcessed.WithLabelValues(stage).Add(float64(numRows))
	m.partitionsProcessed.WithLabelValues(stage).Inc()
}

// ObserveBackendSelected records the choice of a backend for a pipeline
func (m *Metrics) ObserveBackendSelected(backend string) {
	if m == nil {
		return
	}
	m.backendSelected.WithLabelValues(backend).Inc()
}

// ObserveJobDuration records the wall time of a pipeline execution
func (m *Metrics) ObserveJobDuration(backend string, d time.Duration) {
	if m == nil {
		return
	}
	m.jobDuration.WithLabelValues(backend).Observe(d.Seconds())
}
