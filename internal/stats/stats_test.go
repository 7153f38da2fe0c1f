package stats

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRunStatistics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.Nil(t, err)
	rs := &RunStatistics{}
	rs.Start([]string{"normalize", "reduce"}, metrics)
	rs.StartStage(0)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rs.EndPartition(0, 5)
		}()
	}
	wg.Wait()
	rs.EndStage(0)
	rs.EndPartition(1, 3)
	rs.EndPartition(7, 3) // out of range stages are ignored
	rs.Finish()

	require.Equal(t, []int64{50, 3}, rs.GetNumRowsProcessed())
	require.Equal(t, []int64{10, 1}, rs.GetNumPartitionsProcessed())
	require.Len(t, rs.GetStageRuntimes(), 2)
	require.Equal(t, rs.GetRuntime(), rs.GetRuntime())
	require.Equal(t, float64(50), testutil.ToFloat64(metrics.rowsProcessed.WithLabelValues("normalize")))
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.partitionsProcessed.WithLabelValues("reduce")))
}

func TestMetricsReRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m1, err := NewMetrics(reg)
	require.Nil(t, err)
	m2, err := NewMetrics(reg)
	require.Nil(t, err)
	m1.ObserveBackendSelected("local")
	m2.ObserveBackendSelected("local")
	require.Equal(t, float64(2), testutil.ToFloat64(m1.backendSelected.WithLabelValues("local")))
}

func TestNilMetrics(t *testing.T) {
	m, err := NewMetrics(nil)
	require.Nil(t, err)
	require.Nil(t, m)
	m.ObserveBackendSelected("local")
	m.ObserveJobDuration("local", 0)
	rs := &RunStatistics{}
	rs.Start([]string{"only"}, m)
	rs.EndPartition(0, 1)
	require.Equal(t, []int64{1}, rs.GetNumRowsProcessed())
}
