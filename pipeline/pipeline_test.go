package pipeline

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-sif/crimeflow"
	"github.com/go-sif/crimeflow/backend"
	"github.com/go-sif/crimeflow/cluster"
	"github.com/go-sif/crimeflow/datasource/file"
	"github.com/go-sif/crimeflow/datasource/memory"
	"github.com/go-sif/crimeflow/datasource/parser/lines"
	"github.com/go-sif/crimeflow/errors"
	ops "github.com/go-sif/crimeflow/operations/transform"
	util "github.com/go-sif/crimeflow/operations/util"
	"github.com/go-sif/crimeflow/storage"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func wordCountOps(mapped *int64) []*crimeflow.DataFrameOperation {
	return []*crimeflow.DataFrameOperation{
		ops.FlatMap(func(rec crimeflow.Record, emit func(crimeflow.Record)) error {
			atomic.AddInt64(mapped, 1)
			for _, w := range strings.Fields(rec[0]) {
				emit(crimeflow.Record{w, "1"})
			}
			return nil
		}).WithName("words").WithSelectivity(1, 10, 0.9),
		ops.KeyBy(func(rec crimeflow.Record) (string, crimeflow.Record, error) {
			return rec[0], rec, nil
		}),
		ops.ReduceByKey(func(l crimeflow.Record, r crimeflow.Record) (crimeflow.Record, error) {
			a, err := l.Int(1)
			if err != nil {
				return nil, err
			}
			b, err := r.Int(1)
			if err != nil {
				return nil, err
			}
			return crimeflow.Record{l[0], strconv.FormatInt(a+b, 10)}, nil
		}),
		util.Collect(0),
	}
}

func wordCountFrame(t *testing.T, mapped *int64) crimeflow.DataFrame {
	data := []string{"the quick fox", "the lazy dog", "", "quick quick"}
	frame, err := memory.CreateDataFrameFromLines(data, lines.CreateParser(&lines.ParserConf{PartitionSize: 1})).To(wordCountOps(mapped)...)
	require.Nil(t, err)
	return frame
}

func TestExecuteLocal(t *testing.T) {
	var mapped int64
	report, err := Execute(context.Background(), wordCountFrame(t, &mapped), &Options{JobName: "words"})
	require.Nil(t, err)
	require.Equal(t, "local", report.Backend)
	require.Equal(t, "words", report.JobName)
	require.NotEmpty(t, report.JobID)
	require.EqualValues(t, 3, mapped)
	counts := report.Result.ToMap()
	require.Equal(t, crimeflow.Record{"quick", "3"}, counts["quick"])
	require.Equal(t, crimeflow.Record{"the", "2"}, counts["the"])
	require.Len(t, counts, 5)
	// extract, words, key, shuffle, collect
	require.Len(t, report.Estimates, 5)
	require.Equal(t, "words", report.Estimates[1].Operation)
	require.Equal(t, 2, len(report.Stats.GetNumRowsProcessed()))
	require.True(t, report.Elapsed > 0)
}

func TestBackendsAgree(t *testing.T) {
	var mapped int64
	frame := wordCountFrame(t, &mapped)
	local, err := Execute(context.Background(), frame, &Options{Backends: "local,distributed", Force: "local"})
	require.Nil(t, err)
	require.Equal(t, "local", local.Backend)
	distributed, err := Execute(context.Background(), frame, &Options{
		Backends: "local,distributed",
		Force:    "spark",
		Selector: &backend.Selector{Distributed: &cluster.Options{NumWorkers: 3, BatchSize: 1}},
	})
	require.Nil(t, err)
	require.Equal(t, "distributed", distributed.Backend)
	require.Equal(t, local.Result.Sorted(), distributed.Result.Sorted())
}

func TestCostBasedChoice(t *testing.T) {
	var mapped int64
	frame := wordCountFrame(t, &mapped)
	small := crimeflow.Cardinality{Low: 1, High: 10, Confidence: 1}
	report, err := Execute(context.Background(), frame, &Options{Backends: "distributed,local", SourceCardinality: &small})
	require.Nil(t, err)
	require.Equal(t, "local", report.Backend)
	huge := crimeflow.Cardinality{Low: 1e8, High: 1e9, Confidence: 0.5}
	report, err = Execute(context.Background(), frame, &Options{Backends: "distributed,local", SourceCardinality: &huge})
	require.Nil(t, err)
	require.Equal(t, "distributed", report.Backend)
}

func TestUnsupportedBackendFailsBeforeStagesRun(t *testing.T) {
	var mapped int64
	_, err := Execute(context.Background(), wordCountFrame(t, &mapped), &Options{Backends: "local,flink"})
	require.IsType(t, errors.UnsupportedBackendError{}, err)
	require.EqualValues(t, 0, mapped)
}

func TestMalformedHints(t *testing.T) {
	var mapped int64
	frame := wordCountFrame(t, &mapped)
	bad := crimeflow.Cardinality{Low: 10, High: 1, Confidence: 1}
	_, err := Execute(context.Background(), frame, &Options{SourceCardinality: &bad})
	require.IsType(t, errors.MalformedHintError{}, err)
	_, err = Execute(context.Background(), frame, &Options{Backends: "local", Force: "distributed"})
	require.IsType(t, errors.MalformedHintError{}, err)
	_, err = Execute(context.Background(), frame, &Options{Force: "local,distributed"})
	require.IsType(t, errors.MalformedHintError{}, err)
	require.EqualValues(t, 0, mapped)
}

func TestUnavailableResourcesAreAggregated(t *testing.T) {
	var mapped int64
	fs := storage.NewLocalFS(afero.NewMemMapFs())
	frame, err := file.CreateDataFrame(fs, lines.CreateParser(nil), "/missing/crime.csv").To(wordCountOps(&mapped)...)
	require.Nil(t, err)
	_, err = Execute(context.Background(), frame, &Options{
		Backends: "local,distributed",
		Selector: &backend.Selector{Distributed: &cluster.Options{
			Workers:    []string{"127.0.0.1:1"},
			RPCTimeout: 500 * time.Millisecond,
		}},
	})
	require.NotNil(t, err)
	merr, ok := err.(*multierror.Error)
	require.True(t, ok)
	require.Len(t, merr.Errors, 2)
	require.Contains(t, err.Error(), "input")
	require.Contains(t, err.Error(), "distributed backend")
	require.EqualValues(t, 0, mapped)
}

func TestMetrics(t *testing.T) {
	var mapped int64
	reg := prometheus.NewRegistry()
	_, err := Execute(context.Background(), wordCountFrame(t, &mapped), &Options{Registerer: reg})
	require.Nil(t, err)
	count, err := testutil.GatherAndCount(reg, "crimeflow_backend_selected_total")
	require.Nil(t, err)
	require.Equal(t, 1, count)
	count, err = testutil.GatherAndCount(reg, "crimeflow_rows_processed_total")
	require.Nil(t, err)
	require.Equal(t, 2, count)
	// a second run reuses the registered collectors
	_, err = Execute(context.Background(), wordCountFrame(t, &mapped), &Options{Registerer: reg})
	require.Nil(t, err)
}
