package local

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"testing"

	"github.com/go-sif/crimeflow"
	"github.com/go-sif/crimeflow/datasource/memory"
	"github.com/go-sif/crimeflow/datasource/parser/lines"
	itypes "github.com/go-sif/crimeflow/internal/types"
	ops "github.com/go-sif/crimeflow/operations/transform"
	util "github.com/go-sif/crimeflow/operations/util"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// the ants package starts a default pool of its own when it is initialised
var leakOptions = []goleak.Option{
	goleak.IgnoreTopFunction("github.com/panjf2000/ants/v2.(*Pool).purgeStaleWorkers"),
	goleak.IgnoreTopFunction("github.com/panjf2000/ants/v2.(*Pool).ticktock"),
}

type nopObserver struct{}

func (nopObserver) StartStage(sidx int)                {}
func (nopObserver) EndStage(sidx int)                  {}
func (nopObserver) EndPartition(sidx int, numRows int) {}

func numbers(n int) []string {
	out := make([]string, n)
	for i, v := range rand.New(rand.NewSource(7)).Perm(n) {
		out[i] = strconv.Itoa(v)
	}
	return out
}

func plan(t *testing.T, data []string, operations ...*crimeflow.DataFrameOperation) itypes.Plan {
	frame, err := memory.CreateDataFrameFromLines(data, lines.CreateParser(&lines.ParserConf{PartitionSize: 4})).To(operations...)
	require.Nil(t, err)
	p, err := frame.(itypes.ExecutableDataFrame).Optimize()
	require.Nil(t, err)
	return p
}

func value(rec crimeflow.Record) (int64, error) {
	return rec.Int(0)
}

func TestSortAcrossPartitions(t *testing.T) {
	defer goleak.VerifyNone(t, leakOptions...)
	p := plan(t, numbers(50), ops.SortBy(value), util.Collect(0))
	res, err := CreateExecutor(&Options{NumWorkers: 3}).Execute(context.Background(), p, nopObserver{})
	require.Nil(t, err)
	require.Equal(t, 50, res.Len())
	for i, row := range res.Rows {
		require.Equal(t, strconv.Itoa(i), row.Payload[0])
	}
}

func TestReduce(t *testing.T) {
	defer goleak.VerifyNone(t, leakOptions...)
	p := plan(t, numbers(30),
		ops.KeyBy(func(rec crimeflow.Record) (string, crimeflow.Record, error) {
			v, err := rec.Int(0)
			if err != nil {
				return "", nil, err
			}
			return strconv.FormatInt(v%3, 10), crimeflow.Record{"1"}, nil
		}),
		ops.ReduceByKey(func(l crimeflow.Record, r crimeflow.Record) (crimeflow.Record, error) {
			lv, err := l.Int(0)
			if err != nil {
				return nil, err
			}
			rv, err := r.Int(0)
			if err != nil {
				return nil, err
			}
			return crimeflow.Record{strconv.FormatInt(lv+rv, 10)}, nil
		}),
		util.Collect(0),
	)
	res, err := CreateExecutor(nil).Execute(context.Background(), p, nopObserver{})
	require.Nil(t, err)
	require.Equal(t, map[string]crimeflow.Record{
		"0": {"10"},
		"1": {"10"},
		"2": {"10"},
	}, res.ToMap())
}

func TestCollectLimit(t *testing.T) {
	defer goleak.VerifyNone(t, leakOptions...)
	p := plan(t, numbers(20), ops.SortBy(value), util.Collect(5))
	res, err := CreateExecutor(&Options{NumWorkers: 2}).Execute(context.Background(), p, nopObserver{})
	require.Nil(t, err)
	require.Equal(t, 5, res.Len())
	require.Equal(t, "4", res.Rows[4].Payload[0])
}

func TestCollectLimitOrdersByKey(t *testing.T) {
	defer goleak.VerifyNone(t, leakOptions...)
	p := plan(t, numbers(30),
		ops.KeyBy(func(rec crimeflow.Record) (string, crimeflow.Record, error) {
			return rec[0], crimeflow.Record{rec[0]}, nil
		}),
		ops.ReduceByKey(func(l crimeflow.Record, r crimeflow.Record) (crimeflow.Record, error) {
			return l, nil
		}),
		util.Collect(3),
	)
	res, err := CreateExecutor(&Options{NumWorkers: 4}).Execute(context.Background(), p, nopObserver{})
	require.Nil(t, err)
	require.Equal(t, []crimeflow.KeyedRecord{
		{Key: "0", Payload: crimeflow.Record{"0"}},
		{Key: "1", Payload: crimeflow.Record{"1"}},
		{Key: "10", Payload: crimeflow.Record{"10"}},
	}, res.Rows)
}

func TestPanicsBecomeErrors(t *testing.T) {
	defer goleak.VerifyNone(t, leakOptions...)
	p := plan(t, numbers(20), ops.Map(func(rec crimeflow.Record) (crimeflow.Record, error) {
		if rec[0] == "13" {
			panic(fmt.Errorf("Thirteen is unlucky"))
		}
		return rec, nil
	}))
	_, err := CreateExecutor(&Options{NumWorkers: 2}).Execute(context.Background(), p, nopObserver{})
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "Map Panic")
	require.Contains(t, err.Error(), "Thirteen is unlucky")
}

func TestCancelledContext(t *testing.T) {
	defer goleak.VerifyNone(t, leakOptions...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := plan(t, numbers(20), ops.SortBy(value), util.Collect(0))
	_, err := CreateExecutor(nil).Execute(ctx, p, nopObserver{})
	require.NotNil(t, err)
}

func TestEmptyInput(t *testing.T) {
	defer goleak.VerifyNone(t, leakOptions...)
	p := plan(t, []string{}, ops.SortBy(value), util.Collect(0))
	res, err := CreateExecutor(nil).Execute(context.Background(), p, nopObserver{})
	require.Nil(t, err)
	require.Equal(t, 0, res.Len())
}

func TestCost(t *testing.T) {
	e := CreateExecutor(nil)
	require.Equal(t, Name, e.Name())
	require.Equal(t, 0.0, e.Cost(nil))
	require.Equal(t, 300.0, e.Cost([]itypes.StageEstimate{
		{Input: crimeflow.Cardinality{Low: 50, High: 150, Confidence: 1}},
		{Input: crimeflow.ExactCardinality(200)},
	}))
}
