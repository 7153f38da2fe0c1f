package optimizer

import (
	"context"
	"testing"

	"github.com/go-sif/crimeflow"
	"github.com/go-sif/crimeflow/datasource/memory"
	"github.com/go-sif/crimeflow/datasource/parser/lines"
	"github.com/go-sif/crimeflow/errors"
	itypes "github.com/go-sif/crimeflow/internal/types"
	ops "github.com/go-sif/crimeflow/operations/transform"
	util "github.com/go-sif/crimeflow/operations/util"
	"github.com/stretchr/testify/require"
)

type fixedCostExecutor struct {
	name    string
	perRow  float64
	startup float64
}

func (e *fixedCostExecutor) Name() string {
	return e.name
}

func (e *fixedCostExecutor) Execute(ctx context.Context, plan itypes.Plan, obs itypes.ExecutionObserver) (*crimeflow.Result, error) {
	return &crimeflow.Result{}, nil
}

func (e *fixedCostExecutor) Cost(estimates []itypes.StageEstimate) float64 {
	cost := e.startup
	for _, est := range estimates {
		cost += est.Input.Expected() * e.perRow
	}
	return cost
}

func testPlan(t *testing.T) itypes.Plan {
	keep := func(rec crimeflow.Record) (bool, error) { return true, nil }
	frame, err := memory.CreateDataFrameFromLines([]string{"a"}, lines.CreateParser(nil)).To(
		ops.Filter(keep).WithSelectivity(0.5, 0.5, 0.9),
		ops.FlatMap(func(rec crimeflow.Record, emit func(crimeflow.Record)) error {
			emit(rec)
			emit(rec)
			return nil
		}).WithCardinalityEstimator(crimeflow.FuncEstimator{Certainty: 1, Fn: func(in int64) int64 { return 2 * in }}),
		util.Collect(0),
	)
	require.Nil(t, err)
	plan, err := frame.(itypes.ExecutableDataFrame).Optimize()
	require.Nil(t, err)
	return plan
}

func TestEstimate(t *testing.T) {
	estimates := Estimate(testPlan(t), crimeflow.Cardinality{Low: 100, High: 200, Confidence: 1})
	// extract, filter, flatmap, collect
	require.Len(t, estimates, 4)
	require.Equal(t, crimeflow.TaskType("extract"), estimates[0].Operation.TaskType)
	require.Equal(t, estimates[0].Input, estimates[0].Output)
	require.Equal(t, crimeflow.Cardinality{Low: 50, High: 100, Confidence: 0.9}, estimates[1].Output)
	require.Equal(t, estimates[1].Output, estimates[2].Input)
	require.Equal(t, crimeflow.Cardinality{Low: 100, High: 200, Confidence: 0.9}, estimates[2].Output)
	require.Equal(t, estimates[2].Output, estimates[3].Output)
}

func TestChoose(t *testing.T) {
	cheapSmall := &fixedCostExecutor{name: "local", perRow: 1}
	cheapLarge := &fixedCostExecutor{name: "distributed", perRow: 0.1, startup: 1000}
	execs := []itypes.Executor{cheapSmall, cheapLarge}
	plan := testPlan(t)

	chosen, err := Choose(execs, Estimate(plan, crimeflow.ExactCardinality(10)), "")
	require.Nil(t, err)
	require.Equal(t, "local", chosen.Name())

	chosen, err = Choose(execs, Estimate(plan, crimeflow.ExactCardinality(1000000)), "")
	require.Nil(t, err)
	require.Equal(t, "distributed", chosen.Name())

	chosen, err = Choose(execs, Estimate(plan, crimeflow.ExactCardinality(10)), "distributed")
	require.Nil(t, err)
	require.Equal(t, "distributed", chosen.Name())
}

func TestChooseTiesFavourFirst(t *testing.T) {
	a := &fixedCostExecutor{name: "a", perRow: 1}
	b := &fixedCostExecutor{name: "b", perRow: 1}
	chosen, err := Choose([]itypes.Executor{a, b}, Estimate(testPlan(t), crimeflow.ExactCardinality(10)), "")
	require.Nil(t, err)
	require.Equal(t, "a", chosen.Name())
}

func TestChooseErrors(t *testing.T) {
	_, err := Choose(nil, nil, "")
	require.IsType(t, errors.ResourceUnavailableError{}, err)
	_, err = Choose([]itypes.Executor{&fixedCostExecutor{name: "local"}}, nil, "distributed")
	require.IsType(t, errors.MalformedHintError{}, err)
}
