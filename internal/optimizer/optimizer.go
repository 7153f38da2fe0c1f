// Package optimizer propagates advisory cardinality estimates through a Plan
// and uses them to choose among the available backends
package optimizer

import (
	"fmt"

	"github.com/go-sif/crimeflow"
	"github.com/go-sif/crimeflow/errors"
	itypes "github.com/go-sif/crimeflow/internal/types"
)

// Estimate propagates a source Cardinality through every operation in a Plan.
// Operations without an estimator are treated as 1:1.
func Estimate(plan itypes.Plan, source crimeflow.Cardinality) []itypes.StageEstimate {
	ops := plan.Operations()
	estimates := make([]itypes.StageEstimate, 0, len(ops))
	current := source
	for _, op := range ops {
		out := crimeflow.Estimate(op.Estimator, current)
		estimates = append(estimates, itypes.StageEstimate{
			Operation: op,
			Input:     current,
			Output:    out,
		})
		current = out
	}
	return estimates
}

// Choose picks the cheapest Executor for a set of estimates. If forced is non-empty,
// the Executor with that name is chosen regardless of cost, and must be available.
// Ties are broken in favour of the earlier Executor.
func Choose(execs []itypes.Executor, estimates []itypes.StageEstimate, forced string) (itypes.Executor, error) {
	if len(execs) == 0 {
		return nil, errors.ResourceUnavailableError{Resource: "backend", Err: fmt.Errorf("no backends are available")}
	}
	if len(forced) > 0 {
		for _, e := range execs {
			if e.Name() == forced {
				return e, nil
			}
		}
		return nil, errors.MalformedHintError{Hint: "forced backend", Reason: fmt.Sprintf("%q is not among the requested backends", forced)}
	}
	best := execs[0]
	bestCost := best.Cost(estimates)
	for _, e := range execs[1:] {
		if cost := e.Cost(estimates); cost < bestCost {
			best, bestCost = e, cost
		}
	}
	return best, nil
}
