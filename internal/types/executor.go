package types

import (
	"context"

	"github.com/go-sif/crimeflow"
)

// An Executor runs a Plan to completion and materializes its result
type Executor interface {
	Name() string                                                                             // Name identifies the backend this Executor implements
	Execute(ctx context.Context, plan Plan, obs ExecutionObserver) (*crimeflow.Result, error) // Execute runs every Stage of the Plan, blocking until the result is available
	Cost(estimates []StageEstimate) float64                                                   // Cost predicts the relative cost of running a Plan with the given estimates
}

// StageEstimate is the predicted cardinality flowing into and out of one operation in a Plan
type StageEstimate struct {
	Operation OperationInfo
	Input     crimeflow.Cardinality
	Output    crimeflow.Cardinality
}

// An ExecutionObserver is notified as Partitions move through the Stages of a Plan.
// Implementations must be safe for concurrent use.
type ExecutionObserver interface {
	StartStage(sidx int)                // StartStage tracks the beginning of a Stage
	EndStage(sidx int)                  // EndStage tracks the end of a Stage
	EndPartition(sidx int, numRows int) // EndPartition tracks the completion of a Partition within a Stage
}

// A CheckableExecutor can verify that the resources it depends on are available before a job starts
type CheckableExecutor interface {
	Executor
	Check(ctx context.Context) error
}
