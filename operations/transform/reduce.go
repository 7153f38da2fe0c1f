package transform

import (
	"github.com/go-sif/crimeflow"
	"github.com/go-sif/crimeflow/errors"
	iutil "github.com/go-sif/crimeflow/internal/util"
)

type reduceTask struct {
	fn                  crimeflow.ReductionOperation
	targetPartitionSize int
}

// RunWorker for reduceTask verifies that incoming rows carry group keys.
// The reduction itself happens when the Stage ends.
func (s *reduceTask) RunWorker(previous crimeflow.OperablePartition) ([]crimeflow.OperablePartition, error) {
	if !previous.IsKeyed() && previous.GetNumRows() > 0 {
		return nil, errors.NotKeyedError{}
	}
	return []crimeflow.OperablePartition{previous}, nil
}

func (s *reduceTask) GetReductionOperation() crimeflow.ReductionOperation {
	return s.fn
}

func (s *reduceTask) GetTargetPartitionSize() int {
	return s.targetPartitionSize
}

// ReduceByKey combines KeyedRecords which share a group key, across all Partitions,
// using fn. Backends may apply fn in any grouping and order, so fn must produce
// the same final result regardless.
func ReduceByKey(fn crimeflow.ReductionOperation) *crimeflow.DataFrameOperation {
	return &crimeflow.DataFrameOperation{
		TaskType: crimeflow.ShuffleTaskType,
		Do: func(d crimeflow.DataFrame) (*crimeflow.DataFrameOperationResult, error) {
			return &crimeflow.DataFrameOperationResult{
				Task: &reduceTask{fn: iutil.SafeReductionOperation(fn), targetPartitionSize: -1},
			}, nil
		},
	}
}
