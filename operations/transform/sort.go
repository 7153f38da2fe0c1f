package transform

import (
	"github.com/go-sif/crimeflow"
	iutil "github.com/go-sif/crimeflow/internal/util"
)

type sortTask struct {
	fn                  crimeflow.SortKeyOperation
	targetPartitionSize int
}

// RunWorker for sortTask does nothing. Sorting happens when the Stage ends,
// since it requires every Partition.
func (s *sortTask) RunWorker(previous crimeflow.OperablePartition) ([]crimeflow.OperablePartition, error) {
	return []crimeflow.OperablePartition{previous}, nil
}

func (s *sortTask) GetSortKeyOperation() crimeflow.SortKeyOperation {
	return s.fn
}

func (s *sortTask) GetTargetPartitionSize() int {
	return s.targetPartitionSize
}

// SortBy orders all Records ascending by the integer key computed by fn.
// Records with equal keys retain their relative source order.
func SortBy(fn crimeflow.SortKeyOperation) *crimeflow.DataFrameOperation {
	return &crimeflow.DataFrameOperation{
		TaskType: crimeflow.SortTaskType,
		Do: func(d crimeflow.DataFrame) (*crimeflow.DataFrameOperationResult, error) {
			return &crimeflow.DataFrameOperationResult{
				Task: &sortTask{fn: iutil.SafeSortKeyOperation(fn), targetPartitionSize: -1},
			}, nil
		},
	}
}
