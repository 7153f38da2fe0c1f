package dataframe

import (
	"github.com/go-sif/crimeflow"
)

// noOpTask is a task that does nothing
type noOpTask struct{}

// RunWorker for noOpTask does nothing
func (s *noOpTask) RunWorker(previous crimeflow.OperablePartition) ([]crimeflow.OperablePartition, error) {
	return []crimeflow.OperablePartition{previous}, nil
}

// sortTask is implemented by the Task of a SortTaskType operation
type sortTask interface {
	crimeflow.Task
	GetSortKeyOperation() crimeflow.SortKeyOperation
	GetTargetPartitionSize() int
}

// shuffleTask is implemented by the Task of a ShuffleTaskType operation
type shuffleTask interface {
	crimeflow.Task
	GetReductionOperation() crimeflow.ReductionOperation
	GetTargetPartitionSize() int
}

// collectionTask is implemented by the Task of a CollectTaskType operation
type collectionTask interface {
	crimeflow.Task
	GetCollectionLimit() int64
}
