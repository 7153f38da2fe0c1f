package util

import (
	"fmt"

	"github.com/go-sif/crimeflow"
)

type collectTask struct {
	collectionLimit int64
}

func (s *collectTask) RunWorker(previous crimeflow.OperablePartition) ([]crimeflow.OperablePartition, error) {
	// do nothing
	return []crimeflow.OperablePartition{previous}, nil
}

func (s *collectTask) GetCollectionLimit() int64 {
	return s.collectionLimit
}

// Collect declares that rows should be gathered by the caller
// upon completion of the previous stage. This also signals
// the end of a Dataframe's tasks. A collectionLimit of 0
// collects every row.
func Collect(collectionLimit int64) *crimeflow.DataFrameOperation {
	return &crimeflow.DataFrameOperation{
		TaskType: crimeflow.CollectTaskType,
		Do: func(d crimeflow.DataFrame) (*crimeflow.DataFrameOperationResult, error) {
			if collectionLimit < 0 {
				return nil, fmt.Errorf("Collection limit must be non-negative, got %d", collectionLimit)
			}
			return &crimeflow.DataFrameOperationResult{
				Task: &collectTask{collectionLimit},
			}, nil
		},
	}
}
