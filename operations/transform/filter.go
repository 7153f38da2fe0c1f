package transform

import (
	"github.com/go-sif/crimeflow"
	iutil "github.com/go-sif/crimeflow/internal/util"
)

type filterTask struct {
	fn crimeflow.FilterOperation
}

func (s *filterTask) RunWorker(previous crimeflow.OperablePartition) ([]crimeflow.OperablePartition, error) {
	next, err := previous.FilterRows(s.fn)
	if err != nil {
		return nil, err
	}
	return []crimeflow.OperablePartition{next}, nil
}

// Filter retains only the Records for which fn returns true
func Filter(fn crimeflow.FilterOperation) *crimeflow.DataFrameOperation {
	return &crimeflow.DataFrameOperation{
		TaskType: crimeflow.FilterTaskType,
		Do: func(d crimeflow.DataFrame) (*crimeflow.DataFrameOperationResult, error) {
			return &crimeflow.DataFrameOperationResult{
				Task: &filterTask{fn: iutil.SafeFilterOperation(fn)},
			}, nil
		},
	}
}
