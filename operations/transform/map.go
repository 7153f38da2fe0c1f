package transform

import (
	"github.com/go-sif/crimeflow"
	iutil "github.com/go-sif/crimeflow/internal/util"
)

type mapTask struct {
	fn crimeflow.MapOperation
}

func (s *mapTask) RunWorker(previous crimeflow.OperablePartition) ([]crimeflow.OperablePartition, error) {
	next, err := previous.MapRows(s.fn)
	if err != nil {
		return nil, err
	}
	return []crimeflow.OperablePartition{next}, nil
}

// Map transforms each Record into a new one
func Map(fn crimeflow.MapOperation) *crimeflow.DataFrameOperation {
	return &crimeflow.DataFrameOperation{
		TaskType: crimeflow.MapTaskType,
		Do: func(d crimeflow.DataFrame) (*crimeflow.DataFrameOperationResult, error) {
			return &crimeflow.DataFrameOperationResult{
				Task: &mapTask{fn: iutil.SafeMapOperation(fn)},
			}, nil
		},
	}
}
