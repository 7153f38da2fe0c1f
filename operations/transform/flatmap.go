package transform

import (
	"github.com/go-sif/crimeflow"
	iutil "github.com/go-sif/crimeflow/internal/util"
)

type flatMapTask struct {
	fn crimeflow.FlatMapOperation
}

func (s *flatMapTask) RunWorker(previous crimeflow.OperablePartition) ([]crimeflow.OperablePartition, error) {
	results, err := previous.FlatMapRows(s.fn)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// FlatMap transforms a Record, potentially producing zero or more new Records
func FlatMap(fn crimeflow.FlatMapOperation) *crimeflow.DataFrameOperation {
	return &crimeflow.DataFrameOperation{
		TaskType: crimeflow.FlatMapTaskType,
		Do: func(d crimeflow.DataFrame) (*crimeflow.DataFrameOperationResult, error) {
			return &crimeflow.DataFrameOperationResult{
				Task: &flatMapTask{fn: iutil.SafeFlatMapOperation(fn)},
			}, nil
		},
	}
}
