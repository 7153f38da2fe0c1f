package transform

import (
	"github.com/go-sif/crimeflow"
	iutil "github.com/go-sif/crimeflow/internal/util"
)

type keyTask struct {
	fn crimeflow.KeyingOperation
}

func (s *keyTask) RunWorker(previous crimeflow.OperablePartition) ([]crimeflow.OperablePartition, error) {
	next, err := previous.KeyRows(s.fn)
	if err != nil {
		return nil, err
	}
	return []crimeflow.OperablePartition{next}, nil
}

// KeyBy turns each Record into a KeyedRecord, using fn to derive the group key and payload
func KeyBy(fn crimeflow.KeyingOperation) *crimeflow.DataFrameOperation {
	return &crimeflow.DataFrameOperation{
		TaskType: crimeflow.KeyTaskType,
		Do: func(d crimeflow.DataFrame) (*crimeflow.DataFrameOperationResult, error) {
			return &crimeflow.DataFrameOperationResult{
				Task: &keyTask{fn: iutil.SafeKeyingOperation(fn)},
			}, nil
		},
	}
}
