package dataframe

import (
	"github.com/go-sif/crimeflow"
	itypes "github.com/go-sif/crimeflow/internal/types"
)

// A dataFrameImpl implements DataFrame internally
type dataFrameImpl struct {
	parent    *dataFrameImpl                 // the parent DataFrame. Nil if this is the root.
	task      crimeflow.Task                 // the task represented by this DataFrame, executed to produce the next one
	taskType  crimeflow.TaskType             // a unique name for the type of task this DataFrame represents
	name      string                         // a human-readable name for this task
	estimator crimeflow.CardinalityEstimator // optional, advisory estimate of this task's output size
	source    crimeflow.DataSource           // the source of the data
	parser    crimeflow.DataSourceParser     // the parser for the source data
}

// CreateDataFrame is a factory for DataFrames. This function is not intended to be used directly,
// as DataFrames are returned by DataSource packages.
func CreateDataFrame(source crimeflow.DataSource, parser crimeflow.DataSourceParser) crimeflow.DataFrame {
	return &dataFrameImpl{
		parent:   nil,
		task:     &noOpTask{},
		taskType: crimeflow.ExtractTaskType,
		name:     string(crimeflow.ExtractTaskType),
		source:   source,
		parser:   parser,
	}
}

// GetDataSource returns the DataSource of a DataFrame
func (df *dataFrameImpl) GetDataSource() crimeflow.DataSource {
	return df.source
}

// GetParser returns the DataSourceParser of a DataFrame
func (df *dataFrameImpl) GetParser() crimeflow.DataSourceParser {
	return df.parser
}

// To is a "functional operations" factory method for DataFrames,
// chaining operations onto the current one(s). Operations are
// validated here, so malformed hints fail before anything executes.
func (df *dataFrameImpl) To(ops ...*crimeflow.DataFrameOperation) (crimeflow.DataFrame, error) {
	next := df
	for _, op := range ops {
		if err := op.Validate(); err != nil {
			return nil, err
		}
		result, err := op.Do(next)
		if err != nil {
			return nil, err
		}
		next = &dataFrameImpl{
			parent:    next,
			task:      result.Task,
			taskType:  op.TaskType,
			name:      op.DisplayName(),
			estimator: op.Estimator,
			source:    df.source,
			parser:    df.parser,
		}
	}
	return next, nil
}

// info describes this DataFrame's task
func (df *dataFrameImpl) info(stage int) itypes.OperationInfo {
	return itypes.OperationInfo{
		Stage:     stage,
		Name:      df.name,
		TaskType:  df.taskType,
		Estimator: df.estimator,
	}
}
