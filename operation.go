package crimeflow

import "fmt"

// MapOperation - A generic function for transforming a Record. The returned Record replaces the input.
type MapOperation func(rec Record) (Record, error)

// FilterOperation - A generic function for determining whether or not a Record should be retained
type FilterOperation func(rec Record) (keep bool, err error)

// FlatMapOperation - A generic function for turning a Record into zero or more Records, each passed to emit
type FlatMapOperation func(rec Record, emit func(Record)) error

// SortKeyOperation - A generic function for producing the integer sort key of a Record
type SortKeyOperation func(rec Record) (int64, error)

// KeyingOperation - A generic function for turning a Record into a group key and a payload
type KeyingOperation func(rec Record) (key string, payload Record, err error)

// ReductionOperation - A generic function for merging two payloads which share a group key.
// Implementations must not retain or modify either argument, and must return a fresh Record.
type ReductionOperation func(lrec Record, rrec Record) (Record, error)

// DataFrameOperationResult is the output of applying a DataFrameOperation to a DataFrame
type DataFrameOperationResult struct {
	Task Task
}

// DataFrameOperation - A generic DataFrame transform, producing the Task which performs the "work".
// Operations carry an optional name and an optional, advisory CardinalityEstimator.
type DataFrameOperation struct {
	TaskType  TaskType
	Name      string
	Estimator CardinalityEstimator
	Do        func(df DataFrame) (*DataFrameOperationResult, error)
}

// WithName attaches a human-readable name to this operation, used in logs and metrics
func (op *DataFrameOperation) WithName(name string) *DataFrameOperation {
	op.Name = name
	return op
}

// WithSelectivity attaches a Selectivity hint to this operation
func (op *DataFrameOperation) WithSelectivity(low, high, confidence float64) *DataFrameOperation {
	op.Estimator = Selectivity{Low: low, High: high, Confidence: confidence}
	return op
}

// WithCardinalityEstimator attaches a CardinalityEstimator to this operation
func (op *DataFrameOperation) WithCardinalityEstimator(est CardinalityEstimator) *DataFrameOperation {
	op.Estimator = est
	return op
}

// DisplayName returns the Name of this operation, or its TaskType if it has none
func (op *DataFrameOperation) DisplayName() string {
	if len(op.Name) > 0 {
		return op.Name
	}
	return string(op.TaskType)
}

// Validate returns an error if this operation is misdefined, or carries a malformed hint
func (op *DataFrameOperation) Validate() error {
	if op.Do == nil {
		return fmt.Errorf("operation %s has no implementation", op.DisplayName())
	}
	if op.Estimator != nil {
		return op.Estimator.Validate()
	}
	return nil
}
