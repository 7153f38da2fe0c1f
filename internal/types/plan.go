package types

import "github.com/go-sif/crimeflow"

// A Plan is an execution plan for a DataFrame. Plans are immutable once built.
type Plan interface {
	Size() int                          // returns the number of stages
	GetStage(idx int) Stage             // GetStage returns a particular Stage in this Plan
	Parser() crimeflow.DataSourceParser // Parser returns this Plan's DataSourceParser
	Source() crimeflow.DataSource       // Source returns this Plan's DataSource
	Operations() []OperationInfo        // Operations returns a description of every operation in this Plan, in execution order
	Fingerprint() uint64                // Fingerprint identifies the shape of this Plan, so that remote workers can verify they hold the same one
}

// OperationInfo describes a single operation within a Plan
type OperationInfo struct {
	Stage     int
	Name      string
	TaskType  crimeflow.TaskType
	Estimator crimeflow.CardinalityEstimator
}
