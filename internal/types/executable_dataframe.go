package types

import (
	"context"

	"github.com/go-sif/crimeflow"
)

// An ExecutableDataFrame is a DataFrame that can be executed by a backend
type ExecutableDataFrame interface {
	crimeflow.DataFrame
	GetParent() crimeflow.DataFrame                                    // GetParent returns the parent DataFrame of a DataFrame
	Optimize() (Plan, error)                                           // Optimize splits the DataFrame chain into stages. Each stage's execution will be blocked until the completion of the previous stage
	AnalyzeSource(ctx context.Context) (crimeflow.PartitionMap, error) // AnalyzeSource returns a PartitionMap for the source data for this DataFrame
}
