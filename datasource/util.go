package datasource

import (
	"github.com/go-sif/crimeflow"
	"github.com/go-sif/crimeflow/internal/dataframe"
	"github.com/go-sif/crimeflow/internal/partition"
)

// CreateDataFrame produces a fresh DataFrame (useful for the implementation of DataSources)
func CreateDataFrame(source crimeflow.DataSource, parser crimeflow.DataSourceParser) crimeflow.DataFrame {
	return dataframe.CreateDataFrame(source, parser)
}

// CreateBuildablePartition creates a new, empty Partition which a DataSourceParser can append Records to
func CreateBuildablePartition(maxRows int, ordinal int) crimeflow.BuildablePartition {
	return partition.CreateBuildablePartition(maxRows, ordinal)
}
