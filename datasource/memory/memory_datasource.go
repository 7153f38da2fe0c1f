package memory

import (
	"context"

	"github.com/go-sif/crimeflow"
	"github.com/go-sif/crimeflow/datasource"
)

// DataSource is a set of in-memory buffers, each parsed as if it were a separate file
type DataSource struct {
	data [][]byte
}

// CreateDataFrame is a factory for DataSources
func CreateDataFrame(data [][]byte, parser crimeflow.DataSourceParser) crimeflow.DataFrame {
	source := &DataSource{data}
	return datasource.CreateDataFrame(source, parser)
}

// CreateDataFrameFromLines is a convenience factory for a DataSource holding a single buffer of lines
func CreateDataFrameFromLines(lines []string, parser crimeflow.DataSourceParser) crimeflow.DataFrame {
	buf := make([]byte, 0)
	for _, l := range lines {
		buf = append(buf, l...)
		buf = append(buf, '\n')
	}
	return CreateDataFrame([][]byte{buf}, parser)
}

// Analyze returns a PartitionMap, describing how the source data will be divided into Partitions
func (fs *DataSource) Analyze(ctx context.Context) (crimeflow.PartitionMap, error) {
	return &PartitionMap{
		source: fs,
	}, nil
}
