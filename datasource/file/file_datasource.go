package file

import (
	"context"
	"fmt"

	"github.com/go-sif/crimeflow"
	"github.com/go-sif/crimeflow/datasource"
	"github.com/go-sif/crimeflow/storage"
	"github.com/hashicorp/go-multierror"
)

// DataSource is a list of files containing data which will be manipulated according to a DataFrame
type DataSource struct {
	uris []string
	fs   storage.FileSystem
}

// CreateDataFrame is a factory for DataSources
func CreateDataFrame(fs storage.FileSystem, parser crimeflow.DataSourceParser, uris ...string) crimeflow.DataFrame {
	source := &DataSource{uris: uris, fs: fs}
	return datasource.CreateDataFrame(source, parser)
}

// Analyze returns a PartitionMap, describing how the source files will be divided into Partitions
func (fs *DataSource) Analyze(ctx context.Context) (crimeflow.PartitionMap, error) {
	if len(fs.uris) == 0 {
		return nil, fmt.Errorf("file DataSource has no files")
	}
	toRead := make([]string, len(fs.uris))
	copy(toRead, fs.uris)
	return &PartitionMap{
		files:  toRead,
		source: fs,
	}, nil
}

// Check verifies that every file is reachable, returning all failures together
func (fs *DataSource) Check(ctx context.Context) error {
	var multierr *multierror.Error
	if len(fs.uris) == 0 {
		multierr = multierror.Append(multierr, fmt.Errorf("file DataSource has no files"))
	}
	for _, uri := range fs.uris {
		if _, err := fs.fs.Stat(ctx, uri); err != nil {
			multierr = multierror.Append(multierr, err)
		}
	}
	return multierr.ErrorOrNil()
}
