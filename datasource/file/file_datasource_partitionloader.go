package file

import (
	"context"
	"fmt"
	"log"

	"github.com/go-sif/crimeflow"
)

// PartitionLoader is capable of loading partitions of data from a file
type PartitionLoader struct {
	uri    string
	source *DataSource
}

// ToString returns a string representation of this PartitionLoader
func (pl *PartitionLoader) ToString() string {
	return fmt.Sprintf("File loader uri: %s", pl.uri)
}

// Load is capable of loading partitions of data from a file
func (pl *PartitionLoader) Load(ctx context.Context, parser crimeflow.DataSourceParser) (crimeflow.PartitionIterator, error) {
	f, err := pl.source.fs.Open(ctx, pl.uri)
	if err != nil {
		return nil, err
	}
	pi, err := parser.Parse(f, func() {
		err := f.Close()
		if err != nil {
			log.Printf("WARNING: couldn't close file %s: %v", pl.uri, err)
		}
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	return pi, nil
}
