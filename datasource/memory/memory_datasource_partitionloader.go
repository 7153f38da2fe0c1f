package memory

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-sif/crimeflow"
)

// PartitionLoader is capable of loading partitions of data from a buffer
type PartitionLoader struct {
	idx    int
	source *DataSource
}

// ToString returns a string representation of this PartitionLoader
func (pl *PartitionLoader) ToString() string {
	return fmt.Sprintf("Memory loader index: %d", pl.idx)
}

// Load is capable of loading partitions of data from a buffer
func (pl *PartitionLoader) Load(ctx context.Context, parser crimeflow.DataSourceParser) (crimeflow.PartitionIterator, error) {
	r := bytes.NewReader(pl.source.data[pl.idx])
	pi, err := parser.Parse(r, nil)
	if err != nil {
		return nil, err
	}
	return pi, nil
}
