package crimeflow

import (
	"context"
	"io"
)

// PartitionLoader is a description of how to load specific Partitions of data from a particular DataSource.
// DataSources implement this interface to implement data-loading logic.
type PartitionLoader interface {
	ToString() string                                                             // for logging
	Load(ctx context.Context, parser DataSourceParser) (PartitionIterator, error) // how to actually load data
}

// PartitionMap is an interface describing an iterator for PartitionLoaders.
// Returned by DataSource.Analyze(), a backend will iterate through
// PartitionLoaders to obtain the source data for a job.
type PartitionMap interface {
	HasNext() bool
	Next() PartitionLoader
}

// DataSource is a source of data which will be manipulated according to transformations and actions defined in a DataFrame.
// It represents information about how to load data from the source as Partitions.
type DataSource interface {
	Analyze(ctx context.Context) (PartitionMap, error)
}

// A CheckableDataSource can verify that its underlying resources are available before a job starts
type CheckableDataSource interface {
	DataSource
	Check(ctx context.Context) error
}

// DataSourceParser is a parser which turns a byte stream into Partitions of Records
type DataSourceParser interface {
	PartitionSize() int                                                 // PartitionSize returns the maximum number of Records per Partition
	Parse(r io.Reader, onIteratorEnd func()) (PartitionIterator, error) // Parse produces a PartitionIterator for a byte stream
}
