package crimeflow

// A Partition is a portion of a dataset, consisting of multiple rows.
// Partitions are not generally interacted with directly, instead being
// manipulated in parallel by DataFrame Tasks.
type Partition interface {
	ID() string                                  // ID retrieves the ID of this Partition
	Ordinal() int                                // Ordinal retrieves the position of this Partition within the sequence produced by its source
	GetMaxRows() int                             // GetMaxRows retrieves the maximum number of rows in this Partition
	GetNumRows() int                             // GetNumRows retrieves the number of rows in this Partition
	GetRow(rowNum int) KeyedRecord               // GetRow retrieves a specific row from this Partition
	GetKeyHash(rowNum int) (uint64, error)       // GetKeyHash retrieves the hashed group key of a row, if this Partition is keyed
	IsKeyed() bool                               // IsKeyed returns true iff the rows of this Partition carry group keys
	ForEachRow(fn func(KeyedRecord) error) error // ForEachRow iterates over the rows in this Partition
}

// An OperablePartition can be operated on. Operations never modify the receiver's rows in-place;
// they return new Partitions.
type OperablePartition interface {
	Partition
	MapRows(fn MapOperation) (OperablePartition, error)           // MapRows runs a MapOperation on each row in this Partition
	FlatMapRows(fn FlatMapOperation) ([]OperablePartition, error) // FlatMapRows runs a FlatMapOperation on each row in this Partition, creating new Partitions
	FilterRows(fn FilterOperation) (OperablePartition, error)     // FilterRows filters the rows in the current Partition, creating a new one
	KeyRows(fn KeyingOperation) (OperablePartition, error)        // KeyRows turns each Record into a KeyedRecord, hashing its key for shuffling
}

// A BuildablePartition can be built. Used by DataSourceParsers to assemble Partitions from raw data.
type BuildablePartition interface {
	OperablePartition
	AppendRecord(rec Record) error          // AppendRecord adds an unkeyed Record to the end of this Partition
	AppendKeyedRecord(kr KeyedRecord) error // AppendKeyedRecord adds a KeyedRecord to the end of this Partition
}
