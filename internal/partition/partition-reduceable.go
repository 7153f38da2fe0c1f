package partition

import (
	"github.com/go-sif/crimeflow"
	"github.com/go-sif/crimeflow/errors"
)

// A ReduceIndex folds rows sharing a group key into a single row using a
// ReductionOperation. Keys are retained in first-seen order.
type ReduceIndex struct {
	fn     crimeflow.ReductionOperation
	order  []string
	values map[string]crimeflow.Record
}

// NewReduceIndex creates an empty ReduceIndex
func NewReduceIndex(fn crimeflow.ReductionOperation) *ReduceIndex {
	return &ReduceIndex{
		fn:     fn,
		order:  make([]string, 0),
		values: make(map[string]crimeflow.Record),
	}
}

// MergeRow folds a single row into the index
func (idx *ReduceIndex) MergeRow(row crimeflow.KeyedRecord) error {
	existing, ok := idx.values[row.Key]
	if !ok {
		idx.order = append(idx.order, row.Key)
		idx.values[row.Key] = row.Payload.Clone()
		return nil
	}
	merged, err := idx.fn(existing, row.Payload)
	if err != nil {
		return err
	}
	idx.values[row.Key] = merged
	return nil
}

// MergePartition folds every row of a keyed Partition into the index, stopping at the first error
func (idx *ReduceIndex) MergePartition(part crimeflow.Partition) error {
	if !part.IsKeyed() {
		return errors.NotKeyedError{}
	}
	return part.ForEachRow(idx.MergeRow)
}

// MergeRows folds a slice of rows into the index, stopping at the first error
func (idx *ReduceIndex) MergeRows(rows []crimeflow.KeyedRecord) error {
	for _, row := range rows {
		if err := idx.MergeRow(row); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of distinct keys in the index
func (idx *ReduceIndex) Len() int {
	return len(idx.order)
}

// Rows returns one row per distinct key, in first-seen order
func (idx *ReduceIndex) Rows() []crimeflow.KeyedRecord {
	rows := make([]crimeflow.KeyedRecord, 0, len(idx.order))
	for _, key := range idx.order {
		rows = append(rows, crimeflow.KeyedRecord{Key: key, Payload: idx.values[key]})
	}
	return rows
}

// Partitions chunks the contents of the index into keyed Partitions of at most maxRows rows each
func (idx *ReduceIndex) Partitions(maxRows int, firstOrdinal int) []crimeflow.OperablePartition {
	return Split(maxRows, firstOrdinal, idx.Rows(), true)
}
