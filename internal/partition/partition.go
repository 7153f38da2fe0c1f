package partition

import (
	"log"

	"github.com/go-sif/crimeflow"
	"github.com/go-sif/crimeflow/errors"
	uuid "github.com/gofrs/uuid"
)

const defaultCapacity = 16

// partitionImpl is the internal implementation of Partition
type partitionImpl struct {
	id      string
	ordinal int
	maxRows int
	rows    []crimeflow.KeyedRecord
	keys    []uint64
	isKeyed bool
}

// createPartitionImpl creates a new, empty Partition
func createPartitionImpl(maxRows int, ordinal int, isKeyed bool) *partitionImpl {
	id, err := uuid.NewV4()
	if err != nil {
		log.Fatalf("failed to generate UUID for Partition: %v", err)
	}
	capacity := defaultCapacity
	if capacity > maxRows {
		capacity = maxRows
	}
	p := &partitionImpl{
		id:      id.String(),
		ordinal: ordinal,
		maxRows: maxRows,
		rows:    make([]crimeflow.KeyedRecord, 0, capacity),
		isKeyed: isKeyed,
	}
	if isKeyed {
		p.keys = make([]uint64, 0, capacity)
	}
	return p
}

// CreatePartition creates a new, empty Partition
func CreatePartition(maxRows int, ordinal int) crimeflow.OperablePartition {
	return createPartitionImpl(maxRows, ordinal, false)
}

// FromRecords builds a Partition from a slice of unkeyed Records. The Partition's
// capacity is the larger of maxRows and len(recs).
func FromRecords(maxRows int, ordinal int, recs []crimeflow.Record) crimeflow.OperablePartition {
	if len(recs) > maxRows {
		maxRows = len(recs)
	}
	p := createPartitionImpl(maxRows, ordinal, false)
	for _, rec := range recs {
		p.rows = append(p.rows, crimeflow.KeyedRecord{Payload: rec})
	}
	return p
}

// FromKeyedRecords builds a keyed Partition from a slice of KeyedRecords, hashing their keys.
// The Partition's capacity is the larger of maxRows and len(rows).
func FromKeyedRecords(maxRows int, ordinal int, rows []crimeflow.KeyedRecord) crimeflow.OperablePartition {
	if len(rows) > maxRows {
		maxRows = len(rows)
	}
	p := createPartitionImpl(maxRows, ordinal, true)
	for _, row := range rows {
		p.rows = append(p.rows, row)
		p.keys = append(p.keys, HashKey(row.Key))
	}
	return p
}

// FromRows builds a single Partition from a slice of rows, keyed or not. The Partition's
// capacity is the larger of maxRows and len(rows).
func FromRows(maxRows int, ordinal int, rows []crimeflow.KeyedRecord, keyed bool) crimeflow.OperablePartition {
	if keyed {
		return FromKeyedRecords(maxRows, ordinal, rows)
	}
	if len(rows) > maxRows {
		maxRows = len(rows)
	}
	p := createPartitionImpl(maxRows, ordinal, false)
	p.rows = append(p.rows, rows...)
	return p
}

// Split chunks a slice of rows into Partitions of at most maxRows rows each, with
// ordinals starting at firstOrdinal
func Split(maxRows int, firstOrdinal int, rows []crimeflow.KeyedRecord, keyed bool) []crimeflow.OperablePartition {
	if len(rows) == 0 {
		return []crimeflow.OperablePartition{}
	}
	if maxRows <= 0 {
		maxRows = len(rows)
	}
	parts := make([]crimeflow.OperablePartition, 0, len(rows)/maxRows+1)
	for start := 0; start < len(rows); start += maxRows {
		end := start + maxRows
		if end > len(rows) {
			end = len(rows)
		}
		parts = append(parts, FromRows(maxRows, firstOrdinal+len(parts), rows[start:end], keyed))
	}
	return parts
}

// ID retrieves the ID of this Partition
func (p *partitionImpl) ID() string {
	return p.id
}

// Ordinal retrieves the position of this Partition within the sequence produced by its source
func (p *partitionImpl) Ordinal() int {
	return p.ordinal
}

// GetMaxRows retrieves the maximum number of rows in this Partition
func (p *partitionImpl) GetMaxRows() int {
	return p.maxRows
}

// GetNumRows retrieves the number of rows in this Partition
func (p *partitionImpl) GetNumRows() int {
	return len(p.rows)
}

// GetRow retrieves a specific row from this Partition
func (p *partitionImpl) GetRow(rowNum int) crimeflow.KeyedRecord {
	return p.rows[rowNum]
}

// GetKeyHash retrieves the hashed group key of a row
func (p *partitionImpl) GetKeyHash(rowNum int) (uint64, error) {
	if !p.isKeyed {
		return 0, errors.NotKeyedError{}
	}
	return p.keys[rowNum], nil
}

// IsKeyed returns true iff the rows of this Partition carry group keys
func (p *partitionImpl) IsKeyed() bool {
	return p.isKeyed
}

// ForEachRow iterates over the rows in this Partition, stopping at the first error
func (p *partitionImpl) ForEachRow(fn func(crimeflow.KeyedRecord) error) error {
	for _, row := range p.rows {
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

// Records returns the payloads of all rows in this Partition
func Records(p crimeflow.Partition) []crimeflow.Record {
	recs := make([]crimeflow.Record, 0, p.GetNumRows())
	for i := 0; i < p.GetNumRows(); i++ {
		recs = append(recs, p.GetRow(i).Payload)
	}
	return recs
}

// Rows returns all rows in this Partition
func Rows(p crimeflow.Partition) []crimeflow.KeyedRecord {
	rows := make([]crimeflow.KeyedRecord, 0, p.GetNumRows())
	for i := 0; i < p.GetNumRows(); i++ {
		rows = append(rows, p.GetRow(i))
	}
	return rows
}

// Renumber assigns consecutive ordinals to a sequence of Partitions, starting at first.
// Partitions are copied, never modified.
func Renumber(parts []crimeflow.OperablePartition, first int) []crimeflow.OperablePartition {
	out := make([]crimeflow.OperablePartition, len(parts))
	for i, part := range parts {
		p := createPartitionImpl(part.GetMaxRows(), first+i, part.IsKeyed())
		for j := 0; j < part.GetNumRows(); j++ {
			row := part.GetRow(j)
			p.rows = append(p.rows, row)
			if p.isKeyed {
				p.keys = append(p.keys, HashKey(row.Key))
			}
		}
		out[i] = p
	}
	return out
}
