package partition

import (
	"fmt"

	"github.com/go-sif/crimeflow"
	"github.com/go-sif/crimeflow/errors"
)

// CreateBuildablePartition creates a new, empty Partition which rows can be appended to
func CreateBuildablePartition(maxRows int, ordinal int) crimeflow.BuildablePartition {
	return createPartitionImpl(maxRows, ordinal, false)
}

// CreateKeyedBuildablePartition creates a new, empty keyed Partition which rows can be appended to
func CreateKeyedBuildablePartition(maxRows int, ordinal int) crimeflow.BuildablePartition {
	return createPartitionImpl(maxRows, ordinal, true)
}

// AppendRecord adds an unkeyed Record to the end of this Partition, if it isn't full
func (p *partitionImpl) AppendRecord(rec crimeflow.Record) error {
	if p.isKeyed {
		return fmt.Errorf("Partition is keyed")
	}
	if len(p.rows) >= p.maxRows {
		return errors.PartitionFullError{}
	}
	p.rows = append(p.rows, crimeflow.KeyedRecord{Payload: rec})
	return nil
}

// AppendKeyedRecord adds a KeyedRecord to the end of this Partition, if it isn't full
func (p *partitionImpl) AppendKeyedRecord(kr crimeflow.KeyedRecord) error {
	if !p.isKeyed {
		return errors.NotKeyedError{}
	}
	if len(p.rows) >= p.maxRows {
		return errors.PartitionFullError{}
	}
	p.rows = append(p.rows, kr)
	p.keys = append(p.keys, HashKey(kr.Key))
	return nil
}
