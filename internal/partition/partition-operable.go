package partition

import (
	"github.com/go-sif/crimeflow"
	"github.com/hashicorp/go-multierror"
)

// MapRows runs a MapOperation on each row in this Partition, creating a new one.
// Mapping discards group keys. Rows which produce errors are omitted from the result.
func (p *partitionImpl) MapRows(fn crimeflow.MapOperation) (crimeflow.OperablePartition, error) {
	var multierr *multierror.Error
	result := createPartitionImpl(p.maxRows, p.ordinal, false)
	for i := 0; i < p.GetNumRows(); i++ {
		out, err := fn(p.rows[i].Payload)
		if err != nil {
			multierr = multierror.Append(multierr, err)
			continue
		}
		result.rows = append(result.rows, crimeflow.KeyedRecord{Payload: out})
	}
	return result, multierr.ErrorOrNil()
}

// FlatMapRows runs a FlatMapOperation on each row in this Partition, creating new Partitions.
// Every resulting Partition shares the ordinal of this one.
func (p *partitionImpl) FlatMapRows(fn crimeflow.FlatMapOperation) ([]crimeflow.OperablePartition, error) {
	var multierr *multierror.Error
	current := createPartitionImpl(p.maxRows, p.ordinal, false)
	parts := []crimeflow.OperablePartition{current}
	emit := func(rec crimeflow.Record) {
		if len(current.rows) >= current.maxRows {
			current = createPartitionImpl(p.maxRows, p.ordinal, false)
			parts = append(parts, current)
		}
		current.rows = append(current.rows, crimeflow.KeyedRecord{Payload: rec})
	}
	for i := 0; i < p.GetNumRows(); i++ {
		if err := fn(p.rows[i].Payload, emit); err != nil {
			multierr = multierror.Append(multierr, err)
		}
	}
	return parts, multierr.ErrorOrNil()
}

// FilterRows filters the rows in the current Partition, creating a new one.
// Group keys survive filtering.
func (p *partitionImpl) FilterRows(fn crimeflow.FilterOperation) (crimeflow.OperablePartition, error) {
	var multierr *multierror.Error
	result := createPartitionImpl(p.maxRows, p.ordinal, p.isKeyed)
	for i := 0; i < p.GetNumRows(); i++ {
		shouldKeep, err := fn(p.rows[i].Payload)
		if err != nil {
			multierr = multierror.Append(multierr, err)
			continue
		}
		if shouldKeep {
			result.rows = append(result.rows, p.rows[i])
			if p.isKeyed {
				result.keys = append(result.keys, p.keys[i])
			}
		}
	}
	return result, multierr.ErrorOrNil()
}
