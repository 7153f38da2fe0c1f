package partition

import (
	xxhash "github.com/cespare/xxhash/v2"
	"github.com/go-sif/crimeflow"
	"github.com/hashicorp/go-multierror"
)

// HashKey computes the shuffle hash of a group key
func HashKey(key string) uint64 {
	return xxhash.Sum64String(key)
}

// KeyRows derives a group key and payload for each row in this Partition, creating
// a new, keyed Partition. Rows which produce errors are omitted from the result.
func (p *partitionImpl) KeyRows(kfn crimeflow.KeyingOperation) (crimeflow.OperablePartition, error) {
	var multierr *multierror.Error
	result := createPartitionImpl(p.maxRows, p.ordinal, true)
	for i := 0; i < p.GetNumRows(); i++ {
		key, payload, err := kfn(p.rows[i].Payload)
		if err != nil {
			multierr = multierror.Append(multierr, err)
			continue
		}
		result.rows = append(result.rows, crimeflow.KeyedRecord{Key: key, Payload: payload})
		result.keys = append(result.keys, HashKey(key))
	}
	return result, multierr.ErrorOrNil()
}
