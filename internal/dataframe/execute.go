package dataframe

import (
	"sort"

	"github.com/go-sif/crimeflow"
	"github.com/go-sif/crimeflow/internal/partition"
	itypes "github.com/go-sif/crimeflow/internal/types"
)

// OutputPartitionSize returns the maximum size of Partitions produced at the end of a Stage,
// falling back to the Plan parser's Partition size when the Stage has no preference
func OutputPartitionSize(plan itypes.Plan, stage itypes.Stage) int {
	if size := stage.TargetPartitionSize(); size > 0 {
		return size
	}
	if size := plan.Parser().PartitionSize(); size > 0 {
		return size
	}
	return 1
}

// ReducePartitions folds every row of parts into a ReduceIndex. Empty Partitions
// are skipped, since filtering may leave them without keys.
func ReducePartitions(fn crimeflow.ReductionOperation, parts []crimeflow.OperablePartition) (*partition.ReduceIndex, error) {
	idx := partition.NewReduceIndex(fn)
	for _, part := range parts {
		if part.GetNumRows() == 0 {
			continue
		}
		if err := idx.MergePartition(part); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// CollectRows flattens Partitions into rows ordered by key, stopping after limit rows
// unless limit is 0. Rows with equal keys keep their Partition order, so unkeyed rows
// keep the order of a preceding sort. Reduced rows come out the same on every backend.
func CollectRows(parts []crimeflow.OperablePartition, limit int64) []crimeflow.KeyedRecord {
	rows := []crimeflow.KeyedRecord{}
	for _, part := range parts {
		for i := 0; i < part.GetNumRows(); i++ {
			rows = append(rows, part.GetRow(i))
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Key < rows[j].Key
	})
	if limit > 0 && int64(len(rows)) > limit {
		rows = rows[:limit]
	}
	return rows
}
