package types

import "github.com/go-sif/crimeflow"

// Stage is a group of tasks which can be applied to each Partition independently.
// Stages block the execution of further stages until they are complete.
type Stage interface {
	ID() int                                                                               // ID returns the ID for this stage
	Operations() []OperationInfo                                                           // Operations describes the tasks in this Stage
	WorkerExecute(part crimeflow.OperablePartition) ([]crimeflow.OperablePartition, error) // WorkerExecute runs every task in this Stage against a Partition
	EndsInSort() bool                                                                      // EndsInSort returns true iff this Stage ends with a global sort
	EndsInShuffle() bool                                                                   // EndsInShuffle returns true iff this Stage ends with a keyed reduction
	EndsInCollect() bool                                                                   // EndsInCollect returns true iff this Stage represents a collect task
	GetCollectionLimit() int64                                                             // GetCollectionLimit returns the maximum number of rows to collect, or 0 for no limit
	SortKeyOperation() crimeflow.SortKeyOperation                                          // SortKeyOperation retrieves the SortKeyOperation for this Stage (if it exists)
	ReductionOperation() crimeflow.ReductionOperation                                      // ReductionOperation retrieves the ReductionOperation for this Stage (if it exists)
	TargetPartitionSize() int                                                              // TargetPartitionSize returns the intended Partition maxSize for outgoing Partitions
}
