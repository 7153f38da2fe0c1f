package dataframe

import (
	"github.com/go-sif/crimeflow"
	itypes "github.com/go-sif/crimeflow/internal/types"
)

// stageImpl is a group of tasks which can be applied to each Partition independently.
// stages block the execution of further stages until they are complete.
type stageImpl struct {
	id                  int
	frames              []*dataFrameImpl
	sortFn              crimeflow.SortKeyOperation
	reduceFn            crimeflow.ReductionOperation
	collectionLimit     int64
	targetPartitionSize int
}

// createStage is a factory for Stages, safely assigning deterministic IDs
func createStage(nextID int) *stageImpl {
	return &stageImpl{
		id:                  nextID,
		frames:              []*dataFrameImpl{},
		targetPartitionSize: -1,
	}
}

// ID returns the ID for this Stage
func (s *stageImpl) ID() int {
	return s.id
}

// Operations describes the tasks in this Stage
func (s *stageImpl) Operations() []itypes.OperationInfo {
	ops := make([]itypes.OperationInfo, 0, len(s.frames))
	for _, f := range s.frames {
		ops = append(ops, f.info(s.id))
	}
	return ops
}

// WorkerExecute runs a stage against a Partition of data, returning
// the resulting Partition(s)
func (s *stageImpl) WorkerExecute(part crimeflow.OperablePartition) ([]crimeflow.OperablePartition, error) {
	var prev = []crimeflow.OperablePartition{part}
	for _, frame := range s.frames {
		next := make([]crimeflow.OperablePartition, 0, len(prev))
		for _, p := range prev {
			out, err := frame.workerExecuteTask(p)
			if err != nil {
				return nil, err
			}
			next = append(next, out...)
		}
		prev = next
	}
	return prev, nil
}

func (s *stageImpl) endsIn(taskType crimeflow.TaskType) bool {
	return len(s.frames) > 0 && s.frames[len(s.frames)-1].taskType == taskType
}

// EndsInSort returns true iff this Stage ends with a global sort
func (s *stageImpl) EndsInSort() bool {
	return s.endsIn(crimeflow.SortTaskType)
}

// EndsInShuffle returns true iff this Stage ends with a keyed reduction
func (s *stageImpl) EndsInShuffle() bool {
	return s.endsIn(crimeflow.ShuffleTaskType)
}

// EndsInCollect returns true iff this Stage represents a collect task
func (s *stageImpl) EndsInCollect() bool {
	return s.endsIn(crimeflow.CollectTaskType)
}

// GetCollectionLimit returns the maximum number of rows to collect, or 0 for no limit
func (s *stageImpl) GetCollectionLimit() int64 {
	return s.collectionLimit
}

// SortKeyOperation retrieves the SortKeyOperation for this Stage (if it exists)
func (s *stageImpl) SortKeyOperation() crimeflow.SortKeyOperation {
	return s.sortFn
}

// ReductionOperation retrieves the ReductionOperation for this Stage (if it exists)
func (s *stageImpl) ReductionOperation() crimeflow.ReductionOperation {
	return s.reduceFn
}

// TargetPartitionSize returns the intended Partition maxSize for outgoing Partitions
func (s *stageImpl) TargetPartitionSize() int {
	return s.targetPartitionSize
}
