package dataframe

import (
	"context"
	"fmt"

	"github.com/go-sif/crimeflow"
	itypes "github.com/go-sif/crimeflow/internal/types"
)

// GetParent returns the parent DataFrame of a DataFrame
func (df *dataFrameImpl) GetParent() crimeflow.DataFrame {
	if df.parent == nil {
		return nil
	}
	return df.parent
}

// Optimize splits the DataFrame chain into stages, ending a stage at each sort,
// shuffle or collect. Each stage's execution will be blocked until the completion
// of the previous stage.
func (df *dataFrameImpl) Optimize() (itypes.Plan, error) {
	// create a slice of frames, in order of execution, by following parent links
	frames := []*dataFrameImpl{}
	for next := df; next != nil; next = next.parent {
		frames = append([]*dataFrameImpl{next}, frames...)
	}
	nextID := 0
	stages := []*stageImpl{createStage(nextID)}
	for i, f := range frames {
		currentStage := stages[len(stages)-1]
		currentStage.frames = append(currentStage.frames, f)
		switch f.taskType {
		case crimeflow.SortTaskType:
			sTask, ok := f.task.(sortTask)
			if !ok {
				return nil, fmt.Errorf("taskType is SortTaskType but Task is not a sortTask. Task is misdefined")
			}
			currentStage.sortFn = sTask.GetSortKeyOperation()
			currentStage.targetPartitionSize = sTask.GetTargetPartitionSize()
		case crimeflow.ShuffleTaskType:
			sTask, ok := f.task.(shuffleTask)
			if !ok {
				return nil, fmt.Errorf("taskType is ShuffleTaskType but Task is not a shuffleTask. Task is misdefined")
			}
			currentStage.reduceFn = sTask.GetReductionOperation()
			currentStage.targetPartitionSize = sTask.GetTargetPartitionSize()
		case crimeflow.CollectTaskType:
			cTask, ok := f.task.(collectionTask)
			if !ok {
				return nil, fmt.Errorf("taskType is CollectTaskType but Task is not a collectionTask. Task is misdefined")
			}
			if i+1 < len(frames) {
				return nil, fmt.Errorf("No tasks can follow a Collect()")
			}
			currentStage.collectionLimit = cTask.GetCollectionLimit()
		}
		if f.taskType.IsBoundary() && i+1 < len(frames) {
			nextID++
			stages = append(stages, createStage(nextID))
		}
	}
	return &planImpl{stages: stages, parser: df.parser, source: df.source}, nil
}

// AnalyzeSource returns a PartitionMap for the source data for this DataFrame
func (df *dataFrameImpl) AnalyzeSource(ctx context.Context) (crimeflow.PartitionMap, error) {
	return df.source.Analyze(ctx)
}

// workerExecuteTask runs this DataFrame's task against the previous Partition,
// returning the resulting Partition(s)
func (df *dataFrameImpl) workerExecuteTask(previous crimeflow.OperablePartition) ([]crimeflow.OperablePartition, error) {
	return df.task.RunWorker(previous)
}
