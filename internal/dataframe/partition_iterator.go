package dataframe

import (
	"context"
	"sync"

	"github.com/go-sif/crimeflow"
	"github.com/go-sif/crimeflow/errors"
	"github.com/go-sif/crimeflow/internal/partition"
	itypes "github.com/go-sif/crimeflow/internal/types"
)

// partitionSliceIterator produces a simple iterator for Partitions stored in a slice
type partitionSliceIterator struct {
	partitions   []crimeflow.OperablePartition
	next         int
	lock         sync.Mutex
	endListeners []func()
}

// CreatePartitionSliceIterator produces a new PartitionIterator for iterating over a slice of Partitions
func CreatePartitionSliceIterator(partitions []crimeflow.OperablePartition) crimeflow.PartitionIterator {
	return &partitionSliceIterator{
		partitions:   partitions,
		next:         0,
		endListeners: []func(){},
	}
}

// OnEnd registers a listener which fires when this iterator runs out of Partitions
func (psi *partitionSliceIterator) OnEnd(onEnd func()) {
	psi.lock.Lock()
	defer psi.lock.Unlock()
	psi.endListeners = append(psi.endListeners, onEnd)
}

// HasNextPartition returns true iff this PartitionIterator can produce another Partition
func (psi *partitionSliceIterator) HasNextPartition() bool {
	psi.lock.Lock()
	defer psi.lock.Unlock()
	return psi.next < len(psi.partitions)
}

// NextPartition returns the next Partition if one is available, or an error
func (psi *partitionSliceIterator) NextPartition() (crimeflow.OperablePartition, error) {
	psi.lock.Lock()
	defer psi.lock.Unlock()
	if psi.next >= len(psi.partitions) {
		for _, l := range psi.endListeners {
			l()
		}
		psi.endListeners = []func(){}
		return nil, errors.NoMorePartitionsError{}
	}
	part := psi.partitions[psi.next]
	psi.next++
	return part, nil
}

// partitionLoaderIterator produces Partitions from PartitionLoaders
type partitionLoaderIterator struct {
	ctx              context.Context
	partitionLoaders []crimeflow.PartitionLoader
	partitionGroup   crimeflow.PartitionIterator
	parser           crimeflow.DataSourceParser
	next             int
	lock             sync.Mutex
	endListeners     []func()
}

// CreatePartitionLoaderIterator produces a PartitionIterator which loads Partitions from each
// PartitionLoader in turn
func CreatePartitionLoaderIterator(ctx context.Context, partitionLoaders []crimeflow.PartitionLoader, parser crimeflow.DataSourceParser) crimeflow.PartitionIterator {
	return &partitionLoaderIterator{
		ctx:              ctx,
		partitionLoaders: partitionLoaders,
		partitionGroup:   nil,
		parser:           parser,
		next:             0,
		endListeners:     []func(){},
	}
}

// OnEnd registers a listener which fires when this iterator runs out of Partitions
func (pli *partitionLoaderIterator) OnEnd(onEnd func()) {
	pli.lock.Lock()
	defer pli.lock.Unlock()
	pli.endListeners = append(pli.endListeners, onEnd)
}

// HasNextPartition returns true iff this PartitionIterator may be able to produce another Partition
func (pli *partitionLoaderIterator) HasNextPartition() bool {
	pli.lock.Lock()
	defer pli.lock.Unlock()
	return pli.next < len(pli.partitionLoaders) || (pli.partitionGroup != nil && pli.partitionGroup.HasNextPartition())
}

// NextPartition returns the next Partition if one is available, or an error
func (pli *partitionLoaderIterator) NextPartition() (crimeflow.OperablePartition, error) {
	pli.lock.Lock()
	defer pli.lock.Unlock()
	// grab the next group of partitions from the Loader iterator if necessary.
	// loaders may legitimately produce no partitions at all, e.g. for empty files
	for pli.partitionGroup == nil || !pli.partitionGroup.HasNextPartition() {
		if pli.next >= len(pli.partitionLoaders) {
			for _, l := range pli.endListeners {
				l()
			}
			pli.endListeners = []func(){}
			return nil, errors.NoMorePartitionsError{}
		}
		l := pli.partitionLoaders[pli.next]
		pli.next++
		partGroup, err := l.Load(pli.ctx, pli.parser)
		if err != nil {
			return nil, err
		}
		pli.partitionGroup = partGroup
	}
	return pli.partitionGroup.NextPartition()
}

// CollectPartitions drains a PartitionIterator into a slice. NoMorePartitionsErrors
// are expected, since HasNextPartition is just a hint.
func CollectPartitions(it crimeflow.PartitionIterator) ([]crimeflow.OperablePartition, error) {
	parts := []crimeflow.OperablePartition{}
	for it.HasNextPartition() {
		part, err := it.NextPartition()
		if _, ok := err.(errors.NoMorePartitionsError); ok {
			break
		} else if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return parts, nil
}

// LoadSource analyzes the DataSource of a Plan and loads every Partition it describes,
// numbering them in load order
func LoadSource(ctx context.Context, plan itypes.Plan) ([]crimeflow.OperablePartition, error) {
	pmap, err := plan.Source().Analyze(ctx)
	if err != nil {
		return nil, err
	}
	loaders := []crimeflow.PartitionLoader{}
	for pmap.HasNext() {
		loaders = append(loaders, pmap.Next())
	}
	parts, err := CollectPartitions(CreatePartitionLoaderIterator(ctx, loaders, plan.Parser()))
	if err != nil {
		return nil, err
	}
	return partition.Renumber(parts, 0), nil
}
