package lines

import (
	"bufio"
	"strings"
	"sync"

	"github.com/go-sif/crimeflow"
	"github.com/go-sif/crimeflow/datasource"
	"github.com/go-sif/crimeflow/errors"
)

type linesPartitionIterator struct {
	parser       *Parser
	scanner      *bufio.Scanner
	hasNext      bool
	nextOrdinal  int
	lock         sync.Mutex
	endListeners []func()
}

// OnEnd registers a listener which fires when this iterator runs out of Partitions
func (li *linesPartitionIterator) OnEnd(onEnd func()) {
	li.lock.Lock()
	defer li.lock.Unlock()
	li.endListeners = append(li.endListeners, onEnd)
}

// HasNextPartition returns true iff this PartitionIterator may be able to produce another Partition
func (li *linesPartitionIterator) HasNextPartition() bool {
	li.lock.Lock()
	defer li.lock.Unlock()
	return li.hasNext
}

func (li *linesPartitionIterator) finish() {
	li.hasNext = false
	for _, l := range li.endListeners {
		l()
	}
	li.endListeners = []func(){}
}

// NextPartition returns the next Partition if one is available, or an error.
// Empty Partitions are never produced.
func (li *linesPartitionIterator) NextPartition() (crimeflow.OperablePartition, error) {
	li.lock.Lock()
	defer li.lock.Unlock()
	if !li.hasNext {
		return nil, errors.NoMorePartitionsError{}
	}
	part := datasource.CreateBuildablePartition(li.parser.PartitionSize(), li.nextOrdinal)
	for part.GetNumRows() < part.GetMaxRows() {
		if !li.scanner.Scan() {
			err := li.scanner.Err()
			li.finish()
			if err != nil {
				return nil, err
			}
			if part.GetNumRows() == 0 {
				return nil, errors.NoMorePartitionsError{}
			}
			break
		}
		line := strings.TrimRight(li.scanner.Text(), "\r")
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		if len(li.parser.conf.Comment) > 0 && strings.HasPrefix(line, li.parser.conf.Comment) {
			continue
		}
		if err := part.AppendRecord(crimeflow.Record{line}); err != nil {
			return nil, err
		}
	}
	li.nextOrdinal++
	return part, nil
}
