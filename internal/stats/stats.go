package stats

import (
	"sync"
	"time"
)

// RunStatistics contains statistics about a running pipeline. It is safe for concurrent use,
// since backends process Partitions in parallel.
type RunStatistics struct {
	lock                sync.Mutex
	started             bool
	finished            bool
	startTime           time.Time
	totalRuntime        time.Duration
	rowsProcessed       []int64
	partitionsProcessed []int64
	stageRuntimes       []time.Duration
	stageStartTimes     []time.Time
	metrics             *Metrics
	stageLabels         []string
}

// Start triggers statistics tracking, if it hasn't been started already.
// stageLabels name each stage for metrics purposes.
func (rs *RunStatistics) Start(stageLabels []string, metrics *Metrics) {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	if !rs.started {
		numStages := len(stageLabels)
		rs.started = true
		rs.startTime = time.Now()
		rs.rowsProcessed = make([]int64, numStages)
		rs.partitionsProcessed = make([]int64, numStages)
		rs.stageRuntimes = make([]time.Duration, numStages)
		rs.stageStartTimes = make([]time.Time, numStages)
		rs.stageLabels = stageLabels
		rs.metrics = metrics
	}
}

// Finish completes statistics tracking
func (rs *RunStatistics) Finish() {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	rs.totalRuntime = time.Since(rs.startTime)
	rs.finished = true
}

func (rs *RunStatistics) validStage(sidx int) bool {
	return sidx >= 0 && sidx < len(rs.rowsProcessed)
}

// StartStage tracks the beginning of a new Stage
func (rs *RunStatistics) StartStage(sidx int) {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	if rs.validStage(sidx) {
		rs.stageStartTimes[sidx] = time.Now()
	}
}

// EndStage tracks the end of a Stage
func (rs *RunStatistics) EndStage(sidx int) {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	if rs.validStage(sidx) {
		rs.stageRuntimes[sidx] = time.Since(rs.stageStartTimes[sidx])
	}
}

// EndPartition tracks the completion of a Partition within a Stage
func (rs *RunStatistics) EndPartition(sidx int, numRows int) {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	if !rs.validStage(sidx) {
		return
	}
	rs.rowsProcessed[sidx] += int64(numRows)
	rs.partitionsProcessed[sidx]++
	rs.metrics.observePartition(rs.stageLabels[sidx], numRows)
}

// GetStartTime returns the start time of the pipeline
func (rs *RunStatistics) GetStartTime() time.Time {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return rs.startTime
}

// GetRuntime returns the running time of the pipeline
func (rs *RunStatistics) GetRuntime() time.Duration {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	if rs.finished {
		return rs.totalRuntime
	}
	return time.Since(rs.startTime)
}

// GetNumRowsProcessed returns the number of rows which have been processed so far, counted by stage
func (rs *RunStatistics) GetNumRowsProcessed() []int64 {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return append([]int64{}, rs.rowsProcessed...)
}

// GetNumPartitionsProcessed returns the number of Partitions which have been processed so far, counted by stage
func (rs *RunStatistics) GetNumPartitionsProcessed() []int64 {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return append([]int64{}, rs.partitionsProcessed...)
}

// GetStageRuntimes returns all recorded stage runtimes
func (rs *RunStatistics) GetStageRuntimes() []time.Duration {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return append([]time.Duration{}, rs.stageRuntimes...)
}
