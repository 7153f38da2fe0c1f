// Package local implements a single-process crimeflow backend, which runs each Stage
// of a Plan across a bounded pool of goroutines.
package local

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/go-sif/crimeflow"
	"github.com/go-sif/crimeflow/internal/dataframe"
	"github.com/go-sif/crimeflow/internal/partition"
	itypes "github.com/go-sif/crimeflow/internal/types"
	"github.com/go-sif/crimeflow/logging"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/panjf2000/ants/v2"
)

// Name is the identifier of the local backend
const Name = "local"

// Options configures the local backend
type Options struct {
	NumWorkers int            // the number of Partitions transformed concurrently. Defaults to the number of CPUs.
	Logger     logging.Logger // receives stage lifecycle messages. Defaults to logging.Discard.
}

func ensureDefaultOptionsValues(opts *Options) {
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = runtime.NumCPU()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard
	}
}

// Executor runs Plans within the current process
type Executor struct {
	opts *Options
}

// CreateExecutor is a factory for local Executors. opts may be nil.
func CreateExecutor(opts *Options) *Executor {
	if opts == nil {
		opts = &Options{}
	}
	copied := *opts
	ensureDefaultOptionsValues(&copied)
	return &Executor{opts: &copied}
}

// Name identifies the local backend
func (e *Executor) Name() string {
	return Name
}

// Cost is proportional to the number of rows which pass through each operation.
// There is no startup overhead, but no parallelism beyond a single machine either.
func (e *Executor) Cost(estimates []itypes.StageEstimate) float64 {
	cost := 0.0
	for _, est := range estimates {
		cost += est.Input.Expected()
	}
	return cost
}

// Execute runs every Stage of plan in order, blocking until the result is available
func (e *Executor) Execute(ctx context.Context, plan itypes.Plan, obs itypes.ExecutionObserver) (*crimeflow.Result, error) {
	if plan.Size() == 0 {
		return &crimeflow.Result{Rows: []crimeflow.KeyedRecord{}}, nil
	}
	pool, err := ants.NewPool(e.opts.NumWorkers)
	if err != nil {
		return nil, fmt.Errorf("unable to start worker pool: %w", err)
	}
	defer pool.Release()

	parts, err := dataframe.LoadSource(ctx, plan)
	if err != nil {
		return nil, err
	}
	e.opts.Logger.Log(logging.DebugLevel, "Loaded %d source partitions", len(parts))
	for sidx := 0; sidx < plan.Size(); sidx++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stage := plan.GetStage(sidx)
		e.opts.Logger.Log(logging.InfoLevel, "Starting stage %d...", stage.ID())
		obs.StartStage(sidx)
		out, err := e.runStage(pool, sidx, stage, parts, obs)
		if err != nil {
			e.opts.Logger.Log(logging.ErrorLevel, "Stage %d failed: %v", stage.ID(), err)
			return nil, err
		}
		size := dataframe.OutputPartitionSize(plan, stage)
		switch {
		case stage.EndsInSort():
			run, err := partition.SortRun(out, stage.SortKeyOperation())
			if err != nil {
				return nil, err
			}
			parts = run.Partitions(size)
		case stage.EndsInShuffle():
			idx, err := dataframe.ReducePartitions(stage.ReductionOperation(), out)
			if err != nil {
				return nil, err
			}
			parts = idx.Partitions(size, 0)
		default:
			parts = out
		}
		obs.EndStage(sidx)
		e.opts.Logger.Log(logging.InfoLevel, "Finished stage %d", stage.ID())
	}
	limit := plan.GetStage(plan.Size() - 1).GetCollectionLimit()
	return &crimeflow.Result{Rows: dataframe.CollectRows(parts, limit)}, nil
}

// runStage transforms every Partition with the tasks of a Stage, concurrently.
// Outputs retain the order of their inputs.
func (e *Executor) runStage(pool *ants.Pool, sidx int, stage itypes.Stage, parts []crimeflow.OperablePartition, obs itypes.ExecutionObserver) ([]crimeflow.OperablePartition, error) {
	results := make([][]crimeflow.OperablePartition, len(parts))
	var wg sync.WaitGroup
	var lock sync.Mutex
	var errs *multierror.Error
	appendErr := func(err error) {
		lock.Lock()
		errs = multierror.Append(errs, err)
		lock.Unlock()
	}
	for i := range parts {
		i := i
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					appendErr(fmt.Errorf("Stage %d panicked on partition %d: %v", stage.ID(), parts[i].Ordinal(), r))
				}
			}()
			out, err := stage.WorkerExecute(parts[i])
			if err != nil {
				appendErr(err)
				return
			}
			results[i] = out
			rows := 0
			for _, p := range out {
				rows += p.GetNumRows()
			}
			obs.EndPartition(sidx, rows)
		})
		if err != nil {
			wg.Done()
			appendErr(err)
		}
	}
	wg.Wait()
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	flattened := make([]crimeflow.OperablePartition, 0, len(parts))
	for _, out := range results {
		flattened = append(flattened, out...)
	}
	return flattened, nil
}
