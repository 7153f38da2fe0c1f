package cluster

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/go-sif/crimeflow"
	"github.com/go-sif/crimeflow/errors"
	"github.com/go-sif/crimeflow/internal/dataframe"
	"github.com/go-sif/crimeflow/internal/partition"
	itypes "github.com/go-sif/crimeflow/internal/types"
	"github.com/go-sif/crimeflow/logging"
	multierror "github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Executor coordinates the execution of Plans across a set of Workers
type Executor struct {
	opts *Options
}

// CreateExecutor is a factory for distributed Executors. opts may be nil.
func CreateExecutor(opts *Options) (*Executor, error) {
	opts = CloneOptions(opts)
	if err := ensureDefaultOptionsValues(opts); err != nil {
		return nil, err
	}
	return &Executor{opts: opts}, nil
}

// Name identifies the distributed backend
func (e *Executor) Name() string {
	return Name
}

// Cost is dominated by the fixed overhead of shipping data between processes, but
// each row is cheaper to process than it would be on a single machine
func (e *Executor) Cost(estimates []itypes.StageEstimate) float64 {
	cost := e.opts.StartupCost
	for _, est := range estimates {
		cost += est.Input.Expected() * e.opts.RowCost
	}
	return cost
}

// Check verifies that every remote Worker is reachable
func (e *Executor) Check(ctx context.Context) error {
	var errs *multierror.Error
	for _, addr := range e.opts.Workers {
		client, err := e.dial(addr)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		_, err = e.describe(ctx, client)
		client.Close()
		if err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

func (e *Executor) dial(addr string) (workerClient, error) {
	conn, err := DialWorker(addr, e.opts)
	if err != nil {
		return nil, errors.ResourceUnavailableError{Resource: "worker " + addr, Err: err}
	}
	return &remoteClient{addr: addr, conn: conn}, nil
}

func (e *Executor) describe(ctx context.Context, client workerClient) (*DescribeResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.RPCTimeout)
	defer cancel()
	res, err := client.Describe(ctx, &DescribeRequest{})
	if err != nil {
		return nil, errors.ResourceUnavailableError{Resource: "worker " + client.Address(), Err: err}
	}
	return res, nil
}

// connect produces one client per Worker, verifying that remote Workers hold the same Plan
func (e *Executor) connect(ctx context.Context, plan itypes.Plan) ([]workerClient, error) {
	if len(e.opts.Workers) == 0 {
		clients := make([]workerClient, e.opts.NumWorkers)
		for i := range clients {
			w, err := createWorker(plan, e.opts)
			if err != nil {
				return nil, err
			}
			clients[i] = &inProcessClient{w: w}
		}
		return clients, nil
	}
	clients := make([]workerClient, 0, len(e.opts.Workers))
	for _, addr := range e.opts.Workers {
		client, err := e.dial(addr)
		if err != nil {
			closeClients(clients)
			return nil, err
		}
		clients = append(clients, client)
		desc, err := e.describe(ctx, client)
		if err != nil {
			closeClients(clients)
			return nil, err
		}
		if desc.Fingerprint != plan.Fingerprint() {
			closeClients(clients)
			return nil, fmt.Errorf("Worker %s at %s holds plan %x, but this job's plan is %x", desc.ID, addr, desc.Fingerprint, plan.Fingerprint())
		}
		e.opts.Logger.Log(logging.DebugLevel, "Connected to worker %s at %s", desc.ID, addr)
	}
	return clients, nil
}

func closeClients(clients []workerClient) {
	for _, c := range clients {
		c.Close()
	}
}

// Execute runs every Stage of plan across the Workers, blocking until the result is available
func (e *Executor) Execute(ctx context.Context, plan itypes.Plan, obs itypes.ExecutionObserver) (*crimeflow.Result, error) {
	if plan.Size() == 0 {
		return &crimeflow.Result{Rows: []crimeflow.KeyedRecord{}}, nil
	}
	clients, err := e.connect(ctx, plan)
	if err != nil {
		return nil, err
	}
	defer closeClients(clients)

	parts, err := dataframe.LoadSource(ctx, plan)
	if err != nil {
		return nil, err
	}
	for sidx := 0; sidx < plan.Size(); sidx++ {
		stage := plan.GetStage(sidx)
		e.opts.Logger.Log(logging.InfoLevel, "Starting stage %d...", stage.ID())
		obs.StartStage(sidx)
		responses, err := e.runStage(ctx, sidx, plan, clients, parts, obs)
		if err != nil {
			e.opts.Logger.Log(logging.ErrorLevel, "Stage %d failed: %v", stage.ID(), err)
			return nil, err
		}
		size := dataframe.OutputPartitionSize(plan, stage)
		switch {
		case stage.EndsInSort():
			runs := make([]partition.SortedRun, len(responses))
			for i, res := range responses {
				runs[i] = res.Run
			}
			parts = partition.MergeRuns(runs...).Partitions(size)
		case stage.EndsInShuffle():
			rows, err := e.runShuffle(ctx, sidx, plan, clients, responses)
			if err != nil {
				e.opts.Logger.Log(logging.ErrorLevel, "Shuffle for stage %d failed: %v", stage.ID(), err)
				return nil, err
			}
			parts = partition.Split(size, 0, rows, true)
		default:
			parts = []crimeflow.OperablePartition{}
			for _, res := range responses {
				parts = append(parts, fromWireAll(res.Partitions)...)
			}
		}
		obs.EndStage(sidx)
		e.opts.Logger.Log(logging.InfoLevel, "Finished stage %d", stage.ID())
	}
	limit := plan.GetStage(plan.Size() - 1).GetCollectionLimit()
	return &crimeflow.Result{Rows: dataframe.CollectRows(parts, limit)}, nil
}

// runStage ships Partitions to Workers in batches, assigning batches round-robin.
// Responses are returned in batch order.
func (e *Executor) runStage(ctx context.Context, sidx int, plan itypes.Plan, clients []workerClient, parts []crimeflow.OperablePartition, obs itypes.ExecutionObserver) ([]*RunStageResponse, error) {
	batches := [][]crimeflow.OperablePartition{}
	for start := 0; start < len(parts); start += e.opts.BatchSize {
		end := start + e.opts.BatchSize
		if end > len(parts) {
			end = len(parts)
		}
		batches = append(batches, parts[start:end])
	}
	responses := make([]*RunStageResponse, len(batches))
	inFlight := semaphore.NewWeighted(int64(e.opts.maxInFlight()))
	var errLock sync.Mutex
	var errs *multierror.Error
	g, gctx := errgroup.WithContext(ctx)
	for b := range batches {
		if err := inFlight.Acquire(gctx, 1); err != nil {
			break
		}
		b := b
		client := clients[b%len(clients)]
		g.Go(func() error {
			defer inFlight.Release(1)
			req := &RunStageRequest{Stage: sidx, Fingerprint: plan.Fingerprint(), Partitions: toWireAll(batches[b])}
			res, err := client.RunStage(gctx, req)
			if err == nil && len(res.RowsOut) != len(batches[b]) {
				err = fmt.Errorf("expected %d partition results, got %d", len(batches[b]), len(res.RowsOut))
			}
			if err != nil {
				err = fmt.Errorf("worker %s failed to run stage %d: %w", client.Address(), sidx, err)
				errLock.Lock()
				errs = multierror.Append(errs, err)
				errLock.Unlock()
				return err
			}
			for _, rows := range res.RowsOut {
				obs.EndPartition(sidx, rows)
			}
			responses[b] = res
			return nil
		})
	}
	waitErr := g.Wait()
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	if waitErr != nil {
		return nil, waitErr
	}
	// the parent context may have been cancelled before every batch was submitted
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return responses, nil
}

// runShuffle assigns partially reduced rows to Workers by key hash, and has each
// Worker finish the reduction of its bucket. Every key is reduced by exactly one Worker.
func (e *Executor) runShuffle(ctx context.Context, sidx int, plan itypes.Plan, clients []workerClient, responses []*RunStageResponse) ([]crimeflow.KeyedRecord, error) {
	buckets := computeShuffleBuckets(len(clients))
	assigned := make([][]crimeflow.KeyedRecord, len(clients))
	for _, res := range responses {
		for _, row := range res.Combined {
			b := bucketFor(partition.HashKey(row.Key), buckets)
			assigned[b] = append(assigned[b], row)
		}
	}
	reduced := make([][]crimeflow.KeyedRecord, len(clients))
	var errLock sync.Mutex
	var errs *multierror.Error
	g, gctx := errgroup.WithContext(ctx)
	for w := range clients {
		if len(assigned[w]) == 0 {
			continue
		}
		w := w
		g.Go(func() error {
			req := &ReduceRequest{Stage: sidx, Fingerprint: plan.Fingerprint(), Rows: assigned[w]}
			res, err := clients[w].Reduce(gctx, req)
			if err != nil {
				err = fmt.Errorf("worker %s failed to reduce stage %d: %w", clients[w].Address(), sidx, err)
				errLock.Lock()
				errs = multierror.Append(errs, err)
				errLock.Unlock()
				return err
			}
			reduced[w] = res.Rows
			return nil
		})
	}
	waitErr := g.Wait()
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	if waitErr != nil {
		return nil, waitErr
	}
	rows := []crimeflow.KeyedRecord{}
	for _, r := range reduced {
		rows = append(rows, r...)
	}
	return rows, nil
}

// Assigns a maximum key hash to each worker (in ascending order). The worker will handle
// hashes less than their maximum and greater than or equal to the previous worker's maximum.
func computeShuffleBuckets(numWorkers int) []uint64 {
	buckets := make([]uint64, numWorkers)
	interval := uint64(math.MaxUint64) / uint64(numWorkers)
	for i := range buckets {
		buckets[i] = uint64(i+1) * interval
	}
	// this compensates for rounding errors, but makes
	// the last bucket a bit bigger than the others
	buckets[len(buckets)-1] = uint64(math.MaxUint64)
	return buckets
}

// bucketFor returns the index of the bucket responsible for a key hash
func bucketFor(hash uint64, buckets []uint64) int {
	idx := sort.Search(len(buckets), func(i int) bool { return hash < buckets[i] })
	if idx == len(buckets) {
		return len(buckets) - 1
	}
	return idx
}
