package cluster

import (
	"context"
	"fmt"
	"log"
	"net"
	"sync"

	"github.com/go-sif/crimeflow"
	"github.com/go-sif/crimeflow/internal/dataframe"
	"github.com/go-sif/crimeflow/internal/partition"
	itypes "github.com/go-sif/crimeflow/internal/types"
	uuid "github.com/gofrs/uuid"
	multierror "github.com/hashicorp/go-multierror"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// A Worker runs the Stages of a Plan against the Partitions a coordinator sends it.
// Workers hold no state between requests.
type Worker struct {
	id            string
	opts          *Options
	plan          itypes.Plan
	fingerprint   uint64
	server        *grpc.Server
	stopped       bool
	lifecycleLock sync.Mutex
}

// CreateWorker is a factory for Workers, which must be built from the same DataFrame
// as the coordinator they serve
func CreateWorker(frame crimeflow.DataFrame, opts *Options) (*Worker, error) {
	if frame == nil {
		return nil, fmt.Errorf("DataFrame cannot be nil")
	}
	eframe, ok := frame.(itypes.ExecutableDataFrame)
	if !ok {
		return nil, fmt.Errorf("DataFrame must be executable")
	}
	plan, err := eframe.Optimize()
	if err != nil {
		return nil, err
	}
	opts = CloneOptions(opts)
	if err := ensureDefaultOptionsValues(opts); err != nil {
		return nil, err
	}
	return createWorker(plan, opts)
}

// newWorkerID is replaced in tests
var newWorkerID = uuid.NewV4

func createWorker(plan itypes.Plan, opts *Options) (*Worker, error) {
	id, err := newWorkerID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate worker ID: %w", err)
	}
	return &Worker{id: id.String(), opts: opts, plan: plan, fingerprint: plan.Fingerprint()}, nil
}

// ID returns the ID of this Worker
func (w *Worker) ID() string {
	return w.id
}

// Start listens on the configured host and port, and serves requests until the Worker is stopped
func (w *Worker) Start() error {
	lis, err := net.Listen("tcp", w.opts.connectionString())
	if err != nil {
		return fmt.Errorf("failed to listen: %v", err)
	}
	return w.Serve(lis)
}

// Serve handles requests from lis until the Worker is stopped. It blocks the current goroutine.
func (w *Worker) Serve(lis net.Listener) error {
	w.lifecycleLock.Lock()
	if w.stopped {
		w.lifecycleLock.Unlock()
		return lis.Close()
	}
	if w.server != nil {
		w.lifecycleLock.Unlock()
		return fmt.Errorf("Worker %s is already serving", w.id)
	}
	w.server = NewWorkerServer(w, w.opts)
	server := w.server
	w.lifecycleLock.Unlock()
	log.Printf("Worker %s listening on %s", w.id, lis.Addr().String())
	if err := server.Serve(lis); err != nil {
		return fmt.Errorf("failed to serve: %v", err)
	}
	log.Printf("Worker %s stopped", w.id)
	return nil
}

// GracefulStop stops the Worker, waiting for RPCs to finish
func (w *Worker) GracefulStop() {
	w.lifecycleLock.Lock()
	defer w.lifecycleLock.Unlock()
	w.stopped = true
	if w.server != nil {
		w.server.GracefulStop()
		w.server = nil
	}
}

// Stop stops the Worker immediately
func (w *Worker) Stop() {
	w.lifecycleLock.Lock()
	defer w.lifecycleLock.Unlock()
	w.stopped = true
	if w.server != nil {
		w.server.Stop()
		w.server = nil
	}
}

// NewWorkerServer creates a gRPC server with the Worker's handlers, codec limits and options registered
func NewWorkerServer(w *Worker, opts *Options) *grpc.Server {
	serverOpts := []grpc.ServerOption{
		grpc.MaxRecvMsgSize(opts.MaxMessageBytes),
		grpc.MaxSendMsgSize(opts.MaxMessageBytes),
	}
	server := grpc.NewServer(append(serverOpts, opts.ServerOptions...)...)
	RegisterWorkerServer(server, w)
	return server
}

// stage verifies that a request was built from the same Plan as this Worker's,
// and retrieves the requested Stage
func (w *Worker) stage(sidx int, fingerprint uint64) (itypes.Stage, error) {
	if fingerprint != w.fingerprint {
		return nil, status.Errorf(codes.FailedPrecondition, "Worker %s holds plan %x, but the coordinator sent plan %x", w.id, w.fingerprint, fingerprint)
	}
	if sidx < 0 || sidx >= w.plan.Size() {
		return nil, status.Errorf(codes.OutOfRange, "Worker %s has no stage %d", w.id, sidx)
	}
	return w.plan.GetStage(sidx), nil
}

// Describe identifies this Worker and the Plan it holds
func (w *Worker) Describe(ctx context.Context, req *DescribeRequest) (*DescribeResponse, error) {
	return &DescribeResponse{ID: w.id, Fingerprint: w.fingerprint, NumStages: w.plan.Size()}, nil
}

// RunStage runs the tasks of a Stage against a batch of Partitions. Stages which end in a
// sort return a sorted run, and Stages which end in a shuffle return a partial reduction.
func (w *Worker) RunStage(ctx context.Context, req *RunStageRequest) (*RunStageResponse, error) {
	stage, err := w.stage(req.Stage, req.Fingerprint)
	if err != nil {
		return nil, err
	}
	res := &RunStageResponse{RowsOut: make([]int, len(req.Partitions))}
	outs := make([]crimeflow.OperablePartition, 0, len(req.Partitions))
	var errs *multierror.Error
	for i, wp := range req.Partitions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := stage.WorkerExecute(wp.partition())
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		for _, p := range out {
			res.RowsOut[i] += p.GetNumRows()
		}
		outs = append(outs, out...)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	switch {
	case stage.EndsInSort():
		run, err := partition.SortRun(outs, stage.SortKeyOperation())
		if err != nil {
			return nil, err
		}
		res.Run = run
	case stage.EndsInShuffle():
		idx, err := dataframe.ReducePartitions(stage.ReductionOperation(), outs)
		if err != nil {
			return nil, err
		}
		res.Combined = idx.Rows()
	default:
		res.Partitions = toWireAll(outs)
	}
	return res, nil
}

// Reduce folds the rows of one shuffle bucket, producing one row per distinct key
func (w *Worker) Reduce(ctx context.Context, req *ReduceRequest) (*ReduceResponse, error) {
	stage, err := w.stage(req.Stage, req.Fingerprint)
	if err != nil {
		return nil, err
	}
	if !stage.EndsInShuffle() {
		return nil, status.Errorf(codes.InvalidArgument, "Stage %d does not end in a shuffle", req.Stage)
	}
	idx := partition.NewReduceIndex(stage.ReductionOperation())
	if err := idx.MergeRows(req.Rows); err != nil {
		return nil, err
	}
	return &ReduceResponse{Rows: idx.Rows()}, nil
}
