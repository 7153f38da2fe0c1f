// Package pipeline drives the execution of a DataFrame: it verifies that every resource
// the job depends on is available, estimates the size of each stage, picks a backend and
// runs the job to completion.
package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-sif/crimeflow"
	"github.com/go-sif/crimeflow/backend"
	"github.com/go-sif/crimeflow/errors"
	"github.com/go-sif/crimeflow/internal/optimizer"
	"github.com/go-sif/crimeflow/internal/stats"
	itypes "github.com/go-sif/crimeflow/internal/types"
	iutil "github.com/go-sif/crimeflow/internal/util"
	"github.com/go-sif/crimeflow/logging"
	uuid "github.com/gofrs/uuid"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
)

// Options configures a single pipeline run
type Options struct {
	JobName           string                 // a human-readable name for the job, used in logs
	Backends          string                 // comma-separated backend specification, e.g. "local,distributed". Defaults to "local".
	Force             string                 // if set, this backend is used regardless of estimated cost. It must be among Backends.
	SourceCardinality *crimeflow.Cardinality // an advisory estimate of the number of source Records. Nil means unknown.
	Selector          *backend.Selector      // constructs Executors for the requested backends
	Logger            logging.Logger         // receives job lifecycle messages. Defaults to logging.Discard.
	Registerer        prometheus.Registerer  // if non-nil, pipeline metrics are registered here
}

func ensureDefaultOptionsValues(opts *Options) {
	if len(opts.JobName) == 0 {
		opts.JobName = "crimeflow"
	}
	if len(opts.Backends) == 0 {
		opts.Backends = string(backend.Local)
	}
	if opts.Selector == nil {
		opts.Selector = &backend.Selector{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard
	}
}

// Estimate is the predicted number of Records flowing into and out of one operation
type Estimate struct {
	Stage     int
	Operation string
	TaskType  crimeflow.TaskType
	Input     crimeflow.Cardinality
	Output    crimeflow.Cardinality
}

// Report describes a completed pipeline run
type Report struct {
	JobID     string
	JobName   string
	Backend   string
	Estimates []Estimate
	Result    *crimeflow.Result
	Elapsed   time.Duration
	Stats     crimeflow.RuntimeStatistics
}

// Execute runs a DataFrame to completion on the cheapest of the requested backends,
// blocking until the result is available. Unknown backends and unavailable resources
// are reported before any stage runs.
func Execute(ctx context.Context, frame crimeflow.DataFrame, opts *Options) (*Report, error) {
	start := time.Now()
	if opts == nil {
		opts = &Options{}
	}
	copied := *opts
	opts = &copied
	ensureDefaultOptionsValues(opts)

	eframe, ok := frame.(itypes.ExecutableDataFrame)
	if !ok {
		return nil, fmt.Errorf("DataFrame must be executable")
	}
	kinds, err := backend.ParseSpec(opts.Backends)
	if err != nil {
		return nil, err
	}
	forced, err := parseForced(opts.Force)
	if err != nil {
		return nil, err
	}
	source := crimeflow.Cardinality{}
	if opts.SourceCardinality != nil {
		if err := opts.SourceCardinality.Validate(); err != nil {
			return nil, err
		}
		source = *opts.SourceCardinality
	}
	plan, err := eframe.Optimize()
	if err != nil {
		return nil, err
	}
	execs, err := opts.Selector.Resolve(kinds)
	if err != nil {
		return nil, err
	}
	if err := checkResources(ctx, plan, execs); err != nil {
		opts.Logger.Log(logging.ErrorLevel, "Job %s cannot start: %v", opts.JobName, err)
		return nil, err
	}

	estimates := optimizer.Estimate(plan, source)
	exec, err := optimizer.Choose(execs, estimates, forced)
	if err != nil {
		return nil, err
	}
	metrics, err := stats.NewMetrics(opts.Registerer)
	if err != nil {
		return nil, err
	}
	metrics.ObserveBackendSelected(exec.Name())

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate job ID: %w", err)
	}
	opts.Logger.Log(logging.InfoLevel, "Running job %s (%s) with %d stages on the %s backend", opts.JobName, id.String(), plan.Size(), exec.Name())
	runStats := &stats.RunStatistics{}
	runStats.Start(stageLabels(plan), metrics)
	result, err := exec.Execute(ctx, plan, runStats)
	runStats.Finish()
	metrics.ObserveJobDuration(exec.Name(), runStats.GetRuntime())
	if err != nil {
		opts.Logger.Log(logging.ErrorLevel, "Job %s failed: %v", opts.JobName, err)
		return nil, err
	}
	elapsed := time.Since(start)
	opts.Logger.Log(logging.InfoLevel, "Job %s produced %d rows in %dms", opts.JobName, result.Len(), elapsed.Milliseconds())
	return &Report{
		JobID:     id.String(),
		JobName:   opts.JobName,
		Backend:   exec.Name(),
		Estimates: toEstimates(estimates),
		Result:    result,
		Elapsed:   elapsed,
		Stats:     runStats,
	}, nil
}

func parseForced(force string) (string, error) {
	if len(force) == 0 {
		return "", nil
	}
	kinds, err := backend.ParseSpec(force)
	if err != nil {
		return "", err
	}
	if len(kinds) != 1 {
		return "", errors.MalformedHintError{Hint: "forced backend", Reason: "exactly one backend may be forced"}
	}
	return string(kinds[0]), nil
}

// checkResources verifies the job's input and every requested backend, reporting all failures together
func checkResources(ctx context.Context, plan itypes.Plan, execs []itypes.Executor) error {
	errs := &multierror.Error{ErrorFormat: iutil.FormatMultiError}
	if checkable, ok := plan.Source().(crimeflow.CheckableDataSource); ok {
		if err := checkable.Check(ctx); err != nil {
			errs = multierror.Append(errs, errors.ResourceUnavailableError{Resource: "input", Err: err})
		}
	}
	for _, exec := range execs {
		if checkable, ok := exec.(itypes.CheckableExecutor); ok {
			if err := checkable.Check(ctx); err != nil {
				errs = multierror.Append(errs, errors.ResourceUnavailableError{Resource: exec.Name() + " backend", Err: err})
			}
		}
	}
	return errs.ErrorOrNil()
}

func stageLabels(plan itypes.Plan) []string {
	labels := make([]string, plan.Size())
	for i := range labels {
		labels[i] = strconv.Itoa(plan.GetStage(i).ID())
	}
	return labels
}

func toEstimates(estimates []itypes.StageEstimate) []Estimate {
	out := make([]Estimate, len(estimates))
	for i, e := range estimates {
		out[i] = Estimate{
			Stage:     e.Operation.Stage,
			Operation: e.Operation.Name,
			TaskType:  e.Operation.TaskType,
			Input:     e.Input,
			Output:    e.Output,
		}
	}
	return out
}
