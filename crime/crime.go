// Package crime implements the London crime job: records of the form
// id,borough,category,filter,severity,x,y are split, their categories normalized
// to dictionary codes, filtered, sorted, keyed into groups and reduced to the most
// severe record of each group, along with the group's size.
package crime

import (
	"context"
	"fmt"
	"io"

	"github.com/go-sif/crimeflow"
	"github.com/go-sif/crimeflow/backend"
	"github.com/go-sif/crimeflow/datasource/file"
	"github.com/go-sif/crimeflow/datasource/memory"
	"github.com/go-sif/crimeflow/datasource/parser/lines"
	"github.com/go-sif/crimeflow/errors"
	"github.com/go-sif/crimeflow/logging"
	ops "github.com/go-sif/crimeflow/operations/transform"
	util "github.com/go-sif/crimeflow/operations/util"
	"github.com/go-sif/crimeflow/pipeline"
	"github.com/go-sif/crimeflow/storage"
	"github.com/prometheus/client_golang/prometheus"
)

// JobName identifies the London crime job in logs
const JobName = "London crime"

// Names of the job's operations, which Hints may refer to
const (
	SplitStage     = "split"
	NormalizeStage = "normalize"
	FilterStage    = "filter"
	SortStage      = "sort"
	KeyStage       = "key"
	ReduceStage    = "reduce"
	CollectStage   = "collect"
)

// DefaultSourceCardinality is the assumed size of the input when no hint is given
var DefaultSourceCardinality = crimeflow.Cardinality{Low: 100, High: 10000, Confidence: 0.8}

// Hints are advisory estimates which influence backend choice, but never results
type Hints struct {
	Source *crimeflow.Cardinality                    // the number of input lines. Nil means DefaultSourceCardinality.
	Stages map[string]crimeflow.CardinalityEstimator // estimators for named operations
}

// A Job holds the closed-over state of the London crime pipeline
type Job struct {
	layout Layout
	dict   *Dictionary
}

// NewJob creates a Job. Nil arguments mean DefaultLayout and DefaultDictionary.
func NewJob(layout *Layout, dict *Dictionary) (*Job, error) {
	l := DefaultLayout
	if layout != nil {
		l = *layout
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if dict == nil {
		dict = DefaultDictionary()
	}
	return &Job{layout: l, dict: dict}, nil
}

// Operations returns the ordered operations of the job, with hints attached
func (j *Job) Operations(hints Hints, limit int64) ([]*crimeflow.DataFrameOperation, error) {
	frameOps := []*crimeflow.DataFrameOperation{
		ops.Map(j.Split).WithName(SplitStage),
		ops.Map(j.Normalize).WithName(NormalizeStage),
		ops.Filter(j.Keep).WithName(FilterStage),
		ops.SortBy(j.SortKey).WithName(SortStage),
		ops.KeyBy(j.DeriveKey).WithName(KeyStage),
		ops.ReduceByKey(j.Merge).WithName(ReduceStage),
		util.Collect(limit).WithName(CollectStage),
	}
	byName := make(map[string]*crimeflow.DataFrameOperation, len(frameOps))
	for _, op := range frameOps {
		byName[op.Name] = op
	}
	for name, est := range hints.Stages {
		op, ok := byName[name]
		if !ok {
			return nil, errors.MalformedHintError{Hint: "stage hint", Reason: fmt.Sprintf("no operation named %q", name)}
		}
		op.WithCardinalityEstimator(est)
	}
	return frameOps, nil
}

// Frame appends the job's operations to a DataFrame of single-field line Records
func (j *Job) Frame(source crimeflow.DataFrame, hints Hints, limit int64) (crimeflow.DataFrame, error) {
	frameOps, err := j.Operations(hints, limit)
	if err != nil {
		return nil, err
	}
	return source.To(frameOps...)
}

// Options configures Execute
type Options struct {
	Layout        *Layout               // defaults to DefaultLayout
	Dictionary    *Dictionary           // defaults to DefaultDictionary
	Storage       storage.FileSystem    // opens the input. Defaults to the local filesystem.
	PartitionSize int                   // the number of lines per Partition
	HeaderLines   int                   // the number of lines to skip at the start of the input
	Limit         int64                 // the maximum number of groups to return, lowest keys first. 0 means all of them.
	Force         string                // forces a backend, regardless of estimated cost
	Selector      *backend.Selector     // configures the backends
	Logger        logging.Logger        // defaults to logging.Discard
	Registerer    prometheus.Registerer // optional destination for metrics
}

// BuildFrame builds the job's DataFrame over an empty source. Workers of the
// distributed backend run this frame's stages on the coordinator's behalf.
func BuildFrame(opts *Options) (crimeflow.DataFrame, error) {
	if opts == nil {
		opts = &Options{}
	}
	job, err := NewJob(opts.Layout, opts.Dictionary)
	if err != nil {
		return nil, err
	}
	source := memory.CreateDataFrameFromLines([]string{}, lines.CreateParser(&lines.ParserConf{PartitionSize: opts.PartitionSize}))
	return job.Frame(source, Hints{}, opts.Limit)
}

// Execute runs the job over the lines of inputURI on the cheapest of the backends
// named by backendSpec, blocking until the result is available
func Execute(ctx context.Context, inputURI string, backendSpec string, hints Hints, opts *Options) (*pipeline.Report, error) {
	if opts == nil {
		opts = &Options{}
	}
	job, err := NewJob(opts.Layout, opts.Dictionary)
	if err != nil {
		return nil, err
	}
	fs := opts.Storage
	if fs == nil {
		fs = storage.NewRouter().Register("file", storage.NewLocalFS(nil))
	}
	parser := lines.CreateParser(&lines.ParserConf{PartitionSize: opts.PartitionSize, HeaderLines: opts.HeaderLines})
	frame, err := job.Frame(file.CreateDataFrame(fs, parser, inputURI), hints, opts.Limit)
	if err != nil {
		return nil, err
	}
	source := DefaultSourceCardinality
	if hints.Source != nil {
		source = *hints.Source
	}
	return pipeline.Execute(ctx, frame, &pipeline.Options{
		JobName:           JobName,
		Backends:          backendSpec,
		Force:             opts.Force,
		SourceCardinality: &source,
		Selector:          opts.Selector,
		Logger:            opts.Logger,
		Registerer:        opts.Registerer,
	})
}

// FormatResult writes up to max groups of a Result, ordered by key, followed by
// their payload fields. A max of 0 writes every group.
func FormatResult(w io.Writer, res *crimeflow.Result, max int) error {
	if _, err := fmt.Fprintf(w, "Found %d groups:\n", res.Len()); err != nil {
		return err
	}
	for i, row := range res.Sorted() {
		if max > 0 && i >= max {
			break
		}
		if _, err := fmt.Fprintf(w, "%s\n", row.Key); err != nil {
			return err
		}
		for _, field := range row.Payload {
			if _, err := fmt.Fprintf(w, "%s ", field); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, "\n---"); err != nil {
			return err
		}
	}
	return nil
}
