package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/go-sif/crimeflow"
	"github.com/go-sif/crimeflow/backend"
	"github.com/go-sif/crimeflow/backend/local"
	"github.com/go-sif/crimeflow/cluster"
	"github.com/go-sif/crimeflow/crime"
	"github.com/go-sif/crimeflow/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func addJobFlags(flags *pflag.FlagSet) {
	flags.String("backends", "local", "comma-separated backends to choose between: local (java), distributed (spark)")
	flags.String("force", "", "run on this backend regardless of estimated cost")
	flags.String("workers", "", "comma-separated host:port addresses of remote workers for the distributed backend")
	flags.Int("num-workers", 0, "the number of local threads, and of in-process workers when no remote workers are listed")
	flags.Int("batch-size", 0, "the number of partitions sent to a worker per request")
	flags.String("compression", "", "wire compression for remote workers: lz4, zstd or snappy")
	flags.Duration("rpc-timeout", 0, "timeout for connecting to remote workers")
	flags.Int("partition-size", 0, "the number of input lines per partition")
	flags.Int("header-lines", 0, "the number of lines to skip at the start of the input")
	flags.Int64("limit", 0, "the maximum number of groups to compute. 0 means all of them")
	flags.Int("show", 10, "the number of groups to print. 0 prints all of them")
	flags.Float64("source-low", 0, "lower bound of the estimated number of input lines")
	flags.Float64("source-high", 0, "upper bound of the estimated number of input lines")
	flags.Float64("source-confidence", 0, "confidence in the estimated number of input lines")
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <input-uri>",
		Short: "Run the London crime job over a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(cmd, args[0])
		},
	}
	addJobFlags(cmd.Flags())
	return cmd
}

func selectorFromConfig(v *viper.Viper, logger logging.Logger) *backend.Selector {
	return &backend.Selector{
		Local: &local.Options{NumWorkers: v.GetInt("num-workers"), Logger: logger},
		Distributed: &cluster.Options{
			Workers:     splitList(v.GetString("workers")),
			NumWorkers:  v.GetInt("num-workers"),
			BatchSize:   v.GetInt("batch-size"),
			Compression: v.GetString("compression"),
			RPCTimeout:  v.GetDuration("rpc-timeout"),
			Logger:      logger,
		},
	}
}

func hintsFromConfig(v *viper.Viper) crime.Hints {
	hints := crime.Hints{}
	if v.IsSet("source-high") && v.GetFloat64("source-high") > 0 {
		confidence := v.GetFloat64("source-confidence")
		if !v.IsSet("source-confidence") || confidence == 0 {
			confidence = crime.DefaultSourceCardinality.Confidence
		}
		hints.Source = &crimeflow.Cardinality{
			Low:        v.GetFloat64("source-low"),
			High:       v.GetFloat64("source-high"),
			Confidence: confidence,
		}
	}
	return hints
}

func runJob(cmd *cobra.Command, inputURI string) error {
	v, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(v)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	fs, err := newStorage(v)
	if err != nil {
		return err
	}
	dict, err := loadDictionary(ctx, v, fs)
	if err != nil {
		return err
	}
	reg := newRegistry()
	if addr := v.GetString("metrics-addr"); len(addr) > 0 {
		defer serveMetrics(addr, reg, logger)()
	}

	report, err := crime.Execute(ctx, inputURI, v.GetString("backends"), hintsFromConfig(v), &crime.Options{
		Dictionary:    dict,
		Storage:       fs,
		PartitionSize: v.GetInt("partition-size"),
		HeaderLines:   v.GetInt("header-lines"),
		Limit:         v.GetInt64("limit"),
		Force:         v.GetString("force"),
		Selector:      selectorFromConfig(v, logger),
		Logger:        logger,
		Registerer:    reg,
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := crime.FormatResult(out, report.Result, v.GetInt("show")); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s on %s backend, time: %dms\n", inputURI, report.Backend, report.Elapsed.Milliseconds())
	return err
}
