package main

import (
	"os"
	"os/signal"

	"github.com/go-sif/crimeflow/cluster"
	"github.com/go-sif/crimeflow/crime"
	"github.com/go-sif/crimeflow/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func addWorkerFlags(flags *pflag.FlagSet) {
	flags.String("host", "0.0.0.0", "address for the worker to bind to")
	flags.Int("port", 1643, "port for the worker to bind to")
}

func newWorkerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Serve stages of the London crime job for distributed coordinators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorker(cmd)
		},
	}
	addWorkerFlags(cmd.Flags())
	return cmd
}

func runWorker(cmd *cobra.Command) error {
	v, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(v)
	if err != nil {
		return err
	}
	fs, err := newStorage(v)
	if err != nil {
		return err
	}
	dict, err := loadDictionary(cmd.Context(), v, fs)
	if err != nil {
		return err
	}
	frame, err := crime.BuildFrame(&crime.Options{Dictionary: dict})
	if err != nil {
		return err
	}
	worker, err := cluster.CreateWorker(frame, &cluster.Options{
		Host: v.GetString("host"),
		Port: v.GetInt("port"),
	})
	if err != nil {
		return err
	}
	if addr := v.GetString("metrics-addr"); len(addr) > 0 {
		defer serveMetrics(addr, newRegistry(), logger)()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		logger.Log(logging.InfoLevel, "Stopping worker %s", worker.ID())
		worker.GracefulStop()
	}()
	return worker.Start()
}
