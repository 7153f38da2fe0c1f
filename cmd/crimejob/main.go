// Command crimejob runs the London crime job, serves workers for its distributed
// backend, and stages input files into remote storage.
//
// A process with $CRIMEFLOW_NODE_TYPE set and no subcommand runs in that role: a
// "worker" serves stages for coordinators, and a "coordinator" runs the job over the
// input named by its first argument.
package main

import (
	"fmt"
	"os"

	"github.com/go-sif/crimeflow/cluster"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "crimejob",
		Short:         "Group London crime records by area and severity",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := cluster.RoleFromEnv()
			if err != nil {
				return err
			}
			if role == cluster.WorkerRole {
				return runWorker(cmd)
			}
			if len(args) != 1 {
				return fmt.Errorf("a coordinator requires exactly one input URI, got %d", len(args))
			}
			return runJob(cmd, args[0])
		},
	}
	root.PersistentFlags().String("config", "", "configuration file (yaml, json or toml)")
	root.PersistentFlags().String("log-level", "info", "minimum level of logged messages")
	root.PersistentFlags().String("s3-endpoint", "", "endpoint of an S3-compatible object store for s3:// URIs")
	root.PersistentFlags().String("s3-access-key", "", "S3 access key")
	root.PersistentFlags().String("s3-secret-key", "", "S3 secret key")
	root.PersistentFlags().String("s3-region", "", "S3 region")
	root.PersistentFlags().Bool("s3-ssl", false, "connect to the object store over TLS")
	root.PersistentFlags().String("dictionary", "", "URI of a JSON object mapping category names to codes")
	root.PersistentFlags().String("metrics-addr", "", "if set, serve prometheus metrics on this address")
	addJobFlags(root.Flags())
	addWorkerFlags(root.Flags())

	root.AddCommand(newRunCmd(), newWorkerCmd(), newStageCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
