package main

import (
	"fmt"

	"github.com/go-sif/crimeflow/storage"
	"github.com/spf13/cobra"
)

func newStageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stage <src-uri> <dst-uri>",
		Short: "Copy a file between storage locations, e.g. from local disk into s3",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			fs, err := newStorage(v)
			if err != nil {
				return err
			}
			n, err := storage.Copy(cmd.Context(), fs, args[0], fs, args[1])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "copied %d bytes from %s to %s\n", n, args[0], args[1])
			return err
		},
	}
}
