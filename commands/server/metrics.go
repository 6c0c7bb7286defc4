package server

import (
	"os"

	"github.com/iov-one/gringotts/errors"
	"github.com/spf13/cobra"
)

// MetricsCmd prints the metrics written by the latest command, in the
// prometheus text format.
func MetricsCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Print the metrics of the latest run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := env.Config.MetricsFile
			if path == "" {
				return errors.Wrap(errors.ErrNotFound, "no metrics file configured")
			}
			raw, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(errors.ErrNotFound, "read metrics: %s", err)
			}
			_, err = cmd.OutOrStdout().Write(raw)
			return err
		},
	}
}
