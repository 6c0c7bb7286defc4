package server

import (
	"fmt"
	"os"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/config"
	"github.com/spf13/cobra"
)

const flagConfig = "config"

// RootCmd returns the daemon command with all subcommands attached. The
// configuration is loaded before any subcommand runs and stored in env.
func RootCmd(name string, env *Env) *cobra.Command {
	var configFile string
	root := &cobra.Command{
		Use:           name,
		Short:         "Custodial vesting vault governed by its admins",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load(configFile)
			if err != nil {
				return err
			}
			logger, err := conf.Logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			env.Config = conf
			env.Logger = logger.With("module", name)
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&configFile, flagConfig, "c", os.Getenv("GRINGOTTS_CONFIG"), "configuration file in YAML format")
	root.AddCommand(
		InitCmd(env),
		ValidateCmd(env),
		ExecCmd(env),
		QueryCmd(env),
		KeysCmd(),
		MetricsCmd(env),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), gringotts.Version)
		},
	}
}
