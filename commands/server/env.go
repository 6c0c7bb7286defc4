/*
Package server provides the commands of a vault daemon. Every command
opens the vault in the configured data directory, runs and commits its
own block and closes the vault again.
*/
package server

import (
	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/app"
	"github.com/iov-one/gringotts/config"
	"github.com/iov-one/gringotts/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// VaultOpener opens the vault stored in given directory. An empty
// directory keeps the state in memory.
type VaultOpener func(dir string, logger log.Logger, metrics *app.Metrics) (*app.Vault, error)

// Env is shared by all commands. Config and Logger are set by the root
// command before any subcommand runs.
type Env struct {
	Config      *config.Config
	Logger      log.Logger
	Open        VaultOpener
	Codec       *gringotts.MsgCodec
	Initializer gringotts.Initializer
}

func (e *Env) open() (*app.Vault, *app.Metrics, error) {
	if e.Config == nil {
		return nil, nil, errors.Wrap(errors.ErrState, "configuration not loaded")
	}
	logger := e.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	metrics := app.NewMetrics()
	v, err := e.Open(e.Config.StoreDir(), logger, metrics)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open vault")
	}
	return v, metrics, nil
}

// close flushes the metrics of this run, if a metrics file is configured,
// and closes the vault.
func (e *Env) close(v *app.Vault, metrics *app.Metrics) error {
	var errs error
	if path := e.Config.MetricsFile; path != "" {
		if err := metrics.WriteToTextfile(path); err != nil {
			errs = errors.Append(errs, errors.Wrap(errors.ErrDatabase, err.Error()))
		}
	}
	if err := v.Close(); err != nil {
		errs = errors.Append(errs, errors.Wrap(err, "close vault"))
	}
	return errs
}
