/*
Package config loads the configuration of the vault daemon.

Values are read from an optional YAML file and can be overwritten by
environment variables prefixed with GRINGOTTS, for example
GRINGOTTS_DATA_DIR or GRINGOTTS_LOG_LEVEL.
*/
package config

import (
	"io"
	"os"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/errors"
	"github.com/kelseyhightower/envconfig"
	"github.com/tendermint/tendermint/libs/log"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of all environment variables read by Load.
const EnvPrefix = "gringotts"

// Config is the process configuration. Chain configuration is kept in the
// state.
type Config struct {
	DataDir  string `yaml:"data_dir"  split_words:"true"`
	InMemory bool   `yaml:"in_memory" split_words:"true"`

	// ChainID is used by the init command when the genesis file does
	// not declare one.
	ChainID  string `yaml:"chain_id"  split_words:"true"`
	LogLevel string `yaml:"log_level" split_words:"true"`

	// MetricsFile if set receives the collected metrics in the
	// prometheus text format after every executed command.
	MetricsFile string `yaml:"metrics_file" split_words:"true"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		DataDir:  ".gringotts",
		ChainID:  "gringotts-dev",
		LogLevel: "info",
	}
}

// Load returns the default configuration overwritten by the content of
// given YAML file and then by the environment. An empty path skips the file.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "read config: %s", err)
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "parse config: %s", err)
		}
	}
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "environment: %s", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	var errs error
	if c.DataDir == "" && !c.InMemory {
		errs = errors.AppendField(errs, "DataDir", errors.ErrEmpty)
	}
	if c.ChainID != "" && !gringotts.IsValidChainID(c.ChainID) {
		errs = errors.AppendField(errs, "ChainID", errors.ErrInput)
	}
	if _, err := log.AllowLevel(c.LogLevel); err != nil {
		errs = errors.AppendField(errs, "LogLevel", errors.Wrap(errors.ErrInput, err.Error()))
	}
	return errs
}

// Logger returns a logger writing to given writer, filtered by the
// configured level.
func (c *Config) Logger(w io.Writer) (log.Logger, error) {
	level, err := log.AllowLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	logger := log.NewTMLogger(log.NewSyncWriter(w))
	return log.NewFilter(logger, level), nil
}

// StoreDir returns the directory of the database. It is empty for an in
// memory database.
func (c *Config) StoreDir() string {
	if c.InMemory {
		return ""
	}
	return c.DataDir
}
