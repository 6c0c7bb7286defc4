package gov

import (
	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/errors"
	"github.com/iov-one/gringotts/gconf"
)

// PkgName is the configuration key of the package.
const PkgName = "gov"

// Configuration of the governance.
type Configuration struct {
	_ struct{} `cbor:",toarray"`

	// ThresholdPercent is the share of the total admin weight that must
	// vote yes for a proposal to pass. 0 to 100 inclusive.
	ThresholdPercent int64    `yaml:"threshold_percent" json:"threshold_percent"`
	MaxVotingPeriod  Duration `yaml:"max_voting_period" json:"max_voting_period"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	if c.ThresholdPercent < 0 || c.ThresholdPercent > 100 {
		return errors.Wrapf(errors.ErrInvalidConfiguration, "threshold %d%% out of range", c.ThresholdPercent)
	}
	if err := c.MaxVotingPeriod.Validate(); err != nil {
		return errors.Field("MaxVotingPeriod", err, "")
	}
	return nil
}

// ThresholdBP returns the threshold in basis points.
func (c *Configuration) ThresholdBP() uint64 {
	return uint64(c.ThresholdPercent) * 100
}

func loadConf(db gringotts.ReadOnlyKVStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, PkgName, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}

// Initializer stores the configuration found at conf.gov of the genesis.
type Initializer struct{}

var _ gringotts.Initializer = (*Initializer)(nil)

func (*Initializer) FromGenesis(opts gringotts.Options, info gringotts.BlockInfo, db gringotts.KVStore) error {
	return gconf.InitConfig(db, opts, PkgName, &Configuration{})
}
