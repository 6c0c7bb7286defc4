package vesting

import (
	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/coin"
	"github.com/iov-one/gringotts/errors"
)

// maxVestingHorizon limits how far in the future a maturity time may be.
const maxVestingHorizon = 100 * 365 * 24 * 3600

// Initializer fulfils the gringotts.Initializer interface to load the
// tranche from the genesis file.
type Initializer struct{}

var _ gringotts.Initializer = (*Initializer)(nil)

// Genesis is the "vesting" section of the genesis file. Deposit are the
// funds that the vault was created with.
type Genesis struct {
	Denom                string               `yaml:"denom"`
	Timestamps           []gringotts.UnixTime `yaml:"vesting_timestamps"`
	Amounts              []coin.Amount        `yaml:"vesting_amounts"`
	UnlockedAddress      gringotts.Address    `yaml:"unlocked_distribution_address"`
	StakingRewardAddress gringotts.Address    `yaml:"staking_reward_distribution_address"`
	Deposit              coin.Coins           `yaml:"deposit"`
}

// Validate checks the tranche as of now. The checks run in a fixed order and
// the first failure is returned.
func (g *Genesis) Validate(now gringotts.UnixTime) error {
	if len(g.Amounts) != len(g.Timestamps) {
		return errors.Wrap(errors.ErrInvalidConfiguration, "mismatched vesting amounts and schedule")
	}
	if len(g.Amounts) == 0 {
		return errors.Wrap(errors.ErrInvalidConfiguration, "nothing to vest")
	}
	var total coin.Amount
	for _, a := range g.Amounts {
		if a.IsZero() {
			return errors.Wrap(errors.ErrInvalidConfiguration, "zero vesting amount is not allowed")
		}
		var err error
		if total, err = total.Add(a); err != nil {
			return errors.Wrap(errors.ErrInvalidConfiguration, "vesting total overflows")
		}
	}
	deposit, err := g.Deposit.AmountOf(g.Denom)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfiguration, "deposit overflows")
	}
	if deposit.LessThan(total) {
		return errors.Wrap(errors.ErrInvalidConfiguration, "insufficient deposit for the vesting plan")
	}

	var last gringotts.UnixTime
	for _, ts := range g.Timestamps {
		if ts <= last {
			return errors.Wrap(errors.ErrInvalidConfiguration, "vesting schedule must be monotonic increasing")
		}
		if ts < now {
			return errors.Wrap(errors.ErrInvalidConfiguration, "timestamp is before the current block time")
		}
		if ts > now+maxVestingHorizon {
			return errors.Wrap(errors.ErrInvalidConfiguration, "timestamp is too far in the future")
		}
		last = ts
	}

	var errs error
	if !coin.IsDenom(g.Denom) {
		errs = errors.AppendField(errs, "Denom", errors.Wrapf(errors.ErrInvalidConfiguration, "invalid denomination %q", g.Denom))
	}
	errs = errors.AppendField(errs, "UnlockedAddress", g.UnlockedAddress.Validate())
	errs = errors.AppendField(errs, "StakingRewardAddress", g.StakingRewardAddress.Validate())
	return errs
}

// Tranche returns the initial ledger state.
func (g *Genesis) Tranche() *Tranche {
	return &Tranche{
		Denom:                g.Denom,
		Schedule:             Schedule{Times: g.Timestamps, Amounts: g.Amounts},
		UnlockedAddress:      g.UnlockedAddress,
		StakingRewardAddress: g.StakingRewardAddress,
	}
}

// FromGenesis validates the tranche against the genesis block time and
// stores it.
func (*Initializer) FromGenesis(opts gringotts.Options, info gringotts.BlockInfo, db gringotts.KVStore) error {
	var genesis Genesis
	if err := opts.ReadOptions("vesting", &genesis); err != nil {
		return err
	}
	if err := genesis.Validate(info.UnixTime()); err != nil {
		return errors.Wrap(err, "invalid tranche")
	}
	return NewBucket().Save(db, genesis.Tranche())
}
