package vesting

import (
	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/coin"
	"github.com/iov-one/gringotts/errors"
	"github.com/iov-one/gringotts/orm"
)

const bucketName = "vesting"

var trancheKey = []byte("tranche")

// Tranche is the whole state of the ledger. There is exactly one.
type Tranche struct {
	_                    struct{}          `cbor:",toarray"`
	Denom                string            `json:"denom"`
	Schedule             Schedule          `json:"schedule"`
	UnlockedAddress      gringotts.Address `json:"unlocked_distribution_address"`
	StakingRewardAddress gringotts.Address `json:"staking_reward_distribution_address"`
	WithdrawnLocked      coin.Amount       `json:"withdrawn_locked"`
	WithdrawnUnlocked    coin.Amount       `json:"withdrawn_unlocked"`
	WithdrawnReward      coin.Amount       `json:"withdrawn_staking_rewards"`
}

var _ orm.Model = (*Tranche)(nil)

func (t *Tranche) Validate() error {
	var errs error
	if !coin.IsDenom(t.Denom) {
		errs = errors.AppendField(errs, "Denom", errors.ErrInput)
	}
	errs = errors.AppendField(errs, "Schedule", t.Schedule.Validate())
	errs = errors.AppendField(errs, "UnlockedAddress", t.UnlockedAddress.Validate())
	errs = errors.AppendField(errs, "StakingRewardAddress", t.StakingRewardAddress.Validate())
	return errs
}

// Coin returns given amount in the denomination of the vault.
func (t *Tranche) Coin(amount coin.Amount) coin.Coin {
	return coin.Coin{Denom: t.Denom, Amount: amount}
}

// Bucket stores the tranche singleton.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket returns a bucket for the tranche.
func NewBucket() *Bucket {
	return &Bucket{ModelBucket: orm.NewModelBucket(bucketName, &Tranche{})}
}

// Load returns the tranche. It fails with ErrNotFound before genesis.
func (b *Bucket) Load(db gringotts.ReadOnlyKVStore) (*Tranche, error) {
	var t Tranche
	if err := b.One(db, trancheKey, &t); err != nil {
		return nil, errors.Wrap(err, "load tranche")
	}
	return &t, nil
}

// Save validates and stores the tranche.
func (b *Bucket) Save(db gringotts.KVStore, t *Tranche) error {
	if _, err := b.Put(db, trancheKey, t); err != nil {
		return errors.Wrap(err, "save tranche")
	}
	return nil
}

// LoadTranche returns the tranche of the vault.
func LoadTranche(db gringotts.ReadOnlyKVStore) (*Tranche, error) {
	return NewBucket().Load(db)
}

// CreditReward adds a withdrawn staking reward to the reward counter.
func CreditReward(db gringotts.KVStore, amount coin.Amount) error {
	b := NewBucket()
	t, err := b.Load(db)
	if err != nil {
		return err
	}
	if t.WithdrawnReward, err = t.WithdrawnReward.Add(amount); err != nil {
		return errors.Wrap(err, "reward counter")
	}
	return b.Save(db, t)
}
