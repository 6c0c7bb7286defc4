package staking

import (
	"context"
	"fmt"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/coin"
	"github.com/iov-one/gringotts/errors"
	"github.com/iov-one/gringotts/orm"
)

// RewardQuerier returns the delegation reward the vault can withdraw from a
// validator. It is implemented by the connection to the staking module.
type RewardQuerier interface {
	Reward(ctx context.Context, db gringotts.ReadOnlyKVStore, validator string) (coin.Coin, error)
}

// Reward is the pending delegation reward at a single validator, as seen by
// the daemon.
type Reward struct {
	_         struct{}  `cbor:",toarray"`
	Validator string    `yaml:"validator" json:"validator"`
	Amount    coin.Coin `yaml:"amount" json:"amount"`
}

var _ orm.Model = (*Reward)(nil)

func (r *Reward) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Validator", validateValidator(r.Validator))
	errs = errors.AppendField(errs, "Amount", r.Amount.Validate())
	return errs
}

// RewardBucket keeps the pending rewards, keyed by validator. The daemon
// has no live staking module, so pending rewards are loaded from genesis
// and cleared by the Settler once withdrawn.
type RewardBucket struct {
	orm.ModelBucket
}

// NewRewardBucket returns a bucket of pending rewards.
func NewRewardBucket() *RewardBucket {
	return &RewardBucket{ModelBucket: orm.NewModelBucket("rewards", &Reward{})}
}

// Reward implements RewardQuerier. A validator without a record has no
// reward.
func (b *RewardBucket) Reward(ctx context.Context, db gringotts.ReadOnlyKVStore, validator string) (coin.Coin, error) {
	var r Reward
	switch err := b.One(db, []byte(validator), &r); {
	case err == nil:
		return r.Amount, nil
	case errors.ErrNotFound.Is(err):
		return coin.Coin{}, nil
	default:
		return coin.Coin{}, err
	}
}

var _ RewardQuerier = (*RewardBucket)(nil)

// Settler is a dispatcher that settles withdrawn rewards in the reward
// bucket. Every other instruction is ignored.
type Settler struct {
	bucket *RewardBucket
}

var _ gringotts.Dispatcher = (*Settler)(nil)

// NewSettler returns a settler of given bucket.
func NewSettler(b *RewardBucket) *Settler {
	return &Settler{bucket: b}
}

func (s *Settler) Dispatch(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, ins gringotts.Instruction) error {
	w := ins.WithdrawDelegatorReward
	if w == nil {
		return nil
	}
	switch err := s.bucket.Delete(db, []byte(w.Validator)); {
	case err == nil:
		info.Logger().Debug("reward settled", "validator", w.Validator)
		return nil
	case errors.ErrNotFound.Is(err):
		return nil
	default:
		return err
	}
}

// Initializer loads the pending rewards known at genesis.
type Initializer struct{}

var _ gringotts.Initializer = (*Initializer)(nil)

func (*Initializer) FromGenesis(opts gringotts.Options, info gringotts.BlockInfo, db gringotts.KVStore) error {
	var genesis struct {
		Rewards []Reward `yaml:"rewards"`
	}
	if err := opts.ReadOptions("staking", &genesis); err != nil {
		return err
	}
	b := NewRewardBucket()
	for i, r := range genesis.Rewards {
		r := r
		if err := r.Validate(); err != nil {
			return errors.Field(fmt.Sprintf("Rewards.%d", i), err, "invalid reward")
		}
		if err := b.Has(db, []byte(r.Validator)); err == nil {
			return errors.Wrapf(errors.ErrDuplicate, "reward of %s", r.Validator)
		}
		if _, err := b.Put(db, []byte(r.Validator), &r); err != nil {
			return errors.Wrapf(err, "reward of %s", r.Validator)
		}
	}
	return nil
}

// RegisterQuery registers pending rewards under /rewards.
func RegisterQuery(qr gringotts.QueryRouter) {
	NewRewardBucket().Register("rewards", qr)
}
