package staking

import (
	"context"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/coin"
	"github.com/iov-one/gringotts/errors"
	"github.com/iov-one/gringotts/x"
	"github.com/iov-one/gringotts/x/roles"
	"github.com/iov-one/gringotts/x/vesting"
)

const (
	tagAction    = "action"
	tagValidator = "validator"
)

// RegisterRoutes registers the staking handlers. All of them require an
// operator.
func RegisterRoutes(r gringotts.Registry, auth x.Authenticator, rewards RewardQuerier) {
	gate := roles.NewGate()
	b := vesting.NewBucket()
	r.Handle(&DelegateMsg{}, &stakeHandler{
		auth:   auth,
		gate:   gate,
		bucket: b,
		build:  func(tx gringotts.Tx, t *vesting.Tranche) (gringotts.Instruction, string, error) {
			var msg DelegateMsg
			if err := gringotts.LoadMsg(tx, &msg); err != nil {
				return gringotts.Instruction{}, "", err
			}
			return gringotts.Instruction{
				Delegate: &gringotts.Delegate{Validator: msg.Validator, Amount: t.Coin(msg.Amount)},
			}, msg.Validator, nil
		},
	})
	r.Handle(&RedelegateMsg{}, &stakeHandler{
		auth:   auth,
		gate:   gate,
		bucket: b,
		build:  func(tx gringotts.Tx, t *vesting.Tranche) (gringotts.Instruction, string, error) {
			var msg RedelegateMsg
			if err := gringotts.LoadMsg(tx, &msg); err != nil {
				return gringotts.Instruction{}, "", err
			}
			return gringotts.Instruction{
				Redelegate: &gringotts.Redelegate{
					SrcValidator: msg.SrcValidator,
					DstValidator: msg.DstValidator,
					Amount:       t.Coin(msg.Amount),
				},
			}, msg.DstValidator, nil
		},
	})
	r.Handle(&UndelegateMsg{}, &stakeHandler{
		auth:   auth,
		gate:   gate,
		bucket: b,
		build:  func(tx gringotts.Tx, t *vesting.Tranche) (gringotts.Instruction, string, error) {
			var msg UndelegateMsg
			if err := gringotts.LoadMsg(tx, &msg); err != nil {
				return gringotts.Instruction{}, "", err
			}
			return gringotts.Instruction{
				Undelegate: &gringotts.Undelegate{Validator: msg.Validator, Amount: t.Coin(msg.Amount)},
			}, msg.Validator, nil
		},
	})
	r.Handle(&WithdrawRewardMsg{}, &WithdrawRewardHandler{
		auth:    auth,
		gate:    gate,
		bucket:  b,
		rewards: rewards,
	})
}

// stakeHandler turns a staking message into a single instruction in the
// denomination of the vault.
type stakeHandler struct {
	auth   x.Authenticator
	gate   *roles.Gate
	bucket *vesting.Bucket
	build  func(gringotts.Tx, *vesting.Tranche) (gringotts.Instruction, string, error)
}

var _ gringotts.Handler = (*stakeHandler)(nil)

func (h *stakeHandler) Check(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*gringotts.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &gringotts.CheckResult{}, nil
}

func (h *stakeHandler) Deliver(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*gringotts.DeliverResult, error) {
	ins, validator, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res := &gringotts.DeliverResult{Dispatch: []gringotts.Instruction{ins}}
	res.Tag(tagAction, ins.Kind())
	res.Tag(tagValidator, validator)
	return res, nil
}

func (h *stakeHandler) validate(ctx context.Context, db gringotts.KVStore, tx gringotts.Tx) (gringotts.Instruction, string, error) {
	if _, err := h.gate.RequireOperator(ctx, h.auth, db); err != nil {
		return gringotts.Instruction{}, "", err
	}
	tranche, err := h.bucket.Load(db)
	if err != nil {
		return gringotts.Instruction{}, "", err
	}
	ins, validator, err := h.build(tx, tranche)
	if err != nil {
		return gringotts.Instruction{}, "", errors.Wrap(err, "load msg")
	}
	return ins, validator, nil
}

// WithdrawRewardHandler withdraws a delegation reward and forwards it to
// the staking reward distribution address.
type WithdrawRewardHandler struct {
	auth    x.Authenticator
	gate    *roles.Gate
	bucket  *vesting.Bucket
	rewards RewardQuerier
}

var _ gringotts.Handler = (*WithdrawRewardHandler)(nil)

func (h *WithdrawRewardHandler) Check(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*gringotts.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &gringotts.CheckResult{}, nil
}

func (h *WithdrawRewardHandler) Deliver(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*gringotts.DeliverResult, error) {
	msg, tranche, reward, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := vesting.CreditReward(db, reward.Amount); err != nil {
		return nil, err
	}

	res := &gringotts.DeliverResult{
		Data:     []byte(reward.String()),
		Dispatch: []gringotts.Instruction{
			{WithdrawDelegatorReward: &gringotts.WithdrawDelegatorReward{Validator: msg.Validator}},
			{BankSend: &gringotts.BankSend{To: tranche.StakingRewardAddress, Amount: reward}},
		},
	}
	res.Tag(tagAction, "withdraw_reward")
	res.Tag(tagValidator, msg.Validator)
	info.Logger().Debug("delegation reward withdrawn", "validator", msg.Validator, "reward", reward.String())
	return res, nil
}

func (h *WithdrawRewardHandler) validate(ctx context.Context, db gringotts.KVStore, tx gringotts.Tx) (*WithdrawRewardMsg, *vesting.Tranche, coin.Coin, error) {
	if _, err := h.gate.RequireOperator(ctx, h.auth, db); err != nil {
		return nil, nil, coin.Coin{}, err
	}
	var msg WithdrawRewardMsg
	if err := gringotts.LoadMsg(tx, &msg); err != nil {
		return nil, nil, coin.Coin{}, errors.Wrap(err, "load msg")
	}
	tranche, err := h.bucket.Load(db)
	if err != nil {
		return nil, nil, coin.Coin{}, err
	}
	reward, err := h.rewards.Reward(ctx, db, msg.Validator)
	if err != nil {
		return nil, nil, coin.Coin{}, errors.Wrap(err, "query reward")
	}
	if reward.IsZero() {
		return nil, nil, coin.Coin{}, errors.Wrapf(errors.ErrInsufficientReward, "no reward at %s", msg.Validator)
	}
	if reward.Denom != tranche.Denom {
		return nil, nil, coin.Coin{}, errors.Wrapf(errors.ErrAmount, "reward in %q, vault holds %q", reward.Denom, tranche.Denom)
	}
	return &msg, tranche, reward, nil
}
