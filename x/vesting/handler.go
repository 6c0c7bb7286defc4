package vesting

import (
	"context"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/coin"
	"github.com/iov-one/gringotts/errors"
	"github.com/iov-one/gringotts/x"
	"github.com/iov-one/gringotts/x/roles"
)

const (
	tagAction    = "action"
	tagAmount    = "amount"
	tagRecipient = "recipient"
)

// RegisterRoutes registers the ledger handlers.
func RegisterRoutes(r gringotts.Registry, auth x.Authenticator) {
	b := NewBucket()
	gate := roles.NewGate()
	r.Handle(&WithdrawUnlockedMsg{}, &WithdrawUnlockedHandler{auth: auth, gate: gate, bucket: b})
	r.Handle(&InternalWithdrawLockedMsg{}, &WithdrawLockedHandler{gate: gate, bucket: b})
	r.Handle(&InternalUpdateUnlockedDistributionAddressMsg{}, &updateAddressHandler{
		gate:   gate,
		bucket: b,
		action: "update_unlocked_address",
		apply: func(tx gringotts.Tx, t *Tranche) error {
			var msg InternalUpdateUnlockedDistributionAddressMsg
			if err := gringotts.LoadMsg(tx, &msg); err != nil {
				return err
			}
			t.UnlockedAddress = msg.Address
			return nil
		},
	})
	r.Handle(&InternalUpdateStakingRewardDistributionAddressMsg{}, &updateAddressHandler{
		gate:   gate,
		bucket: b,
		action: "update_reward_address",
		apply: func(tx gringotts.Tx, t *Tranche) error {
			var msg InternalUpdateStakingRewardDistributionAddressMsg
			if err := gringotts.LoadMsg(tx, &msg); err != nil {
				return err
			}
			t.StakingRewardAddress = msg.Address
			return nil
		},
	})
}

// WithdrawUnlockedHandler releases matured principal. Only operators may
// call it.
type WithdrawUnlockedHandler struct {
	auth   x.Authenticator
	gate   *roles.Gate
	bucket *Bucket
}

var _ gringotts.Handler = (*WithdrawUnlockedHandler)(nil)

func (h *WithdrawUnlockedHandler) Check(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*gringotts.CheckResult, error) {
	if _, _, err := h.validate(ctx, info, db, tx); err != nil {
		return nil, err
	}
	return &gringotts.CheckResult{}, nil
}

func (h *WithdrawUnlockedHandler) Deliver(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*gringotts.DeliverResult, error) {
	tranche, requested, err := h.validate(ctx, info, db, tx)
	if err != nil {
		return nil, err
	}
	collected, err := tranche.Schedule.CollectVested(info.UnixTime(), requested)
	if err != nil {
		return nil, err
	}
	if tranche.WithdrawnUnlocked, err = tranche.WithdrawnUnlocked.Add(collected); err != nil {
		return nil, errors.Wrap(err, "unlocked counter")
	}
	if err := h.bucket.Save(db, tranche); err != nil {
		return nil, err
	}

	res := &gringotts.DeliverResult{Data: []byte(collected.String())}
	res.Tag(tagAction, "withdraw_unlocked")
	res.Tag(tagAmount, collected.String())
	if !collected.IsZero() {
		res.Dispatch = append(res.Dispatch, gringotts.Instruction{
			BankSend: &gringotts.BankSend{To: tranche.UnlockedAddress, Amount: tranche.Coin(collected)},
		})
	}
	info.Logger().Debug("unlocked tokens withdrawn", "amount", collected.String())
	return res, nil
}

// validate returns the tranche and the amount to collect.
func (h *WithdrawUnlockedHandler) validate(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*Tranche, coin.Amount, error) {
	if _, err := h.gate.RequireOperator(ctx, h.auth, db); err != nil {
		return nil, coin.Amount{}, err
	}
	var msg WithdrawUnlockedMsg
	if err := gringotts.LoadMsg(tx, &msg); err != nil {
		return nil, coin.Amount{}, errors.Wrap(err, "load msg")
	}
	tranche, err := h.bucket.Load(db)
	if err != nil {
		return nil, coin.Amount{}, err
	}
	if msg.Amount != nil {
		return tranche, *msg.Amount, nil
	}
	vested, err := tranche.Schedule.TotalVestedAsOf(info.UnixTime())
	if err != nil {
		return nil, coin.Amount{}, err
	}
	return tranche, vested, nil
}

// WithdrawLockedHandler drains the schedule. It is reachable only through
// a self-call of an executed proposal.
type WithdrawLockedHandler struct {
	gate   *roles.Gate
	bucket *Bucket
}

var _ gringotts.Handler = (*WithdrawLockedHandler)(nil)

func (h *WithdrawLockedHandler) Check(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*gringotts.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &gringotts.CheckResult{}, nil
}

func (h *WithdrawLockedHandler) Deliver(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*gringotts.DeliverResult, error) {
	msg, tranche, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	drained, err := tranche.Schedule.EmergencyDrain()
	if err != nil {
		return nil, err
	}
	if tranche.WithdrawnLocked, err = tranche.WithdrawnLocked.Add(drained); err != nil {
		return nil, errors.Wrap(err, "locked counter")
	}
	if err := h.bucket.Save(db, tranche); err != nil {
		return nil, err
	}

	res := &gringotts.DeliverResult{Data: []byte(drained.String())}
	res.Tag(tagAction, "withdraw_locked")
	res.Tag(tagAmount, drained.String())
	res.Tag(tagRecipient, msg.Recipient.String())
	if !drained.IsZero() {
		res.Dispatch = append(res.Dispatch, gringotts.Instruction{
			BankSend: &gringotts.BankSend{To: msg.Recipient, Amount: tranche.Coin(drained)},
		})
	}
	info.Logger().Info("locked tokens drained", "amount", drained.String(), "recipient", msg.Recipient)
	return res, nil
}

func (h *WithdrawLockedHandler) validate(ctx context.Context, db gringotts.KVStore, tx gringotts.Tx) (*InternalWithdrawLockedMsg, *Tranche, error) {
	if _, err := h.gate.RequireSelf(ctx, db); err != nil {
		return nil, nil, err
	}
	var msg InternalWithdrawLockedMsg
	if err := gringotts.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	tranche, err := h.bucket.Load(db)
	if err != nil {
		return nil, nil, err
	}
	return &msg, tranche, nil
}

// updateAddressHandler changes one of the distribution addresses on a
// self-call.
type updateAddressHandler struct {
	gate   *roles.Gate
	bucket *Bucket
	action string
	apply  func(gringotts.Tx, *Tranche) error
}

var _ gringotts.Handler = (*updateAddressHandler)(nil)

func (h *updateAddressHandler) Check(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*gringotts.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &gringotts.CheckResult{}, nil
}

func (h *updateAddressHandler) Deliver(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*gringotts.DeliverResult, error) {
	tranche, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.bucket.Save(db, tranche); err != nil {
		return nil, err
	}
	res := &gringotts.DeliverResult{}
	res.Tag(tagAction, h.action)
	return res, nil
}

func (h *updateAddressHandler) validate(ctx context.Context, db gringotts.KVStore, tx gringotts.Tx) (*Tranche, error) {
	if _, err := h.gate.RequireSelf(ctx, db); err != nil {
		return nil, err
	}
	tranche, err := h.bucket.Load(db)
	if err != nil {
		return nil, err
	}
	if err := h.apply(tx, tranche); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return tranche, nil
}
