package sigs

import (
	"context"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/errors"
	"github.com/iov-one/gringotts/orm"
	"github.com/iov-one/gringotts/x"
)

// RegisterRoutes registers the sequence bump handler.
func RegisterRoutes(r gringotts.Registry, auth x.Authenticator) {
	r.Handle(&BumpSequenceMsg{}, &bumpSequenceHandler{
		b:    NewBucket(),
		auth: auth,
	})
}

type bumpSequenceHandler struct {
	auth x.Authenticator
	b    orm.ModelBucket
}

func (h *bumpSequenceHandler) Check(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*gringotts.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &gringotts.CheckResult{}, nil
}

func (h *bumpSequenceHandler) Deliver(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*gringotts.DeliverResult, error) {
	user, msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	// Each transaction processing bumps the sequence by one. Increment
	// must represent the total increment value.
	incr := int64(msg.Increment) - 1
	if incr == 0 {
		return &gringotts.DeliverResult{}, nil
	}
	if err := user.increment(incr); err != nil {
		return nil, err
	}
	if _, err := h.b.Put(db, user.Pubkey.Address(), user); err != nil {
		return nil, errors.Wrap(err, "save user")
	}
	return &gringotts.DeliverResult{}, nil
}

func (h *bumpSequenceHandler) validate(ctx context.Context, db gringotts.KVStore, tx gringotts.Tx) (*UserData, *BumpSequenceMsg, error) {
	var msg BumpSequenceMsg
	if err := gringotts.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	var user UserData
	if err := h.b.One(db, signer.Address(), &user); err != nil {
		return nil, nil, errors.Wrap(err, "no sequence")
	}
	return &user, &msg, nil
}
