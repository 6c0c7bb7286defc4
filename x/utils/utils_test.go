package utils

import (
	"context"
	"testing"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/errors"
	"github.com/iov-one/gringotts/store"
	"github.com/iov-one/gringotts/vaulttest"
	"github.com/iov-one/gringotts/vaulttest/assert"
)

func TestSavepoint(t *testing.T) {
	// always written before the savepoint
	ok, ov := []byte("demo"), []byte("data")
	// written inside of the savepoint
	nk, nv := []byte{1, 2, 3}, []byte{4, 5, 6}

	cases := map[string]struct {
		save        Savepoint
		check       bool
		handlerErr  error
		wantWritten [][]byte
		wantMissing [][]byte
	}{
		"inactive savepoint keeps writes of a failure": {
			save:        NewSavepoint(),
			check:       true,
			handlerErr:  errors.ErrState,
			wantWritten: [][]byte{ok, nk},
		},
		"check savepoint discards failure": {
			save:        NewSavepoint().OnCheck(),
			check:       true,
			handlerErr:  errors.ErrState,
			wantWritten: [][]byte{ok},
			wantMissing: [][]byte{nk},
		},
		"deliver savepoint discards failure": {
			save:        NewSavepoint().OnDeliver(),
			handlerErr:  errors.ErrState,
			wantWritten: [][]byte{ok},
			wantMissing: [][]byte{nk},
		},
		"deliver savepoint writes success": {
			save:        NewSavepoint().OnCheck().OnDeliver(),
			wantWritten: [][]byte{ok, nk},
		},
		"check only savepoint ignores deliver": {
			save:        NewSavepoint().OnCheck(),
			handlerErr:  errors.ErrState,
			wantWritten: [][]byte{ok, nk},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			assert.Nil(t, db.Set(ok, ov))

			h := &writeHandler{key: nk, value: nv, err: tc.handlerErr}
			handler := vaulttest.Decorate(h, tc.save)
			ctx := context.Background()
			info := vaulttest.UnixBlockInfo(t, 1, 100)
			tx := &vaulttest.Tx{Msg: &vaulttest.Msg{RoutePath: "test/write"}}
			var err error
			if tc.check {
				_, err = handler.Check(ctx, info, db, tx)
			} else {
				_, err = handler.Deliver(ctx, info, db, tx)
			}
			assert.IsErr(t, errorKind(tc.handlerErr), err)

			for _, k := range tc.wantWritten {
				has, err := db.Has(k)
				assert.Nil(t, err)
				assert.True(t, has, "missing key %x", k)
			}
			for _, k := range tc.wantMissing {
				has, err := db.Has(k)
				assert.Nil(t, err)
				assert.True(t, !has, "unexpected key %x", k)
			}
		})
	}
}

func errorKind(err error) *errors.Error {
	if err == nil {
		return nil
	}
	return err.(*errors.Error)
}

type writeHandler struct {
	key   []byte
	value []byte
	err   error
}

func (h *writeHandler) Check(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*gringotts.CheckResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	if h.err != nil {
		return nil, h.err
	}
	return &gringotts.CheckResult{}, nil
}

func (h *writeHandler) Deliver(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*gringotts.DeliverResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	if h.err != nil {
		return nil, h.err
	}
	return &gringotts.DeliverResult{}, nil
}

func TestRecovery(t *testing.T) {
	h := vaulttest.Decorate(vaulttest.PanicHandler{Value: "boom"}, NewRecovery())
	ctx := context.Background()
	info := vaulttest.UnixBlockInfo(t, 1, 100)
	db := store.MemStore()
	tx := &vaulttest.Tx{Msg: &vaulttest.Msg{RoutePath: "test/panic"}}

	_, err := h.Check(ctx, info, db, tx)
	assert.IsErr(t, errors.ErrPanic, err)
	_, err = h.Deliver(ctx, info, db, tx)
	assert.IsErr(t, errors.ErrPanic, err)
}

func TestActionTaggerAndLogging(t *testing.T) {
	h := &vaulttest.Handler{DeliverResult: gringotts.DeliverResult{Log: "done"}}
	stack := vaulttest.Decorate(vaulttest.Decorate(h, NewActionTagger()), NewLogging())
	ctx := context.Background()
	info := vaulttest.UnixBlockInfo(t, 1, 100)
	db := store.MemStore()
	tx := &vaulttest.Tx{Msg: &vaulttest.Msg{RoutePath: "vesting/withdraw_unlocked"}}

	_, err := stack.Check(ctx, info, db, tx)
	assert.Nil(t, err)

	res, err := stack.Deliver(ctx, info, db, tx)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res.Tags))
	assert.Equal(t, PathKey, string(res.Tags[0].Key))
	assert.Equal(t, "vesting/withdraw_unlocked", string(res.Tags[0].Value))

	h.DeliverErr = errors.ErrUnauthorized
	_, err = stack.Deliver(ctx, info, db, tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)
}
