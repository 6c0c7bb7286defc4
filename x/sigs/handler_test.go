package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/crypto"
	"github.com/iov-one/gringotts/errors"
	"github.com/iov-one/gringotts/store"
	"github.com/iov-one/gringotts/vaulttest"
)

type registry map[string]gringotts.Handler

func (r registry) Handle(m gringotts.Msg, h gringotts.Handler) {
	r[m.Path()] = h
}

func TestBumpSequence(t *testing.T) {
	priv := crypto.GenPrivKeyEd25519()
	unknown := vaulttest.NewCondition()

	cases := map[string]struct {
		InitSeq   int64
		Signer    gringotts.Condition
		Msg       gringotts.Msg
		WantErr   *errors.Error
		WantNonce int64
	}{
		"bump by one": {
			InitSeq:   3,
			Signer:    priv.PublicKey().Condition(),
			Msg:       &BumpSequenceMsg{Increment: 1},
			WantNonce: 3,
		},
		"bump by many": {
			InitSeq:   3,
			Signer:    priv.PublicKey().Condition(),
			Msg:       &BumpSequenceMsg{Increment: 100},
			WantNonce: 102,
		},
		"invalid increment": {
			Signer:  priv.PublicKey().Condition(),
			Msg:     &BumpSequenceMsg{Increment: 0},
			WantErr: errors.ErrMsg,
		},
		"increment too big": {
			Signer:  priv.PublicKey().Condition(),
			Msg:     &BumpSequenceMsg{Increment: maxSequenceIncrement + 1},
			WantErr: errors.ErrMsg,
		},
		"unknown signer": {
			Signer:  unknown,
			Msg:     &BumpSequenceMsg{Increment: 1},
			WantErr: errors.ErrNotFound,
		},
		"no signer": {
			Msg:     &BumpSequenceMsg{Increment: 1},
			WantErr: errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			user := &UserData{Pubkey: priv.PublicKey(), Sequence: tc.InitSeq}
			if _, err := NewBucket().Put(db, priv.PublicKey().Address(), user); err != nil {
				t.Fatalf("cannot save user: %s", err)
			}

			auth := &vaulttest.Auth{Signer: tc.Signer}
			r := registry{}
			RegisterRoutes(r, auth)
			h := r["sigs/bump_sequence"]

			info := vaulttest.UnixBlockInfo(t, 5, 1000)
			tx := &vaulttest.Tx{Msg: tc.Msg}
			cache := db.CacheWrap()
			if _, err := h.Check(context.Background(), info, cache, tx); !tc.WantErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			cache.Discard()
			if _, err := h.Deliver(context.Background(), info, db, tx); !tc.WantErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
			if tc.WantErr != nil {
				return
			}

			nonce, err := NextNonce(db, priv.PublicKey().Address())
			if err != nil {
				t.Fatalf("cannot get nonce: %s", err)
			}
			if nonce != tc.WantNonce {
				t.Fatalf("want %d nonce, got %d", tc.WantNonce, nonce)
			}
		})
	}
}

func TestUserValidation(t *testing.T) {
	pub := crypto.GenPrivKeyEd25519().PublicKey()
	cases := map[string]struct {
		user    UserData
		wantErr *errors.Error
	}{
		"valid":             {user: UserData{Pubkey: pub, Sequence: 7}},
		"negative sequence": {user: UserData{Pubkey: pub, Sequence: -1}, wantErr: ErrInvalidSequence},
		"missing key":       {user: UserData{Sequence: 1}, wantErr: errors.ErrEmpty},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.user.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}

	u := UserData{Pubkey: pub, Sequence: 2}
	if err := u.CheckAndIncrementSequence(1); !ErrInvalidSequence.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
	if err := u.CheckAndIncrementSequence(2); err != nil || u.Sequence != 3 {
		t.Fatalf("cannot increment: %v, %d", err, u.Sequence)
	}
	u.Sequence = maxSequenceValue
	if err := u.CheckAndIncrementSequence(maxSequenceValue); !errors.ErrOverflow.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}
