package roles

import (
	"context"
	"testing"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/errors"
	"github.com/iov-one/gringotts/gconf"
	"github.com/iov-one/gringotts/store"
	"github.com/iov-one/gringotts/vaulttest"
	"github.com/iov-one/gringotts/x"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate(t *testing.T) {
	admin := vaulttest.NewCondition()
	op := vaulttest.NewCondition()
	stranger := vaulttest.NewCondition()
	self := DefaultSelfAddress(vaulttest.ChainID)

	db := store.MemStore()
	require.NoError(t, AdminTable().Add(db, admin.Address()))
	require.NoError(t, OperatorTable().Add(db, op.Address()))
	require.NoError(t, gconf.Save(db, PkgName, &Configuration{SelfAddress: self}))

	selfCtx := x.WithSelfCall(context.Background(), self)
	otherSelfCtx := x.WithSelfCall(context.Background(), vaulttest.RandomAddr(t))

	gate := NewGate()
	type check func(context.Context, x.Authenticator, gringotts.ReadOnlyKVStore) (gringotts.Address, error)
	requireSelf := func(ctx context.Context, _ x.Authenticator, db gringotts.ReadOnlyKVStore) (gringotts.Address, error) {
		return gate.RequireSelf(ctx, db)
	}

	cases := map[string]struct {
		check   check
		ctx     context.Context
		auth    x.Authenticator
		want    gringotts.Address
		wantErr *errors.Error
	}{
		"admin is admin": {
			check: gate.RequireAdmin,
			auth:  &vaulttest.Auth{Signer: admin},
			want:  admin.Address(),
		},
		"admin found among many signers": {
			check: gate.RequireAdmin,
			auth:  &vaulttest.Auth{Signers: []gringotts.Condition{stranger, op, admin}},
			want:  admin.Address(),
		},
		"operator is not admin": {
			check:   gate.RequireAdmin,
			auth:    &vaulttest.Auth{Signer: op},
			wantErr: errors.ErrUnauthorized,
		},
		"no signer is not admin": {
			check:   gate.RequireAdmin,
			auth:    &vaulttest.Auth{},
			wantErr: errors.ErrUnauthorized,
		},
		"operator is operator": {
			check: gate.RequireOperator,
			auth:  &vaulttest.Auth{Signer: op},
			want:  op.Address(),
		},
		"admin is not operator": {
			check:   gate.RequireOperator,
			auth:    &vaulttest.Auth{Signer: admin},
			wantErr: errors.ErrUnauthorized,
		},
		"self-call is self": {
			check: requireSelf,
			ctx:   selfCtx,
			want:  self,
		},
		"self-call of another vault is not self": {
			check:   requireSelf,
			ctx:     otherSelfCtx,
			wantErr: errors.ErrUnauthorized,
		},
		"admin is not self": {
			check:   requireSelf,
			auth:    &vaulttest.Auth{Signer: admin},
			wantErr: errors.ErrUnauthorized,
		},
		"self-call is not admin": {
			check:   gate.RequireAdmin,
			ctx:     selfCtx,
			auth:    &vaulttest.Auth{},
			wantErr: errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := tc.ctx
			if ctx == nil {
				ctx = context.Background()
			}
			got, err := tc.check(ctx, tc.auth, db)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRequireSelfIgnoresSignatures(t *testing.T) {
	holder := vaulttest.NewCondition()
	db := store.MemStore()
	require.NoError(t, gconf.Save(db, PkgName, &Configuration{SelfAddress: holder.Address()}))
	gate := NewGate()

	// A transaction signed by the key behind the vault address.
	signed := (&vaulttest.CtxAuth{Key: "sigs"}).SetConditions(context.Background(), holder)
	_, err := gate.RequireSelf(signed, db)
	if !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}

	got, err := gate.RequireSelf(x.WithSelfCall(signed, holder.Address()), db)
	require.NoError(t, err)
	assert.Equal(t, holder.Address(), got)
}

func TestRequireSelfWithoutConfiguration(t *testing.T) {
	self := DefaultSelfAddress(vaulttest.ChainID)
	ctx := x.WithSelfCall(context.Background(), self)
	_, err := NewGate().RequireSelf(ctx, store.MemStore())
	if !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}
