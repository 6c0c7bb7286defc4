package x_test

import (
	"context"
	"testing"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/vaulttest"
	"github.com/iov-one/gringotts/vaulttest/assert"
	"github.com/iov-one/gringotts/x"
)

func TestAuth(t *testing.T) {
	a := vaulttest.NewCondition()
	b := vaulttest.NewCondition()
	c := vaulttest.NewCondition()

	ctx1 := &vaulttest.CtxAuth{Key: "foo"}
	ctx2 := &vaulttest.CtxAuth{Key: "bar"}

	cases := map[string]struct {
		ctx          context.Context
		auth         x.Authenticator
		mainSigner   gringotts.Condition
		wantInCtx    gringotts.Condition
		wantNotInCtx gringotts.Condition
		wantAll      []gringotts.Condition
	}{
		"empty context": {
			ctx:          context.Background(),
			auth:         &vaulttest.Auth{},
			wantNotInCtx: b,
		},
		"signer a": {
			ctx:          context.Background(),
			auth:         &vaulttest.Auth{Signer: a},
			mainSigner:   a,
			wantInCtx:    a,
			wantNotInCtx: b,
			wantAll:      []gringotts.Condition{a},
		},
		"signer b first": {
			ctx:          context.Background(),
			auth:         &vaulttest.Auth{Signers: []gringotts.Condition{b, a}},
			mainSigner:   b,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []gringotts.Condition{b, a},
		},
		"ctxAuth checks what is set by same key": {
			ctx:          ctx1.SetConditions(context.Background(), a, b),
			auth:         ctx1,
			mainSigner:   a,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []gringotts.Condition{a, b},
		},
		"ctxAuth with different key sees nothing": {
			ctx:          ctx1.SetConditions(context.Background(), a, b),
			auth:         ctx2,
			wantNotInCtx: a,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.mainSigner, x.MainSigner(tc.ctx, tc.auth))
			if tc.wantInCtx != nil && !tc.auth.HasAddress(tc.ctx, tc.wantInCtx.Address()) {
				t.Fatal("condition address that was expected in context not found")
			}
			if tc.wantNotInCtx != nil && tc.auth.HasAddress(tc.ctx, tc.wantNotInCtx.Address()) {
				t.Fatal("condition address that was expected not to be in context found")
			}

			all := tc.auth.GetConditions(tc.ctx)
			assert.Equal(t, tc.wantAll, all)

			addrs := x.GetAddresses(tc.ctx, tc.auth)
			assert.Equal(t, len(all), len(addrs))
			for i, cond := range all {
				assert.Equal(t, cond.Address(), addrs[i])
			}
		})
	}
}

func TestSelfAuth(t *testing.T) {
	self := vaulttest.RandomAddr(t)
	other := vaulttest.RandomAddr(t)
	auth := x.SelfAuth{}

	ctx := context.Background()
	assert.True(t, !auth.HasAddress(ctx, self), "plain context must not be a self-call")

	ctx = x.WithSelfCall(ctx, self)
	assert.True(t, auth.HasAddress(ctx, self), "self-call not authenticated")
	assert.True(t, !auth.HasAddress(ctx, other), "other address authenticated")
	assert.Nil(t, auth.GetConditions(ctx))

	// An empty self address never matches.
	ctx = x.WithSelfCall(context.Background(), nil)
	assert.True(t, !auth.HasAddress(ctx, nil))
}
