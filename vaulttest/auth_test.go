package vaulttest

import (
	"context"
	"testing"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/vaulttest/assert"
)

func TestAuth(t *testing.T) {
	a, b, c := NewCondition(), NewCondition(), NewCondition()
	ctx := context.Background()

	auth := &Auth{Signer: a, Signers: []gringotts.Condition{b}}
	assert.Equal(t, []gringotts.Condition{a, b}, auth.GetConditions(ctx))
	assert.True(t, auth.HasAddress(ctx, a.Address()))
	assert.True(t, auth.HasAddress(ctx, b.Address()))
	assert.True(t, !auth.HasAddress(ctx, c.Address()))

	ctxAuth := &CtxAuth{Key: "test"}
	other := &CtxAuth{Key: "other"}
	ctx = ctxAuth.SetConditions(ctx, c)
	assert.True(t, ctxAuth.HasAddress(ctx, c.Address()))
	assert.True(t, !other.HasAddress(ctx, c.Address()))
	assert.Nil(t, other.GetConditions(ctx))
}
