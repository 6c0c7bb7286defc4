package vaulttest

import (
	"context"
	"fmt"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/x"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced conditions.
// You can use either Signer or Signers (or both) attributes to reference
// conditions. This is for the convenience and each time all signers
// (regardless which attribute) are considered.
type Auth struct {
	// Signer represents an authentication of a single signer. This is a
	// convenience attribute when creating an authentication method for a
	// single signer.
	Signer gringotts.Condition

	// Signers represents an authentication of multiple signers.
	Signers []gringotts.Condition
}

var _ x.Authenticator = (*Auth)(nil)

func (a *Auth) GetConditions(context.Context) []gringotts.Condition {
	if a.Signer != nil {
		return append([]gringotts.Condition{a.Signer}, a.Signers...)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx context.Context, addr gringotts.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve conditions.
type CtxAuth struct {
	// Key used to set and retrieve conditions from the context. For
	// convenience only string type keys are allowed.
	Key string
}

var _ x.Authenticator = (*CtxAuth)(nil)

func (a *CtxAuth) SetConditions(ctx context.Context, conds ...gringotts.Condition) context.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx context.Context) []gringotts.Condition {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	conds, ok := val.([]gringotts.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []gringotts.Condition got %T", val))
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx context.Context, addr gringotts.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
