package x

import (
	"context"

	"github.com/iov-one/gringotts"
)

type contextKey int

const contextKeySelf contextKey = iota

// WithSelfCall returns a context that authenticates the vault itself. The
// host uses it to execute self-call instructions and nothing else may set
// it.
func WithSelfCall(ctx context.Context, self gringotts.Address) context.Context {
	return context.WithValue(ctx, contextKeySelf, self)
}

// SelfAuth authenticates the vault identity of a self-call. It does not
// reveal any condition, only the address given to WithSelfCall matches.
type SelfAuth struct{}

var _ Authenticator = SelfAuth{}

func (SelfAuth) GetConditions(context.Context) []gringotts.Condition {
	return nil
}

func (SelfAuth) HasAddress(ctx context.Context, addr gringotts.Address) bool {
	self, ok := ctx.Value(contextKeySelf).(gringotts.Address)
	return ok && len(self) != 0 && self.Equals(addr)
}
