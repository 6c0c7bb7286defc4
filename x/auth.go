package x

import (
	"context"

	"github.com/iov-one/gringotts"
)

// Authenticator reveals who authorized the current message. Handlers
// receive one at registration and never read signatures themselves.
type Authenticator interface {
	// GetConditions returns the conditions that signed the message, in
	// signature order.
	GetConditions(context.Context) []gringotts.Condition
	// HasAddress reports whether any condition resolves to addr.
	HasAddress(context.Context, gringotts.Address) bool
}

// GetAddresses returns the addresses of all signing conditions.
func GetAddresses(ctx context.Context, auth Authenticator) []gringotts.Address {
	conds := auth.GetConditions(ctx)
	addrs := make([]gringotts.Address, len(conds))
	for i, c := range conds {
		addrs[i] = c.Address()
	}
	return addrs
}

// MainSigner returns the first signing condition, or nil for an unsigned
// message.
func MainSigner(ctx context.Context, auth Authenticator) gringotts.Condition {
	conds := auth.GetConditions(ctx)
	if len(conds) == 0 {
		return nil
	}
	return conds[0]
}
