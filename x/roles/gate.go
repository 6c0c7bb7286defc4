package roles

import (
	"context"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/errors"
	"github.com/iov-one/gringotts/x"
)

// Gate authorizes the caller of a message. Each check returns the address of
// the authorized principal or an ErrUnauthorized error. A failed storage
// read is never treated as a granted permission.
type Gate struct {
	admins *Table
	ops    *Table
}

// NewGate returns a gate reading the role tables of this package.
func NewGate() *Gate {
	return &Gate{admins: AdminTable(), ops: OperatorTable()}
}

// RequireAdmin returns the first signer that is an administrator.
func (g *Gate) RequireAdmin(ctx context.Context, auth x.Authenticator, db gringotts.ReadOnlyKVStore) (gringotts.Address, error) {
	return requireMember(ctx, auth, db, g.admins)
}

// RequireOperator returns the first signer that is an operator.
func (g *Gate) RequireOperator(ctx context.Context, auth x.Authenticator, db gringotts.ReadOnlyKVStore) (gringotts.Address, error) {
	return requireMember(ctx, auth, db, g.ops)
}

// RequireSelf succeeds only if the message is executed by the host as a
// self-call. Signatures never satisfy it, not even one whose address
// equals the configured self address.
func (g *Gate) RequireSelf(ctx context.Context, db gringotts.ReadOnlyKVStore) (gringotts.Address, error) {
	self, err := LoadSelfAddress(db)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "no vault identity: %s", err)
	}
	if !(x.SelfAuth{}).HasAddress(ctx, self) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "self-call required")
	}
	return self, nil
}

func requireMember(ctx context.Context, auth x.Authenticator, db gringotts.ReadOnlyKVStore, t *Table) (gringotts.Address, error) {
	for _, addr := range x.GetAddresses(ctx, auth) {
		ok, err := t.Has(db, addr)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrUnauthorized, "%s lookup: %s", t.name, err)
		}
		if ok {
			return addr, nil
		}
	}
	return nil, errors.Wrapf(errors.ErrUnauthorized, "%s required", t.name)
}
