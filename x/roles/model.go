package roles

import (
	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/errors"
	"github.com/iov-one/gringotts/gconf"
	"github.com/iov-one/gringotts/orm"
)

const (
	adminBucket    = "admins"
	operatorBucket = "ops"

	// PkgName is the name of the configuration of this extension.
	PkgName = "roles"
)

// Member is the presence marker of a role table.
type Member struct {
	_       struct{}          `cbor:",toarray"`
	Address gringotts.Address `json:"address"`
}

var _ orm.Model = (*Member)(nil)

func (m *Member) Validate() error {
	return errors.Field("Address", m.Address.Validate(), "")
}

// Table is a set of addresses. Members are keyed by their address so that
// enumeration follows the byte order of addresses.
type Table struct {
	name string
	b    orm.ModelBucket
}

// AdminTable returns the table of administrators.
func AdminTable() *Table {
	return &Table{name: "admin", b: orm.NewModelBucket(adminBucket, &Member{})}
}

// OperatorTable returns the table of operators.
func OperatorTable() *Table {
	return &Table{name: "operator", b: orm.NewModelBucket(operatorBucket, &Member{})}
}

// Has returns true if given address is a member.
func (t *Table) Has(db gringotts.ReadOnlyKVStore, addr gringotts.Address) (bool, error) {
	if len(addr) == 0 {
		return false, nil
	}
	switch err := t.b.Has(db, addr); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

// Add inserts given address. Adding a member twice has no effect.
func (t *Table) Add(db gringotts.KVStore, addr gringotts.Address) error {
	if _, err := t.b.Put(db, addr, &Member{Address: addr}); err != nil {
		return errors.Wrapf(err, "cannot add %s", t.name)
	}
	return nil
}

// Remove deletes given address. Removing an address that is not a member
// has no effect. A table cannot become empty, removing the last member
// fails.
func (t *Table) Remove(db gringotts.KVStore, addr gringotts.Address) error {
	ok, err := t.Has(db, addr)
	if err != nil || !ok {
		return err
	}
	n, err := t.Count(db)
	if err != nil {
		return err
	}
	if n <= 1 {
		return errors.Wrapf(errors.ErrInvalidConfiguration, "cannot remove the last %s", t.name)
	}
	return t.b.Delete(db, addr)
}

// Members returns all addresses in byte order.
func (t *Table) Members(db gringotts.ReadOnlyKVStore) ([]gringotts.Address, error) {
	var members []*Member
	if _, err := t.b.ByPrefix(db, nil, &members); err != nil {
		return nil, errors.Wrapf(err, "cannot list %s", t.name)
	}
	addrs := make([]gringotts.Address, len(members))
	for i, m := range members {
		addrs[i] = m.Address
	}
	return addrs, nil
}

// Count returns the number of members.
func (t *Table) Count(db gringotts.ReadOnlyKVStore) (int, error) {
	m, err := t.Members(db)
	return len(m), err
}

// IsAdmin returns true if given address is an administrator.
func IsAdmin(db gringotts.ReadOnlyKVStore, addr gringotts.Address) (bool, error) {
	return AdminTable().Has(db, addr)
}

// IsOperator returns true if given address is an operator.
func IsOperator(db gringotts.ReadOnlyKVStore, addr gringotts.Address) (bool, error) {
	return OperatorTable().Has(db, addr)
}

// Admins returns all administrators in byte order.
func Admins(db gringotts.ReadOnlyKVStore) ([]gringotts.Address, error) {
	return AdminTable().Members(db)
}

// Operators returns all operators in byte order.
func Operators(db gringotts.ReadOnlyKVStore) ([]gringotts.Address, error) {
	return OperatorTable().Members(db)
}

// Configuration holds the identity of the vault.
type Configuration struct {
	_           struct{}          `cbor:",toarray"`
	SelfAddress gringotts.Address `yaml:"self_address" json:"self_address"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	return errors.Field("SelfAddress", c.SelfAddress.Validate(), "")
}

// DefaultSelfAddress returns the vault identity used when genesis does not
// declare one. It is derived from a condition no key can fulfil.
func DefaultSelfAddress(chainID string) gringotts.Address {
	return gringotts.NewCondition("roles", "self", []byte(chainID)).Address()
}

// LoadSelfAddress returns the configured vault identity.
func LoadSelfAddress(db gringotts.ReadOnlyKVStore) (gringotts.Address, error) {
	var conf Configuration
	if err := gconf.Load(db, PkgName, &conf); err != nil {
		return nil, errors.Wrap(err, "load roles configuration")
	}
	return conf.SelfAddress, nil
}

// RegisterQuery registers role tables under /admins and /ops.
func RegisterQuery(qr gringotts.QueryRouter) {
	AdminTable().b.Register(adminBucket, qr)
	OperatorTable().b.Register(operatorBucket, qr)
}
