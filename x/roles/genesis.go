package roles

import (
	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/errors"
	"github.com/iov-one/gringotts/gconf"
)

// Initializer fulfils the gringotts.Initializer interface to load the role
// tables from the genesis file.
type Initializer struct{}

var _ gringotts.Initializer = (*Initializer)(nil)

// FromGenesis reads the "roles" section:
//
//	roles:
//	  admins: [<address>, ...]
//	  ops: [<address>, ...]
//	  self_address: <address>   # optional
func (*Initializer) FromGenesis(opts gringotts.Options, info gringotts.BlockInfo, db gringotts.KVStore) error {
	var genesis struct {
		Admins      []gringotts.Address `yaml:"admins"`
		Ops         []gringotts.Address `yaml:"ops"`
		SelfAddress gringotts.Address   `yaml:"self_address"`
	}
	if err := opts.ReadOptions("roles", &genesis); err != nil {
		return err
	}
	if len(genesis.Admins) == 0 {
		return errors.Wrap(errors.ErrInvalidConfiguration, "no admins")
	}
	if len(genesis.Ops) == 0 {
		return errors.Wrap(errors.ErrInvalidConfiguration, "no operators")
	}

	self := genesis.SelfAddress
	if len(self) == 0 {
		self = DefaultSelfAddress(info.ChainID())
	}
	if err := gconf.Save(db, PkgName, &Configuration{SelfAddress: self}); err != nil {
		return errors.Wrap(err, "save configuration")
	}

	if err := addMembers(db, AdminTable(), genesis.Admins, self); err != nil {
		return err
	}
	return addMembers(db, OperatorTable(), genesis.Ops, self)
}

func addMembers(db gringotts.KVStore, t *Table, addrs []gringotts.Address, self gringotts.Address) error {
	for i, a := range addrs {
		if a.Equals(self) {
			return errors.Wrapf(errors.ErrInvalidConfiguration, "%s #%d is the vault address", t.name, i)
		}
		if err := t.Add(db, a); err != nil {
			return errors.Wrapf(err, "%s #%d", t.name, i)
		}
	}
	return nil
}
