package roles

import (
	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/errors"
)

// InternalUpdateAdminMsg adds or removes an administrator. It is accepted
// only as a self-call.
type InternalUpdateAdminMsg struct {
	_      struct{}          `cbor:",toarray"`
	Admin  gringotts.Address `yaml:"admin" json:"admin"`
	Remove bool              `yaml:"remove" json:"remove"`
}

var _ gringotts.Msg = (*InternalUpdateAdminMsg)(nil)

func (InternalUpdateAdminMsg) Path() string {
	return "roles/internal_update_admin"
}

func (m *InternalUpdateAdminMsg) Validate() error {
	return errors.Field("Admin", m.Admin.Validate(), "")
}

// InternalUpdateOpMsg adds or removes an operator. It is accepted only as
// a self-call.
type InternalUpdateOpMsg struct {
	_      struct{}          `cbor:",toarray"`
	Op     gringotts.Address `yaml:"op" json:"op"`
	Remove bool              `yaml:"remove" json:"remove"`
}

var _ gringotts.Msg = (*InternalUpdateOpMsg)(nil)

func (InternalUpdateOpMsg) Path() string {
	return "roles/internal_update_op"
}

func (m *InternalUpdateOpMsg) Validate() error {
	return errors.Field("Op", m.Op.Validate(), "")
}

// RegisterCodec registers the messages of this package.
func RegisterCodec(c *gringotts.MsgCodec) {
	c.Register(&InternalUpdateAdminMsg{})
	c.Register(&InternalUpdateOpMsg{})
}
