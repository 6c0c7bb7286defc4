package vaulttest

import "github.com/iov-one/gringotts"

// Tx represents a vault transaction carrying a single message.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg gringotts.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ gringotts.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (gringotts.Msg, error) {
	return tx.Msg, tx.Err
}

// Msg represents a message routed by its path.
type Msg struct {
	_ struct{} `cbor:",toarray"`
	// RoutePath returned by the path method, consumed by the router.
	RoutePath string
	// Err if set is returned by the Validate method.
	Err error `cbor:"-"`
}

var _ gringotts.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}
