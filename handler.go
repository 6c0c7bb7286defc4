package gringotts

import (
	"context"

	"github.com/tendermint/tendermint/libs/common"
)

// Handler is a core engine that can process a few specific messages.
// This could represent "withdraw unlocked tokens", or "vote on a proposal".
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator
type Checker interface {
	Check(ctx context.Context, info BlockInfo, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator
type Deliverer interface {
	Deliver(ctx context.Context, info BlockInfo, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality
// like authentication, or a savepoint, to many Handlers
type Decorator interface {
	Check(ctx context.Context, info BlockInfo, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx context.Context, info BlockInfo, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry is an interface to register your handler,
// the setup side of a Router. The message is registered together with the
// handler so that the router can decode it.
type Registry interface {
	Handle(m Msg, h Handler)
}

// CheckResult captures any non-error abci result
// to make sure people use error for error cases
type CheckResult struct {
	// Data is a machine-parseable return value, like id of created entity
	Data []byte
	// Log is human-readable informational string
	Log string
}

// DeliverResult captures any non-error abci result
// to make sure people use error for error cases
type DeliverResult struct {
	// Data is a machine-parseable return value, like id of created entity
	Data []byte
	// Log is human-readable informational string
	Log string
	// Tags is used to index the command.
	Tags []common.KVPair
	// Dispatch is the ordered list of follow-up instructions the host
	// executes once the state change of this command is written.
	Dispatch []Instruction
}

// Tag appends a key value pair to the result tags.
func (d *DeliverResult) Tag(key, value string) {
	d.Tags = append(d.Tags, common.KVPair{Key: []byte(key), Value: []byte(value)})
}
