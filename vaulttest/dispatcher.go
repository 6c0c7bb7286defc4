package vaulttest

import (
	"context"

	"github.com/iov-one/gringotts"
)

// Dispatcher is a mock of the external module sink. It records every
// instruction it accepts.
type Dispatcher struct {
	Instructions []gringotts.Instruction

	// Err if set is returned for instructions of the FailKind kind, or
	// for all of them when FailKind is empty.
	Err      error
	FailKind string
}

func (d *Dispatcher) Dispatch(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, ins gringotts.Instruction) error {
	if d.Err != nil && (d.FailKind == "" || d.FailKind == ins.Kind()) {
		return d.Err
	}
	d.Instructions = append(d.Instructions, ins)
	return nil
}

// Kinds returns the kinds of all recorded instructions in order.
func (d *Dispatcher) Kinds() []string {
	kinds := make([]string, len(d.Instructions))
	for i, ins := range d.Instructions {
		kinds[i] = ins.Kind()
	}
	return kinds
}
