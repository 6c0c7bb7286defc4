package gringotts

import (
	"reflect"
	"regexp"

	"github.com/iov-one/gringotts/errors"
)

// isPath checks a message path of the format "extension/name", for example
// "gov/vote" or "vesting/withdraw_unlocked".
var isPath = regexp.MustCompile(`^[a-z0-9_]+/[a-z0-9_]+$`).MatchString

// Msg is a command that can be routed to a handler.
type Msg interface {
	// Path returns the path the message should be routed to. It must be
	// unique per message type.
	Path() string

	// Validate performs a stateless check of the message content.
	Validate() error
}

// Tx represent the data sent from the user to the chain. It contains exactly
// one message, everything else is authentication data used by decorators.
type Tx interface {
	// GetMsg returns the single message instance that is transported by
	// this transaction.
	GetMsg() (Msg, error)
}

// LoadMsg extracts the message represented by given transaction into given
// destination. Before returning the message, it is validated.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return err
	}
	if msg == nil {
		return errors.Wrap(errors.ErrState, "nil message")
	}
	dest := reflect.ValueOf(destination)
	if dest.Kind() != reflect.Ptr {
		return errors.Wrap(errors.ErrType, "destination must be a pointer")
	}
	src := reflect.ValueOf(msg)
	// Messages are pointers, destination can be either a pointer to the
	// message pointer or a pointer to the message value.
	if !src.Type().AssignableTo(dest.Elem().Type()) {
		if src.Kind() != reflect.Ptr || !src.Elem().Type().AssignableTo(dest.Elem().Type()) {
			return errors.Wrapf(errors.ErrType, "cannot load %T into %T", msg, destination)
		}
		src = src.Elem()
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	dest.Elem().Set(src)
	return nil
}
