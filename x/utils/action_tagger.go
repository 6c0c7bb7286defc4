package utils

import (
	"context"

	"github.com/iov-one/gringotts"
)

// ActionTagger will inspect the message being executed and
// add a tag `path = msg.Path()`. Clients have a standard way to search or
// subscribe to, for example, proposal creation.
//
// Handlers tag their own "action", the path tag is the message route. Self
// calls are tagged too when the host routes them through the same chain.
type ActionTagger struct{}

var _ gringotts.Decorator = ActionTagger{}

// PathKey is used by ActionTagger as the Key in the Tag it appends
const PathKey = "path"

// NewActionTagger creates a ActionTagger decorator
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

// Check just passes the request along
func (ActionTagger) Check(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx, next gringotts.Checker) (*gringotts.CheckResult, error) {
	return next.Check(ctx, info, db, tx)
}

// Deliver appends a tag on the result if there is a success.
func (ActionTagger) Deliver(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx, next gringotts.Deliverer) (*gringotts.DeliverResult, error) {
	// if we error in reporting, let's do so early before dispatching
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, info, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tag(PathKey, msg.Path())
	return res, nil
}
