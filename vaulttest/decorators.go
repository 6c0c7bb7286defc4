package vaulttest

import (
	"context"

	"github.com/iov-one/gringotts"
)

// Decorator is a mock implementation of the gringotts.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding method.
// If error attributes are not set then wrapped handler method is called and
// its result returned.
// Each method call is counted. Regardless of the method call result the
// counter is incremented.
type Decorator struct {
	checkCall int
	// CheckErr if set is returned by the Check method before calling
	// the wrapped handler.
	CheckErr error

	deliverCall int
	// DeliverErr if set is returned by the Deliver method before calling
	// the wrapped handler.
	DeliverErr error
}

var _ gringotts.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx, next gringotts.Checker) (*gringotts.CheckResult, error) {
	d.checkCall++

	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, info, db, tx)
}

func (d *Decorator) Deliver(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx, next gringotts.Deliverer) (*gringotts.DeliverResult, error) {
	d.deliverCall++

	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, info, db, tx)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}

// Decorate returns a handler that calls given decorator before the handler.
func Decorate(h gringotts.Handler, d gringotts.Decorator) gringotts.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn gringotts.Handler
	dc gringotts.Decorator
}

var _ gringotts.Handler = (*decoratedHandler)(nil)

func (d *decoratedHandler) Check(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*gringotts.CheckResult, error) {
	return d.dc.Check(ctx, info, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*gringotts.DeliverResult, error) {
	return d.dc.Deliver(ctx, info, db, tx, d.hn)
}
