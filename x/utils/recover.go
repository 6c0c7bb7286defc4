package utils

import (
	"context"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ gringotts.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx, next gringotts.Checker) (_ *gringotts.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, info, db, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx, next gringotts.Deliverer) (_ *gringotts.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, info, db, tx)
}
