package utils

import (
	"context"
	"time"

	"github.com/iov-one/gringotts"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ gringotts.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> info, success -> debug
func (r Logging) Check(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx, next gringotts.Checker) (*gringotts.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, info, db, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(info, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx, next gringotts.Deliverer) (*gringotts.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, info, db, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(info, start, resLog, err, false)
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(info gringotts.BlockInfo, start time.Time, msg string, err error, lowPrio bool) {
	logger := info.Logger().With("duration", time.Since(start)/time.Microsecond)

	// Although message can be empty, we still want to emit a log entry
	// because it contains other relevant information beside the message.
	switch {
	case err != nil:
		logger.Error(msg, "err", err)
	case lowPrio:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
