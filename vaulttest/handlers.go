package vaulttest

import (
	"context"

	"github.com/iov-one/gringotts"
)

// Handler is a mock implementation of the gringotts.Handler interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding
// method. Each method call is counted.
type Handler struct {
	checkCall   int
	CheckResult gringotts.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult gringotts.DeliverResult
	DeliverErr    error

	// Write if set is stored in the database by each successful call,
	// under its key.
	Write *gringotts.Model
}

var _ gringotts.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*gringotts.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*gringotts.DeliverResult, error) {
	h.deliverCall++
	if h.Write != nil {
		if err := db.Set(h.Write.Key, h.Write.Value); err != nil {
			return nil, err
		}
	}
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// PanicHandler panics with given value on every call.
type PanicHandler struct {
	Value interface{}
}

var _ gringotts.Handler = PanicHandler{}

func (p PanicHandler) Check(context.Context, gringotts.BlockInfo, gringotts.KVStore, gringotts.Tx) (*gringotts.CheckResult, error) {
	panic(p.Value)
}

func (p PanicHandler) Deliver(context.Context, gringotts.BlockInfo, gringotts.KVStore, gringotts.Tx) (*gringotts.DeliverResult, error) {
	panic(p.Value)
}
