package roles

import (
	"context"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/errors"
)

const (
	tagAction = "action"
	tagMember = "member"
)

// RegisterRoutes registers the role table updates. Both are self-calls, the
// only way to reach them is an executed governance proposal.
func RegisterRoutes(r gringotts.Registry) {
	gate := NewGate()
	r.Handle(&InternalUpdateAdminMsg{}, &updateHandler{
		gate:  gate,
		table: AdminTable(),
		load: func(tx gringotts.Tx) (gringotts.Address, bool, error) {
			var msg InternalUpdateAdminMsg
			err := gringotts.LoadMsg(tx, &msg)
			return msg.Admin, msg.Remove, err
		},
	})
	r.Handle(&InternalUpdateOpMsg{}, &updateHandler{
		gate:  gate,
		table: OperatorTable(),
		load: func(tx gringotts.Tx) (gringotts.Address, bool, error) {
			var msg InternalUpdateOpMsg
			err := gringotts.LoadMsg(tx, &msg)
			return msg.Op, msg.Remove, err
		},
	})
}

type updateHandler struct {
	gate  *Gate
	table *Table
	load  func(gringotts.Tx) (gringotts.Address, bool, error)
}

var _ gringotts.Handler = (*updateHandler)(nil)

func (h *updateHandler) Check(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*gringotts.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &gringotts.CheckResult{}, nil
}

func (h *updateHandler) Deliver(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*gringotts.DeliverResult, error) {
	addr, remove, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	res := &gringotts.DeliverResult{}
	if remove {
		if err := h.table.Remove(db, addr); err != nil {
			return nil, err
		}
		res.Tag(tagAction, "remove_"+h.table.name)
	} else {
		if err := h.table.Add(db, addr); err != nil {
			return nil, err
		}
		res.Tag(tagAction, "add_"+h.table.name)
	}
	res.Tag(tagMember, addr.String())
	info.Logger().Debug("role table updated", "table", h.table.name, "member", addr, "remove", remove)
	return res, nil
}

func (h *updateHandler) validate(ctx context.Context, db gringotts.KVStore, tx gringotts.Tx) (gringotts.Address, bool, error) {
	if _, err := h.gate.RequireSelf(ctx, db); err != nil {
		return nil, false, err
	}
	addr, remove, err := h.load(tx)
	if err != nil {
		return nil, false, errors.Wrap(err, "load msg")
	}
	return addr, remove, nil
}
