package app

import (
	"context"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/errors"
	"github.com/iov-one/gringotts/orm"
)

// OutboxEntry is an instruction accepted for the external modules. The
// relayer that connects the vault to the bank and the staking module reads
// the entries in the order of their keys.
type OutboxEntry struct {
	_           struct{}              `cbor:",toarray"`
	Height      int64                 `json:"height"`
	Time        gringotts.UnixTime    `json:"time"`
	Instruction gringotts.Instruction `json:"instruction"`
}

var _ orm.Model = (*OutboxEntry)(nil)

func (e *OutboxEntry) Validate() error {
	var errs error
	if e.Height < 0 {
		errs = errors.AppendField(errs, "Height", errors.ErrInput)
	}
	errs = errors.AppendField(errs, "Time", e.Time.Validate())
	errs = errors.AppendField(errs, "Instruction", e.Instruction.Validate())
	return errs
}

// Outbox is a Dispatcher that records instructions in the state. Self-calls
// are executed by the host and never reach it.
type Outbox struct {
	bucket orm.ModelBucket
}

var _ gringotts.Dispatcher = (*Outbox)(nil)

// NewOutbox returns an outbox with keys assigned by an auto incremented
// sequence.
func NewOutbox() *Outbox {
	return &Outbox{
		bucket: orm.NewModelBucket("outbox", &OutboxEntry{},
			orm.WithIDSequence(orm.NewSequence("outbox", "id"))),
	}
}

func (o *Outbox) Dispatch(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, ins gringotts.Instruction) error {
	if ins.SelfCall != nil {
		return errors.Wrap(errors.ErrState, "self call cannot leave the vault")
	}
	entry := OutboxEntry{
		Height:      info.Height(),
		Time:        info.UnixTime(),
		Instruction: ins,
	}
	if _, err := o.bucket.Put(db, nil, &entry); err != nil {
		return errors.Wrap(err, "outbox")
	}
	return nil
}

// Entries returns all recorded entries in the order they were dispatched.
func (o *Outbox) Entries(db gringotts.ReadOnlyKVStore) ([]*OutboxEntry, error) {
	var entries []*OutboxEntry
	if _, err := o.bucket.ByPrefix(db, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// RegisterQuery exposes the outbox under "/outbox".
func (o *Outbox) RegisterQuery(qr gringotts.QueryRouter) {
	o.bucket.Register("outbox", qr)
}

// MultiDispatcher passes every instruction to all dispatchers in the order
// given, stopping at the first failure.
type MultiDispatcher []gringotts.Dispatcher

var _ gringotts.Dispatcher = MultiDispatcher(nil)

func (m MultiDispatcher) Dispatch(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, ins gringotts.Instruction) error {
	for _, d := range m {
		if err := d.Dispatch(ctx, info, db, ins); err != nil {
			return err
		}
	}
	return nil
}
