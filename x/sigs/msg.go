package sigs

import (
	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/errors"
)

const (
	maxSequenceIncrement = 1000
	minSequenceIncrement = 1
)

// BumpSequenceMsg increments the sequence of the signer, invalidating all
// transactions that were signed for the skipped sequences.
type BumpSequenceMsg struct {
	_         struct{} `cbor:",toarray"`
	Increment uint32   `yaml:"increment" json:"increment"`
}

var _ gringotts.Msg = (*BumpSequenceMsg)(nil)

func (BumpSequenceMsg) Path() string {
	return "sigs/bump_sequence"
}

func (msg *BumpSequenceMsg) Validate() error {
	if msg.Increment < minSequenceIncrement {
		return errors.Wrapf(errors.ErrMsg, "increment must be at least %d", minSequenceIncrement)
	}
	if msg.Increment > maxSequenceIncrement {
		return errors.Wrapf(errors.ErrMsg, "increment must not be greater than %d", maxSequenceIncrement)
	}
	return nil
}
