package gov

import (
	"fmt"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/errors"
)

// Duration is a span of either blocks or seconds. There is no upper bound
// other than the configuration itself.
type Duration struct {
	_      struct{} `cbor:",toarray"`
	Height int64    `yaml:"height,omitempty" json:"height,omitempty"`
	Time   int64    `yaml:"time,omitempty" json:"time,omitempty"`
}

func (d Duration) Validate() error {
	switch {
	case d.Height < 0 || d.Time < 0:
		return errors.Wrap(errors.ErrInvalidConfiguration, "negative duration")
	case d.Height != 0 && d.Time != 0:
		return errors.Wrap(errors.ErrInvalidConfiguration, "duration must be either height or time")
	case d.Height == 0 && d.Time == 0:
		return errors.Wrap(errors.ErrInvalidConfiguration, "empty duration")
	}
	return nil
}

// After returns the expiration of a duration that starts at given block.
func (d Duration) After(info gringotts.BlockInfo) Expiration {
	if d.Height != 0 {
		return Expiration{AtHeight: info.Height() + d.Height}
	}
	return Expiration{AtTime: info.UnixTime() + gringotts.UnixTime(d.Time)}
}

// Expiration is a point in the chain history, given as a block height or a
// block time, after which a proposal cannot be voted on.
type Expiration struct {
	_        struct{}           `cbor:",toarray"`
	AtHeight int64              `json:"at_height,omitempty"`
	AtTime   gringotts.UnixTime `json:"at_time,omitempty"`
	Never    bool               `json:"never,omitempty"`
}

func (e Expiration) Validate() error {
	var set int
	if e.AtHeight != 0 {
		set++
	}
	if e.AtTime != 0 {
		set++
	}
	if e.Never {
		set++
	}
	if set != 1 {
		return errors.Wrap(errors.ErrState, "exactly one expiration kind must be set")
	}
	if e.AtHeight < 0 {
		return errors.Wrap(errors.ErrState, "negative height")
	}
	return e.AtTime.Validate()
}

// IsExpired returns true once the block at given height and time reached
// the expiration.
func (e Expiration) IsExpired(height int64, now gringotts.UnixTime) bool {
	switch {
	case e.Never:
		return false
	case e.AtHeight != 0:
		return height >= e.AtHeight
	default:
		return now >= e.AtTime
	}
}

func (e Expiration) String() string {
	switch {
	case e.Never:
		return "never"
	case e.AtHeight != 0:
		return fmt.Sprintf("height %d", e.AtHeight)
	default:
		return fmt.Sprintf("time %s", e.AtTime)
	}
}
