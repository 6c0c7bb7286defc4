package vesting

import (
	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/coin"
	"github.com/iov-one/gringotts/errors"
)

// Schedule is the unlock plan as two parallel sequences: maturity times in
// strictly increasing order and the amount that matures at each of them.
// Entries are consumed from the front only.
type Schedule struct {
	_       struct{}             `cbor:",toarray"`
	Times   []gringotts.UnixTime `json:"times"`
	Amounts []coin.Amount        `json:"amounts"`
}

// Validate checks the invariants that must hold for a stored schedule. An
// empty schedule is valid.
func (s *Schedule) Validate() error {
	if len(s.Times) != len(s.Amounts) {
		return errors.Wrap(errors.ErrInvalidConfiguration, "mismatched vesting amounts and schedule")
	}
	for i, a := range s.Amounts {
		if a.IsZero() {
			return errors.Wrapf(errors.ErrInvalidConfiguration, "zero amount at entry %d", i)
		}
		if i > 0 && s.Times[i] <= s.Times[i-1] {
			return errors.Wrapf(errors.ErrInvalidConfiguration, "entry %d is not after the previous one", i)
		}
	}
	return nil
}

// Len returns the number of entries.
func (s *Schedule) Len() int {
	return len(s.Times)
}

// Total returns the sum of all entries, matured or not.
func (s *Schedule) Total() (coin.Amount, error) {
	return coin.Sum(s.Amounts...)
}

// TotalVestedAsOf returns the sum of all entries that matured at now.
func (s *Schedule) TotalVestedAsOf(now gringotts.UnixTime) (coin.Amount, error) {
	var vested coin.Amount
	for i, t := range s.Times {
		if t > now {
			break
		}
		var err error
		if vested, err = vested.Add(s.Amounts[i]); err != nil {
			return coin.Amount{}, err
		}
	}
	return vested, nil
}

// CollectVested spends requested amount of matured principal, oldest entry
// first. Entries consumed completely are removed, an entry consumed in part
// keeps the remainder at its maturity time. It fails with
// ErrInsufficientVested if less than requested has matured, in which case
// the schedule is not modified.
func (s *Schedule) CollectVested(now gringotts.UnixTime, requested coin.Amount) (coin.Amount, error) {
	if requested.IsZero() {
		return requested, nil
	}

	var vested coin.Amount
	for i, t := range s.Times {
		if t > now {
			break
		}
		var err error
		if vested, err = vested.Add(s.Amounts[i]); err != nil {
			return coin.Amount{}, err
		}
		switch vested.Cmp(requested) {
		case 0:
			s.consume(i+1, nil)
			return requested, nil
		case 1:
			rest, err := vested.Sub(requested)
			if err != nil {
				return coin.Amount{}, err
			}
			s.consume(i, &rest)
			return requested, nil
		}
	}
	return coin.Amount{}, errors.Wrapf(errors.ErrInsufficientVested, "requested %s, vested %s", requested, vested)
}

// consume drops the first n entries. If rest is given, it replaces the
// amount of the first remaining entry.
func (s *Schedule) consume(n int, rest *coin.Amount) {
	times := make([]gringotts.UnixTime, len(s.Times)-n)
	copy(times, s.Times[n:])
	amounts := make([]coin.Amount, len(s.Amounts)-n)
	copy(amounts, s.Amounts[n:])
	if rest != nil {
		amounts[0] = *rest
	}
	s.Times, s.Amounts = times, amounts
}

// EmergencyDrain removes every entry, matured or not, and returns their
// total.
func (s *Schedule) EmergencyDrain() (coin.Amount, error) {
	total, err := s.Total()
	if err != nil {
		return coin.Amount{}, err
	}
	s.Times, s.Amounts = []gringotts.UnixTime{}, []coin.Amount{}
	return total, nil
}
