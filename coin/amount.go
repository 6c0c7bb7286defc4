package coin

import (
	"math/big"

	"github.com/fxamacker/cbor/v2"
	"github.com/holiman/uint256"
	"github.com/iov-one/gringotts/errors"
)

// Amount is an unsigned 256 bit integer quantity of tokens. All arithmetic
// is checked, an operation that would overflow or underflow returns an
// error instead.
//
// The zero value is ready to use and represents zero.
type Amount struct {
	v uint256.Int
}

// NewAmount returns an amount of given value.
func NewAmount(n uint64) Amount {
	var a Amount
	a.v.SetUint64(n)
	return a
}

// ParseAmount reads an amount from its decimal representation.
func ParseAmount(s string) (Amount, error) {
	var a Amount
	if err := a.v.SetFromDecimal(s); err != nil {
		return Amount{}, errors.Wrapf(errors.ErrAmount, "cannot parse %q: %s", s, err)
	}
	return a, nil
}

// MustParseAmount is like ParseAmount but panics on error. Use it only for
// constant values.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool {
	return a.v.IsZero()
}

// Cmp compares two amounts and returns -1, 0 or 1.
func (a Amount) Cmp(b Amount) int {
	return a.v.Cmp(&b.v)
}

// Equals returns true if both amounts represent the same value.
func (a Amount) Equals(b Amount) bool {
	return a.v.Eq(&b.v)
}

// LessThan returns true if a < b.
func (a Amount) LessThan(b Amount) bool {
	return a.v.Lt(&b.v)
}

// Add returns a + b or ErrOverflow.
func (a Amount) Add(b Amount) (Amount, error) {
	var res Amount
	if _, overflow := res.v.AddOverflow(&a.v, &b.v); overflow {
		return Amount{}, errors.Wrapf(errors.ErrOverflow, "%s + %s", a, b)
	}
	return res, nil
}

// Sub returns a - b or ErrOverflow if b is greater than a.
func (a Amount) Sub(b Amount) (Amount, error) {
	var res Amount
	if _, underflow := res.v.SubOverflow(&a.v, &b.v); underflow {
		return Amount{}, errors.Wrapf(errors.ErrOverflow, "%s - %s", a, b)
	}
	return res, nil
}

// Sum adds all given amounts.
func Sum(amounts ...Amount) (Amount, error) {
	var total Amount
	for _, a := range amounts {
		var err error
		if total, err = total.Add(a); err != nil {
			return Amount{}, err
		}
	}
	return total, nil
}

// Uint64 returns the amount as uint64 and false if it does not fit.
func (a Amount) Uint64() (uint64, bool) {
	return a.v.Uint64(), a.v.IsUint64()
}

// String returns the decimal representation.
func (a Amount) String() string {
	return a.v.Dec()
}

func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.v.Dec()), nil
}

func (a *Amount) UnmarshalText(raw []byte) error {
	v, err := ParseAmount(string(raw))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// MarshalCBOR encodes the amount as an unsigned integer, using a bignum only
// when the value does not fit 64 bits.
func (a Amount) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(a.v.ToBig())
}

func (a *Amount) UnmarshalCBOR(raw []byte) error {
	var b big.Int
	if err := cbor.Unmarshal(raw, &b); err != nil {
		return errors.Wrapf(errors.ErrAmount, "cannot decode: %s", err)
	}
	if b.Sign() < 0 {
		return errors.Wrap(errors.ErrAmount, "negative value")
	}
	v, overflow := uint256.FromBig(&b)
	if overflow {
		return errors.Wrap(errors.ErrOverflow, "amount does not fit 256 bits")
	}
	a.v = *v
	return nil
}
