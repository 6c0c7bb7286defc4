package gringotts

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/iov-one/gringotts/crypto/bech32"
	"github.com/iov-one/gringotts/errors"
)

const (
	// AddressLength is the length of all addresses.
	AddressLength = 20

	// AddressPrefix is the human readable part of the bech32 representation
	// of an address.
	AddressPrefix = "vlt"
)

// it must have (?s) flags, otherwise it errors when last section contains 0x20 (newline)
var perm = regexp.MustCompile(`(?s)^([a-zA-Z0-9_\-]{3,8})/([a-zA-Z0-9_\-]{3,8})/(.+)$`)

// Condition is a specially formatted array, containing
// information on who can authorize an action.
// It is of the format:
//
//   sprintf("%s/%s/%s", extension, type, data)
type Condition []byte

func NewCondition(ext, typ string, data []byte) Condition {
	pre := fmt.Sprintf("%s/%s/", ext, typ)
	return append([]byte(pre), data...)
}

// Parse will extract the sections from the Condition bytes
// and verify it is properly formatted
func (c Condition) Parse() (string, string, []byte, error) {
	chunks := perm.FindSubmatch(c)
	if len(chunks) == 0 {
		return "", "", nil, errors.ErrInput.Newf("condition: %X", []byte(c))
	}
	return string(chunks[1]), string(chunks[2]), chunks[3], nil
}

// Address will convert a Condition into an Address
func (c Condition) Address() Address {
	h := sha256.Sum256(c)
	return Address(h[:AddressLength])
}

// Equals checks if two permissions are the same
func (c Condition) Equals(b Condition) bool {
	return bytes.Equal(c, b)
}

// String returns a human readable string.
// We keep the extension and type in ascii and
// hex-encode the binary data
func (c Condition) String() string {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return fmt.Sprintf("Invalid Condition: %X", []byte(c))
	}
	return fmt.Sprintf("%s/%s/%X", ext, typ, data)
}

// Validate returns an error if the Condition is not the proper format
func (c Condition) Validate() error {
	if !perm.Match(c) {
		return errors.ErrInput.Newf("condition: %X", []byte(c))
	}
	return nil
}

// Address is the principal identifier of the vault. It is a collision-free,
// one-way digest of a Condition, or any other 20 bytes given in the genesis.
//
// Addresses are totally ordered by their byte representation.
type Address []byte

// Equals checks if two addresses are the same
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// Compare returns -1, 0 or 1 comparing byte representation of two addresses.
func (a Address) Compare(b Address) int {
	return bytes.Compare(a, b)
}

// Clone returns a copy that does not share the underlying array.
func (a Address) Clone() Address {
	if a == nil {
		return nil
	}
	return append(Address(nil), a...)
}

// Validate returns an error if the address is not the proper length.
func (a Address) Validate() error {
	if len(a) == 0 {
		return errors.ErrEmpty
	}
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInput, "address: invalid length %d", len(a))
	}
	return nil
}

// String returns the bech32 representation of the address.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	enc, err := bech32.Encode(AddressPrefix, a)
	if err != nil {
		return strings.ToUpper(hex.EncodeToString(a))
	}
	return string(enc)
}

// MarshalText returns the bech32 representation. It is used by YAML and JSON
// encoders.
func (a Address) MarshalText() ([]byte, error) {
	if len(a) == 0 {
		return []byte{}, nil
	}
	return []byte(a.String()), nil
}

// UnmarshalText accepts the formats understood by ParseAddress.
func (a *Address) UnmarshalText(raw []byte) error {
	if len(raw) == 0 {
		*a = nil
		return nil
	}
	addr, err := ParseAddress(string(raw))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ParseAddress decodes an address from its bech32 representation, from a
// hex string or from a condition when prefixed with "cond:".
func ParseAddress(s string) (Address, error) {
	if strings.HasPrefix(s, "cond:") {
		cond, err := parseCondition(strings.TrimPrefix(s, "cond:"))
		if err != nil {
			return nil, err
		}
		return cond.Address(), nil
	}
	if strings.HasPrefix(s, AddressPrefix+"1") {
		raw, err := bech32.DecodePrefixed(AddressPrefix, s)
		if err != nil {
			return nil, errors.Wrap(err, "deserialize address")
		}
		addr := Address(raw)
		return addr, addr.Validate()
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "address is neither bech32 nor hex")
	}
	addr := Address(raw)
	return addr, addr.Validate()
}

// MustParseAddress is like ParseAddress but panics on error. Use it only
// with constant values.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

func parseCondition(source string) (Condition, error) {
	args := strings.Split(source, "/")
	if len(args) != 3 {
		return nil, errors.ErrInput.Newf("invalid condition format")
	}
	data, err := hex.DecodeString(args[2])
	if err != nil {
		return nil, errors.ErrInput.Newf("malformed condition data: %s", err)
	}
	c := NewCondition(args[0], args[1], data)
	return c, c.Validate()
}
