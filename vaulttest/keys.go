package vaulttest

import (
	"crypto/rand"
	"testing"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/crypto"
)

// NewKey returns a new random ed25519 key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the condition of a new random key.
func NewCondition() gringotts.Condition {
	return NewKey().PublicKey().Condition()
}

// RandomAddr returns a valid random address generated on the fly.
func RandomAddr(t testing.TB) gringotts.Address {
	t.Helper()
	raw := make([]byte, gringotts.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	a := gringotts.Address(raw)
	if err := a.Validate(); err != nil {
		t.Fatalf("generated address is not a valid address: %s", err)
	}
	return a
}

// ParseAddress takes an address in a human readable format and returns its
// binary representation.
func ParseAddress(t testing.TB, encodedAddress string) gringotts.Address {
	t.Helper()

	addr, err := gringotts.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
