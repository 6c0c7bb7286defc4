package crypto

import (
	"encoding/hex"
	"strings"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/errors"
	"golang.org/x/crypto/ed25519"
)

const privKeyTextPrefix = "ed25519:"

// PublicKey is an ed25519 public key.
type PublicKey struct {
	_       struct{} `cbor:",toarray"`
	Ed25519 []byte   `json:"ed25519"`
}

var _ Verifier = (*PublicKey)(nil)

// Validate returns an error if the key has an unexpected length.
func (p *PublicKey) Validate() error {
	if p == nil || len(p.Ed25519) == 0 {
		return errors.Wrap(errors.ErrEmpty, "public key")
	}
	if len(p.Ed25519) != ed25519.PublicKeySize {
		return errors.Wrapf(errors.ErrInput, "public key must be %d bytes", ed25519.PublicKeySize)
	}
	return nil
}

// Verify verifies the signature was created with this message and public key
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	if p.Validate() != nil || sig == nil || len(sig.Ed25519) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p.Ed25519), message, sig.Ed25519)
}

// Condition encodes the public key into a vault condition. An empty key has
// no condition.
func (p *PublicKey) Condition() gringotts.Condition {
	if p == nil || len(p.Ed25519) == 0 {
		return nil
	}
	return gringotts.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address returns the address of the key condition.
func (p *PublicKey) Address() gringotts.Address {
	c := p.Condition()
	if c == nil {
		return nil
	}
	return c.Address()
}

// Signature is an ed25519 signature.
type Signature struct {
	_       struct{} `cbor:",toarray"`
	Ed25519 []byte   `json:"ed25519"`
}

// PrivateKey is an ed25519 private key. It is never part of the state.
type PrivateKey struct {
	Ed25519 []byte
}

var _ Signer = (*PrivateKey)(nil)

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	if len(p.Ed25519) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInput, "invalid private key")
	}
	bz := ed25519.Sign(ed25519.PrivateKey(p.Ed25519), message)
	return &Signature{Ed25519: bz}, nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	privateKey := ed25519.PrivateKey(p.Ed25519)
	pub := privateKey.Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

// MarshalText returns "ed25519:<hex seed and public key>".
func (p *PrivateKey) MarshalText() ([]byte, error) {
	return []byte(privKeyTextPrefix + hex.EncodeToString(p.Ed25519)), nil
}

// UnmarshalText reads the format written by MarshalText.
func (p *PrivateKey) UnmarshalText(raw []byte) error {
	s := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(s, privKeyTextPrefix) {
		return errors.Wrap(errors.ErrInput, "unknown private key type")
	}
	bz, err := hex.DecodeString(strings.TrimPrefix(s, privKeyTextPrefix))
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "private key: %s", err)
	}
	if len(bz) != ed25519.PrivateKeySize {
		return errors.Wrapf(errors.ErrInput, "private key must be %d bytes", ed25519.PrivateKeySize)
	}
	p.Ed25519 = bz
	return nil
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	priv := ed25519.NewKeyFromSeed(seed)
	return &PrivateKey{Ed25519: priv}
}
