package crypto

import (
	"github.com/iov-one/gringotts"
)

// ExtensionName is used for the Conditions we get from signatures
const ExtensionName = "sigs"

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// Verifier is the functionality we use from a public key.
type Verifier interface {
	Verify(message []byte, sig *Signature) bool
	Condition() gringotts.Condition
}
