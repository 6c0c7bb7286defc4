package sigs

import (
	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/crypto"
	"github.com/iov-one/gringotts/errors"
	"github.com/iov-one/gringotts/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue is limited by the client. The greatest supported
// nonce value at client side is
//   Number.MAX_SAFE_INTEGER = 9007199254740991 = 2^53 - 1
const maxSequenceValue = (1 << 53) - 1

// UserData is the signature state of a single public key.
type UserData struct {
	_        struct{}          `cbor:",toarray"`
	Pubkey   *crypto.PublicKey `json:"pubkey"`
	Sequence int64             `json:"sequence"`
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Validate() error {
	var errs error
	if seq := u.Sequence; seq < 0 || seq > maxSequenceValue {
		errs = errors.AppendField(errs, "Sequence", ErrInvalidSequence)
	}
	errs = errors.AppendField(errs, "Pubkey", u.Pubkey.Validate())
	return errs
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
// Before incrementing the sequence, this function is testing for a value
// overflow.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	return u.increment(1)
}

func (u *UserData) increment(n int64) error {
	next := u.Sequence + n
	if next <= u.Sequence || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// NewBucket returns the bucket of user data, keyed by the public key
// address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &UserData{})
}

// RegisterQuery will register this bucket as "/auth"
func RegisterQuery(qr gringotts.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// loadOrCreate returns the stored user of given key or a new one with the
// zero sequence.
func loadOrCreate(db gringotts.ReadOnlyKVStore, b orm.ModelBucket, pubkey *crypto.PublicKey) (*UserData, error) {
	var u UserData
	switch err := b.One(db, pubkey.Address(), &u); {
	case err == nil:
		return &u, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{Pubkey: pubkey}, nil
	default:
		return nil, err
	}
}

// NextNonce returns the next numeric nonce value that should be used during a
// transaction signing.
// Any address can contain a nonce. In practice you always want to acquire a
// nonce for the signer. You can get the signers address by calling
//   address := <crypto.Signer>.PublicKey().Address()
func NextNonce(db gringotts.ReadOnlyKVStore, signer gringotts.Address) (int64, error) {
	var u UserData
	switch err := NewBucket().One(db, signer, &u); {
	case err == nil:
		return u.Sequence, nil
	case errors.ErrNotFound.Is(err):
		// If not yet present, nonce counting starts with zero.
		return 0, nil
	default:
		return 0, errors.Wrap(err, "bucket get")
	}
}
