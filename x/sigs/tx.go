package sigs

import (
	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/crypto"
	"github.com/iov-one/gringotts/errors"
)

// SignedTx represents a transaction that contains signatures,
// which can be verified by the Decorator
type SignedTx interface {
	gringotts.Tx

	// GetSignBytes returns the canonical byte representation of the Msg.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signature of signers who signed the Msg.
	GetSignatures() []*StdSignature
}

// StdSignature is a signature of a transaction together with the key that
// created it and the sequence it was created for.
type StdSignature struct {
	_         struct{}          `cbor:",toarray"`
	Pubkey    *crypto.PublicKey `json:"pubkey"`
	Signature *crypto.Signature `json:"signature"`
	Sequence  int64             `json:"sequence"`
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if s.Pubkey == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if err := s.Pubkey.Validate(); err != nil {
		return errors.Wrap(errors.ErrUnauthorized, err.Error())
	}
	if s.Signature == nil || len(s.Signature.Ed25519) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

// StdTx is a transaction carrying a single message envelope and the
// signatures of that envelope.
type StdTx struct {
	_          struct{}           `cbor:",toarray"`
	Msg        gringotts.Envelope `json:"msg"`
	Signatures []*StdSignature    `json:"signatures"`

	msg gringotts.Msg
}

var _ SignedTx = (*StdTx)(nil)

// NewStdTx wraps given message into an unsigned transaction.
func NewStdTx(m gringotts.Msg) (*StdTx, error) {
	env, err := gringotts.WrapMsg(m)
	if err != nil {
		return nil, err
	}
	return &StdTx{Msg: env, msg: m}, nil
}

// DecodeTx reads a transaction and decodes its message using given codec.
func DecodeTx(codec *gringotts.MsgCodec, raw []byte) (*StdTx, error) {
	var tx StdTx
	if err := gringotts.Unmarshal(raw, &tx); err != nil {
		return nil, errors.Wrap(err, "transaction")
	}
	msg, err := codec.Unwrap(tx.Msg)
	if err != nil {
		return nil, err
	}
	tx.msg = msg
	return &tx, nil
}

// GetMsg returns the decoded message of the transaction.
func (tx *StdTx) GetMsg() (gringotts.Msg, error) {
	if tx.msg == nil {
		return nil, errors.Wrap(errors.ErrState, "message not decoded")
	}
	return tx.msg, nil
}

// GetSignBytes returns the serialized envelope. The signature covers both
// the message path and its body.
func (tx *StdTx) GetSignBytes() ([]byte, error) {
	return gringotts.Marshal(tx.Msg)
}

func (tx *StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

// Sign appends a signature of given signer for given sequence.
func (tx *StdTx) Sign(signer crypto.Signer, chainID string, seq int64) error {
	sig, err := SignTx(signer, tx, chainID, seq)
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}

// Marshal returns the binary representation of the transaction.
func (tx *StdTx) Marshal() ([]byte, error) {
	return gringotts.Marshal(tx)
}
