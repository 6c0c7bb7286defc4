package sigs

import (
	"testing"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/crypto"
	"github.com/iov-one/gringotts/errors"
	"github.com/iov-one/gringotts/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTx(t testing.TB, increment uint32) *StdTx {
	t.Helper()
	tx, err := NewStdTx(&BumpSequenceMsg{Increment: increment})
	require.NoError(t, err)
	return tx
}

func TestSignBytes(t *testing.T) {
	tx := newTx(t, 1)
	tx2 := newTx(t, 2)

	bz, err := tx.GetSignBytes()
	require.NoError(t, err)
	bz2, err := tx2.GetSignBytes()
	require.NoError(t, err)
	assert.NotEqual(t, bz, bz2)

	// make sure sign bytes match tx
	chainID := "test-sign-bytes"
	c1, err := BuildSignBytesTx(tx, chainID, 17)
	require.NoError(t, err)
	c1a, err := BuildSignBytes(bz, chainID, 17)
	require.NoError(t, err)
	assert.Equal(t, c1, c1a)
	assert.NotEqual(t, bz, c1)

	// make sure sign bytes change on tx, chain_id and seq
	ct, err := BuildSignBytes(bz2, chainID, 17)
	require.NoError(t, err)
	assert.NotEqual(t, c1, ct)
	c2, err := BuildSignBytes(bz, chainID+"2", 17)
	require.NoError(t, err)
	assert.NotEqual(t, c1, c2)
	c3, err := BuildSignBytes(bz, chainID, 18)
	require.NoError(t, err)
	assert.NotEqual(t, c1, c3)

	_, err = BuildSignBytes(bz, chainID, -1)
	assert.True(t, ErrInvalidSequence.Is(err))
	_, err = BuildSignBytes(bz, "bad", 1)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestVerifySignature(t *testing.T) {
	kv := store.MemStore()
	priv := crypto.GenPrivKeyEd25519()
	pub := priv.PublicKey()
	cond := pub.Condition()

	chainID := "emo-music-2345"
	tx := newTx(t, 1)
	bz, err := tx.GetSignBytes()
	require.NoError(t, err)

	sig0, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig1, err := SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)
	sig2, err := SignTx(priv, tx, chainID, 2)
	require.NoError(t, err)
	sig13, err := SignTx(priv, tx, chainID, 13)
	require.NoError(t, err)
	empty := new(StdSignature)

	// signing should be deterministic
	sig2a, err := SignTx(priv, tx, chainID, 2)
	require.NoError(t, err)
	assert.Equal(t, sig2, sig2a)

	// the first one must start with sequence zero
	_, err = VerifySignature(kv, sig1, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	// empty sig
	_, err = VerifySignature(kv, empty, bz, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// must be proper chain
	_, err = VerifySignature(kv, sig0, bz, "foobar")
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// must be proper message
	_, err = VerifySignature(kv, sig0, []byte("other"), chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// now, the right one is okay
	got, err := VerifySignature(kv, sig0, bz, chainID)
	require.NoError(t, err)
	assert.Equal(t, cond, got)

	// replay fails
	_, err = VerifySignature(kv, sig0, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	// next sequence is accepted, skipping is not
	_, err = VerifySignature(kv, sig13, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))
	_, err = VerifySignature(kv, sig1, bz, chainID)
	require.NoError(t, err)

	nonce, err := NextNonce(kv, cond.Address())
	require.NoError(t, err)
	assert.Equal(t, int64(2), nonce)
}

func TestVerifyTxSignatures(t *testing.T) {
	kv := store.MemStore()
	priv := crypto.GenPrivKeyEd25519()
	priv2 := crypto.GenPrivKeyEd25519()
	chainID := "hot_summer_days"

	tx := newTx(t, 1)
	require.NoError(t, tx.Sign(priv, chainID, 0))
	require.NoError(t, tx.Sign(priv2, chainID, 0))

	signers, err := VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	require.Len(t, signers, 2)
	assert.Equal(t, priv.PublicKey().Condition(), signers[0])
	assert.Equal(t, priv2.PublicKey().Condition(), signers[1])

	// signing a different message with a valid signature fails
	other := newTx(t, 5)
	other.Signatures = tx.Signatures
	_, err = VerifyTxSignatures(kv, other, chainID)
	assert.Error(t, err)

	// no signatures is fine here, the decorator decides
	signers, err = VerifyTxSignatures(kv, newTx(t, 1), chainID)
	require.NoError(t, err)
	assert.Empty(t, signers)
}

func TestDecodeTx(t *testing.T) {
	tx := newTx(t, 3)
	require.NoError(t, tx.Sign(crypto.GenPrivKeyEd25519(), "decode-chain", 0))
	raw, err := tx.Marshal()
	require.NoError(t, err)

	codec := gringotts.NewMsgCodec()
	codec.Register(&BumpSequenceMsg{})
	got, err := DecodeTx(codec, raw)
	require.NoError(t, err)
	msg, err := got.GetMsg()
	require.NoError(t, err)
	assert.Equal(t, &BumpSequenceMsg{Increment: 3}, msg)
	assert.Len(t, got.GetSignatures(), 1)

	_, err = DecodeTx(codec, []byte("garbage"))
	assert.True(t, errors.ErrInput.Is(err))

	var undecoded StdTx
	_, err = undecoded.GetMsg()
	assert.True(t, errors.ErrState.Is(err))
}
