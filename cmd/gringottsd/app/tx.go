package app

import (
	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/app"
	"github.com/iov-one/gringotts/x/sigs"
)

// TxDecoder returns a decoder of signed transactions carrying messages
// known to given codec.
func TxDecoder(codec *gringotts.MsgCodec) app.TxDecoder {
	return func(raw []byte) (gringotts.Tx, error) {
		return sigs.DecodeTx(codec, raw)
	}
}
