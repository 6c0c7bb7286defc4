package vaulttest

import (
	"testing"
	"time"

	"github.com/iov-one/gringotts"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ChainID is used by all test block infos.
const ChainID = "vault-test"

// BlockInfo returns a block info for given height and time.
func BlockInfo(t testing.TB, height int64, now time.Time) gringotts.BlockInfo {
	t.Helper()
	info, err := gringotts.NewBlockInfo(abci.Header{Height: height, Time: now, ChainID: ChainID}, ChainID, nil)
	if err != nil {
		t.Fatalf("cannot create block info: %s", err)
	}
	return info
}

// UnixBlockInfo is like BlockInfo but takes the time as seconds since epoch.
func UnixBlockInfo(t testing.TB, height int64, unix int64) gringotts.BlockInfo {
	t.Helper()
	return BlockInfo(t, height, time.Unix(unix, 0).UTC())
}
