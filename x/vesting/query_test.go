package vesting

import (
	"testing"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/coin"
	"github.com/iov-one/gringotts/errors"
	"github.com/iov-one/gringotts/vaulttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueries(t *testing.T) {
	f := newFixture(t, schedule(100, 10, 200, 20, 300, 30))
	qr := gringotts.NewQueryRouter()
	RegisterQuery(qr)

	h, mod := qr.Handler("/vesting")
	require.NotNil(t, h)
	res, err := h.Query(f.db, mod, nil)
	require.NoError(t, err)
	require.Len(t, res, 1)
	var tranche Tranche
	require.NoError(t, gringotts.Unmarshal(res[0].Value, &tranche))
	assert.Equal(t, f.unlock, tranche.UnlockedAddress)

	vested, mod := qr.Handler("/vesting/vested")
	require.NotNil(t, vested)

	// Without a processed block there is no current time.
	_, err = vested.Query(f.db, mod, nil)
	assert.True(t, errors.ErrNotFound.Is(err))

	require.NoError(t, gringotts.SaveLastBlock(f.db, vaulttest.UnixBlockInfo(t, 3, 250)))
	cases := map[string]struct {
		data []byte
		want uint64
	}{
		"as of the last block": {data: nil, want: 30},
		"as of given time":     {data: []byte("300"), want: 60},
		"before anything":      {data: []byte("99"), want: 0},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			res, err := vested.Query(f.db, mod, tc.data)
			require.NoError(t, err)
			require.Len(t, res, 1)
			var c coin.Coin
			require.NoError(t, gringotts.Unmarshal(res[0].Value, &c))
			assert.Equal(t, coin.NewCoin(tc.want, "usei"), c)
		})
	}

	_, err = vested.Query(f.db, mod, []byte("yesterday"))
	assert.True(t, errors.ErrInput.Is(err))
}
