package vesting

import (
	"strconv"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/errors"
)

// RegisterQuery registers the ledger queries:
//
//	/vesting         the tranche
//	/vesting/vested  matured and not withdrawn principal as of the last
//	                 block, or as of the unix time given as query data
func RegisterQuery(qr gringotts.QueryRouter) {
	b := NewBucket()
	qr.Register("/vesting", gringotts.QueryFunc(func(db gringotts.ReadOnlyKVStore, mod string, data []byte) ([]gringotts.Model, error) {
		if mod != gringotts.KeyQueryMod {
			return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
		}
		return b.Query(db, mod, trancheKey)
	}))
	qr.Register("/vesting/vested", gringotts.QueryFunc(func(db gringotts.ReadOnlyKVStore, mod string, data []byte) ([]gringotts.Model, error) {
		now, err := queryTime(db, data)
		if err != nil {
			return nil, err
		}
		tranche, err := b.Load(db)
		if err != nil {
			return nil, err
		}
		vested, err := tranche.Schedule.TotalVestedAsOf(now)
		if err != nil {
			return nil, err
		}
		raw, err := gringotts.Marshal(tranche.Coin(vested))
		if err != nil {
			return nil, err
		}
		return []gringotts.Model{gringotts.Pair([]byte("vested"), raw)}, nil
	}))
}

func queryTime(db gringotts.ReadOnlyKVStore, data []byte) (gringotts.UnixTime, error) {
	if len(data) != 0 {
		n, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return 0, errors.Wrapf(errors.ErrInput, "time %q", data)
		}
		return gringotts.UnixTime(n), nil
	}
	_, now, err := gringotts.LastBlock(db)
	return now, err
}
