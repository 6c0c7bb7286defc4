package vaulttest

import (
	"context"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/coin"
)

// RewardQuerier is a mock of the external staking module reward query.
type RewardQuerier struct {
	// Rewards withdrawable by the vault, by validator.
	Rewards map[string]coin.Coin
	// Err if set is returned by every query.
	Err error
}

func (q *RewardQuerier) Reward(ctx context.Context, db gringotts.ReadOnlyKVStore, validator string) (coin.Coin, error) {
	if q.Err != nil {
		return coin.Coin{}, q.Err
	}
	return q.Rewards[validator], nil
}
