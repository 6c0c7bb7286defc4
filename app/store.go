package app

import (
	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/errors"
)

// CommitStore handles loading from a CommitKVStore, maintaining different
// CacheWraps for Deliver and Check, and returning useful state info.
type CommitStore struct {
	committed gringotts.CommitKVStore
	deliver   gringotts.KVCacheWrap
	check     gringotts.KVCacheWrap
}

// NewCommitStore loads the CommitKVStore from disk. It sets up the
// deliver and check caches.
func NewCommitStore(store gringotts.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	return &CommitStore{
		committed: store,
		deliver:   store.CacheWrap(),
		check:     store.CacheWrap(),
	}, nil
}

// CommitInfo returns the current height and hash
func (cs *CommitStore) CommitInfo() (gringotts.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit will flush deliver to the underlying store and commit it
// to disk. It then regenerates new deliver/check caches
func (cs *CommitStore) Commit() (gringotts.CommitID, error) {
	// flush deliver to store and discard check
	if err := cs.deliver.Write(); err != nil {
		return gringotts.CommitID{}, err
	}
	cs.check.Discard()

	// write the store to disk
	res, err := cs.committed.Commit()
	if err != nil {
		return res, err
	}

	// set up new caches
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
	return res, nil
}

// CheckStore returns a store implementation that must be used during the
// checking phase.
func (cs *CommitStore) CheckStore() gringotts.CacheableKVStore {
	return cs.check
}

// DeliverStore returns a store implementation that must be used during the
// delivery phase.
func (cs *CommitStore) DeliverStore() gringotts.CacheableKVStore {
	return cs.deliver
}

// QueryStore returns a read only view of the committed state.
func (cs *CommitStore) QueryStore() gringotts.ReadOnlyKVStore {
	return cs.committed.CacheWrap()
}

// Close releases the underlying store.
func (cs *CommitStore) Close() error {
	cs.check.Discard()
	cs.deliver.Discard()
	return cs.committed.Close()
}

// _gr: is a prefix for host internal data
const chainIDKey = "_gr:chainID"

// loadChainID returns the chain id stored if any
func loadChainID(kv gringotts.ReadOnlyKVStore) (string, error) {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return string(v), nil
}

// saveChainID stores a chain id in the kv store.
// Returns error if already set, or invalid name
func saveChainID(kv gringotts.KVStore, chainID string) error {
	if !gringotts.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	k := []byte(chainIDKey)
	exists, err := kv.Has(k)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if exists {
		return errors.Wrap(errors.ErrUnauthorized, "can't modify chain id after genesis init")
	}
	if err := kv.Set(k, []byte(chainID)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
