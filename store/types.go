//nolint
package store

import "github.com/iov-one/gringotts"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = gringotts.ReadOnlyKVStore
type SetDeleter = gringotts.SetDeleter
type KVStore = gringotts.KVStore
type Batch = gringotts.Batch
type Iterator = gringotts.Iterator
type CacheableKVStore = gringotts.CacheableKVStore
type KVCacheWrap = gringotts.KVCacheWrap
type CommitKVStore = gringotts.CommitKVStore
type CommitID = gringotts.CommitID
type Model = gringotts.Model
