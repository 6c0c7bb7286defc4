package vaulttest

import (
	"testing"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/store/badgerdb"
)

// CommitKVStore returns a store instance that is using a filesystem backend
// engine to store the data.
// This implementation should be used instead of MemStore when you want the
// exact same storage implementation as the production instance is using.
func CommitKVStore(t testing.TB) gringotts.CommitKVStore {
	t.Helper()
	db, err := badgerdb.Open(badgerdb.Options{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("cannot open the database: %s", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
