/*
Package badgerdb provides a persistent CommitKVStore on top of badger.

All application keys are stored under a data prefix. The version and the
root hash of the latest commit are stored under a separate meta prefix, so
they never show up in application iterators.
*/
package badgerdb

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/errors"
	"github.com/iov-one/gringotts/store"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	dataPrefix = []byte("d/")
	commitKey  = []byte("m/commit")
)

// Options configure a Store.
type Options struct {
	// Dir is the data directory. An empty value keeps everything in
	// memory.
	Dir string
	// Logger receives badger warnings and errors.
	Logger log.Logger
}

// Store is a CommitKVStore backed by badger.
//
// CacheWrap returns a btree cache over the committed data. Writing the
// cache applies all its operations to badger in a single transaction and
// records them in the running commit hash. Commit seals the operations
// written since the previous commit as a new version.
type Store struct {
	db      *badger.DB
	logger  log.Logger
	latest  gringotts.CommitID
	pending []byte // running digest of ops written since the last commit
}

var _ gringotts.CommitKVStore = (*Store)(nil)

// Open opens or creates a store.
func Open(opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	var bopts badger.Options
	if opts.Dir == "" {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, errors.Wrapf(errors.ErrDatabase, "create data dir: %s", err)
		}
		bopts = badger.DefaultOptions(opts.Dir)
	}
	bopts = bopts.
		WithLogger(&badgerLogger{logger: logger}).
		// The default INFO logging is a bit verbose
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open badger: %s", err)
	}
	s := &Store{db: db, logger: logger}
	if err := s.LoadLatestVersion(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "close: %s", err)
	}
	return nil
}

// Get returns the value at last written state.
func (s *Store) Get(key []byte) ([]byte, error) {
	return view{s}.Get(key)
}

// CacheWrap returns a cache over the written state.
func (s *Store) CacheWrap() gringotts.KVCacheWrap {
	return store.NewBTreeCacheWrap(view{s}, &batch{s: s}, nil)
}

// LoadLatestVersion reads the commit information from the database.
func (s *Store) LoadLatestVersion() error {
	var id gringotts.CommitID
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(commitKey)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return gringotts.Unmarshal(raw, &id)
	})
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "load commit: %s", err)
	}
	s.latest = id
	s.pending = nil
	return nil
}

// LatestVersion returns the latest commit information.
func (s *Store) LatestVersion() (gringotts.CommitID, error) {
	return s.latest, nil
}

// Commit seals all writes since the previous commit under a new version.
// The hash chains the previous hash with the digest of the written
// operations.
func (s *Store) Commit() (gringotts.CommitID, error) {
	h := sha256.New()
	h.Write(s.latest.Hash)
	h.Write(s.pending)
	next := gringotts.CommitID{
		Version: s.latest.Version + 1,
		Hash:    h.Sum(nil),
	}
	raw, err := gringotts.Marshal(next)
	if err != nil {
		return s.latest, err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(commitKey, raw)
	})
	if err != nil {
		return s.latest, errors.Wrapf(errors.ErrDatabase, "commit: %s", err)
	}
	s.latest = next
	s.pending = nil
	return next, nil
}

func (s *Store) apply(ops []store.Op) error {
	if len(ops) == 0 {
		return nil
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		for _, op := range ops {
			key := dataKey(op.Key())
			if op.IsDelete() {
				if err := txn.Delete(key); err != nil {
					return err
				}
				continue
			}
			if err := txn.Set(key, op.Value()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "write batch: %s", err)
	}

	h := sha256.New()
	h.Write(s.pending)
	for _, op := range ops {
		if op.IsDelete() {
			fmt.Fprintf(h, "del:%x;", op.Key())
		} else {
			fmt.Fprintf(h, "set:%x=%x;", op.Key(), op.Value())
		}
	}
	s.pending = h.Sum(nil)
	return nil
}

func dataKey(key []byte) []byte {
	return append(append(make([]byte, 0, len(dataPrefix)+len(key)), dataPrefix...), key...)
}

// batch collects the operations of a cache wrap and writes them to badger
// in one transaction.
type batch struct {
	s   *Store
	ops []store.Op
}

func (b *batch) Set(key, value []byte) error {
	b.ops = append(b.ops, store.SetOp(key, value))
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.ops = append(b.ops, store.DelOp(key))
	return nil
}

func (b *batch) Write() error {
	err := b.s.apply(b.ops)
	b.ops = nil
	return err
}

// view is a read only access to the written state.
type view struct {
	s *Store
}

var _ gringotts.ReadOnlyKVStore = view{}

func (v view) Get(key []byte) ([]byte, error) {
	var val []byte
	err := v.s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(dataKey(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "get: %s", err)
	}
	return val, nil
}

func (v view) Has(key []byte) (bool, error) {
	val, err := v.Get(key)
	return val != nil, err
}

func (v view) Iterator(start, end []byte) (gringotts.Iterator, error) {
	models, err := v.scan(start, end)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(models), nil
}

func (v view) ReverseIterator(start, end []byte) (gringotts.Iterator, error) {
	models, err := v.scan(start, end)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return store.NewSliceIterator(models), nil
}

// scan loads all entries within [start, end) in ascending order.
func (v view) scan(start, end []byte) ([]gringotts.Model, error) {
	var res []gringotts.Model
	err := v.s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(dataKey(start)); it.ValidForPrefix(dataPrefix); it.Next() {
			item := it.Item()
			key := item.KeyCopy(nil)[len(dataPrefix):]
			if end != nil && bytes.Compare(key, end) >= 0 {
				break
			}
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			res = append(res, gringotts.Pair(key, val))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "iterate: %s", err)
	}
	return res, nil
}

// badgerLogger passes badger messages to the application logger.
type badgerLogger struct {
	logger log.Logger
}

func (l *badgerLogger) Errorf(msg string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(msg, args...), "module", "badger")
}

func (l *badgerLogger) Warningf(msg string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(msg, args...), "module", "badger", "level", "warning")
}

func (l *badgerLogger) Infof(msg string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(msg, args...), "module", "badger")
}

func (l *badgerLogger) Debugf(msg string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(msg, args...), "module", "badger")
}
