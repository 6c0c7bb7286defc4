/*
Package orm provides a thin object mapping layer on top of the KVStore.

Every model is serialized with the canonical binary encoding and stored
under "<bucket name>:<key>". Keys can be provided by the caller or
generated by a Sequence.
*/
package orm

import (
	"reflect"
	"regexp"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/errors"
)

// isBucketName is used to validate the bucket names.
var isBucketName = regexp.MustCompile(`^[a-z_]{3,16}$`).MatchString

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	Validate() error
}

// ModelSlicePtr represents a pointer to a slice of models. For example
// *[]*Proposal or *[]Ballot.
type ModelSlicePtr interface{}

// ModelBucket stores a single model type directly in the KVStore.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary key. Result is loaded into given destination model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db gringotts.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key exists and
	// ErrNotFound otherwise.
	Has(db gringotts.ReadOnlyKVStore, key []byte) error

	// Put saves given model in the database. If key is nil and the bucket
	// was configured with an id sequence, a new key is generated. The key
	// under which the model was saved is returned.
	Put(db gringotts.KVStore, key []byte, m Model) ([]byte, error)

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db gringotts.KVStore, key []byte) error

	// ByPrefix loads all entities whose key starts with given prefix, in
	// key order, and appends them to the destination slice. Keys of
	// loaded entities are returned in the same order.
	ByPrefix(db gringotts.ReadOnlyKVStore, prefix []byte, dest ModelSlicePtr) ([][]byte, error)

	// Register exposes the content of this bucket to queries under
	// "/<name>".
	Register(name string, r gringotts.QueryRouter)

	gringotts.QueryHandler
}

// ModelBucketOption configures a ModelBucket.
type ModelBucketOption func(mb *modelBucket)

// WithIDSequence configures the bucket to generate keys for models that are
// saved with a nil key.
func WithIDSequence(s Sequence) ModelBucketOption {
	return func(mb *modelBucket) {
		mb.idSeq = &s
	}
}

// NewModelBucket returns a bucket that stores models of the same type as
// given example instance, which must be a pointer to a struct.
func NewModelBucket(name string, example Model, opts ...ModelBucketOption) ModelBucket {
	if !isBucketName(name) {
		panic("illegal bucket name: " + name)
	}
	t := reflect.TypeOf(example)
	if t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Struct {
		panic("model must be a pointer to a struct")
	}
	mb := &modelBucket{
		name:      name,
		prefix:    []byte(name + ":"),
		modelType: t,
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	name      string
	prefix    []byte
	modelType reflect.Type
	idSeq     *Sequence
}

var _ ModelBucket = (*modelBucket)(nil)

// dbKey is the full key we store in the db, including prefix. We copy into a
// new array rather than use append, as we don't want consecutive calls to
// overwrite the same byte array.
func (mb *modelBucket) dbKey(key []byte) []byte {
	res := make([]byte, len(mb.prefix)+len(key))
	copy(res, mb.prefix)
	copy(res[len(mb.prefix):], key)
	return res
}

func (mb *modelBucket) One(db gringotts.ReadOnlyKVStore, key []byte, dest Model) error {
	if t := reflect.TypeOf(dest); t != mb.modelType {
		return errors.Wrapf(errors.ErrType, "%s cannot be represented as %T", mb.modelType, dest)
	}
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := gringotts.Unmarshal(raw, dest); err != nil {
		return errors.Wrap(err, "cannot load model")
	}
	return nil
}

func (mb *modelBucket) Has(db gringotts.ReadOnlyKVStore, key []byte) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrNotFound, "empty key")
	}
	ok, err := db.Has(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if !ok {
		return errors.ErrNotFound
	}
	return nil
}

func (mb *modelBucket) Put(db gringotts.KVStore, key []byte, m Model) ([]byte, error) {
	if t := reflect.TypeOf(m); t != mb.modelType {
		return nil, errors.Wrapf(errors.ErrType, "cannot store %T in %q bucket", m, mb.name)
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid model")
	}
	if len(key) == 0 {
		if mb.idSeq == nil {
			return nil, errors.Wrap(errors.ErrEmpty, "key required")
		}
		var err error
		if key, err = mb.idSeq.NextVal(db); err != nil {
			return nil, errors.Wrap(err, "id sequence")
		}
	}
	raw, err := gringotts.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, "cannot serialize model")
	}
	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return key, nil
}

func (mb *modelBucket) Delete(db gringotts.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	if err := db.Delete(mb.dbKey(key)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

func (mb *modelBucket) ByPrefix(db gringotts.ReadOnlyKVStore, prefix []byte, destination ModelSlicePtr) ([][]byte, error) {
	dest := reflect.ValueOf(destination)
	if dest.Kind() != reflect.Ptr || dest.Elem().Kind() != reflect.Slice {
		return nil, errors.Wrapf(errors.ErrType, "%T is not a pointer to a slice", destination)
	}
	slice := dest.Elem()
	elemType := slice.Type().Elem()
	isPtr := elemType.Kind() == reflect.Ptr
	if isPtr && elemType != mb.modelType || !isPtr && reflect.PtrTo(elemType) != mb.modelType {
		return nil, errors.Wrapf(errors.ErrType, "%s cannot be loaded into %T", mb.modelType, destination)
	}

	models, err := consume(db, mb.dbKey(prefix))
	if err != nil {
		return nil, err
	}
	keys := make([][]byte, 0, len(models))
	for _, m := range models {
		obj := reflect.New(mb.modelType.Elem())
		if err := gringotts.Unmarshal(m.Value, obj.Interface()); err != nil {
			return nil, errors.Wrapf(err, "cannot load %q", m.Key)
		}
		if isPtr {
			slice = reflect.Append(slice, obj)
		} else {
			slice = reflect.Append(slice, obj.Elem())
		}
		keys = append(keys, m.Key[len(mb.prefix):])
	}
	dest.Elem().Set(slice)
	return keys, nil
}

func (mb *modelBucket) Register(name string, r gringotts.QueryRouter) {
	if name == "" {
		name = mb.name
	}
	r.Register("/"+name, mb)
}

// Query handles queries from the QueryRouter. Returned keys are the full
// database keys.
func (mb *modelBucket) Query(db gringotts.ReadOnlyKVStore, mod string, data []byte) ([]gringotts.Model, error) {
	switch mod {
	case gringotts.KeyQueryMod:
		key := mb.dbKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		// return nothing on miss
		if value == nil {
			return nil, nil
		}
		return []gringotts.Model{gringotts.Pair(key, value)}, nil
	case gringotts.PrefixQueryMod:
		return consume(db, mb.dbKey(data))
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

// consume reads all entries stored under given prefix.
func consume(db gringotts.ReadOnlyKVStore, prefix []byte) ([]gringotts.Model, error) {
	start, end := PrefixRange(prefix)
	it, err := db.Iterator(start, end)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	defer it.Release()

	var res []gringotts.Model
	for {
		k, v, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		res = append(res, gringotts.Pair(k, v))
	}
}

// PrefixRange turns a prefix into a (start, end) range. The end is
// exclusive, nil if the prefix consists of 0xff bytes only.
func PrefixRange(prefix []byte) ([]byte, []byte) {
	if len(prefix) == 0 {
		return nil, nil
	}
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return prefix, end[:i+1]
		}
	}
	return prefix, nil
}
