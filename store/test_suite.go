package store

import (
	"testing"

	"github.com/iov-one/gringotts/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSuite provides many methods that can be called in package-specific test
// code. We just customize the store being tested (pass in constructor), the
// rest of the logic is generic to the KVStore interface.
//
// It is shared by the in-memory btree store and the badger store.
type TestSuite struct {
	makeBase TestStoreConstructor
}

type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// GetSet does basic sanity checks on our cache
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	k, v := []byte("french"), []byte("fry")
	s.AssertGetHas(t, base, k, nil, false)
	require.NoError(t, base.Set(k, v))
	s.AssertGetHas(t, base, k, v, true)

	// now layer another btree on top and make sure that we get
	// base data
	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, k, v, true)

	// writing more data is only visible in the cache
	k2, v2 := []byte("LA"), []byte("Dodgers")
	s.AssertGetHas(t, cache, k2, nil, false)
	require.NoError(t, cache.Set(k2, v2))
	s.AssertGetHas(t, cache, k2, v2, true)
	s.AssertGetHas(t, base, k2, nil, false)

	// we can write the cache to the base layer...
	require.NoError(t, cache.Write())
	s.AssertGetHas(t, base, k, v, true)
	s.AssertGetHas(t, base, k2, v2, true)

	// we can discard one
	k3, v3 := []byte("Bayern"), []byte("Munich")
	c2 := base.CacheWrap()
	s.AssertGetHas(t, c2, k, v, true)
	require.NoError(t, c2.Set(k3, v3))
	c2.Discard()
	s.AssertGetHas(t, base, k3, nil, false)

	// and commit another
	c3 := base.CacheWrap()
	require.NoError(t, c3.Delete(k))
	s.AssertGetHas(t, c3, k, nil, false)
	s.AssertGetHas(t, base, k, v, true)
	require.NoError(t, c3.Write())

	s.AssertGetHas(t, base, k, nil, false)
	s.AssertGetHas(t, base, k2, v2, true)
	s.AssertGetHas(t, base, k3, nil, false)
}

// Iteration checks that iterators over a cache wrap combine the cached
// writes and deletes with the parent content in both directions.
func (s *TestSuite) Iteration(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	for _, k := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, base.Set([]byte(k), []byte("base-"+k)))
	}

	cache := base.CacheWrap()
	require.NoError(t, cache.Delete([]byte("b")))
	require.NoError(t, cache.Set([]byte("c"), []byte("cache-c")))
	require.NoError(t, cache.Set([]byte("bb"), []byte("cache-bb")))
	require.NoError(t, cache.Set([]byte("f"), []byte("cache-f")))
	require.NoError(t, cache.Delete([]byte("zz")))

	all := []Model{
		{Key: []byte("a"), Value: []byte("base-a")},
		{Key: []byte("bb"), Value: []byte("cache-bb")},
		{Key: []byte("c"), Value: []byte("cache-c")},
		{Key: []byte("d"), Value: []byte("base-d")},
		{Key: []byte("e"), Value: []byte("base-e")},
		{Key: []byte("f"), Value: []byte("cache-f")},
	}

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []Model
	}{
		"everything": {
			want: all,
		},
		"everything reversed": {
			reverse: true,
			want:    reversed(all),
		},
		"bounded": {
			start: []byte("b"),
			end:   []byte("e"),
			want:  all[1:4],
		},
		"bounded reversed": {
			start:   []byte("b"),
			end:     []byte("e"),
			reverse: true,
			want:    reversed(all[1:4]),
		},
		"open end": {
			start: []byte("d"),
			want:  all[3:],
		},
		"open start reversed": {
			end:     []byte("c"),
			reverse: true,
			want:    reversed(all[:2]),
		},
		"empty range": {
			start: []byte("x"),
			end:   []byte("y"),
			want:  nil,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var it Iterator
			var err error
			if tc.reverse {
				it, err = cache.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = cache.Iterator(tc.start, tc.end)
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, drain(t, it))
		})
	}
}

// AssertGetHas checks both Get and Has of given key.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	require.NoError(t, err)
	assert.Equal(t, has, exists)
}

func drain(t testing.TB, it Iterator) []Model {
	t.Helper()
	defer it.Release()
	var res []Model
	for {
		k, v, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res
		}
		require.NoError(t, err)
		res = append(res, Model{Key: k, Value: v})
	}
}

func reversed(ms []Model) []Model {
	res := make([]Model, len(ms))
	for i, m := range ms {
		res[len(ms)-1-i] = m
	}
	return res
}
