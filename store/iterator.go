package store

import (
	"bytes"

	"github.com/iov-one/gringotts/errors"
)

// mergeIterator combines a snapshot of cached items with the iterator of
// the parent store. Cached values shadow the parent values of the same key
// and cached deletes hide them.
type mergeIterator struct {
	ours    []entry
	parent  Iterator
	reverse bool

	// one item look ahead of the parent iterator
	loaded bool
	done   bool
	pkey   []byte
	pvalue []byte
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(ours []entry, parent Iterator, reverse bool) *mergeIterator {
	return &mergeIterator{
		ours:    ours,
		parent:  parent,
		reverse: reverse,
	}
}

func (m *mergeIterator) Next() ([]byte, []byte, error) {
	for {
		if !m.loaded {
			if err := m.loadParent(); err != nil {
				return nil, nil, err
			}
		}

		if len(m.ours) == 0 {
			if m.done {
				return nil, nil, errors.ErrIteratorDone
			}
			return m.takeParent()
		}
		if m.done {
			if k, v, ok := m.takeOurs(); ok {
				return k, v, nil
			}
			continue
		}

		cmp := bytes.Compare(m.ours[0].key, m.pkey)
		if m.reverse {
			cmp = -cmp
		}
		switch {
		case cmp > 0:
			return m.takeParent()
		case cmp == 0:
			// Cached entry shadows the parent one.
			m.loaded = false
		}
		if k, v, ok := m.takeOurs(); ok {
			return k, v, nil
		}
	}
}

// takeOurs consumes the first cached entry. It returns false for a
// tombstone.
func (m *mergeIterator) takeOurs() ([]byte, []byte, bool) {
	e := m.ours[0]
	m.ours = m.ours[1:]
	if e.deleted {
		return nil, nil, false
	}
	return e.key, e.value, true
}

func (m *mergeIterator) takeParent() ([]byte, []byte, error) {
	m.loaded = false
	return m.pkey, m.pvalue, nil
}

func (m *mergeIterator) loadParent() error {
	m.loaded = true
	if m.done {
		return nil
	}
	k, v, err := m.parent.Next()
	if errors.ErrIteratorDone.Is(err) {
		m.done = true
		m.pkey, m.pvalue = nil, nil
		return nil
	}
	if err != nil {
		return err
	}
	m.pkey, m.pvalue = k, v
	return nil
}

func (m *mergeIterator) Release() {
	m.parent.Release()
	m.ours = nil
}

// SliceIterator wraps an Iterator over a slice of models
type SliceIterator struct {
	data []Model
	idx  int
}

var _ Iterator = (*SliceIterator)(nil)

// NewSliceIterator creates a new Iterator over this slice
func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{
		data: data,
	}
}

func (s *SliceIterator) Next() ([]byte, []byte, error) {
	if s.idx >= len(s.data) {
		return nil, nil, errors.ErrIteratorDone
	}
	m := s.data[s.idx]
	s.idx++
	return m.Key, m.Value, nil
}

func (s *SliceIterator) Release() {
	s.data = nil
}
