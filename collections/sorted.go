// Package collections implements the sorted set and sorted map containers
// of spec.md §4.4: ordered containers keyed by a pluggable comparator,
// providing insertion, deletion, containment, size, and prefix-ordered
// iteration, with a mutation-during-iteration guard.
//
// The backing store is a plain sorted slice with binary-search insert and
// delete rather than a balanced tree. spec.md §4.4 only requires ascending
// iteration order and containment/size/insert/delete, never asymptotic
// guarantees, and the teacher's own data structures (e.g. the edit lists in
// its manipulator package) consistently favor slices over tree types.
package collections

import (
	"sort"

	"github.com/oxhq/east/internal/errs"
)

// Less is a total ordering comparator: negative if a < b, zero if equal,
// positive if a > b.
type Less[K any] func(a, b K) int

// SortedSet is an ordered set of unique K, ordered by Less.
type SortedSet[K any] struct {
	less Less[K]
	keys []K
	gen  int
}

// NewSortedSet builds an empty set ordered by less.
func NewSortedSet[K any](less Less[K]) *SortedSet[K] {
	return &SortedSet[K]{less: less}
}

func (s *SortedSet[K]) search(k K) (idx int, found bool) {
	idx = sort.Search(len(s.keys), func(i int) bool { return s.less(s.keys[i], k) >= 0 })
	if idx < len(s.keys) && s.less(s.keys[idx], k) == 0 {
		return idx, true
	}
	return idx, false
}

// Insert adds k if not already present. It reports whether k was newly added.
func (s *SortedSet[K]) Insert(k K) bool {
	idx, found := s.search(k)
	if found {
		return false
	}
	s.keys = append(s.keys, k)
	copy(s.keys[idx+1:], s.keys[idx:])
	s.keys[idx] = k
	s.gen++
	return true
}

// Delete removes k if present. It reports whether k was removed.
func (s *SortedSet[K]) Delete(k K) bool {
	idx, found := s.search(k)
	if !found {
		return false
	}
	s.keys = append(s.keys[:idx], s.keys[idx+1:]...)
	s.gen++
	return true
}

// Contains reports whether k is a member.
func (s *SortedSet[K]) Contains(k K) bool {
	_, found := s.search(k)
	return found
}

// Len returns the number of members.
func (s *SortedSet[K]) Len() int { return len(s.keys) }

// Keys returns the members in ascending order. The returned slice must not
// be mutated by the caller; it aliases the set's internal storage.
func (s *SortedSet[K]) Keys() []K { return s.keys }

// Iterator yields members in ascending order and panics if the set is
// mutated while live, per spec.md §4.4's mutation-during-iteration guard.
type Iterator[K any] struct {
	keys []K
	gen  int
	set  *SortedSet[K]
	pos  int
}

// Iterate starts a new live iteration over s.
func (s *SortedSet[K]) Iterate() *Iterator[K] {
	return &Iterator[K]{keys: s.keys, gen: s.gen, set: s}
}

// Next returns the next member and true, or the zero value and false when
// exhausted. It panics with a structured errs.Error if s was mutated since
// Iterate was called.
func (it *Iterator[K]) Next() (K, bool) {
	if it.set.gen != it.gen {
		panic(errs.New(errs.CodeIterationModified, "sorted set modified during iteration"))
	}
	var zero K
	if it.pos >= len(it.keys) {
		return zero, false
	}
	k := it.keys[it.pos]
	it.pos++
	return k, true
}

// SortedMap is an ordered map from unique K to V, ordered by Less(K).
type SortedMap[K any, V any] struct {
	less Less[K]
	keys []K
	vals []V
	gen  int
}

// NewSortedMap builds an empty map ordered by less.
func NewSortedMap[K any, V any](less Less[K]) *SortedMap[K, V] {
	return &SortedMap[K, V]{less: less}
}

func (m *SortedMap[K, V]) search(k K) (idx int, found bool) {
	idx = sort.Search(len(m.keys), func(i int) bool { return m.less(m.keys[i], k) >= 0 })
	if idx < len(m.keys) && m.less(m.keys[idx], k) == 0 {
		return idx, true
	}
	return idx, false
}

// Set inserts or updates the value for k. It reports whether k was newly added.
func (m *SortedMap[K, V]) Set(k K, v V) bool {
	idx, found := m.search(k)
	if found {
		m.vals[idx] = v
		return false
	}
	m.keys = append(m.keys, k)
	copy(m.keys[idx+1:], m.keys[idx:])
	m.keys[idx] = k

	var zero V
	m.vals = append(m.vals, zero)
	copy(m.vals[idx+1:], m.vals[idx:])
	m.vals[idx] = v

	m.gen++
	return true
}

// Get looks up the value for k.
func (m *SortedMap[K, V]) Get(k K) (v V, ok bool) {
	idx, found := m.search(k)
	if !found {
		return v, false
	}
	return m.vals[idx], true
}

// Delete removes k if present. It reports whether k was removed.
func (m *SortedMap[K, V]) Delete(k K) bool {
	idx, found := m.search(k)
	if !found {
		return false
	}
	m.keys = append(m.keys[:idx], m.keys[idx+1:]...)
	m.vals = append(m.vals[:idx], m.vals[idx+1:]...)
	m.gen++
	return true
}

// Contains reports whether k has an entry.
func (m *SortedMap[K, V]) Contains(k K) bool {
	_, found := m.search(k)
	return found
}

// Len returns the number of entries.
func (m *SortedMap[K, V]) Len() int { return len(m.keys) }

// Keys returns the keys in ascending order; must not be mutated by the caller.
func (m *SortedMap[K, V]) Keys() []K { return m.keys }

// MapIterator yields (key, value) pairs in ascending key order, with the
// same mutation guard as Iterator.
type MapIterator[K any, V any] struct {
	keys []K
	vals []V
	gen  int
	m    *SortedMap[K, V]
	pos  int
}

// Iterate starts a new live iteration over m.
func (m *SortedMap[K, V]) Iterate() *MapIterator[K, V] {
	return &MapIterator[K, V]{keys: m.keys, vals: m.vals, gen: m.gen, m: m}
}

// Next returns the next (key, value) pair and true, or zero values and
// false when exhausted; panics if m was mutated since Iterate was called.
func (it *MapIterator[K, V]) Next() (k K, v V, ok bool) {
	if it.m.gen != it.gen {
		panic(errs.New(errs.CodeIterationModified, "sorted map modified during iteration"))
	}
	if it.pos >= len(it.keys) {
		return k, v, false
	}
	k, v = it.keys[it.pos], it.vals[it.pos]
	it.pos++
	return k, v, true
}
