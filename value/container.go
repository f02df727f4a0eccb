package value

import (
	"github.com/oxhq/east/collections"
	"github.com/oxhq/east/types"
)

// Set is an ordered set of unique keys, heap-identity meaningful. It is
// C3's SortedSet instantiated with whatever comparator the caller compiled
// for KeyType (ordinarily the MustCompare of compare.Compile(keyType)); Set itself has
// no dependency on the comparison engine, per spec.md §4.4's "pluggable
// comparator" requirement.
type Set struct {
	KeyType *types.Type
	set     *collections.SortedSet[Value]
}

func (*Set) Kind() types.Kind { return types.Set }

// NewSet allocates a fresh empty set ordered by less.
func NewSet(keyType *types.Type, less func(a, b Value) int) *Set {
	return &Set{KeyType: keyType, set: collections.NewSortedSet[Value](less)}
}

// Insert adds v, reporting whether it was newly added.
func (s *Set) Insert(v Value) bool { return s.set.Insert(v) }

// Delete removes v, reporting whether it was present.
func (s *Set) Delete(v Value) bool { return s.set.Delete(v) }

// Contains reports whether v is a member.
func (s *Set) Contains(v Value) bool { return s.set.Contains(v) }

// Len returns the number of members.
func (s *Set) Len() int { return s.set.Len() }

// Keys returns the members in ascending order; must not be mutated.
func (s *Set) Keys() []Value { return s.set.Keys() }

// Iterate starts a live ascending iteration.
func (s *Set) Iterate() *collections.Iterator[Value] { return s.set.Iterate() }

// Dict is an ordered map with unique keys, heap-identity meaningful.
type Dict struct {
	KeyType   *types.Type
	ValueType *types.Type
	dict      *collections.SortedMap[Value, Value]
}

func (*Dict) Kind() types.Kind { return types.Dict }

// NewDict allocates a fresh empty dict ordered by less (over KeyType).
func NewDict(keyType, valueType *types.Type, less func(a, b Value) int) *Dict {
	return &Dict{KeyType: keyType, ValueType: valueType, dict: collections.NewSortedMap[Value, Value](less)}
}

// Set inserts or updates the value for k, reporting whether k was new.
func (d *Dict) Set(k, v Value) bool { return d.dict.Set(k, v) }

// Get looks up the value for k.
func (d *Dict) Get(k Value) (Value, bool) { return d.dict.Get(k) }

// Delete removes k if present, reporting whether it was removed.
func (d *Dict) Delete(k Value) bool { return d.dict.Delete(k) }

// Contains reports whether k has an entry.
func (d *Dict) Contains(k Value) bool { return d.dict.Contains(k) }

// Len returns the number of entries.
func (d *Dict) Len() int { return d.dict.Len() }

// Keys returns the keys in ascending order; must not be mutated.
func (d *Dict) Keys() []Value { return d.dict.Keys() }

// Iterate starts a live ascending iteration over (key, value) pairs.
func (d *Dict) Iterate() *collections.MapIterator[Value, Value] { return d.dict.Iterate() }
