package collections

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func intLess(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func TestSortedSetInsertOrder(t *testing.T) {
	s := NewSortedSet[int](intLess)
	for _, v := range []int{5, 1, 3, 3, 2, 4} {
		s.Insert(v)
	}
	require.Equal(t, 5, s.Len())
	require.Equal(t, []int{1, 2, 3, 4, 5}, s.Keys())
}

func TestSortedSetContentsEqualIndependentOfInsertOrder(t *testing.T) {
	a := NewSortedSet[int](intLess)
	b := NewSortedSet[int](intLess)
	for _, v := range []int{3, 1, 2} {
		a.Insert(v)
	}
	for _, v := range []int{1, 2, 3} {
		b.Insert(v)
	}
	require.Equal(t, a.Keys(), b.Keys())
}

func TestSortedSetDelete(t *testing.T) {
	s := NewSortedSet[int](intLess)
	s.Insert(1)
	s.Insert(2)
	require.True(t, s.Delete(1))
	require.False(t, s.Delete(1))
	require.False(t, s.Contains(1))
	require.True(t, s.Contains(2))
}

func TestSortedSetIterationOrder(t *testing.T) {
	s := NewSortedSet[int](intLess)
	for _, v := range []int{9, 4, 7, 1} {
		s.Insert(v)
	}
	it := s.Iterate()
	var got []int
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, v)
	}
	require.Equal(t, []int{1, 4, 7, 9}, got)
}

func TestSortedSetIterationGuard(t *testing.T) {
	s := NewSortedSet[int](intLess)
	s.Insert(1)
	it := s.Iterate()
	s.Insert(2)
	require.Panics(t, func() { it.Next() })
}

func TestSortedMapBasics(t *testing.T) {
	m := NewSortedMap[int, string](intLess)
	require.True(t, m.Set(2, "two"))
	require.True(t, m.Set(1, "one"))
	require.False(t, m.Set(1, "ONE"))
	require.Equal(t, []int{1, 2}, m.Keys())
	v, ok := m.Get(1)
	require.True(t, ok)
	require.Equal(t, "ONE", v)
}

func TestSortedMapIterationOrderAndGuard(t *testing.T) {
	m := NewSortedMap[int, string](intLess)
	m.Set(3, "c")
	m.Set(1, "a")
	m.Set(2, "b")
	it := m.Iterate()
	var keys []int
	for {
		k, _, ok := it.Next()
		if !ok {
			break
		}
		keys = append(keys, k)
	}
	require.Equal(t, []int{1, 2, 3}, keys)

	it2 := m.Iterate()
	m.Delete(1)
	require.Panics(t, func() { it2.Next() })
}
