package compare_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/east/compare"
	"github.com/oxhq/east/types"
	"github.com/oxhq/east/value"
)

func mustCompile(t *testing.T, ty *types.Type) *compare.Ops {
	t.Helper()
	ops, err := compare.Compile(ty)
	require.NoError(t, err)
	return ops
}

func TestIntegerEqualityS1(t *testing.T) {
	ops := mustCompile(t, types.NewInteger())
	eq, err := ops.Equal(value.Int(42), value.Int(42))
	require.NoError(t, err)
	require.True(t, eq)
}

func TestFloatSpecialsS2(t *testing.T) {
	ops := mustCompile(t, types.NewFloat())

	c, err := ops.Compare(value.Float(math.Copysign(0, -1)), value.Float(0))
	require.NoError(t, err)
	require.Equal(t, -1, c)

	eq, err := ops.Equal(value.Float(math.NaN()), value.Float(math.NaN()))
	require.NoError(t, err)
	require.True(t, eq)

	c, err = ops.Compare(value.Float(math.NaN()), value.Float(1.0))
	require.NoError(t, err)
	require.Equal(t, 1, c)
}

func TestBlobOrderingS3(t *testing.T) {
	ops := mustCompile(t, types.NewBlob())

	c, err := ops.Compare(value.Blob([]byte{1, 2}), value.Blob([]byte{1, 2, 3}))
	require.NoError(t, err)
	require.Equal(t, -1, c)

	c, err = ops.Compare(value.Blob([]byte{1, 2, 5, 4}), value.Blob([]byte{1, 2, 3, 4}))
	require.NoError(t, err)
	require.Equal(t, 1, c)
}

func TestVariantOrderingS7(t *testing.T) {
	vt := types.NewVariant(
		types.Case{Tag: "none", Type: types.NewNull()},
		types.Case{Tag: "some", Type: types.NewInteger()},
	)
	ops := mustCompile(t, vt)

	none, err := value.NewVariant(vt, "none", value.Null)
	require.NoError(t, err)
	some0, err := value.NewVariant(vt, "some", value.Int(0))
	require.NoError(t, err)
	some1, err := value.NewVariant(vt, "some", value.Int(1))
	require.NoError(t, err)
	some2, err := value.NewVariant(vt, "some", value.Int(2))
	require.NoError(t, err)

	c, err := ops.Compare(none, some0)
	require.NoError(t, err)
	require.Equal(t, -1, c)

	c, err = ops.Compare(some1, some2)
	require.NoError(t, err)
	require.Equal(t, -1, c)
}

func TestOpaqueComparisonFails(t *testing.T) {
	ops := mustCompile(t, types.NewFunction(nil, types.NewNull(), nil))
	_, err := ops.Equal(&value.Function{}, &value.Function{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Function")

	ops = mustCompile(t, types.NewNever())
	_, err = ops.Compare(value.Null, value.Null)
	require.Error(t, err)
}

func TestReflexivityAndTotality(t *testing.T) {
	ty := types.NewStruct(
		types.Field{Name: "a", Type: types.NewInteger()},
		types.Field{Name: "b", Type: types.NewString()},
	)
	ops := mustCompile(t, ty)
	v1, err := value.NewStruct(ty, map[string]value.Value{"a": value.Int(1), "b": value.String("x")})
	require.NoError(t, err)
	v2, err := value.NewStruct(ty, map[string]value.Value{"a": value.Int(2), "b": value.String("x")})
	require.NoError(t, err)

	eq, _ := ops.Equal(v1, v1)
	require.True(t, eq)
	c, _ := ops.Compare(v1, v1)
	require.Zero(t, c)

	c1, _ := ops.Compare(v1, v2)
	c2, _ := ops.Compare(v2, v1)
	require.Equal(t, -c1, c2)
}

func TestArrayCyclicEquality(t *testing.T) {
	// Recursive(self -> Array(self)) self-loop: an array that contains itself.
	arrTy := types.Recursive(func(self *types.Type) *types.Type { return types.NewArray(self) })
	ops := mustCompile(t, arrTy)

	a := value.NewArray(arrTy, nil)
	a.Vals = []value.Value{a}

	b := value.NewArray(arrTy, nil)
	b.Vals = []value.Value{b}

	eq, err := ops.Equal(a, b)
	require.NoError(t, err)
	require.True(t, eq)
}

func TestSetContainerConsistency(t *testing.T) {
	intOps := mustCompile(t, types.NewInteger())
	s := value.NewSet(types.NewInteger(), intOps.MustCompare)
	s.Insert(value.Int(5))
	s.Insert(value.Int(1))
	s.Insert(value.Int(3))

	it := s.Iterate()
	var got []int64
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		i, _ := value.AsInt(v)
		got = append(got, i)
	}
	require.Equal(t, []int64{1, 3, 5}, got)
}
