package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/east/types"
	"github.com/oxhq/east/value"
)

func TestNewStructRejectsMissingField(t *testing.T) {
	ty := types.NewStruct(types.Field{Name: "a", Type: types.NewInteger()})
	_, err := value.NewStruct(ty, map[string]value.Value{})
	require.Error(t, err)
}

func TestNewStructRejectsExtraField(t *testing.T) {
	ty := types.NewStruct(types.Field{Name: "a", Type: types.NewInteger()})
	_, err := value.NewStruct(ty, map[string]value.Value{"a": value.Int(1), "b": value.Int(2)})
	require.Error(t, err)
}

func TestNewVariantRejectsUnknownTag(t *testing.T) {
	ty := types.NewVariant(types.Case{Tag: "a", Type: types.NewNull()})
	_, err := value.NewVariant(ty, "b", value.Null)
	require.Error(t, err)
}

func TestIdentityDistinguishesMutableContainers(t *testing.T) {
	a := value.NewArray(types.NewInteger(), nil)
	b := value.NewArray(types.NewInteger(), nil)
	ia, ok := value.Identity(a)
	require.True(t, ok)
	ib, ok := value.Identity(b)
	require.True(t, ok)
	require.NotEqual(t, ia, ib)

	ia2, _ := value.Identity(a)
	require.Equal(t, ia, ia2)
}

func TestIdentityFalseForImmutable(t *testing.T) {
	_, ok := value.Identity(value.Int(1))
	require.False(t, ok)
}

func TestDescribeTypeRoundTripsShape(t *testing.T) {
	ty := types.NewArray(types.NewInteger())
	v := value.DescribeType(ty)
	variant, ok := v.(*value.Variant)
	require.True(t, ok)
	require.Equal(t, "array", variant.Tag)
	inner, ok := variant.Val.(*value.Variant)
	require.True(t, ok)
	require.Equal(t, "integer", inner.Tag)
}

func TestDescribeTypeRecursive(t *testing.T) {
	listTy := types.Recursive(func(self *types.Type) *types.Type {
		return types.NewVariant(
			types.Case{Tag: "nil", Type: types.NewNull()},
			types.Case{Tag: "cons", Type: types.NewArray(self)},
		)
	})
	v := value.DescribeType(listTy)
	variant, ok := v.(*value.Variant)
	require.True(t, ok)
	require.Equal(t, "recursive", variant.Tag)
}
