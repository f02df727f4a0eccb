package types_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/east/types"
)

func TestRecursiveSingleDepth(t *testing.T) {
	var capturedSelf *types.Type
	listTy := types.Recursive(func(self *types.Type) *types.Type {
		capturedSelf = self
		return types.NewVariant(
			types.Case{Tag: "nil", Type: types.NewNull()},
			types.Case{Tag: "cons", Type: types.NewStruct(
				types.Field{Name: "value", Type: types.NewInteger()},
				types.Field{Name: "next", Type: types.NewArray(self)},
			)},
		)
	})
	require.Equal(t, types.Recursive, listTy.Kind)
	depth, ok := types.IsRecursiveRef(capturedSelf)
	require.True(t, ok)
	require.Equal(t, 1, depth)
}

func TestRecursiveNestedDepth(t *testing.T) {
	var outerSelf, innerUseOfOuter *types.Type
	_ = types.Recursive(func(outer *types.Type) *types.Type {
		outerSelf = outer
		inner := types.Recursive(func(innerSelf *types.Type) *types.Type {
			innerUseOfOuter = outer
			return types.NewStruct(
				types.Field{Name: "inner", Type: innerSelf},
				types.Field{Name: "outer", Type: outer},
			)
		})
		return types.NewStruct(types.Field{Name: "wrap", Type: inner})
	})
	depth, ok := types.IsRecursiveRef(innerUseOfOuter)
	require.True(t, ok)
	require.Equal(t, 2, depth)
	_ = outerSelf
}

func TestEqualStructFieldOrderSignificant(t *testing.T) {
	a := types.NewStruct(types.Field{Name: "x", Type: types.NewInteger()}, types.Field{Name: "y", Type: types.NewString()})
	b := types.NewStruct(types.Field{Name: "y", Type: types.NewString()}, types.Field{Name: "x", Type: types.NewInteger()})
	require.False(t, types.Equal(a, b))
}

func TestSubtypeStructWidth(t *testing.T) {
	wide := types.NewStruct(
		types.Field{Name: "a", Type: types.NewInteger()},
		types.Field{Name: "b", Type: types.NewString()},
	)
	narrow := types.NewStruct(types.Field{Name: "a", Type: types.NewInteger()})
	require.True(t, types.IsSubtype(wide, narrow))
	require.False(t, types.IsSubtype(narrow, wide))
}

func TestIsSubtypeReflexive(t *testing.T) {
	ty := types.NewArray(types.NewInteger())
	require.True(t, types.IsSubtype(ty, ty))
}
