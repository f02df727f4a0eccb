package text_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/east/text"
	"github.com/oxhq/east/types"
	"github.com/oxhq/east/value"
)

func TestPrintLiterals(t *testing.T) {
	cases := []struct {
		name string
		ty   *types.Type
		v    value.Value
		want string
	}{
		{"null", types.NewNull(), value.Null, "null"},
		{"true", types.NewBoolean(), value.Bool(true), "true"},
		{"int", types.NewInteger(), value.Int(-7), "-7"},
		{"float-whole", types.NewFloat(), value.Float(3), "3.0"},
		{"float-nan", types.NewFloat(), value.Float(math.NaN()), "NaN"},
		{"float-neg-zero", types.NewFloat(), value.Float(math.Copysign(0, -1)), "-0.0"},
		{"string", types.NewString(), value.String(`a"b`), `"a\"b"`},
		{"blob", types.NewBlob(), value.Blob([]byte{0xab, 0x01}), "0xab01"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := text.Print(c.v, c.ty)
			require.NoError(t, err)
			require.Equal(t, c.want, got)
		})
	}
}

func TestPrintStructAliasS4(t *testing.T) {
	arrTy := types.NewArray(types.NewInteger())
	structTy := types.NewStruct(
		types.Field{Name: "a", Type: arrTy},
		types.Field{Name: "b", Type: arrTy},
	)
	shared := value.NewArray(types.NewInteger(), []value.Value{value.Int(1), value.Int(2), value.Int(3)})
	v, err := value.NewStruct(structTy, map[string]value.Value{"a": shared, "b": shared})
	require.NoError(t, err)

	got, perr := text.Print(v, structTy)
	require.NoError(t, perr)
	require.Equal(t, "(a=[1, 2, 3], b=1#.a)", got)
}

func TestRoundTripPrintParse(t *testing.T) {
	arrTy := types.NewArray(types.NewInteger())
	structTy := types.NewStruct(
		types.Field{Name: "a", Type: arrTy},
		types.Field{Name: "b", Type: types.NewString()},
	)
	v, err := value.NewStruct(structTy, map[string]value.Value{
		"a": value.NewArray(types.NewInteger(), []value.Value{value.Int(1), value.Int(2)}),
		"b": value.String("hi"),
	})
	require.NoError(t, err)

	printed, perr := text.Print(v, structTy)
	require.NoError(t, perr)

	parsed, parseErr := text.Parse(printed, structTy)
	require.Nil(t, parseErr)

	s, ok := parsed.(*value.Struct)
	require.True(t, ok)
	a, ok := s.Fields["a"].(*value.Array)
	require.True(t, ok)
	require.Len(t, a.Vals, 2)
	i0, _ := value.AsInt(a.Vals[0])
	require.Equal(t, int64(1), i0)
}

func TestRoundTripSharedArrayStaysShared(t *testing.T) {
	arrTy := types.NewArray(types.NewInteger())
	structTy := types.NewStruct(
		types.Field{Name: "a", Type: arrTy},
		types.Field{Name: "b", Type: arrTy},
	)
	shared := value.NewArray(types.NewInteger(), []value.Value{value.Int(1), value.Int(2), value.Int(3)})
	v, err := value.NewStruct(structTy, map[string]value.Value{"a": shared, "b": shared})
	require.NoError(t, err)

	printed, perr := text.Print(v, structTy)
	require.NoError(t, perr)

	parsed, parseErr := text.Parse(printed, structTy)
	require.Nil(t, parseErr)

	s := parsed.(*value.Struct)
	a := s.Fields["a"].(*value.Array)
	b := s.Fields["b"].(*value.Array)
	ia, _ := value.Identity(a)
	ib, _ := value.Identity(b)
	require.Equal(t, ia, ib)
}

func TestParseErrorMissingEqualsS10(t *testing.T) {
	ty := types.NewStruct(types.Field{Name: "x", Type: types.NewInteger()})
	_, err := text.Parse("(x 42)", ty)
	require.NotNil(t, err)
	require.Equal(t, 1, err.Line)
	require.Equal(t, 3, err.Col)
}

func TestParseRejectsTrailingInput(t *testing.T) {
	_, err := text.Parse("1 2", types.NewInteger())
	require.NotNil(t, err)
}

func TestParseRejectsUnknownField(t *testing.T) {
	ty := types.NewStruct(types.Field{Name: "a", Type: types.NewInteger()})
	_, err := text.Parse("(b=1)", ty)
	require.NotNil(t, err)
}

func TestParseRejectsUnknownVariantTag(t *testing.T) {
	ty := types.NewVariant(types.Case{Tag: "a", Type: types.NewNull()})
	_, err := text.Parse(".b", ty)
	require.NotNil(t, err)
}

func TestVariantPrintParse(t *testing.T) {
	ty := types.NewVariant(
		types.Case{Tag: "none", Type: types.NewNull()},
		types.Case{Tag: "some", Type: types.NewInteger()},
	)
	v, err := value.NewVariant(ty, "some", value.Int(5))
	require.NoError(t, err)
	printed, perr := text.Print(v, ty)
	require.NoError(t, perr)
	require.Equal(t, ".some 5", printed)

	parsed, parseErr := text.Parse(printed, ty)
	require.Nil(t, parseErr)
	vv := parsed.(*value.Variant)
	require.Equal(t, "some", vv.Tag)
}

func TestRecursiveValueRoundTrip(t *testing.T) {
	var consType *types.Type
	listTy := types.Recursive(func(self *types.Type) *types.Type {
		consType = types.NewStruct(
			types.Field{Name: "head", Type: types.NewInteger()},
			types.Field{Name: "tail", Type: self},
		)
		return types.NewVariant(
			types.Case{Tag: "nil", Type: types.NewNull()},
			types.Case{Tag: "cons", Type: consType},
		)
	})

	nilVal, err := value.NewVariant(listTy.Body, "nil", value.Null)
	require.NoError(t, err)
	tailStruct, err := value.NewStruct(consType, map[string]value.Value{
		"head": value.Int(2),
		"tail": nilVal,
	})
	require.NoError(t, err)
	tail, err := value.NewVariant(listTy.Body, "cons", tailStruct)
	require.NoError(t, err)

	printed, perr := text.Print(tail, listTy)
	require.NoError(t, perr)

	parsed, parseErr := text.Parse(printed, listTy)
	require.Nil(t, parseErr)
	cons := parsed.(*value.Variant)
	require.Equal(t, "cons", cons.Tag)
}
