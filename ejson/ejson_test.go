package ejson_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/east/compare"
	"github.com/oxhq/east/ejson"
	"github.com/oxhq/east/types"
	"github.com/oxhq/east/value"
)

func TestEncodeLiterals(t *testing.T) {
	out, err := ejson.Encode(value.Int(42), types.NewInteger())
	require.NoError(t, err)
	require.JSONEq(t, `"42"`, string(out))

	out, err = ejson.Encode(value.Blob([]byte{0xab, 0x01}), types.NewBlob())
	require.NoError(t, err)
	require.JSONEq(t, `"0xab01"`, string(out))
}

func TestEncodeDictSortedCanonicalisationS6(t *testing.T) {
	keyTy, valTy := types.NewString(), types.NewInteger()
	ops, err := compare.Compile(keyTy)
	require.NoError(t, err)
	d := value.NewDict(keyTy, valTy, ops.MustCompare)
	d.Set(value.String("b"), value.Int(2))
	d.Set(value.String("a"), value.Int(1))

	out, eerr := ejson.Encode(d, types.NewDict(keyTy, valTy))
	require.NoError(t, eerr)
	require.JSONEq(t, `[{"key":"a","value":"1"},{"key":"b","value":"2"}]`, string(out))
}

func TestEncodeCyclicListS5(t *testing.T) {
	var consType *types.Type
	listTy := types.Recursive(func(self *types.Type) *types.Type {
		consType = types.NewStruct(
			types.Field{Name: "value", Type: types.NewInteger()},
			types.Field{Name: "next", Type: types.NewArray(self)},
		)
		return types.NewVariant(
			types.Case{Tag: "nil", Type: types.NewNull()},
			types.Case{Tag: "cons", Type: consType},
		)
	})

	cons := &value.Variant{Type: listTy.Body, Tag: "cons"}
	node, err := value.NewStruct(consType, map[string]value.Value{
		"value": value.Int(1),
		"next":  value.NewArray(listTy, nil),
	})
	require.NoError(t, err)
	cons.Val = node
	node.Fields["next"].(*value.Array).Vals = []value.Value{cons}

	out, eerr := ejson.Encode(cons, listTy)
	require.NoError(t, eerr)
	require.JSONEq(t, `{"type":"cons","value":{"value":"1","next":[{"$ref":"3#"}]}}`, string(out))

	decoded, derr := ejson.Decode(out, listTy)
	require.NoError(t, derr)
	decodedVariant, ok := decoded.(*value.Variant)
	require.True(t, ok)
	require.Equal(t, "cons", decodedVariant.Tag)
	decodedStruct := decodedVariant.Val.(*value.Struct)
	nextArr := decodedStruct.Fields["next"].(*value.Array)
	require.Len(t, nextArr.Vals, 1)
	require.Same(t, decodedVariant, nextArr.Vals[0])
}

func TestRoundTripStructSharedArray(t *testing.T) {
	arrTy := types.NewArray(types.NewInteger())
	structTy := types.NewStruct(
		types.Field{Name: "a", Type: arrTy},
		types.Field{Name: "b", Type: arrTy},
	)
	shared := value.NewArray(types.NewInteger(), []value.Value{value.Int(1), value.Int(2), value.Int(3)})
	v, err := value.NewStruct(structTy, map[string]value.Value{"a": shared, "b": shared})
	require.NoError(t, err)

	out, eerr := ejson.Encode(v, structTy)
	require.NoError(t, eerr)

	decoded, derr := ejson.Decode(out, structTy)
	require.NoError(t, derr)
	s := decoded.(*value.Struct)
	a := s.Fields["a"].(*value.Array)
	b := s.Fields["b"].(*value.Array)
	require.Same(t, a, b)
}

func TestDecodeRejectsUnknownField(t *testing.T) {
	ty := types.NewStruct(types.Field{Name: "a", Type: types.NewInteger()})
	_, err := ejson.Decode([]byte(`{"b":"1"}`), ty)
	require.Error(t, err)
}

func TestDecodeRejectsIntegerOutOfRange(t *testing.T) {
	_, err := ejson.Decode([]byte(`"99999999999999999999"`), types.NewInteger())
	require.Error(t, err)
}

func TestEncodeRejectsFunctionType(t *testing.T) {
	_, err := ejson.Encode(&value.Function{}, types.NewFunction(nil, types.NewNull(), nil))
	require.Error(t, err)
}
