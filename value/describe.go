package value

import (
	"fmt"

	"github.com/oxhq/east/types"
)

// typeDescriptor is the self-describing Variant type named EastTypeValue in
// spec.md's glossary: a descriptor re-expressed as a regular value so that
// descriptors themselves can be serialized by the generic text/JSON codecs.
// It is built once; Recursive/recursiveRef back-edges give it a finite
// shape even though the type algebra it describes is conceptually infinite
// (spec.md §3.1's "Recursion encoding").
var typeDescriptor = buildTypeDescriptor()

func buildTypeDescriptor() *types.Type {
	return types.Recursive(func(self *types.Type) *types.Type {
		nameAndType := types.NewStruct(
			types.Field{Name: "name", Type: types.NewString()},
			types.Field{Name: "type", Type: self},
		)
		tagAndType := types.NewStruct(
			types.Field{Name: "tag", Type: types.NewString()},
			types.Field{Name: "type", Type: self},
		)
		signature := types.NewStruct(
			types.Field{Name: "inputs", Type: types.NewArray(self)},
			types.Field{Name: "output", Type: self},
			types.Field{Name: "platforms", Type: types.NewArray(types.NewString())},
		)
		dictShape := types.NewStruct(
			types.Field{Name: "key", Type: self},
			types.Field{Name: "value", Type: self},
		)
		return types.NewVariant(
			types.Case{Tag: "never", Type: types.NewNull()},
			types.Case{Tag: "null", Type: types.NewNull()},
			types.Case{Tag: "boolean", Type: types.NewNull()},
			types.Case{Tag: "integer", Type: types.NewNull()},
			types.Case{Tag: "float", Type: types.NewNull()},
			types.Case{Tag: "string", Type: types.NewNull()},
			types.Case{Tag: "datetime", Type: types.NewNull()},
			types.Case{Tag: "blob", Type: types.NewNull()},
			types.Case{Tag: "ref", Type: self},
			types.Case{Tag: "array", Type: self},
			types.Case{Tag: "set", Type: self},
			types.Case{Tag: "dict", Type: dictShape},
			types.Case{Tag: "struct", Type: types.NewArray(nameAndType)},
			types.Case{Tag: "variant", Type: types.NewArray(tagAndType)},
			types.Case{Tag: "function", Type: signature},
			types.Case{Tag: "asyncFunction", Type: signature},
			types.Case{Tag: "recursive", Type: self},
			types.Case{Tag: "recursiveRef", Type: types.NewInteger()},
		)
	})
}

// TypeDescriptorType returns the self-describing Variant type that
// DescribeType's results are instances of.
func TypeDescriptorType() *types.Type { return typeDescriptor }

func variantOf(tag string, v Value) *Variant {
	return &Variant{Type: typeDescriptor, Tag: tag, Val: v}
}

// DescribeType converts a type descriptor into its self-describing value
// form (spec.md glossary: "EastTypeValue"), walking t once. Back-edges
// inside a Recursive body become the integer-carrying "recursiveRef" case,
// keeping the result finite regardless of t's conceptual depth.
func DescribeType(t *types.Type) Value {
	switch t.Kind {
	case types.Never:
		return variantOf("never", Null)
	case types.Null:
		return variantOf("null", Null)
	case types.Boolean:
		return variantOf("boolean", Null)
	case types.Integer:
		return variantOf("integer", Null)
	case types.Float:
		return variantOf("float", Null)
	case types.String:
		return variantOf("string", Null)
	case types.DateTime:
		return variantOf("datetime", Null)
	case types.Blob:
		return variantOf("blob", Null)
	case types.Ref:
		return variantOf("ref", DescribeType(t.Elem))
	case types.Array:
		return variantOf("array", DescribeType(t.Elem))
	case types.Set:
		return variantOf("set", DescribeType(t.Elem))
	case types.Dict:
		st, _ := NewStruct(dictShapeOf(), map[string]Value{
			"key":   DescribeType(t.Key),
			"value": DescribeType(t.Elem),
		})
		return variantOf("dict", st)
	case types.Struct:
		vals := make([]Value, len(t.Fields))
		for i, f := range t.Fields {
			st, _ := NewStruct(nameAndTypeShape(), map[string]Value{
				"name": String(f.Name),
				"type": DescribeType(f.Type),
			})
			vals[i] = st
		}
		return variantOf("struct", NewArray(nameAndTypeShape(), vals))
	case types.Variant:
		vals := make([]Value, len(t.Cases))
		for i, c := range t.Cases {
			st, _ := NewStruct(tagAndTypeShape(), map[string]Value{
				"tag":  String(c.Tag),
				"type": DescribeType(c.Type),
			})
			vals[i] = st
		}
		return variantOf("variant", NewArray(tagAndTypeShape(), vals))
	case types.Function, types.AsyncFunction:
		inputs := make([]Value, len(t.Inputs))
		for i, in := range t.Inputs {
			inputs[i] = DescribeType(in)
		}
		platforms := make([]Value, len(t.Platforms))
		for i, p := range t.Platforms {
			platforms[i] = String(p)
		}
		st, _ := NewStruct(signatureShape(), map[string]Value{
			"inputs":    NewArray(typeDescriptor, inputs),
			"output":    DescribeType(t.Output),
			"platforms": NewArray(types.NewString(), platforms),
		})
		tag := "function"
		if t.Kind == types.AsyncFunction {
			tag = "asyncFunction"
		}
		return variantOf(tag, st)
	case types.Recursive:
		return variantOf("recursive", DescribeType(t.Body))
	default:
		if depth, ok := types.IsRecursiveRef(t); ok {
			return variantOf("recursiveRef", Int(int64(depth)))
		}
		return variantOf("never", Null)
	}
}

// UndescribeType is the inverse of DescribeType: it reconstructs a type
// descriptor from its self-describing value form. Since a DescribeType
// result already carries resolved De Bruijn depths in its "recursiveRef"
// leaves, reconstruction needs no fresh sentinel pass — each recursive/
// recursiveRef case is rebuilt directly from the integer it carries.
func UndescribeType(v Value) (*types.Type, error) {
	vv, ok := v.(*Variant)
	if !ok {
		return nil, fmt.Errorf("expected a type-descriptor variant, got %T", v)
	}
	switch vv.Tag {
	case "never":
		return types.NewNever(), nil
	case "null":
		return types.NewNull(), nil
	case "boolean":
		return types.NewBoolean(), nil
	case "integer":
		return types.NewInteger(), nil
	case "float":
		return types.NewFloat(), nil
	case "string":
		return types.NewString(), nil
	case "datetime":
		return types.NewDateTime(), nil
	case "blob":
		return types.NewBlob(), nil
	case "ref":
		elem, err := UndescribeType(vv.Val)
		if err != nil {
			return nil, err
		}
		return types.NewRef(elem), nil
	case "array":
		elem, err := UndescribeType(vv.Val)
		if err != nil {
			return nil, err
		}
		return types.NewArray(elem), nil
	case "set":
		elem, err := UndescribeType(vv.Val)
		if err != nil {
			return nil, err
		}
		return types.NewSet(elem), nil
	case "dict":
		st := vv.Val.(*Struct)
		key, err := UndescribeType(st.Fields["key"])
		if err != nil {
			return nil, err
		}
		val, err := UndescribeType(st.Fields["value"])
		if err != nil {
			return nil, err
		}
		return types.NewDict(key, val), nil
	case "struct":
		arr := vv.Val.(*Array)
		fields := make([]types.Field, len(arr.Vals))
		for i, e := range arr.Vals {
			st := e.(*Struct)
			name, _ := AsString(st.Fields["name"])
			ft, err := UndescribeType(st.Fields["type"])
			if err != nil {
				return nil, err
			}
			fields[i] = types.Field{Name: name, Type: ft}
		}
		return types.NewStruct(fields...), nil
	case "variant":
		arr := vv.Val.(*Array)
		cases := make([]types.Case, len(arr.Vals))
		for i, e := range arr.Vals {
			st := e.(*Struct)
			tag, _ := AsString(st.Fields["tag"])
			ct, err := UndescribeType(st.Fields["type"])
			if err != nil {
				return nil, err
			}
			cases[i] = types.Case{Tag: tag, Type: ct}
		}
		return types.NewVariant(cases...), nil
	case "function", "asyncFunction":
		st := vv.Val.(*Struct)
		inArr := st.Fields["inputs"].(*Array)
		inputs := make([]*types.Type, len(inArr.Vals))
		for i, e := range inArr.Vals {
			t, err := UndescribeType(e)
			if err != nil {
				return nil, err
			}
			inputs[i] = t
		}
		output, err := UndescribeType(st.Fields["output"])
		if err != nil {
			return nil, err
		}
		platArr := st.Fields["platforms"].(*Array)
		platforms := make([]string, len(platArr.Vals))
		for i, e := range platArr.Vals {
			s, _ := AsString(e)
			platforms[i] = s
		}
		if vv.Tag == "asyncFunction" {
			return types.NewAsyncFunction(inputs, output, platforms), nil
		}
		return types.NewFunction(inputs, output, platforms), nil
	case "recursive":
		body, err := UndescribeType(vv.Val)
		if err != nil {
			return nil, err
		}
		return &types.Type{Kind: types.Recursive, Body: body}, nil
	case "recursiveRef":
		depth, _ := AsInt(vv.Val)
		return types.RecursiveRef(int(depth)), nil
	default:
		return nil, fmt.Errorf("unknown type-descriptor tag %q", vv.Tag)
	}
}

func nameAndTypeShape() *types.Type {
	return types.NewStruct(
		types.Field{Name: "name", Type: types.NewString()},
		types.Field{Name: "type", Type: typeDescriptor},
	)
}

func tagAndTypeShape() *types.Type {
	return types.NewStruct(
		types.Field{Name: "tag", Type: types.NewString()},
		types.Field{Name: "type", Type: typeDescriptor},
	)
}

func signatureShape() *types.Type {
	return types.NewStruct(
		types.Field{Name: "inputs", Type: types.NewArray(typeDescriptor)},
		types.Field{Name: "output", Type: typeDescriptor},
		types.Field{Name: "platforms", Type: types.NewArray(types.NewString())},
	)
}

func dictShapeOf() *types.Type {
	return types.NewStruct(
		types.Field{Name: "key", Type: typeDescriptor},
		types.Field{Name: "value", Type: typeDescriptor},
	)
}
