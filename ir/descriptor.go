package ir

import (
	"github.com/oxhq/east/types"
	"github.com/oxhq/east/value"
)

// descriptor is built once: the homoiconic Variant type over every IR tag,
// per spec.md §2's "IR is a tree of variant nodes whose structural type is
// itself describable by C1". An optional child node (Return's value,
// IfElse's else-branch) is represented as a
// zero-or-one-element Array rather than inventing an Option kind the type
// algebra doesn't have.
var descriptor = buildDescriptor()

func optional(self *types.Type) *types.Type { return types.NewArray(self) }

func locShape() *types.Type {
	return types.NewStruct(
		types.Field{Name: "file", Type: types.NewString()},
		types.Field{Name: "line", Type: types.NewInteger()},
		types.Field{Name: "col", Type: types.NewInteger()},
	)
}

func labelShape() *types.Type {
	return types.NewStruct(
		types.Field{Name: "name", Type: types.NewString()},
		types.Field{Name: "loc", Type: locShape()},
	)
}

func paramShape() *types.Type {
	return types.NewStruct(
		types.Field{Name: "name", Type: types.NewString()},
		types.Field{Name: "type", Type: value.TypeDescriptorType()},
		types.Field{Name: "mutable", Type: types.NewBoolean()},
	)
}

// common builds the two fields every node carries, shared by every case
// struct below.
func common() []types.Field {
	return []types.Field{
		{Name: "type", Type: value.TypeDescriptorType()},
		{Name: "loc", Type: locShape()},
	}
}

func buildDescriptor() *types.Type {
	return types.Recursive(func(self *types.Type) *types.Type {
		fieldInitShape := types.NewStruct(
			types.Field{Name: "name", Type: types.NewString()},
			types.Field{Name: "value", Type: self},
		)
		dictEntryShape := types.NewStruct(
			types.Field{Name: "key", Type: self},
			types.Field{Name: "value", Type: self},
		)
		matchCaseShape := types.NewStruct(
			types.Field{Name: "tag", Type: types.NewString()},
			types.Field{Name: "bind", Type: types.NewString()},
			types.Field{Name: "body", Type: self},
		)

		fn := func(name string, extra ...types.Field) types.Case {
			return types.Case{Tag: name, Type: types.NewStruct(append(common(), extra...)...)}
		}

		return types.NewVariant(
			fn("Error", types.Field{Name: "message", Type: types.NewString()}),
			fn("TryCatch",
				types.Field{Name: "try", Type: self},
				types.Field{Name: "catchVar", Type: types.NewString()},
				types.Field{Name: "catch", Type: self}),
			fn("Value", types.Field{Name: "literal", Type: types.NewString()}),
			fn("Variable",
				types.Field{Name: "name", Type: types.NewString()},
				types.Field{Name: "index", Type: types.NewInteger()}),
			fn("Let",
				types.Field{Name: "name", Type: types.NewString()},
				types.Field{Name: "mutable", Type: types.NewBoolean()},
				types.Field{Name: "init", Type: self},
				types.Field{Name: "index", Type: types.NewInteger()}),
			fn("Assign",
				types.Field{Name: "target", Type: types.NewString()},
				types.Field{Name: "value", Type: self}),
			fn("As", types.Field{Name: "inner", Type: self}),
			fn("Function",
				types.Field{Name: "params", Type: types.NewArray(paramShape())},
				types.Field{Name: "body", Type: self},
				types.Field{Name: "captures", Type: types.NewArray(types.NewString())}),
			fn("AsyncFunction",
				types.Field{Name: "params", Type: types.NewArray(paramShape())},
				types.Field{Name: "body", Type: self},
				types.Field{Name: "captures", Type: types.NewArray(types.NewString())}),
			fn("Call",
				types.Field{Name: "callee", Type: self},
				types.Field{Name: "args", Type: types.NewArray(self)}),
			fn("CallAsync",
				types.Field{Name: "callee", Type: self},
				types.Field{Name: "args", Type: types.NewArray(self)}),
			fn("NewRef", types.Field{Name: "init", Type: self}),
			fn("NewArray", types.Field{Name: "elems", Type: types.NewArray(self)}),
			fn("NewSet", types.Field{Name: "elems", Type: types.NewArray(self)}),
			fn("NewDict", types.Field{Name: "entries", Type: types.NewArray(dictEntryShape)}),
			fn("Struct", types.Field{Name: "fields", Type: types.NewArray(fieldInitShape)}),
			fn("GetField",
				types.Field{Name: "target", Type: self},
				types.Field{Name: "field", Type: types.NewString()}),
			fn("Variant",
				types.Field{Name: "tag", Type: types.NewString()},
				types.Field{Name: "value", Type: self}),
			fn("Block", types.Field{Name: "stmts", Type: types.NewArray(self)}),
			fn("IfElse",
				types.Field{Name: "cond", Type: self},
				types.Field{Name: "then", Type: self},
				types.Field{Name: "else", Type: optional(self)}),
			fn("Match",
				types.Field{Name: "subject", Type: self},
				types.Field{Name: "cases", Type: types.NewArray(matchCaseShape)}),
			fn("UnwrapRecursive", types.Field{Name: "inner", Type: self}),
			fn("WrapRecursive", types.Field{Name: "inner", Type: self}),
			fn("While",
				types.Field{Name: "label", Type: labelShape()},
				types.Field{Name: "cond", Type: self},
				types.Field{Name: "body", Type: self}),
			fn("ForArray",
				types.Field{Name: "label", Type: labelShape()},
				types.Field{Name: "iterable", Type: self},
				types.Field{Name: "elemName", Type: types.NewString()},
				types.Field{Name: "body", Type: self}),
			fn("ForSet",
				types.Field{Name: "label", Type: labelShape()},
				types.Field{Name: "iterable", Type: self},
				types.Field{Name: "elemName", Type: types.NewString()},
				types.Field{Name: "body", Type: self}),
			fn("ForDict",
				types.Field{Name: "label", Type: labelShape()},
				types.Field{Name: "iterable", Type: self},
				types.Field{Name: "keyName", Type: types.NewString()},
				types.Field{Name: "valueName", Type: types.NewString()},
				types.Field{Name: "body", Type: self}),
			fn("Return", types.Field{Name: "value", Type: optional(self)}),
			fn("Continue", types.Field{Name: "target", Type: labelShape()}),
			fn("Break", types.Field{Name: "target", Type: labelShape()}),
			fn("Builtin",
				types.Field{Name: "name", Type: types.NewString()},
				types.Field{Name: "args", Type: types.NewArray(self)}),
			fn("Platform",
				types.Field{Name: "name", Type: types.NewString()},
				types.Field{Name: "args", Type: types.NewArray(self)}),
		)
	})
}

// Descriptor returns the homoiconic type every IR node's value.Value form
// is an instance of.
func Descriptor() *types.Type { return descriptor }
