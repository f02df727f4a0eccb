package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/east/ir"
	"github.com/oxhq/east/resolver"
	"github.com/oxhq/east/resolver/ast"
	"github.com/oxhq/east/types"
)

func loc(line, col int) ast.Location { return ast.Location{File: "t.east", Line: line, Col: col} }

func TestUnresolvedVariableIsLocatedError(t *testing.T) {
	v := &ast.Variable{Name: "missing"}
	v.Loc = loc(3, 5)

	_, err := resolver.Resolve(v)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unresolved variable")
	require.Contains(t, err.Error(), "at Variable node located at t.east:3:5")
}

func TestCoercionS9WidthSubtyping(t *testing.T) {
	narrow := types.NewStruct(types.Field{Name: "a", Type: types.NewInteger()})
	wide := types.NewStruct(
		types.Field{Name: "a", Type: types.NewInteger()},
		types.Field{Name: "b", Type: types.NewInteger()},
	)

	initLit := &ast.Literal{Type: narrow, Text: "(a=1)"}
	initLit.Loc = loc(1, 1)
	letNode := &ast.Let{Name: "x", Mutable: true, Init: initLit}
	letNode.Loc = loc(1, 1)

	assignLit := &ast.Literal{Type: wide, Text: "(a=2, b=3)"}
	assignLit.Loc = loc(2, 1)
	assignNode := &ast.Assign{Target: "x", Value: assignLit}
	assignNode.Loc = loc(2, 1)

	block := &ast.Block{Stmts: []ast.Node{letNode, assignNode}}
	block.Loc = loc(1, 1)

	out, err := resolver.Resolve(block)
	require.NoError(t, err)

	blk := out.(*ir.Block)
	assign := blk.Stmts[1].(*ir.Assign)
	as, ok := assign.Value.(*ir.As)
	require.True(t, ok, "expected the wider struct literal to be wrapped in an As coercion")
	require.True(t, types.Equal(as.Type, narrow))
}

func TestBadCoercionIsRejected(t *testing.T) {
	initLit := &ast.Literal{Type: types.NewInteger(), Text: "1"}
	initLit.Loc = loc(1, 1)
	letNode := &ast.Let{Name: "x", Mutable: true, Init: initLit}
	letNode.Loc = loc(1, 1)

	badLit := &ast.Literal{Type: types.NewString(), Text: `"oops"`}
	badLit.Loc = loc(2, 1)
	assignNode := &ast.Assign{Target: "x", Value: badLit}
	assignNode.Loc = loc(2, 1)

	block := &ast.Block{Stmts: []ast.Node{letNode, assignNode}}
	block.Loc = loc(1, 1)

	_, err := resolver.Resolve(block)
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot coerce")
	require.Contains(t, err.Error(), "at Assign node located at t.east:2:1")
}

func TestImmutableAssignIsRejected(t *testing.T) {
	initLit := &ast.Literal{Type: types.NewInteger(), Text: "1"}
	initLit.Loc = loc(1, 1)
	letNode := &ast.Let{Name: "x", Mutable: false, Init: initLit}
	letNode.Loc = loc(1, 1)

	assignLit := &ast.Literal{Type: types.NewInteger(), Text: "2"}
	assignLit.Loc = loc(2, 1)
	assignNode := &ast.Assign{Target: "x", Value: assignLit}
	assignNode.Loc = loc(2, 1)

	block := &ast.Block{Stmts: []ast.Node{letNode, assignNode}}
	block.Loc = loc(1, 1)

	_, err := resolver.Resolve(block)
	require.Error(t, err)
	require.Contains(t, err.Error(), "immutable")
}

func TestFunctionCaptureFlagsOuterBinding(t *testing.T) {
	outerLit := &ast.Literal{Type: types.NewInteger(), Text: "7"}
	outerLit.Loc = loc(1, 1)
	outerLet := &ast.Let{Name: "n", Mutable: false, Init: outerLit}
	outerLet.Loc = loc(1, 1)

	innerVar := &ast.Variable{Name: "n"}
	innerVar.Loc = loc(2, 3)
	fn := &ast.Function{Output: types.NewInteger(), Body: innerVar}
	fn.Loc = loc(2, 1)
	fnLet := &ast.Let{Name: "f", Mutable: false, Init: fn}
	fnLet.Loc = loc(2, 1)

	block := &ast.Block{Stmts: []ast.Node{outerLet, fnLet}}
	block.Loc = loc(1, 1)

	out, err := resolver.Resolve(block)
	require.NoError(t, err)

	blk := out.(*ir.Block)
	fnLetIR := blk.Stmts[1].(*ir.Let)
	fnIR := fnLetIR.Init.(*ir.Function)
	require.Equal(t, []string{"n"}, fnIR.Captures)
}
