package ir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/east/ejson"
	"github.com/oxhq/east/ir"
	"github.com/oxhq/east/text"
	"github.com/oxhq/east/types"
	"github.com/oxhq/east/value"
)

func TestNodeRoundTripThroughText(t *testing.T) {
	loc := ir.Location{File: "a.east", Line: 1, Col: 1}
	lit := func(n int64) *ir.Value {
		v := &ir.Value{Val: value.Int(n)}
		v.Type = types.NewInteger()
		v.Loc = loc
		return v
	}
	label := ir.Label{Name: "loop", Loc: loc}

	tree := &ir.ForArray{
		Label:    label,
		Iterable: &ir.Variable{Name: "xs", Index: 0},
		ElemName: "x",
		Body: &ir.Block{
			Stmts: []ir.Node{
				&ir.IfElse{
					Cond: lit(1),
					Then: &ir.Break{Target: &label},
					Else: nil,
				},
			},
		},
	}
	tree.Iterable.(*ir.Variable).Type = types.NewArray(types.NewInteger())
	tree.Iterable.(*ir.Variable).Loc = loc
	tree.Body.(*ir.Block).Type = types.NewNull()
	tree.Body.(*ir.Block).Loc = loc
	ifNode := tree.Body.(*ir.Block).Stmts[0].(*ir.IfElse)
	ifNode.Type = types.NewNull()
	ifNode.Loc = loc
	ifNode.Then.(*ir.Break).Type = types.NewNull()
	ifNode.Then.(*ir.Break).Loc = loc
	tree.Type = types.NewNull()
	tree.Loc = loc

	val := ir.ToValue(tree)
	printed, err := text.Print(val, ir.Descriptor())
	require.NoError(t, err)

	parsed, perr := text.Parse(printed, ir.Descriptor())
	require.Nil(t, perr)

	back, ferr := ir.FromValue(parsed)
	require.NoError(t, ferr)

	forArr, ok := back.(*ir.ForArray)
	require.True(t, ok)
	require.Equal(t, "x", forArr.ElemName)
	require.Equal(t, "loop", forArr.Label.Name)
	body := forArr.Body.(*ir.Block)
	ifBack := body.Stmts[0].(*ir.IfElse)
	require.Nil(t, ifBack.Else)
	brk := ifBack.Then.(*ir.Break)
	require.Equal(t, "loop", brk.Target.Name)
}

func TestNodeRoundTripThroughJSON(t *testing.T) {
	loc := ir.Location{File: "b.east", Line: 2, Col: 4}
	lit := &ir.Value{Val: value.String("hi")}
	lit.Type = types.NewString()
	lit.Loc = loc

	letNode := &ir.Let{Name: "x", Mutable: false, Init: lit, Index: 0}
	letNode.Type = types.NewNull()
	letNode.Loc = loc

	val := ir.ToValue(letNode)
	out, err := ejson.Encode(val, ir.Descriptor())
	require.NoError(t, err)

	decoded, derr := ejson.Decode(out, ir.Descriptor())
	require.NoError(t, derr)

	back, ferr := ir.FromValue(decoded)
	require.NoError(t, ferr)
	letBack, ok := back.(*ir.Let)
	require.True(t, ok)
	require.Equal(t, "x", letBack.Name)
	inner := letBack.Init.(*ir.Value)
	s, _ := value.AsString(inner.Val)
	require.Equal(t, "hi", s)
}
