// Package resolver implements the AST-to-IR resolution pass of spec.md §4.5
// (C8): lexical scope binding, capture flagging, monotonic local numbering,
// and subtyping-driven coercion insertion, producing a tree of ir.Node.
package resolver

import (
	"fmt"

	"github.com/oxhq/east/internal/errs"
	"github.com/oxhq/east/ir"
	"github.com/oxhq/east/resolver/ast"
	"github.com/oxhq/east/text"
	"github.com/oxhq/east/types"
)

// decl records one lexical binding: its declared type, whether it may be
// reassigned, whether any nested function captures it, and its monotonic
// index within the function that owns it.
type decl struct {
	Type     *types.Type
	Mutable  bool
	Captured bool
	Index    int
}

// funcCtx is the per-function resolution state: a stack of block-level
// scopes (innermost last), the next free local index, and the names this
// function closes over from an enclosing funcCtx, in first-capture order.
type funcCtx struct {
	blocks       []map[string]*decl
	nextIndex    int
	output       *types.Type // declared return type, nil at the top level
	captureOrder []string
	captureSeen  map[string]bool
}

func newFuncCtx(output *types.Type) *funcCtx {
	return &funcCtx{blocks: []map[string]*decl{{}}, output: output, captureSeen: map[string]bool{}}
}

func (f *funcCtx) pushBlock() { f.blocks = append(f.blocks, map[string]*decl{}) }
func (f *funcCtx) popBlock()  { f.blocks = f.blocks[:len(f.blocks)-1] }

func (f *funcCtx) declare(name string, t *types.Type, mutable bool) *decl {
	d := &decl{Type: t, Mutable: mutable, Index: f.nextIndex}
	f.nextIndex++
	f.blocks[len(f.blocks)-1][name] = d
	return d
}

func (f *funcCtx) lookupLocal(name string) *decl {
	for i := len(f.blocks) - 1; i >= 0; i-- {
		if d, ok := f.blocks[i][name]; ok {
			return d
		}
	}
	return nil
}

type resolver struct {
	funcs []*funcCtx
	loops []*ir.Label
}

// Resolve converts root into its IR form, treating the top level as an
// implicit function scope with no declared return type.
func Resolve(root ast.Node) (ir.Node, error) {
	r := &resolver{funcs: []*funcCtx{newFuncCtx(nil)}}
	return r.resolve(root)
}

func (r *resolver) current() *funcCtx { return r.funcs[len(r.funcs)-1] }

// lookup searches the current function's scopes, then each enclosing
// function's, marking the owning decl Captured and recording the name on
// every function after the declaring one, up to and including the current one.
func (r *resolver) lookup(name string) *decl {
	if d := r.current().lookupLocal(name); d != nil {
		return d
	}
	for i := len(r.funcs) - 2; i >= 0; i-- {
		if d := r.funcs[i].lookupLocal(name); d != nil {
			d.Captured = true
			for j := i + 1; j < len(r.funcs); j++ {
				fc := r.funcs[j]
				if !fc.captureSeen[name] {
					fc.captureSeen[name] = true
					fc.captureOrder = append(fc.captureOrder, name)
				}
			}
			return d
		}
	}
	return nil
}

func enrich(err error, kind string, loc ast.Location) error {
	ee, ok := err.(*errs.Error)
	if !ok {
		return err
	}
	ne := *ee
	ne.Message = fmt.Sprintf("%s at %s node located at %s:%d:%d", ne.Message, kind, loc.File, loc.Line, loc.Col)
	return &ne
}

// coerce wraps inner in an ir.As if its type is a strict, valid subtype of
// expected; returns inner unchanged if the types already match; errors
// (CodeBadCoercion) if neither holds.
func coerce(inner ir.Node, expected *types.Type, loc ast.Location) (ir.Node, error) {
	have := inner.NodeType()
	if types.Equal(have, expected) {
		return inner, nil
	}
	if !types.IsSubtype(have, expected) {
		return nil, errs.New(errs.CodeBadCoercion,
			fmt.Sprintf("cannot coerce %s to %s", have.Kind, expected.Kind)).WithPos(loc.Line, loc.Col)
	}
	as := &ir.As{Inner: inner}
	as.Type = expected
	as.Loc = ir.Location{File: loc.File, Line: loc.Line, Col: loc.Col}
	return as, nil
}

func toIRLoc(l ast.Location) ir.Location {
	return ir.Location{File: l.File, Line: l.Line, Col: l.Col}
}

func (r *resolver) resolve(n ast.Node) (ir.Node, error) {
	switch node := n.(type) {
	case *ast.Literal:
		v, perr := text.Parse(node.Text, node.Type)
		if perr != nil {
			return nil, enrich(perr, "Value", node.Loc)
		}
		val := &ir.Value{Val: v}
		val.Type = node.Type
		val.Loc = toIRLoc(node.Loc)
		return val, nil

	case *ast.Variable:
		d := r.lookup(node.Name)
		if d == nil {
			return nil, enrich(errs.New(errs.CodeUnresolvedVariable,
				fmt.Sprintf("unresolved variable %q", node.Name)).WithPos(node.Loc.Line, node.Loc.Col),
				"Variable", node.Loc)
		}
		v := &ir.Variable{Name: node.Name, Index: d.Index}
		v.Type = d.Type
		v.Loc = toIRLoc(node.Loc)
		return v, nil

	case *ast.Let:
		init, err := r.resolve(node.Init)
		if err != nil {
			return nil, enrich(err, "Let", node.Loc)
		}
		d := r.current().declare(node.Name, init.NodeType(), node.Mutable)
		let := &ir.Let{Name: node.Name, Mutable: node.Mutable, Init: init, Index: d.Index}
		let.Type = types.NewNull()
		let.Loc = toIRLoc(node.Loc)
		return let, nil

	case *ast.Assign:
		d := r.lookup(node.Target)
		if d == nil {
			return nil, enrich(errs.New(errs.CodeUnresolvedVariable,
				fmt.Sprintf("unresolved variable %q", node.Target)).WithPos(node.Loc.Line, node.Loc.Col),
				"Assign", node.Loc)
		}
		if !d.Mutable {
			return nil, enrich(errs.New(errs.CodeImmutableAssign,
				fmt.Sprintf("assignment to immutable binding %q", node.Target)).WithPos(node.Loc.Line, node.Loc.Col),
				"Assign", node.Loc)
		}
		val, err := r.resolve(node.Value)
		if err != nil {
			return nil, enrich(err, "Assign", node.Loc)
		}
		coerced, err := coerce(val, d.Type, node.Loc)
		if err != nil {
			return nil, enrich(err, "Assign", node.Loc)
		}
		asn := &ir.Assign{Target: node.Target, Value: coerced}
		asn.Type = types.NewNull()
		asn.Loc = toIRLoc(node.Loc)
		return asn, nil

	case *ast.Block:
		r.current().pushBlock()
		stmts := make([]ir.Node, len(node.Stmts))
		for i, s := range node.Stmts {
			rn, err := r.resolve(s)
			if err != nil {
				r.current().popBlock()
				return nil, enrich(err, "Block", node.Loc)
			}
			stmts[i] = rn
		}
		r.current().popBlock()
		blk := &ir.Block{Stmts: stmts}
		if len(stmts) > 0 {
			blk.Type = stmts[len(stmts)-1].NodeType()
		} else {
			blk.Type = types.NewNull()
		}
		blk.Loc = toIRLoc(node.Loc)
		return blk, nil

	case *ast.Call:
		callee, err := r.resolve(node.Callee)
		if err != nil {
			return nil, enrich(err, "Call", node.Loc)
		}
		calleeType := callee.NodeType()
		args := make([]ir.Node, len(node.Args))
		for i, a := range node.Args {
			rn, err := r.resolve(a)
			if err != nil {
				return nil, enrich(err, "Call", node.Loc)
			}
			if calleeType.Kind == types.Function || calleeType.Kind == types.AsyncFunction {
				if i < len(calleeType.Inputs) {
					rn, err = coerce(rn, calleeType.Inputs[i], node.Loc)
					if err != nil {
						return nil, enrich(err, "Call", node.Loc)
					}
				}
			}
			args[i] = rn
		}
		call := &ir.Call{Callee: callee, Args: args}
		if calleeType.Kind == types.Function || calleeType.Kind == types.AsyncFunction {
			call.Type = calleeType.Output
		} else {
			call.Type = types.NewNever()
		}
		call.Loc = toIRLoc(node.Loc)
		return call, nil

	case *ast.Function:
		inputs := make([]*types.Type, len(node.Params))
		for i, p := range node.Params {
			inputs[i] = p.Type
		}
		fnType := types.NewFunction(inputs, node.Output, nil)
		fc := newFuncCtx(node.Output)
		for i, p := range node.Params {
			d := &decl{Type: p.Type, Mutable: p.Mutable, Index: i}
			fc.nextIndex = i + 1
			fc.blocks[0][p.Name] = d
		}
		r.funcs = append(r.funcs, fc)
		body, err := r.resolve(node.Body)
		if err != nil {
			r.funcs = r.funcs[:len(r.funcs)-1]
			return nil, enrich(err, "Function", node.Loc)
		}
		r.funcs = r.funcs[:len(r.funcs)-1]
		params := make([]ir.Param, len(node.Params))
		for i, p := range node.Params {
			params[i] = ir.Param{Name: p.Name, Type: p.Type, Mutable: p.Mutable}
		}
		fn := &ir.Function{Params: params, Body: body, Captures: fc.captureOrder}
		fn.Type = fnType
		fn.Loc = toIRLoc(node.Loc)
		return fn, nil

	case *ast.Return:
		var val ir.Node
		if node.Value != nil {
			rv, err := r.resolve(node.Value)
			if err != nil {
				return nil, enrich(err, "Return", node.Loc)
			}
			if r.current().output != nil {
				rv, err = coerce(rv, r.current().output, node.Loc)
				if err != nil {
					return nil, enrich(err, "Return", node.Loc)
				}
			}
			val = rv
		}
		ret := &ir.Return{Value: val}
		ret.Type = types.NewNever()
		ret.Loc = toIRLoc(node.Loc)
		return ret, nil

	case *ast.Break:
		label, err := r.findLoop(node.Label, node.Loc)
		if err != nil {
			return nil, enrich(err, "Break", node.Loc)
		}
		b := &ir.Break{Target: label}
		b.Type = types.NewNever()
		b.Loc = toIRLoc(node.Loc)
		return b, nil

	case *ast.Continue:
		label, err := r.findLoop(node.Label, node.Loc)
		if err != nil {
			return nil, enrich(err, "Continue", node.Loc)
		}
		c := &ir.Continue{Target: label}
		c.Type = types.NewNever()
		c.Loc = toIRLoc(node.Loc)
		return c, nil

	default:
		return nil, fmt.Errorf("resolver: unsupported ast node %T", n)
	}
}

func (r *resolver) findLoop(label string, loc ast.Location) (*ir.Label, error) {
	if len(r.loops) == 0 {
		return nil, errs.New(errs.CodeScope, "break/continue outside any enclosing loop").WithPos(loc.Line, loc.Col)
	}
	if label == "" {
		return r.loops[len(r.loops)-1], nil
	}
	for i := len(r.loops) - 1; i >= 0; i-- {
		if r.loops[i].Name == label {
			return r.loops[i], nil
		}
	}
	return nil, errs.New(errs.CodeScope, fmt.Sprintf("no enclosing loop labeled %q", label)).WithPos(loc.Line, loc.Col)
}
