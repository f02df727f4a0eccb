// Package ast defines the minimal source-tree surface the resolver
// consumes: an external parser/AST-builder is this core's collaborator
// (spec.md §1), so this package only names the node shapes resolution
// logic itself needs, not a full language grammar.
package ast

import "github.com/oxhq/east/types"

// Location is a source position: a filename plus 1-based line/column.
type Location struct {
	File string
	Line int
	Col  int
}

// Node is implemented by every AST node the resolver can walk.
type Node interface {
	Location() Location
}

type base struct {
	Loc Location
}

func (b base) Location() Location { return b.Loc }

// Literal is a source-level constant with an already-known type; it is the
// leaf every expression chain bottoms out at (spec.md §4.5 describes type
// inference flowing from leaves upward, which requires some leaf to carry a
// concrete type — variables alone cannot supply one at the root of an
// expression).
type Literal struct {
	base
	Type *types.Type
	Text string // printed per the text codec's grammar (§6.1); parsed against Type on resolve
}

// Block is an ordered sequence of statements, introducing a new scope.
type Block struct {
	base
	Stmts []Node
}

// Let declares a new local binding, optionally mutable.
type Let struct {
	base
	Name    string
	Mutable bool
	Init    Node
}

// Variable references a previously declared binding by name.
type Variable struct {
	base
	Name string
}

// Assign stores a new value into an existing mutable binding.
type Assign struct {
	base
	Target string
	Value  Node
}

// Call invokes a callee with the given arguments.
type Call struct {
	base
	Callee Node
	Args   []Node
}

// ParamDecl is one declared parameter of a Function literal.
type ParamDecl struct {
	Name    string
	Type    *types.Type
	Mutable bool
}

// Function is a function literal; Output is its declared result type.
type Function struct {
	base
	Params []ParamDecl
	Output *types.Type
	Body   Node
}

// Return exits the enclosing function, optionally with a value.
type Return struct {
	base
	Value Node // nil for a bare return
}

// Break exits the named enclosing loop (empty Label means the innermost).
type Break struct {
	base
	Label string
}

// Continue restarts the named enclosing loop (empty Label means the innermost).
type Continue struct {
	base
	Label string
}
