// Package ir implements the closed intermediate-representation node set of
// spec.md §3.3 (C7): a Go sum type over every IR tag, each carrying the
// type it evaluates to and its source location, plus the homoiconic
// conversion to/from the general value model (value.Value) that lets the
// text and JSON codecs serialize IR trees with no IR-specific codec code.
package ir

import (
	"github.com/oxhq/east/types"
	"github.com/oxhq/east/value"
)

// Location is a source position: a filename plus 1-based line/column.
type Location struct {
	File string
	Line int
	Col  int
}

// Label names a loop, referenced by identity (not name) from Break/Continue
// per spec.md §3.3.
type Label struct {
	Name string
	Loc  Location
}

// Kind enumerates the complete IR tag set of spec.md §3.3.
type Kind int

const (
	KindError Kind = iota
	KindTryCatch
	KindValue
	KindVariable
	KindLet
	KindAssign
	KindAs
	KindFunction
	KindAsyncFunction
	KindCall
	KindCallAsync
	KindNewRef
	KindNewArray
	KindNewSet
	KindNewDict
	KindStruct
	KindGetField
	KindVariant
	KindBlock
	KindIfElse
	KindMatch
	KindUnwrapRecursive
	KindWrapRecursive
	KindWhile
	KindForArray
	KindForSet
	KindForDict
	KindReturn
	KindContinue
	KindBreak
	KindBuiltin
	KindPlatform
)

var kindNames = [...]string{
	"Error", "TryCatch", "Value", "Variable", "Let", "Assign", "As",
	"Function", "AsyncFunction", "Call", "CallAsync", "NewRef", "NewArray",
	"NewSet", "NewDict", "Struct", "GetField", "Variant", "Block", "IfElse",
	"Match", "UnwrapRecursive", "WrapRecursive", "While", "ForArray",
	"ForSet", "ForDict", "Return", "Continue", "Break", "Builtin", "Platform",
}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// Node is implemented by every concrete IR node. Kind identifies which of
// the §3.3 tags it is; NodeType and Location expose the two fields every tag
// carries.
type Node interface {
	Kind() Kind
	NodeType() *types.Type
	Location() Location
}

// base is embedded by every concrete node to supply the two universal
// fields without repeating their accessor methods.
type base struct {
	Type *types.Type
	Loc  Location
}

func (b base) NodeType() *types.Type { return b.Type }
func (b base) Location() Location    { return b.Loc }

// Param is a function parameter: a name, declared type, and mutability.
type Param struct {
	Name    string
	Type    *types.Type
	Mutable bool
}

// FieldInit is one field of a Struct literal, in declaration order.
type FieldInit struct {
	Name  string
	Value Node
}

// DictEntry is one key/value pair of a NewDict literal.
type DictEntry struct {
	Key   Node
	Value Node
}

// MatchCase is one arm of a Match: the variant tag it handles, the name its
// payload is bound to, and the arm body.
type MatchCase struct {
	Tag  string
	Bind string
	Body Node
}

type Error struct {
	base
	Message string
}

func (Error) Kind() Kind { return KindError }

type TryCatch struct {
	base
	Try      Node
	CatchVar string
	Catch    Node
}

func (TryCatch) Kind() Kind { return KindTryCatch }

// Value wraps a literal value.Value as an IR leaf.
type Value struct {
	base
	Val value.Value
}

func (Value) Kind() Kind { return KindValue }

type Variable struct {
	base
	Name  string
	Index int // monotonic local index assigned by the resolver, §4.5
}

func (Variable) Kind() Kind { return KindVariable }

type Let struct {
	base
	Name    string
	Mutable bool
	Init    Node
	Index   int
}

func (Let) Kind() Kind { return KindLet }

type Assign struct {
	base
	Target string
	Value  Node
}

func (Assign) Kind() Kind { return KindAssign }

// As is a synthesized or explicit subtyping coercion (S9).
type As struct {
	base
	Inner Node
}

func (As) Kind() Kind { return KindAs }

type Function struct {
	base
	Params   []Param
	Body     Node
	Captures []string
}

func (Function) Kind() Kind { return KindFunction }

type AsyncFunction struct {
	base
	Params   []Param
	Body     Node
	Captures []string
}

func (AsyncFunction) Kind() Kind { return KindAsyncFunction }

type Call struct {
	base
	Callee Node
	Args   []Node
}

func (Call) Kind() Kind { return KindCall }

type CallAsync struct {
	base
	Callee Node
	Args   []Node
}

func (CallAsync) Kind() Kind { return KindCallAsync }

type NewRef struct {
	base
	Init Node
}

func (NewRef) Kind() Kind { return KindNewRef }

type NewArray struct {
	base
	Elems []Node
}

func (NewArray) Kind() Kind { return KindNewArray }

type NewSet struct {
	base
	Elems []Node
}

func (NewSet) Kind() Kind { return KindNewSet }

type NewDict struct {
	base
	Entries []DictEntry
}

func (NewDict) Kind() Kind { return KindNewDict }

type Struct struct {
	base
	Fields []FieldInit
}

func (Struct) Kind() Kind { return KindStruct }

type GetField struct {
	base
	Target Node
	Field  string
}

func (GetField) Kind() Kind { return KindGetField }

type Variant struct {
	base
	Tag   string
	Value Node
}

func (Variant) Kind() Kind { return KindVariant }

type Block struct {
	base
	Stmts []Node
}

func (Block) Kind() Kind { return KindBlock }

type IfElse struct {
	base
	Cond Node
	Then Node
	Else Node
}

func (IfElse) Kind() Kind { return KindIfElse }

type Match struct {
	base
	Subject Node
	Cases   []MatchCase
}

func (Match) Kind() Kind { return KindMatch }

type UnwrapRecursive struct {
	base
	Inner Node
}

func (UnwrapRecursive) Kind() Kind { return KindUnwrapRecursive }

type WrapRecursive struct {
	base
	Inner Node
}

func (WrapRecursive) Kind() Kind { return KindWrapRecursive }

type While struct {
	base
	Label Label
	Cond  Node
	Body  Node
}

func (While) Kind() Kind { return KindWhile }

type ForArray struct {
	base
	Label    Label
	Iterable Node
	ElemName string
	Body     Node
}

func (ForArray) Kind() Kind { return KindForArray }

type ForSet struct {
	base
	Label    Label
	Iterable Node
	ElemName string
	Body     Node
}

func (ForSet) Kind() Kind { return KindForSet }

type ForDict struct {
	base
	Label     Label
	Iterable  Node
	KeyName   string
	ValueName string
	Body      Node
}

func (ForDict) Kind() Kind { return KindForDict }

type Return struct {
	base
	Value Node
}

func (Return) Kind() Kind { return KindReturn }

// Continue/Break reference their target loop by identity: Target points at
// the very *Label instance the enclosing loop node carries.
type Continue struct {
	base
	Target *Label
}

func (Continue) Kind() Kind { return KindContinue }

type Break struct {
	base
	Target *Label
}

func (Break) Kind() Kind { return KindBreak }

type Builtin struct {
	base
	Name string
	Args []Node
}

func (Builtin) Kind() Kind { return KindBuiltin }

type Platform struct {
	base
	Name string
	Args []Node
}

func (Platform) Kind() Kind { return KindPlatform }
