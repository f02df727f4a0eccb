// Package value implements the general runtime value model of spec.md
// §3.2: the tagged-union representation (C2) used for every value in this
// system, immutable and mutable alike, plus the identity primitive the
// comparison engine and the text/JSON codecs use for cycle and alias
// detection over mutable containers.
package value

import (
	"reflect"
	"time"

	"github.com/oxhq/east/internal/errs"
	"github.com/oxhq/east/types"
)

// Value is implemented by every concrete value kind. It carries no
// behavior of its own beyond identifying its Kind; all type-directed
// behavior (equality, ordering, printing, encoding) lives in the compare,
// text, and ejson packages, which dispatch on a types.Type, not on a Go
// type switch over Value — see spec.md §2's "type-directed operator
// families" framing.
type Value interface {
	Kind() types.Kind
}

type vNull struct{}

func (vNull) Kind() types.Kind { return types.Null }

// Null is the single inhabitant of the Null type.
var Null Value = vNull{}

type vBool bool

func (vBool) Kind() types.Kind { return types.Boolean }

// Bool wraps a boolean.
func Bool(b bool) Value { return vBool(b) }

// AsBool extracts the underlying boolean. ok is false if v is not a Boolean.
func AsBool(v Value) (b bool, ok bool) {
	vb, ok := v.(vBool)
	return bool(vb), ok
}

type vInt int64

func (vInt) Kind() types.Kind { return types.Integer }

// Int wraps a signed 64-bit integer.
func Int(i int64) Value { return vInt(i) }

// AsInt extracts the underlying integer. ok is false if v is not an Integer.
func AsInt(v Value) (i int64, ok bool) {
	vi, ok := v.(vInt)
	return int64(vi), ok
}

type vFloat float64

func (vFloat) Kind() types.Kind { return types.Float }

// Float wraps an IEEE-754 double.
func Float(f float64) Value { return vFloat(f) }

// AsFloat extracts the underlying float. ok is false if v is not a Float.
func AsFloat(v Value) (f float64, ok bool) {
	vf, ok := v.(vFloat)
	return float64(vf), ok
}

type vString string

func (vString) Kind() types.Kind { return types.String }

// String wraps a Unicode scalar value sequence.
func String(s string) Value { return vString(s) }

// AsString extracts the underlying string. ok is false if v is not a String.
func AsString(v Value) (s string, ok bool) {
	vs, ok := v.(vString)
	return string(vs), ok
}

type vDateTime time.Time

func (vDateTime) Kind() types.Kind { return types.DateTime }

// DateTime wraps an instant, truncated to millisecond resolution and
// normalized to UTC, per spec.md §3.1's "instant with millisecond
// resolution, no zone".
func DateTime(t time.Time) Value {
	return vDateTime(t.UTC().Truncate(time.Millisecond))
}

// AsDateTime extracts the underlying instant. ok is false if v is not a DateTime.
func AsDateTime(v Value) (t time.Time, ok bool) {
	vt, ok := v.(vDateTime)
	return time.Time(vt), ok
}

type vBlob []byte

func (vBlob) Kind() types.Kind { return types.Blob }

// Blob wraps a finite byte sequence. The slice is not copied; callers must
// not mutate it afterwards, consistent with the codecs' read-only borrowing
// policy (spec.md §5).
func Blob(b []byte) Value { return vBlob(b) }

// AsBlob extracts the underlying bytes. ok is false if v is not a Blob.
func AsBlob(v Value) (b []byte, ok bool) {
	vb, ok := v.(vBlob)
	return []byte(vb), ok
}

// Ref is a single-cell mutable reference, heap-identity meaningful per
// spec.md §3.2.
type Ref struct {
	Elem *types.Type
	Val  Value
}

func (*Ref) Kind() types.Kind { return types.Ref }

// NewRef allocates a fresh mutable reference cell.
func NewRef(elem *types.Type, v Value) *Ref {
	return &Ref{Elem: elem, Val: v}
}

// Array is a finite ordered mutable sequence, heap-identity meaningful.
type Array struct {
	Elem *types.Type
	Vals []Value
}

func (*Array) Kind() types.Kind { return types.Array }

// NewArray allocates a fresh mutable array. vals is taken by reference, not
// copied (the codecs' and comparator's read-only contract, spec.md §5,
// means callers should not alias the backing slice elsewhere if they intend
// to continue mutating it independently).
func NewArray(elem *types.Type, vals []Value) *Array {
	return &Array{Elem: elem, Vals: vals}
}

// Struct is a heterogeneous record whose field set equals its descriptor's
// fields exactly: no extra or missing fields (spec.md §3.2).
type Struct struct {
	Type   *types.Type
	Fields map[string]Value
}

func (*Struct) Kind() types.Kind { return types.Struct }

// NewStruct builds a Struct value, validating fields against t's descriptor:
// every declared field must be present and no extra field may appear.
func NewStruct(t *types.Type, fields map[string]Value) (*Struct, error) {
	if t.Kind != types.Struct {
		return nil, errs.New(errs.CodeTypeMismatch, "NewStruct: type is not Struct")
	}
	if len(fields) != len(t.Fields) {
		return nil, errs.New(errs.CodeTypeMismatch, "NewStruct: field count does not match descriptor")
	}
	for _, f := range t.Fields {
		if _, ok := fields[f.Name]; !ok {
			return nil, errs.New(errs.CodeMissingField, "NewStruct: missing field "+f.Name)
		}
	}
	return &Struct{Type: t, Fields: fields}, nil
}

// Variant is a tagged union value: a tag drawn from the descriptor's cases
// plus an inner value of that case's type (spec.md §3.2).
type Variant struct {
	Type *types.Type
	Tag  string
	Val  Value
}

func (*Variant) Kind() types.Kind { return types.Variant }

// NewVariant builds a Variant value, validating tag against t's descriptor.
func NewVariant(t *types.Type, tag string, v Value) (*Variant, error) {
	if t.Kind != types.Variant {
		return nil, errs.New(errs.CodeTypeMismatch, "NewVariant: type is not Variant")
	}
	for _, c := range t.Cases {
		if c.Tag == tag {
			return &Variant{Type: t, Tag: tag, Val: v}, nil
		}
	}
	return nil, errs.New(errs.CodeUnknownTag, "NewVariant: unknown tag "+tag)
}

// Function and AsyncFunction values are opaque per spec.md §3.1; Impl is an
// arbitrary host-supplied payload the runtime collaborator (out of scope
// here) attaches, never inspected by this module.
type Function struct {
	Type *types.Type
	Impl any
}

func (*Function) Kind() types.Kind { return types.Function }

type AsyncFunction struct {
	Type *types.Type
	Impl any
}

func (*AsyncFunction) Kind() types.Kind { return types.AsyncFunction }

// Identity exposes a stable identity for mutable containers (Ref, Array,
// Set, Dict), used by the comparison engine's cycle-visited sets and by the
// text/JSON codecs' alias maps. ok is false for immutable values, which
// have no useful heap identity under this system's equality contract.
func Identity(v Value) (id uintptr, ok bool) {
	switch p := v.(type) {
	case *Ref:
		return reflect.ValueOf(p).Pointer(), true
	case *Array:
		return reflect.ValueOf(p).Pointer(), true
	case *Set:
		return reflect.ValueOf(p).Pointer(), true
	case *Dict:
		return reflect.ValueOf(p).Pointer(), true
	default:
		return 0, false
	}
}

// IsMutable reports whether v is one of the four heap-identity-meaningful
// mutable container kinds (spec.md §3.2).
func IsMutable(v Value) bool {
	_, ok := Identity(v)
	return ok
}
