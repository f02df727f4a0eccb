// Package compare implements the comparison engine of spec.md §4.1: it
// compiles a type descriptor once into a set of value functions (identity
// equality, structural equality, ordering, comparator, min/max/clamp) that
// correctly handle cycles in mutable containers and shared references.
package compare

import (
	"github.com/oxhq/east/internal/errs"
	"github.com/oxhq/east/types"
	"github.com/oxhq/east/value"
)

// cycleCtx threads the per-invocation visited-pair set through a single
// Is/Equal/Compare call tree (spec.md §4.1 "Cycle handling"). Is, Equal,
// and Compare each get their own cycleCtx since they are independent call
// trees (SPEC_FULL.md §6).
type cycleCtx struct {
	visited map[pairKey]bool
}

type pairKey struct{ a, b uintptr }

func newCycleCtx() *cycleCtx { return &cycleCtx{visited: make(map[pairKey]bool)} }

// enter records (a, b) as in-progress and reports whether this exact pair
// was already being compared higher up the call stack, in which case the
// caller should short-circuit as equal/0 per spec.md's bisimulation rule.
func (c *cycleCtx) enter(a, b value.Value) (alreadyVisited bool) {
	ida, oka := value.Identity(a)
	idb, okb := value.Identity(b)
	if !oka || !okb {
		return false
	}
	key := pairKey{ida, idb}
	if c.visited[key] {
		return true
	}
	c.visited[key] = true
	return false
}

// node is the internal compiled representation: one per type-descriptor
// node, closing over its children's nodes (spec.md §4.1 "Compilation
// strategy": "constructs a closure ... that closes over per-field
// sub-comparators").
type node struct {
	is      func(c *cycleCtx, a, b value.Value) (bool, error)
	equal   func(c *cycleCtx, a, b value.Value) (bool, error)
	compare func(c *cycleCtx, a, b value.Value) (int, error)
}

// Ops is the family of operations compiled for one type descriptor, the
// public surface of this package.
type Ops struct {
	n *node
}

// Is reports identity/structural equality: for mutable containers, pointer
// identity; for immutable values, full structural equality.
func (o *Ops) Is(a, b value.Value) (bool, error) { return o.n.is(newCycleCtx(), a, b) }

// Equal reports deep structural equality regardless of identity.
func (o *Ops) Equal(a, b value.Value) (bool, error) { return o.n.equal(newCycleCtx(), a, b) }

// Compare returns -1, 0, or 1 under the type's total order.
func (o *Ops) Compare(a, b value.Value) (int, error) { return o.n.compare(newCycleCtx(), a, b) }

// NotEqual negates Equal.
func (o *Ops) NotEqual(a, b value.Value) (bool, error) {
	eq, err := o.Equal(a, b)
	if err != nil {
		return false, err
	}
	return !eq, nil
}

// Less reports whether a < b.
func (o *Ops) Less(a, b value.Value) (bool, error) {
	c, err := o.Compare(a, b)
	return c < 0, err
}

// LessEqual reports whether a <= b.
func (o *Ops) LessEqual(a, b value.Value) (bool, error) {
	c, err := o.Compare(a, b)
	return c <= 0, err
}

// Greater reports whether a > b.
func (o *Ops) Greater(a, b value.Value) (bool, error) {
	c, err := o.Compare(a, b)
	return c > 0, err
}

// GreaterEqual reports whether a >= b.
func (o *Ops) GreaterEqual(a, b value.Value) (bool, error) {
	c, err := o.Compare(a, b)
	return c >= 0, err
}

// Min returns whichever of a, b compares smaller (a on ties).
func (o *Ops) Min(a, b value.Value) (value.Value, error) {
	c, err := o.Compare(a, b)
	if err != nil {
		return nil, err
	}
	if c <= 0 {
		return a, nil
	}
	return b, nil
}

// Max returns whichever of a, b compares larger (a on ties).
func (o *Ops) Max(a, b value.Value) (value.Value, error) {
	c, err := o.Compare(a, b)
	if err != nil {
		return nil, err
	}
	if c >= 0 {
		return a, nil
	}
	return b, nil
}

// MustCompare adapts Compare to the bare func(a, b Value) int shape that
// collections.SortedSet/SortedMap and value.NewSet/NewDict expect as their
// comparator. It panics if Compare errors, which only happens for
// Function/AsyncFunction/Never key types — descriptors spec.md §3.1 already
// disallows as Set/Dict keys.
func (o *Ops) MustCompare(a, b value.Value) int {
	c, err := o.Compare(a, b)
	if err != nil {
		panic(err)
	}
	return c
}

// Clamp returns x restricted to [lo, hi] (lo must compare <= hi).
func (o *Ops) Clamp(x, lo, hi value.Value) (value.Value, error) {
	c, err := o.Compare(x, lo)
	if err != nil {
		return nil, err
	}
	if c < 0 {
		return lo, nil
	}
	c, err = o.Compare(x, hi)
	if err != nil {
		return nil, err
	}
	if c > 0 {
		return hi, nil
	}
	return x, nil
}

func opaqueErr(kind types.Kind) error {
	return errs.New(errs.CodeCompareOpaque, "attempted to compare values of ."+kind.String())
}

// compiler holds the De Bruijn-indexed stack of partially built nodes used
// while compiling Recursive descriptors (spec.md §9), mirroring
// types.Recursive's own construction-time stack.
type compiler struct {
	stack []*node
}

// Compile produces the comparison operation family for t. Compile fails
// only for structurally invalid descriptors; Function/AsyncFunction/Never
// compile successfully but every Ops call on them returns an opaque-compare
// error at invocation time (spec.md §7 treats this as a runtime error
// surfaced to the caller, not a compile-time rejection).
func Compile(t *types.Type) (*Ops, error) {
	c := &compiler{}
	n, err := c.compile(t)
	if err != nil {
		return nil, err
	}
	return &Ops{n: n}, nil
}

func (c *compiler) compile(t *types.Type) (*node, error) {
	if t == nil {
		return nil, errs.New(errs.CodeUnknownType, "Unknown type: nil")
	}
	switch t.Kind {
	case types.Never:
		return opaqueNode(types.Never), nil
	case types.Null:
		return nullNode(), nil
	case types.Boolean:
		return boolNode(), nil
	case types.Integer:
		return intNode(), nil
	case types.Float:
		return floatNode(), nil
	case types.String:
		return stringNode(), nil
	case types.DateTime:
		return dateTimeNode(), nil
	case types.Blob:
		return blobNode(), nil
	case types.Function:
		return opaqueNode(types.Function), nil
	case types.AsyncFunction:
		return opaqueNode(types.AsyncFunction), nil
	case types.Ref:
		elem, err := c.compile(t.Elem)
		if err != nil {
			return nil, err
		}
		return refNode(elem), nil
	case types.Array:
		elem, err := c.compile(t.Elem)
		if err != nil {
			return nil, err
		}
		return arrayNode(elem), nil
	case types.Set:
		elem, err := c.compile(t.Elem)
		if err != nil {
			return nil, err
		}
		return setNode(elem), nil
	case types.Dict:
		key, err := c.compile(t.Key)
		if err != nil {
			return nil, err
		}
		val, err := c.compile(t.Elem)
		if err != nil {
			return nil, err
		}
		return dictNode(key, val), nil
	case types.Struct:
		fieldNodes := make([]*node, len(t.Fields))
		names := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			fn, err := c.compile(f.Type)
			if err != nil {
				return nil, err
			}
			fieldNodes[i] = fn
			names[i] = f.Name
		}
		return structNode(names, fieldNodes), nil
	case types.Variant:
		caseNodes := make([]*node, len(t.Cases))
		tags := make([]string, len(t.Cases))
		for i, cs := range t.Cases {
			cn, err := c.compile(cs.Type)
			if err != nil {
				return nil, err
			}
			caseNodes[i] = cn
			tags[i] = cs.Tag
		}
		return variantNode(tags, caseNodes), nil
	case types.Recursive:
		// Two-phase: push a placeholder the body's back-edges can close
		// over, then backfill it once the body itself compiles, mirroring
		// types.Recursive's sentinel/backfill construction.
		placeholder := &node{}
		c.stack = append(c.stack, placeholder)
		body, err := c.compile(t.Body)
		c.stack = c.stack[:len(c.stack)-1]
		if err != nil {
			return nil, err
		}
		*placeholder = *body
		return body, nil
	default:
		if depth, ok := types.IsRecursiveRef(t); ok {
			idx := len(c.stack) - depth
			if idx < 0 || idx >= len(c.stack) {
				return nil, errs.New(errs.CodeUnknownType, "recursive reference depth out of range")
			}
			return c.stack[idx], nil
		}
		return nil, errs.New(errs.CodeUnknownType, "Unknown type: "+t.Kind.String())
	}
}

func opaqueNode(k types.Kind) *node {
	failB := func(*cycleCtx, value.Value, value.Value) (bool, error) { return false, opaqueErr(k) }
	failI := func(*cycleCtx, value.Value, value.Value) (int, error) { return 0, opaqueErr(k) }
	return &node{is: failB, equal: failB, compare: failI}
}

func nullNode() *node {
	return &node{
		is:      func(*cycleCtx, value.Value, value.Value) (bool, error) { return true, nil },
		equal:   func(*cycleCtx, value.Value, value.Value) (bool, error) { return true, nil },
		compare: func(*cycleCtx, value.Value, value.Value) (int, error) { return 0, nil },
	}
}

func boolNode() *node {
	get := func(v value.Value) bool { b, _ := value.AsBool(v); return b }
	eq := func(_ *cycleCtx, a, b value.Value) (bool, error) { return get(a) == get(b), nil }
	cmp := func(_ *cycleCtx, a, b value.Value) (int, error) {
		av, bv := get(a), get(b)
		if av == bv {
			return 0, nil
		}
		if !av && bv {
			return -1, nil
		}
		return 1, nil
	}
	return &node{is: eq, equal: eq, compare: cmp}
}

func intNode() *node {
	get := func(v value.Value) int64 { i, _ := value.AsInt(v); return i }
	eq := func(_ *cycleCtx, a, b value.Value) (bool, error) { return get(a) == get(b), nil }
	cmp := func(_ *cycleCtx, a, b value.Value) (int, error) {
		av, bv := get(a), get(b)
		switch {
		case av < bv:
			return -1, nil
		case av > bv:
			return 1, nil
		default:
			return 0, nil
		}
	}
	return &node{is: eq, equal: eq, compare: cmp}
}

func dateTimeNode() *node {
	get := func(v value.Value) (t int64) {
		tv, _ := value.AsDateTime(v)
		return tv.UnixMilli()
	}
	eq := func(_ *cycleCtx, a, b value.Value) (bool, error) { return get(a) == get(b), nil }
	cmp := func(_ *cycleCtx, a, b value.Value) (int, error) {
		av, bv := get(a), get(b)
		switch {
		case av < bv:
			return -1, nil
		case av > bv:
			return 1, nil
		default:
			return 0, nil
		}
	}
	return &node{is: eq, equal: eq, compare: cmp}
}
