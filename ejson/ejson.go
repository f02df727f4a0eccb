// Package ejson implements the structural JSON codec of spec.md §4.3/§6.2:
// a type-directed Encode/Decode pair over encoding/json's generic tree,
// with a `$ref` relative-pointer scheme that preserves sharing and allows
// cyclic mutable graphs to round-trip.
package ejson

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"

	"github.com/oxhq/east/internal/errs"
	"github.com/oxhq/east/types"
	"github.com/oxhq/east/value"
)

// rejectOpaque reports whether t (or anything reachable from it) is
// Function, AsyncFunction, or Never, which §6.2 rejects at codec creation
// time rather than per-value.
func rejectOpaque(t *types.Type, seen map[*types.Type]bool) error {
	if t == nil || seen[t] {
		return nil
	}
	seen[t] = true
	switch t.Kind {
	case types.Function, types.AsyncFunction, types.Never:
		return errs.New(errs.CodeTypeMismatch, "type "+t.Kind.String()+" cannot be JSON-encoded")
	case types.Ref, types.Array, types.Set:
		return rejectOpaque(t.Elem, seen)
	case types.Dict:
		if err := rejectOpaque(t.Key, seen); err != nil {
			return err
		}
		return rejectOpaque(t.Elem, seen)
	case types.Struct:
		for _, f := range t.Fields {
			if err := rejectOpaque(f.Type, seen); err != nil {
				return err
			}
		}
	case types.Variant:
		for _, c := range t.Cases {
			if err := rejectOpaque(c.Type, seen); err != nil {
				return err
			}
		}
	case types.Recursive:
		return rejectOpaque(t.Body, seen)
	}
	return nil
}

// Encode renders v (of type t) as the JSON wire form of spec.md §4.3,
// substituting `{"$ref":"U#R"}` wherever a mutable container is
// re-encountered, using the same relative-pointer scheme as the text codec
// but with `/`-separated RFC-6901-escaped path components.
func Encode(v value.Value, t *types.Type) ([]byte, error) {
	if err := rejectOpaque(t, make(map[*types.Type]bool)); err != nil {
		return nil, err
	}
	e := &encoder{seen: make(map[uintptr][]string)}
	node, err := e.encode(v, t)
	if err != nil {
		return nil, err
	}
	return json.Marshal(node)
}

type encoder struct {
	path []string
	seen map[uintptr][]string
	// recStack holds the Body type of each Recursive currently being
	// encoded, mirroring text.printer.recStack and compare.compiler.stack.
	recStack []*types.Type
}

// identity extends value.Identity's four mutable-container kinds with
// *value.Struct/*value.Variant, matching text.identity: spec.md §4.3's
// "mutable container identity" is what a purely-mutable graph needs, but
// S5's cyclic-list example shares a Variant node through a mutable Array
// cell, which only dedups correctly if the Variant's own occurrence is
// tracked too — see DESIGN.md's ejson entry.
func (e *encoder) identity(v value.Value) (uintptr, bool) {
	if id, ok := value.Identity(v); ok {
		return id, ok
	}
	switch p := v.(type) {
	case *value.Struct:
		return reflect.ValueOf(p).Pointer(), true
	case *value.Variant:
		return reflect.ValueOf(p).Pointer(), true
	default:
		return 0, false
	}
}

// checkAlias registers v's identity at the current path on first encounter,
// or, if v was already seen, returns the $ref node to use in its place.
// Only called from the Kind-specific branches below — never from the
// Recursive/recursiveRef passthrough, which re-encodes the *same* v at the
// *same* path and must not re-trigger it.
func (e *encoder) checkAlias(v value.Value) (ref any, handled bool) {
	id, ok := e.identity(v)
	if !ok {
		return nil, false
	}
	if first, already := e.seen[id]; already {
		return map[string]any{"$ref": refPointer(len(e.path), first)}, true
	}
	cp := make([]string, len(e.path))
	copy(cp, e.path)
	e.seen[id] = cp
	return nil, false
}

func (e *encoder) encode(v value.Value, t *types.Type) (any, error) {
	switch t.Kind {
	case types.Never:
		return nil, errs.New(errs.CodeTypeMismatch, "cannot encode a value of type Never")
	case types.Null:
		return nil, nil
	case types.Boolean:
		b, _ := value.AsBool(v)
		return b, nil
	case types.Integer:
		i, _ := value.AsInt(v)
		return strconv.FormatInt(i, 10), nil
	case types.Float:
		f, _ := value.AsFloat(v)
		switch {
		case math.IsNaN(f):
			return "NaN", nil
		case math.IsInf(f, 1):
			return "Infinity", nil
		case math.IsInf(f, -1):
			return "-Infinity", nil
		case f == 0 && math.Signbit(f):
			return "-0.0", nil
		default:
			return f, nil
		}
	case types.String:
		s, _ := value.AsString(v)
		return s, nil
	case types.DateTime:
		dt, _ := value.AsDateTime(v)
		return dt.UTC().Format("2006-01-02T15:04:05.000Z07:00"), nil
	case types.Blob:
		b, _ := value.AsBlob(v)
		return "0x" + hexLower(b), nil
	case types.Ref:
		if ref, handled := e.checkAlias(v); handled {
			return ref, nil
		}
		r, _ := v.(*value.Ref)
		e.path = append(e.path, "0")
		inner, err := e.encode(r.Val, t.Elem)
		e.path = e.path[:len(e.path)-1]
		if err != nil {
			return nil, err
		}
		return []any{inner}, nil
	case types.Array:
		if ref, handled := e.checkAlias(v); handled {
			return ref, nil
		}
		a, _ := v.(*value.Array)
		out := make([]any, len(a.Vals))
		for i, elem := range a.Vals {
			e.path = append(e.path, strconv.Itoa(i))
			node, err := e.encode(elem, t.Elem)
			e.path = e.path[:len(e.path)-1]
			if err != nil {
				return nil, err
			}
			out[i] = node
		}
		return out, nil
	case types.Set:
		if ref, handled := e.checkAlias(v); handled {
			return ref, nil
		}
		s, _ := v.(*value.Set)
		keys := s.Keys()
		out := make([]any, len(keys))
		for i, k := range keys {
			node, err := e.encode(k, t.Elem)
			if err != nil {
				return nil, err
			}
			out[i] = node
		}
		return out, nil
	case types.Dict:
		if ref, handled := e.checkAlias(v); handled {
			return ref, nil
		}
		d, _ := v.(*value.Dict)
		keys := d.Keys()
		out := make([]any, len(keys))
		for i, k := range keys {
			kn, err := e.encode(k, t.Key)
			if err != nil {
				return nil, err
			}
			val, _ := d.Get(k)
			e.path = append(e.path, strconv.Itoa(i), "value")
			vn, err := e.encode(val, t.Elem)
			e.path = e.path[:len(e.path)-2]
			if err != nil {
				return nil, err
			}
			out[i] = map[string]any{"key": kn, "value": vn}
		}
		return out, nil
	case types.Struct:
		if ref, handled := e.checkAlias(v); handled {
			return ref, nil
		}
		s, _ := v.(*value.Struct)
		out := make(map[string]any, len(t.Fields))
		for _, f := range t.Fields {
			e.path = append(e.path, f.Name)
			node, err := e.encode(s.Fields[f.Name], f.Type)
			e.path = e.path[:len(e.path)-1]
			if err != nil {
				return nil, err
			}
			out[f.Name] = node
		}
		return out, nil
	case types.Variant:
		if ref, handled := e.checkAlias(v); handled {
			return ref, nil
		}
		vv, _ := v.(*value.Variant)
		var caseType *types.Type
		for _, c := range t.Cases {
			if c.Tag == vv.Tag {
				caseType = c.Type
				break
			}
		}
		e.path = append(e.path, "value")
		node, err := e.encode(vv.Val, caseType)
		e.path = e.path[:len(e.path)-1]
		if err != nil {
			return nil, err
		}
		return map[string]any{"type": vv.Tag, "value": node}, nil
	case types.Recursive:
		e.recStack = append(e.recStack, t.Body)
		node, err := e.encode(v, t.Body)
		e.recStack = e.recStack[:len(e.recStack)-1]
		return node, err
	default:
		if depth, ok := types.IsRecursiveRef(t); ok {
			idx := len(e.recStack) - depth
			if idx < 0 || idx >= len(e.recStack) {
				return nil, errs.New(errs.CodeUnknownType, "recursive reference depth out of range")
			}
			return e.encode(v, e.recStack[idx])
		}
		return nil, errs.New(errs.CodeUnknownType, "unknown type: "+t.Kind.String())
	}
}

func hexLower(b []byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexdigits[c>>4]
		out[i*2+1] = hexdigits[c&0xf]
	}
	return string(out)
}

// refPointer renders the `U#R` pointer: U steps up from the current
// (depth-u) path, then `/`-joined RFC-6901-escaped components of first.
func refPointer(currentDepth int, first []string) string {
	r := ""
	for i, seg := range first {
		if i > 0 {
			r += "/"
		}
		r += errs.EscapePointer(seg)
	}
	return strconv.Itoa(currentDepth) + "#" + r
}
