// Package text implements the surface text codec of spec.md §4.2/§6.1: a
// type-directed printer and parser with a round-trippable grammar and an
// alias notation that recovers shared mutable containers.
package text

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/oxhq/east/internal/errs"
	"github.com/oxhq/east/types"
	"github.com/oxhq/east/value"
)

// identity returns a stable pointer address for any of the six composite
// value kinds (the four mutable containers plus Struct/Variant), used for
// this print call's alias map. Struct/Variant are included, not just the
// mutable containers, because spec.md §4.2 also aliases "a value inside a
// RecursiveType" — in this Go representation that is exactly a
// pointer-shared or self-referential *value.Struct/*value.Variant.
func identity(v value.Value) (uintptr, bool) {
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

type printer struct {
	sb   strings.Builder
	path []step
	seen map[uintptr][]step

	// recStack holds the Body type of each Recursive currently being
	// printed, indexed so that a recursiveRef of depth d resolves to
	// recStack[len(recStack)-d] — mirroring compare.compiler.stack, which
	// mirrors types.Recursive's own construction-time stack.
	recStack []*types.Type
}

// Print renders v (of type t) in the surface syntax of spec.md §4.2,
// substituting a `U#R` alias reference wherever a mutable container or a
// shared/recursive immutable value is re-encountered.
func Print(v value.Value, t *types.Type) (string, error) {
	p := &printer{seen: make(map[uintptr][]step)}
	if err := p.print(v, t); err != nil {
		return "", err
	}
	return p.sb.String(), nil
}

// checkAlias registers v's identity at the current path on first encounter,
// or, if v was already seen, writes the alias reference and reports that
// the caller's branch is fully handled. Only called from the Kind-specific
// branches below — never from the Recursive/recursiveRef passthrough, which
// re-prints the *same* v at the *same* path and must not re-trigger it.
func (p *printer) checkAlias(v value.Value) (handled bool, err error) {
	id, ok := identity(v)
	if !ok {
		return false, nil
	}
	if first, already := p.seen[id]; already {
		p.sb.WriteString(strconv.Itoa(len(p.path)))
		p.sb.WriteByte('#')
		p.sb.WriteString(renderPath(first))
		return true, nil
	}
	cp := make([]step, len(p.path))
	copy(cp, p.path)
	p.seen[id] = cp
	return false, nil
}

func (p *printer) print(v value.Value, t *types.Type) error {
	switch t.Kind {
	case types.Never:
		return errs.New(errs.CodePrintOpaque, "attempted to print a value of type Never")
	case types.Null:
		p.sb.WriteString("null")
		return nil
	case types.Boolean:
		b, _ := value.AsBool(v)
		if b {
			p.sb.WriteString("true")
		} else {
			p.sb.WriteString("false")
		}
		return nil
	case types.Integer:
		i, _ := value.AsInt(v)
		p.sb.WriteString(strconv.FormatInt(i, 10))
		return nil
	case types.Float:
		f, _ := value.AsFloat(v)
		p.sb.WriteString(printFloat(f))
		return nil
	case types.String:
		s, _ := value.AsString(v)
		p.sb.WriteString(printStringLiteral(s))
		return nil
	case types.DateTime:
		dt, _ := value.AsDateTime(v)
		p.sb.WriteString(dt.UTC().Format("2006-01-02T15:04:05.000"))
		return nil
	case types.Blob:
		b, _ := value.AsBlob(v)
		p.sb.WriteString("0x")
		p.sb.WriteString(hexLower(b))
		return nil
	case types.Ref:
		if handled, err := p.checkAlias(v); handled {
			return err
		}
		r, _ := v.(*value.Ref)
		p.sb.WriteByte('&')
		p.path = append(p.path, refStep())
		err := p.print(r.Val, t.Elem)
		p.path = p.path[:len(p.path)-1]
		return err
	case types.Array:
		if handled, err := p.checkAlias(v); handled {
			return err
		}
		a, _ := v.(*value.Array)
		p.sb.WriteByte('[')
		for i, elem := range a.Vals {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.path = append(p.path, indexStep(i))
			err := p.print(elem, t.Elem)
			p.path = p.path[:len(p.path)-1]
			if err != nil {
				return err
			}
		}
		p.sb.WriteByte(']')
		return nil
	case types.Set:
		if handled, err := p.checkAlias(v); handled {
			return err
		}
		s, _ := v.(*value.Set)
		keys := s.Keys()
		if len(keys) == 0 {
			p.sb.WriteString("{}")
			return nil
		}
		p.sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				p.sb.WriteByte(',')
			}
			if err := p.print(k, t.Elem); err != nil {
				return err
			}
		}
		p.sb.WriteByte('}')
		return nil
	case types.Dict:
		if handled, err := p.checkAlias(v); handled {
			return err
		}
		d, _ := v.(*value.Dict)
		keys := d.Keys()
		if len(keys) == 0 {
			p.sb.WriteString("{:}")
			return nil
		}
		p.sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				p.sb.WriteByte(',')
			}
			if err := p.print(k, t.Key); err != nil {
				return err
			}
			p.sb.WriteByte(':')
			val, _ := d.Get(k)
			p.path = append(p.path, indexStep(i))
			err := p.print(val, t.Elem)
			p.path = p.path[:len(p.path)-1]
			if err != nil {
				return err
			}
		}
		p.sb.WriteByte('}')
		return nil
	case types.Struct:
		if handled, err := p.checkAlias(v); handled {
			return err
		}
		s, _ := v.(*value.Struct)
		p.sb.WriteByte('(')
		for i, f := range t.Fields {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.sb.WriteString(quoteIdentIfNeeded(f.Name))
			p.sb.WriteByte('=')
			p.path = append(p.path, fieldStep(f.Name))
			err := p.print(s.Fields[f.Name], f.Type)
			p.path = p.path[:len(p.path)-1]
			if err != nil {
				return err
			}
		}
		p.sb.WriteByte(')')
		return nil
	case types.Variant:
		if handled, err := p.checkAlias(v); handled {
			return err
		}
		vv, _ := v.(*value.Variant)
		p.sb.WriteByte('.')
		p.sb.WriteString(quoteIdentIfNeeded(vv.Tag))
		var caseType *types.Type
		for _, c := range t.Cases {
			if c.Tag == vv.Tag {
				caseType = c.Type
				break
			}
		}
		if caseType != nil && caseType.Kind == types.Null {
			return nil
		}
		p.sb.WriteByte(' ')
		return p.print(vv.Val, caseType)
	case types.Function, types.AsyncFunction:
		p.sb.WriteString("λ")
		return nil
	case types.Recursive:
		p.recStack = append(p.recStack, t.Body)
		err := p.print(v, t.Body)
		p.recStack = p.recStack[:len(p.recStack)-1]
		return err
	default:
		if depth, ok := types.IsRecursiveRef(t); ok {
			idx := len(p.recStack) - depth
			if idx < 0 || idx >= len(p.recStack) {
				return errs.New(errs.CodeUnknownType, "recursive reference depth out of range")
			}
			return p.print(v, p.recStack[idx])
		}
		return errs.New(errs.CodeUnknownType, "Unknown type: "+t.Kind.String())
	}
}

func printFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if f == 0 && math.Signbit(f) {
		return "-0.0"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func printStringLiteral(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
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
