package ejson

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/oxhq/east/compare"
	"github.com/oxhq/east/internal/errs"
	"github.com/oxhq/east/types"
	"github.com/oxhq/east/value"
)

// Decode parses data as a value of type t, per spec.md §4.3/§6.2's wire
// mapping. Containers are registered before their contents are decoded, so
// a `$ref` pointing at an ancestor still under construction — a cycle —
// resolves to the same in-progress container rather than failing.
func Decode(data []byte, t *types.Type) (value.Value, error) {
	if err := rejectOpaque(t, make(map[*types.Type]bool)); err != nil {
		return nil, err
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		line, col := 1, 1
		if se, ok := err.(*json.SyntaxError); ok && se.Offset > 0 && se.Offset <= int64(len(data)) {
			for _, c := range data[:se.Offset-1] {
				if c == '\n' {
					line, col = line+1, 1
				} else {
					col++
				}
			}
		}
		return nil, errs.Wrap(errs.CodeParse, "invalid JSON", err).WithPos(line, col)
	}
	d := &decoder{seen: make(map[string]value.Value)}
	return d.decode(raw, t)
}

type decoder struct {
	path     []string
	seen     map[string]value.Value
	recStack []*types.Type
}

func (d *decoder) key() string { return strings.Join(d.path, "\x00") }

func (d *decoder) register(v value.Value) { d.seen[d.key()] = v }

func (d *decoder) errf(code errs.Code, format string, args ...any) error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return errs.New(code, msg).WithPath(renderDataPath(d.path)).WithPos(1, 1)
}

func renderDataPath(path []string) string {
	var b strings.Builder
	for _, p := range path {
		if _, err := strconv.Atoi(p); err == nil {
			b.WriteByte('[')
			b.WriteString(p)
			b.WriteByte(']')
			continue
		}
		b.WriteByte('.')
		b.WriteString(p)
	}
	return b.String()
}

func (d *decoder) decode(raw any, t *types.Type) (value.Value, error) {
	if m, ok := raw.(map[string]any); ok {
		if ref, ok2 := m["$ref"]; ok2 && len(m) == 1 {
			refStr, ok3 := ref.(string)
			if !ok3 {
				return nil, d.errf(errs.CodeBadRef, "$ref must be a string")
			}
			return d.resolveRef(refStr)
		}
	}

	switch t.Kind {
	case types.Never:
		return nil, d.errf(errs.CodeTypeMismatch, "cannot decode a value of type Never")
	case types.Null:
		if raw != nil {
			return nil, d.errf(errs.CodeTypeMismatch, "expected null")
		}
		return value.Null, nil
	case types.Boolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, d.errf(errs.CodeTypeMismatch, "expected boolean")
		}
		return value.Bool(b), nil
	case types.Integer:
		s, ok := raw.(string)
		if !ok {
			return nil, d.errf(errs.CodeTypeMismatch, "expected integer encoded as a JSON string")
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, d.errf(errs.CodeIntegerRange, "integer out of range or malformed: %s", s)
		}
		return value.Int(n), nil
	case types.Float:
		switch r := raw.(type) {
		case float64:
			return value.Float(r), nil
		case string:
			switch r {
			case "NaN":
				return value.Float(math.NaN()), nil
			case "Infinity":
				return value.Float(math.Inf(1)), nil
			case "-Infinity":
				return value.Float(math.Inf(-1)), nil
			case "-0.0":
				return value.Float(math.Copysign(0, -1)), nil
			}
			return nil, d.errf(errs.CodeTypeMismatch, "invalid float string %q", r)
		default:
			return nil, d.errf(errs.CodeTypeMismatch, "expected float")
		}
	case types.String:
		s, ok := raw.(string)
		if !ok {
			return nil, d.errf(errs.CodeTypeMismatch, "expected string")
		}
		return value.String(s), nil
	case types.DateTime:
		s, ok := raw.(string)
		if !ok {
			return nil, d.errf(errs.CodeTypeMismatch, "expected datetime string")
		}
		tv, err := time.Parse("2006-01-02T15:04:05.000Z07:00", s)
		if err != nil {
			return nil, d.errf(errs.CodeBadDateTime, "invalid datetime literal: %s", s)
		}
		return value.DateTime(tv), nil
	case types.Blob:
		s, ok := raw.(string)
		if !ok || !strings.HasPrefix(s, "0x") {
			return nil, d.errf(errs.CodeBadBlob, "expected blob string with 0x prefix")
		}
		b, err := decodeHex(s[2:])
		if err != nil {
			return nil, d.errf(errs.CodeBadBlob, "invalid hex in blob literal")
		}
		return value.Blob(b), nil
	case types.Ref:
		arr, ok := raw.([]any)
		if !ok || len(arr) != 1 {
			return nil, d.errf(errs.CodeTypeMismatch, "expected one-element array for Ref")
		}
		r := value.NewRef(t.Elem, nil)
		d.register(r)
		d.path = append(d.path, "0")
		inner, err := d.decode(arr[0], t.Elem)
		d.path = d.path[:len(d.path)-1]
		if err != nil {
			return nil, err
		}
		r.Val = inner
		return r, nil
	case types.Array:
		arr, ok := raw.([]any)
		if !ok {
			return nil, d.errf(errs.CodeTypeMismatch, "expected array")
		}
		a := value.NewArray(t.Elem, nil)
		d.register(a)
		for i, elem := range arr {
			d.path = append(d.path, strconv.Itoa(i))
			v, err := d.decode(elem, t.Elem)
			d.path = d.path[:len(d.path)-1]
			if err != nil {
				return nil, err
			}
			a.Vals = append(a.Vals, v)
		}
		return a, nil
	case types.Set:
		arr, ok := raw.([]any)
		if !ok {
			return nil, d.errf(errs.CodeTypeMismatch, "expected array for Set")
		}
		ops, err := compare.Compile(t.Elem)
		if err != nil {
			return nil, d.errf(errs.CodeTypeMismatch, "set key type is not comparable: %s", err.Error())
		}
		s := value.NewSet(t.Elem, ops.MustCompare)
		d.register(s)
		for _, elem := range arr {
			v, err := d.decode(elem, t.Elem)
			if err != nil {
				return nil, err
			}
			s.Insert(v)
		}
		return s, nil
	case types.Dict:
		arr, ok := raw.([]any)
		if !ok {
			return nil, d.errf(errs.CodeTypeMismatch, "expected array of entries for Dict")
		}
		ops, err := compare.Compile(t.Key)
		if err != nil {
			return nil, d.errf(errs.CodeTypeMismatch, "dict key type is not comparable: %s", err.Error())
		}
		dict := value.NewDict(t.Key, t.Elem, ops.MustCompare)
		d.register(dict)
		for i, entry := range arr {
			em, ok := entry.(map[string]any)
			if !ok {
				return nil, d.errf(errs.CodeTypeMismatch, "expected {key,value} entry object")
			}
			k, err := d.decode(em["key"], t.Key)
			if err != nil {
				return nil, err
			}
			d.path = append(d.path, strconv.Itoa(i), "value")
			v, err := d.decode(em["value"], t.Elem)
			d.path = d.path[:len(d.path)-2]
			if err != nil {
				return nil, err
			}
			dict.Set(k, v)
		}
		return dict, nil
	case types.Struct:
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, d.errf(errs.CodeTypeMismatch, "expected object for Struct")
		}
		for name := range m {
			known := false
			for _, f := range t.Fields {
				if f.Name == name {
					known = true
					break
				}
			}
			if !known {
				return nil, d.errf(errs.CodeUnknownField, "unknown struct field %q", name)
			}
		}
		s := &value.Struct{Type: t, Fields: make(map[string]value.Value, len(t.Fields))}
		d.register(s)
		for _, f := range t.Fields {
			raw, present := m[f.Name]
			if !present {
				return nil, d.errf(errs.CodeMissingField, "missing struct field %q", f.Name)
			}
			d.path = append(d.path, f.Name)
			v, err := d.decode(raw, f.Type)
			d.path = d.path[:len(d.path)-1]
			if err != nil {
				return nil, err
			}
			s.Fields[f.Name] = v
		}
		return s, nil
	case types.Variant:
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, d.errf(errs.CodeTypeMismatch, "expected object for Variant")
		}
		tag, ok := m["type"].(string)
		if !ok {
			return nil, d.errf(errs.CodeTypeMismatch, "variant object missing string \"type\"")
		}
		var caseType *types.Type
		for _, c := range t.Cases {
			if c.Tag == tag {
				caseType = c.Type
				break
			}
		}
		if caseType == nil {
			return nil, d.errf(errs.CodeUnknownTag, "unknown variant tag %q", tag)
		}
		vv := &value.Variant{Type: t, Tag: tag}
		d.register(vv)
		d.path = append(d.path, "value")
		v, err := d.decode(m["value"], caseType)
		d.path = d.path[:len(d.path)-1]
		if err != nil {
			return nil, err
		}
		vv.Val = v
		return vv, nil
	case types.Recursive:
		d.recStack = append(d.recStack, t.Body)
		v, err := d.decode(raw, t.Body)
		d.recStack = d.recStack[:len(d.recStack)-1]
		return v, err
	default:
		if depth, ok := types.IsRecursiveRef(t); ok {
			idx := len(d.recStack) - depth
			if idx < 0 || idx >= len(d.recStack) {
				return nil, d.errf(errs.CodeUnknownType, "recursive reference depth out of range")
			}
			return d.decode(raw, d.recStack[idx])
		}
		return nil, d.errf(errs.CodeUnknownType, "unknown type: "+t.Kind.String())
	}
}

// resolveRef resolves a "U#R" pointer (R being '/'-separated RFC-6901
// escaped components) against the path-keyed registry built so far.
func (d *decoder) resolveRef(ref string) (value.Value, error) {
	hashIdx := strings.IndexByte(ref, '#')
	if hashIdx < 0 {
		return nil, d.errf(errs.CodeBadRef, "malformed $ref %q", ref)
	}
	u, err := strconv.Atoi(ref[:hashIdx])
	if err != nil || u < 0 || u > len(d.path) {
		return nil, d.errf(errs.CodeBadRef, "malformed $ref %q", ref)
	}
	rest := ref[hashIdx+1:]
	var rSteps []string
	if rest != "" {
		for _, seg := range strings.Split(rest, "/") {
			rSteps = append(rSteps, errs.UnescapePointer(seg))
		}
	}
	target := append(append([]string(nil), d.path[:len(d.path)-u]...), rSteps...)
	key := strings.Join(target, "\x00")
	v, ok := d.seen[key]
	if !ok {
		return nil, d.errf(errs.CodeBadRef, "$ref to unknown path %q", ref)
	}
	return v, nil
}

func decodeHex(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("odd hex length")
	}
	out := make([]byte, len(s)/2)
	for i := 0; i < len(out); i++ {
		hi, err1 := hexVal(s[i*2])
		lo, err2 := hexVal(s[i*2+1])
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("invalid hex digit")
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func hexVal(b byte) (byte, error) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', nil
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, nil
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, nil
	default:
		return 0, fmt.Errorf("not hex")
	}
}
