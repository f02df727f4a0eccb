package text

import (
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

// ParseError is the structured failure type returned by Parse: a plain
// internal/errs.Error carrying a 1-based line/col, since the text codec's
// errors are exactly the shared shape every other component returns.
type ParseError = errs.Error

type parser struct {
	src  []rune
	pos  int
	line int
	col  int

	path []step
	// seen maps an absolute path's rendered text to the value allocated at
	// that path, populated at the moment each alias-eligible value is
	// allocated (before its children are parsed) so that a later alias can
	// resolve to a container or struct/variant that is still being filled —
	// this is what lets cyclic mutable containers round-trip, per
	// spec.md §4.2/§4.3's "pre-register before fill" strategy.
	seen map[string]value.Value
}

// Parse parses src as a value of type t, per spec.md §4.2's grammar. It
// rejects trailing input after a complete parse.
func Parse(src string, t *types.Type) (value.Value, *ParseError) {
	p := &parser{src: []rune(src), line: 1, col: 1, seen: make(map[string]value.Value)}
	p.skipSpace()
	v, err := p.parseValue(t, nil)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.atEnd() {
		return nil, p.errorf(errs.CodeTrailingInput, "trailing input after value")
	}
	return v, nil
}

func (p *parser) atEnd() bool { return p.pos >= len(p.src) }

func (p *parser) peek() rune {
	if p.atEnd() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) peekAt(off int) rune {
	if p.pos+off >= len(p.src) {
		return 0
	}
	return p.src[p.pos+off]
}

func (p *parser) advance() rune {
	r := p.src[p.pos]
	p.pos++
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	return r
}

func (p *parser) skipSpace() {
	for !p.atEnd() {
		switch p.peek() {
		case ' ', '\t', '\n', '\r':
			p.advance()
		default:
			return
		}
	}
}

func (p *parser) errorf(code errs.Code, format string, args ...any) *ParseError {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return errs.New(code, msg).WithPos(p.line, p.col).WithPath(renderPath(p.path))
}

func (p *parser) expect(r rune) *ParseError {
	if p.atEnd() || p.peek() != r {
		return p.errorf(errs.CodeParse, "expected %q", r)
	}
	p.advance()
	return nil
}

func (p *parser) consumeLiteral(lit string) bool {
	rs := []rune(lit)
	if p.pos+len(rs) > len(p.src) {
		return false
	}
	for i, r := range rs {
		if p.src[p.pos+i] != r {
			return false
		}
	}
	for range rs {
		p.advance()
	}
	return true
}

// register records v as the value allocated at the current path, enabling
// later aliases to resolve back to it.
func (p *parser) register(v value.Value) {
	p.seen[renderPath(p.path)] = v
}

func (p *parser) pushField(name string) { p.path = append(p.path, fieldStep(name)) }
func (p *parser) pushIndex(i int)       { p.path = append(p.path, indexStep(i)) }
func (p *parser) pushRef()              { p.path = append(p.path, refStep()) }
func (p *parser) pop()                  { p.path = p.path[:len(p.path)-1] }

// parseValue parses a value of type t. recStack holds the Body type of each
// enclosing Recursive, mirroring printer.recStack.
func (p *parser) parseValue(t *types.Type, recStack []*types.Type) (value.Value, *ParseError) {
	p.skipSpace()

	// An alias reference looks like "<digits>#", which cannot otherwise
	// begin any literal or container form, so a short lookahead for the
	// '#' after a run of digits disambiguates it from an Integer literal.
	if isDigit(p.peek()) {
		if end, ok := p.lookaheadAlias(); ok {
			return p.parseAlias(end)
		}
	}

	switch t.Kind {
	case types.Never:
		return nil, p.errorf(errs.CodeTypeMismatch, "cannot parse a value of type Never")
	case types.Null:
		if p.consumeLiteral("null") {
			return value.Null, nil
		}
		return nil, p.errorf(errs.CodeTypeMismatch, "expected null")
	case types.Boolean:
		if p.consumeLiteral("true") {
			return value.Bool(true), nil
		}
		if p.consumeLiteral("false") {
			return value.Bool(false), nil
		}
		return nil, p.errorf(errs.CodeTypeMismatch, "expected true or false")
	case types.Integer:
		return p.parseInteger()
	case types.Float:
		return p.parseFloat()
	case types.String:
		return p.parseString()
	case types.DateTime:
		return p.parseDateTime()
	case types.Blob:
		return p.parseBlob()
	case types.Ref:
		return p.parseRef(t, recStack)
	case types.Array:
		return p.parseArray(t, recStack)
	case types.Set:
		return p.parseSet(t, recStack)
	case types.Dict:
		return p.parseDict(t, recStack)
	case types.Struct:
		return p.parseStruct(t, recStack)
	case types.Variant:
		return p.parseVariant(t, recStack)
	case types.Function, types.AsyncFunction:
		return nil, p.errorf(errs.CodeTypeMismatch, "cannot parse an opaque Function/AsyncFunction value")
	case types.Recursive:
		return p.parseValue(t.Body, append(recStack, t.Body))
	default:
		if depth, ok := types.IsRecursiveRef(t); ok {
			idx := len(recStack) - depth
			if idx < 0 || idx >= len(recStack) {
				return nil, p.errorf(errs.CodeUnknownType, "recursive reference depth out of range")
			}
			return p.parseValue(recStack[idx], recStack)
		}
		return nil, p.errorf(errs.CodeUnknownType, "unknown type: "+t.Kind.String())
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// lookaheadAlias scans a run of digits followed by '#' without consuming
// input, returning the offset just past the '#' if the pattern matches.
func (p *parser) lookaheadAlias() (int, bool) {
	i := p.pos
	for i < len(p.src) && isDigit(p.src[i]) {
		i++
	}
	if i == p.pos || i >= len(p.src) || p.src[i] != '#' {
		return 0, false
	}
	return i + 1, true
}

func (p *parser) parseAlias(afterHash int) (value.Value, *ParseError) {
	start := p.pos
	for p.pos < afterHash-1 {
		p.advance()
	}
	u, _ := strconv.Atoi(string(p.src[start : p.pos]))
	p.advance() // consume '#'

	var rSteps []step
	for {
		switch p.peek() {
		case '.':
			p.advance()
			name, err := p.parseBareOrQuotedIdent()
			if err != nil {
				return nil, err
			}
			rSteps = append(rSteps, fieldStep(name))
		case '[':
			p.advance()
			startDigits := p.pos
			for isDigit(p.peek()) {
				p.advance()
			}
			if p.pos == startDigits {
				return nil, p.errorf(errs.CodeBadRef, "expected index digits in alias reference")
			}
			idx, _ := strconv.Atoi(string(p.src[startDigits:p.pos]))
			if err := p.expect(']'); err != nil {
				return nil, err
			}
			rSteps = append(rSteps, indexStep(idx))
		default:
			goto done
		}
	}
done:
	if u < 0 || u > len(p.path) {
		return nil, p.errorf(errs.CodeBadRef, "alias reference steps up %d beyond root", u)
	}
	target := append(append([]step(nil), p.path[:len(p.path)-u]...), rSteps...)
	key := renderPath(target)
	v, ok := p.seen[key]
	if !ok {
		return nil, p.errorf(errs.CodeBadRef, "alias reference to unknown path")
	}
	return v, nil
}

func (p *parser) parseBareOrQuotedIdent() (string, *ParseError) {
	if p.peek() == '`' {
		return p.parseBacktickIdent()
	}
	start := p.pos
	for !p.atEnd() && isIdentRune(p.peek(), p.pos == start) {
		p.advance()
	}
	if p.pos == start {
		return "", p.errorf(errs.CodeParse, "expected identifier")
	}
	return string(p.src[start:p.pos]), nil
}

func isIdentRune(r rune, first bool) bool {
	if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
		return true
	}
	if !first && r >= '0' && r <= '9' {
		return true
	}
	return false
}

func (p *parser) parseBacktickIdent() (string, *ParseError) {
	if err := p.expect('`'); err != nil {
		return "", err
	}
	var b strings.Builder
	for {
		if p.atEnd() {
			return "", p.errorf(errs.CodeParse, "unterminated backtick identifier")
		}
		r := p.advance()
		if r == '`' {
			break
		}
		if r == '\\' {
			if p.atEnd() {
				return "", p.errorf(errs.CodeBadEscape, "unterminated escape in identifier")
			}
			r = p.advance()
			if r != '`' && r != '\\' {
				return "", p.errorf(errs.CodeBadEscape, "invalid identifier escape")
			}
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}

func (p *parser) parseInteger() (value.Value, *ParseError) {
	start := p.pos
	if p.peek() == '-' {
		p.advance()
	}
	digitsStart := p.pos
	for isDigit(p.peek()) {
		p.advance()
	}
	if p.pos == digitsStart {
		return nil, p.errorf(errs.CodeTypeMismatch, "expected integer literal")
	}
	text := string(p.src[start:p.pos])
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, p.errorf(errs.CodeIntegerRange, "integer literal out of range: %s", text)
	}
	return value.Int(n), nil
}

func (p *parser) parseFloat() (value.Value, *ParseError) {
	switch {
	case p.consumeLiteral("-Infinity"):
		return value.Float(math.Inf(-1)), nil
	case p.consumeLiteral("Infinity"):
		return value.Float(math.Inf(1)), nil
	case p.consumeLiteral("NaN"):
		return value.Float(math.NaN()), nil
	case p.consumeLiteral("-0.0"):
		return value.Float(math.Copysign(0, -1)), nil
	}
	start := p.pos
	if p.peek() == '-' || p.peek() == '+' {
		p.advance()
	}
	digitsStart := p.pos
	for isDigit(p.peek()) {
		p.advance()
	}
	if p.pos == digitsStart {
		return nil, p.errorf(errs.CodeTypeMismatch, "expected float literal")
	}
	if p.peek() == '.' {
		p.advance()
		for isDigit(p.peek()) {
			p.advance()
		}
	}
	if p.peek() == 'e' || p.peek() == 'E' {
		p.advance()
		if p.peek() == '-' || p.peek() == '+' {
			p.advance()
		}
		for isDigit(p.peek()) {
			p.advance()
		}
	}
	text := string(p.src[start:p.pos])
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, p.errorf(errs.CodeTypeMismatch, "invalid float literal: %s", text)
	}
	return value.Float(f), nil
}

func (p *parser) parseString() (value.Value, *ParseError) {
	if err := p.expect('"'); err != nil {
		return nil, err
	}
	var b strings.Builder
	for {
		if p.atEnd() {
			return nil, p.errorf(errs.CodeParse, "unterminated string literal")
		}
		r := p.advance()
		if r == '"' {
			break
		}
		if r == '\\' {
			if p.atEnd() {
				return nil, p.errorf(errs.CodeBadEscape, "unterminated escape in string")
			}
			e := p.advance()
			switch e {
			case '"':
				b.WriteRune('"')
			case '\\':
				b.WriteRune('\\')
			default:
				return nil, p.errorf(errs.CodeBadEscape, "invalid string escape \\%c", e)
			}
			continue
		}
		b.WriteRune(r)
	}
	return value.String(b.String()), nil
}

func (p *parser) parseDateTime() (value.Value, *ParseError) {
	start := p.pos
	for !p.atEnd() && (isIdentRune(p.peek(), false) || p.peek() == '-' || p.peek() == ':' || p.peek() == '.' || isDigit(p.peek())) {
		p.advance()
	}
	text := string(p.src[start:p.pos])
	t, err := time.Parse("2006-01-02T15:04:05.000", text)
	if err != nil {
		return nil, p.errorf(errs.CodeBadDateTime, "invalid datetime literal: %s", text)
	}
	return value.DateTime(t), nil
}

func (p *parser) parseBlob() (value.Value, *ParseError) {
	if err := p.expect('0'); err != nil {
		return nil, err
	}
	if err := p.expect('x'); err != nil {
		return nil, err
	}
	start := p.pos
	for isHexDigit(p.peek()) {
		p.advance()
	}
	text := string(p.src[start:p.pos])
	if len(text)%2 != 0 {
		return nil, p.errorf(errs.CodeBadBlob, "odd number of hex digits in blob literal")
	}
	out := make([]byte, len(text)/2)
	for i := 0; i < len(out); i++ {
		hi, err1 := hexVal(text[i*2])
		lo, err2 := hexVal(text[i*2+1])
		if err1 != nil || err2 != nil {
			return nil, p.errorf(errs.CodeBadBlob, "invalid hex digit in blob literal")
		}
		out[i] = hi<<4 | lo
	}
	return value.Blob(out), nil
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
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
		return 0, errs.New(errs.CodeBadBlob, "not a hex digit")
	}
}

func (p *parser) parseRef(t *types.Type, recStack []*types.Type) (value.Value, *ParseError) {
	if err := p.expect('&'); err != nil {
		return nil, err
	}
	r := value.NewRef(t.Elem, nil)
	p.register(r)
	p.pushRef()
	inner, err := p.parseValue(t.Elem, recStack)
	p.pop()
	if err != nil {
		return nil, err
	}
	r.Val = inner
	return r, nil
}

func (p *parser) parseArray(t *types.Type, recStack []*types.Type) (value.Value, *ParseError) {
	if err := p.expect('['); err != nil {
		return nil, err
	}
	a := value.NewArray(t.Elem, nil)
	p.register(a)
	p.skipSpace()
	for p.peek() != ']' {
		p.pushIndex(len(a.Vals))
		v, err := p.parseValue(t.Elem, recStack)
		p.pop()
		if err != nil {
			return nil, err
		}
		a.Vals = append(a.Vals, v)
		p.skipSpace()
		if p.peek() == ',' {
			p.advance()
			p.skipSpace()
			continue
		}
		break
	}
	if err := p.expect(']'); err != nil {
		return nil, err
	}
	return a, nil
}

func (p *parser) keyOps(keyType *types.Type) (*compare.Ops, *ParseError) {
	ops, err := compare.Compile(keyType)
	if err != nil {
		return nil, p.errorf(errs.CodeTypeMismatch, "key type is not comparable: %s", err.Error())
	}
	return ops, nil
}

func (p *parser) parseSet(t *types.Type, recStack []*types.Type) (value.Value, *ParseError) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	ops, kerr := p.keyOps(t.Elem)
	if kerr != nil {
		return nil, kerr
	}
	s := value.NewSet(t.Elem, ops.MustCompare)
	p.register(s)
	p.skipSpace()
	for p.peek() != '}' {
		v, err := p.parseValue(t.Elem, recStack)
		if err != nil {
			return nil, err
		}
		s.Insert(v)
		p.skipSpace()
		if p.peek() == ',' {
			p.advance()
			p.skipSpace()
			continue
		}
		break
	}
	if err := p.expect('}'); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *parser) parseDict(t *types.Type, recStack []*types.Type) (value.Value, *ParseError) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	ops, kerr := p.keyOps(t.Key)
	if kerr != nil {
		return nil, kerr
	}
	d := value.NewDict(t.Key, t.Elem, ops.MustCompare)
	p.register(d)
	p.skipSpace()
	if p.peek() == ':' {
		p.advance()
		p.skipSpace()
		if err := p.expect('}'); err != nil {
			return nil, err
		}
		return d, nil
	}
	i := 0
	for p.peek() != '}' {
		k, err := p.parseValue(t.Key, recStack)
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		p.skipSpace()
		p.pushIndex(i)
		v, err := p.parseValue(t.Elem, recStack)
		p.pop()
		if err != nil {
			return nil, err
		}
		d.Set(k, v)
		i++
		p.skipSpace()
		if p.peek() == ',' {
			p.advance()
			p.skipSpace()
			continue
		}
		break
	}
	if err := p.expect('}'); err != nil {
		return nil, err
	}
	return d, nil
}

func (p *parser) parseStruct(t *types.Type, recStack []*types.Type) (value.Value, *ParseError) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	s := &value.Struct{Type: t, Fields: make(map[string]value.Value, len(t.Fields))}
	p.register(s)
	p.skipSpace()
	for p.peek() != ')' {
		name, err := p.parseBareOrQuotedIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expect('='); err != nil {
			return nil, err
		}
		p.skipSpace()
		var fieldType *types.Type
		for _, f := range t.Fields {
			if f.Name == name {
				fieldType = f.Type
				break
			}
		}
		if fieldType == nil {
			return nil, p.errorf(errs.CodeUnknownField, "unknown struct field %q", name)
		}
		if _, dup := s.Fields[name]; dup {
			return nil, p.errorf(errs.CodeDuplicateField, "duplicate struct field %q", name)
		}
		p.pushField(name)
		v, verr := p.parseValue(fieldType, recStack)
		p.pop()
		if verr != nil {
			return nil, verr
		}
		s.Fields[name] = v
		p.skipSpace()
		if p.peek() == ',' {
			p.advance()
			p.skipSpace()
			continue
		}
		break
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	for _, f := range t.Fields {
		if _, ok := s.Fields[f.Name]; !ok {
			return nil, p.errorf(errs.CodeMissingField, "missing struct field %q", f.Name)
		}
	}
	return s, nil
}

func (p *parser) parseVariant(t *types.Type, recStack []*types.Type) (value.Value, *ParseError) {
	if err := p.expect('.'); err != nil {
		return nil, err
	}
	tag, err := p.parseBareOrQuotedIdent()
	if err != nil {
		return nil, err
	}
	var caseType *types.Type
	for _, c := range t.Cases {
		if c.Tag == tag {
			caseType = c.Type
			break
		}
	}
	if caseType == nil {
		return nil, p.errorf(errs.CodeUnknownTag, "unknown variant tag %q", tag)
	}
	vv := &value.Variant{Type: t, Tag: tag}
	p.register(vv)
	if caseType.Kind == types.Null {
		vv.Val = value.Null
		return vv, nil
	}
	p.skipSpace()
	inner, verr := p.parseValue(caseType, recStack)
	if verr != nil {
		return nil, verr
	}
	vv.Val = inner
	return vv, nil
}
