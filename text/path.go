package text

import "strconv"

// step is one link in the printer/parser's current path, used to build
// alias relative-pointers (spec.md §4.2). Its surface text, when non-empty,
// is exactly what §4.2's worked example (S4) shows embedded in R: dotted
// field steps and bracketed indices, not '/'-separated JSON-pointer
// segments — see DESIGN.md's text-component entry for why this reading of
// the (internally inconsistent) spec text was chosen over §6.1's grammar
// prose.
type step struct {
	field   string // set for a struct-field step
	index   int    // set for an array/dict-value index step
	isField bool
	isIndex bool
	// isRef marks a Ref dereference: it counts as one level of nesting for
	// U but contributes no surface text of its own.
	isRef bool
}

func fieldStep(name string) step { return step{field: name, isField: true} }
func indexStep(i int) step       { return step{index: i, isIndex: true} }
func refStep() step              { return step{isRef: true} }

func (s step) text() string {
	switch {
	case s.isField:
		return "." + quoteIdentIfNeeded(s.field)
	case s.isIndex:
		return "[" + strconv.Itoa(s.index) + "]"
	default:
		return ""
	}
}

// renderPath renders a full path (from the root) as R's surface text.
func renderPath(p []step) string {
	var b []byte
	for _, s := range p {
		b = append(b, s.text()...)
	}
	return string(b)
}

func isBareIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}

func quoteIdentIfNeeded(name string) string {
	if isBareIdent(name) {
		return name
	}
	return "`" + escapeBacktickIdent(name) + "`"
}

func escapeBacktickIdent(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '`':
			out = append(out, '\\', '`')
		case '\\':
			out = append(out, '\\', '\\')
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}
