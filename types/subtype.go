package types

// IsSubtype reports whether a value of type sub may be used wherever super
// is expected. Every type is a subtype of an structurally equal type.
// Beyond equality, a Struct whose fields are a superset of super's, each
// shared field's type being a subtype of super's, is a subtype of super;
// and an Array is a subtype of an Array whose element type is a supertype
// of its own. Ref element types must be equal. The resolver (§4.5 of
// spec.md) uses this to decide whether a mismatched child type can be
// coerced with an As node rather than rejected outright.
func IsSubtype(sub, super *Type) bool {
	if Equal(sub, super) {
		return true
	}
	if sub == nil || super == nil {
		return false
	}
	if sub.Kind == Struct && super.Kind == Struct {
		for _, want := range super.Fields {
			found := false
			for _, have := range sub.Fields {
				if have.Name == want.Name {
					if !IsSubtype(have.Type, want.Type) {
						return false
					}
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}
	if sub.Kind == Ref && super.Kind == Ref {
		return Equal(sub.Elem, super.Elem)
	}
	if sub.Kind == Array && super.Kind == Array {
		return IsSubtype(sub.Elem, super.Elem)
	}
	return false
}
