package types

// Equal reports whether a and b describe the same type, structurally.
// Recursive descriptors compare equal when their bodies are structurally
// equal including back-edge depths (two independently built fixpoints over
// the same shape are equal types).
func Equal(a, b *Type) bool {
	return equal(a, b, 0)
}

func equal(a, b *Type, depth int) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Never, Null, Boolean, Integer, Float, String, DateTime, Blob:
		return true
	case recursiveRef:
		return a.Depth == b.Depth
	case Ref, Array:
		return equal(a.Elem, b.Elem, depth)
	case Set:
		return equal(a.Elem, b.Elem, depth)
	case Dict:
		return equal(a.Key, b.Key, depth) && equal(a.Elem, b.Elem, depth)
	case Struct:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Name != b.Fields[i].Name || !equal(a.Fields[i].Type, b.Fields[i].Type, depth) {
				return false
			}
		}
		return true
	case Variant:
		if len(a.Cases) != len(b.Cases) {
			return false
		}
		for i := range a.Cases {
			if a.Cases[i].Tag != b.Cases[i].Tag || !equal(a.Cases[i].Type, b.Cases[i].Type, depth) {
				return false
			}
		}
		return true
	case Function, AsyncFunction:
		if len(a.Inputs) != len(b.Inputs) || len(a.Platforms) != len(b.Platforms) {
			return false
		}
		for i := range a.Inputs {
			if !equal(a.Inputs[i], b.Inputs[i], depth) {
				return false
			}
		}
		for i := range a.Platforms {
			if a.Platforms[i] != b.Platforms[i] {
				return false
			}
		}
		return equal(a.Output, b.Output, depth)
	case Recursive:
		return equal(a.Body, b.Body, depth+1)
	default:
		return false
	}
}
