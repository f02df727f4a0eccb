package compare

import (
	"math"

	"github.com/oxhq/east/value"
)

// floatNode implements spec.md §4.1's float semantics: equal(NaN,NaN)=true,
// compare puts NaN as the greatest value, and -0 sorts strictly before +0
// even though they are numerically equal (spec.md §9: "Use IEEE-754
// bit-level comparison only for -0 vs +0 and for NaN identity").
func floatNode() *node {
	get := func(v value.Value) float64 { f, _ := value.AsFloat(v); return f }
	eq := func(_ *cycleCtx, a, b value.Value) (bool, error) {
		av, bv := get(a), get(b)
		if math.IsNaN(av) && math.IsNaN(bv) {
			return true, nil
		}
		return av == bv, nil
	}
	cmp := func(_ *cycleCtx, a, b value.Value) (int, error) {
		av, bv := get(a), get(b)
		aNaN, bNaN := math.IsNaN(av), math.IsNaN(bv)
		switch {
		case aNaN && bNaN:
			return 0, nil
		case aNaN:
			return 1, nil
		case bNaN:
			return -1, nil
		}
		if av == 0 && bv == 0 {
			aNeg, bNeg := math.Signbit(av), math.Signbit(bv)
			switch {
			case aNeg && !bNeg:
				return -1, nil
			case !aNeg && bNeg:
				return 1, nil
			default:
				return 0, nil
			}
		}
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

// stringNode implements code-point lexicographic ordering over the decoded
// rune sequence, per spec.md §4.1.
func stringNode() *node {
	get := func(v value.Value) []rune { s, _ := value.AsString(v); return []rune(s) }
	eq := func(_ *cycleCtx, a, b value.Value) (bool, error) {
		as, _ := value.AsString(a)
		bs, _ := value.AsString(b)
		return as == bs, nil
	}
	cmp := func(_ *cycleCtx, a, b value.Value) (int, error) {
		ar, br := get(a), get(b)
		n := len(ar)
		if len(br) < n {
			n = len(br)
		}
		for i := 0; i < n; i++ {
			if ar[i] != br[i] {
				if ar[i] < br[i] {
					return -1, nil
				}
				return 1, nil
			}
		}
		switch {
		case len(ar) < len(br):
			return -1, nil
		case len(ar) > len(br):
			return 1, nil
		default:
			return 0, nil
		}
	}
	return &node{is: eq, equal: eq, compare: cmp}
}

// blobNode implements byte-lexicographic ordering with shorter-prefix-less,
// per spec.md §4.1.
func blobNode() *node {
	get := func(v value.Value) []byte { b, _ := value.AsBlob(v); return b }
	eq := func(_ *cycleCtx, a, b value.Value) (bool, error) {
		ab, bb := get(a), get(b)
		if len(ab) != len(bb) {
			return false, nil
		}
		for i := range ab {
			if ab[i] != bb[i] {
				return false, nil
			}
		}
		return true, nil
	}
	cmp := func(_ *cycleCtx, a, b value.Value) (int, error) {
		ab, bb := get(a), get(b)
		n := len(ab)
		if len(bb) < n {
			n = len(bb)
		}
		for i := 0; i < n; i++ {
			if ab[i] != bb[i] {
				if ab[i] < bb[i] {
					return -1, nil
				}
				return 1, nil
			}
		}
		switch {
		case len(ab) < len(bb):
			return -1, nil
		case len(ab) > len(bb):
			return 1, nil
		default:
			return 0, nil
		}
	}
	return &node{is: eq, equal: eq, compare: cmp}
}
