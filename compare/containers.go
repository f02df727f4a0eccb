package compare

import "github.com/oxhq/east/value"

// refNode implements Ref(T): is is cell identity; equal/compare dereference
// with cycle protection, since a Ref may (indirectly, via an Array of
// itself) participate in a cycle.
func refNode(elem *node) *node {
	is := func(_ *cycleCtx, a, b value.Value) (bool, error) {
		ra, _ := a.(*value.Ref)
		rb, _ := b.(*value.Ref)
		return ra == rb, nil
	}
	equal := func(c *cycleCtx, a, b value.Value) (bool, error) {
		if c.enter(a, b) {
			return true, nil
		}
		ra, _ := a.(*value.Ref)
		rb, _ := b.(*value.Ref)
		return elem.equal(c, ra.Val, rb.Val)
	}
	compare := func(c *cycleCtx, a, b value.Value) (int, error) {
		if c.enter(a, b) {
			return 0, nil
		}
		ra, _ := a.(*value.Ref)
		rb, _ := b.(*value.Ref)
		return elem.compare(c, ra.Val, rb.Val)
	}
	return &node{is: is, equal: equal, compare: compare}
}

// arrayNode implements Array(T): lexicographic over elements, shorter
// prefix sorts before longer (spec.md §4.1 "Container semantics").
func arrayNode(elem *node) *node {
	is := func(_ *cycleCtx, a, b value.Value) (bool, error) {
		aa, _ := a.(*value.Array)
		ba, _ := b.(*value.Array)
		return aa == ba, nil
	}
	equal := func(c *cycleCtx, a, b value.Value) (bool, error) {
		if c.enter(a, b) {
			return true, nil
		}
		aa, _ := a.(*value.Array)
		ba, _ := b.(*value.Array)
		if len(aa.Vals) != len(ba.Vals) {
			return false, nil
		}
		for i := range aa.Vals {
			eq, err := elem.equal(c, aa.Vals[i], ba.Vals[i])
			if err != nil {
				return false, err
			}
			if !eq {
				return false, nil
			}
		}
		return true, nil
	}
	compare := func(c *cycleCtx, a, b value.Value) (int, error) {
		if c.enter(a, b) {
			return 0, nil
		}
		aa, _ := a.(*value.Array)
		ba, _ := b.(*value.Array)
		n := len(aa.Vals)
		if len(ba.Vals) < n {
			n = len(ba.Vals)
		}
		for i := 0; i < n; i++ {
			cmp, err := elem.compare(c, aa.Vals[i], ba.Vals[i])
			if err != nil {
				return 0, err
			}
			if cmp != 0 {
				return cmp, nil
			}
		}
		switch {
		case len(aa.Vals) < len(ba.Vals):
			return -1, nil
		case len(aa.Vals) > len(ba.Vals):
			return 1, nil
		default:
			return 0, nil
		}
	}
	return &node{is: is, equal: equal, compare: compare}
}

// setNode implements Set(K): co-iterate in sorted order, first differing
// element decides, shorter prefix sorts before longer.
func setNode(elem *node) *node {
	is := func(_ *cycleCtx, a, b value.Value) (bool, error) {
		as, _ := a.(*value.Set)
		bs, _ := b.(*value.Set)
		return as == bs, nil
	}
	equal := func(c *cycleCtx, a, b value.Value) (bool, error) {
		if c.enter(a, b) {
			return true, nil
		}
		as, _ := a.(*value.Set)
		bs, _ := b.(*value.Set)
		ak, bk := as.Keys(), bs.Keys()
		if len(ak) != len(bk) {
			return false, nil
		}
		for i := range ak {
			eq, err := elem.equal(c, ak[i], bk[i])
			if err != nil {
				return false, err
			}
			if !eq {
				return false, nil
			}
		}
		return true, nil
	}
	compare := func(c *cycleCtx, a, b value.Value) (int, error) {
		if c.enter(a, b) {
			return 0, nil
		}
		as, _ := a.(*value.Set)
		bs, _ := b.(*value.Set)
		ak, bk := as.Keys(), bs.Keys()
		n := len(ak)
		if len(bk) < n {
			n = len(bk)
		}
		for i := 0; i < n; i++ {
			cmp, err := elem.compare(c, ak[i], bk[i])
			if err != nil {
				return 0, err
			}
			if cmp != 0 {
				return cmp, nil
			}
		}
		switch {
		case len(ak) < len(bk):
			return -1, nil
		case len(ak) > len(bk):
			return 1, nil
		default:
			return 0, nil
		}
	}
	return &node{is: is, equal: equal, compare: compare}
}

// dictNode implements Dict(K,V): co-iterate in sorted key order, compare
// key then value, shorter prefix sorts before longer.
func dictNode(key, val *node) *node {
	is := func(_ *cycleCtx, a, b value.Value) (bool, error) {
		ad, _ := a.(*value.Dict)
		bd, _ := b.(*value.Dict)
		return ad == bd, nil
	}
	equal := func(c *cycleCtx, a, b value.Value) (bool, error) {
		if c.enter(a, b) {
			return true, nil
		}
		ad, _ := a.(*value.Dict)
		bd, _ := b.(*value.Dict)
		ak, bk := ad.Keys(), bd.Keys()
		if len(ak) != len(bk) {
			return false, nil
		}
		for i := range ak {
			eq, err := key.equal(c, ak[i], bk[i])
			if err != nil {
				return false, err
			}
			if !eq {
				return false, nil
			}
			av, _ := ad.Get(ak[i])
			bv, _ := bd.Get(bk[i])
			eq, err = val.equal(c, av, bv)
			if err != nil {
				return false, err
			}
			if !eq {
				return false, nil
			}
		}
		return true, nil
	}
	compare := func(c *cycleCtx, a, b value.Value) (int, error) {
		if c.enter(a, b) {
			return 0, nil
		}
		ad, _ := a.(*value.Dict)
		bd, _ := b.(*value.Dict)
		ak, bk := ad.Keys(), bd.Keys()
		n := len(ak)
		if len(bk) < n {
			n = len(bk)
		}
		for i := 0; i < n; i++ {
			cmp, err := key.compare(c, ak[i], bk[i])
			if err != nil {
				return 0, err
			}
			if cmp != 0 {
				return cmp, nil
			}
			av, _ := ad.Get(ak[i])
			bv, _ := bd.Get(bk[i])
			cmp, err = val.compare(c, av, bv)
			if err != nil {
				return 0, err
			}
			if cmp != 0 {
				return cmp, nil
			}
		}
		switch {
		case len(ak) < len(bk):
			return -1, nil
		case len(ak) > len(bk):
			return 1, nil
		default:
			return 0, nil
		}
	}
	return &node{is: is, equal: equal, compare: compare}
}

// structNode implements Struct: field-by-field comparison in declaration
// order (spec.md §4.1). Is recurses through each field's own is (so a
// mutable field compares by identity while an immutable field compares
// structurally, without needing cycle tracking here: any cycle must pass
// through a mutable container, whose is() does not recurse further).
func structNode(names []string, fields []*node) *node {
	is := func(c *cycleCtx, a, b value.Value) (bool, error) {
		as, _ := a.(*value.Struct)
		bs, _ := b.(*value.Struct)
		for i, name := range names {
			eq, err := fields[i].is(c, as.Fields[name], bs.Fields[name])
			if err != nil {
				return false, err
			}
			if !eq {
				return false, nil
			}
		}
		return true, nil
	}
	equal := func(c *cycleCtx, a, b value.Value) (bool, error) {
		as, _ := a.(*value.Struct)
		bs, _ := b.(*value.Struct)
		for i, name := range names {
			eq, err := fields[i].equal(c, as.Fields[name], bs.Fields[name])
			if err != nil {
				return false, err
			}
			if !eq {
				return false, nil
			}
		}
		return true, nil
	}
	compare := func(c *cycleCtx, a, b value.Value) (int, error) {
		as, _ := a.(*value.Struct)
		bs, _ := b.(*value.Struct)
		for i, name := range names {
			cmp, err := fields[i].compare(c, as.Fields[name], bs.Fields[name])
			if err != nil {
				return 0, err
			}
			if cmp != 0 {
				return cmp, nil
			}
		}
		return 0, nil
	}
	return &node{is: is, equal: equal, compare: compare}
}

// variantNode implements Variant: tag names compared lexicographically,
// then payloads of the common case (spec.md §4.1). Equal requires equal
// tags and equal payloads; Compare orders by tag name first.
func variantNode(tags []string, cases []*node) *node {
	indexOf := func(tag string) int {
		for i, t := range tags {
			if t == tag {
				return i
			}
		}
		return -1
	}
	is := func(c *cycleCtx, a, b value.Value) (bool, error) {
		av, _ := a.(*value.Variant)
		bv, _ := b.(*value.Variant)
		if av.Tag != bv.Tag {
			return false, nil
		}
		return cases[indexOf(av.Tag)].is(c, av.Val, bv.Val)
	}
	equal := func(c *cycleCtx, a, b value.Value) (bool, error) {
		av, _ := a.(*value.Variant)
		bv, _ := b.(*value.Variant)
		if av.Tag != bv.Tag {
			return false, nil
		}
		return cases[indexOf(av.Tag)].equal(c, av.Val, bv.Val)
	}
	compare := func(c *cycleCtx, a, b value.Value) (int, error) {
		av, _ := a.(*value.Variant)
		bv, _ := b.(*value.Variant)
		if av.Tag != bv.Tag {
			if av.Tag < bv.Tag {
				return -1, nil
			}
			return 1, nil
		}
		return cases[indexOf(av.Tag)].compare(c, av.Val, bv.Val)
	}
	return &node{is: is, equal: equal, compare: compare}
}
