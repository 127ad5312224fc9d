package vdom

// Diff returns the patches turning a tree rendered from x into one rendered
// from y. Identical trees produce no patches.
func Diff(x, y Node) []*Patch {
	var patches []*Patch
	diffHelp(x, y, &patches, 0)
	return patches
}

func push(patches *[]*Patch, p *Patch) *Patch {
	*patches = append(*patches, p)
	return p
}

func redraw(patches *[]*Patch, index int, y Node) {
	push(patches, &Patch{Kind: PatchRedraw, Index: index, Node: y})
}

func diffHelp(x, y Node, patches *[]*Patch, index int) {
	if x == y {
		return
	}

	switch xn := x.(type) {
	case *Thunk:
		yn, ok := y.(*Thunk)
		if !ok {
			redraw(patches, index, y)
			return
		}
		if funcCode(xn.build) == funcCode(yn.build) && sameRefs(xn.Refs, yn.Refs) {
			yn.cached = xn.force()
			return
		}
		var sub []*Patch
		diffHelp(xn.force(), yn.force(), &sub, 0)
		if len(sub) > 0 {
			push(patches, &Patch{Kind: PatchThunk, Index: index, Patches: sub})
		}

	case *Mapped:
		yn, ok := y.(*Mapped)
		if !ok {
			redraw(patches, index, y)
			return
		}
		xTaggers, xSub := unwrap(xn)
		yTaggers, ySub := unwrap(yn)
		if len(xTaggers) != len(yTaggers) {
			redraw(patches, index, y)
			return
		}
		if !sameTaggers(xTaggers, yTaggers) {
			push(patches, &Patch{Kind: PatchTagger, Index: index, Taggers: yTaggers})
		}
		diffHelp(xSub, ySub, patches, index+1)

	case *Text:
		yn, ok := y.(*Text)
		if !ok {
			redraw(patches, index, y)
			return
		}
		if xn.Value != yn.Value {
			push(patches, &Patch{Kind: PatchText, Index: index, Text: yn.Value})
		}

	case *Element:
		switch yn := y.(type) {
		case *Element:
			diffElements(xn, yn, patches, index)
		case *KeyedElement:
			diffElements(xn, yn.dekey(), patches, index)
		default:
			redraw(patches, index, y)
		}

	case *KeyedElement:
		switch yn := y.(type) {
		case *KeyedElement:
			if !diffShell(xn.Tag, xn.Namespace, yn.Tag, yn.Namespace, xn.Facts, yn.Facts, y, patches, index) {
				return
			}
			diffKeyedKids(xn, yn, patches, index)
		case *Element:
			diffElements(xn.dekey(), yn, patches, index)
		default:
			redraw(patches, index, y)
		}

	case *Custom:
		yn, ok := y.(*Custom)
		if !ok || funcAddr(xn.Render) != funcAddr(yn.Render) {
			redraw(patches, index, y)
			return
		}
		if d := diffFacts(xn.Facts, yn.Facts); d != nil {
			push(patches, &Patch{Kind: PatchFacts, Index: index, Facts: d})
		}
		if yn.Diff == nil {
			return
		}
		if apply := yn.Diff(xn.Model, yn.Model); apply != nil {
			push(patches, &Patch{Kind: PatchCustom, Index: index, Apply: apply, Facts: allFacts(yn.Facts)})
		}

	default:
		panic("vdom: unknown node type")
	}
}

// diffShell compares tag, namespace and facts. It reports false when the
// node was redrawn and its children must not be diffed.
func diffShell(xTag, xNS, yTag, yNS string, xFacts, yFacts Facts, y Node, patches *[]*Patch, index int) bool {
	if xTag != yTag || xNS != yNS {
		redraw(patches, index, y)
		return false
	}
	if d := diffFacts(xFacts, yFacts); d != nil {
		push(patches, &Patch{Kind: PatchFacts, Index: index, Facts: d})
	}
	return true
}

func diffElements(x, y *Element, patches *[]*Patch, index int) {
	if !diffShell(x.Tag, x.Namespace, y.Tag, y.Namespace, x.Facts, y.Facts, y, patches, index) {
		return
	}

	xLen, yLen := len(x.Children), len(y.Children)
	switch {
	case xLen > yLen:
		push(patches, &Patch{Kind: PatchRemoveLast, Index: index, Length: yLen, Count: xLen - yLen})
	case xLen < yLen:
		push(patches, &Patch{Kind: PatchAppend, Index: index, Length: xLen, Children: y.Children})
	}

	for i := 0; i < min(xLen, yLen); i++ {
		kid := x.Children[i]
		diffHelp(kid, y.Children[i], patches, index+1)
		index += kid.DescendantCount()
	}
}

func sameRefs(x, y []any) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if !sameRef(x[i], y[i]) {
			return false
		}
	}
	return true
}
