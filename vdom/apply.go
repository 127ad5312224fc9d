package vdom

import "github.com/AnatoleLucet/tea/dom"

// Apply patches the live tree root, rendered from old, and returns the new
// root, which differs from root only when the root itself was redrawn.
// Listeners installed by the patches send their messages to sink.
func Apply(root *dom.Node, old Node, patches []*Patch, sink EventSink) *dom.Node {
	if len(patches) == 0 {
		return root
	}

	addDomNodes(root, old, patches, &eventNode{sink: sink}, 0)
	return applyPatches(root, patches)
}

// addDomNodes resolves the live node of every patch in a single pre-order walk
// of old. Subtrees whose index range holds no patch are skipped whole.
func addDomNodes(d *dom.Node, v Node, patches []*Patch, events *eventNode, depth int) {
	addDomNodesHelp(d, v, patches, 0, 0, v.DescendantCount()-1, events, depth)
}

// addDomNodesHelp resolves the patches from i on whose index lies in
// [low, high], the range of v, and returns the index of the first patch left.
// depth is the number of Mapped layers above v rendered onto the same dom
// node.
func addDomNodesHelp(d *dom.Node, v Node, patches []*Patch, i, low, high int, events *eventNode, depth int) int {
	p := patches[i]
	index := p.Index

	for index == low {
		switch p.Kind {
		case PatchThunk:
			addDomNodes(d, v.(*Thunk).cached, p.Patches, events, depth)
		case PatchReorder:
			if len(p.Patches) > 0 {
				addDomNodesHelp(d, v, p.Patches, 0, low, high, events, depth)
			}
		case PatchRemove:
			if p.Entry != nil {
				p.Entry.dom = d
				if len(p.Patches) > 0 {
					addDomNodesHelp(d, v, p.Patches, 0, low, high, events, depth)
				}
			}
		}
		p.node, p.events, p.depth = d, events, depth

		i++
		if i == len(patches) {
			return i
		}
		p = patches[i]
		if index = p.Index; index > high {
			return i
		}
	}

	switch v := v.(type) {
	case *Mapped:
		taggers, sub := unwrap(v)
		refs := refsOf(d)
		inner := depth + len(taggers)
		return addDomNodesHelp(d, sub, patches, i, low+1, high, refs[inner-1], inner)

	case *Element:
		return addKids(d, v.Children, func(k Node) Node { return k }, patches, i, low, high, events)

	case *KeyedElement:
		return addKids(d, v.Children, func(k KeyedChild) Node { return k.Node }, patches, i, low, high, events)
	}

	return i
}

func addKids[K any](d *dom.Node, kids []K, node func(K) Node, patches []*Patch, i, low, high int, events *eventNode) int {
	index := patches[i].Index
	for j, k := range kids {
		kid := node(k)
		low++
		next := low + kid.DescendantCount() - 1
		if low <= index && index <= next {
			i = addDomNodesHelp(d.Child(j), kid, patches, i, low, next, events, 0)
			if i == len(patches) {
				return i
			}
			if index = patches[i].Index; index > high {
				return i
			}
		}
		low = next
	}
	return i
}

func applyPatches(root *dom.Node, patches []*Patch) *dom.Node {
	for _, p := range patches {
		local := p.node
		next := applyPatch(local, p)
		if local == root {
			root = next
		}
	}
	return root
}

func applyPatch(d *dom.Node, p *Patch) *dom.Node {
	switch p.Kind {
	case PatchRedraw:
		return applyRedraw(d, p)

	case PatchFacts:
		applyFacts(d, p.events, p.Facts)
		return d

	case PatchText:
		d.SetData(p.Text)
		return d

	case PatchThunk:
		return applyPatches(d, p.Patches)

	case PatchTagger:
		refs := refsOf(d)
		for i, t := range p.Taggers {
			refs[p.depth+i].tagger = t
		}
		return d

	case PatchRemoveLast:
		for range p.Count {
			d.RemoveChild(d.Child(p.Length))
		}
		return d

	case PatchAppend:
		end := d.Child(p.Length)
		for _, c := range p.Children[p.Length:] {
			d.InsertBefore(render(c, p.events), end)
		}
		return d

	case PatchRemove:
		if p.Entry == nil {
			d.Parent().RemoveChild(d)
			return d
		}
		// end inserts were already moved into their fragment
		if p.Entry.Index >= 0 {
			d.Parent().RemoveChild(d)
		}
		p.Entry.dom = applyPatches(d, p.Patches)
		return d

	case PatchReorder:
		return applyReorder(d, p)

	case PatchCustom:
		return applyCustom(d, p)
	}

	panic("vdom: unknown patch kind")
}

// applyRedraw keeps the event nodes of the Mapped layers above the redrawn
// node that share its dom node.
func applyRedraw(d *dom.Node, p *Patch) *dom.Node {
	next := render(p.Node, p.events)
	if p.depth > 0 {
		kept := refsOf(d)[:p.depth:p.depth]
		setRefs(next, append(kept, refsOf(next)...))
	}

	if parent := d.Parent(); parent != nil && next != d {
		parent.ReplaceChild(next, d)
	}
	return next
}

// applyCustom puts the node returned by the hook in place of d. The
// replacement gets the event nodes of d and the custom node's facts.
func applyCustom(d *dom.Node, p *Patch) *dom.Node {
	next := p.Apply(d)
	if next == nil || next == d {
		return d
	}

	setRefs(next, refsOf(d))
	applyFacts(next, p.events, p.Facts)

	if parent := d.Parent(); parent != nil {
		parent.ReplaceChild(next, d)
	}
	return next
}

func applyReorder(d *dom.Node, p *Patch) *dom.Node {
	var frag *dom.Node
	if len(p.EndInserts) > 0 {
		frag = dom.CreateDocumentFragment()
		for _, ins := range p.EndInserts {
			frag.AppendChild(entryNode(ins.Entry, p.events))
		}
	}

	d = applyPatches(d, p.Patches)

	for _, ins := range p.Inserts {
		d.InsertBefore(entryNode(ins.Entry, p.events), d.Child(ins.Index))
	}

	if frag != nil {
		d.AppendChild(frag)
	}
	return d
}

func entryNode(e *Entry, events *eventNode) *dom.Node {
	if e.State == EntryMove {
		return e.dom
	}
	return render(e.Node, events)
}
