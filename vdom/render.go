package vdom

import "github.com/AnatoleLucet/tea/dom"

// EventSink receives the messages produced by event listeners. sync is true
// when the handler stopped propagation and the update should not wait for a
// frame.
type EventSink func(msg any, sync bool)

// eventNode is one link of the chain an event message travels through:
// one per Mapped layer, ending at the sink.
type eventNode struct {
	tagger func(any) any
	parent *eventNode
	sink   EventSink
}

func (e *eventNode) send(msg any, sync bool) {
	cur := e
	for ; cur.tagger != nil; cur = cur.parent {
		msg = cur.tagger(msg)
	}
	if cur.sink != nil {
		cur.sink(msg, sync)
	}
}

// refsKey holds, on the dom node rendered for a Mapped group, the event nodes
// of every Mapped layer sharing that dom node, outermost first.
const refsKey = "tea.eventRefs"

func refsOf(n *dom.Node) []*eventNode {
	refs, _ := n.Expando(refsKey).([]*eventNode)
	return refs
}

func setRefs(n *dom.Node, refs []*eventNode) {
	n.SetExpando(refsKey, refs)
}

// Render builds a live tree for n. Messages from its listeners go to sink.
func Render(n Node, sink EventSink) *dom.Node {
	return render(n, &eventNode{sink: sink})
}

func render(n Node, events *eventNode) *dom.Node {
	switch n := n.(type) {
	case *Thunk:
		return render(n.force(), events)

	case *Mapped:
		sub := &eventNode{tagger: n.Tagger, parent: events}
		d := render(n.Node, sub)
		setRefs(d, append([]*eventNode{sub}, refsOf(d)...))
		return d

	case *Text:
		return dom.CreateTextNode(n.Value)

	case *Element:
		d := createElement(n.Namespace, n.Tag)
		applyFacts(d, events, allFacts(n.Facts))
		for _, c := range n.Children {
			d.AppendChild(render(c, events))
		}
		return d

	case *KeyedElement:
		d := createElement(n.Namespace, n.Tag)
		applyFacts(d, events, allFacts(n.Facts))
		for _, c := range n.Children {
			d.AppendChild(render(c.Node, events))
		}
		return d

	case *Custom:
		d := n.Render(n.Model)
		applyFacts(d, events, allFacts(n.Facts))
		return d
	}

	panic("vdom: unknown node type")
}

func createElement(ns, tag string) *dom.Node {
	if ns == "" {
		return dom.CreateElement(tag)
	}
	return dom.CreateElementNS(ns, tag)
}

func allFacts(f Facts) *FactsDiff {
	if d := diffFacts(Facts{}, f); d != nil {
		return d
	}
	return &FactsDiff{}
}
