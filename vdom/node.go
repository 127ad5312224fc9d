// Package vdom describes UI trees as immutable values, computes the patches
// turning one tree into another and applies them to a live dom tree.
package vdom

import "github.com/AnatoleLucet/tea/dom"

// Node is an immutable virtual node. The concrete types are *Text,
// *Element, *KeyedElement, *Custom, *Mapped and *Thunk.
type Node interface {
	// DescendantCount is the number of nodes in the subtree, the node itself
	// included. It is also the width of the node's pre-order index range.
	DescendantCount() int

	vnode()
}

type Text struct {
	Value string
}

func TextNode(s string) *Text {
	return &Text{Value: s}
}

type Element struct {
	Tag       string
	Namespace string
	Facts     Facts
	Children  []Node

	count int
}

func El(tag string, attrs []Attribute, children ...Node) *Element {
	return ElNS("", tag, attrs, children...)
}

func ElNS(ns, tag string, attrs []Attribute, children ...Node) *Element {
	count := 1
	for _, c := range children {
		count += c.DescendantCount()
	}
	return &Element{Tag: tag, Namespace: ns, Facts: organize(attrs), Children: children, count: count}
}

type KeyedChild struct {
	Key  string
	Node Node
}

// Key pairs n with a key for a keyed element.
func Key(key string, n Node) KeyedChild {
	return KeyedChild{Key: key, Node: n}
}

// KeyedElement is an element whose children are matched by key instead of
// position when diffed.
type KeyedElement struct {
	Tag       string
	Namespace string
	Facts     Facts
	Children  []KeyedChild

	count int
}

func Keyed(tag string, attrs []Attribute, children ...KeyedChild) *KeyedElement {
	return KeyedNS("", tag, attrs, children...)
}

func KeyedNS(ns, tag string, attrs []Attribute, children ...KeyedChild) *KeyedElement {
	count := 1
	for _, c := range children {
		count += c.Node.DescendantCount()
	}
	return &KeyedElement{Tag: tag, Namespace: ns, Facts: organize(attrs), Children: children, count: count}
}

// dekey views a keyed element as a plain one. The index space is the same.
func (k *KeyedElement) dekey() *Element {
	children := make([]Node, len(k.Children))
	for i, c := range k.Children {
		children[i] = c.Node
	}
	return &Element{Tag: k.Tag, Namespace: k.Namespace, Facts: k.Facts, Children: children, count: k.count}
}

// Mapped passes every message produced inside Node through Tagger.
type Mapped struct {
	Tagger func(any) any
	Node   Node

	count int
}

func Map(tagger func(any) any, n Node) *Mapped {
	return &Mapped{Tagger: tagger, Node: n, count: 1 + n.DescendantCount()}
}

// Thunk is a lazily built subtree. It is rebuilt when build comes from another
// func or one of its refs changes identity, so refs must cover everything
// build captures.
type Thunk struct {
	Refs []any

	build  func() Node
	cached Node
}

func Lazy(build func() Node, refs ...any) *Thunk {
	return &Thunk{Refs: refs, build: build}
}

func (t *Thunk) force() Node {
	if t.cached == nil {
		t.cached = t.build()
	}
	return t.cached
}

// Custom is a subtree rendered and diffed by foreign code.
type Custom struct {
	Facts Facts
	Model any

	Render func(model any) *dom.Node
	// Diff returns nil when nothing changed, otherwise a func patching the
	// rendered node and returning the node that replaces it.
	Diff func(prev, next any) func(*dom.Node) *dom.Node
}

func NewCustom(attrs []Attribute, model any, render func(any) *dom.Node, diff func(prev, next any) func(*dom.Node) *dom.Node) *Custom {
	return &Custom{Facts: organize(attrs), Model: model, Render: render, Diff: diff}
}

func (*Text) DescendantCount() int           { return 1 }
func (e *Element) DescendantCount() int      { return e.count }
func (k *KeyedElement) DescendantCount() int { return k.count }
func (m *Mapped) DescendantCount() int       { return m.count }
func (*Thunk) DescendantCount() int          { return 1 }
func (*Custom) DescendantCount() int         { return 1 }

func (*Text) vnode()         {}
func (*Element) vnode()      {}
func (*KeyedElement) vnode() {}
func (*Mapped) vnode()       {}
func (*Thunk) vnode()        {}
func (*Custom) vnode()       {}

// unwrap collects the taggers of nested Mapped layers, outermost first, and
// returns the first node that is not Mapped.
func unwrap(m *Mapped) ([]func(any) any, Node) {
	taggers := []func(any) any{m.Tagger}
	n := m.Node
	for {
		inner, ok := n.(*Mapped)
		if !ok {
			return taggers, n
		}
		taggers = append(taggers, inner.Tagger)
		n = inner.Node
	}
}
