// Package dom is an in-memory, mutable render target. It models the subset of
// a browser document the vdom package patches: elements, text, fragments,
// attributes, properties, inline styles and bubbling events.
package dom

import (
	"fmt"
	"slices"
	"sort"
)

type NodeType uint8

const (
	ElementNode  NodeType = 1
	TextNode     NodeType = 3
	FragmentNode NodeType = 11
)

func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case FragmentNode:
		return "fragment"
	}
	return fmt.Sprintf("NodeType(%d)", uint8(t))
}

type nsKey struct {
	ns   string
	name string
}

// Node is a live node. Nodes are not safe for concurrent use.
type Node struct {
	typ NodeType

	tag string
	ns  string

	// text content of a text node
	data string

	attrs     map[string]string
	attrsNS   map[nsKey]string
	props     map[string]any
	style     map[string]string
	listeners map[string]Listener

	// host-private values attached to the node
	expando map[string]any

	parent   *Node
	children []*Node
}

func CreateElement(tag string) *Node {
	return &Node{typ: ElementNode, tag: tag}
}

func CreateElementNS(ns, tag string) *Node {
	return &Node{typ: ElementNode, tag: tag, ns: ns}
}

func CreateTextNode(data string) *Node {
	return &Node{typ: TextNode, data: data}
}

func CreateDocumentFragment() *Node {
	return &Node{typ: FragmentNode}
}

func (n *Node) Type() NodeType    { return n.typ }
func (n *Node) Tag() string       { return n.tag }
func (n *Node) Namespace() string { return n.ns }
func (n *Node) Parent() *Node     { return n.parent }

// ChildNodes returns a copy of the children list.
func (n *Node) ChildNodes() []*Node {
	return slices.Clone(n.children)
}

func (n *Node) NumChildren() int {
	return len(n.children)
}

// Child returns the i-th child, or nil when i is out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *Node) indexOf(c *Node) int {
	return slices.Index(n.children, c)
}

func (n *Node) detach() {
	if n.parent == nil {
		return
	}
	p := n.parent
	if i := p.indexOf(n); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	n.parent = nil
}

// AppendChild moves c to the end of n's children. Appending a fragment moves
// the fragment's children instead.
func (n *Node) AppendChild(c *Node) *Node {
	return n.InsertBefore(c, nil)
}

// InsertBefore moves c right before ref, or to the end when ref is nil. ref
// must be a child of n.
func (n *Node) InsertBefore(c, ref *Node) *Node {
	if c == ref {
		return c
	}
	if ref != nil && ref.parent != n {
		panic("dom: reference node is not a child")
	}
	if n.typ == TextNode {
		panic("dom: text nodes have no children")
	}

	moved := []*Node{c}
	if c.typ == FragmentNode {
		moved = c.children
		c.children = nil
	} else {
		c.detach()
	}

	for _, m := range moved {
		m.parent = n
	}

	at := len(n.children)
	if ref != nil {
		at = n.indexOf(ref)
	}
	n.children = slices.Insert(n.children, at, moved...)

	return c
}

func (n *Node) RemoveChild(c *Node) *Node {
	if c.parent != n {
		panic("dom: node is not a child")
	}
	c.detach()
	return c
}

// ReplaceChild puts c in place of old and returns old.
func (n *Node) ReplaceChild(c, old *Node) *Node {
	if old.parent != n {
		panic("dom: node is not a child")
	}
	if c != old {
		n.InsertBefore(c, old)
		old.detach()
	}
	return old
}

func (n *Node) Data() string { return n.data }

func (n *Node) SetData(data string) {
	n.data = data
}

func (n *Node) Attribute(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

func (n *Node) SetAttribute(name, value string) {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[name] = value
}

func (n *Node) RemoveAttribute(name string) {
	delete(n.attrs, name)
}

// Attributes returns the attribute names in sorted order.
func (n *Node) Attributes() []string {
	return sortedKeys(n.attrs)
}

func (n *Node) AttributeNS(ns, name string) (string, bool) {
	v, ok := n.attrsNS[nsKey{ns, name}]
	return v, ok
}

func (n *Node) SetAttributeNS(ns, name, value string) {
	if n.attrsNS == nil {
		n.attrsNS = make(map[nsKey]string)
	}
	n.attrsNS[nsKey{ns, name}] = value
}

func (n *Node) RemoveAttributeNS(ns, name string) {
	delete(n.attrsNS, nsKey{ns, name})
}

// AttributesNS returns namespace/name pairs sorted by namespace then name.
func (n *Node) AttributesNS() [][2]string {
	out := make([][2]string, 0, len(n.attrsNS))
	for k := range n.attrsNS {
		out = append(out, [2]string{k.ns, k.name})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

func (n *Node) Prop(name string) (any, bool) {
	v, ok := n.props[name]
	return v, ok
}

func (n *Node) SetProp(name string, v any) {
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[name] = v
}

func (n *Node) DeleteProp(name string) {
	delete(n.props, name)
}

func (n *Node) Props() []string {
	return sortedKeys(n.props)
}

func (n *Node) Style(name string) string {
	return n.style[name]
}

// SetStyle sets an inline style declaration. An empty value removes it.
func (n *Node) SetStyle(name, value string) {
	if value == "" {
		delete(n.style, name)
		return
	}
	if n.style == nil {
		n.style = make(map[string]string)
	}
	n.style[name] = value
}

func (n *Node) Styles() []string {
	return sortedKeys(n.style)
}

func (n *Node) Expando(key string) any {
	return n.expando[key]
}

func (n *Node) SetExpando(key string, v any) {
	if n.expando == nil {
		n.expando = make(map[string]any)
	}
	n.expando[key] = v
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
