package vdom

import "github.com/AnatoleLucet/tea/dom"

// Virtualize describes an existing live tree so the first render can patch it
// instead of replacing it. Attributes, namespaced attributes and styles are
// carried over; properties and listeners are not.
func Virtualize(n *dom.Node) Node {
	switch n.Type() {
	case dom.TextNode:
		return TextNode(n.Data())

	case dom.ElementNode:
		var attrs []Attribute
		for _, name := range n.Attributes() {
			v, _ := n.Attribute(name)
			attrs = append(attrs, Attr(name, v))
		}
		for _, k := range n.AttributesNS() {
			v, _ := n.AttributeNS(k[0], k[1])
			attrs = append(attrs, AttrNamespaced(k[0], k[1], v))
		}
		for _, name := range n.Styles() {
			attrs = append(attrs, Style(name, n.Style(name)))
		}

		kids := n.ChildNodes()
		children := make([]Node, len(kids))
		for i, c := range kids {
			children[i] = Virtualize(c)
		}
		return ElNS(n.Namespace(), n.Tag(), attrs, children...)
	}

	return TextNode("")
}
