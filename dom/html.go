package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/valyala/quicktemplate"
)

// WriteHTML serializes n. Properties are written as `.name="value"`
// pseudo-attributes and namespaced attributes as `{ns}name="value"`, so two
// nodes with equal output are structurally equal.
func WriteHTML(w io.Writer, n *Node) {
	qw := quicktemplate.AcquireWriter(w)
	defer quicktemplate.ReleaseWriter(qw)

	writeNode(qw, n)
}

func writeNode(qw *quicktemplate.Writer, n *Node) {
	switch n.typ {
	case TextNode:
		qw.E().S(n.data)
		return
	case FragmentNode:
		for _, c := range n.children {
			writeNode(qw, c)
		}
		return
	}

	qw.N().S("<")
	qw.N().S(n.tag)

	for _, name := range n.Attributes() {
		writeAttr(qw, name, n.attrs[name])
	}
	for _, k := range n.AttributesNS() {
		writeAttr(qw, "{"+k[0]+"}"+k[1], n.attrsNS[nsKey{k[0], k[1]}])
	}
	if len(n.style) > 0 {
		decls := make([]string, 0, len(n.style))
		for _, name := range n.Styles() {
			decls = append(decls, name+": "+n.style[name])
		}
		writeAttr(qw, "style", strings.Join(decls, "; "))
	}
	for _, name := range n.Props() {
		writeAttr(qw, "."+name, fmt.Sprint(n.props[name]))
	}

	qw.N().S(">")
	for _, c := range n.children {
		writeNode(qw, c)
	}
	qw.N().S("</")
	qw.N().S(n.tag)
	qw.N().S(">")
}

func writeAttr(qw *quicktemplate.Writer, name, value string) {
	qw.N().S(" ")
	qw.N().S(name)
	qw.N().S(`="`)
	qw.E().S(value)
	qw.N().S(`"`)
}

func (n *Node) String() string {
	var sb strings.Builder
	WriteHTML(&sb, n)
	return sb.String()
}

// Fingerprint hashes the serialized tree together with the event names each
// node listens to.
func Fingerprint(n *Node) uint64 {
	d := xxhash.New()
	WriteHTML(d, n)
	writeListeners(d, n, "0")
	return d.Sum64()
}

func writeListeners(d *xxhash.Digest, n *Node, path string) {
	for _, name := range n.Listeners() {
		_, _ = d.WriteString(path + "@" + name + ";")
	}
	for i, c := range n.children {
		writeListeners(d, c, fmt.Sprintf("%s.%d", path, i))
	}
}
