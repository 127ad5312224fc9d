package dom_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/AnatoleLucet/tea/dom"
)

func list(items ...string) *dom.Node {
	ul := dom.CreateElement("ul")
	for _, item := range items {
		li := dom.CreateElement("li")
		li.AppendChild(dom.CreateTextNode(item))
		ul.AppendChild(li)
	}
	return ul
}

func texts(n *dom.Node) []string {
	out := []string{}
	for _, c := range n.ChildNodes() {
		out = append(out, c.Child(0).Data())
	}
	return out
}

var _ = Describe("Node", func() {
	Describe("tree mutation", func() {
		It("moves a node that already has a parent", func() {
			a, b := list("x"), list()
			x := a.Child(0)

			b.AppendChild(x)

			Expect(a.NumChildren()).To(Equal(0))
			Expect(x.Parent()).To(BeIdenticalTo(b))
		})

		It("inserts before a reference or at the end", func() {
			ul := list("a", "c")
			b := list("b").Child(0)
			d := list("d").Child(0)

			ul.InsertBefore(b, ul.Child(1))
			ul.InsertBefore(d, nil)

			Expect(texts(ul)).To(Equal([]string{"a", "b", "c", "d"}))
		})

		It("reorders within the same parent", func() {
			ul := list("a", "b", "c")

			ul.InsertBefore(ul.Child(2), ul.Child(0))

			Expect(texts(ul)).To(Equal([]string{"c", "a", "b"}))
		})

		It("empties a fragment into the target", func() {
			frag := dom.CreateDocumentFragment()
			for _, li := range list("b", "c").ChildNodes() {
				frag.AppendChild(li)
			}
			ul := list("a", "d")

			ul.InsertBefore(frag, ul.Child(1))

			Expect(texts(ul)).To(Equal([]string{"a", "b", "c", "d"}))
			Expect(frag.NumChildren()).To(Equal(0))
			Expect(ul.Child(1).Parent()).To(BeIdenticalTo(ul))
		})

		It("replaces and removes children", func() {
			ul := list("a", "b")
			old := ul.Child(0)
			repl := list("z").Child(0)

			Expect(ul.ReplaceChild(repl, old)).To(BeIdenticalTo(old))
			Expect(old.Parent()).To(BeNil())
			Expect(texts(ul)).To(Equal([]string{"z", "b"}))

			ul.RemoveChild(repl)
			Expect(texts(ul)).To(Equal([]string{"b"}))
		})

		It("returns nil for out of range children", func() {
			ul := list("a")
			Expect(ul.Child(1)).To(BeNil())
			Expect(ul.Child(-1)).To(BeNil())
		})

		It("panics on a foreign reference node", func() {
			Expect(func() { list("a").InsertBefore(dom.CreateTextNode("x"), list("b").Child(0)) }).To(Panic())
		})
	})

	Describe("facts", func() {
		It("clears styles set to the empty string", func() {
			div := dom.CreateElement("div")
			div.SetStyle("color", "red")
			div.SetStyle("margin", "0")
			div.SetStyle("color", "")

			Expect(div.Styles()).To(Equal([]string{"margin"}))
		})

		It("keeps namespaced attributes apart", func() {
			use := dom.CreateElementNS("http://www.w3.org/2000/svg", "use")
			use.SetAttributeNS("http://www.w3.org/1999/xlink", "href", "#a")
			use.SetAttribute("href", "#b")

			v, ok := use.AttributeNS("http://www.w3.org/1999/xlink", "href")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("#a"))

			use.RemoveAttributeNS("http://www.w3.org/1999/xlink", "href")
			_, ok = use.AttributeNS("http://www.w3.org/1999/xlink", "href")
			Expect(ok).To(BeFalse())
			Expect(use.Attributes()).To(Equal([]string{"href"}))
		})
	})

	Describe("events", func() {
		It("bubbles to ancestors until stopped", func() {
			ul := list("a")
			li := ul.Child(0)
			log := []string{}

			ul.AddEventListener("click", dom.ListenerFunc(func(e *dom.Event) {
				log = append(log, "ul")
			}))
			li.AddEventListener("click", dom.ListenerFunc(func(e *dom.Event) {
				Expect(e.Target).To(BeIdenticalTo(li.Child(0)))
				log = append(log, "li")
			}))

			Expect(li.Child(0).Dispatch(&dom.Event{Type: "click"})).To(BeTrue())
			Expect(log).To(Equal([]string{"li", "ul"}))

			li.AddEventListener("click", dom.ListenerFunc(func(e *dom.Event) {
				log = append(log, "li stop")
				e.StopPropagation()
				e.PreventDefault()
			}))

			Expect(li.Dispatch(&dom.Event{Type: "click"})).To(BeFalse())
			Expect(log).To(Equal([]string{"li", "ul", "li stop"}))
		})

		It("removes listeners", func() {
			div := dom.CreateElement("div")
			div.AddEventListener("input", dom.ListenerFunc(func(*dom.Event) {}))
			div.RemoveEventListener("input")

			Expect(div.Listener("input")).To(BeNil())
		})
	})

	Describe("serialization", func() {
		It("writes escaped html with sorted facts", func() {
			div := dom.CreateElement("div")
			div.SetAttribute("title", `a "b"`)
			div.SetAttribute("id", "x")
			div.SetStyle("margin", "0")
			div.SetStyle("color", "red")
			div.SetProp("value", 3)
			div.AppendChild(dom.CreateTextNode("1 < 2"))

			var buf bytes.Buffer
			dom.WriteHTML(&buf, div)

			Expect(buf.String()).To(Equal(
				`<div id="x" title="a &quot;b&quot;" style="color: red; margin: 0" .value="3">1 &lt; 2</div>`,
			))
			Expect(div.String()).To(Equal(buf.String()))
		})

		It("fingerprints structure and listeners", func() {
			a, b := list("x", "y"), list("x", "y")
			Expect(dom.Fingerprint(a)).To(Equal(dom.Fingerprint(b)))

			b.Child(1).AddEventListener("click", dom.ListenerFunc(func(*dom.Event) {}))
			Expect(dom.Fingerprint(a)).NotTo(Equal(dom.Fingerprint(b)))

			Expect(dom.Fingerprint(list("x", "y"))).NotTo(Equal(dom.Fingerprint(list("y", "x"))))
		})
	})
})
