package vdom

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnatoleLucet/tea/dom"
)

type sent struct {
	msg  any
	sync bool
}

type recorder struct {
	log []sent
}

func (r *recorder) sink(msg any, sync bool) {
	r.log = append(r.log, sent{msg, sync})
}

func (r *recorder) last() any {
	if len(r.log) == 0 {
		return nil
	}
	return r.log[len(r.log)-1].msg
}

func wrap(name string) func(any) any {
	return func(m any) any { return fmt.Sprintf("%s(%v)", name, m) }
}

func button(msg string) Node {
	return El("button", []Attribute{OnClick(msg)}, text(msg))
}

func click(n *dom.Node) {
	n.Dispatch(&dom.Event{Type: "click"})
}

// update diffs x against y, applies the patches and returns the new root.
func update(t *testing.T, live *dom.Node, x, y Node, rec *recorder) *dom.Node {
	t.Helper()
	patches := Diff(x, y)
	checkOrdered(t, patches)
	return Apply(live, x, patches, rec.sink)
}

func TestEvents(t *testing.T) {
	t.Run("click reaches the sink", func(t *testing.T) {
		rec := &recorder{}
		live := Render(button("x"), rec.sink)

		click(live)
		assert.Equal(t, []sent{{"x", false}}, rec.log)
	})

	t.Run("taggers apply innermost first", func(t *testing.T) {
		rec := &recorder{}
		live := Render(Map(wrap("outer"), Map(wrap("inner"), button("x"))), rec.sink)

		click(live)
		assert.Equal(t, "outer(inner(x))", rec.last())
	})

	t.Run("tagger patch swaps the remap function in place", func(t *testing.T) {
		rec := &recorder{}
		x := El("div", nil, Map(wrap("a"), button("x")))
		y := El("div", nil, Map(wrap("b"), button("x")))
		live := Render(x, rec.sink)
		btn := live.Child(0)

		patches := Diff(x, y)
		require.Len(t, patches, 1)
		assert.Equal(t, PatchTagger, patches[0].Kind)

		live = Apply(live, x, patches, rec.sink)
		assert.Same(t, btn, live.Child(0))

		click(btn)
		assert.Equal(t, "b(x)", rec.last())
	})

	t.Run("decoder change keeps the listener", func(t *testing.T) {
		rec := &recorder{}
		x, y := button("x"), button("y")
		live := Render(x, rec.sink)
		before := live.Listener("click")

		live = update(t, live, x, y, rec)

		assert.Same(t, before, live.Listener("click"))
		click(live)
		assert.Equal(t, "y", rec.last())
	})

	t.Run("handler kind change replaces the listener", func(t *testing.T) {
		rec := &recorder{}
		x := button("x")
		y := El("button", []Attribute{On("click", Handler{Kind: CustomHandler, Decoder: Succeed("y")})})
		live := Render(x, rec.sink)
		before := live.Listener("click")

		live = update(t, live, x, y, rec)

		assert.NotSame(t, before, live.Listener("click"))
	})

	t.Run("removed handlers stop listening", func(t *testing.T) {
		rec := &recorder{}
		x, y := button("x"), El("button", nil, text("x"))
		live := Render(x, rec.sink)

		live = update(t, live, x, y, rec)

		click(live)
		assert.Empty(t, rec.log)
	})

	t.Run("stop propagation makes the message sync", func(t *testing.T) {
		rec := &recorder{}
		field := El("div", []Attribute{OnInput(func(s string) any { return "outer " + s })},
			El("input", []Attribute{OnInput(func(s string) any { return "inner " + s })}),
		)
		live := Render(field, rec.sink)

		live.Child(0).Dispatch(&dom.Event{Type: "input", Value: "hi"})
		assert.Equal(t, []sent{{"inner hi", true}}, rec.log)

		live.Child(0).Dispatch(&dom.Event{Type: "input", Value: 3})
		assert.Len(t, rec.log, 1)
	})

	t.Run("mapped attributes remap their messages", func(t *testing.T) {
		rec := &recorder{}
		live := Render(El("button", []Attribute{MapAttribute(wrap("m"), OnClick("x")), MapAttribute(wrap("m"), Class("c"))}), rec.sink)

		click(live)
		assert.Equal(t, "m(x)", rec.last())
		assert.Equal(t, `<button class="c"></button>`, live.String())
	})

	t.Run("prevent default", func(t *testing.T) {
		rec := &recorder{}
		link := El("a", []Attribute{On("click", Handler{Kind: MayPreventDefault, Decoder: DecoderFunc(func(*dom.Event) (Decoded, error) {
			return Decoded{Message: "nav", PreventDefault: true, StopPropagation: true}, nil
		})})})
		live := Render(link, rec.sink)

		assert.False(t, live.Dispatch(&dom.Event{Type: "click"}))
		assert.Equal(t, []sent{{"nav", false}}, rec.log)
	})
}

func TestThunkUnderMapped(t *testing.T) {
	lazyButton := func(msg string) Node {
		return Lazy(func() Node { return button(msg) }, msg)
	}

	t.Run("rebuilt thunk patches keep the outer tagger", func(t *testing.T) {
		rec := &recorder{}
		tagA := wrap("A")
		x := El("div", nil, text("t"), Map(tagA, lazyButton("x")))
		y := El("div", nil, text("t"), Map(tagA, lazyButton("y")))

		live := Render(x, rec.sink)
		live = update(t, live, x, y, rec)

		click(live.Child(1))
		assert.Equal(t, "A(y)", rec.last())
		assert.Equal(t, Render(y, nil).String(), live.String())
	})

	t.Run("redraw inside the thunk keeps the outer tagger", func(t *testing.T) {
		rec := &recorder{}
		tagA := wrap("A")
		link := Lazy(func() Node { return El("a", []Attribute{OnClick("z")}) }, "link")

		x := El("div", nil, Map(tagA, lazyButton("x")))
		y := El("div", nil, Map(tagA, link))
		z := El("div", nil, Map(wrap("B"), link))

		live := Render(x, rec.sink)

		live = update(t, live, x, y, rec)
		click(live.Child(0))
		assert.Equal(t, "A(z)", rec.last())

		live = update(t, live, y, z, rec)
		click(live.Child(0))
		assert.Equal(t, "B(z)", rec.last())
	})

	t.Run("tagger change inside the thunk", func(t *testing.T) {
		rec := &recorder{}
		tagA := wrap("A")
		inner := func(tagger func(any) any, ref string) Node {
			return Lazy(func() Node { return Map(tagger, button("x")) }, ref)
		}

		x := El("div", nil, Map(tagA, inner(wrap("B"), "b")))
		y := El("div", nil, Map(tagA, inner(wrap("C"), "c")))

		live := Render(x, rec.sink)
		click(live.Child(0))
		assert.Equal(t, "A(B(x))", rec.last())

		live = update(t, live, x, y, rec)
		click(live.Child(0))
		assert.Equal(t, "A(C(x))", rec.last())
	})

	t.Run("thunks under mapped siblings resolve the right nodes", func(t *testing.T) {
		rec := &recorder{}
		tagA, tagB := wrap("A"), wrap("B")
		x := El("ul", nil,
			Map(tagA, Map(tagB, lazyButton("1"))),
			El("li", nil, text("mid")),
			Map(tagA, lazyButton("2")),
		)
		y := El("ul", nil,
			Map(tagA, Map(tagB, lazyButton("1"))),
			El("li", nil, text("MID")),
			Map(tagA, lazyButton("3")),
		)

		live := Render(x, rec.sink)
		live = update(t, live, x, y, rec)

		assert.Equal(t, Render(y, nil).String(), live.String())
		click(live.Child(0))
		assert.Equal(t, "A(B(1))", rec.last())
		click(live.Child(2))
		assert.Equal(t, "A(3)", rec.last())
	})
}
