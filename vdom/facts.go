package vdom

import "github.com/AnatoleLucet/tea/dom"

// Facts are the attributes of an element split by category.
type Facts struct {
	Events map[string]Handler
	Styles map[string]string
	Props  map[string]any
	Attrs  map[string]string
	AttrNS map[string]NSValue
}

type NSValue struct {
	Namespace string
	Value     string
}

func organize(attrs []Attribute) Facts {
	var f Facts
	for _, a := range attrs {
		switch a.kind {
		case attrEvent:
			f.Events = put(f.Events, a.key, a.handler)
		case attrStyle:
			f.Styles = put(f.Styles, a.key, a.value.(string))
		case attrProp:
			if prev, ok := f.Props[a.key].(string); ok && a.key == "className" {
				f.Props = put[any](f.Props, a.key, prev+" "+a.value.(string))
				continue
			}
			f.Props = put(f.Props, a.key, a.value)
		case attrPlain:
			v := a.value.(string)
			if prev, ok := f.Attrs[a.key]; ok && a.key == "class" {
				v = prev + " " + v
			}
			f.Attrs = put(f.Attrs, a.key, v)
		case attrNS:
			f.AttrNS = put(f.AttrNS, a.key, NSValue{Namespace: a.ns, Value: a.value.(string)})
		}
	}
	return f
}

func put[V any](m map[string]V, k string, v V) map[string]V {
	if m == nil {
		m = make(map[string]V)
	}
	m[k] = v
	return m
}

// NSChange sets a namespaced attribute, or removes it when Value is nil.
type NSChange struct {
	Namespace string
	Value     *string
}

// FactsDiff holds what changed in each category. A nil handler, an empty
// style, a nil prop and a nil attribute value all mean removal.
type FactsDiff struct {
	Events map[string]*Handler
	Styles map[string]string
	Props  map[string]any
	Attrs  map[string]*string
	AttrNS map[string]NSChange
}

func (d *FactsDiff) empty() bool {
	return len(d.Events) == 0 && len(d.Styles) == 0 && len(d.Props) == 0 && len(d.Attrs) == 0 && len(d.AttrNS) == 0
}

// diffFacts returns nil when x and y are the same.
func diffFacts(x, y Facts) *FactsDiff {
	d := &FactsDiff{}

	for k, xv := range x.Events {
		yv, ok := y.Events[k]
		switch {
		case !ok:
			d.Events = put[*Handler](d.Events, k, nil)
		case !xv.equal(yv):
			d.Events = put(d.Events, k, &yv)
		}
	}
	for k, yv := range y.Events {
		if _, ok := x.Events[k]; !ok {
			d.Events = put(d.Events, k, &yv)
		}
	}

	for k, xv := range x.Styles {
		yv, ok := y.Styles[k]
		switch {
		case !ok:
			d.Styles = put(d.Styles, k, "")
		case xv != yv:
			d.Styles = put(d.Styles, k, yv)
		}
	}
	for k, yv := range y.Styles {
		if _, ok := x.Styles[k]; !ok {
			d.Styles = put(d.Styles, k, yv)
		}
	}

	for k, xv := range x.Props {
		yv, ok := y.Props[k]
		switch {
		case !ok:
			d.Props = put[any](d.Props, k, nil)
		// the live value may have been changed by the user
		case k == "value" || k == "checked" || !sameRef(xv, yv):
			d.Props = put(d.Props, k, yv)
		}
	}
	for k, yv := range y.Props {
		if _, ok := x.Props[k]; !ok {
			d.Props = put(d.Props, k, yv)
		}
	}

	for k, xv := range x.Attrs {
		yv, ok := y.Attrs[k]
		switch {
		case !ok:
			d.Attrs = put[*string](d.Attrs, k, nil)
		case xv != yv:
			d.Attrs = put(d.Attrs, k, &yv)
		}
	}
	for k, yv := range y.Attrs {
		if _, ok := x.Attrs[k]; !ok {
			d.Attrs = put(d.Attrs, k, &yv)
		}
	}

	for k, xv := range x.AttrNS {
		yv, ok := y.AttrNS[k]
		switch {
		case !ok:
			d.AttrNS = put(d.AttrNS, k, NSChange{Namespace: xv.Namespace})
		case xv != yv:
			d.AttrNS = put(d.AttrNS, k, NSChange{Namespace: yv.Namespace, Value: &yv.Value})
		}
	}
	for k, yv := range y.AttrNS {
		if _, ok := x.AttrNS[k]; !ok {
			d.AttrNS = put(d.AttrNS, k, NSChange{Namespace: yv.Namespace, Value: &yv.Value})
		}
	}

	if d.empty() {
		return nil
	}
	return d
}

func applyFacts(n *dom.Node, events *eventNode, d *FactsDiff) {
	for k, h := range d.Events {
		applyEvent(n, events, k, h)
	}
	for k, v := range d.Styles {
		n.SetStyle(k, v)
	}
	for k, v := range d.Props {
		if v == nil {
			n.DeleteProp(k)
			continue
		}
		n.SetProp(k, v)
	}
	for k, v := range d.Attrs {
		if v == nil {
			n.RemoveAttribute(k)
			continue
		}
		n.SetAttribute(k, *v)
	}
	for k, c := range d.AttrNS {
		if c.Value == nil {
			n.RemoveAttributeNS(c.Namespace, k)
			continue
		}
		n.SetAttributeNS(c.Namespace, k, *c.Value)
	}
}

// applyEvent keeps an installed listener when only its decoder changed, so
// the listener stays bound to the event chain it was rendered with.
func applyEvent(n *dom.Node, events *eventNode, name string, h *Handler) {
	old, _ := n.Listener(name).(*listener)

	if h == nil {
		n.RemoveEventListener(name)
		return
	}

	if old != nil && old.handler.Kind == h.Kind {
		old.handler = *h
		return
	}

	n.AddEventListener(name, &listener{handler: *h, events: events})
}

type listener struct {
	handler Handler
	events  *eventNode
}

func (l *listener) HandleEvent(e *dom.Event) {
	res, err := l.handler.Decoder.Decode(e)
	if err != nil {
		return
	}

	var stop, prevent bool
	switch l.handler.Kind {
	case MayStopPropagation:
		stop = res.StopPropagation
	case MayPreventDefault:
		prevent = res.PreventDefault
	case CustomHandler:
		stop, prevent = res.StopPropagation, res.PreventDefault
	}

	if stop {
		e.StopPropagation()
	}
	if prevent {
		e.PreventDefault()
	}

	l.events.send(res.Message, stop)
}
