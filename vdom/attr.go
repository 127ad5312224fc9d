package vdom

import (
	"errors"

	"github.com/AnatoleLucet/tea/dom"
)

type attrKind uint8

const (
	attrEvent attrKind = iota
	attrStyle
	attrProp
	attrPlain
	attrNS
)

// Attribute is one fact of an element: an event handler, an inline style, a
// property, a plain attribute or a namespaced attribute.
type Attribute struct {
	kind attrKind
	key  string
	ns   string

	value   any
	handler Handler
}

func Attr(name, value string) Attribute {
	return Attribute{kind: attrPlain, key: name, value: value}
}

func AttrNamespaced(ns, name, value string) Attribute {
	return Attribute{kind: attrNS, key: name, ns: ns, value: value}
}

func Style(name, value string) Attribute {
	return Attribute{kind: attrStyle, key: name, value: value}
}

func Prop(name string, value any) Attribute {
	return Attribute{kind: attrProp, key: name, value: value}
}

// Class is the class attribute. Several Class attributes on one element are
// joined with a space.
func Class(name string) Attribute {
	return Attr("class", name)
}

func On(event string, h Handler) Attribute {
	return Attribute{kind: attrEvent, key: event, handler: h}
}

func OnClick(msg any) Attribute {
	return On("click", Handler{Kind: Normal, Decoder: Succeed(msg)})
}

// OnInput sends toMsg(value) on input events, value being the string carried
// by the event.
func OnInput(toMsg func(string) any) Attribute {
	return On("input", Handler{Kind: MayStopPropagation, Decoder: inputDecoder{toMsg}})
}

// MapAttribute passes the messages of an event attribute through tagger.
// Other attributes are returned as is.
func MapAttribute(tagger func(any) any, a Attribute) Attribute {
	if a.kind != attrEvent {
		return a
	}
	a.handler.Decoder = mappedDecoder{tagger: tagger, inner: a.handler.Decoder}
	return a
}

type HandlerKind uint8

const (
	// Normal handlers only produce a message.
	Normal HandlerKind = iota
	// MayStopPropagation handlers decide whether the event stops bubbling.
	// Stopping also makes the update synchronous.
	MayStopPropagation
	// MayPreventDefault handlers decide whether the default action runs.
	MayPreventDefault
	// CustomHandler handlers decide both.
	CustomHandler
)

type Handler struct {
	Kind    HandlerKind
	Decoder Decoder
}

func (h Handler) equal(o Handler) bool {
	return h.Kind == o.Kind && sameRef(h.Decoder, o.Decoder)
}

type Decoded struct {
	Message         any
	StopPropagation bool
	PreventDefault  bool
}

// Decoder turns an event into a message. An error drops the event.
type Decoder interface {
	Decode(e *dom.Event) (Decoded, error)
}

type DecoderFunc func(e *dom.Event) (Decoded, error)

func (f DecoderFunc) Decode(e *dom.Event) (Decoded, error) { return f(e) }

type succeedDecoder struct {
	msg any
}

// Succeed decodes every event to msg. Two Succeed decoders with equal
// comparable messages are equal, so re-rendering them does not touch the
// listener.
func Succeed(msg any) Decoder {
	return succeedDecoder{msg}
}

func (d succeedDecoder) Decode(*dom.Event) (Decoded, error) {
	return Decoded{Message: d.msg}, nil
}

var errNotString = errors.New("event value is not a string")

type inputDecoder struct {
	toMsg func(string) any
}

func (d inputDecoder) Decode(e *dom.Event) (Decoded, error) {
	s, ok := e.Value.(string)
	if !ok {
		return Decoded{}, errNotString
	}
	return Decoded{Message: d.toMsg(s), StopPropagation: true}, nil
}

type mappedDecoder struct {
	tagger func(any) any
	inner  Decoder
}

func (d mappedDecoder) Decode(e *dom.Event) (Decoded, error) {
	res, err := d.inner.Decode(e)
	if err != nil {
		return res, err
	}
	res.Message = d.tagger(res.Message)
	return res, nil
}
