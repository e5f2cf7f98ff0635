//go:build js && wasm

package jsdom

import (
	"syscall/js"

	"github.com/vango-dev/qcss/pkg/dom"
	"github.com/vango-dev/qcss/pkg/frame"
)

// Element wraps a DOM element.
type Element struct {
	v js.Value
}

var _ dom.Container = Element{}

// Wrap returns the dom view of v.
func Wrap(v js.Value) Element {
	return Element{v: v}
}

// Value returns the underlying JS value.
func (e Element) Value() js.Value {
	return e.v
}

// Children implements dom.Node.
func (e Element) Children() []dom.Node {
	children := e.v.Get("children")
	n := children.Length()
	out := make([]dom.Node, n)
	for i := 0; i < n; i++ {
		out[i] = Element{v: children.Index(i)}
	}
	return out
}

// Attr implements dom.Node.
func (e Element) Attr(name string) (string, bool) {
	if !e.v.Call("hasAttribute", name).Bool() {
		return "", false
	}
	return e.v.Call("getAttribute", name).String(), true
}

// SetAttr implements dom.Node.
func (e Element) SetAttr(name, value string) {
	e.v.Call("setAttribute", name, value)
}

// SetStyle implements dom.StyleSetter.
func (e Element) SetStyle(property, value string) {
	style := e.v.Get("style")
	if value == "" {
		style.Call("removeProperty", property)
		return
	}
	style.Call("setProperty", property, value)
}

// BoundingRect implements dom.Element.
func (e Element) BoundingRect() dom.Rect {
	r := e.v.Call("getBoundingClientRect")
	return dom.Rect{
		Left:   r.Get("left").Float(),
		Top:    r.Get("top").Float(),
		Width:  r.Get("width").Float(),
		Height: r.Get("height").Float(),
	}
}

// AppendChild implements dom.Container.
func (e Element) AppendChild(child dom.Node) {
	if c, ok := child.(Element); ok {
		e.v.Call("appendChild", c.v)
	}
}

// AppendText implements dom.Container.
func (e Element) AppendText(text string) {
	doc := js.Global().Get("document")
	e.v.Call("appendChild", doc.Call("createTextNode", text))
}

// ClearChildren implements dom.Container.
func (e Element) ClearChildren() {
	e.v.Call("replaceChildren")
}

// AddEventListener implements dom.Container. The js.Func is kept for the
// life of the page.
func (e Element) AddEventListener(event string, handler func()) {
	fn := js.FuncOf(func(js.Value, []js.Value) any {
		handler()
		return nil
	})
	e.v.Call("addEventListener", event, fn)
}

// Document is the page's document.
type Document struct {
	v js.Value
}

var (
	_ dom.Document    = Document{}
	_ frame.Scheduler = Document{}
)

// Current returns the global document.
func Current() Document {
	return Document{v: js.Global().Get("document")}
}

// CreateElement implements dom.Document.
func (d Document) CreateElement(tag string) dom.Container {
	return Element{v: d.v.Call("createElement", tag)}
}

// DocumentElement implements dom.Document.
func (d Document) DocumentElement() dom.Element {
	return Element{v: d.v.Get("documentElement")}
}

// Body implements dom.Document.
func (d Document) Body() dom.Node {
	return Element{v: d.v.Get("body")}
}

// ComputedStyle implements dom.Document.
func (d Document) ComputedStyle(property string) string {
	cs := js.Global().Call("getComputedStyle", d.v.Get("documentElement"))
	return cs.Call("getPropertyValue", property).String()
}

// RequestFrame implements frame.Scheduler, so a Document can drive FLIP
// without further wiring.
func (d Document) RequestFrame(fn func()) {
	AnimationFrames{}.RequestFrame(fn)
}

// AnimationFrames schedules callbacks with requestAnimationFrame.
type AnimationFrames struct{}

var _ frame.Scheduler = AnimationFrames{}

// RequestFrame implements frame.Scheduler.
func (AnimationFrames) RequestFrame(fn func()) {
	var cb js.Func
	cb = js.FuncOf(func(js.Value, []js.Value) any {
		cb.Release()
		fn()
		return nil
	})
	js.Global().Call("requestAnimationFrame", cb)
}
