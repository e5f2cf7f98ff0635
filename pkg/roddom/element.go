package roddom

import (
	"fmt"

	"github.com/go-rod/rod"

	"github.com/vango-dev/qcss/pkg/dom"
)

// Element is a remote element handle.
type Element struct {
	s  *Session
	el *rod.Element
}

var _ dom.Container = (*Element)(nil)

func (s *Session) wrap(el *rod.Element) *Element {
	return &Element{s: s, el: el}
}

// Rod returns the underlying rod element.
func (e *Element) Rod() *rod.Element {
	return e.el
}

func (e *Element) ok() bool {
	return e.el != nil && !e.s.broken()
}

func (e *Element) eval(op, js string, args ...interface{}) {
	if !e.ok() {
		return
	}
	_, err := e.el.Eval(js, args...)
	e.s.fail(op, err)
}

// Children implements dom.Node.
func (e *Element) Children() []dom.Node {
	if !e.ok() {
		return nil
	}
	els, err := e.el.Elements(":scope > *")
	if err != nil {
		e.s.fail("children", err)
		return nil
	}
	out := make([]dom.Node, len(els))
	for i, c := range els {
		out[i] = e.s.wrap(c)
	}
	return out
}

// Attr implements dom.Node.
func (e *Element) Attr(name string) (string, bool) {
	if !e.ok() {
		return "", false
	}
	v, err := e.el.Attribute(name)
	if err != nil {
		e.s.fail("getAttribute", err)
		return "", false
	}
	if v == nil {
		return "", false
	}
	return *v, true
}

// SetAttr implements dom.Node.
func (e *Element) SetAttr(name, value string) {
	e.eval("setAttribute", `(n, v) => this.setAttribute(n, v)`, name, value)
}

// SetStyle implements dom.StyleSetter.
func (e *Element) SetStyle(property, value string) {
	e.eval("setStyle", `(p, v) => v ? this.style.setProperty(p, v) : this.style.removeProperty(p)`, property, value)
}

// BoundingRect implements dom.Element.
func (e *Element) BoundingRect() dom.Rect {
	if !e.ok() {
		return dom.Rect{}
	}
	res, err := e.el.Eval(`() => {
		const r = this.getBoundingClientRect();
		return {left: r.left, top: r.top, width: r.width, height: r.height};
	}`)
	if err != nil {
		e.s.fail("getBoundingClientRect", err)
		return dom.Rect{}
	}
	v := res.Value
	return dom.Rect{
		Left:   v.Get("left").Num(),
		Top:    v.Get("top").Num(),
		Width:  v.Get("width").Num(),
		Height: v.Get("height").Num(),
	}
}

// AppendChild implements dom.Container.
func (e *Element) AppendChild(child dom.Node) {
	c, ok := child.(*Element)
	if !ok || c.el == nil {
		e.s.fail("appendChild", fmt.Errorf("cannot append %T", child))
		return
	}
	e.eval("appendChild", `(c) => this.appendChild(c)`, c.el.Object)
}

// AppendText implements dom.Container.
func (e *Element) AppendText(text string) {
	e.eval("appendText", `(t) => this.appendChild(document.createTextNode(t))`, text)
}

// ClearChildren implements dom.Container.
func (e *Element) ClearChildren() {
	e.eval("clearChildren", `() => this.replaceChildren()`)
}

// AddEventListener implements dom.Container. The handler runs through the
// session's poster.
func (e *Element) AddEventListener(event string, handler func()) {
	if handler == nil || !e.ok() {
		return
	}
	id := e.s.register(handler, false)
	e.eval("addEventListener",
		fmt.Sprintf(`(ev, id) => this.addEventListener(ev, () => window.%s(id))`, bindingName),
		event, id)
}
