package roddom

import (
	"strings"

	"github.com/go-rod/rod"

	"github.com/vango-dev/qcss/pkg/dom"
	"github.com/vango-dev/qcss/pkg/frame"
)

// Document is the dom view of a session's page.
type Document struct {
	s *Session
}

var (
	_ dom.Document    = (*Document)(nil)
	_ frame.Scheduler = (*Document)(nil)
)

func (d *Document) element(op, js string, args ...interface{}) *Element {
	if d.s.broken() {
		return d.s.wrap(nil)
	}
	el, err := d.s.page.ElementByJS(rod.Eval(js, args...))
	if err != nil {
		d.s.fail(op, err)
		return d.s.wrap(nil)
	}
	return d.s.wrap(el)
}

// CreateElement implements dom.Document.
func (d *Document) CreateElement(tag string) dom.Container {
	return d.element("createElement", `(t) => document.createElement(t)`, tag)
}

// DocumentElement implements dom.Document.
func (d *Document) DocumentElement() dom.Element {
	return d.element("documentElement", `() => document.documentElement`)
}

// Body implements dom.Document.
func (d *Document) Body() dom.Node {
	return d.element("body", `() => document.body`)
}

// ComputedStyle implements dom.Document.
func (d *Document) ComputedStyle(property string) string {
	if d.s.broken() {
		return ""
	}
	res, err := d.s.page.Eval(`(p) => getComputedStyle(document.documentElement).getPropertyValue(p)`, property)
	if err != nil {
		d.s.fail("getComputedStyle", err)
		return ""
	}
	return strings.TrimSpace(res.Value.Str())
}

// HTML returns the serialized document.
func (d *Document) HTML() string {
	if d.s.broken() {
		return ""
	}
	res, err := d.s.page.Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		d.s.fail("outerHTML", err)
		return ""
	}
	return res.Value.Str()
}

// RequestFrame implements frame.Scheduler with the page's
// requestAnimationFrame.
func (d *Document) RequestFrame(fn func()) {
	d.s.RequestFrame(fn)
}
