// Package htmldom adapts golang.org/x/net/html trees to the dom
// capabilities, so static pages can be hydrated and checked offline.
//
// Parsed documents have no layout: BoundingRect is always zero and
// listeners are ignored. Computed styles come from inline styles on
// <html> and from top-level :root rules in <style> elements; rules inside
// conditional at-rules such as @media are not applied.
package htmldom

import (
	"bytes"
	"io"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/qcss/internal/errors"
	"github.com/vango-dev/qcss/pkg/dom"
)

// Element wraps an element node.
type Element struct {
	node *html.Node
}

var _ dom.Container = (*Element)(nil)

// Wrap returns the dom view of n.
func Wrap(n *html.Node) *Element {
	return &Element{node: n}
}

// Node returns the underlying html node.
func (e *Element) Node() *html.Node {
	return e.node
}

// Tag returns the element name.
func (e *Element) Tag() string {
	return e.node.Data
}

// Children implements dom.Node.
func (e *Element) Children() []dom.Node {
	var out []dom.Node
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, Wrap(c))
		}
	}
	return out
}

// Attr implements dom.Node.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr implements dom.Node.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

func (e *Element) removeAttr(name string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr = append(e.node.Attr[:i], e.node.Attr[i+1:]...)
			return
		}
	}
}

// Style returns an inline style property.
func (e *Element) Style(property string) string {
	v, _ := e.Attr("style")
	return dom.ParseStyle(v).Get(property)
}

// SetStyle implements dom.StyleSetter by rewriting the style attribute.
func (e *Element) SetStyle(property, value string) {
	v, _ := e.Attr("style")
	st := dom.ParseStyle(v)
	st.Set(property, value)
	if st.Len() == 0 {
		e.removeAttr("style")
		return
	}
	e.SetAttr("style", st.String())
}

// BoundingRect implements dom.Element. Static documents have no layout.
func (e *Element) BoundingRect() dom.Rect {
	return dom.Rect{}
}

// AppendChild implements dom.Container. Only *Element children are
// accepted; a child attached elsewhere is moved.
func (e *Element) AppendChild(child dom.Node) {
	c, ok := child.(*Element)
	if !ok {
		panic("htmldom: cannot append foreign node")
	}
	if c.node.Parent != nil {
		c.node.Parent.RemoveChild(c.node)
	}
	e.node.AppendChild(c.node)
}

// AppendText implements dom.Container.
func (e *Element) AppendText(text string) {
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// ClearChildren implements dom.Container.
func (e *Element) ClearChildren() {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}
}

// AddEventListener implements dom.Container. Static documents never fire
// events, so the handler is dropped.
func (e *Element) AddEventListener(string, func()) {}

// Document is a parsed HTML document.
type Document struct {
	root *html.Node
	html *html.Node
	body *html.Node
}

var _ dom.Document = (*Document)(nil)

// Parse reads an HTML document. name labels errors.
func Parse(r io.Reader, name string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.New("E300").WithDetail(name).Wrap(err)
	}
	return FromNode(root, name)
}

// ParseString parses an HTML string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s), "<string>")
}

// FromNode wraps an already parsed document node.
func FromNode(root *html.Node, name string) (*Document, error) {
	d := &Document{root: root}
	d.html = findElement(root, atom.Html)
	if d.html != nil {
		d.body = findElement(d.html, atom.Body)
	}
	if d.body == nil {
		return nil, errors.New("E301").WithDetail(name).
			WithSuggestion("Pass a full HTML document or a fragment inside <body>.")
	}
	return d, nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := findElement(c, a); f != nil {
			return f
		}
	}
	return nil
}

// CreateElement implements dom.Document.
func (d *Document) CreateElement(tag string) dom.Container {
	tag = strings.ToLower(tag)
	return Wrap(&html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))})
}

// DocumentElement implements dom.Document.
func (d *Document) DocumentElement() dom.Element {
	return Wrap(d.html)
}

// Body implements dom.Document.
func (d *Document) Body() dom.Node {
	return Wrap(d.body)
}

// BodyElement returns the body with its concrete type.
func (d *Document) BodyElement() *Element {
	return Wrap(d.body)
}

// ComputedStyle implements dom.Document: the inline style of <html>
// first, then the last :root declaration in a <style> element.
func (d *Document) ComputedStyle(property string) string {
	if v := Wrap(d.html).Style(property); v != "" {
		return v
	}
	var value string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Style {
			var css strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					css.WriteString(c.Data)
				}
			}
			if v := rootDeclaration(css.String(), property); v != "" {
				value = v
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return value
}

// rootDeclaration returns the last value of property in the :root rules
// of a stylesheet. Unparsable sheets contribute nothing.
func rootDeclaration(sheet, property string) string {
	ss, err := parser.Parse(sheet)
	if err != nil {
		return ""
	}
	return rootValue(ss.Rules, property)
}

func rootValue(rules []*css.Rule, property string) string {
	var value string
	for _, r := range rules {
		switch r.Kind {
		case css.AtRule:
			// Cascade layers always apply; media and supports blocks are
			// conditions there is no viewport to evaluate.
			if strings.EqualFold(r.Name, "@layer") {
				if v := rootValue(r.Rules, property); v != "" {
					value = v
				}
			}
		case css.QualifiedRule:
			if !selectsRoot(r.Selectors) {
				continue
			}
			for _, d := range r.Declarations {
				if d.Property == property && d.Value != "" {
					value = d.Value
				}
			}
		}
	}
	return value
}

func selectsRoot(selectors []string) bool {
	for _, sel := range selectors {
		if sel = strings.TrimSpace(sel); sel == ":root" || sel == "html" {
			return true
		}
	}
	return false
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String renders the document.
func (d *Document) String() string {
	var buf bytes.Buffer
	_ = d.Render(&buf)
	return buf.String()
}
