package memdom

import (
	"strings"

	"github.com/vango-dev/qcss/pkg/dom"
)

// Document is an <html> tree with head and body.
type Document struct {
	root  *Node
	head  *Node
	body  *Node
	sheet map[string]string
}

var _ dom.Document = (*Document)(nil)

// NewDocument creates a document with an empty head and body.
func NewDocument() *Document {
	head := NewElement("head")
	body := NewElement("body")
	root := El("html", head, body)
	return &Document{root: root, head: head, body: body, sheet: make(map[string]string)}
}

// CreateElement implements dom.Document.
func (d *Document) CreateElement(tag string) dom.Container {
	return NewElement(tag)
}

// DocumentElement implements dom.Document.
func (d *Document) DocumentElement() dom.Element {
	return d.root
}

// Root returns the <html> node.
func (d *Document) Root() *Node {
	return d.root
}

// Head returns the <head> node.
func (d *Document) Head() *Node {
	return d.head
}

// Body implements dom.Document.
func (d *Document) Body() dom.Node {
	return d.body
}

// BodyNode returns the <body> node.
func (d *Document) BodyNode() *Node {
	return d.body
}

// SetRootStyle declares a property for the root element the way a
// stylesheet :root rule would. Inline root styles override it.
func (d *Document) SetRootStyle(property, value string) {
	d.sheet[property] = value
}

// ComputedStyle implements dom.Document.
func (d *Document) ComputedStyle(property string) string {
	if v := d.root.Style(property); v != "" {
		return v
	}
	return strings.TrimSpace(d.sheet[property])
}
