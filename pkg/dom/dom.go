// Package dom defines the tree and display capabilities the qcss runtime
// consumes. The hydrator and the resolver only need to walk a tree and
// read or write attributes; the animator additionally reads geometry and
// writes inline styles. Concrete trees live in memdom (in-memory),
// htmldom (parsed HTML), roddom (a live browser page) and jsdom (WASM).
package dom

// Node is a read/write view of an element in a tree.
type Node interface {
	// Children returns the element children in document order. Text and
	// comment nodes are not included.
	Children() []Node

	// Attr returns the attribute value and whether it is present.
	Attr(name string) (string, bool)

	// SetAttr sets an attribute, creating it if needed.
	SetAttr(name, value string)
}

// Rect is a bounding rectangle in viewport pixels.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// StyleSetter writes inline style properties. An empty value removes the
// property.
type StyleSetter interface {
	SetStyle(property, value string)
}

// Element is a Node with geometry and inline style.
type Element interface {
	Node
	StyleSetter

	// BoundingRect returns the element's current layout box.
	BoundingRect() Rect
}

// Container is an Element that can be built up, the capability the
// element construction helpers need.
type Container interface {
	Element

	AppendChild(child Node)
	AppendText(text string)
	ClearChildren()
	AddEventListener(event string, handler func())
}

// Document creates elements and exposes the root element.
type Document interface {
	CreateElement(tag string) Container

	// DocumentElement is the root (<html>), the target of CSS variables.
	DocumentElement() Element

	// Body is the default hydration root.
	Body() Node

	// ComputedStyle reads a computed style property of the document
	// element, including custom properties ("--accent").
	ComputedStyle(property string) string
}

// HasAttr reports whether n carries the attribute.
func HasAttr(n Node, name string) bool {
	_, ok := n.Attr(name)
	return ok
}

// Elements returns the children of n that are Elements.
func Elements(n Node) []Element {
	children := n.Children()
	out := make([]Element, 0, len(children))
	for _, c := range children {
		if el, ok := c.(Element); ok {
			out = append(out, el)
		}
	}
	return out
}
