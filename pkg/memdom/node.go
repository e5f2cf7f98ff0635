package memdom

import (
	"fmt"
	"strings"

	"github.com/vango-dev/qcss/pkg/dom"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement Kind = iota // <div>, <li>, etc.
	KindText                // Plain text node
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

type attribute struct {
	name  string
	value string
}

// Node is an element or text node.
type Node struct {
	Kind Kind
	Tag  string
	Text string

	attrs     []attribute
	style     *dom.Style
	children  []*Node
	parent    *Node
	pinned    *dom.Rect
	listeners map[string][]func()
	states    map[string]bool
}

var (
	_ dom.Container = (*Node)(nil)
)

// NewElement creates an empty element.
func NewElement(tag string) *Node {
	return &Node{Kind: KindElement, Tag: strings.ToLower(tag), style: &dom.Style{}}
}

// NewText creates a text node.
func NewText(text string) *Node {
	return &Node{Kind: KindText, Text: text}
}

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// Nodes returns all child nodes, text included.
func (n *Node) Nodes() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ElementChildren returns the element children in order.
func (n *Node) ElementChildren() []*Node {
	out := make([]*Node, 0, len(n.children))
	for _, c := range n.children {
		if c.Kind == KindElement {
			out = append(out, c)
		}
	}
	return out
}

// Children implements dom.Node.
func (n *Node) Children() []dom.Node {
	els := n.ElementChildren()
	out := make([]dom.Node, len(els))
	for i, c := range els {
		out[i] = c
	}
	return out
}

// Attr implements dom.Node. The style attribute reflects the inline
// style declarations.
func (n *Node) Attr(name string) (string, bool) {
	if name == "style" {
		if n.style == nil || n.style.Len() == 0 {
			return "", false
		}
		return n.style.String(), true
	}
	for _, a := range n.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// SetAttr implements dom.Node. Attributes keep insertion order.
func (n *Node) SetAttr(name, value string) {
	if name == "style" {
		n.style = dom.ParseStyle(value)
		return
	}
	for i := range n.attrs {
		if n.attrs[i].name == name {
			n.attrs[i].value = value
			return
		}
	}
	n.attrs = append(n.attrs, attribute{name: name, value: value})
}

// RemoveAttr deletes an attribute.
func (n *Node) RemoveAttr(name string) {
	if name == "style" {
		n.style = &dom.Style{}
		return
	}
	for i := range n.attrs {
		if n.attrs[i].name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return
		}
	}
}

// AttrNames returns the attribute names in order, style last if set.
func (n *Node) AttrNames() []string {
	names := make([]string, 0, len(n.attrs)+1)
	for _, a := range n.attrs {
		names = append(names, a.name)
	}
	if n.style != nil && n.style.Len() > 0 {
		names = append(names, "style")
	}
	return names
}

// Style returns an inline style property.
func (n *Node) Style(property string) string {
	if n.style == nil {
		return ""
	}
	return n.style.Get(property)
}

// SetStyle implements dom.StyleSetter.
func (n *Node) SetStyle(property, value string) {
	if n.style == nil {
		n.style = &dom.Style{}
	}
	n.style.Set(property, value)
}

// AppendChild implements dom.Container. A child that already has a parent
// is moved. Only *Node children are accepted.
func (n *Node) AppendChild(child dom.Node) {
	c, ok := child.(*Node)
	if !ok {
		panic(fmt.Sprintf("memdom: cannot append %T", child))
	}
	n.Append(c)
}

// Append adds children in order, moving any that are attached elsewhere.
func (n *Node) Append(children ...*Node) {
	for _, c := range children {
		if c == nil {
			continue
		}
		if c.parent != nil {
			c.parent.removeChild(c)
		}
		c.parent = n
		n.children = append(n.children, c)
	}
}

// AppendText implements dom.Container.
func (n *Node) AppendText(text string) {
	n.Append(NewText(text))
}

// ClearChildren implements dom.Container.
func (n *Node) ClearChildren() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.removeChild(n)
		n.parent = nil
	}
}

func (n *Node) removeChild(c *Node) {
	for i, x := range n.children {
		if x == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

// AddEventListener implements dom.Container.
func (n *Node) AddEventListener(event string, handler func()) {
	if n.listeners == nil {
		n.listeners = make(map[string][]func())
	}
	n.listeners[event] = append(n.listeners[event], handler)
}

// Dispatch calls the listeners for event and returns how many ran.
func (n *Node) Dispatch(event string) int {
	handlers := n.listeners[event]
	for _, h := range handlers {
		h()
	}
	return len(handlers)
}

// ListenerCount returns the number of listeners for event.
func (n *Node) ListenerCount(event string) int {
	return len(n.listeners[event])
}

// SetState toggles a dynamic state such as "hover".
func (n *Node) SetState(pseudo string, on bool) {
	if n.states == nil {
		n.states = make(map[string]bool)
	}
	if on {
		n.states[pseudo] = true
	} else {
		delete(n.states, pseudo)
	}
}

// HasState reports whether a dynamic state is on.
func (n *Node) HasState(pseudo string) bool {
	return n.states[pseudo]
}

// TextContent concatenates the text of all descendants.
func (n *Node) TextContent() string {
	if n.Kind == KindText {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// Find returns the first element, n included, whose attribute name
// equals value.
func (n *Node) Find(name, value string) *Node {
	if n.Kind != KindElement {
		return nil
	}
	if v, ok := n.Attr(name); ok && v == value {
		return n
	}
	for _, c := range n.children {
		if f := c.Find(name, value); f != nil {
			return f
		}
	}
	return nil
}
