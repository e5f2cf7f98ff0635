package memdom

import (
	"bufio"
	"io"
	"strings"
)

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement reports whether tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// Render writes n and its subtree as HTML. Attributes appear in insertion
// order with the inline style last. Listeners are not serialized.
func Render(w io.Writer, n *Node) error {
	bw := bufio.NewWriter(w)
	renderNode(bw, n)
	return bw.Flush()
}

// RenderString renders n to a string.
func RenderString(n *Node) string {
	var b strings.Builder
	_ = Render(&b, n)
	return b.String()
}

// RenderDocument writes a doctype followed by the document tree.
func RenderDocument(w io.Writer, d *Document) error {
	if _, err := io.WriteString(w, "<!DOCTYPE html>"); err != nil {
		return err
	}
	return Render(w, d.root)
}

func renderNode(w *bufio.Writer, n *Node) {
	if n == nil {
		return
	}
	if n.Kind == KindText {
		w.WriteString(escapeHTML(n.Text))
		return
	}

	w.WriteByte('<')
	w.WriteString(n.Tag)
	for _, name := range n.AttrNames() {
		value, _ := n.Attr(name)
		w.WriteByte(' ')
		w.WriteString(name)
		if value != "" {
			w.WriteString(`="`)
			w.WriteString(escapeAttr(value))
			w.WriteByte('"')
		}
	}
	w.WriteByte('>')

	if IsVoidElement(n.Tag) {
		return
	}
	for _, c := range n.children {
		renderNode(w, c)
	}
	w.WriteString("</")
	w.WriteString(n.Tag)
	w.WriteByte('>')
}
