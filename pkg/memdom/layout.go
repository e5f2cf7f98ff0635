package memdom

import (
	"strconv"
	"strings"

	"github.com/vango-dev/qcss/pkg/dom"
)

// DefaultLineHeight is the height of a leaf element without an explicit
// height.
const DefaultLineHeight = 20.0

// SetRect pins the element's layout box. Descendants without their own
// pin stack inside it.
func (n *Node) SetRect(r dom.Rect) {
	n.pinned = &r
}

// Unpin returns the element to the stacking layout.
func (n *Node) Unpin() {
	n.pinned = nil
}

// BoundingRect implements dom.Element.
func (n *Node) BoundingRect() dom.Rect {
	r := n.layoutBox()
	dx, dy := parseTranslate(n.Style("transform"))
	r.Left += dx
	r.Top += dy
	return r
}

// layoutBox is the box before transforms.
func (n *Node) layoutBox() dom.Rect {
	if n.pinned != nil {
		return *n.pinned
	}
	if n.parent == nil {
		return dom.Rect{Width: n.px("width"), Height: n.height()}
	}

	p := n.parent.layoutBox()
	top := p.Top
	for _, sib := range n.parent.ElementChildren() {
		if sib == n {
			break
		}
		top += sib.height()
	}
	width := n.px("width")
	if width == 0 {
		width = p.Width
	}
	return dom.Rect{Left: p.Left, Top: top, Width: width, Height: n.height()}
}

func (n *Node) height() float64 {
	if n.pinned != nil {
		return n.pinned.Height
	}
	if h := n.px("height"); h > 0 {
		return h
	}
	els := n.ElementChildren()
	if len(els) == 0 {
		return DefaultLineHeight
	}
	var sum float64
	for _, c := range els {
		sum += c.height()
	}
	return sum
}

func (n *Node) px(property string) float64 {
	v, _ := parsePx(n.Style(property))
	return v
}

func parsePx(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "px")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseTranslate reads "translate(Xpx, Ypx)". Anything else is no offset.
func parseTranslate(transform string) (dx, dy float64) {
	t := strings.TrimSpace(transform)
	if !strings.HasPrefix(t, "translate(") || !strings.HasSuffix(t, ")") {
		return 0, 0
	}
	args := strings.Split(t[len("translate("):len(t)-1], ",")
	if x, ok := parsePx(args[0]); ok {
		dx = x
	}
	if len(args) > 1 {
		if y, ok := parsePx(args[1]); ok {
			dy = y
		}
	}
	return dx, dy
}
