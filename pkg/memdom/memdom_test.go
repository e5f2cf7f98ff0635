package memdom

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/qcss/pkg/dom"
)

func TestElBuildsTree(t *testing.T) {
	clicks := 0
	n := El("ul", Ref("list"), Class("a", "b"),
		El("li", Key("1"), "one"),
		nil,
		[]*Node{El("li", Key("2"), "two")},
		On("click", func() { clicks++ }),
	)

	if got := len(n.Children()); got != 2 {
		t.Fatalf("Children() = %d, want 2", got)
	}
	if v, _ := n.Attr("class"); v != "a b" {
		t.Errorf("class = %q, want %q", v, "a b")
	}
	if n.TextContent() != "onetwo" {
		t.Errorf("TextContent() = %q", n.TextContent())
	}
	if n.Dispatch("click") != 1 || clicks != 1 {
		t.Errorf("click handler not called")
	}
	if n.ListenerCount("keydown") != 0 {
		t.Error("unexpected keydown listener")
	}
}

func TestAttributes(t *testing.T) {
	n := NewElement("DIV")
	if n.Tag != "div" {
		t.Errorf("Tag = %q, want div", n.Tag)
	}

	n.SetAttr("data-ref", "card")
	n.SetAttr("q-id", "h1")
	n.SetAttr("data-ref", "card2")
	if diff := cmp.Diff([]string{"data-ref", "q-id"}, n.AttrNames()); diff != "" {
		t.Errorf("AttrNames mismatch:\n%s", diff)
	}
	if v, ok := n.Attr("data-ref"); !ok || v != "card2" {
		t.Errorf("Attr(data-ref) = %q, %v", v, ok)
	}

	n.RemoveAttr("q-id")
	if dom.HasAttr(n, "q-id") {
		t.Error("q-id still present after RemoveAttr")
	}
}

func TestStyleAttributeReflectsInlineStyle(t *testing.T) {
	n := El("div", StyleAttr("color: red; height: 40px"))
	n.SetStyle("transform", "translate(1px, 2px)")
	n.SetStyle("color", "")

	v, ok := n.Attr("style")
	if !ok || v != "height: 40px; transform: translate(1px, 2px)" {
		t.Errorf("style = %q, %v", v, ok)
	}

	n.SetStyle("height", "")
	n.SetStyle("transform", "")
	if _, ok := n.Attr("style"); ok {
		t.Error("empty style should be absent")
	}
}

func TestAppendMovesChild(t *testing.T) {
	a := El("li", Key("a"))
	b := El("li", Key("b"))
	list := El("ul", a, b)

	list.AppendChild(a)
	got := []string{}
	for _, c := range list.ElementChildren() {
		k, _ := c.Attr("key")
		got = append(got, k)
	}
	if diff := cmp.Diff([]string{"b", "a"}, got); diff != "" {
		t.Errorf("order mismatch:\n%s", diff)
	}

	other := El("ol")
	other.Append(b)
	if len(list.ElementChildren()) != 1 || b.Parent() != other {
		t.Error("Append did not move b")
	}

	list.ClearChildren()
	if len(list.Nodes()) != 0 || a.Parent() != nil {
		t.Error("ClearChildren left children attached")
	}
}

func TestStackingLayout(t *testing.T) {
	first := El("li", StyleAttr("height: 30px"))
	second := El("li")
	third := El("li", StyleAttr("height: 50px"))
	list := El("ul", first, second, third)
	list.SetRect(dom.Rect{Left: 10, Top: 100, Width: 200, Height: 100})

	tests := []struct {
		name string
		n    *Node
		want dom.Rect
	}{
		{"first", first, dom.Rect{Left: 10, Top: 100, Width: 200, Height: 30}},
		{"second", second, dom.Rect{Left: 10, Top: 130, Width: 200, Height: DefaultLineHeight}},
		{"third", third, dom.Rect{Left: 10, Top: 150, Width: 200, Height: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.n.BoundingRect()); diff != "" {
				t.Errorf("BoundingRect mismatch (-want +got):\n%s", diff)
			}
		})
	}

	// Reordering moves the boxes.
	list.Append(first)
	if got := first.BoundingRect().Top; got != 170 {
		t.Errorf("moved first Top = %v, want 170", got)
	}
}

func TestTranslateOffsetsBox(t *testing.T) {
	n := El("div")
	n.SetRect(dom.Rect{Left: 5, Top: 5, Width: 10, Height: 10})
	n.SetStyle("transform", "translate(50px, -20.5px)")

	got := n.BoundingRect()
	if got.Left != 55 || got.Top != -15.5 {
		t.Errorf("BoundingRect = %+v, want Left 55 Top -15.5", got)
	}

	n.SetStyle("transform", "scale(2)")
	if got := n.BoundingRect(); got.Left != 5 {
		t.Errorf("non-translate transform moved box: %+v", got)
	}
}

func TestDocumentComputedStyle(t *testing.T) {
	d := NewDocument()
	d.SetRootStyle("--accent", " blue ")
	if got := d.ComputedStyle("--accent"); got != "blue" {
		t.Errorf("ComputedStyle = %q, want blue", got)
	}

	d.DocumentElement().SetStyle("--accent", "red")
	if got := d.ComputedStyle("--accent"); got != "red" {
		t.Errorf("inline override = %q, want red", got)
	}

	el := d.CreateElement("span")
	el.AppendText("x")
	d.BodyNode().AppendChild(el)
	if len(d.Body().Children()) != 1 {
		t.Error("body should have one child")
	}
}

func TestRender(t *testing.T) {
	n := El("div", Ref("card"), A("title", `a "quoted" <tag>`),
		El("img", A("src", "x.png")),
		El("p", "1 < 2 & 3"),
		El("input", A("disabled", "")),
	)
	n.SetStyle("--w", "1px")

	want := `<div data-ref="card" title="a &quot;quoted&quot; &lt;tag&gt;" style="--w: 1px">` +
		`<img src="x.png"><p>1 &lt; 2 &amp; 3</p><input disabled></div>`
	if got := RenderString(n); got != want {
		t.Errorf("RenderString() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderDocument(t *testing.T) {
	d := NewDocument()
	d.BodyNode().Append(El("main"))

	var b strings.Builder
	if err := RenderDocument(&b, d); err != nil {
		t.Fatal(err)
	}
	want := "<!DOCTYPE html><html><head></head><body><main></main></body></html>"
	if b.String() != want {
		t.Errorf("RenderDocument() = %q, want %q", b.String(), want)
	}
}

func TestFind(t *testing.T) {
	title := El("h2", Ref("title"))
	root := El("div", El("header", title))
	if root.Find("data-ref", "title") != title {
		t.Error("Find did not locate title")
	}
	if root.Find("data-ref", "missing") != nil {
		t.Error("Find returned a node for a missing ref")
	}
}

func TestStates(t *testing.T) {
	n := El("a")
	n.SetState("hover", true)
	if !n.HasState("hover") {
		t.Error("hover not set")
	}
	n.SetState("hover", false)
	if n.HasState("hover") {
		t.Error("hover not cleared")
	}
}
