package selector

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/qcss/pkg/dom"
	"github.com/vango-dev/qcss/pkg/manifest"
	"github.com/vango-dev/qcss/pkg/memdom"
)

func TestResolve(t *testing.T) {
	r := NewResolver(manifest.New(map[string]string{
		"a b":               "h1",
		"card header title": "h2",
	}))

	tests := []struct {
		name string
		path string
		want Target
		css  string
	}{
		{
			name: "exact",
			path: "a b",
			want: Target{Kind: KindHash, Attr: "q-id", Hash: "h1"},
			css:  `[q-id="h1"]`,
		},
		{
			name: "exact with extra whitespace",
			path: "  card  header\ttitle ",
			want: Target{Kind: KindHash, Attr: "q-id", Hash: "h2"},
			css:  `[q-id="h2"]`,
		},
		{
			name: "suffix",
			path: "a b:hover",
			want: Target{Kind: KindHashSuffix, Attr: "q-id", Hash: "h1", Suffix: ":hover"},
			css:  `[q-id="h1"]:hover`,
		},
		{
			name: "pseudo element suffix",
			path: "a b::before",
			want: Target{Kind: KindHashSuffix, Attr: "q-id", Hash: "h1", Suffix: "::before"},
			css:  `[q-id="h1"]::before`,
		},
		{
			name: "legacy chain",
			path: "x y",
			want: Target{Kind: KindLegacy, Attr: "data-ref", Steps: []Step{{Ref: "x"}, {Ref: "y"}}},
			css:  `[data-ref="x"] [data-ref="y"]`,
		},
		{
			name: "legacy suffix only on last step",
			path: "x:hover y.active",
			want: Target{Kind: KindLegacy, Attr: "data-ref", Steps: []Step{{Ref: "x"}, {Ref: "y", Suffix: ".active"}}},
			css:  `[data-ref="x"] [data-ref="y"].active`,
		},
		{
			name: "suffix miss falls back",
			path: "a c:hover",
			want: Target{Kind: KindLegacy, Attr: "data-ref", Steps: []Step{{Ref: "a"}, {Ref: "c", Suffix: ":hover"}}},
			css:  `[data-ref="a"] [data-ref="c"]:hover`,
		},
		{
			name: "malformed segment is whole identity",
			path: ":hover",
			want: Target{Kind: KindLegacy, Attr: "data-ref", Steps: []Step{{Ref: ":hover"}}},
			css:  `[data-ref=":hover"]`,
		},
		{
			name: "blank",
			path: "   ",
			want: Target{Kind: KindLegacy, Attr: "data-ref"},
			css:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(tt.path)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Resolve(%q) mismatch (-want +got):\n%s", tt.path, diff)
			}
			if got.String() != tt.css {
				t.Errorf("String() = %q, want %q", got.String(), tt.css)
			}
		})
	}
}

func TestResolveIsPure(t *testing.T) {
	r := NewResolver(manifest.New(map[string]string{"a b": "h1"}))
	for _, path := range []string{"a b", "a b:hover", "x y", ""} {
		first := r.Resolve(path)
		second := r.Resolve(path)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("Resolve(%q) not deterministic:\n%s", path, diff)
		}
	}
}

func TestResolveEmptyManifest(t *testing.T) {
	got := NewResolver(nil).Resolve("a b")
	if got.Kind != KindLegacy || len(got.Steps) != 2 {
		t.Errorf("Resolve = %+v, want two-step legacy chain", got)
	}
}

func TestResolveCustomAttributes(t *testing.T) {
	r := NewResolver(manifest.New(map[string]string{"a": "h1"}), WithIDAttr("data-q"), WithRefAttr("data-part"))
	if got := r.Resolve("a").String(); got != `[data-q="h1"]` {
		t.Errorf("hash = %q", got)
	}
	if got := r.Resolve("b").String(); got != `[data-part="b"]` {
		t.Errorf("legacy = %q", got)
	}
}

func TestTargetStringEscapes(t *testing.T) {
	tg := Target{Kind: KindHash, Attr: "q-id", Hash: `a"b\c`}
	if got := tg.String(); got != `[q-id="a\"b\\c"]` {
		t.Errorf("String() = %q", got)
	}
}

func refs(nodes []dom.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		v, ok := n.Attr("data-ref")
		if !ok {
			v, _ = n.Attr("q-id")
		}
		out[i] = v
	}
	return out
}

func TestSelectAllLegacyChain(t *testing.T) {
	root := memdom.El("main",
		memdom.El("section", memdom.Ref("card"),
			memdom.El("div",
				memdom.El("h2", memdom.Ref("title"), memdom.Class("active")),
			),
			memdom.El("p", memdom.Ref("title")),
		),
		memdom.El("aside",
			memdom.El("h2", memdom.Ref("title")),
		),
	)

	tests := []struct {
		name string
		t    Target
		want []string
	}{
		{
			name: "descendant chain",
			t:    Target{Kind: KindLegacy, Attr: "data-ref", Steps: []Step{{Ref: "card"}, {Ref: "title"}}},
			want: []string{"title", "title"},
		},
		{
			name: "single step",
			t:    Target{Kind: KindLegacy, Attr: "data-ref", Steps: []Step{{Ref: "title"}}},
			want: []string{"title", "title", "title"},
		},
		{
			name: "class suffix",
			t:    Target{Kind: KindLegacy, Attr: "data-ref", Steps: []Step{{Ref: "card"}, {Ref: "title", Suffix: ".active"}}},
			want: []string{"title"},
		},
		{
			name: "missing ancestor",
			t:    Target{Kind: KindLegacy, Attr: "data-ref", Steps: []Step{{Ref: "nav"}, {Ref: "title"}}},
			want: []string{},
		},
		{
			name: "chain head",
			t:    Target{Kind: KindLegacy, Attr: "data-ref", Steps: []Step{{Ref: "card"}}},
			want: []string{"card"},
		},
		{
			name: "empty target",
			t:    Target{Kind: KindLegacy, Attr: "data-ref"},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := refs(SelectAll(root, tt.t))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SelectAll(%s) mismatch (-want +got):\n%s", tt.t, diff)
			}
		})
	}
}

func TestSelectAllIncludesRoot(t *testing.T) {
	card := memdom.El("section", memdom.Ref("card"), memdom.El("div", memdom.Ref("card")))
	got := SelectAll(card, Target{Kind: KindLegacy, Attr: "data-ref", Steps: []Step{{Ref: "card"}}})
	if len(got) != 2 || got[0] != dom.Node(card) {
		t.Errorf("SelectAll = %d nodes, want root first then child", len(got))
	}
}

func TestSelectHash(t *testing.T) {
	hovered := memdom.El("li", memdom.QID("h1"))
	hovered.SetState("hover", true)
	root := memdom.El("ul",
		memdom.El("li", memdom.QID("h1"), memdom.A("data-state", "open")),
		hovered,
		memdom.El("li", memdom.QID("h2")),
	)

	tests := []struct {
		name   string
		suffix string
		want   int
	}{
		{"no suffix", "", 2},
		{"hover state", ":hover", 1},
		{"first child", ":first-child", 1},
		{"last child", ":last-child", 0},
		{"attribute", "[data-state=open]", 1},
		{"quoted attribute", `[data-state="open"]`, 1},
		{"attribute presence", "[data-state]", 1},
		{"attribute prefix", "[data-state^=op]", 1},
		{"pseudo element", "::before", 0},
		{"functional pseudo", ":nth-child(2)", 0},
		{"combinator", ">span", 0},
		{"unterminated attribute", "[data-state", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tg := Target{Kind: KindHashSuffix, Attr: "q-id", Hash: "h1", Suffix: tt.suffix}
			if got := len(SelectAll(root, tg)); got != tt.want {
				t.Errorf("SelectAll(%s) = %d nodes, want %d", tg, got, tt.want)
			}
		})
	}

	if Select(root, Target{Kind: KindHash, Attr: "q-id", Hash: "h1"}) != root.ElementChildren()[0] {
		t.Error("Select should return the first match in document order")
	}
	if Select(root, Target{Kind: KindHash, Attr: "q-id", Hash: "nope"}) != nil {
		t.Error("Select should return nil on no match")
	}
}

func TestSelectResolvedSuffix(t *testing.T) {
	r := NewResolver(manifest.New(map[string]string{"list item": "h9"}))
	root := memdom.El("ul",
		memdom.El("li", memdom.QID("h9"), memdom.ID("x"), memdom.Class("row", "active")),
		memdom.El("li", memdom.QID("h9"), memdom.Class("row")),
	)

	if got := len(SelectAll(root, r.Resolve("list item.active"))); got != 1 {
		t.Errorf(".active matched %d, want 1", got)
	}
	if got := len(SelectAll(root, r.Resolve("list item#x.row"))); got != 1 {
		t.Errorf("#x.row matched %d, want 1", got)
	}
	if got := len(SelectAll(root, r.Resolve("list item.row"))); got != 2 {
		t.Errorf(".row matched %d, want 2", got)
	}
}
