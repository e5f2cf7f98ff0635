package hydrate

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/qcss/pkg/manifest"
	"github.com/vango-dev/qcss/pkg/memdom"
)

func card() *memdom.Node {
	return memdom.El("main",
		memdom.El("article", memdom.Ref("card"),
			memdom.El("header", memdom.Ref("header"),
				memdom.El("h2", memdom.Ref("title"), "Hello"),
			),
			memdom.El("div",
				memdom.El("p", memdom.Ref("body")),
			),
		),
	)
}

func ids(root *memdom.Node) map[string]string {
	out := map[string]string{}
	for _, ref := range []string{"card", "header", "title", "body"} {
		n := root.Find("data-ref", ref)
		if n == nil {
			continue
		}
		if id, ok := n.Attr("q-id"); ok {
			out[ref] = id
		}
	}
	return out
}

func TestHydrate(t *testing.T) {
	root := card()
	h := New(manifest.New(map[string]string{
		"card":              "h-card",
		"card header title": "h-title",
		"card body":         "h-body",
	}))

	st := h.Hydrate(root, "")

	want := map[string]string{"card": "h-card", "title": "h-title", "body": "h-body"}
	if diff := cmp.Diff(want, ids(root)); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	wantStats := Stats{Visited: 6, Marked: 4, Assigned: 3, Missed: 1, Missing: []string{"card header"}}
	if diff := cmp.Diff(wantStats, st); diff != "" {
		t.Errorf("Stats mismatch (-want +got):\n%s", diff)
	}
}

func TestHydrateIsIdempotent(t *testing.T) {
	m := manifest.New(map[string]string{"card header title": "h1", "body": "h2"})
	root := card()
	h := New(m)

	h.Hydrate(root, "")
	first := memdom.RenderString(root)
	h.Hydrate(root, "")
	second := memdom.RenderString(root)

	if first != second {
		t.Errorf("second Hydrate changed the tree:\n%s\n%s", first, second)
	}
}

func TestHydrateBareLeafFallback(t *testing.T) {
	root := card()
	st := New(manifest.New(map[string]string{"title": "hX"})).Hydrate(root, "")

	if got := ids(root)["title"]; got != "hX" {
		t.Errorf("title q-id = %q, want hX", got)
	}
	if st.LeafFallbacks != 1 {
		t.Errorf("LeafFallbacks = %d, want 1", st.LeafFallbacks)
	}
}

func TestHydrateFullPathWinsOverLeaf(t *testing.T) {
	root := card()
	New(manifest.New(map[string]string{"title": "leaf", "card header title": "full"})).Hydrate(root, "")
	if got := ids(root)["title"]; got != "full" {
		t.Errorf("title q-id = %q, want full", got)
	}
}

func TestHydrateBase(t *testing.T) {
	root := memdom.El("div", memdom.El("span", memdom.Ref("title")))
	New(manifest.New(map[string]string{"card title": "h1"})).Hydrate(root, "card")

	if id, _ := root.Find("data-ref", "title").Attr("q-id"); id != "h1" {
		t.Errorf("q-id = %q, want h1", id)
	}
}

func TestHydrateUnmarkedElementsPassThrough(t *testing.T) {
	root := memdom.El("section", memdom.Ref("list"),
		memdom.El("div", memdom.El("div", memdom.El("span", memdom.Ref("item")))),
	)
	New(manifest.New(map[string]string{"list item": "h1"})).Hydrate(root, "")

	if id, _ := root.Find("data-ref", "item").Attr("q-id"); id != "h1" {
		t.Errorf("q-id = %q, want h1", id)
	}
	for _, n := range []*memdom.Node{root.ElementChildren()[0]} {
		if _, ok := n.Attr("q-id"); ok {
			t.Error("unmarked element received q-id")
		}
	}
}

func TestHydrateEmptyRefIsNotFound(t *testing.T) {
	root := memdom.El("div", memdom.Ref(""))
	st := New(manifest.New(map[string]string{"": "h1", " ": "h2"})).Hydrate(root, "")
	if st.Assigned != 0 {
		t.Errorf("Assigned = %d for blank path", st.Assigned)
	}
}

func TestHydrateCustomAttributes(t *testing.T) {
	root := memdom.El("div", memdom.A("data-part", "x"))
	New(manifest.New(map[string]string{"x": "h1"}), WithRefAttr("data-part"), WithIDAttr("data-q")).Hydrate(root, "")
	if v, _ := root.Attr("data-q"); v != "h1" {
		t.Errorf("data-q = %q, want h1", v)
	}
}

func TestHydrateLogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	New(manifest.New(map[string]string{"card": "h1"}), WithLogger(logger)).Hydrate(card(), "")

	if !strings.Contains(buf.String(), "hydrate: assigned") || !strings.Contains(buf.String(), "assigned=1") {
		t.Errorf("log output = %q", buf.String())
	}
}

func TestPaths(t *testing.T) {
	got := Paths(card(), "", "")
	want := []string{"card", "card header", "card header title", "card body"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Paths mismatch (-want +got):\n%s", diff)
	}
}

func TestStatsAdd(t *testing.T) {
	var s Stats
	s.Add(Stats{Visited: 2, Marked: 1, Missed: 1, Missing: []string{"a"}})
	s.Add(Stats{Visited: 1, Marked: 1, Assigned: 1, LeafFallbacks: 1})
	want := Stats{Visited: 3, Marked: 2, Assigned: 1, LeafFallbacks: 1, Missed: 1, Missing: []string{"a"}}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("Add mismatch:\n%s", diff)
	}
}
