package flip

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/qcss/pkg/dom"
	"github.com/vango-dev/qcss/pkg/frame"
	"github.com/vango-dev/qcss/pkg/memdom"
)

func pinned(key string, left, top float64) *memdom.Node {
	n := memdom.El("li", memdom.Key(key))
	n.SetRect(dom.Rect{Left: left, Top: top, Width: 100, Height: 20})
	return n
}

func TestFlipNoopAppliesNoTransforms(t *testing.T) {
	sched := frame.NewManual()
	a, b := pinned("a", 0, 0), pinned("b", 0, 20)
	list := memdom.El("ul", a, b)

	res := New(sched).Flip(list, func() {})

	if res.Moved() {
		t.Errorf("Animated = %v, want none", res.Animated)
	}
	for _, n := range []*memdom.Node{a, b} {
		if n.Style("transform") != "" || n.Style("transition") != "" {
			t.Errorf("style = %q, want empty", memdom.RenderString(n))
		}
	}
	if sched.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", sched.Pending())
	}
}

func TestFlipInvertsThenPlays(t *testing.T) {
	sched := frame.NewManual()
	item := pinned("x", 100, 100)
	list := memdom.El("ul", item)

	res := New(sched).Flip(list, func() {
		// Moved 50px left and 20px up.
		item.SetRect(dom.Rect{Left: 50, Top: 80, Width: 100, Height: 20})
	})

	if diff := cmp.Diff([]string{"x"}, res.Animated); diff != "" {
		t.Errorf("Animated mismatch:\n%s", diff)
	}
	if got := item.Style("transform"); got != "translate(50px, 20px)" {
		t.Errorf("transform = %q, want translate(50px, 20px)", got)
	}
	if got := item.Style("transition"); got != "transform 0s" {
		t.Errorf("transition = %q, want transform 0s", got)
	}
	// Inverted: the element appears where it was.
	if got := item.BoundingRect(); got.Left != 100 || got.Top != 100 {
		t.Errorf("inverted rect = %+v, want at 100,100", got)
	}

	if sched.Pending() != 1 {
		t.Fatalf("Pending() = %d, want one Play task", sched.Pending())
	}
	sched.Flush()

	if got := item.Style("transform"); got != "" {
		t.Errorf("transform after frame = %q, want cleared", got)
	}
	if got := item.Style("transition"); got != "transform 0.3s cubic-bezier(0.2, 0, 0.2, 1)" {
		t.Errorf("transition after frame = %q", got)
	}
}

func TestFlipReorderWithStackingLayout(t *testing.T) {
	sched := frame.NewManual()
	a := memdom.El("li", memdom.Key("a"))
	b := memdom.El("li", memdom.Key("b"))
	c := memdom.El("li", memdom.Key("c"))
	list := memdom.El("ul", a, b, c)

	res := New(sched).Flip(list, func() {
		list.Append(a)
	})

	// b and c move up one row, a moves down two.
	if diff := cmp.Diff([]string{"b", "c", "a"}, res.Animated); diff != "" {
		t.Errorf("Animated mismatch:\n%s", diff)
	}
	if got := a.Style("transform"); got != "translate(0px, -40px)" {
		t.Errorf("a transform = %q", got)
	}
	if got := b.Style("transform"); got != "translate(0px, 20px)" {
		t.Errorf("b transform = %q", got)
	}
	if sched.Flush() != 1 {
		t.Error("expected a single Play task for the whole call")
	}
}

func TestFlipSkipsUnkeyedChildren(t *testing.T) {
	sched := frame.NewManual()
	keyed := pinned("k", 0, 0)
	plain := memdom.El("li")
	plain.SetRect(dom.Rect{Left: 0, Top: 20})
	list := memdom.El("ul", keyed, plain)

	New(sched).Flip(list, func() {
		plain.SetRect(dom.Rect{Left: 30, Top: 60})
		keyed.SetRect(dom.Rect{Left: 0, Top: 40})
	})

	if plain.Style("transform") != "" {
		t.Errorf("unkeyed child got transform %q", plain.Style("transform"))
	}
	if keyed.Style("transform") != "translate(0px, -40px)" {
		t.Errorf("keyed transform = %q", keyed.Style("transform"))
	}
}

func TestFlipWithoutKeyedChildrenJustMutates(t *testing.T) {
	sched := frame.NewManual()
	list := memdom.El("ul", memdom.El("li"))

	called := 0
	res := New(sched).Flip(list, func() { called++ })

	if called != 1 {
		t.Errorf("mutate called %d times", called)
	}
	if res.Moved() || sched.Pending() != 0 {
		t.Errorf("unexpected animation: %+v", res)
	}
}

func TestFlipEnteredAndExited(t *testing.T) {
	sched := frame.NewManual()
	a, b := pinned("a", 0, 0), pinned("b", 0, 20)
	list := memdom.El("ul", a, b)

	res := New(sched).Flip(list, func() {
		b.Remove()
		list.Append(pinned("c", 0, 20))
	})

	if diff := cmp.Diff(Result{Entered: []string{"c"}, Exited: []string{"b"}}, res); diff != "" {
		t.Errorf("Result mismatch (-want +got):\n%s", diff)
	}
	if sched.Pending() != 0 {
		t.Error("nothing moved, nothing should be scheduled")
	}
}

func TestFlipOptions(t *testing.T) {
	sched := frame.NewManual()
	item := memdom.El("li", memdom.Data("id", "1"))
	item.SetRect(dom.Rect{Top: 10})
	list := memdom.El("ul", item)

	a := New(sched,
		WithKeyAttr("data-id"),
		WithDuration(150*time.Millisecond),
		WithEasing("ease-out"),
	)
	a.Flip(list, func() { item.SetRect(dom.Rect{Top: 0}) })
	sched.Flush()

	if got := item.Style("transition"); got != "transform 0.15s ease-out" {
		t.Errorf("transition = %q", got)
	}
}

func TestTransition(t *testing.T) {
	if got := New(nil).Transition(); got != "transform 0.3s cubic-bezier(0.2, 0, 0.2, 1)" {
		t.Errorf("Transition() = %q", got)
	}
	if got := New(nil, WithDuration(time.Second)).Transition(); got != "transform 1s cubic-bezier(0.2, 0, 0.2, 1)" {
		t.Errorf("Transition() = %q", got)
	}
}
