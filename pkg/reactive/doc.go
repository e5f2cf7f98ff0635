// Package reactive is a small fine-grained signal/effect graph.
//
// Reading a signal inside a running effect subscribes that effect;
// writing a different value re-runs every subscribed effect before the
// write returns:
//
//	rt := reactive.NewRuntime()
//	count, setCount := reactive.CreateSignal(rt, 0)
//
//	rt.RunEffect(func() {
//	    fmt.Println("count is", count())
//	})            // prints "count is 0"
//
//	setCount(1)   // prints "count is 1"
//	setCount(1)   // equal value, nothing runs
//
// # Dependency tracking
//
// The graph is bipartite: every signal knows its subscribed effects and
// every effect knows the signals it read. Before an effect re-runs its
// edges are cleared, so only signals read on the latest run keep it
// subscribed.
//
// The running effect is held by the Runtime. RunEffect saves and restores
// the previous one, so effects created inside effects track correctly.
//
// # Threading
//
// A Runtime and everything created from it belong to one goroutine, the
// display loop. There is no batching: each write performs its own
// notification pass. Cascades deeper than the runtime's MaxDepth are
// dropped with a warning instead of recursing forever.
package reactive
