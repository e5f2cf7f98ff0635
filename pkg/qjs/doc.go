// Package qjs assembles the qcss runtime behind one object.
//
// A Runtime owns a document, a manifest and a reactive graph:
//
//	rt := qjs.New(doc, qjs.WithScheduler(loop))
//	rt.Init(m, true) // load the manifest and hydrate the body
//
//	count, setCount := qjs.CreateSignal(rt, 0)
//	qjs.BindVar(rt, "--count", count)
//	rt.Flip(list, func() { reorder(list) })
//
// Every call is expected on the display goroutine. Watch moves manifest
// reloads from a background watcher onto that goroutine through a
// frame.Poster.
package qjs
