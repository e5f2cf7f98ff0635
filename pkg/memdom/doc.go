// Package memdom is an in-memory element tree implementing the dom
// capabilities.
//
// Trees are built with El and the attribute helpers:
//
//	card := memdom.El("div", memdom.Ref("card"),
//		memdom.El("h2", memdom.Ref("title"), "Hello"),
//	)
//
// Geometry comes from a simple stacking layout: children stack vertically
// inside their parent, heights come from an inline "height: Npx" style, the
// sum of the children, or DefaultLineHeight for leaves. An inline
// translate() transform offsets the box. SetRect pins a box explicitly,
// which tests use to simulate arbitrary layouts.
//
// Render serializes a tree to HTML.
package memdom
