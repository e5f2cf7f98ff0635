// Package jsdom exposes the browser DOM of a js/wasm build through the
// dom capabilities. In the browser everything runs on the single JS
// thread, so callbacks need no poster.
//
// Build with GOOS=js GOARCH=wasm; on other targets the package is empty.
package jsdom
