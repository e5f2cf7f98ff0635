// Package errors provides coded, actionable errors for the qcss tooling.
//
// The reactive core, the resolver, the hydrator and the animator never
// fail; they degrade silently. Everything around them that touches the
// outside world (configuration, manifest loading, HTML documents, browser
// control) reports failures as *QError values carrying:
//   - a stable code (e.g. "E201") from the registry
//   - a category (config, manifest, document, browser, cli)
//   - an optional source location inside the offending file
//   - a hint on how to fix the problem
//
// # Usage
//
//	err := errors.New("E201").
//	    WithDetail(`value for "card title" is a number`).
//	    WithSuggestion("Manifest values must be strings")
//
//	errors.PrintError(err)
//	// ERROR E201: Manifest entry is not a string
//	//
//	//   dist/qcss-manifest.json:3:17
//	//
//	//   ...
package errors
