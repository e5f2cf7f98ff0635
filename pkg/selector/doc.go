// Package selector turns structural paths into query targets.
//
// A Resolver answers "which elements does this path mean" against a fixed
// manifest. Resolution tries, in order:
//
//  1. the whole path as a manifest key, giving a hash target
//     ([q-id="h1"]);
//  2. the path with its last segment's suffix removed, giving a hash
//     target with the suffix appended ([q-id="h1"]:hover);
//  3. a legacy chain of reference-attribute steps, one per segment, with
//     the final segment's suffix on the last step
//     ([data-ref="card"] [data-ref="title"]:hover).
//
// Targets render to CSS selector text with String and can be evaluated
// against any dom.Node tree with Select and SelectAll. Suffix evaluation
// covers a small compound grammar (classes, ids, attributes, structural
// and state pseudo-classes); anything else matches nothing.
package selector
