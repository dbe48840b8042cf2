// Package dom holds a parsed HTML page and exposes the small set of jQuery
// style operations the form controllers rely on: selector queries, inline
// show/hide, input values, select indices, radio groups with synchronous
// change events, and a ready hook that fires once per load.
//
// Queries are permissive. A selector that fails to compile or matches nothing
// yields an empty Selection and every mutation on it is a no-op.
package dom
