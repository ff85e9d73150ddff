// Package commandstore persists the ordered list of launcher entries.
//
// Store reads and rewrites a JSON document holding an array of
// {"title", "command"} objects. The document is created with an empty array
// on first load; appends rewrite the whole document.
package commandstore
