// Package tree implements bounded-depth traversal of directory hierarchies
// and the whole-subtree operations built on top of it: deterministic content
// digesting, copying, removal, and zip archival/extraction.
package tree
