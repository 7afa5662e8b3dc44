// Package filesystem provides the foundational filesystem types: normalized
// absolute paths, on-demand classification of filesystem objects, and
// resource-safe directory listing streams with leak audit integration.
package filesystem
