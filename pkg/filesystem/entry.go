package filesystem

// Entry pairs a filesystem location with the depth at which a traversal
// encountered it (0 for a traversal root). An entry carries no cached type
// information: classification is performed on demand against the OS, so an
// entry's kind can legitimately differ between two calls if the filesystem is
// mutated concurrently.
type Entry struct {
	// Path is the entry's location.
	Path Path
	// Depth is the entry's depth relative to its traversal root.
	Depth int
}

// Classify determines the entry's current kind without following symbolic
// links.
func (e Entry) Classify() (Kind, error) {
	return Classify(e.Path)
}
