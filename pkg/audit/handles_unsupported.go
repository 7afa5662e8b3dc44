//go:build !linux

package audit

// OpenHandles returns the number of file handles currently open in the
// process. Handle introspection is only implemented for Linux; on other
// platforms this fails explicitly rather than returning a meaningless value.
func OpenHandles() (int, error) {
	return 0, ErrUnsupportedPlatform
}

// HandleBudget returns the soft limit on the number of file handles the
// process may hold open.
func HandleBudget() (uint64, error) {
	return 0, ErrUnsupportedPlatform
}
