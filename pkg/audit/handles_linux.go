package audit

import (
	"os"

	"github.com/pkg/errors"

	"golang.org/x/sys/unix"
)

// openHandlesPath is the procfs directory listing the process' open file
// descriptors.
const openHandlesPath = "/proc/self/fd"

// OpenHandles returns the number of file handles currently open in the
// process by counting procfs descriptor entries. The descriptor used to
// perform the count itself is excluded.
func OpenHandles() (int, error) {
	entries, err := os.ReadDir(openHandlesPath)
	if err != nil {
		return 0, errors.Wrap(err, "unable to read descriptor table")
	}
	return len(entries) - 1, nil
}

// HandleBudget returns the soft limit on the number of file handles the
// process may hold open.
func HandleBudget() (uint64, error) {
	var limit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &limit); err != nil {
		return 0, errors.Wrap(err, "unable to query resource limit")
	}
	return limit.Cur, nil
}
