//go:build !windows

package filesystem

import (
	"os"

	"golang.org/x/sys/unix"
)

// openRetryingOnEINTR is a wrapper around unix.Open that retries on EINTR
// errors.
func openRetryingOnEINTR(path string, flags int, mode uint32) (int, error) {
	for {
		descriptor, err := unix.Open(path, flags, mode)
		if err == unix.EINTR {
			continue
		}
		return descriptor, err
	}
}

// openDirectory opens a native directory handle for the specified path. The
// open enforces directory-ness at the OS level, so a path referencing
// anything else fails with ErrNotADirectory. Symbolic links along the path
// (including a final link to a directory) are resolved; traversal code
// decides link policy before calling this.
func openDirectory(path Path) (*os.File, error) {
	descriptor, err := openRetryingOnEINTR(path.String(), unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		if err == unix.ENOTDIR {
			return nil, ErrNotADirectory
		}
		return nil, &os.PathError{Op: "open", Path: path.String(), Err: err}
	}
	return os.NewFile(uintptr(descriptor), path.String()), nil
}
