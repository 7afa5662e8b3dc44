package filesystem

import (
	"io/fs"
	"os"

	"github.com/pkg/errors"
)

// Kind classifies a filesystem location as one of regular file, directory,
// symbolic link, or absent.
type Kind uint8

const (
	// KindAbsent indicates that no filesystem object exists at a location.
	KindAbsent Kind = iota
	// KindFile indicates a regular file. Non-regular, non-directory,
	// non-symbolic-link objects (devices, sockets, and pipes) also classify
	// as files, since the taxonomy doesn't distinguish them and they are
	// treated as opaque content sources.
	KindFile
	// KindDirectory indicates a directory.
	KindDirectory
	// KindSymbolicLink indicates a symbolic link.
	KindSymbolicLink
)

// String provides a human-readable representation of a kind.
func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	case KindSymbolicLink:
		return "symbolic link"
	default:
		return "unknown"
	}
}

// kindFromMode converts a file mode to a kind.
func kindFromMode(mode fs.FileMode) Kind {
	switch {
	case mode&fs.ModeSymlink != 0:
		return KindSymbolicLink
	case mode.IsDir():
		return KindDirectory
	default:
		return KindFile
	}
}

// Classify determines the kind of the filesystem object at the specified path
// using a single metadata query, without following symbolic links. An absent
// object is not an error. The result is never cached: every call re-queries
// the OS, so concurrent mutation of the filesystem is visible immediately and
// the classification of a location can change between two calls.
func Classify(path Path) (Kind, error) {
	info, err := os.Lstat(path.String())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return KindAbsent, nil
		}
		return KindAbsent, errors.Wrap(err, "unable to query metadata")
	}
	return kindFromMode(info.Mode()), nil
}

// ClassifyFollowing determines the kind of the filesystem object at the
// specified path, following symbolic links. A symbolic link whose target
// doesn't exist classifies as absent.
func ClassifyFollowing(path Path) (Kind, error) {
	info, err := os.Stat(path.String())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return KindAbsent, nil
		}
		return KindAbsent, errors.Wrap(err, "unable to query metadata")
	}
	return kindFromMode(info.Mode()), nil
}

// Exists checks whether a filesystem object exists at the specified path,
// following symbolic links. Traversal (which uses Classify) intentionally
// does not follow links, while existence checks do: the asymmetry prevents
// infinite loops from cyclic symbolic links during walks while keeping
// attribute queries faithful to what the path denotes.
func Exists(path Path) (bool, error) {
	kind, err := ClassifyFollowing(path)
	if err != nil {
		return false, err
	}
	return kind != KindAbsent, nil
}
