package filesystem

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Path represents an immutable, normalized, absolute filesystem location.
// Equality and hashing are defined solely by the normalized path string: two
// Paths referring to the same absolute location are equal regardless of how
// they were constructed, while Paths denoting the same physical object
// through different links are not. The zero value is not a valid Path; use
// NewPath to construct one.
type Path string

// NewPath creates a Path from the specified location, which may be relative
// (in which case it is resolved against the working directory) and may
// contain redundant separators or traversal components (which are
// normalized away). The location is not required to exist.
func NewPath(location string) (Path, error) {
	if location == "" {
		return "", errors.New("empty path location")
	}
	absolute, err := filepath.Abs(location)
	if err != nil {
		return "", errors.Wrap(err, "unable to compute absolute path")
	}
	return Path(absolute), nil
}

// String returns the normalized path string.
func (p Path) String() string {
	return string(p)
}

// Join returns the Path reached by joining the specified names beneath the
// path. Names may contain separators, in which case their components are
// joined and normalized.
func (p Path) Join(names ...string) Path {
	return Path(filepath.Join(append([]string{string(p)}, names...)...))
}

// Parent returns the Path of the path's parent directory. The parent of a
// filesystem root is the root itself.
func (p Path) Parent() Path {
	return Path(filepath.Dir(string(p)))
}

// Name returns the last component of the path.
func (p Path) Name() string {
	return filepath.Base(string(p))
}

// RelativeTo computes the relative path from root to the path, in slash ("/")
// form regardless of platform so that results are comparable and sortable
// across operating systems. The path of root itself relativizes to ".".
func (p Path) RelativeTo(root Path) (string, error) {
	relative, err := filepath.Rel(string(root), string(p))
	if err != nil {
		return "", errors.Wrap(err, "unable to compute relative path")
	}
	return filepath.ToSlash(relative), nil
}

// IsAncestorOf determines whether or not the path is an ancestor of (or equal
// to) the specified path. The determination is purely lexical.
func (p Path) IsAncestorOf(other Path) bool {
	if p == other {
		return true
	}
	prefix := string(p)
	if prefix != string(os.PathSeparator) {
		prefix += string(os.PathSeparator)
	}
	return len(string(other)) > len(prefix) && string(other)[:len(prefix)] == prefix
}
