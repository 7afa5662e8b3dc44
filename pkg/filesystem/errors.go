package filesystem

import (
	"github.com/pkg/errors"
)

// ErrNotADirectory indicates that a path expected to reference a directory
// references something else. Absence, pre-existence, and permission
// conditions are represented by the standard io/fs sentinels (fs.ErrNotExist,
// fs.ErrExist, and fs.ErrPermission), which wrapped OS errors already satisfy
// under errors.Is.
var ErrNotADirectory = errors.New("not a directory")
