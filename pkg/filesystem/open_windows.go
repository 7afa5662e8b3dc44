//go:build windows

package filesystem

import (
	"os"

	"github.com/pkg/errors"
)

// openDirectory opens a native directory handle for the specified path. A
// path referencing anything other than a directory fails with
// ErrNotADirectory. There's no Windows analogue of O_DIRECTORY available
// through the os package, so directory-ness is enforced with a metadata
// query on the opened handle.
func openDirectory(path Path) (*os.File, error) {
	file, err := os.Open(path.String())
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.Wrap(err, "unable to query handle metadata")
	} else if !info.IsDir() {
		file.Close()
		return nil, ErrNotADirectory
	}
	return file, nil
}
