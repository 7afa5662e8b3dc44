package filesystem

import (
	"os"

	"github.com/canopy-io/canopy/pkg/audit"
	"github.com/canopy-io/canopy/pkg/stream"
)

// Listing is a directory listing stream: a lazy, single-pass sequence over
// the direct children of a directory, backed by a native directory handle.
// The handle is released automatically when the sequence is drained to
// exhaustion; a consumer that abandons the listing early must call Close
// itself. Abandonments without a close are exactly what the audit registry
// exists to catch.
type Listing struct {
	*stream.Sequence[Entry]
	// directory is the listed directory.
	directory Entry
}

// Directory returns the entry whose children the listing yields.
func (l *Listing) Directory() Entry {
	return l.directory
}

// auditedCloser releases a directory handle and records the release in an
// audit context. A failed release is not recorded as closed, leaving the
// registry entry open as the leak signal.
type auditedCloser struct {
	// file is the underlying directory handle.
	file *os.File
	// key is the audit registry key for the handle.
	key string
	// auditContext is the audit context recording handle events. It may be
	// nil, in which case nothing is recorded.
	auditContext *audit.Context
}

// Close implements io.Closer.Close.
func (c *auditedCloser) Close() error {
	err := c.file.Close()
	if err == nil {
		c.auditContext.RecordClosed(c.key)
	}
	return err
}

// List opens a directory listing stream over the direct children of the
// specified directory entry, recording an open event in the audit context
// (keyed by the directory's path string) at acquisition and a closed event
// when the underlying handle is released. It fails with ErrNotADirectory or
// an error satisfying errors.Is(err, fs.ErrNotExist) if the path is not an
// existing directory at acquisition time. Children are yielded in whatever
// order the OS returns them, with depths one greater than the directory's.
func List(directory Entry, auditContext *audit.Context) (*Listing, error) {
	// Open the native directory handle.
	file, err := openDirectory(directory.Path)
	if err != nil {
		return nil, err
	}

	// Record the acquisition.
	auditContext.RecordOpen(directory.Path.String())

	// Create the producer, pulling one name per invocation. Exhaustion is
	// signaled by io.EOF from Readdirnames, which the sequence converts into
	// handle release.
	produce := func() (Entry, error) {
		for {
			names, err := file.Readdirnames(1)
			if err != nil {
				return Entry{}, err
			} else if len(names) == 0 {
				continue
			}

			// The implementation underlying Readdirnames does filter
			// directory self and parent references, but that's not
			// guaranteed by its documentation.
			name := names[0]
			if name == "." || name == ".." {
				continue
			}

			return Entry{
				Path:  directory.Path.Join(name),
				Depth: directory.Depth + 1,
			}, nil
		}
	}

	// Success.
	return &Listing{
		Sequence: stream.NewSequence(produce, &auditedCloser{
			file:         file,
			key:          directory.Path.String(),
			auditContext: auditContext,
		}),
		directory: directory,
	}, nil
}
