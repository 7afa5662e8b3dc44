package tree

import (
	"archive/zip"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/canopy-io/canopy/pkg/filesystem"
	"github.com/canopy-io/canopy/pkg/logging"
	"github.com/canopy-io/canopy/pkg/stream"
)

// Extract unpacks the zip container at archive into the directory at
// destination, creating it if necessary. Entries are processed in container
// order, with directories (and any missing file parents) created before file
// content is written beneath them. Entries whose names would escape the
// destination are rejected.
func Extract(archive, destination filesystem.Path, logger *logging.Logger) error {
	// Open the container.
	reader, err := zip.OpenReader(archive.String())
	if err != nil {
		return errors.Wrap(err, "unable to open archive")
	}

	// Process entries inside a close scope for the container handle.
	return stream.WithCloser(reader, logger, func() error {
		// Ensure that the destination exists.
		if err := os.MkdirAll(destination.String(), 0755); err != nil {
			return errors.Wrap(err, "unable to create destination")
		}

		// Extract each entry in container order.
		buffer := make([]byte, digestCopyBufferSize)
		for _, entry := range reader.File {
			if err := extractEntry(entry, destination, buffer); err != nil {
				return err
			}
		}

		// Success.
		return nil
	})
}

// extractEntry unpacks a single container entry beneath destination.
func extractEntry(entry *zip.File, destination filesystem.Path, buffer []byte) error {
	// Reject names that would escape the destination.
	name := strings.TrimSuffix(entry.Name, "/")
	if name == "" || !filepath.IsLocal(filepath.FromSlash(name)) {
		return errors.Errorf("archive entry escapes destination: %s", entry.Name)
	}
	target := destination.Join(filepath.FromSlash(name))

	// Directory entries are marked by their trailing separator and carry no
	// content.
	if strings.HasSuffix(entry.Name, "/") {
		return errors.Wrapf(os.MkdirAll(target.String(), extractMode(entry, 0755)), "unable to create directory %s", name)
	}

	// Create any missing parents. Well-formed containers list directories
	// before their contents, but file entries without directory entries are
	// legal.
	if err := os.MkdirAll(target.Parent().String(), 0755); err != nil {
		return errors.Wrapf(err, "unable to create parents for %s", name)
	}

	// Write the file content through scoped handles.
	content, err := entry.Open()
	if err != nil {
		return errors.Wrapf(err, "unable to open archive entry %s", name)
	}
	return stream.WithCloser(content, nil, func() error {
		output, err := os.OpenFile(target.String(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, extractMode(entry, 0644))
		if err != nil {
			return errors.Wrapf(err, "unable to create %s", target)
		}
		return stream.WithCloser(output, nil, func() error {
			_, err := stream.Pipe(output, content, buffer)
			return errors.Wrapf(err, "unable to write content for %s", name)
		})
	})
}

// extractMode extracts usable permission bits from a container entry, falling
// back to the provided default when the entry carries none.
func extractMode(entry *zip.File, fallback fs.FileMode) fs.FileMode {
	if mode := entry.Mode().Perm(); mode != 0 {
		return mode
	}
	return fallback
}
