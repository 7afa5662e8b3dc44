package tree

import (
	"archive/zip"
	"io"
	"os"

	"github.com/klauspost/compress/flate"
	"github.com/pkg/errors"

	"github.com/canopy-io/canopy/pkg/filesystem"
	"github.com/canopy-io/canopy/pkg/stream"
)

// CompressionLevel represents a DEFLATE compression level selection. The
// zero value requests the default level.
type CompressionLevel int

const (
	// CompressionLevelDefault requests the default compression level.
	CompressionLevelDefault CompressionLevel = 0
	// CompressionLevelNone disables compression. Archives written without
	// compression still select the deflate storage method (not "stored"),
	// which keeps them compatible with common zip readers.
	CompressionLevelNone CompressionLevel = -1
	// CompressionLevelFastest requests the fastest compression level.
	CompressionLevelFastest CompressionLevel = 1
	// CompressionLevelBest requests the strongest compression level.
	CompressionLevelBest CompressionLevel = 9
)

// flateLevel converts the selection to a flate package level.
func (l CompressionLevel) flateLevel() (int, error) {
	switch {
	case l == CompressionLevelDefault:
		return flate.DefaultCompression, nil
	case l == CompressionLevelNone:
		return flate.NoCompression, nil
	case l >= CompressionLevelFastest && l <= CompressionLevelBest:
		return int(l), nil
	default:
		return 0, errors.Errorf("invalid compression level: %d", l)
	}
}

// ArchiveOptions control archive creation.
type ArchiveOptions struct {
	// CompressionLevel is the compression level selection.
	CompressionLevel CompressionLevel
	// Walk are the traversal options. The depth bound is ignored: archives
	// always cover the whole subtree.
	Walk WalkOptions
}

// Archive writes the subtree rooted at root into a zip container at
// destination, one entry per file and directory, in the order the traversal
// yields them. Directory entries carry a trailing "/" and no content; file
// entries pipe their full byte content through the compressor. The root
// entry itself is not written. The first error encountered aborts the
// archive, leaving a partial container at the destination.
func Archive(root, destination filesystem.Path, options ArchiveOptions) error {
	// Resolve the compression level.
	level, err := options.CompressionLevel.flateLevel()
	if err != nil {
		return err
	}

	// Create the container file.
	container, err := os.Create(destination.String())
	if err != nil {
		return errors.Wrap(err, "unable to create archive")
	}

	// Write the container inside close scopes that guarantee release of the
	// container handle and every per-file handle on all exit paths.
	return stream.WithCloser(container, options.Walk.Logger, func() error {
		writer := zip.NewWriter(container)

		// Register a DEFLATE compressor at the requested level. This is also
		// what makes "no compression" still use the deflate method.
		writer.RegisterCompressor(zip.Deflate, func(output io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(output, level)
		})

		return stream.WithCloser(writer, options.Walk.Logger, func() error {
			walkOptions := options.Walk
			walkOptions.MaxDepth = -1
			buffer := make([]byte, digestCopyBufferSize)
			return Walk(root, walkOptions, func(entry filesystem.Entry) error {
				return archiveEntry(writer, root, entry, buffer)
			})
		})
	})
}

// archiveEntry writes a single traversal entry into the container.
func archiveEntry(writer *zip.Writer, root filesystem.Path, entry filesystem.Entry, buffer []byte) error {
	// Compute the container name. The root itself isn't written.
	relative, err := entry.Path.RelativeTo(root)
	if err != nil {
		return err
	}
	if relative == "." {
		return nil
	}

	// Classify the entry. Symbolic links and special files aren't
	// representable meaningfully in the container and are skipped.
	kind, err := entry.Classify()
	if err != nil {
		return err
	}

	switch kind {
	case filesystem.KindDirectory:
		header := &zip.FileHeader{
			Name:   relative + "/",
			Method: zip.Deflate,
		}
		if info, err := os.Lstat(entry.Path.String()); err == nil {
			header.Modified = info.ModTime()
			header.SetMode(info.Mode())
		}
		_, err := writer.CreateHeader(header)
		return errors.Wrapf(err, "unable to write directory entry %s", relative)
	case filesystem.KindFile:
		file, err := os.Open(entry.Path.String())
		if err != nil {
			return errors.Wrapf(err, "unable to open %s", entry.Path)
		}
		return stream.WithCloser(file, nil, func() error {
			info, err := file.Stat()
			if err != nil {
				return errors.Wrap(err, "unable to query file metadata")
			}
			header := &zip.FileHeader{
				Name:     relative,
				Method:   zip.Deflate,
				Modified: info.ModTime(),
			}
			header.SetMode(info.Mode())
			output, err := writer.CreateHeader(header)
			if err != nil {
				return errors.Wrapf(err, "unable to write file entry %s", relative)
			}
			_, err = stream.Pipe(output, file, buffer)
			return errors.Wrapf(err, "unable to write content for %s", relative)
		})
	default:
		return nil
	}
}
