package tree

import (
	"io/fs"
	"os"

	"github.com/pkg/errors"

	"github.com/canopy-io/canopy/pkg/filesystem"
	"github.com/canopy-io/canopy/pkg/stream"
)

// CopyOptions control copy behavior.
type CopyOptions struct {
	// Overwrite indicates whether or not a pre-existing destination should be
	// removed before copying. Without it, a pre-existing destination fails
	// with fs.ErrExist.
	Overwrite bool
	// Walk are the traversal options used when copying a directory. The depth
	// bound is ignored: copies always cover the whole subtree.
	Walk WalkOptions
}

// Copy copies the filesystem object at source to destination. A directory
// source is walked, with each directory created at its mirrored destination
// location before any of its children are copied (so parents always exist
// before their children are written), regular files copied by content, and
// symbolic links recreated with their original targets. A file source is a
// direct content copy. The first error encountered aborts remaining work.
func Copy(source, destination filesystem.Path, options CopyOptions) error {
	// Classify the source.
	kind, err := filesystem.Classify(source)
	if err != nil {
		return errors.Wrap(err, "unable to classify source")
	} else if kind == filesystem.KindAbsent {
		return &os.PathError{Op: "copy", Path: source.String(), Err: fs.ErrNotExist}
	}

	// Enforce the overwrite policy.
	destinationKind, err := filesystem.Classify(destination)
	if err != nil {
		return errors.Wrap(err, "unable to classify destination")
	} else if destinationKind != filesystem.KindAbsent {
		if !options.Overwrite {
			return &os.PathError{Op: "copy", Path: destination.String(), Err: fs.ErrExist}
		}
		if err := Remove(destination, RemoveOptions{Walk: options.Walk}); err != nil {
			return errors.Wrap(err, "unable to remove existing destination")
		}
	}

	// Dispatch on source kind.
	switch kind {
	case filesystem.KindDirectory:
		return copyTree(source, destination, options)
	case filesystem.KindSymbolicLink:
		return copySymbolicLink(source, destination)
	default:
		return copyFile(source, destination, nil)
	}
}

// copyTree mirrors the directory hierarchy at source beneath destination.
func copyTree(source, destination filesystem.Path, options CopyOptions) error {
	walkOptions := options.Walk
	walkOptions.MaxDepth = -1
	buffer := make([]byte, digestCopyBufferSize)
	return Walk(source, walkOptions, func(entry filesystem.Entry) error {
		// Compute the mirrored location.
		relative, err := entry.Path.RelativeTo(source)
		if err != nil {
			return err
		}
		target := destination
		if relative != "." {
			target = destination.Join(relative)
		}

		// Replicate the entry. Traversal yields directories before their
		// children, so a file's parent is guaranteed to exist by the time the
		// file is copied.
		kind, err := entry.Classify()
		if err != nil {
			return err
		}
		switch kind {
		case filesystem.KindDirectory:
			if relative == "." {
				// The destination root may need intermediate parents.
				return errors.Wrap(os.MkdirAll(target.String(), directoryMode(entry.Path)), "unable to create destination root")
			}
			return errors.Wrapf(os.Mkdir(target.String(), directoryMode(entry.Path)), "unable to create %s", target)
		case filesystem.KindSymbolicLink:
			return copySymbolicLink(entry.Path, target)
		case filesystem.KindFile:
			return copyFile(entry.Path, target, buffer)
		default:
			return nil
		}
	})
}

// directoryMode returns the permission bits of the directory at path, falling
// back to user-preferential defaults if they can't be queried (e.g. because
// the directory disappeared mid-copy).
func directoryMode(path filesystem.Path) os.FileMode {
	if info, err := os.Lstat(path.String()); err == nil {
		return info.Mode().Perm()
	}
	return 0755
}

// copyFile copies the regular file at source to target, preserving permission
// bits.
func copyFile(source, target filesystem.Path, buffer []byte) error {
	// Open the source.
	file, err := os.Open(source.String())
	if err != nil {
		return errors.Wrapf(err, "unable to open %s", source)
	}

	// Copy content inside nested close scopes so that both handles are
	// released on every exit path.
	return stream.WithCloser(file, nil, func() error {
		// Grab the source mode for permission preservation.
		info, err := file.Stat()
		if err != nil {
			return errors.Wrap(err, "unable to query source metadata")
		}

		// Create the target.
		output, err := os.OpenFile(target.String(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
		if err != nil {
			return errors.Wrapf(err, "unable to create %s", target)
		}
		return stream.WithCloser(output, nil, func() error {
			_, err := stream.Pipe(output, file, buffer)
			return errors.Wrapf(err, "unable to copy content to %s", target)
		})
	})
}

// copySymbolicLink recreates the symbolic link at source at target.
func copySymbolicLink(source, target filesystem.Path) error {
	linkTarget, err := os.Readlink(source.String())
	if err != nil {
		return errors.Wrapf(err, "unable to read link %s", source)
	}
	return errors.Wrapf(os.Symlink(linkTarget, target.String()), "unable to create link %s", target)
}
