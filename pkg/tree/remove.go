package tree

import (
	"os"

	"github.com/pkg/errors"

	"github.com/canopy-io/canopy/pkg/filesystem"
)

// RemoveOptions control removal behavior.
type RemoveOptions struct {
	// Swallow indicates that per-entry I/O failures should be logged and
	// skipped rather than propagated, making removal best-effort.
	Swallow bool
	// Walk supplies the audit context and logger used while listing
	// directories for removal. Depth bounds and ignore patterns don't apply
	// to removal.
	Walk WalkOptions
}

// Remove removes the filesystem object at path. Directories are removed
// recursively, children before parent (a directory can only be unlinked once
// empty). An absent path is not an error. In swallow mode, per-entry failures
// are logged and remaining work continues; otherwise the first failure aborts
// and propagates.
func Remove(path filesystem.Path, options RemoveOptions) error {
	return remove(filesystem.Entry{Path: path}, options)
}

// remove is the recursive removal implementation.
func remove(entry filesystem.Entry, options RemoveOptions) error {
	// Classify the entry.
	kind, err := entry.Classify()
	if err != nil {
		return report(errors.Wrapf(err, "unable to classify %s", entry.Path), options)
	} else if kind == filesystem.KindAbsent {
		return nil
	}

	// Remove children first for directories. The listing is collected (and
	// its handle released) before any unlinking, so that the directory is
	// never read while being mutated.
	if kind == filesystem.KindDirectory {
		listing, err := filesystem.List(entry, options.Walk.AuditContext)
		if err != nil {
			return report(errors.Wrapf(err, "unable to list %s", entry.Path), options)
		}
		children, err := listing.Collect()
		if err != nil {
			return report(errors.Wrapf(err, "unable to read %s", entry.Path), options)
		}
		for _, child := range children {
			if err := remove(child, options); err != nil {
				return err
			}
		}
	}

	// Remove the entry itself. For directories this only succeeds once the
	// directory is empty, which swallow mode can legitimately leave unmet.
	if err := os.Remove(entry.Path.String()); err != nil {
		return report(errors.Wrapf(err, "unable to remove %s", entry.Path), options)
	}

	// Success.
	return nil
}

// report applies the swallow policy to a removal failure: in swallow mode the
// failure is logged and suppressed, otherwise it propagates.
func report(err error, options RemoveOptions) error {
	if options.Swallow {
		options.Walk.Logger.Warn(err)
		return nil
	}
	return err
}
