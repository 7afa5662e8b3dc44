package tree

import (
	"io"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/canopy-io/canopy/pkg/audit"
	"github.com/canopy-io/canopy/pkg/filesystem"
	"github.com/canopy-io/canopy/pkg/logging"
	"github.com/canopy-io/canopy/pkg/stream"
)

// WalkOptions control traversal behavior.
type WalkOptions struct {
	// MaxDepth bounds the traversal depth: entries deeper than MaxDepth
	// levels beneath the root are not visited. The root itself is depth 0, so
	// a MaxDepth of 0 yields only the root. A negative value removes the
	// bound.
	MaxDepth int
	// FollowSymbolicLinks indicates whether or not traversal should descend
	// into directories reached through symbolic links. It defaults to off,
	// which prevents infinite traversal of cyclic links.
	FollowSymbolicLinks bool
	// IgnorePatterns are doublestar patterns matched against slash-form
	// root-relative paths. A matching entry and its entire subtree are
	// omitted from the traversal.
	IgnorePatterns []string
	// AuditContext is an optional audit context recording directory handle
	// acquisition and release.
	AuditContext *audit.Context
	// Logger is the logger to use for diagnostics.
	Logger *logging.Logger
}

// Walker performs a bounded-depth traversal of the hierarchy beneath a root,
// yielding entries one at a time. Traversal is depth-first: when a yielded
// entry is a directory within the depth bound, its listing is opened and its
// subtree is fully interleaved into the output before any of its siblings.
// Within one directory, child order is whatever the OS listing returns.
//
// A walker holds one open directory listing per level of the directory branch
// currently being expanded. Consumers that stop pulling before exhaustion
// must call Close to release them; Walk wraps this pattern with guaranteed
// release.
type Walker struct {
	// root is the traversal root.
	root filesystem.Path
	// options are the traversal options.
	options WalkOptions
	// stack holds the open listings for the directory branch currently being
	// expanded, innermost last.
	stack []*filesystem.Listing
	// rootEmitted indicates that the root entry has been yielded.
	rootEmitted bool
	// err is the terminal error, latched on exhaustion or failure.
	err error
}

// NewWalker creates a walker for the hierarchy beneath root. The root is
// always yielded (at depth 0), even if nothing exists at its path - existence
// is the caller's concern.
func NewWalker(root filesystem.Path, options WalkOptions) (*Walker, error) {
	// Validate ignore patterns upfront so that traversal can't fail on
	// matching.
	for _, pattern := range options.IgnorePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid ignore pattern: %s", pattern)
		}
	}

	// Success.
	return &Walker{
		root:    root,
		options: options,
	}, nil
}

// Next yields the next entry of the traversal, returning io.EOF on
// exhaustion. An error opening a subdirectory's listing aborts the entire
// walk: the error is returned, latched, and all open listings are released.
func (w *Walker) Next() (filesystem.Entry, error) {
	var zero filesystem.Entry

	// Enforce any terminal condition.
	if w.err != nil {
		return zero, w.err
	}

	// Yield the root on the first pull, descending into it if possible.
	if !w.rootEmitted {
		w.rootEmitted = true
		root := filesystem.Entry{Path: w.root}
		if err := w.descend(root); err != nil {
			return zero, w.fail(err)
		}
		return root, nil
	}

	// Pull from the innermost open listing, popping exhausted listings as
	// they're encountered. An exhausted listing has already released its
	// handle.
	for len(w.stack) > 0 {
		entry, err := w.stack[len(w.stack)-1].Next()
		if err == io.EOF {
			w.stack = w.stack[:len(w.stack)-1]
			continue
		} else if err != nil {
			return zero, w.fail(errors.Wrap(err, "unable to read directory listing"))
		}

		// Check whether the entry is ignored, in which case its subtree is
		// pruned as well (by virtue of never descending).
		if ignored, err := w.ignored(entry); err != nil {
			return zero, w.fail(err)
		} else if ignored {
			continue
		}

		// Expand the entry before yielding any of its siblings.
		if err := w.descend(entry); err != nil {
			return zero, w.fail(err)
		}

		return entry, nil
	}

	// Exhausted.
	w.err = io.EOF
	return zero, io.EOF
}

// Close releases any listings still held open by the walker. It is idempotent
// and must be called by consumers that abandon the walk before exhaustion.
func (w *Walker) Close() error {
	var result error
	stack := w.stack
	w.stack = nil
	for i := len(stack) - 1; i >= 0; i-- {
		if err := stack[i].Close(); err != nil && result == nil {
			result = err
		}
	}
	if w.err == nil {
		w.err = io.EOF
	}
	return result
}

// fail latches a terminal error and releases any open listings. Release
// failures at that point are logged rather than masking the original error.
func (w *Walker) fail(err error) error {
	w.err = err
	stack := w.stack
	w.stack = nil
	for i := len(stack) - 1; i >= 0; i-- {
		if closeErr := stack[i].Close(); closeErr != nil {
			w.options.Logger.Warnf("Unable to close listing during abort: %v", closeErr)
		}
	}
	return err
}

// ignored determines whether or not an entry matches any ignore pattern.
func (w *Walker) ignored(entry filesystem.Entry) (bool, error) {
	if len(w.options.IgnorePatterns) == 0 {
		return false, nil
	}
	relative, err := entry.Path.RelativeTo(w.root)
	if err != nil {
		return false, err
	}
	for _, pattern := range w.options.IgnorePatterns {
		// Patterns were validated at construction, so matching can't fail.
		if matched, _ := doublestar.Match(pattern, relative); matched {
			return true, nil
		}
	}
	return false, nil
}

// descend opens the entry's listing and pushes it onto the expansion stack if
// the entry is a directory and the depth budget allows. Symbolic links are
// followed for the directory decision only if link following is enabled.
func (w *Walker) descend(entry filesystem.Entry) error {
	// Enforce the depth bound.
	if w.options.MaxDepth >= 0 && entry.Depth >= w.options.MaxDepth {
		return nil
	}

	// Classify the entry. An absent entry (including a root that doesn't
	// exist) simply isn't expanded.
	kind, err := entry.Classify()
	if err != nil {
		return err
	}
	if kind == filesystem.KindSymbolicLink && w.options.FollowSymbolicLinks {
		kind, err = filesystem.ClassifyFollowing(entry.Path)
		if err != nil {
			return err
		}
	}
	if kind != filesystem.KindDirectory {
		return nil
	}

	// Open the listing.
	listing, err := filesystem.List(entry, w.options.AuditContext)
	if err != nil {
		return errors.Wrapf(err, "unable to open listing for %s", entry.Path)
	}
	w.stack = append(w.stack, listing)

	// Success.
	return nil
}

// Walk traverses the hierarchy beneath root, invoking fn for every entry. All
// directory listings opened by the traversal are guaranteed to be released by
// the time Walk returns, regardless of how it completes. If fn returns an
// error, the walk is aborted and that error is returned.
func Walk(root filesystem.Path, options WalkOptions, fn func(filesystem.Entry) error) error {
	walker, err := NewWalker(root, options)
	if err != nil {
		return err
	}
	return stream.WithCloser(walker, options.Logger, func() error {
		for {
			entry, err := walker.Next()
			if err == io.EOF {
				return nil
			} else if err != nil {
				return err
			}
			if err := fn(entry); err != nil {
				return err
			}
		}
	})
}
