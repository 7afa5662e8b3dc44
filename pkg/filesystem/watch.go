package filesystem

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/canopy-io/canopy/pkg/logging"
	"github.com/canopy-io/canopy/pkg/must"
)

// EventKind classifies a directory change notification.
type EventKind uint8

const (
	// EventCreated indicates that a filesystem object was created.
	EventCreated EventKind = iota
	// EventModified indicates that a filesystem object's content or metadata
	// was modified.
	EventModified
	// EventRemoved indicates that a filesystem object was removed or renamed
	// away.
	EventRemoved
)

// String provides a human-readable representation of an event kind.
func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventModified:
		return "modified"
	case EventRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Event represents a single directory change notification.
type Event struct {
	// Path is the location the event refers to.
	Path Path
	// Kind is the event classification.
	Kind EventKind
}

// Watch establishes a watch on the specified directory and forwards native
// create/modify/delete notifications to the handler until the context is
// canceled. This is a thin pass-through over the operating system's change
// notification facility: events are delivered as the OS reports them, with no
// coalescing, ordering guarantees, or recursive descent. The handler is
// invoked from the watch goroutine and should return quickly.
func Watch(ctx context.Context, directory Path, handler func(Event), logger *logging.Logger) error {
	// Create the watcher and defer its closure.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "unable to create watcher")
	}
	defer must.Close(watcher, logger)

	// Establish the watch.
	if err := watcher.Add(directory.String()); err != nil {
		return errors.Wrap(err, "unable to watch directory")
	}

	// Forward events until cancellation or watcher failure.
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("watch terminated unexpectedly")
			}
			path, err := NewPath(event.Name)
			if err != nil {
				logger.Warnf("Ignoring event with unusable path '%s': %v", event.Name, err)
				continue
			}
			switch {
			case event.Has(fsnotify.Create):
				handler(Event{Path: path, Kind: EventCreated})
			case event.Has(fsnotify.Write) || event.Has(fsnotify.Chmod):
				handler(Event{Path: path, Kind: EventModified})
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				handler(Event{Path: path, Kind: EventRemoved})
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watch terminated unexpectedly")
			}
			return errors.Wrap(err, "watch failed")
		}
	}
}
