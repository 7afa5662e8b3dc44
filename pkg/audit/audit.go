// Package audit provides leak detection instrumentation for directory listing
// streams: a per-run registry of open/closed events and sampling of the
// process-wide open file handle count.
package audit

import (
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/canopy-io/canopy/pkg/logging"
)

// ErrUnsupportedPlatform indicates that open handle introspection is not
// available on this platform.
var ErrUnsupportedPlatform = errors.New("open handle accounting unsupported on this platform")

// State represents the last-known state of an audited handle.
type State uint8

const (
	// StateOpen indicates that a handle has been acquired but not yet
	// released.
	StateOpen State = iota
	// StateClosed indicates that a handle has been released.
	StateClosed
)

// String provides a human-readable representation of a handle state.
func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Context is a registry of handle open/close events for a single audited run.
// It has the property that it still functions if nil, but it doesn't record
// anything, allowing operations to accept an optional context without
// branching at every recording site. Contexts are not safe for concurrent
// use; they are intended for single-goroutine diagnostic and test use, not
// production correctness enforcement.
type Context struct {
	// identifier is a unique identifier for the audited run, included in
	// reports to correlate findings with their run.
	identifier string
	// states maps handle keys (typically source paths) to their last-known
	// state. A key left at StateOpen after a run is the leak signal.
	states map[string]State
}

// NewContext creates a new, empty audit context.
func NewContext() *Context {
	return &Context{
		identifier: uuid.NewString(),
		states:     make(map[string]State),
	}
}

// Identifier returns the unique identifier of the audited run.
func (c *Context) Identifier() string {
	if c == nil {
		return ""
	}
	return c.identifier
}

// RecordOpen records the acquisition of the handle identified by key.
func (c *Context) RecordOpen(key string) {
	if c == nil {
		return
	}
	c.states[key] = StateOpen
}

// RecordClosed records the release of the handle identified by key.
func (c *Context) RecordClosed(key string) {
	if c == nil {
		return
	}
	c.states[key] = StateClosed
}

// Outstanding returns the keys of handles whose last-known state is open, in
// lexicographic order.
func (c *Context) Outstanding() []string {
	if c == nil {
		return nil
	}
	var results []string
	for key, state := range c.states {
		if state == StateOpen {
			results = append(results, key)
		}
	}
	sort.Strings(results)
	return results
}

// Reset clears the registry.
func (c *Context) Reset() {
	if c == nil {
		return
	}
	c.states = make(map[string]State)
}

// Audited runs f inside an audited block: it creates a fresh context, samples
// the process-wide open handle count, invokes f with the context, re-samples,
// and reports (non-fatally, through logger) any increase in the handle count
// and any registry keys still marked open. The error returned is f's error;
// audit findings never fail the block.
func Audited(logger *logging.Logger, f func(*Context) error) error {
	// Create a fresh context for the run.
	context := NewContext()

	// Sample the open handle count. On platforms without handle introspection
	// this fails explicitly, in which case handle accounting is skipped but
	// registry auditing still applies.
	before, sampleErr := OpenHandles()
	if sampleErr != nil {
		logger.Debugf("Handle sampling unavailable: %v", sampleErr)
	}

	// Invoke the audited function.
	err := f(context)

	// Re-sample and report any growth in the handle count, including the
	// process handle budget so that growth can be judged against the limit.
	if sampleErr == nil {
		if after, err := OpenHandles(); err != nil {
			logger.Warnf("Unable to re-sample open handles for run %s: %v", context.identifier, err)
		} else if after > before {
			if budget, err := HandleBudget(); err == nil {
				logger.Warnf("Open handle count grew from %d to %d (budget %d) during run %s", before, after, budget, context.identifier)
			} else {
				logger.Warnf("Open handle count grew from %d to %d during run %s", before, after, context.identifier)
			}
		}
	}

	// Report any handles still marked open.
	for _, key := range context.Outstanding() {
		logger.Warnf("Handle still open after run %s: %s", context.identifier, key)
	}

	// Done.
	return err
}
