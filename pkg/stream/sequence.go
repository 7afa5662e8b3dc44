package stream

import (
	"io"
)

// Sequence is a lazy, single-pass, forward-only sequence of values drawn from
// a closable resource. The producer is invoked once per Next call until it
// signals exhaustion by returning io.EOF, at which point the backing resource
// is closed exactly once and the sequence reports io.EOF from then on. A
// producer failure other than io.EOF also terminates the sequence, closing
// the resource and latching the failure for subsequent Next calls.
//
// A consumer that stops pulling before exhaustion must call Close itself,
// otherwise the backing resource remains open. Sequences are not safe for
// concurrent use without external synchronization.
type Sequence[T any] struct {
	// produce generates the next raw value from the backing resource.
	produce func() (T, error)
	// resource is the backing resource to release on exhaustion or close.
	resource io.Closer
	// closed indicates that the resource has been released. Once set, the
	// producer is never invoked again.
	closed bool
	// err is the terminal error, latched on exhaustion or producer failure.
	err error
}

// NewSequence creates a sequence that draws values from produce and releases
// resource when produce returns io.EOF.
func NewSequence[T any](produce func() (T, error), resource io.Closer) *Sequence[T] {
	return &Sequence[T]{
		produce:  produce,
		resource: resource,
	}
}

// Next pulls the next value from the sequence. It returns io.EOF once the
// sequence is exhausted, at which point the backing resource has been
// released. Pulls after exhaustion are no-ops that continue returning the
// terminal error.
func (s *Sequence[T]) Next() (T, error) {
	// If the sequence has terminated, then return the latched error without
	// touching the producer.
	if s.closed {
		var zero T
		return zero, s.err
	}

	// Pull the next value.
	value, err := s.produce()
	if err == nil {
		return value, nil
	}

	// The producer has signaled exhaustion or failed, so release the resource
	// and latch the terminal error. A close failure takes precedence over
	// io.EOF (the caller needs to know the release failed), but not over a
	// producer failure.
	closeErr := s.close()
	if err == io.EOF && closeErr != nil {
		err = closeErr
	}
	s.err = err
	var zero T
	return zero, err
}

// Close releases the backing resource if it hasn't been released already. It
// is idempotent and must be called by consumers that abandon the sequence
// before exhaustion. After Close, Next returns io.EOF.
func (s *Sequence[T]) Close() error {
	if s.closed {
		return nil
	}
	s.err = io.EOF
	return s.close()
}

// close performs the underlying release, recording that it happened.
func (s *Sequence[T]) close() error {
	s.closed = true
	return s.resource.Close()
}

// Drain invokes fn for every remaining value in the sequence, guaranteeing
// that the backing resource is released by the time it returns. If fn returns
// an error, draining stops, the sequence is closed, and that error is
// returned.
func (s *Sequence[T]) Drain(fn func(T) error) error {
	for {
		value, err := s.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		if err := fn(value); err != nil {
			s.Close()
			return err
		}
	}
}

// Collect drains the sequence into a slice, guaranteeing that the backing
// resource is released by the time it returns.
func (s *Sequence[T]) Collect() ([]T, error) {
	var results []T
	if err := s.Drain(func(value T) error {
		results = append(results, value)
		return nil
	}); err != nil {
		return nil, err
	}
	return results, nil
}
