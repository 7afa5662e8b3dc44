// Package stream provides resource-lifetime primitives: scoped acquisition of
// closable resources and lazy sequences that release their backing resource
// on exhaustion.
package stream

import (
	"io"

	"github.com/pkg/errors"

	"github.com/canopy-io/canopy/pkg/logging"
)

// WithCloser invokes body and guarantees that resource is closed exactly once
// by the time WithCloser returns, on every exit path (including panic
// unwinds). If body returns an error, that error is returned and any close
// failure is logged through the provided logger rather than being dropped or
// replacing the body error. If body succeeds, a close failure is returned.
func WithCloser(resource io.Closer, logger *logging.Logger, body func() error) (err error) {
	// Track closure so that the deferred close doesn't double up with the
	// explicit close on the success path.
	closed := false
	defer func() {
		if !closed {
			if closeErr := resource.Close(); closeErr != nil {
				if err != nil {
					logger.Warnf("Unable to close resource during unwind: %v", closeErr)
				} else {
					err = errors.Wrap(closeErr, "unable to close resource")
				}
			}
		}
	}()

	// Invoke the body.
	if err = body(); err != nil {
		return err
	}

	// Close the resource, propagating any failure.
	closed = true
	if closeErr := resource.Close(); closeErr != nil {
		return errors.Wrap(closeErr, "unable to close resource")
	}

	// Success.
	return nil
}

// pipeCopyBufferSize specifies the size of the buffer that Pipe allocates if
// none is provided. This value is taken from Go's io.Copy method, which
// defaults to allocating a 32k buffer if none is provided.
const pipeCopyBufferSize = 32 * 1024

// Pipe copies src to dst using the provided buffer, allocating one if the
// buffer is nil or empty. It returns the number of bytes copied.
func Pipe(dst io.Writer, src io.Reader, buffer []byte) (int64, error) {
	if len(buffer) == 0 {
		buffer = make([]byte, pipeCopyBufferSize)
	}
	return io.CopyBuffer(dst, src, buffer)
}
