package stream

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestWithCloserSuccess(t *testing.T) {
	// Run a successful body.
	closer := &testCloser{}
	invoked := false
	if err := WithCloser(closer, nil, func() error {
		invoked = true
		return nil
	}); err != nil {
		t.Fatal("scoped execution failed:", err)
	}

	// Ensure that the body ran and the resource was closed exactly once.
	if !invoked {
		t.Error("body not invoked")
	}
	if closer.closures != 1 {
		t.Error("unexpected closure count:", closer.closures)
	}
}

func TestWithCloserBodyErrorWins(t *testing.T) {
	// Run a failing body over a resource whose close also fails. The body
	// error must propagate; the close failure is only logged.
	closer := &testCloser{err: errors.New("close failure")}
	failure := errors.New("body failure")
	err := WithCloser(closer, nil, func() error {
		return failure
	})
	if err != failure {
		t.Error("expected body error, got:", err)
	}
	if closer.closures != 1 {
		t.Error("unexpected closure count:", closer.closures)
	}
}

func TestWithCloserCloseErrorSurfacedOnSuccess(t *testing.T) {
	// Run a successful body over a resource whose close fails. The close
	// failure must be returned.
	closer := &testCloser{err: errors.New("close failure")}
	err := WithCloser(closer, nil, func() error {
		return nil
	})
	if err == nil || !strings.Contains(err.Error(), "close failure") {
		t.Error("close failure not surfaced:", err)
	}
	if closer.closures != 1 {
		t.Error("unexpected closure count:", closer.closures)
	}
}

func TestWithCloserClosesOnPanic(t *testing.T) {
	// Run a panicking body and ensure the resource is still released.
	closer := &testCloser{}
	func() {
		defer func() {
			recover()
		}()
		WithCloser(closer, nil, func() error {
			panic("body panic")
		})
	}()
	if closer.closures != 1 {
		t.Error("unexpected closure count after panic:", closer.closures)
	}
}

func TestPipe(t *testing.T) {
	// Copy content through a reused buffer.
	source := strings.NewReader("some piped content")
	destination := &bytes.Buffer{}
	buffer := make([]byte, 4)
	if n, err := Pipe(destination, source, buffer); err != nil {
		t.Fatal("pipe failed:", err)
	} else if n != int64(len("some piped content")) {
		t.Error("unexpected piped byte count:", n)
	}
	if destination.String() != "some piped content" {
		t.Error("piped content does not match expected")
	}

	// Ensure that a nil buffer is tolerated.
	destination.Reset()
	if _, err := Pipe(destination, strings.NewReader("more"), nil); err != nil {
		t.Fatal("pipe with nil buffer failed:", err)
	}
	if destination.String() != "more" {
		t.Error("piped content does not match expected")
	}
}
