package must

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
)

// failingWriter is an io.Writer that always fails.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("write failure")
}

func TestFprint(t *testing.T) {
	// Print to a working writer.
	buffer := &bytes.Buffer{}
	Fprint(buffer, nil, "created   /some/path\n")
	if buffer.String() != "created   /some/path\n" {
		t.Error("printed content does not match expected:", buffer.String())
	}
}

func TestFprintTolerantOfFailure(t *testing.T) {
	// Print to a failing writer. The failure can only be logged, so the call
	// must simply return.
	Fprint(failingWriter{}, nil, "dropped")
}
