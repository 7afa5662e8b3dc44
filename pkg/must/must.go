// Package must provides helpers for operations whose failures can only be
// logged, typically because they occur in cleanup paths where no error return
// is available.
package must

import (
	"fmt"
	"io"
	"os"

	"github.com/canopy-io/canopy/pkg/logging"
)

// Fprint prints to the specified writer, logging any failure or short write.
func Fprint(w io.Writer, logger *logging.Logger, a ...any) {
	s := fmt.Sprint(a...)
	n, err := fmt.Fprint(w, s)
	if err != nil {
		logger.Warnf("Unable to Fprint '%s': %s", s, err.Error())
	}
	if n < len(s) {
		logger.Warnf("Unable to Fprint all of '%s'; printed only %d of %d bytes", s, n, len(s))
	}
}

// Close closes the specified closer, logging any failure.
func Close(c io.Closer, logger *logging.Logger) {
	err := c.Close()
	if err != nil {
		logger.Warnf("Unable to close: %s", err.Error())
	}
}

// OSRemove removes the named file or (empty) directory, logging any failure.
func OSRemove(name string, logger *logging.Logger) {
	err := os.Remove(name)
	if err != nil {
		logger.Warnf("Unable to remove '%s': %s", name, err.Error())
	}
}
