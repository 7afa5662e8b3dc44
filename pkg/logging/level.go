package logging

import (
	"github.com/pkg/errors"
)

// Level represents a logging verbosity level. Levels are ordered and
// comparable by value, with higher values more verbose.
type Level uint

const (
	// LevelDisabled indicates that logging is completely disabled.
	LevelDisabled Level = iota
	// LevelError indicates that only fatal errors are logged.
	LevelError
	// LevelWarn indicates that both fatal and non-fatal errors are logged.
	LevelWarn
	// LevelInfo indicates that basic execution information is logged (in
	// addition to all errors).
	LevelInfo
	// LevelDebug indicates that advanced execution information is logged (in
	// addition to basic information and all errors).
	LevelDebug
	// LevelTrace indicates that low-level execution information is logged (in
	// addition to all other execution information and all errors).
	LevelTrace
)

// levelNames maps level names to their values. These names are the ones
// accepted by the configuration file's logging.level field, the --log-level
// flag, and the CANOPY_LOG_LEVEL environment variable.
var levelNames = map[string]Level{
	"disabled": LevelDisabled,
	"error":    LevelError,
	"warn":     LevelWarn,
	"info":     LevelInfo,
	"debug":    LevelDebug,
	"trace":    LevelTrace,
}

// ParseLevel converts a string-based representation of a log level to the
// corresponding Level value, failing on unrecognized names.
func ParseLevel(name string) (Level, error) {
	if level, ok := levelNames[name]; ok {
		return level, nil
	}
	return LevelDisabled, errors.Errorf("invalid log level: %s", name)
}

// String provides a human-readable representation of a log level.
func (l Level) String() string {
	for name, level := range levelNames {
		if level == l {
			return name
		}
	}
	return "unknown"
}
