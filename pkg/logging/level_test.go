package logging

import (
	"testing"
)

func TestParseLevel(t *testing.T) {
	// Ensure that every accepted name parses to a level that renders back to
	// the same name.
	for _, name := range []string{"disabled", "error", "warn", "info", "debug", "trace"} {
		level, err := ParseLevel(name)
		if err != nil {
			t.Errorf("valid level name rejected: %q: %v", name, err)
		} else if level.String() != name {
			t.Errorf("level name does not round-trip: %q != %q", level.String(), name)
		}
	}

	// Ensure that verbosity ordering holds.
	if !(LevelDisabled < LevelError && LevelError < LevelWarn && LevelWarn < LevelInfo &&
		LevelInfo < LevelDebug && LevelDebug < LevelTrace) {
		t.Error("levels not ordered by verbosity")
	}
}

func TestParseLevelInvalid(t *testing.T) {
	for _, name := range []string{"", "warning", "DEBUG", "verbose"} {
		if _, err := ParseLevel(name); err == nil {
			t.Errorf("invalid level name accepted: %q", name)
		}
	}
}
