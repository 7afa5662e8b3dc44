package configuration

import (
	"strconv"

	"github.com/pkg/errors"
)

// ParseCompressionLevel parses a compression level selection from its string
// representation: "default", "none", or an explicit level from 1 through 9.
func ParseCompressionLevel(value string) (int, error) {
	switch value {
	case "default":
		return 0, nil
	case "none":
		return -1, nil
	}
	level, err := strconv.Atoi(value)
	if err != nil || level < 1 || level > 9 {
		return 0, errors.Errorf("invalid compression level: %s", value)
	}
	return level, nil
}
