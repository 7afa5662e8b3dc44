// Package configuration provides loading and storage of canopy's global
// configuration file.
package configuration

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/canopy-io/canopy/pkg/encoding"
	"github.com/canopy-io/canopy/pkg/logging"
)

// configurationFileName is the name of the canopy configuration file within
// the user's home directory.
const configurationFileName = ".canopy.yaml"

// Configuration represents the canopy configuration file.
type Configuration struct {
	// Digest contains digest operation defaults.
	Digest struct {
		// Algorithm is the default digest algorithm name.
		Algorithm string `yaml:"algorithm"`
	} `yaml:"digest"`
	// Archive contains archival operation defaults.
	Archive struct {
		// CompressionLevel is the default compression level selection (0 is
		// the default level, -1 disables compression, 1 through 9 select
		// explicit levels).
		CompressionLevel int `yaml:"compressionLevel"`
	} `yaml:"archive"`
	// Walk contains traversal defaults.
	Walk struct {
		// Ignore are default ignore patterns applied to traversals.
		Ignore []string `yaml:"ignore"`
	} `yaml:"walk"`
	// Logging contains logging defaults.
	Logging struct {
		// Level is the default log level name.
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// Default returns a configuration populated with default values.
func Default() *Configuration {
	result := &Configuration{}
	result.Digest.Algorithm = "SHA256"
	result.Logging.Level = logging.LevelWarn.String()
	return result
}

// Path computes the path to the canopy configuration file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "unable to compute home directory")
	}
	return filepath.Join(home, configurationFileName), nil
}

// loadFromPath is the internal loading function. We keep it separate from
// Load so that we can get full test coverage using temporary files.
func loadFromPath(path string) (*Configuration, error) {
	// Create a configuration that we can decode into, set to default values.
	// Nothing will be modified in this structure if the configuration file
	// doesn't exist.
	result := Default()

	// Attempt to load the configuration from disk.
	if err := encoding.LoadAndUnmarshalYAML(path, result); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	// Success.
	return result, nil
}

// Load loads the canopy configuration file from disk and populates a
// Configuration structure. If the configuration file does not exist, a
// structure with default values is returned.
func Load() (*Configuration, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return loadFromPath(path)
}

// Save writes the configuration to the canopy configuration file path.
func (c *Configuration) Save(logger *logging.Logger) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return encoding.MarshalAndSaveYAML(path, logger, c)
}

// ApplyEnvironment overlays environment variables onto the configuration,
// loading any .env file in the working directory first. Recognized variables
// are CANOPY_LOG_LEVEL, CANOPY_DIGEST_ALGORITHM, and
// CANOPY_COMPRESSION_LEVEL.
func (c *Configuration) ApplyEnvironment() error {
	// Load any .env file. A missing file is not an error.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "unable to load environment file")
	}

	// Overlay recognized variables.
	if value := os.Getenv("CANOPY_LOG_LEVEL"); value != "" {
		c.Logging.Level = value
	}
	if value := os.Getenv("CANOPY_DIGEST_ALGORITHM"); value != "" {
		c.Digest.Algorithm = value
	}
	if value := os.Getenv("CANOPY_COMPRESSION_LEVEL"); value != "" {
		level, err := ParseCompressionLevel(value)
		if err != nil {
			return err
		}
		c.Archive.CompressionLevel = level
	}

	// Success.
	return nil
}
