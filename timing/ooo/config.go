package ooo

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the sizing parameters of the out-of-order engine.
type Config struct {
	// ROBSize is the number of reorder-buffer entries. It bounds the
	// number of in-flight instructions and the tag space. Default: 16.
	ROBSize int `json:"rob_size"`

	// RSSize is the number of reservation-station slots. Default: 8.
	RSSize int `json:"rs_size"`
}

// DefaultConfig returns the standard engine configuration.
func DefaultConfig() Config {
	return Config{
		ROBSize: 16,
		RSSize:  8,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.ROBSize < 1 || c.ROBSize > 256 {
		return fmt.Errorf("rob_size %d out of range [1, 256]", c.ROBSize)
	}
	if c.RSSize < 1 {
		return fmt.Errorf("rs_size %d must be at least 1", c.RSSize)
	}
	return nil
}

// LoadConfigFromFile loads an engine configuration from a JSON file.
// Fields absent from the file keep their default values.
func LoadConfigFromFile(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}
