// Package config loads project settings from pgupgrader.yaml, so repeated
// invocations against the same project do not need the full flag set.
package config

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the working directory when no
// explicit path is given.
const DefaultFile = "pgupgrader.yaml"

// defaultDir is where upgrade files live unless the config says otherwise.
const defaultDir = "upgrades"

// Config represents the project configuration for schema upgrades.
type Config struct {
	// Dir specifies the directory holding the upgrade files
	Dir string `yaml:"dir"`

	// Schema specifies the schema every upgrade step runs against
	Schema string `yaml:"schema,omitempty"`

	// CreateSchema makes the upgrade create Schema when it does not exist
	CreateSchema bool `yaml:"create_schema,omitempty"`

	// SSLMode sets the TLS requirement: "disable" (default) or "require"
	SSLMode string `yaml:"ssl_mode,omitempty"`
}

// LoadConfig parses a project configuration from the provided io.Reader.
//
// The function expects YAML-formatted configuration data. A missing dir
// falls back to the default upgrade directory.
//
// Example:
//
//	yamlData := `
//	dir: db/upgrades
//	schema: app
//	create_schema: true
//	`
//
//	cfg, err := config.LoadConfig(strings.NewReader(yamlData))
//	if err != nil {
//		panic(err)
//	}
//
//	fmt.Printf("Upgrade dir: %s\n", cfg.Dir)
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal project config")
	}

	if cfg.Dir == "" {
		cfg.Dir = defaultDir
	}

	return &cfg, nil
}

// LoadConfigFile loads a project configuration from the specified file path.
// This is a convenience function that opens the file and calls LoadConfig.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadConfig(f)
}
