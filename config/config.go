// Package config loads the YAML configuration used by rengactl.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/renga"
	"github.com/hupe1980/renga/logging"
	"github.com/hupe1980/renga/version"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("semver", validateSemver)
}

func validateSemver(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := version.Parse(s)
	return err == nil
}

// Config is the top-level configuration.
type Config struct {
	// ClassName is the application class to instantiate.
	ClassName string `yaml:"class_name" validate:"required"`

	// Hidden starts the application without its user interface.
	Hidden bool `yaml:"hidden"`

	// MinimumVersion is the oldest application version the CLI accepts.
	// Empty disables the check.
	MinimumVersion string `yaml:"minimum_version" validate:"semver"`

	Logging Logging `yaml:"logging"`
}

// Logging configures the CLI logger.
type Logging struct {
	Level     string `yaml:"level" validate:"oneof=debug info warn warning error"`
	Format    string `yaml:"format" validate:"oneof=json text"`
	AddSource bool   `yaml:"add_source"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		ClassName:      renga.DefaultClassName,
		MinimumVersion: version.Target.String(),
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the file at path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read the config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse the config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration against its constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// MinVersion returns the parsed minimum version, or the zero version when the
// check is disabled.
func (c *Config) MinVersion() (version.Version, error) {
	if c.MinimumVersion == "" {
		return version.Version{}, nil
	}
	return version.Parse(c.MinimumVersion)
}

// Logger builds the logger described by the configuration, writing to out
// (stderr when nil).
func (c *Config) Logger(out io.Writer) (*logging.RengaLogger, error) {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewLogger(&logging.LoggerConfig{
		Level:     level,
		Format:    c.Logging.Format,
		Output:    out,
		AddSource: c.Logging.AddSource,
		Component: "rengactl",
	}), nil
}

// Options returns the session options described by the configuration.
func (c *Config) Options() func(o *renga.Options) {
	return func(o *renga.Options) {
		o.ClassName = c.ClassName
		o.Hidden = c.Hidden
	}
}
