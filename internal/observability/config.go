package observability

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// TracingConfig selects where pipeline spans are exported.
type TracingConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Provider is "otlp" or "noop".
	Provider    string `yaml:"provider" mapstructure:"provider"`
	Endpoint    string `yaml:"endpoint" mapstructure:"endpoint"`
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	// SampleRate is the fraction of runs traced, 0 to 1.
	SampleRate   float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
	TLSCertFile  string  `yaml:"tls_cert_file,omitempty" mapstructure:"tls_cert_file"`
	InsecureMode bool    `yaml:"insecure_mode" mapstructure:"insecure_mode"`
}

// Validate skips every check while tracing is off.
func (c *TracingConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if err := oneOf("tracing provider", c.Provider, "otlp", "noop"); err != nil {
		return err
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("invalid sample rate %g: want a fraction from 0 to 1", c.SampleRate)
	}
	if !strings.EqualFold(c.Provider, "noop") && c.Endpoint == "" {
		return errors.New("an OTLP endpoint is required when tracing is enabled")
	}
	return nil
}

// MetricsConfig selects how pipeline instruments are exposed.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Provider is "prometheus" (scrape endpoint on Port) or "otlp".
	Provider string `yaml:"provider" mapstructure:"provider"`
	Endpoint string `yaml:"endpoint,omitempty" mapstructure:"endpoint"`
	Port     int    `yaml:"port" mapstructure:"port"`
}

func (c *MetricsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if err := oneOf("metrics provider", c.Provider, "prometheus", "otlp"); err != nil {
		return err
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid metrics port %d", c.Port)
	}
	return nil
}

// LoggingConfig shapes the process slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	// Output is stdout, stderr or an absolute file path.
	Output string `yaml:"output" mapstructure:"output"`
}

func (c *LoggingConfig) Validate() error {
	if err := oneOf("log level", c.Level, "debug", "info", "warn", "error"); err != nil {
		return err
	}
	if err := oneOf("log format", c.Format, "json", "text"); err != nil {
		return err
	}
	switch strings.ToLower(c.Output) {
	case "":
		return errors.New("log output is empty")
	case "stdout", "stderr":
		return nil
	}
	if !filepath.IsAbs(c.Output) {
		return fmt.Errorf("invalid log output %q: use stdout, stderr or an absolute path", c.Output)
	}
	return nil
}

// oneOf matches value against allowed without regard to case.
func oneOf(what, value string, allowed ...string) error {
	if slices.Contains(allowed, strings.ToLower(value)) {
		return nil
	}
	return fmt.Errorf("invalid %s %q (allowed: %s)", what, value, strings.Join(allowed, ", "))
}
