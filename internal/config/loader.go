package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// Environment variables read on every load. They take precedence over the
// config file.
const (
	EnvEnableCritic  = "ENABLE_CRITIC"
	EnvGeminiAPIKey  = "GEMINI_API_KEY"
	EnvNeo4jURI      = "NEO4J_URI"
	EnvNeo4jUser     = "NEO4J_USER"
	EnvNeo4jPassword = "NEO4J_PASSWORD"
	EnvNeo4jDatabase = "NEO4J_DATABASE"
)

var envBindings = []struct {
	key string
	env string
}{
	{"llm.api_key", EnvGeminiAPIKey},
	{"graph.uri", EnvNeo4jURI},
	{"graph.username", EnvNeo4jUser},
	{"graph.password", EnvNeo4jPassword},
	{"graph.database", EnvNeo4jDatabase},
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ConfigLoader handles loading configuration from files.
type ConfigLoader interface {
	Load(path string) (*Config, error)
	LoadWithDefaults(path string) (*Config, error)
}

// viperConfigLoader implements ConfigLoader using Viper.
type viperConfigLoader struct {
	validator ConfigValidator
	homeDir   string
}

// NewConfigLoader creates a new ConfigLoader. Defaults are rooted at homeDir,
// or at DefaultHomeDir when it is empty.
func NewConfigLoader(validator ConfigValidator, homeDir string) ConfigLoader {
	if homeDir == "" {
		homeDir = DefaultHomeDir()
	}
	return &viperConfigLoader{
		validator: validator,
		homeDir:   homeDir,
	}
}

// Load loads configuration from the specified file path over the defaults.
// Returns an error if the file doesn't exist or cannot be parsed.
func (l *viperConfigLoader) Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return nil, types.WrapError(types.CONFIG_NOT_FOUND, fmt.Sprintf("config file not found: %s", path), err)
		}
		return nil, types.WrapError(types.CONFIG_PARSE_FAILED, "failed to read config file", err)
	}

	return l.decode(v)
}

// LoadWithDefaults loads configuration from the specified file path.
// If the file doesn't exist, the defaults are used. Environment variables
// apply either way.
func (l *viperConfigLoader) LoadWithDefaults(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return l.decode(viper.New())
	}
	return l.Load(path)
}

func (l *viperConfigLoader) decode(v *viper.Viper) (*Config, error) {
	for _, b := range envBindings {
		if err := v.BindEnv(b.key, b.env); err != nil {
			return nil, types.WrapError(types.CONFIG_LOAD_FAILED, "failed to bind "+b.env, err)
		}
	}

	for _, key := range v.AllKeys() {
		if s, ok := v.Get(key).(string); ok && strings.Contains(s, "${") {
			v.Set(key, interpolateString(s))
		}
	}

	homeDir := l.homeDir
	if v.IsSet("core.home_dir") {
		homeDir = v.GetString("core.home_dir")
	}
	cfg := DefaultConfigAt(homeDir)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, types.WrapError(types.CONFIG_PARSE_FAILED, "failed to unmarshal config", err)
	}
	if !v.IsSet("vector.storage_path") {
		cfg.Vector.StoragePath = filepath.Join(cfg.Core.DataDir, "index.db")
	}

	applyEnvironmentOverrides(cfg)

	if err := l.validator.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvironmentOverrides applies the variables that are not plain key
// bindings. The critic stays enabled unless ENABLE_CRITIC is literally
// "false".
func applyEnvironmentOverrides(cfg *Config) {
	if val, ok := os.LookupEnv(EnvEnableCritic); ok {
		cfg.Pipeline.Enabled = val != "false"
	}
}

// interpolateString replaces ${VAR_NAME} with environment variable values.
// Unset variables are left as written.
func interpolateString(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if envValue := os.Getenv(varName); envValue != "" {
			return envValue
		}
		return match
	})
}
