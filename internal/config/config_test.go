package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/agents"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/graphrag"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/llm"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/memory/vector"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/ontology"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// clearEnv unsets every variable the loader reads, restoring them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		EnvEnableCritic, EnvGeminiAPIKey, EnvNeo4jURI, EnvNeo4jUser,
		EnvNeo4jPassword, EnvNeo4jDatabase, HomeEnvVar,
	} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newLoader(t *testing.T) ConfigLoader {
	t.Helper()
	return NewConfigLoader(NewValidator(), "/tmp/ontograph-test")
}

func TestDefaultConfig(t *testing.T) {
	clearEnv(t)
	cfg := DefaultConfigAt("/srv/ontograph")

	assert.Equal(t, "/srv/ontograph", cfg.Core.HomeDir)
	assert.Equal(t, filepath.Join("/srv/ontograph", "data"), cfg.Core.DataDir)

	assert.Equal(t, llm.ProviderGoogle, cfg.LLM.Type)
	assert.Equal(t, DefaultModel, cfg.LLM.DefaultModel)
	assert.Equal(t, time.Second, cfg.LLM.RateLimit.MinDelay)
	assert.Equal(t, 2*time.Second, cfg.LLM.RateLimit.BaseDelay)
	assert.Equal(t, 3, cfg.LLM.RateLimit.MaxRetries)

	assert.True(t, cfg.Pipeline.Enabled)
	assert.Equal(t, 20, cfg.Pipeline.FetchLimit)
	assert.Equal(t, 10, cfg.Pipeline.ContextLimit)
	assert.Equal(t, 5*time.Minute, cfg.Pipeline.RunTimeout)
	assert.Equal(t, 30*time.Second, cfg.Pipeline.IndexTimeout)
	assert.Equal(t, 1, cfg.Pipeline.Concurrency)

	assert.Equal(t, 1000, cfg.Cache.Size)
	assert.Equal(t, graphrag.BackendNeo4j, cfg.Graph.Backend)
	assert.Equal(t, "bolt://localhost:7687", cfg.Graph.URI)
	assert.Equal(t, vector.BackendEmbedded, cfg.Vector.Backend)
	assert.Equal(t, filepath.Join("/srv/ontograph", "data", "index.db"), cfg.Vector.StoragePath)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Tracing.Enabled)
	assert.False(t, cfg.Metrics.Enabled)

	require.NoError(t, NewValidator().Validate(cfg), "defaults must validate")
}

func TestDefaultHomeDir_Env(t *testing.T) {
	t.Setenv(HomeEnvVar, "/opt/graph-home")
	assert.Equal(t, "/opt/graph-home", DefaultHomeDir())
	assert.Equal(t, filepath.Join("/opt/graph-home", "config.yaml"), DefaultConfigPath(DefaultHomeDir()))
}

func TestLoadWithDefaults_MissingFile(t *testing.T) {
	clearEnv(t)

	cfg, err := newLoader(t).LoadWithDefaults(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfigAt("/tmp/ontograph-test"), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := newLoader(t).Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.CONFIG_NOT_FOUND))
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, "llm: [unterminated\n")
	_, err := newLoader(t).Load(path)
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.CONFIG_PARSE_FAILED))
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
core:
  home_dir: /data/og
llm:
  provider: mock
  model: offline
  rate_limit:
    min_delay: 250ms
pipeline:
  critic_enabled: false
  context_fetch_limit: 30
  run_timeout: 2m
  referential_policy: require_proposed
  concurrency: 4
cache:
  size: 50
  ttl: 1h
graph:
  backend: memory
vector:
  backend: none
logging:
  level: debug
  format: json
`)

	cfg, err := newLoader(t).Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/og", cfg.Core.HomeDir)
	assert.Equal(t, filepath.Join("/data/og", "data"), cfg.Core.DataDir)
	assert.Equal(t, filepath.Join("/data/og", "data", "index.db"), cfg.Vector.StoragePath)

	assert.Equal(t, llm.ProviderMock, cfg.LLM.Type)
	assert.Equal(t, "offline", cfg.LLM.DefaultModel)
	assert.Equal(t, 250*time.Millisecond, cfg.LLM.RateLimit.MinDelay)
	assert.Equal(t, 2*time.Second, cfg.LLM.RateLimit.BaseDelay, "unset keys keep defaults")
	assert.Equal(t, 3, cfg.LLM.RateLimit.MaxRetries)

	assert.False(t, cfg.Pipeline.Enabled)
	assert.Equal(t, 30, cfg.Pipeline.FetchLimit)
	assert.Equal(t, 10, cfg.Pipeline.ContextLimit)
	assert.Equal(t, 2*time.Minute, cfg.Pipeline.RunTimeout)
	assert.Equal(t, DefaultIndexTimeout, cfg.Pipeline.IndexTimeout)
	assert.Equal(t, 4, cfg.Pipeline.Concurrency)

	assert.Equal(t, 50, cfg.Cache.Size)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, graphrag.BackendMemory, cfg.Graph.Backend)
	assert.Equal(t, vector.BackendNone, cfg.Vector.Backend)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvironmentBindings(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvGeminiAPIKey, "gm-key")
	t.Setenv(EnvNeo4jURI, "neo4j+s://graph.example.com")
	t.Setenv(EnvNeo4jUser, "ingest")
	t.Setenv(EnvNeo4jPassword, "s3cret")
	t.Setenv(EnvNeo4jDatabase, "observations")

	path := writeConfig(t, `
graph:
  uri: bolt://from-file:7687
  username: file-user
`)

	cfg, err := newLoader(t).Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gm-key", cfg.LLM.APIKey)
	assert.Equal(t, "neo4j+s://graph.example.com", cfg.Graph.URI, "environment wins over the file")
	assert.Equal(t, "ingest", cfg.Graph.Username)
	assert.Equal(t, "s3cret", cfg.Graph.Password)
	assert.Equal(t, "observations", cfg.Graph.Database)
}

func TestLoad_EnableCritic(t *testing.T) {
	tests := []struct {
		name     string
		env      *string
		file     string
		expected bool
	}{
		{name: "unset keeps default", expected: true},
		{name: "unset keeps file value", file: "pipeline:\n  critic_enabled: false\n", expected: false},
		{name: "literal false disables", env: ptr("false"), expected: false},
		{name: "uppercase FALSE is not false", env: ptr("FALSE"), expected: true},
		{name: "zero is not false", env: ptr("0"), expected: true},
		{name: "true overrides file", env: ptr("true"), file: "pipeline:\n  critic_enabled: false\n", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			if tt.env != nil {
				t.Setenv(EnvEnableCritic, *tt.env)
			}
			path := writeConfig(t, tt.file)

			cfg, err := newLoader(t).Load(path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.Pipeline.Enabled)
		})
	}
}

func TestLoad_Interpolation(t *testing.T) {
	clearEnv(t)
	t.Setenv("OG_TEST_GRAPH_PASSWORD", "from-env")
	t.Setenv("OG_TEST_HOST", "graph.internal")

	path := writeConfig(t, `
graph:
  uri: bolt://${OG_TEST_HOST}:7687
  password: ${OG_TEST_GRAPH_PASSWORD}
  database: ${OG_TEST_UNSET_VARIABLE}
`)

	cfg, err := newLoader(t).Load(path)
	require.NoError(t, err)

	assert.Equal(t, "bolt://graph.internal:7687", cfg.Graph.URI)
	assert.Equal(t, "from-env", cfg.Graph.Password)
	assert.Equal(t, "${OG_TEST_UNSET_VARIABLE}", cfg.Graph.Database, "unset variables are left as written")
}

func TestLoad_ValidationFailure(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, "llm:\n  provider: watson\n")
	_, err := newLoader(t).Load(path)
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.CONFIG_VALIDATION_FAILED))
	assert.Contains(t, err.Error(), "llm.provider must be one of")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.LLM.Type = "watson" },
			wantErr: "llm.provider must be one of",
		},
		{
			name:    "empty model",
			mutate:  func(c *Config) { c.LLM.DefaultModel = "" },
			wantErr: "llm.model is required",
		},
		{
			name:    "cache size",
			mutate:  func(c *Config) { c.Cache.Size = 0 },
			wantErr: "cache.size must be at least 1",
		},
		{
			name:    "negative fetch limit",
			mutate:  func(c *Config) { c.Pipeline.FetchLimit = -1 },
			wantErr: "pipeline.context_fetch_limit must be at least 0",
		},
		{
			name:    "context larger than fetch",
			mutate:  func(c *Config) { c.Pipeline.ContextLimit = 25 },
			wantErr: "pipeline.context_limit (25) cannot exceed pipeline.context_fetch_limit (20)",
		},
		{
			name:    "referential policy",
			mutate:  func(c *Config) { c.Pipeline.ReferentialPolicy = "strict" },
			wantErr: "pipeline.referential_policy must be one of",
		},
		{
			name:    "concurrency",
			mutate:  func(c *Config) { c.Pipeline.Concurrency = 0 },
			wantErr: "pipeline.concurrency must be at least 1",
		},
		{
			name:    "graph backend",
			mutate:  func(c *Config) { c.Graph.Backend = "dgraph" },
			wantErr: "graph.backend must be one of",
		},
		{
			name:    "vector backend",
			mutate:  func(c *Config) { c.Vector.Backend = "pinecone" },
			wantErr: "vector.backend must be one of",
		},
		{
			name:    "negative rate limit delay",
			mutate:  func(c *Config) { c.LLM.RateLimit.MinDelay = -time.Second },
			wantErr: "llm.rate_limit",
		},
		{
			name:    "log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid log level",
		},
		{
			name: "tracing without endpoint",
			mutate: func(c *Config) {
				c.Tracing.Enabled = true
			},
			wantErr: "endpoint is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfigAt("/tmp/ontograph-test")
			tt.mutate(cfg)

			err := NewValidator().Validate(cfg)
			require.Error(t, err)
			assert.True(t, types.HasCode(err, types.CONFIG_VALIDATION_FAILED))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	err := NewValidator().Validate(nil)
	assert.True(t, types.HasCode(err, types.CONFIG_VALIDATION_FAILED))
}

func TestPipelineConfig_Referential(t *testing.T) {
	rel := ontology.Relationship{From: "elsewhere", To: "outside", Type: "PART_OF"}
	proposed := map[string]struct{}{"dept_marketing": {}}

	cfg := PipelineConfig{ReferentialPolicy: ReferentialRequireProposed}
	assert.False(t, agents.Admit(cfg.Referential()(rel, proposed)))

	cfg.ReferentialPolicy = ReferentialAllowExternal
	assert.True(t, agents.Admit(cfg.Referential()(rel, proposed)))

	cfg.ReferentialPolicy = ""
	assert.True(t, agents.Admit(cfg.Referential()(rel, proposed)), "empty selects the default")
}

func TestRedacted(t *testing.T) {
	cfg := DefaultConfigAt("/tmp/ontograph-test")
	cfg.LLM.APIKey = "gm-key"
	cfg.Graph.Password = "s3cret"

	shown := cfg.Redacted()
	assert.Equal(t, redacted, shown.LLM.APIKey)
	assert.Equal(t, redacted, shown.Graph.Password)
	assert.Empty(t, shown.Embedder.APIKey, "unset secrets stay empty")

	assert.Equal(t, "gm-key", cfg.LLM.APIKey, "original is untouched")
	assert.Equal(t, "s3cret", cfg.Graph.Password)
}

func TestFormatFieldPath(t *testing.T) {
	assert.Equal(t, "pipeline.context_limit", formatFieldPath("Config.pipeline.CriticConfig.context_limit"))
	assert.Equal(t, "llm.rate_limit.max_retries", formatFieldPath("Config.llm.rate_limit.max_retries"))
	assert.Equal(t, "Config", formatFieldPath("Config"))
}

func ptr(s string) *string { return &s }
