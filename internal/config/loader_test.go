package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"suppliers", "customers", "inspections", "components"}, cfg.Run.Modules)
	assert.Equal(t, ".", cfg.Run.ModuleRoot)
	assert.Equal(t, 5*time.Minute, cfg.Run.AgentTimeout)
	assert.Equal(t, "file", cfg.Memory.Provider)
	assert.Contains(t, cfg.Memory.Path, "memory.json")
	assert.Equal(t, "log", cfg.Review.Provider)
	assert.Equal(t, "vetgate.review", cfg.Review.NATS.Subject)
	assert.Equal(t, "GITHUB_TOKEN", cfg.Review.GitHub.TokenEnv)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
run:
  modules: [billing, shipping]
  module_root: /srv/app
  agent_timeout: 90s
memory:
  provider: sqlite
review:
  provider: github
  github:
    owner: acme
    repo: platform
logging:
  level: debug
  format: json
agent_commands:
  lint:
    - npx
    - biome
    - check
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"billing", "shipping"}, cfg.Run.Modules)
	assert.Equal(t, "/srv/app", cfg.Run.ModuleRoot)
	assert.Equal(t, 90*time.Second, cfg.Run.AgentTimeout)
	assert.Equal(t, "sqlite", cfg.Memory.Provider)
	assert.Contains(t, cfg.Memory.Path, "memory.db")
	assert.Equal(t, "github", cfg.Review.Provider)
	assert.Equal(t, "acme", cfg.Review.GitHub.Owner)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, []string{"npx", "biome", "check"}, cfg.AgentCommands["lint"])
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
memory:
  provider: file
logging:
  level: info
`)
	t.Setenv("VETGATE_MEMORY_PROVIDER", "sqlite")
	t.Setenv("VETGATE_LOGGING_LEVEL", "warn")
	t.Setenv("VETGATE_RUN_AGENT_TIMEOUT", "30s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Memory.Provider)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 30*time.Second, cfg.Run.AgentTimeout)
}

func TestLoad_RejectsWorldWritableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: info\n"), 0666))
	// WriteFile's mode passes through the umask; chmod so the group/other
	// write bits actually stick.
	require.NoError(t, os.Chmod(path, 0666))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writable by group or others")
}

func TestLoad_RejectsOversizedFile(t *testing.T) {
	padding := "# " + strings.Repeat("x", maxConfigFileSize) + "\n"
	path := writeConfig(t, padding)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "run: [unclosed")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "bad memory provider",
			content: "memory:\n  provider: redis\n",
			wantErr: "memory.provider",
		},
		{
			name:    "bad review provider",
			content: "review:\n  provider: pagerduty\n",
			wantErr: "review.provider",
		},
		{
			name:    "github without repo",
			content: "review:\n  provider: github\n  github:\n    owner: acme\n",
			wantErr: "review.github",
		},
		{
			name:    "nats without url",
			content: "review:\n  provider: nats\n",
			wantErr: "review.nats.url",
		},
		{
			name:    "duplicate module",
			content: "run:\n  modules: [suppliers, suppliers]\n",
			wantErr: "duplicate",
		},
		{
			name:    "bad log level",
			content: "logging:\n  level: verbose\n",
			wantErr: "logging.level",
		},
		{
			name:    "bad log format",
			content: "logging:\n  format: logfmt\n",
			wantErr: "logging.format",
		},
		{
			name:    "negative timeout",
			content: "run:\n  agent_timeout: -5s\n",
			wantErr: "agent_timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
