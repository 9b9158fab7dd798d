package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv(EnvConfigFile, "")
	t.Setenv(EnvHost, "")
	t.Setenv(EnvPort, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvMaxMounts, "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "127.0.0.1:8080", cfg.Address())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 1024, cfg.Widgets.MaxMounts)
}

func TestLoadConfig_YAMLFileThenEnv(t *testing.T) {
	path := writeFile(t, "sevenguis.yaml", `
server:
  host: 0.0.0.0
  port: 9000
  read_timeout: 2s
logging:
  level: debug
widgets:
  max_mounts: 16
`)
	t.Setenv(EnvConfigFile, path)
	t.Setenv(EnvHost, "")
	t.Setenv(EnvPort, "9100")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvMaxMounts, "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 16, cfg.Widgets.MaxMounts)
}

func TestConfig_LoadFileTOML(t *testing.T) {
	path := writeFile(t, "sevenguis.toml", `
[server]
port = 7070

[widgets]
max_mounts = 3
`)
	cfg := Default()
	require.NoError(t, cfg.LoadFile(path))

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Widgets.MaxMounts)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
}

func TestConfig_LoadFileErrors(t *testing.T) {
	cfg := Default()

	assert.Error(t, cfg.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, cfg.LoadFile(writeFile(t, "config.json", "{}")))
	assert.Error(t, cfg.LoadFile(writeFile(t, "bad.yaml", "server: [")))
}

func TestLoadConfig_InvalidEnv(t *testing.T) {
	t.Setenv(EnvConfigFile, "")
	t.Setenv(EnvPort, "eighty")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{name: "port zero", modify: func(c *Config) { c.Server.Port = 0 }},
		{name: "port too large", modify: func(c *Config) { c.Server.Port = 70000 }},
		{name: "zero read timeout", modify: func(c *Config) { c.Server.ReadTimeout = 0 }},
		{name: "zero shutdown timeout", modify: func(c *Config) { c.Server.ShutdownTimeout = 0 }},
		{name: "unknown log level", modify: func(c *Config) { c.Logging.Level = "loud" }},
		{name: "no mounts", modify: func(c *Config) { c.Widgets.MaxMounts = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_Address(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{host: "127.0.0.1", want: "127.0.0.1:8080"},
		{host: "", want: ":8080"},
		{host: "::", want: "[::]:8080"},
		{host: "::1", want: "[::1]:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			cfg := Default()
			cfg.Server.Host = tt.host
			assert.Equal(t, tt.want, cfg.Address())
		})
	}
}
