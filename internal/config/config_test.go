package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
api_url: https://norma.example/api
timeout: 3s
log_level: debug
credentials:
  driver: memory
sandbox:
  port: 9000
  access_ttl: 5m
metrics:
  enabled: true
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://norma.example/api", c.APIURL)
	assert.Equal(t, 3*time.Second, c.Timeout)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "memory", c.Credentials.Driver)
	assert.Equal(t, 9000, c.Sandbox.Port)
	assert.Equal(t, 5*time.Minute, c.Sandbox.AccessTTL)
	assert.Equal(t, "/metrics", c.Metrics.Path, "unset keys keep defaults")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvAPIURL, "http://override:1/api")
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvCredentialsDSN, "/tmp/creds.db")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://override:1/api", c.APIURL)
	assert.Equal(t, "error", c.LogLevel)
	assert.Equal(t, "/tmp/creds.db", c.Credentials.DSN)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":    "api_url: [",
		"no scheme":   "api_url: localhost",
		"feed scheme": "feed_url: http://localhost/ws",
		"driver":      "credentials:\n  driver: redis",
		"timeout":     "timeout: 0s",
		"port":        "sandbox:\n  port: 70000",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestValidateSQLNeedsDSN(t *testing.T) {
	c := Default()
	c.Credentials.Driver = "postgres"
	c.Credentials.DSN = ""
	assert.Error(t, c.Validate())
}
