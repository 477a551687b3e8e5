package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manideep667320/Email-Spam-detection/internal/config"
	"github.com/Manideep667320/Email-Spam-detection/internal/training"
)

func TestDefaults(t *testing.T) {
	cfg := config.NewFromViper(config.NewEmptyViper())

	assert.Equal(t, "models/perceptron_model.json", cfg.GetModel().ArtifactPath)
	assert.Equal(t, "results.json", cfg.GetModel().MetricsPath)
	assert.Equal(t, training.DefaultOptions(), cfg.GetTraining().Options)
	assert.Equal(t, "127.0.0.1:5000", cfg.GetHTTP().ListenAddress)
	assert.Equal(t, "X-Spam-Confidence", cfg.GetServer().ConfidenceHeader)

	cache, err := cfg.GetCache()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cache.TTL)
	assert.Equal(t, "memory", cache.Type)
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
model:
  artifact_path: /srv/model.json
training:
  min_df: 1
  workers: 2
spam:
  whitelisted_domains: [trusted.org]
cache:
  ttl: 5m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.NewFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/model.json", cfg.GetModel().ArtifactPath)
	assert.Equal(t, 1, cfg.GetTraining().Options.Vectorizer.MinDF)
	assert.Equal(t, 2, cfg.GetTraining().Workers)
	assert.Equal(t, []string{"trusted.org"}, cfg.GetWhitelistedDomains())

	cache, err := cfg.GetCache()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cache.TTL)
}

func TestNewFromFile_Missing(t *testing.T) {
	_, err := config.NewFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("SPAM_FILTER_HTTP_LISTEN_ADDRESS", "0.0.0.0:8080")
	cfg, err := config.NewFromFile(writeEmpty(t))
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.GetHTTP().ListenAddress)
}

func TestGetCache_InvalidDuration(t *testing.T) {
	cfg := config.NewFromViper(config.NewEmptyViper())
	cfg.Set("cache.ttl", "soon")
	_, err := cfg.GetCache()
	assert.Error(t, err)
}

func writeEmpty(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: info\n"), 0o644))
	return path
}
