package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"I18N_LOCALE", "I18N_BASE_PATH", "I18N_YAML_FILE", "I18N_ADD_FILENAME_PREFIX",
		"I18N_EXCLUDE", "WORKER_COUNT", "EXTRACTION_CACHE_SIZE", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, "app/views/", cfg.BasePath)
	assert.Empty(t, cfg.YAMLFile)
	assert.False(t, cfg.AddFilenamePrefix)
	assert.Empty(t, cfg.Excludes)
	assert.Equal(t, 8, cfg.WorkerCount)
	assert.Equal(t, 4096, cfg.CacheSize)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("I18N_LOCALE", "de")
	t.Setenv("I18N_YAML_FILE", "config/locales/de.yml")
	t.Setenv("I18N_ADD_FILENAME_PREFIX", "true")
	t.Setenv("I18N_EXCLUDE", "vendor/**, ,**/_*.haml")
	t.Setenv("WORKER_COUNT", "2")
	t.Setenv("EXTRACTION_CACHE_SIZE", "not-a-number")

	cfg := Load()
	assert.Equal(t, "de", cfg.Locale)
	assert.Equal(t, "config/locales/de.yml", cfg.YAMLFile)
	assert.True(t, cfg.AddFilenamePrefix)
	assert.Equal(t, []string{"vendor/**", "**/_*.haml"}, cfg.Excludes)
	assert.Equal(t, 2, cfg.WorkerCount)
	assert.Equal(t, 4096, cfg.CacheSize)
}
