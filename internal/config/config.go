package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Locale            string
	BasePath          string
	YAMLFile          string
	AddFilenamePrefix bool
	Excludes          []string
	WorkerCount       int
	CacheSize         int
	LogLevel          string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		Locale:            getEnv("I18N_LOCALE", "en"),
		BasePath:          getEnv("I18N_BASE_PATH", "app/views/"),
		YAMLFile:          getEnv("I18N_YAML_FILE", ""),
		AddFilenamePrefix: getEnvBool("I18N_ADD_FILENAME_PREFIX", false),
		Excludes:          getEnvList("I18N_EXCLUDE"),
		WorkerCount:       getEnvInt("WORKER_COUNT", 8),
		CacheSize:         getEnvInt("EXTRACTION_CACHE_SIZE", 4096),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// getEnvList splits a comma-separated variable, dropping empty items.
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
