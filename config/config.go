package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const keyEnv = "ENV"
const envLocal = "local"

const (
	BackendBleve    = "bleve"
	BackendPostgres = "postgres"
)

const (
	defaultPort              = "8080"
	defaultSearchLimit       = 100
	defaultSearchTimeout     = 10 * time.Second
	defaultSearchWorkers     = 8
	defaultMorphCacheEntries = 100_000
	defaultMaxFileSize       = 20 * 1024 * 1024
	defaultLogMaxSizeMB      = 10
	defaultLogMaxBackups     = 3
)

var defaultAllowedFileTypes = []string{"txt", "md"}

type Config struct {
	config *viper.Viper
}

func Load(env string) (*Config, error) {

	if len(env) == 0 {
		if env = os.Getenv(keyEnv); len(env) == 0 {
			env = envLocal
		}
	}

	configPath, err := getConfigPath(env)

	viperConfig := viper.New()
	if err == nil {
		viperConfig.SetConfigFile(configPath)
		if err := viperConfig.ReadInConfig(); err != nil {
			slog.Warn(fmt.Sprintf("error reading config file, %s", err))
		}
	}
	viperConfig.AutomaticEnv()

	cfg := &Config{
		config: viperConfig,
	}

	return cfg, nil
}

// Set overrides a yaml key at runtime. Used by the CLI flags and tests.
func (c *Config) Set(key string, value any) {
	c.config.Set(key, value)
}

func (c *Config) GetPort() string {
	return c.getString("PORT", "server.port", defaultPort)
}

func (c *Config) GetKVDBPath() string {
	return c.getString("KVDB_PATH", "database.kvdb_path", "")
}

func (c *Config) GetIndexPath() string {
	return c.getString("INDEX_PATH", "database.index_path", "")
}

func (c *Config) GetStoragePath() string {
	return c.getString("STORAGE_PATH", "database.storage_path", "")
}

func (c *Config) GetSearchBackend() string {
	return strings.ToLower(c.getString("SEARCH_BACKEND", "search.backend", BackendBleve))
}

func (c *Config) GetPostgresDSN() string {
	return c.getString("POSTGRES_DSN", "search.postgres_dsn", "")
}

func (c *Config) GetSearchLimit() int {
	return c.getInt("SEARCH_LIMIT", "search.limit", defaultSearchLimit)
}

func (c *Config) GetSearchTimeout() time.Duration {
	timeout := c.config.GetDuration("SEARCH_TIMEOUT")
	if timeout <= 0 {
		timeout = c.config.GetDuration("search.timeout")
	}
	if timeout <= 0 {
		timeout = defaultSearchTimeout
	}

	return timeout
}

func (c *Config) GetSearchWorkers() int {
	return c.getInt("SEARCH_WORKERS", "search.workers", defaultSearchWorkers)
}

func (c *Config) GetMorphCacheEntries() int {
	return c.getInt("MORPH_CACHE_ENTRIES", "morph.cache_entries", defaultMorphCacheEntries)
}

func (c *Config) GetMaxFileSize() int64 {
	return int64(c.getInt("MAX_FILE_SIZE", "upload.max_file_size", defaultMaxFileSize))
}

func (c *Config) GetAllowedFileTypes() []string {
	if fileTypes := c.config.GetString("ALLOWED_FILE_TYPES"); len(fileTypes) > 0 {
		return strings.Split(fileTypes, ",")
	}
	if fileTypes := c.config.GetStringSlice("upload.allowed_file_types"); len(fileTypes) > 0 {
		return fileTypes
	}

	return defaultAllowedFileTypes
}

func (c *Config) GetLogLevel() string {
	return c.getString("LOG_LEVEL", "logging.level", "info")
}

func (c *Config) GetLogFile() string {
	return c.getString("LOG_FILE", "logging.file", "")
}

func (c *Config) GetLogMaxSizeMB() int {
	return c.getInt("LOG_MAX_SIZE_MB", "logging.max_size_mb", defaultLogMaxSizeMB)
}

func (c *Config) GetLogMaxBackups() int {
	return c.getInt("LOG_MAX_BACKUPS", "logging.max_backups", defaultLogMaxBackups)
}

// getString prefers the environment variable, then the yaml key, then the default.
func (c *Config) getString(envKey string, yamlKey string, defaultValue string) string {
	value := c.config.GetString(envKey)
	if len(value) == 0 {
		value = c.config.GetString(yamlKey)
	}
	if len(value) == 0 {
		value = defaultValue
	}

	return value
}

func (c *Config) getInt(envKey string, yamlKey string, defaultValue int) int {
	value := c.config.GetInt(envKey)
	if value <= 0 {
		value = c.config.GetInt(yamlKey)
	}
	if value <= 0 {
		value = defaultValue
	}

	return value
}

func getProjectRoot() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	for {
		configDir := filepath.Join(currentDir, "config")
		if info, err := os.Stat(configDir); err == nil && info.IsDir() {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)

		if parent == currentDir {
			break
		}

		currentDir = parent
	}

	return "", fmt.Errorf("could not find project root (directory containing 'config' folder)")
}

func getConfigPath(env string) (string, error) {
	configFile := fmt.Sprintf("config.%s.yaml", env)

	projectRoot, err := getProjectRoot()
	if err != nil {
		slog.Warn("failed to find project root with config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("failed to find project root: %w", err)
	}
	configPath := filepath.Join(projectRoot, "config", configFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		slog.Warn("failed to find config file within config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("config file does not exist: %s", configPath)
	}

	return configPath, nil
}
