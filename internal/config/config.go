package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Index backends.
const (
	BackendRemote = "remote"
	BackendLocal  = "local"
)

// Embedding providers for the local backend.
const (
	EmbeddingsLlama  = "llama"
	EmbeddingsOpenAI = "openai"
)

// Config holds all configuration for the application.
type Config struct {
	BookmarksPath string `yaml:"bookmarks_path"`
	IndexBackend  string `yaml:"index_backend"`

	TrieveBaseURL   string  `yaml:"trieve_base_url"`
	TrieveAPIKey    string  `yaml:"trieve_api_key"`
	TrieveDatasetID string  `yaml:"trieve_dataset_id"`
	TrieveRPS       float64 `yaml:"trieve_rps"`

	QdrantURL        string `yaml:"qdrant_url"`
	QdrantCollection string `yaml:"qdrant_collection"`
	QdrantVectorSize int    `yaml:"qdrant_vector_size"`

	EmbeddingsProvider string `yaml:"embeddings_provider"`
	EmbeddingsBaseURL  string `yaml:"embeddings_base_url"`
	EmbeddingsAPIKey   string `yaml:"embeddings_api_key"`
	EmbeddingsModel    string `yaml:"embeddings_model"`

	DBPath  string `yaml:"db_path"`
	APIPort string `yaml:"api_port"`

	SyncInterval    time.Duration `yaml:"sync_interval"`
	SyncConcurrency int           `yaml:"sync_concurrency"`
	ExcludePatterns []string      `yaml:"exclude_patterns"`
	WatchBookmarks  bool          `yaml:"watch_bookmarks"`

	ScoreThreshold float64 `yaml:"score_threshold"`
	PageSize       int     `yaml:"page_size"`

	LogLevel  slog.Level `yaml:"-"`
	LogFormat string     `yaml:"log_format"`
	// RawLogLevel is the level name as written in the file.
	RawLogLevel string `yaml:"log_level"`
}

// defaults returns the configuration used when neither file nor environment
// sets a value.
func defaults() Config {
	return Config{
		IndexBackend:       BackendRemote,
		TrieveBaseURL:      "https://api.trieve.ai/api",
		TrieveRPS:          10,
		QdrantURL:          "http://localhost:6333",
		QdrantCollection:   "bookmarks",
		EmbeddingsProvider: EmbeddingsLlama,
		EmbeddingsBaseURL:  "http://localhost:8081",
		EmbeddingsModel:    "granite-embedding-278m-multilingual",
		DBPath:             "./data/librarian.db",
		APIPort:            "9000",
		SyncInterval:       60 * time.Minute,
		SyncConcurrency:    8,
		WatchBookmarks:     true,
		ScoreThreshold:     0.05,
		PageSize:           100,
		RawLogLevel:        "info",
		LogFormat:          "text",
	}
}

// Load reads configuration and returns a validated Config.
//
// Sources, lowest precedence first: built-in defaults, the YAML file at
// configPath (or LIBRARIAN_CONFIG when configPath is empty), then environment
// variables. A .env file in the current directory or a parent is loaded into
// the environment first; variables already set take precedence over it.
func Load(configPath string) (*Config, error) {
	loadDotEnv()

	cfg := defaults()

	if configPath == "" {
		configPath = os.Getenv("LIBRARIAN_CONFIG")
	}
	if configPath != "" {
		if err := loadFile(configPath, &cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Create the data directory for the SQLite file
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &cfg, nil
}

// loadDotEnv loads .env from the current directory, then walks up a few
// levels looking for one. Missing files are ignored.
func loadDotEnv() {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ { // Limit search depth
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return // Reached filesystem root
		}
		dir = parent
	}
}

// loadFile overlays the YAML file at path onto cfg.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides cfg with any environment variables that are set.
func applyEnv(cfg *Config) error {
	setString(&cfg.BookmarksPath, "BOOKMARKS_PATH")
	setString(&cfg.IndexBackend, "INDEX_BACKEND")
	setString(&cfg.TrieveBaseURL, "TRIEVE_BASE_URL")
	setString(&cfg.TrieveAPIKey, "TRIEVE_API_KEY")
	setString(&cfg.TrieveDatasetID, "TRIEVE_DATASET_ID")
	setString(&cfg.QdrantURL, "QDRANT_URL")
	setString(&cfg.QdrantCollection, "QDRANT_COLLECTION")
	setString(&cfg.EmbeddingsProvider, "EMBEDDINGS_PROVIDER")
	setString(&cfg.EmbeddingsBaseURL, "EMBEDDINGS_BASE_URL")
	setString(&cfg.EmbeddingsAPIKey, "EMBEDDINGS_API_KEY")
	setString(&cfg.EmbeddingsModel, "EMBEDDINGS_MODEL")
	setString(&cfg.DBPath, "DB_PATH")
	setString(&cfg.APIPort, "API_PORT")
	setString(&cfg.RawLogLevel, "LOG_LEVEL")
	setString(&cfg.LogFormat, "LOG_FORMAT")

	if v := os.Getenv("EXCLUDE_PATTERNS"); v != "" {
		cfg.ExcludePatterns = splitList(v)
	}

	var errs []error
	if v := os.Getenv("TRIEVE_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("TRIEVE_RPS must be a number: %w", err))
		}
		cfg.TrieveRPS = f
	}
	if v := os.Getenv("QDRANT_VECTOR_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("QDRANT_VECTOR_SIZE must be a valid integer: %w", err))
		}
		cfg.QdrantVectorSize = n
	}
	if v := os.Getenv("SYNC_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("SYNC_INTERVAL must be a duration: %w", err))
		}
		cfg.SyncInterval = d
	}
	if v := os.Getenv("SYNC_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("SYNC_CONCURRENCY must be a valid integer: %w", err))
		}
		cfg.SyncConcurrency = n
	}
	if v := os.Getenv("WATCH_BOOKMARKS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("WATCH_BOOKMARKS must be a boolean: %w", err))
		}
		cfg.WatchBookmarks = b
	}
	if v := os.Getenv("SCORE_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("SCORE_THRESHOLD must be a number: %w", err))
		}
		cfg.ScoreThreshold = f
	}
	if v := os.Getenv("PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("PAGE_SIZE must be a valid integer: %w", err))
		}
		cfg.PageSize = n
	}
	return errors.Join(errs...)
}

// Validate checks required fields and value ranges, and resolves LogLevel.
func (c *Config) Validate() error {
	if c.BookmarksPath == "" {
		return fmt.Errorf("BOOKMARKS_PATH is required")
	}

	c.IndexBackend = strings.ToLower(strings.TrimSpace(c.IndexBackend))
	switch c.IndexBackend {
	case BackendRemote:
		if c.TrieveAPIKey == "" {
			return fmt.Errorf("TRIEVE_API_KEY is required for the remote backend")
		}
		if c.TrieveDatasetID == "" {
			return fmt.Errorf("TRIEVE_DATASET_ID is required for the remote backend")
		}
		if c.TrieveRPS < 0 {
			return fmt.Errorf("TRIEVE_RPS must not be negative")
		}
	case BackendLocal:
		if c.QdrantVectorSize <= 0 {
			return fmt.Errorf("QDRANT_VECTOR_SIZE is required and must be greater than 0 for the local backend")
		}
		c.EmbeddingsProvider = strings.ToLower(strings.TrimSpace(c.EmbeddingsProvider))
		switch c.EmbeddingsProvider {
		case EmbeddingsLlama:
		case EmbeddingsOpenAI:
			if c.EmbeddingsAPIKey == "" {
				return fmt.Errorf("EMBEDDINGS_API_KEY is required for the openai embeddings provider")
			}
		default:
			return fmt.Errorf("EMBEDDINGS_PROVIDER must be %q or %q, got %q", EmbeddingsLlama, EmbeddingsOpenAI, c.EmbeddingsProvider)
		}
	default:
		return fmt.Errorf("INDEX_BACKEND must be %q or %q, got %q", BackendRemote, BackendLocal, c.IndexBackend)
	}

	if c.SyncInterval <= 0 {
		return fmt.Errorf("SYNC_INTERVAL must be positive")
	}
	if c.SyncConcurrency <= 0 {
		return fmt.Errorf("SYNC_CONCURRENCY must be greater than 0")
	}
	if c.ScoreThreshold < 0 {
		return fmt.Errorf("SCORE_THRESHOLD must not be negative")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be greater than 0")
	}

	level, err := parseLogLevel(c.RawLogLevel)
	if err != nil {
		return err
	}
	c.LogLevel = level

	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be \"text\" or \"json\", got %q", c.LogFormat)
	}
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error: %w", err)
	}
	return level, nil
}

// setString overwrites *dst when the environment variable is set.
func setString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
