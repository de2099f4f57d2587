package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Notion API connection
	NotionToken    string
	NotionVersion  string
	NotionBaseURL  string
	NotionPageSize int
	HTTPTimeout    time.Duration

	// Auth
	ServiceAPIKey string

	// Rendering
	OrderedLists bool

	// Export worker pool
	Workers      int
	MaxQueueSize int
	JobTTL       time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		NotionToken:    os.Getenv("NOTION_API_KEY"),
		NotionVersion:  envOr("NOTION_VERSION", "2022-06-28"),
		NotionBaseURL:  envOr("NOTION_BASE_URL", "https://api.notion.com"),
		NotionPageSize: envInt("NOTION_PAGE_SIZE", 100),
		HTTPTimeout:    envDuration("NOTION_HTTP_TIMEOUT", 30*time.Second),

		ServiceAPIKey: os.Getenv("SERVICE_API_KEY"),

		OrderedLists: envBool("ORDERED_LISTS", false),

		Workers:      envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 64),
		JobTTL:       envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.NotionPageSize <= 0 || cfg.NotionPageSize > 100 {
		cfg.NotionPageSize = 100
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 64
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.NotionToken == "" {
		return fmt.Errorf("NOTION_API_KEY is required")
	}
	if c.ServiceAPIKey == "" {
		return fmt.Errorf("SERVICE_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
