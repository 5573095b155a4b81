package config

// #region imports
import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// #endregion

// #region config-struct

// Config holds process configuration. Values come from the environment
// (a .env file is loaded when present) plus an optional feeds.yaml that
// extends the built-in RSS feed map.
type Config struct {
	DBPath string

	// External classification/generation service.
	APIKey string
	Model  string

	// Digest delivery via Resend.
	ResendAPIKey    string
	DigestEmailTo   string
	DigestEmailFrom string

	// Dashboard bind address.
	DashboardAddr string

	// Watch-mode schedules (cron expressions).
	CrawlSchedule  string
	DigestSchedule string

	// Extra RSS feeds merged over the defaults, name -> URL.
	Feeds map[string]string

	// Cap on summarizer page fetches per run.
	SummarizeLimit int
}

// #endregion config-struct

// #region load

// Load reads configuration from the environment. A missing .env file is
// fine; a feeds file that exists but does not parse is not.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DBPath:          envOr("NEWS_DB", "news.db"),
		APIKey:          os.Getenv("ANTHROPIC_API_KEY"),
		Model:           envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
		ResendAPIKey:    os.Getenv("RESEND_API_KEY"),
		DigestEmailTo:   os.Getenv("DIGEST_EMAIL_TO"),
		DigestEmailFrom: envOr("DIGEST_EMAIL_FROM", "news@example.com"),
		DashboardAddr:   envOr("DASHBOARD_ADDR", ":8501"),
		CrawlSchedule:   envOr("CRAWL_SCHEDULE", "@every 6h"),
		DigestSchedule:  envOr("DIGEST_SCHEDULE", "0 8 * * *"),
		SummarizeLimit:  envIntOr("SUMMARIZE_LIMIT", 20),
		Feeds:           map[string]string{},
	}

	explicit := os.Getenv("FEEDS_FILE") != ""
	feeds, err := loadFeeds(envOr("FEEDS_FILE", "feeds.yaml"), !explicit)
	if err != nil {
		return Config{}, err
	}
	cfg.Feeds = feeds

	return cfg, nil
}

// #endregion load

// #region feeds-file

type feedsFile struct {
	Feeds map[string]string `yaml:"feeds"`
}

// loadFeeds parses a feeds.yaml. When the path is the implicit default its
// absence is fine; an explicitly configured file must exist.
func loadFeeds(path string, optional bool) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && optional {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read feeds file %s: %w", path, err)
	}
	var f feedsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse feeds file %s: %w", path, err)
	}
	if f.Feeds == nil {
		f.Feeds = map[string]string{}
	}
	return f.Feeds, nil
}

// #endregion feeds-file

// #region env-helpers

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// #endregion env-helpers
