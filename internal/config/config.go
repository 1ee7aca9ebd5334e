package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // text or json
}

// HackerNewsConfig controls the upstream API client.
type HackerNewsConfig struct {
	BaseAPI     string `mapstructure:"base_api"`
	Timeout     string `mapstructure:"timeout"`      // duration string, e.g., "10s"
	RateLimit   int    `mapstructure:"rate_limit"`   // requests per second, 0 = unlimited
	Concurrency int    `mapstructure:"concurrency"` // in-flight item fetches per batch, 0 = whole batch
}

// CacheConfig selects the persistent backend and tier lifetimes.
type CacheConfig struct {
	Backend       string `mapstructure:"backend"` // sqlite, redis, memory, none
	Path          string `mapstructure:"path"`    // sqlite database file
	VolatileTTL   string `mapstructure:"volatile_ttl"`
	PersistentTTL string `mapstructure:"persistent_ttl"`
	Capacity      int    `mapstructure:"capacity"` // memory backend key limit
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// FeedConfig controls pagination.
type FeedConfig struct {
	Default   string `mapstructure:"default"`
	BatchSize int    `mapstructure:"batch_size"`
}

// ClassifierConfig points at the keyword set.
type ClassifierConfig struct {
	KeywordsFile  string   `mapstructure:"keywords_file"`  // replaces the embedded set
	ExtraKeywords []string `mapstructure:"extra_keywords"` // appended to whichever set is loaded
}

// ReportConfig configures the false-negative report endpoint.
type ReportConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Timeout  string `mapstructure:"timeout"`
	Message  string `mapstructure:"message"`
}

// OpenAIConfig enables keyword suggestions.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// WarmConfig controls the cache warmer.
type WarmConfig struct {
	Interval string   `mapstructure:"interval"`
	Feeds    []string `mapstructure:"feeds"`
	Depth    int      `mapstructure:"depth"` // ids per feed to resolve
}

// Config is the top-level configuration structure.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	HackerNews HackerNewsConfig `mapstructure:"hackernews"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Feed       FeedConfig       `mapstructure:"feed"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Report     ReportConfig     `mapstructure:"report"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Warm       WarmConfig       `mapstructure:"warm"`
}

// DefaultCachePath is the sqlite cache location under the XDG cache dir.
func DefaultCachePath() string {
	return filepath.Join(xdg.CacheHome, "hn-sans-ai", "cache.db")
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.LogFormat == "" {
		c.App.LogFormat = "text"
	}
	if c.HackerNews.BaseAPI == "" {
		c.HackerNews.BaseAPI = "https://hacker-news.firebaseio.com/v0"
	}
	if c.HackerNews.Timeout == "" {
		c.HackerNews.Timeout = "10s"
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "sqlite"
	}
	if c.Cache.Path == "" {
		c.Cache.Path = DefaultCachePath()
	}
	if c.Cache.VolatileTTL == "" {
		c.Cache.VolatileTTL = "5m"
	}
	if c.Cache.PersistentTTL == "" {
		c.Cache.PersistentTTL = "30m"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "hnsansai:"
	}
	if c.Feed.Default == "" {
		c.Feed.Default = "top"
	}
	if c.Feed.BatchSize <= 0 {
		c.Feed.BatchSize = 50
	}
	if c.Report.Timeout == "" {
		c.Report.Timeout = "10s"
	}
	if c.Report.Message == "" {
		c.Report.Message = "User reported this story as AI-related. Please review and add relevant keywords to the filter."
	}
	if c.Warm.Interval == "" {
		c.Warm.Interval = "10m"
	}
	if len(c.Warm.Feeds) == 0 {
		c.Warm.Feeds = []string{"top"}
	}
	if c.Warm.Depth <= 0 {
		c.Warm.Depth = c.Feed.BatchSize
	}
}

// Duration parses s, falling back to def when s is empty or malformed.
func Duration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
