// Package config loads pipeline settings from environment variables
// overlaid on defaults, with an optional YAML file overlay.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.mau.fi/util/ptr"
	"gopkg.in/yaml.v3"
)

// ScrapingMode controls how aggressively the pipeline re-fetches data
// already on disk.
type ScrapingMode string

const (
	ModeNormal       ScrapingMode = "normal"
	ModeForceRefresh ScrapingMode = "force_refresh"
	ModeCacheOnly    ScrapingMode = "cache_only"
	ModeIncremental  ScrapingMode = "incremental"
)

// HTTPConfig holds the API_BASE_URL/REQUEST_*/MAX_RETRIES/USER_AGENT
// settings.
type HTTPConfig struct {
	BaseURL             string
	RequestTimeout      time.Duration
	RequestDelay        time.Duration
	MaxRetries          int
	UserAgent           string
	ConcurrentDownloads int
}

// CacheConfig holds the CACHE_* settings.
type CacheConfig struct {
	MemoryTTL        time.Duration
	FileTTL          time.Duration
	MaxMemoryEntries int
	EnableCleanup    *bool
	Dir              string
}

// LogConfig holds the LOG_* settings.
type LogConfig struct {
	Level         string
	ToFile        bool
	Dir           string
	MaxFileSizeMB int
	BackupCount   int
}

// ProviderConfig is the per-AI-provider slice of configuration.
type ProviderConfig struct {
	APIKey         string
	Model          string
	CallsPerMinute int
	Enabled        *bool
}

// AIConfig holds the AI provider settings.
type AIConfig struct {
	Primary    string
	CacheDir   string
	MaxRetries int
	Providers  map[string]ProviderConfig
}

// DetectionConfig holds the tunable detection thresholds: fuzzy-match
// and dedup-Jaccard thresholds, plus the fragment window sizes.
type DetectionConfig struct {
	FuzzyMatchThreshold   float64
	DedupJaccardThreshold float64
	DedupFirst5Threshold  float64
	GroupingDistanceWords int
	ContextBeforeWords    int
	ContextAfterWords     int
	MinConfidence         float64
	TooShortWordCount     int
	EnableOverlapMerge    bool
	EnableDiversityCap    bool
	TargetFragmentCount   int
}

// Config is the root configuration object.
type Config struct {
	HTTP                HTTPConfig
	Cache               CacheConfig
	Log                 LogConfig
	AI                  AIConfig
	Detection           DetectionConfig
	Mode                ScrapingMode
	FetchFullStatements bool
	DefaultTerm         int
	DataDir             string
	KeywordsFile        string // optional external keyword config (JSON)
	RosterFile          string // optional pre-built roster (JSON)
}

// Default returns the baseline configuration before env/file overlays.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			BaseURL:             "https://api.sejm.gov.pl",
			RequestTimeout:      30 * time.Second,
			RequestDelay:        200 * time.Millisecond,
			MaxRetries:          3,
			UserAgent:           "sejmbot-detektor/1.0",
			ConcurrentDownloads: 3,
		},
		Cache: CacheConfig{
			// Default TTL band for endpoints without a pattern-specific TTL;
			// members/transcripts/sittings carry their own longer TTLs.
			MemoryTTL:        30 * time.Minute,
			FileTTL:          24 * time.Hour,
			MaxMemoryEntries: 10_000,
			EnableCleanup:    ptr.Ptr(true),
			Dir:              "cache",
		},
		Log: LogConfig{
			Level:         "info",
			ToFile:        false,
			Dir:           "logs",
			MaxFileSizeMB: 10,
			BackupCount:   3,
		},
		AI: AIConfig{
			Primary:    "free_remote",
			CacheDir:   "cache/ai",
			MaxRetries: 2,
			Providers: map[string]ProviderConfig{
				"local":       {Model: "llama3", CallsPerMinute: 60, Enabled: ptr.Ptr(true)},
				"free_remote": {Model: "gemini-flash", CallsPerMinute: 40, Enabled: ptr.Ptr(true)},
				"paid_a":      {Model: "gpt-4o-mini", CallsPerMinute: 50, Enabled: ptr.Ptr(false)},
				"paid_b":      {Model: "claude-haiku-4-5", CallsPerMinute: 50, Enabled: ptr.Ptr(false)},
			},
		},
		Detection: DetectionConfig{
			FuzzyMatchThreshold:   0.8,
			DedupJaccardThreshold: 0.85,
			DedupFirst5Threshold:  0.8,
			GroupingDistanceWords: 50,
			ContextBeforeWords:    49,
			ContextAfterWords:     100,
			MinConfidence:         0.3,
			TooShortWordCount:     15,
			EnableOverlapMerge:    true,
			EnableDiversityCap:    true,
			TargetFragmentCount:   50,
		},
		Mode:                ModeNormal,
		FetchFullStatements: true,
		DefaultTerm:         10,
		DataDir:             "data",
	}
}

// fileOverlay is the subset of Config expressible as YAML, mirroring env
// var names with lowercase/underscore keys.
type fileOverlay struct {
	HTTP struct {
		BaseURL    string `yaml:"base_url"`
		TimeoutSec int    `yaml:"timeout_seconds"`
		DelayMs    int    `yaml:"delay_ms"`
		MaxRetries int    `yaml:"max_retries"`
		UserAgent  string `yaml:"user_agent"`
	} `yaml:"http"`
	DefaultTerm  int    `yaml:"default_term"`
	DataDir      string `yaml:"data_dir"`
	Mode         string `yaml:"scraping_mode"`
	KeywordsFile string `yaml:"keywords_file"`
	RosterFile   string `yaml:"roster_file"`
}

// LoadFromFile overlays a YAML config file onto cfg. A missing file is
// not an error; only out-of-range validated values are fatal.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	var overlay fileOverlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if overlay.HTTP.BaseURL != "" {
		c.HTTP.BaseURL = overlay.HTTP.BaseURL
	}
	if overlay.HTTP.TimeoutSec > 0 {
		c.HTTP.RequestTimeout = time.Duration(overlay.HTTP.TimeoutSec) * time.Second
	}
	if overlay.HTTP.DelayMs > 0 {
		c.HTTP.RequestDelay = time.Duration(overlay.HTTP.DelayMs) * time.Millisecond
	}
	if overlay.HTTP.MaxRetries > 0 {
		c.HTTP.MaxRetries = overlay.HTTP.MaxRetries
	}
	if overlay.HTTP.UserAgent != "" {
		c.HTTP.UserAgent = overlay.HTTP.UserAgent
	}
	if overlay.DefaultTerm > 0 {
		c.DefaultTerm = overlay.DefaultTerm
	}
	if overlay.DataDir != "" {
		c.DataDir = overlay.DataDir
	}
	if overlay.Mode != "" {
		c.Mode = ScrapingMode(overlay.Mode)
	}
	if overlay.KeywordsFile != "" {
		c.KeywordsFile = overlay.KeywordsFile
	}
	if overlay.RosterFile != "" {
		c.RosterFile = overlay.RosterFile
	}
	return nil
}

// LoadFromEnv overlays process environment variables onto cfg.
func (c *Config) LoadFromEnv() {
	str(&c.HTTP.BaseURL, "API_BASE_URL")
	dur(&c.HTTP.RequestTimeout, "REQUEST_TIMEOUT", time.Second)
	dur(&c.HTTP.RequestDelay, "REQUEST_DELAY", time.Second)
	intv(&c.HTTP.MaxRetries, "MAX_RETRIES")
	str(&c.HTTP.UserAgent, "USER_AGENT")
	intv(&c.HTTP.ConcurrentDownloads, "CONCURRENT_DOWNLOADS")

	durHours(&c.Cache.MemoryTTL, "CACHE_MEMORY_TTL_HOURS")
	durHours(&c.Cache.FileTTL, "CACHE_FILE_TTL_HOURS")
	intv(&c.Cache.MaxMemoryEntries, "CACHE_MAX_MEMORY_ENTRIES")
	if v, ok := os.LookupEnv("CACHE_ENABLE_CLEANUP"); ok {
		c.Cache.EnableCleanup = ptr.Ptr(parseBool(v))
	}

	str(&c.Log.Level, "LOG_LEVEL")
	if v, ok := os.LookupEnv("LOG_TO_FILE"); ok {
		c.Log.ToFile = parseBool(v)
	}
	str(&c.Log.Dir, "LOG_DIR")
	intv(&c.Log.MaxFileSizeMB, "LOG_MAX_FILE_SIZE_MB")
	intv(&c.Log.BackupCount, "LOG_BACKUP_COUNT")

	if v, ok := os.LookupEnv("SCRAPING_MODE"); ok && v != "" {
		c.Mode = ScrapingMode(v)
	}
	if v, ok := os.LookupEnv("FETCH_FULL_STATEMENTS"); ok {
		c.FetchFullStatements = parseBool(v)
	}
	intv(&c.DefaultTerm, "DEFAULT_TERM")
	str(&c.KeywordsFile, "KEYWORDS_FILE")
	str(&c.RosterFile, "ROSTER_FILE")

	str(&c.AI.Primary, "PRIMARY_AI_API")
	str(&c.AI.CacheDir, "AI_CACHE_DIR")
	intv(&c.AI.MaxRetries, "AI_MAX_RETRIES")
	for name, pc := range c.AI.Providers {
		prefix := strings.ToUpper(name)
		if v, ok := os.LookupEnv(prefix + "_API_KEY"); ok {
			pc.APIKey = v
		}
		if v, ok := os.LookupEnv(prefix + "_MODEL"); ok && v != "" {
			pc.Model = v
		}
		c.AI.Providers[name] = pc
	}
}

// Validate checks numeric bounds and creates the data directories.
// Validation errors are the only fatal error kind in this system;
// callers should abort startup on them.
func (c *Config) Validate() error {
	if c.DefaultTerm < 1 || c.DefaultTerm > 20 {
		return fmt.Errorf("default term %d out of range [1,20]", c.DefaultTerm)
	}
	if c.HTTP.MaxRetries < 0 || c.HTTP.MaxRetries > 10 {
		return fmt.Errorf("max retries %d out of range [0,10]", c.HTTP.MaxRetries)
	}
	if c.HTTP.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.Cache.MaxMemoryEntries <= 0 {
		return fmt.Errorf("cache max memory entries must be positive")
	}
	if c.Detection.FuzzyMatchThreshold <= 0 || c.Detection.FuzzyMatchThreshold > 1 {
		return fmt.Errorf("fuzzy match threshold must be in (0,1]")
	}
	if c.Detection.DedupJaccardThreshold <= 0 || c.Detection.DedupJaccardThreshold > 1 {
		return fmt.Errorf("dedup jaccard threshold must be in (0,1]")
	}
	for _, dir := range []string{c.DataDir, filepath.Join(c.DataDir, c.Cache.Dir), filepath.Join(c.DataDir, c.AI.CacheDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func str(dst *string, env string) {
	if v, ok := os.LookupEnv(env); ok && v != "" {
		*dst = v
	}
}

func intv(dst *int, env string) {
	if v, ok := os.LookupEnv(env); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func dur(dst *time.Duration, env string, unit time.Duration) {
	if v, ok := os.LookupEnv(env); ok {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = time.Duration(n * float64(unit))
		}
	}
}

func durHours(dst *time.Duration, env string) {
	if v, ok := os.LookupEnv(env); ok {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = time.Duration(n * float64(time.Hour))
		}
	}
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return strings.EqualFold(v, "yes") || strings.EqualFold(v, "on")
	}
	return b
}
