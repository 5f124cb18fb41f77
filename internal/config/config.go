package config

import (
	"log"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone   = "UTC"
	defaultListingURL = "https://arxiv.org/list/cs/new"
	defaultCapacity   = 3
	defaultHour       = 9
	configPathEnv     = "PREPRINT_SCANNER_CONFIG"
	databasePathEnv   = "DATABASE_PATH"
	listingURLEnv     = "LISTING_URL"
	capacityEnv       = "SELECTION_CAPACITY"
	logLevelEnv       = "LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Source    SourceConfig    `yaml:"source"`
	Selection SelectionConfig `yaml:"selection"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DatabaseConfig points at the SQLite file holding persisted articles.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SourceConfig describes the listing page and how to reach it.
type SourceConfig struct {
	Scanner    string        `yaml:"scanner"`
	ListingURL string        `yaml:"listingUrl"`
	Origin     string        `yaml:"origin"`
	UserAgent  string        `yaml:"userAgent"`
	Timeout    time.Duration `yaml:"timeout"`
}

// SelectionConfig bounds how many articles a run keeps.
type SelectionConfig struct {
	Capacity int `yaml:"capacity"`
}

// SchedulerConfig defines when the pipeline should run.
type SchedulerConfig struct {
	Hour       *int           `yaml:"hour"`
	Timezone   string         `yaml:"timezone"`
	RunOnStart *bool          `yaml:"runOnStart"`
	location   *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// RunHour returns the hour of day (0-23) at which the daily run fires.
func (s SchedulerConfig) RunHour() int {
	if s.Hour == nil {
		return defaultHour
	}
	return *s.Hour
}

// ShouldRunOnStart reports whether a run happens before the first scheduled slot.
func (s SchedulerConfig) ShouldRunOnStart() bool {
	return s.RunOnStart == nil || *s.RunOnStart
}

// LoggingConfig selects the slog level and handler format (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads YAML configuration from PREPRINT_SCANNER_CONFIG (if set) and
// applies environment overrides.
func Load() Config {
	return LoadFile(os.Getenv(configPathEnv))
}

// LoadFile reads YAML configuration from path (if non-empty) and applies
// environment overrides. Unreadable files fall back to defaults.
func LoadFile(path string) Config {
	cfg := defaultConfig()

	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.validate()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}

	if v := os.Getenv(listingURLEnv); v != "" {
		c.Source.ListingURL = v
	}

	if v := os.Getenv(capacityEnv); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("config: %s=%q is not an integer, ignoring", capacityEnv, v)
		} else {
			c.Selection.Capacity = n
		}
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) validate() {
	defaults := defaultConfig()

	if c.Selection.Capacity < 0 {
		log.Printf("config: negative capacity %d, reverting to %d", c.Selection.Capacity, defaults.Selection.Capacity)
		c.Selection.Capacity = defaults.Selection.Capacity
	}
	if h := c.Scheduler.RunHour(); h < 0 || h > 23 {
		log.Printf("config: scheduler hour %d out of range, reverting to %d", h, defaultHour)
		c.Scheduler.Hour = nil
	}
	if c.Source.Timeout <= 0 {
		c.Source.Timeout = defaults.Source.Timeout
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Database.Path != "" {
		base.Database = override.Database
	}

	if override.Source.Scanner != "" {
		base.Source.Scanner = override.Source.Scanner
	}
	if override.Source.ListingURL != "" {
		base.Source.ListingURL = override.Source.ListingURL
	}
	if override.Source.Origin != "" {
		base.Source.Origin = override.Source.Origin
	}
	if override.Source.UserAgent != "" {
		base.Source.UserAgent = override.Source.UserAgent
	}
	if override.Source.Timeout != 0 {
		base.Source.Timeout = override.Source.Timeout
	}

	if override.Selection.Capacity != 0 {
		base.Selection.Capacity = override.Selection.Capacity
	}

	if override.Scheduler.Hour != nil {
		base.Scheduler.Hour = override.Scheduler.Hour
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}
	if override.Scheduler.RunOnStart != nil {
		base.Scheduler.RunOnStart = override.Scheduler.RunOnStart
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Database: DatabaseConfig{Path: "articles.db"},
		Source: SourceConfig{
			Scanner:    "arxiv",
			ListingURL: defaultListingURL,
			Origin:     "https://arxiv.org",
			UserAgent:  "PreprintScanner/1.0",
			Timeout:    20 * time.Second,
		},
		Selection: SelectionConfig{Capacity: defaultCapacity},
		Scheduler: SchedulerConfig{Timezone: defaultTimezone, location: tz},
		Logging:   LoggingConfig{Level: "info", Format: "text"},
	}
}
