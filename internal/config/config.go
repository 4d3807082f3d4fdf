// Package config handles configuration loading for marketpipe.
// Application settings load through viper (YAML file + environment
// overrides); per-source scraping rule sets load from a separate rules
// document, see rules.go.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"    yaml:"logging"`
	Fetch      FetchConfig      `mapstructure:"fetch"      yaml:"fetch"`
	Collector  CollectorConfig  `mapstructure:"collector"  yaml:"collector"`
	Validation ValidationConfig `mapstructure:"validation" yaml:"validation"`
	Output     OutputConfig     `mapstructure:"output"     yaml:"output"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
	File   string `mapstructure:"file"   yaml:"file"`   // optional rotating log file
}

// FetchConfig holds settings for the content fetch layer.
type FetchConfig struct {
	TimeoutSec     int    `mapstructure:"timeout_sec"      yaml:"timeout_sec"`
	UserAgent      string `mapstructure:"user_agent"       yaml:"user_agent"`
	RatePerSec     int    `mapstructure:"rate_per_sec"     yaml:"rate_per_sec"`
	BrowserWaitSec int    `mapstructure:"browser_wait_sec" yaml:"browser_wait_sec"`
	// CacheTTLSec caches fetched content per URL for this long.
	// Zero disables the cache.
	CacheTTLSec int `mapstructure:"cache_ttl_sec" yaml:"cache_ttl_sec"`
}

// CollectorConfig holds pipeline orchestration settings.
type CollectorConfig struct {
	Parallel   bool `mapstructure:"parallel"    yaml:"parallel"`
	MaxWorkers int  `mapstructure:"max_workers" yaml:"max_workers"`
}

// ValidationConfig holds run-wide validation policy.
type ValidationConfig struct {
	// Strict upgrades suspicious-but-plausible findings (e.g. a daily
	// move above 50%) from warnings to rejections.
	Strict      bool `mapstructure:"strict"        yaml:"strict"`
	MaxAgeHours int  `mapstructure:"max_age_hours" yaml:"max_age_hours"`
}

// OutputConfig holds report writer settings.
type OutputConfig struct {
	Dir  string `mapstructure:"dir"  yaml:"dir"`
	CSV  bool   `mapstructure:"csv"  yaml:"csv"`
	HTML bool   `mapstructure:"html" yaml:"html"`
}

// Load reads the application configuration from file and environment.
// Config file search order:
//  1. ./config/marketpipe.yaml (project root)
//  2. ~/.marketpipe/marketpipe.yaml (home directory)
//  3. /etc/marketpipe/marketpipe.yaml (system)
//
// Environment variables override config file values.
// Format: MARKETPIPE_<SECTION>_<KEY>, e.g. MARKETPIPE_LOGGING_LEVEL.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("marketpipe")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".marketpipe"))
	v.AddConfigPath("/etc/marketpipe")

	v.SetEnvPrefix("MARKETPIPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile reads application configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("MARKETPIPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Fetch defaults
	v.SetDefault("fetch.timeout_sec", 30)
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36")
	v.SetDefault("fetch.rate_per_sec", 2)
	v.SetDefault("fetch.browser_wait_sec", 3)
	v.SetDefault("fetch.cache_ttl_sec", 0)

	// Collector defaults
	v.SetDefault("collector.parallel", false)
	v.SetDefault("collector.max_workers", 4)

	// Validation defaults
	v.SetDefault("validation.strict", false)
	v.SetDefault("validation.max_age_hours", 48)

	// Output defaults
	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.csv", true)
	v.SetDefault("output.html", true)
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
