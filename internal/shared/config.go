package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Run      RunConfig      `toml:"run"`
	Chart    ChartConfig    `toml:"chart"`
	History  HistoryConfig  `toml:"history"`
	Database DatabaseConfig `toml:"database"`
	Resolver ResolverConfig `toml:"resolver"`
	Download DownloadConfig `toml:"download"`
	Genres   map[string]int `toml:"genres"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// RunConfig contains per-run selection settings.
type RunConfig struct {
	Limit int `toml:"limit"`
}

// ChartConfig contains catalog chart endpoint settings.
type ChartConfig struct {
	BaseURL        string `toml:"base_url"`
	Limit          int    `toml:"limit"`
	Offset         int    `toml:"offset"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the HTTP client timeout for chart requests.
func (c ChartConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// HistoryConfig contains download history settings.
type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	Driver  string `toml:"driver"`
	Path    string `toml:"path"`
	Record  string `toml:"record"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ResolverConfig contains track lookup settings.
type ResolverConfig struct {
	Backend        string  `toml:"backend"`
	SearchURL      string  `toml:"search_url"`
	VideoHost      string  `toml:"video_host"`
	ProxyURL       string  `toml:"proxy_url"`
	RateLimit      float64 `toml:"rate_limit"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// Timeout returns the HTTP client timeout for lookup requests.
func (c ResolverConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DownloadConfig contains yt-dlp invocation settings.
type DownloadConfig struct {
	Executable     string `toml:"executable"`
	Destination    string `toml:"destination"`
	OutputTemplate string `toml:"output_template"`
	Codec          string `toml:"codec"`
	Quality        string `toml:"quality"`
}

// Output returns the full yt-dlp output template, or "" when no template is configured.
func (c DownloadConfig) Output() string {
	if c.OutputTemplate == "" {
		return ""
	}
	if c.Destination == "" {
		return c.OutputTemplate
	}
	return filepath.ToSlash(filepath.Join(c.Destination, c.OutputTemplate))
}

const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"

	BackendYouTube = "youtube"
	BackendProxy   = "proxy"

	RecordSelected   = "selected"
	RecordDownloaded = "downloaded"
)

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Run.Limit < 0 {
		return fmt.Errorf("%w: run.limit must not be negative", ErrInvalidConfig)
	}
	if c.Chart.BaseURL == "" {
		return fmt.Errorf("%w: chart.base_url cannot be empty", ErrInvalidConfig)
	}
	if c.Chart.Limit <= 0 {
		return fmt.Errorf("%w: chart.limit must be positive", ErrInvalidConfig)
	}
	if c.Chart.Offset < 0 {
		return fmt.Errorf("%w: chart.offset must not be negative", ErrInvalidConfig)
	}

	switch c.History.Driver {
	case DriverJSON:
		if c.History.Enabled && c.History.Path == "" {
			return fmt.Errorf("%w: history.path cannot be empty", ErrInvalidConfig)
		}
	case DriverSQLite:
		if c.History.Enabled && c.Database.Path == "" {
			return fmt.Errorf("%w: database.path cannot be empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown history.driver %q (must be json or sqlite)", ErrInvalidConfig, c.History.Driver)
	}

	switch c.History.Record {
	case RecordSelected, RecordDownloaded:
	default:
		return fmt.Errorf("%w: unknown history.record %q (must be selected or downloaded)", ErrInvalidConfig, c.History.Record)
	}

	switch c.Resolver.Backend {
	case BackendYouTube:
		if c.Resolver.SearchURL == "" {
			return fmt.Errorf("%w: resolver.search_url cannot be empty", ErrInvalidConfig)
		}
	case BackendProxy:
		if c.Resolver.ProxyURL == "" {
			return fmt.Errorf("%w: resolver.proxy_url cannot be empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown resolver.backend %q (must be youtube or proxy)", ErrInvalidConfig, c.Resolver.Backend)
	}
	if c.Resolver.VideoHost == "" {
		return fmt.Errorf("%w: resolver.video_host cannot be empty", ErrInvalidConfig)
	}
	if c.Resolver.RateLimit < 0 {
		return fmt.Errorf("%w: resolver.rate_limit must not be negative", ErrInvalidConfig)
	}

	if c.Download.Codec == "" || c.Download.Quality == "" {
		return fmt.Errorf("%w: download.codec and download.quality are required", ErrInvalidConfig)
	}

	for day, id := range c.Genres {
		if id <= 0 {
			return fmt.Errorf("%w: genre id for %s must be positive", ErrInvalidConfig, day)
		}
		if !isWeekdayName(day) {
			return fmt.Errorf("%w: unknown weekday %q in [genres]", ErrInvalidConfig, day)
		}
	}

	return nil
}

func isWeekdayName(name string) bool {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), name) {
			return true
		}
	}
	return false
}
