package shared

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix for environment variable overrides (MUSICARR_HISTORY_PATH, ...).
const EnvPrefix = "MUSICARR"

// EnvOverrides holds configuration values that may be set from the environment.
//
// Empty strings and unset numbers leave the corresponding config field untouched;
// a numeric variable set to 0 is applied.
type EnvOverrides struct {
	ConfigPath          string   `envconfig:"CONFIG"`
	LogLevel            string   `envconfig:"LOG_LEVEL"`
	RunLimit            *int     `envconfig:"RUN_LIMIT"`
	ChartBaseURL        string   `envconfig:"CHART_BASE_URL"`
	HistoryDriver       string   `envconfig:"HISTORY_DRIVER"`
	HistoryPath         string   `envconfig:"HISTORY_PATH"`
	HistoryRecord       string   `envconfig:"HISTORY_RECORD"`
	DatabasePath        string   `envconfig:"DATABASE_PATH"`
	ResolverBackend     string   `envconfig:"RESOLVER_BACKEND"`
	ResolverProxyURL    string   `envconfig:"RESOLVER_PROXY_URL"`
	ResolverRateLimit   *float64 `envconfig:"RESOLVER_RATE_LIMIT"`
	DownloadExecutable  string   `envconfig:"DOWNLOAD_EXECUTABLE"`
	DownloadDestination string   `envconfig:"DOWNLOAD_DESTINATION"`
	DownloadCodec       string   `envconfig:"DOWNLOAD_CODEC"`
	DownloadQuality     string   `envconfig:"DOWNLOAD_QUALITY"`
}

// LoadDotEnv loads variables from the given .env files (default ".env") into the process environment.
//
// Missing files are not an error.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...)
}

// ReadEnvOverrides reads [EnvOverrides] from MUSICARR_* environment variables.
func ReadEnvOverrides() (*EnvOverrides, error) {
	var o EnvOverrides
	if err := envconfig.Process(EnvPrefix, &o); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &o, nil
}

// Apply copies every set override onto the config.
func (o *EnvOverrides) Apply(c *Config) {
	setString(&c.Log.Level, o.LogLevel)
	setString(&c.Chart.BaseURL, o.ChartBaseURL)
	setString(&c.History.Driver, o.HistoryDriver)
	setString(&c.History.Path, o.HistoryPath)
	setString(&c.History.Record, o.HistoryRecord)
	setString(&c.Database.Path, o.DatabasePath)
	setString(&c.Resolver.Backend, o.ResolverBackend)
	setString(&c.Resolver.ProxyURL, o.ResolverProxyURL)
	setString(&c.Download.Executable, o.DownloadExecutable)
	setString(&c.Download.Destination, o.DownloadDestination)
	setString(&c.Download.Codec, o.DownloadCodec)
	setString(&c.Download.Quality, o.DownloadQuality)

	if o.RunLimit != nil {
		c.Run.Limit = *o.RunLimit
	}
	if o.ResolverRateLimit != nil {
		c.Resolver.RateLimit = *o.ResolverRateLimit
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
