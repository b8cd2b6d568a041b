package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Compile-time defaults for the data source and refresh loop
const (
	DefaultEndpoint        = "https://disease.sh/v3/covid-19/countries"
	DefaultRefreshInterval = 30 * time.Second
	DefaultFetchTimeout    = 20 * time.Second
	DefaultTopN            = 100
	DefaultPinnedCountry   = "Vietnam"
	DefaultLogFile         = "covidwatch.log"

	// DefaultErrorMessage is shown for any failed refresh, whatever the cause
	DefaultErrorMessage = "Không thể tải dữ liệu. Vui lòng thử lại sau."

	envPrefix = "COVIDWATCH"
)

// Config holds runtime settings. Every field has a usable default.
type Config struct {
	Endpoint        string        `envconfig:"ENDPOINT"         default:"https://disease.sh/v3/covid-19/countries"`
	RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL" default:"30s"`
	FetchTimeout    time.Duration `envconfig:"FETCH_TIMEOUT"    default:"20s"`
	TopN            int           `envconfig:"TOP_N"            default:"100"`
	PinnedCountry   string        `envconfig:"PINNED_COUNTRY"   default:"Vietnam"`
	ErrorMessage    string        `ignored:"true"` // always DefaultErrorMessage
	LogFile         string        `envconfig:"LOG_FILE"         default:"covidwatch.log"`
	LogLevel        string        `envconfig:"LOG_LEVEL"        default:"info"`
	AltScreen       bool          `envconfig:"ALT_SCREEN"       default:"true"`
}

// Default returns the built-in configuration without consulting the environment
func Default() Config {
	return Config{
		Endpoint:        DefaultEndpoint,
		RefreshInterval: DefaultRefreshInterval,
		FetchTimeout:    DefaultFetchTimeout,
		TopN:            DefaultTopN,
		PinnedCountry:   DefaultPinnedCountry,
		ErrorMessage:    DefaultErrorMessage,
		LogFile:         DefaultLogFile,
		LogLevel:        "info",
		AltScreen:       true,
	}
}

// Load reads an optional .env file and then COVIDWATCH_* environment variables.
// A missing env file is not an error.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		// Silently ignore a missing file, same as a bare godotenv.Load()
		_ = godotenv.Load(envFile)
	}

	cfg := Config{ErrorMessage: DefaultErrorMessage}
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration can drive the refresh loop
func (c Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint %q: scheme must be http or https", c.Endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: missing host", c.Endpoint)
	}
	if c.RefreshInterval <= 0 {
		return errors.New("refresh interval must be positive")
	}
	if c.FetchTimeout <= 0 {
		return errors.New("fetch timeout must be positive")
	}
	if c.TopN <= 0 {
		return errors.New("top N must be positive")
	}
	return nil
}
