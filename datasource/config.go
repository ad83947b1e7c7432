package datasource

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingAPIKey is returned by LoadConfig when no API key is configured
var ErrMissingAPIKey = errors.New("WEATHER_API_KEY is not set")

// Config represents the application configuration
type Config struct {
	APIKey  string
	BaseURL string

	// Cities to monitor; the first one is the default city
	Cities []string

	// Units is the display unit system: "metric" or "imperial"
	Units        string
	ForecastDays int

	RefreshInterval time.Duration
	FetchTimeout    time.Duration
	CacheTTL        time.Duration

	// RateLimit is requests per second against the API, 0 disables limiting
	RateLimit float64
	RateBurst int

	Port      int
	Debug     bool
	ZipkinURL string
}

// LoadConfig resolves the configuration from WEATHER_* environment variables
// and, when filename is not empty, a config file (json, yaml, toml or env)
func LoadConfig(filename string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("WEATHER")
	v.AutomaticEnv()

	v.SetDefault("api_key", "")
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("city", "Dapoli")
	v.SetDefault("cities", "")
	v.SetDefault("units", "metric")
	v.SetDefault("forecast_days", 4)
	v.SetDefault("refresh_interval", "5m")
	v.SetDefault("fetch_timeout", "10s")
	v.SetDefault("cache_ttl", "4m")
	v.SetDefault("rate_limit", 1.0)
	v.SetDefault("rate_burst", 5)
	v.SetDefault("port", 8080)
	v.SetDefault("debug", false)
	v.SetDefault("zipkin_url", "")

	if filename != "" {
		v.SetConfigFile(filename)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
		}
	}

	config := &Config{
		APIKey:          v.GetString("api_key"),
		BaseURL:         v.GetString("base_url"),
		Cities:          cityList(v.Get("cities")),
		Units:           strings.ToLower(v.GetString("units")),
		ForecastDays:    v.GetInt("forecast_days"),
		RefreshInterval: v.GetDuration("refresh_interval"),
		FetchTimeout:    v.GetDuration("fetch_timeout"),
		CacheTTL:        v.GetDuration("cache_ttl"),
		RateLimit:       v.GetFloat64("rate_limit"),
		RateBurst:       v.GetInt("rate_burst"),
		Port:            v.GetInt("port"),
		Debug:           v.GetBool("debug"),
		ZipkinURL:       v.GetString("zipkin_url"),
	}
	if len(config.Cities) == 0 {
		config.Cities = []string{v.GetString("city")}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration for values the service cannot run with
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Units != "metric" && c.Units != "imperial" {
		return fmt.Errorf("unsupported units %q: want metric or imperial", c.Units)
	}
	if c.ForecastDays < 1 {
		return fmt.Errorf("forecast_days must be positive, got %d", c.ForecastDays)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh_interval must be positive, got %s", c.RefreshInterval)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive, got %s", c.FetchTimeout)
	}
	// A limiter with burst 0 rejects every Wait
	if c.RateLimit > 0 && c.RateBurst < 1 {
		return fmt.Errorf("rate_burst must be at least 1 when rate_limit is set, got %d", c.RateBurst)
	}
	if len(c.Cities) == 0 || c.Cities[0] == "" {
		return errors.New("no city configured")
	}
	return nil
}

// cityList accepts either a comma separated string (environment) or a list
// (config file)
func cityList(raw any) []string {
	var parts []string
	switch v := raw.(type) {
	case string:
		parts = strings.Split(v, ",")
	case []string:
		parts = v
	case []any:
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
	}

	cities := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			cities = append(cities, p)
		}
	}
	return cities
}
