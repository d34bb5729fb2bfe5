package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Adda-Baaj/cron-report/pkg/providers"
)

// Config holds everything a single report run needs. It is loaded once at
// process start and passed down explicitly.
type Config struct {
	News    NewsConfig
	Weather WeatherConfig
	HTTP    HTTPConfig
	Log     LogConfig

	PublishersFile string
}

// NewsConfig configures the headlines provider.
type NewsConfig struct {
	APIKey       string
	URL          string
	Count        int
	Country      string
	Query        string
	StatusPolicy providers.StatusPolicy
}

// WeatherConfig configures the forecast provider.
type WeatherConfig struct {
	Enabled   bool
	URL       string
	Latitude  float64
	Longitude float64
}

// HTTPConfig configures the shared outbound client.
type HTTPConfig struct {
	Timeout   time.Duration
	UserAgent string
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string
	Format string
}

var defaults = map[string]any{
	"news_api_url":       "https://newsapi.org/v2/top-headlines",
	"news_count":         3,
	"news_country":       "us",
	"news_query":         "news",
	"news_status_policy": providers.StatusPolicyPayload.String(),
	"weather_enabled":    true,
	"weather_api_url":    "https://api.open-meteo.com/v1/forecast",
	"weather_latitude":   39.742043,
	"weather_longitude":  -104.991531,
	"http_timeout":       15 * time.Second,
	"http_user_agent":    "cron-report/1.0",
	"log_level":          "info",
	"log_format":         "console",
	"publishers_file":    "",
}

// Load reads an optional .env file, then environment variables and an
// optional CONFIG_FILE, applying defaults for anything unset.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()
	// keys without a default still need to resolve from the environment
	_ = v.BindEnv("news_api_key")
	_ = v.BindEnv("config_file")

	if path := strings.TrimSpace(v.GetString("config_file")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	policy, err := providers.ParseStatusPolicy(v.GetString("news_status_policy"))
	if err != nil {
		return nil, &Error{Field: "NEWS_STATUS_POLICY", Message: fmt.Sprintf("%v (want %q or %q)", err, providers.StatusPolicyPayload, providers.StatusPolicyTransport)}
	}

	cfg := &Config{
		News: NewsConfig{
			APIKey:       strings.TrimSpace(v.GetString("news_api_key")),
			URL:          strings.TrimSpace(v.GetString("news_api_url")),
			Count:        v.GetInt("news_count"),
			Country:      strings.ToLower(strings.TrimSpace(v.GetString("news_country"))),
			Query:        strings.TrimSpace(v.GetString("news_query")),
			StatusPolicy: policy,
		},
		Weather: WeatherConfig{
			Enabled:   v.GetBool("weather_enabled"),
			URL:       strings.TrimSpace(v.GetString("weather_api_url")),
			Latitude:  v.GetFloat64("weather_latitude"),
			Longitude: v.GetFloat64("weather_longitude"),
		},
		HTTP: HTTPConfig{
			Timeout:   v.GetDuration("http_timeout"),
			UserAgent: strings.TrimSpace(v.GetString("http_user_agent")),
		},
		Log: LogConfig{
			Level:  strings.TrimSpace(v.GetString("log_level")),
			Format: strings.TrimSpace(v.GetString("log_format")),
		},
		PublishersFile: strings.TrimSpace(v.GetString("publishers_file")),
	}

	return cfg, cfg.validate()
}

// validate checks values that have a fixed set of meanings. A missing
// NEWS_API_KEY is reported by the headlines fetcher, not here.
func (c *Config) validate() error {
	if c.News.Count <= 0 {
		return &Error{Field: "NEWS_COUNT", Message: "must be positive"}
	}
	if c.News.URL == "" {
		return &Error{Field: "NEWS_API_URL", Message: "is required"}
	}
	if c.Weather.Enabled && c.Weather.URL == "" {
		return &Error{Field: "WEATHER_API_URL", Message: "is required when weather is enabled"}
	}
	if c.HTTP.Timeout <= 0 {
		return &Error{Field: "HTTP_TIMEOUT", Message: "must be positive"}
	}
	return nil
}

// Error represents an invalid configuration value.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Field + ": " + e.Message
}
