package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/spf13/viper"

	"github.com/Adda-Baaj/cron-report/pkg/providers"
)

// clearEnv blanks every key Load reads; viper treats empty variables as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for k := range defaults {
		t.Setenv(strings.ToUpper(k), "")
	}
	t.Setenv("NEWS_API_KEY", "")
	t.Setenv("CONFIG_FILE", "")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := load(viper.New())
	assert.Equal(t, nil, err)

	assert.Equal(t, "", cfg.News.APIKey)
	assert.Equal(t, "https://newsapi.org/v2/top-headlines", cfg.News.URL)
	assert.Equal(t, 3, cfg.News.Count)
	assert.Equal(t, "us", cfg.News.Country)
	assert.Equal(t, "news", cfg.News.Query)
	assert.Equal(t, providers.StatusPolicyPayload, cfg.News.StatusPolicy)

	assert.Equal(t, true, cfg.Weather.Enabled)
	assert.Equal(t, "https://api.open-meteo.com/v1/forecast", cfg.Weather.URL)
	assert.Equal(t, 39.742043, cfg.Weather.Latitude)
	assert.Equal(t, -104.991531, cfg.Weather.Longitude)

	assert.Equal(t, 15*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "", cfg.PublishersFile)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEWS_API_KEY", " secret ")
	t.Setenv("NEWS_COUNT", "7")
	t.Setenv("NEWS_COUNTRY", "GB")
	t.Setenv("NEWS_STATUS_POLICY", "transport")
	t.Setenv("WEATHER_ENABLED", "false")
	t.Setenv("WEATHER_LATITUDE", "51.5")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("PUBLISHERS_FILE", "publishers.yaml")

	cfg, err := load(viper.New())
	assert.Equal(t, nil, err)

	assert.Equal(t, "secret", cfg.News.APIKey)
	assert.Equal(t, 7, cfg.News.Count)
	assert.Equal(t, "gb", cfg.News.Country)
	assert.Equal(t, providers.StatusPolicyTransport, cfg.News.StatusPolicy)
	assert.Equal(t, false, cfg.Weather.Enabled)
	assert.Equal(t, 51.5, cfg.Weather.Latitude)
	assert.Equal(t, 3*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "publishers.yaml", cfg.PublishersFile)
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "report.yaml")
	content := "news_query: weather\nnews_count: 5\nweather_longitude: 2.35\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("NEWS_COUNT", "9")

	cfg, err := load(viper.New())
	assert.Equal(t, nil, err)

	assert.Equal(t, "weather", cfg.News.Query)
	assert.Equal(t, 9, cfg.News.Count) // env wins over file
	assert.Equal(t, 2.35, cfg.Weather.Longitude)
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := load(viper.New())
	assert.NotEqual(t, nil, err)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		field string
	}{
		{"unknown policy", "NEWS_STATUS_POLICY", "lenient", "NEWS_STATUS_POLICY"},
		{"zero count", "NEWS_COUNT", "0", "NEWS_COUNT"},
		{"negative timeout", "HTTP_TIMEOUT", "-1s", "HTTP_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := load(viper.New())

			var cfgErr *Error
			assert.Equal(t, true, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

// Every name ParseStatusPolicy accepts loads; config keeps no list of its own.
func TestStatusPolicyNamesRoundTrip(t *testing.T) {
	for _, p := range []providers.StatusPolicy{providers.StatusPolicyPayload, providers.StatusPolicyTransport} {
		t.Run(p.String(), func(t *testing.T) {
			clearEnv(t)
			t.Setenv("NEWS_STATUS_POLICY", strings.ToUpper(p.String()))

			cfg, err := load(viper.New())
			assert.Equal(t, nil, err)
			assert.Equal(t, p, cfg.News.StatusPolicy)
		})
	}
}
