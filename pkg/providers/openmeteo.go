package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Adda-Baaj/cron-report/internal/domain"
	"github.com/Adda-Baaj/cron-report/internal/logger"
)

const (
	OpenMeteoProviderID = "open-meteo"
	OpenMeteoURL        = "https://api.open-meteo.com/v1/forecast"

	hourlyTemperature = "temperature_2m"
	unitFahrenheit    = "fahrenheit"
)

// OpenMeteoFetcher retrieves hourly temperature forecasts.
type OpenMeteoFetcher struct {
	client HTTPClient
	cfg    Provider
	now    Clock
	log    logger.Logger
}

// NewOpenMeteoFetcher builds a forecast fetcher. An empty BaseURL falls back
// to the public Open-Meteo endpoint.
func NewOpenMeteoFetcher(client HTTPClient, cfg Provider, now Clock, log logger.Logger) *OpenMeteoFetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = OpenMeteoURL
	}
	if cfg.ID == "" {
		cfg.ID = OpenMeteoProviderID
	}
	return &OpenMeteoFetcher{
		client: client,
		cfg:    cfg,
		now:    ensureClock(now),
		log:    ensureLogger(log),
	}
}

func (f *OpenMeteoFetcher) ID() string { return f.cfg.ID }

// Query builds the forecast query for today and tomorrow at coord.
func (f *OpenMeteoFetcher) Query(coord domain.Coordinate) domain.ForecastQuery {
	today := domain.Day(f.now())
	return domain.ForecastQuery{
		Coordinate:      coord,
		StartDate:       today,
		EndDate:         today.AddDate(0, 0, 1),
		TemperatureUnit: unitFahrenheit,
		Hourly:          hourlyTemperature,
	}
}

// Forecast returns the provider payload for coord exactly as received.
func (f *OpenMeteoFetcher) Forecast(ctx context.Context, coord domain.Coordinate) (domain.ForecastResult, error) {
	q := f.Query(coord)

	f.log.DebugObj("fetching forecast", "forecast_fetch_start", map[string]any{
		"provider_id": f.cfg.ID,
		"latitude":    coord.Latitude,
		"longitude":   coord.Longitude,
		"start_date":  q.StartDate.Format(domain.DateLayout),
		"end_date":    q.EndDate.Format(domain.DateLayout),
	})

	body, err := fetchJSON(ctx, f.client, f.cfg.BaseURL, f.cfg.ID, q.Params(), Headers(f.cfg))
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("decode %s forecast: invalid json: %s", f.cfg.ID, responseSnippet(body))
	}

	out := make(domain.ForecastResult, len(body))
	copy(out, body)

	f.log.InfoObj("forecast fetched", "forecast_fetch_done", map[string]any{
		"provider_id": f.cfg.ID,
		"bytes":       len(out),
	})
	return out, nil
}
