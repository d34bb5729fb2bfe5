package domain

import (
	"encoding/json"
	"net/url"
	"strconv"
	"time"
)

// Domain contains core models shared by fetchers, the digest and publishers.

// DateLayout is the calendar-date format both providers expect.
const DateLayout = "2006-01-02"

// Coordinate is a latitude/longitude pair. Values are not range-checked.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DefaultCoordinate is Denver, CO.
var DefaultCoordinate = Coordinate{Latitude: 39.742043, Longitude: -104.991531}

// ForecastQuery describes one forecast request.
type ForecastQuery struct {
	Coordinate      Coordinate
	StartDate       time.Time
	EndDate         time.Time
	TemperatureUnit string
	Hourly          string
}

// Params encodes the query as provider query parameters.
func (q ForecastQuery) Params() url.Values {
	return url.Values{
		"latitude":         {strconv.FormatFloat(q.Coordinate.Latitude, 'f', -1, 64)},
		"longitude":        {strconv.FormatFloat(q.Coordinate.Longitude, 'f', -1, 64)},
		"hourly":           {q.Hourly},
		"temperature_unit": {q.TemperatureUnit},
		"start_date":       {q.StartDate.Format(DateLayout)},
		"end_date":         {q.EndDate.Format(DateLayout)},
	}
}

// ForecastResult is the provider payload, passed through verbatim.
type ForecastResult = json.RawMessage

// HeadlineQuery describes one headlines request.
type HeadlineQuery struct {
	APIKey   string
	Query    string
	From     time.Time
	To       time.Time
	SortBy   string
	Language string
	PageSize int
	Country  string
}

// Params encodes the query as provider query parameters.
func (q HeadlineQuery) Params() url.Values {
	return url.Values{
		"apiKey":   {q.APIKey},
		"q":        {q.Query},
		"from":     {q.From.Format(DateLayout)},
		"to":       {q.To.Format(DateLayout)},
		"sortBy":   {q.SortBy},
		"language": {q.Language},
		"pageSize": {strconv.Itoa(q.PageSize)},
		"country":  {q.Country},
	}
}

type Article struct {
	Title  string `json:"title"`
	Source string `json:"source"`
	URL    string `json:"url"`
}

// Report is the outcome of one run.
type Report struct {
	Date     time.Time      `json:"date"`
	Articles []Article      `json:"articles"`
	Digest   string         `json:"digest"`
	Forecast ForecastResult `json:"forecast,omitempty"`
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
