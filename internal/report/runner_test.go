package report

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/Adda-Baaj/cron-report/internal/domain"
	"github.com/Adda-Baaj/cron-report/pkg/httpclient"
	"github.com/Adda-Baaj/cron-report/pkg/providers"
	"github.com/Adda-Baaj/cron-report/pkg/publishers"
)

var now = time.Date(2026, time.March, 1, 6, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func jsonServer(t *testing.T, status int, body string, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const newsBody = `{"status":"ok","totalResults":2,"articles":[
 {"source":{"name":"AP"},"title":"First","url":"https://ap.example/1"},
 {"source":{"name":"BBC"},"title":"Second","url":"https://bbc.example/2"}]}`

const weatherBody = `{"hourly":{"temperature_2m":[40.1]}}`

type recordingPublisher struct {
	events []publishers.Event
	err    error
}

func (p *recordingPublisher) ID() string   { return "rec" }
func (p *recordingPublisher) Type() string { return "test" }
func (p *recordingPublisher) Publish(_ context.Context, evt publishers.Event) error {
	p.events = append(p.events, evt)
	return p.err
}
func (p *recordingPublisher) Close() error { return nil }

func fetchers(newsURL, weatherURL, key string) (*providers.NewsAPIFetcher, *providers.OpenMeteoFetcher) {
	client := httpclient.NewRestyClient(5 * time.Second)
	news := providers.NewNewsAPIFetcher(client, providers.Provider{BaseURL: newsURL, APIKey: key}, providers.StatusPolicyPayload, clock, nil)
	weather := providers.NewOpenMeteoFetcher(client, providers.Provider{BaseURL: weatherURL}, clock, nil)
	return news, weather
}

func TestRunWritesDigestAndForecast(t *testing.T) {
	newsSrv := jsonServer(t, http.StatusOK, newsBody, nil)
	weatherSrv := jsonServer(t, http.StatusOK, weatherBody, nil)
	news, weather := fetchers(newsSrv.URL, weatherSrv.URL, "key")
	pub := &recordingPublisher{}

	var out bytes.Buffer
	r, err := NewRunner(Options{
		Headlines:  news,
		Forecast:   weather,
		Coordinate: domain.DefaultCoordinate,
		Publishers: []publishers.Publisher{pub},
		Out:        &out,
		Now:        clock,
	})
	assert.Equal(t, nil, err)

	rep, err := r.Run(context.Background())
	assert.Equal(t, nil, err)

	want := "Top Headlines from Yesterday: 2026-02-28\n\n" +
		"First (AP)\nhttps://ap.example/1\n\nSecond (BBC)\nhttps://bbc.example/2\n" +
		"{\n  \"hourly\": {\n    \"temperature_2m\": [\n      40.1\n    ]\n  }\n}\n"
	assert.Equal(t, want, out.String())

	assert.Equal(t, 2, len(rep.Articles))
	assert.Equal(t, weatherBody, string(rep.Forecast))

	assert.Equal(t, 1, len(pub.events))
	assert.Equal(t, "2026-02-28", pub.events[0].ReportDate)
	assert.Equal(t, rep.Digest, pub.events[0].Digest)
}

func TestRunWithoutForecast(t *testing.T) {
	newsSrv := jsonServer(t, http.StatusOK, `{"status":"ok","articles":[]}`, nil)
	news, _ := fetchers(newsSrv.URL, "", "key")

	var out bytes.Buffer
	r, _ := NewRunner(Options{Headlines: news, Out: &out})
	rep, err := r.Run(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, "Top Headlines from Yesterday: 2026-02-28\n\n\n", out.String())
	assert.Equal(t, "", rep.Digest)
	assert.Equal(t, 0, len(rep.Forecast))
}

func TestRunMissingKeyStopsBeforeAnyRequest(t *testing.T) {
	var newsCalls, weatherCalls int32
	newsSrv := jsonServer(t, http.StatusOK, newsBody, &newsCalls)
	weatherSrv := jsonServer(t, http.StatusOK, weatherBody, &weatherCalls)
	news, weather := fetchers(newsSrv.URL, weatherSrv.URL, "")

	var out bytes.Buffer
	r, _ := NewRunner(Options{Headlines: news, Forecast: weather, Out: &out})
	_, err := r.Run(context.Background())

	var cfgErr *providers.ConfigError
	assert.Equal(t, true, errors.As(err, &cfgErr))
	assert.Equal(t, int32(0), atomic.LoadInt32(&newsCalls))
	assert.Equal(t, int32(0), atomic.LoadInt32(&weatherCalls))
	assert.Equal(t, true, strings.HasPrefix(out.String(), "Top Headlines from Yesterday: 2026-02-28"))
}

func TestRunForecastFailure(t *testing.T) {
	newsSrv := jsonServer(t, http.StatusOK, newsBody, nil)
	weatherSrv := jsonServer(t, http.StatusInternalServerError, `boom`, nil)
	news, weather := fetchers(newsSrv.URL, weatherSrv.URL, "key")
	pub := &recordingPublisher{}

	r, _ := NewRunner(Options{Headlines: news, Forecast: weather, Publishers: []publishers.Publisher{pub}, Out: &bytes.Buffer{}})
	_, err := r.Run(context.Background())

	var statusErr *providers.StatusError
	assert.Equal(t, true, errors.As(err, &statusErr))
	assert.Equal(t, providers.OpenMeteoProviderID, statusErr.Provider)
	assert.Equal(t, 0, len(pub.events))
}

func TestRunPublishFailureFailsRun(t *testing.T) {
	newsSrv := jsonServer(t, http.StatusOK, newsBody, nil)
	news, _ := fetchers(newsSrv.URL, "", "key")
	pub := &recordingPublisher{err: errors.New("sink offline")}

	r, _ := NewRunner(Options{Headlines: news, Publishers: []publishers.Publisher{pub}, Out: &bytes.Buffer{}})
	_, err := r.Run(context.Background())

	assert.NotEqual(t, nil, err)
	assert.Equal(t, true, strings.Contains(err.Error(), "sink offline"))
}

// tickingClock returns each time in turn and then sticks on the last one.
func tickingClock(times ...time.Time) func() time.Time {
	var (
		mu sync.Mutex
		i  int
	)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := times[i]
		if i < len(times)-1 {
			i++
		}
		return t
	}
}

func TestRunUsesOneDayAcrossMidnight(t *testing.T) {
	var query atomic.Value
	newsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query.Store(r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(newsBody))
	}))
	t.Cleanup(newsSrv.Close)

	tick := tickingClock(
		time.Date(2026, time.March, 1, 23, 59, 59, 999_000_000, time.UTC),
		time.Date(2026, time.March, 2, 0, 0, 0, 1_000_000, time.UTC),
	)
	news := providers.NewNewsAPIFetcher(httpclient.NewRestyClient(5*time.Second), providers.Provider{BaseURL: newsSrv.URL, APIKey: "key"}, providers.StatusPolicyPayload, tick, nil)
	pub := &recordingPublisher{}

	var out bytes.Buffer
	r, _ := NewRunner(Options{Headlines: news, Publishers: []publishers.Publisher{pub}, Out: &out, Now: tick})
	rep, err := r.Run(context.Background())
	assert.Equal(t, nil, err)

	q, _ := query.Load().(url.Values)
	assert.Equal(t, true, strings.HasPrefix(out.String(), "Top Headlines from Yesterday: 2026-02-28\n"))
	assert.Equal(t, "2026-02-28", rep.Date.Format(domain.DateLayout))
	assert.Equal(t, "2026-02-28", q.Get("from"))
	assert.Equal(t, "2026-02-28", q.Get("to"))
	assert.Equal(t, "2026-02-28", pub.events[0].ReportDate)
}

func TestRunErrorNamesProvider(t *testing.T) {
	newsSrv := jsonServer(t, http.StatusBadGateway, `down`, nil)
	news, _ := fetchers(newsSrv.URL, "", "key")

	r, _ := NewRunner(Options{Headlines: news, Out: &bytes.Buffer{}})
	_, err := r.Run(context.Background())

	assert.NotEqual(t, nil, err)
	assert.Equal(t, true, strings.Contains(err.Error(), "fetch headlines from "+providers.NewsAPIProviderID))
}

func TestNewRunnerRequiresHeadlines(t *testing.T) {
	_, err := NewRunner(Options{})
	assert.NotEqual(t, nil, err)
}
