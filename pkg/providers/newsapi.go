package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/cron-report/internal/domain"
	"github.com/Adda-Baaj/cron-report/internal/logger"
)

const (
	NewsAPIProviderID = "newsapi"
	NewsAPIURL        = "https://newsapi.org/v2/top-headlines"

	DefaultHeadlineCount   = 3
	DefaultHeadlineCountry = "us"
	DefaultHeadlineQuery   = "news"

	newsAPIStatusOK  = "ok"
	sortByPopularity = "popularity"
	languageEnglish  = "en"
)

// StatusPolicy decides whether the payload's own status field is checked.
type StatusPolicy int

const (
	// StatusPolicyPayload fails when the payload status is not "ok", even on
	// a 2xx response.
	StatusPolicyPayload StatusPolicy = iota
	// StatusPolicyTransport trusts the HTTP status alone.
	StatusPolicyTransport
)

func (p StatusPolicy) String() string {
	switch p {
	case StatusPolicyPayload:
		return "payload"
	case StatusPolicyTransport:
		return "transport"
	default:
		return fmt.Sprintf("StatusPolicy(%d)", int(p))
	}
}

// ParseStatusPolicy maps a config value to a StatusPolicy.
func ParseStatusPolicy(s string) (StatusPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "payload":
		return StatusPolicyPayload, nil
	case "transport":
		return StatusPolicyTransport, nil
	default:
		return 0, fmt.Errorf("unknown status policy %q", s)
	}
}

// HeadlineRequest holds the caller-tunable parts of a headlines query.
// Zero values take the package defaults; a zero Date means yesterday.
type HeadlineRequest struct {
	Count   int
	Country string
	Query   string
	Date    time.Time
}

func (r HeadlineRequest) withDefaults() HeadlineRequest {
	if r.Count <= 0 {
		r.Count = DefaultHeadlineCount
	}
	if strings.TrimSpace(r.Country) == "" {
		r.Country = DefaultHeadlineCountry
	}
	if strings.TrimSpace(r.Query) == "" {
		r.Query = DefaultHeadlineQuery
	}
	return r
}

// NewsAPIFetcher retrieves yesterday's top headlines from NewsAPI.org.
type NewsAPIFetcher struct {
	client HTTPClient
	cfg    Provider
	policy StatusPolicy
	now    Clock
	log    logger.Logger
}

// NewNewsAPIFetcher builds a headlines fetcher. An empty BaseURL falls back
// to the public NewsAPI endpoint.
func NewNewsAPIFetcher(client HTTPClient, cfg Provider, policy StatusPolicy, now Clock, log logger.Logger) *NewsAPIFetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = NewsAPIURL
	}
	if cfg.ID == "" {
		cfg.ID = NewsAPIProviderID
	}
	return &NewsAPIFetcher{
		client: client,
		cfg:    cfg,
		policy: policy,
		now:    ensureClock(now),
		log:    ensureLogger(log),
	}
}

func (f *NewsAPIFetcher) ID() string { return f.cfg.ID }

// Yesterday returns the calendar day the fetcher queries.
func (f *NewsAPIFetcher) Yesterday() time.Time {
	return domain.Day(f.now()).AddDate(0, 0, -1)
}

// Query builds the headlines query for req.
func (f *NewsAPIFetcher) Query(req HeadlineRequest) domain.HeadlineQuery {
	req = req.withDefaults()
	day := f.Yesterday()
	if !req.Date.IsZero() {
		day = domain.Day(req.Date)
	}
	return domain.HeadlineQuery{
		APIKey:   f.cfg.APIKey,
		Query:    req.Query,
		From:     day,
		To:       day,
		SortBy:   sortByPopularity,
		Language: languageEnglish,
		PageSize: req.Count,
		Country:  strings.ToLower(req.Country),
	}
}

// Headlines returns the articles for the requested day in provider order.
func (f *NewsAPIFetcher) Headlines(ctx context.Context, req HeadlineRequest) ([]domain.Article, error) {
	if strings.TrimSpace(f.cfg.APIKey) == "" {
		return nil, &ConfigError{Provider: f.cfg.ID, Field: "NEWS_API_KEY", Message: "missing in environment variables"}
	}

	q := f.Query(req)

	headers := Headers(f.cfg)
	headers["X-Api-Key"] = f.cfg.APIKey

	f.log.DebugObj("fetching headlines", "headlines_fetch_start", map[string]any{
		"provider_id": f.cfg.ID,
		"date":        q.From.Format(domain.DateLayout),
		"country":     q.Country,
		"query":       q.Query,
		"page_size":   q.PageSize,
		"policy":      f.policy.String(),
	})

	body, err := fetchJSON(ctx, f.client, f.cfg.BaseURL, f.cfg.ID, q.Params(), headers)
	if err != nil {
		return nil, err
	}

	var payload newsAPIResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", f.cfg.ID, err)
	}

	if f.policy == StatusPolicyPayload && payload.Status != newsAPIStatusOK {
		return nil, &APIError{
			Provider: f.cfg.ID,
			Status:   payload.Status,
			Code:     payload.Code,
			Message:  payload.Message,
		}
	}

	articles := make([]domain.Article, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		articles = append(articles, domain.Article{
			Title:  a.Title,
			Source: a.Source.Name,
			URL:    a.URL,
		})
	}

	f.log.InfoObj("headlines fetched", "headlines_fetch_done", map[string]any{
		"provider_id":   f.cfg.ID,
		"articles":      len(articles),
		"total_results": payload.TotalResults,
	})
	return articles, nil
}

type newsAPIResponse struct {
	Status       string           `json:"status"`
	Code         string           `json:"code"`
	Message      string           `json:"message"`
	TotalResults int              `json:"totalResults"`
	Articles     []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source newsAPISource `json:"source"`
	Title  string        `json:"title"`
	URL    string        `json:"url"`
}

type newsAPISource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
