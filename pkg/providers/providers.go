package providers

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Adda-Baaj/cron-report/internal/logger"
	"github.com/Adda-Baaj/cron-report/pkg/httpclient"
)

// HTTPClient is the transport used by every fetcher.
type HTTPClient = httpclient.Client

// Provider describes the endpoint a fetcher talks to.
type Provider struct {
	ID      string
	BaseURL string
	APIKey  string
	Headers map[string]string
}

// Headers returns a copy of the provider's static request headers.
func Headers(cfg Provider) map[string]string {
	out := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		if k = strings.TrimSpace(k); k != "" {
			out[k] = v
		}
	}
	return out
}

// DefaultHTTPClient returns a tuned client for provider fetchers.
func DefaultHTTPClient() HTTPClient { return httpclient.NewRestyClient(15 * time.Second) }

// Clock returns the current time; fetchers derive their date windows from it.
type Clock func() time.Time

func ensureClock(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

func ensureLogger(l logger.Logger) logger.Logger {
	if l == nil {
		return logger.NopLogger{}
	}
	return l
}

// responseSnippet returns a truncated snippet of the response body for errors.
func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		return s[:cut] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

// fetchJSON performs one GET and returns the body of a 2xx response.
// Any other status yields a *StatusError.
func fetchJSON(ctx context.Context, client HTTPClient, endpoint, providerID string, query url.Values, headers map[string]string) ([]byte, error) {
	resp, err := client.Get(ctx, endpoint, query, headers)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", providerID, err)
	}

	body := resp.Body()
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, &StatusError{Provider: providerID, StatusCode: code, Body: responseSnippet(body)}
	}

	return body, nil
}
