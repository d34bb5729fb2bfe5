package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client is the minimal HTTP surface used by provider fetchers and publishers.
type Client interface {
	Get(ctx context.Context, rawURL string, query url.Values, headers map[string]string) (*resty.Response, error)
	Do(ctx context.Context, method, rawURL string, body any, headers map[string]string) (*resty.Response, error)
}

// RestyClient implements Client on top of resty.
type RestyClient struct {
	rc *resty.Client
}

// NewRestyClient returns a resty backed client with the given overall timeout.
// Retries stay disabled; failures surface to the caller.
func NewRestyClient(timeout time.Duration) *RestyClient {
	rc := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0)
	return &RestyClient{rc: rc}
}

// SetUserAgent sets the User-Agent header sent with every request.
func (c *RestyClient) SetUserAgent(ua string) *RestyClient {
	if ua != "" {
		c.rc.SetHeader("User-Agent", ua)
	}
	return c
}

// Get issues a GET request with the given query parameters and headers.
func (c *RestyClient) Get(ctx context.Context, rawURL string, query url.Values, headers map[string]string) (*resty.Response, error) {
	req := c.rc.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}

	resp, err := req.Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", redact(rawURL), scrub(err))
	}
	return resp, nil
}

// Do issues a request with an optional body. A non-nil body is sent as JSON
// unless the headers say otherwise.
func (c *RestyClient) Do(ctx context.Context, method, rawURL string, body any, headers map[string]string) (*resty.Response, error) {
	req := c.rc.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}

	resp, err := req.Execute(method, rawURL)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, redact(rawURL), scrub(err))
	}
	return resp, nil
}

// scrub redacts the URL carried by transport errors.
func scrub(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		uerr.URL = redact(uerr.URL)
	}
	return err
}

// redact drops the query string so API keys never end up in errors or logs.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.RawQuery = ""
	return u.String()
}
