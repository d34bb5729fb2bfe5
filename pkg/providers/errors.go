package providers

import "fmt"

// ConfigError is returned before any request when a provider is missing
// required configuration such as its API key.
type ConfigError struct {
	Provider string
	Field    string
	Message  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %s", e.Provider, e.Field, e.Message)
}

// StatusError is returned when the provider answers with a non-2xx status.
// The body is never decoded in that case.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d body: %s", e.Provider, e.StatusCode, e.Body)
}

// APIError is returned when the provider reports a failure inside an
// otherwise successful response.
type APIError struct {
	Provider string
	Status   string
	Code     string
	Message  string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%s reported status %q: %s", e.Provider, e.Status, e.Message)
	}
	return fmt.Sprintf("%s reported status %q (%s): %s", e.Provider, e.Status, e.Code, e.Message)
}
