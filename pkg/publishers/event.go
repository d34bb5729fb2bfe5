package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Adda-Baaj/cron-report/internal/domain"
	"github.com/Adda-Baaj/cron-report/internal/logger"
)

// EventKindDailyReport marks events carrying a finished report.
const EventKindDailyReport = "daily_report"

// Event is the payload every publisher delivers.
type Event struct {
	ID          string           `json:"id"`
	Kind        string           `json:"kind"`
	ReportDate  string           `json:"report_date"`
	GeneratedAt time.Time        `json:"generated_at"`
	Digest      string           `json:"digest"`
	Articles    []domain.Article `json:"articles"`
	Forecast    json.RawMessage  `json:"forecast,omitempty"`
}

// NewReportEvent wraps a report in a uniquely identified event.
func NewReportEvent(r domain.Report, generatedAt time.Time) Event {
	articles := r.Articles
	if articles == nil {
		articles = []domain.Article{}
	}
	return Event{
		ID:          uuid.NewString(),
		Kind:        EventKindDailyReport,
		ReportDate:  r.Date.Format(domain.DateLayout),
		GeneratedAt: generatedAt.UTC(),
		Digest:      r.Digest,
		Articles:    articles,
		Forecast:    json.RawMessage(r.Forecast),
	}
}

// Publisher delivers events to one sink.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// Logger is the subset of logger.Logger publishers need.
type Logger interface {
	DebugObj(msg, event string, fields map[string]any)
	InfoObj(msg, event string, fields map[string]any)
	ErrorObj(msg, event string, fields map[string]any)
}

func ensureLogger(l Logger) Logger {
	if l == nil {
		return logger.NopLogger{}
	}
	return l
}

// PublishAll sends evt to every publisher in order and joins the failures.
func PublishAll(ctx context.Context, pubs []Publisher, evt Event, log Logger) error {
	log = ensureLogger(log)

	var errs []error
	for _, p := range pubs {
		if err := p.Publish(ctx, evt); err != nil {
			log.ErrorObj("publish failed", "publish_error", map[string]any{
				"publisher_id": p.ID(),
				"type":         p.Type(),
				"event_id":     evt.ID,
				"error":        err.Error(),
			})
			errs = append(errs, fmt.Errorf("publisher %s: %w", p.ID(), err))
			continue
		}
		log.InfoObj("report published", "publish_done", map[string]any{
			"publisher_id": p.ID(),
			"type":         p.Type(),
			"event_id":     evt.ID,
		})
	}
	return errors.Join(errs...)
}

// CloseAll closes every publisher and joins the failures.
func CloseAll(pubs []Publisher) error {
	var errs []error
	for _, p := range pubs {
		if err := p.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher %s: %w", p.ID(), err))
		}
	}
	return errors.Join(errs...)
}
