package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Adda-Baaj/cron-report/internal/digest"
	"github.com/Adda-Baaj/cron-report/internal/domain"
	"github.com/Adda-Baaj/cron-report/internal/logger"
	"github.com/Adda-Baaj/cron-report/pkg/providers"
	"github.com/Adda-Baaj/cron-report/pkg/publishers"
)

// HeadlinesFetcher is satisfied by *providers.NewsAPIFetcher.
type HeadlinesFetcher interface {
	ID() string
	Yesterday() time.Time
	Headlines(ctx context.Context, req providers.HeadlineRequest) ([]domain.Article, error)
}

// ForecastFetcher is satisfied by *providers.OpenMeteoFetcher.
type ForecastFetcher interface {
	ID() string
	Forecast(ctx context.Context, coord domain.Coordinate) (domain.ForecastResult, error)
}

// Options wires a Runner. Forecast may be nil to skip the weather section.
type Options struct {
	Headlines  HeadlinesFetcher
	Forecast   ForecastFetcher
	Request    providers.HeadlineRequest
	Coordinate domain.Coordinate
	Publishers []publishers.Publisher
	Out        io.Writer
	Log        logger.Logger
	Now        func() time.Time
}

// Runner produces one report: headlines digest, forecast, publication.
type Runner struct {
	opts Options
}

// NewRunner validates opts and fills defaults.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Headlines == nil {
		return nil, errors.New("report runner requires a headlines fetcher")
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Log == nil {
		opts.Log = logger.NopLogger{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{opts: opts}, nil
}

// Run executes the report steps in order and stops at the first failure.
func (r *Runner) Run(ctx context.Context) (domain.Report, error) {
	o := r.opts
	// The day is read once so the announcement, the query and the report agree.
	yesterday := o.Headlines.Yesterday()
	rep := domain.Report{Date: yesterday}
	req := o.Request
	req.Date = yesterday

	if _, err := fmt.Fprintf(o.Out, "Top Headlines from Yesterday: %s\n\n", yesterday.Format(domain.DateLayout)); err != nil {
		return rep, fmt.Errorf("write announcement: %w", err)
	}

	articles, err := o.Headlines.Headlines(ctx, req)
	if err != nil {
		return rep, fmt.Errorf("fetch headlines from %s: %w", o.Headlines.ID(), err)
	}
	rep.Articles = articles
	rep.Digest = digest.Format(articles)

	if _, err := fmt.Fprintln(o.Out, rep.Digest); err != nil {
		return rep, fmt.Errorf("write digest: %w", err)
	}

	if o.Forecast != nil {
		forecast, err := o.Forecast.Forecast(ctx, o.Coordinate)
		if err != nil {
			return rep, fmt.Errorf("fetch forecast from %s: %w", o.Forecast.ID(), err)
		}
		rep.Forecast = forecast

		if err := writeForecast(o.Out, forecast); err != nil {
			return rep, fmt.Errorf("write forecast: %w", err)
		}
	}

	if len(o.Publishers) > 0 {
		evt := publishers.NewReportEvent(rep, o.Now())
		if err := publishers.PublishAll(ctx, o.Publishers, evt, o.Log); err != nil {
			return rep, fmt.Errorf("publish report: %w", err)
		}
	}

	fields := map[string]any{
		"date":               yesterday.Format(domain.DateLayout),
		"headlines_provider": o.Headlines.ID(),
		"articles":           len(rep.Articles),
		"publishers":         len(o.Publishers),
	}
	if o.Forecast != nil {
		fields["forecast_provider"] = o.Forecast.ID()
	}
	o.Log.InfoObj("report complete", "report_done", fields)
	return rep, nil
}

func writeForecast(w io.Writer, forecast domain.ForecastResult) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, forecast, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}
