package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adda-Baaj/cron-report/internal/config"
	"github.com/Adda-Baaj/cron-report/internal/domain"
	"github.com/Adda-Baaj/cron-report/internal/logger"
	"github.com/Adda-Baaj/cron-report/internal/report"
	"github.com/Adda-Baaj/cron-report/pkg/httpclient"
	"github.com/Adda-Baaj/cron-report/pkg/providers"
	"github.com/Adda-Baaj/cron-report/pkg/publishers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	stop()

	if err != nil {
		log.ErrorObj("report run failed", "report_failed", map[string]any{"error": err.Error()})
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	client := httpclient.NewRestyClient(cfg.HTTP.Timeout).SetUserAgent(cfg.HTTP.UserAgent)

	opts := report.Options{
		Headlines: providers.NewNewsAPIFetcher(client, providers.Provider{
			BaseURL: cfg.News.URL,
			APIKey:  cfg.News.APIKey,
		}, cfg.News.StatusPolicy, time.Now, log),
		Request: providers.HeadlineRequest{
			Count:   cfg.News.Count,
			Country: cfg.News.Country,
			Query:   cfg.News.Query,
		},
		Coordinate: domain.Coordinate{Latitude: cfg.Weather.Latitude, Longitude: cfg.Weather.Longitude},
		Out:        os.Stdout,
		Log:        log,
	}
	if cfg.Weather.Enabled {
		opts.Forecast = providers.NewOpenMeteoFetcher(client, providers.Provider{BaseURL: cfg.Weather.URL}, time.Now, log)
	}

	if cfg.PublishersFile != "" {
		pubCfgs, err := publishers.LoadFile(cfg.PublishersFile)
		if err != nil {
			return err
		}
		pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), pubCfgs, log)
		if err != nil {
			return err
		}
		opts.Publishers = pubs
		defer func() {
			if cerr := publishers.CloseAll(pubs); cerr != nil {
				log.WarnObj("closing publishers failed", "publishers_close_error", map[string]any{"error": cerr.Error()})
			}
		}()
	}

	runner, err := report.NewRunner(opts)
	if err != nil {
		return err
	}

	_, err = runner.Run(ctx)
	return err
}
