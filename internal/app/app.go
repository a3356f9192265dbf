// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/law-makers/tutor-scraper/internal/config"
	"github.com/law-makers/tutor-scraper/internal/dataset"
	"github.com/law-makers/tutor-scraper/internal/extract"
	"github.com/law-makers/tutor-scraper/internal/fetch"
	"github.com/law-makers/tutor-scraper/internal/proxy"
	"github.com/law-makers/tutor-scraper/internal/ratelimit"
	"github.com/law-makers/tutor-scraper/internal/retry"
	"github.com/law-makers/tutor-scraper/internal/runctx"
	"github.com/law-makers/tutor-scraper/internal/sitemap"
	"github.com/law-makers/tutor-scraper/internal/utils/output"
	"github.com/law-makers/tutor-scraper/pkg/models"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once per command invocation. Use Close() to release idle
// connections on shutdown.
type Application struct {
	Config      *config.Config
	Logger      *zerolog.Logger
	HTTPClient  *http.Client
	RateLimiter *ratelimit.DomainLimiter
	Proxies     *proxy.ProxyPool
	Fetcher     *fetch.Fetcher
	Sitemap     *sitemap.Reader
	Extractor   *extract.Extractor
	startTime   time.Time
}

// RunOptions selects what a run produces.
type RunOptions struct {
	Limit    int
	Schema   output.Schema
	Progress dataset.Progress
}

// Result describes a completed run.
type Result struct {
	RunID    string
	Path     string
	URLs     int
	Stats    dataset.Stats
	Duration time.Duration
}

// New creates and initializes a new Application with all dependencies.
//
// It performs the following initialization steps:
//   - Configures the global logger from the config
//   - Creates the per-host pacer and the proxy pool
//   - Initializes the HTTP client with proxy selection per request
//   - Creates the fetcher, sitemap reader and profile extractor
func New(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := ConfigureLogging(cfg, os.Stderr)

	limiter := ratelimit.NewDomainLimiter(cfg.PageDelay)
	proxies := proxy.NewProxyPool(cfg.Proxies, cfg.ProxyBench)
	logger.Debug().
		Dur("delay", cfg.PageDelay).
		Int("proxies", proxies.Len()).
		Msg("Pacer initialized")

	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
		Transport: &http.Transport{
			Proxy:               proxy.FromRequest,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	fetcher := fetch.New(httpClient, limiter, proxies, fetch.Options{
		UserAgent: cfg.UserAgent,
		Headers:   cfg.Headers,
		Retry:     retry.Fixed(cfg.MaxAttempts, cfg.RetryBackoff),
	})
	logger.Debug().
		Dur("timeout", cfg.HTTPTimeout).
		Int("max_attempts", cfg.MaxAttempts).
		Dur("backoff", cfg.RetryBackoff).
		Msg("Fetcher initialized")

	app := &Application{
		Config:      cfg,
		Logger:      &logger,
		HTTPClient:  httpClient,
		RateLimiter: limiter,
		Proxies:     proxies,
		Fetcher:     fetcher,
		Sitemap:     sitemap.NewReader(fetcher, cfg.PathFilter),
		Extractor:   extract.New(nil, nil),
		startTime:   time.Now(),
	}

	logger.Debug().Msg("Application initialized")
	return app, nil
}

// ConfigureLogging sets the global zerolog level and output from cfg and
// returns the resulting logger.
func ConfigureLogging(cfg *config.Config, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.JSONLog {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	}
	return log.Logger
}

// Run reads the sitemap, builds the dataset and writes it as CSV. Nothing is
// written when the sitemap cannot be read or ctx is cancelled.
func (a *Application) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	ctx, run := runctx.Start(ctx, opts.Schema.Name)
	logger := runctx.Logger(ctx)

	urls, err := a.Sitemap.Read(ctx, a.Config.SitemapURL)
	if err != nil {
		return nil, runctx.Wrap(ctx, err)
	}

	data, stats, err := a.Build(ctx, urls, opts)
	if err != nil {
		return nil, runctx.Wrap(ctx, err)
	}

	path, err := output.SaveCSV(data, opts.Schema, a.Config.OutputDir, a.Config.OutputFile)
	if err != nil {
		return nil, runctx.Wrap(ctx, fmt.Errorf("write dataset: %w", err))
	}

	logger.Info().
		Str("file", path).
		Int("records", len(data)).
		Int("fetch_failures", stats.FetchFailures).
		Int("extract_failures", stats.ExtractFailures).
		Dur("elapsed", run.Elapsed()).
		Msg("Dataset saved")

	return &Result{
		RunID:    run.ID,
		Path:     path,
		URLs:     len(urls),
		Stats:    stats,
		Duration: run.Elapsed(),
	}, nil
}

// Build runs the fetch and extract loop over urls.
func (a *Application) Build(ctx context.Context, urls []string, opts RunOptions) (models.Dataset, dataset.Stats, error) {
	var builderOpts []dataset.Option
	if opts.Progress != nil {
		builderOpts = append(builderOpts, dataset.WithProgress(opts.Progress))
	}
	return dataset.NewBuilder(a.Fetcher, a.Extractor, builderOpts...).Build(ctx, urls, opts.Limit)
}

// Profile fetches and extracts a single page.
func (a *Application) Profile(ctx context.Context, pageURL string) (*models.TutorRecord, error) {
	page, err := a.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	rec, err := a.Extractor.Extract(pageURL, page.Body)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Close gracefully shuts down the application and all its resources.
func (a *Application) Close() error {
	if a.HTTPClient != nil {
		a.HTTPClient.CloseIdleConnections()
	}

	a.Logger.Debug().Dur("uptime", a.Uptime()).Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
