// Package dataset drives the fetch and extract loop over a list of sitemap
// URLs and assembles the ordered record list.
package dataset

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/law-makers/tutor-scraper/internal/fetch"
	"github.com/law-makers/tutor-scraper/internal/runctx"
	"github.com/law-makers/tutor-scraper/pkg/models"
)

// PageFetcher retrieves a single page.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (*fetch.Page, error)
}

// RecordExtractor turns a page body into a record.
type RecordExtractor interface {
	Extract(pageURL string, body []byte) (models.TutorRecord, error)
}

// Progress is notified before each URL is processed. index is 1-based.
type Progress func(index, total int, pageURL string)

// LogProgress is the default Progress: one info line per URL.
func LogProgress(index, total int, pageURL string) {
	log.Info().Msgf("Processing %d of %d: %s", index, total, pageURL)
}

// Stats summarizes a build.
type Stats struct {
	Processed       int
	FetchFailures   int
	ExtractFailures int
}

// Succeeded is the number of records built from real page content.
func (s Stats) Succeeded() int {
	return s.Processed - s.FetchFailures - s.ExtractFailures
}

// Builder runs URLs through a fetcher and an extractor, one at a time.
type Builder struct {
	fetcher   PageFetcher
	extractor RecordExtractor
	progress  Progress
}

// Option customizes a Builder.
type Option func(*Builder)

// WithProgress replaces the default logging progress callback. A nil
// callback disables notifications.
func WithProgress(p Progress) Option {
	return func(b *Builder) {
		b.progress = p
	}
}

// NewBuilder creates a Builder.
func NewBuilder(fetcher PageFetcher, extractor RecordExtractor, opts ...Option) *Builder {
	b := &Builder{
		fetcher:   fetcher,
		extractor: extractor,
		progress:  LogProgress,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build processes urls in order and returns exactly one record per processed
// URL. A positive limit keeps only the first limit URLs. Per-URL failures
// become placeholder records; only context cancellation aborts the build.
func (b *Builder) Build(ctx context.Context, urls []string, limit int) (models.Dataset, Stats, error) {
	if limit > 0 {
		urls = lo.Slice(urls, 0, limit)
	}

	var stats Stats
	data := make(models.Dataset, 0, len(urls))

	for i, pageURL := range urls {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		if b.progress != nil {
			b.progress(i+1, len(urls), pageURL)
		}

		rec, err := b.one(ctx, pageURL, &stats)
		if err != nil {
			return nil, stats, err
		}
		data = append(data, rec)
		stats.Processed++
	}

	return data, stats, nil
}

func (b *Builder) one(ctx context.Context, pageURL string, stats *Stats) (models.TutorRecord, error) {
	logger := runctx.Logger(ctx)

	page, err := b.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return models.TutorRecord{}, ctxErr
		}
		logger.Error().Err(err).Str("url", pageURL).Msg("Failed to fetch page")
		stats.FetchFailures++
		return models.Placeholder(pageURL, models.DescFetchFailed), nil
	}

	rec, err := b.extractor.Extract(pageURL, page.Body)
	if err != nil {
		logger.Error().Err(err).Str("url", pageURL).Msg("Failed to extract profile")
		stats.ExtractFailures++
		return models.Placeholder(pageURL, models.DescExtractFailed), nil
	}
	return rec, nil
}
