package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/law-makers/tutor-scraper/internal/extract"
	"github.com/law-makers/tutor-scraper/internal/fetch"
	"github.com/law-makers/tutor-scraper/internal/runctx"
	"github.com/law-makers/tutor-scraper/pkg/models"
)

// stubFetcher serves canned bodies and fails for URLs without one.
type stubFetcher struct {
	pages   map[string]string
	fetched []string
}

func (s *stubFetcher) Fetch(ctx context.Context, pageURL string) (*fetch.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.fetched = append(s.fetched, pageURL)
	body, ok := s.pages[pageURL]
	if !ok {
		return nil, fmt.Errorf("%w: %s", fetch.ErrFetchFailed, pageURL)
	}
	return &fetch.Page{URL: pageURL, StatusCode: 200, Body: []byte(body)}, nil
}

type failingExtractor struct{}

func (failingExtractor) Extract(pageURL string, body []byte) (models.TutorRecord, error) {
	return models.TutorRecord{}, fmt.Errorf("%w: %s", extract.ErrExtract, pageURL)
}

func profile(name string) string {
	return `<html><body><h2>` + name + `</h2><div class="resume-details" itemprop="description"><p>Bio of ` + name + `</p></div></body></html>`
}

func TestBuild_AllRecordsInOrder(t *testing.T) {
	urls := []string{"https://x.test/tutor/1", "https://x.test/tutor/2", "https://x.test/tutor/3"}
	f := &stubFetcher{pages: map[string]string{
		urls[0]: profile("Ann"),
		urls[1]: profile("Ben"),
		urls[2]: profile("Cat"),
	}}

	data, stats, err := NewBuilder(f, extract.New(nil, nil), WithProgress(nil)).Build(context.Background(), urls, 0)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	got := make([]string, 0, len(data))
	for _, rec := range data {
		got = append(got, rec.Name+"|"+rec.URL)
	}
	want := []string{"Ann|" + urls[0], "Ben|" + urls[1], "Cat|" + urls[2]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if stats.Processed != 3 || stats.Succeeded() != 3 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestBuild_Limit(t *testing.T) {
	urls := []string{"https://x.test/tutor/1", "https://x.test/tutor/2", "https://x.test/tutor/3"}
	f := &stubFetcher{pages: map[string]string{urls[0]: profile("Ann"), urls[1]: profile("Ben")}}
	b := NewBuilder(f, extract.New(nil, nil), WithProgress(nil))

	data, _, err := b.Build(context.Background(), urls, 2)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(data) != 2 {
		t.Fatalf("expected 2 records, got %d", len(data))
	}
	if diff := cmp.Diff(urls[:2], f.fetched); diff != "" {
		t.Errorf("fetched URLs mismatch (-want +got):\n%s", diff)
	}

	data, _, err = b.Build(context.Background(), urls[:1], 10)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(data) != 1 {
		t.Errorf("expected limit above length to keep everything, got %d", len(data))
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	data, stats, err := NewBuilder(&stubFetcher{}, extract.New(nil, nil)).Build(context.Background(), nil, 0)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(data) != 0 || stats.Processed != 0 {
		t.Errorf("expected empty dataset, got %d records %+v", len(data), stats)
	}
}

func TestBuild_FetchFailureBecomesPlaceholder(t *testing.T) {
	urls := []string{"https://x.test/tutor/1", "https://x.test/tutor/404"}
	f := &stubFetcher{pages: map[string]string{urls[0]: profile("Ann")}}

	data, stats, err := NewBuilder(f, extract.New(nil, nil), WithProgress(nil)).Build(context.Background(), urls, 0)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(data) != 2 {
		t.Fatalf("expected one record per URL, got %d", len(data))
	}

	want := models.TutorRecord{URL: urls[1], Name: "tutor_404", Description: "Failed to fetch content"}
	if diff := cmp.Diff(want, data[1]); diff != "" {
		t.Errorf("placeholder mismatch (-want +got):\n%s", diff)
	}
	if stats.FetchFailures != 1 || stats.Succeeded() != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestBuild_ExtractFailureBecomesPlaceholder(t *testing.T) {
	urls := []string{"https://x.test/tutor/7"}
	f := &stubFetcher{pages: map[string]string{urls[0]: "<html></html>"}}

	data, stats, err := NewBuilder(f, failingExtractor{}, WithProgress(nil)).Build(context.Background(), urls, 0)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := models.Dataset{{URL: urls[0], Name: "tutor_7", Description: "Failed to extract content"}}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("placeholder mismatch (-want +got):\n%s", diff)
	}
	if stats.ExtractFailures != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestBuild_Progress(t *testing.T) {
	urls := []string{"https://x.test/tutor/1", "https://x.test/tutor/2"}
	f := &stubFetcher{pages: map[string]string{}}

	var lines []string
	progress := func(index, total int, pageURL string) {
		lines = append(lines, fmt.Sprintf("Processing %d of %d: %s", index, total, pageURL))
	}

	if _, _, err := NewBuilder(f, extract.New(nil, nil), WithProgress(progress)).Build(context.Background(), urls, 0); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := []string{
		"Processing 1 of 2: https://x.test/tutor/1",
		"Processing 2 of 2: https://x.test/tutor/2",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("progress mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	urls := []string{"https://x.test/tutor/1", "https://x.test/tutor/2"}
	f := &stubFetcher{pages: map[string]string{urls[0]: profile("Ann")}}

	cancelAfterFirst := func(index, total int, pageURL string) {
		if index == 2 {
			cancel()
		}
	}

	data, _, err := NewBuilder(f, extract.New(nil, nil), WithProgress(cancelAfterFirst)).Build(ctx, urls, 0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if data != nil {
		t.Errorf("expected no dataset on cancellation, got %d records", len(data))
	}
	if strings.Join(f.fetched, ",") != urls[0] {
		t.Errorf("expected only the first URL to be fetched, got %v", f.fetched)
	}
}

func TestBuild_LogsCarryRunID(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = prev }()

	ctx, run := runctx.Start(context.Background(), "scrape")
	urls := []string{"https://x.test/tutor/404"}

	if _, _, err := NewBuilder(&stubFetcher{}, extract.New(nil, nil), WithProgress(nil)).Build(ctx, urls, 0); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Failed to fetch page") || !strings.Contains(out, `"run_id":"`+run.ID+`"`) {
		t.Errorf("expected failure line tagged with the run, got %s", out)
	}
}
