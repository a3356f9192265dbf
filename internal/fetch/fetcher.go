package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/law-makers/tutor-scraper/internal/proxy"
	"github.com/law-makers/tutor-scraper/internal/ratelimit"
	"github.com/law-makers/tutor-scraper/internal/retry"
	"github.com/law-makers/tutor-scraper/internal/runctx"
)

const (
	acceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptXML  = "application/xml,text/xml;q=0.9,*/*;q=0.8"

	maxBodySize = 10 << 20
)

// Page is a successfully fetched response body.
type Page struct {
	URL          string
	StatusCode   int
	ContentType  string
	Body         []byte
	FetchedAt    time.Time
	ResponseTime int64
}

// Options configures request headers and the retry policy.
type Options struct {
	UserAgent string
	Headers   map[string]string
	Retry     retry.Config
}

// Fetcher performs paced HTTP GETs with a bounded retry policy.
type Fetcher struct {
	client    *http.Client
	limiter   ratelimit.RateLimiter
	proxies   *proxy.ProxyPool
	userAgent string
	headers   map[string]string
	retry     retry.Config
}

// New creates a Fetcher. limiter and proxies may be nil.
func New(client *http.Client, limiter ratelimit.RateLimiter, proxies *proxy.ProxyPool, opts Options) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.Retry.MaxAttempts < 1 {
		opts.Retry.MaxAttempts = 1
	}
	return &Fetcher{
		client:    client,
		limiter:   limiter,
		proxies:   proxies,
		userAgent: opts.UserAgent,
		headers:   opts.Headers,
		retry:     opts.Retry,
	}
}

// Fetch retrieves an HTML page. Every attempt waits on the pacer first; failed
// attempts are retried per the configured policy. The returned error wraps
// ErrFetchFailed and the last *Error.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	var page *Page
	attempt := 0

	err := retry.WithRetry(ctx, f.retry, func() error {
		attempt++
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx, pageURL); err != nil {
				return err
			}
		}

		p, err := f.do(ctx, pageURL, acceptHTML)
		if err != nil {
			runctx.Logger(ctx).Debug().
				Err(err).
				Str("url", pageURL).
				Int("attempt", attempt).
				Msg("Fetch attempt failed")
			return err
		}
		page = p
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrFetchFailed, pageURL, err)
	}

	return page, nil
}

// Get performs a single unpaced GET, used for the sitemap.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (*Page, error) {
	return f.do(ctx, rawURL, acceptXML)
}

func (f *Fetcher) do(ctx context.Context, rawURL, accept string) (*Page, error) {
	start := time.Now()

	proxyURL := ""
	if f.proxies != nil {
		proxyURL = f.proxies.GetNext()
	}

	req, err := http.NewRequestWithContext(proxy.WithProxy(ctx, proxyURL), http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, NewError(ErrCodeNetwork, rawURL, "failed to create request", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for key, value := range f.headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if f.proxies != nil {
			f.proxies.MarkFailed(proxyURL)
		}
		code := ErrCodeNetwork
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			code = ErrCodeTimeout
		}
		return nil, NewError(code, rawURL, "request failed", err).WithRetry()
	}
	defer resp.Body.Close()

	if f.proxies != nil {
		f.proxies.MarkHealthy(proxyURL)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, NewError(ErrCodeStatus, rawURL, "unexpected status",
			retry.NewHTTPError(resp.StatusCode, http.StatusText(resp.StatusCode), "")).
			WithStatus(resp.StatusCode).
			WithRetry()
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, NewError(ErrCodeNetwork, rawURL, "failed to read body", err).WithRetry()
	}

	page := &Page{
		URL:          rawURL,
		StatusCode:   resp.StatusCode,
		ContentType:  resp.Header.Get("Content-Type"),
		Body:         body,
		FetchedAt:    time.Now(),
		ResponseTime: time.Since(start).Milliseconds(),
	}

	runctx.Logger(ctx).Debug().
		Str("url", rawURL).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Int64("response_time_ms", page.ResponseTime).
		Msg("Fetch completed")

	return page, nil
}
