// Package sitemap reads sitemaps.org url sets and filters their locations.
package sitemap

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/net/html/charset"

	"github.com/law-makers/tutor-scraper/internal/fetch"
	urlutil "github.com/law-makers/tutor-scraper/internal/utils/url"
)

// Namespace is the sitemaps.org 0.9 schema namespace.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// URLSet is the root element of a sitemap.
type URLSet struct {
	XMLName xml.Name `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 urlset"`
	URLs    []URL    `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 url"`
}

// URL is a single url entry of a sitemap.
type URL struct {
	Loc     string `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 loc"`
	LastMod string `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 lastmod,omitempty"`
}

// Getter performs a single GET.
type Getter interface {
	Get(ctx context.Context, rawURL string) (*fetch.Page, error)
}

// Reader downloads a sitemap and returns the locations matching a path filter.
type Reader struct {
	getter Getter
	filter string
}

// NewReader creates a Reader keeping locations that contain filter.
func NewReader(getter Getter, filter string) *Reader {
	return &Reader{getter: getter, filter: filter}
}

// Read fetches sitemapURL and returns the matching locations in document
// order. Any failure is returned as a *fetch.Error with code SITEMAP.
func (r *Reader) Read(ctx context.Context, sitemapURL string) ([]string, error) {
	log.Info().Str("sitemap", sitemapURL).Msg("Getting tutor URLs from sitemap")

	page, err := r.getter.Get(ctx, sitemapURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fetch.NewError(fetch.ErrCodeSitemap, sitemapURL, "failed to download sitemap", err)
	}

	locs, err := Parse(page.Body)
	if err != nil {
		return nil, fetch.NewError(fetch.ErrCodeSitemap, sitemapURL, "failed to parse sitemap", err)
	}

	// Relative locations are tolerated and resolved against the sitemap itself.
	locs = lo.Map(locs, func(loc string, _ int) string {
		return urlutil.ResolveURL(sitemapURL, loc)
	})

	urls := Filter(locs, r.filter)
	log.Info().
		Int("total", len(locs)).
		Int("matched", len(urls)).
		Str("filter", r.filter).
		Msg("Sitemap parsed")

	return urls, nil
}

// Parse decodes a sitemap url set and returns its trimmed, non-empty
// locations in document order.
func Parse(data []byte) ([]string, error) {
	var set URLSet
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&set); err != nil {
		return nil, fmt.Errorf("decode urlset: %w", err)
	}
	if err := expectEOF(dec); err != nil {
		return nil, err
	}

	return lo.FilterMap(set.URLs, func(u URL, _ int) (string, bool) {
		loc := strings.TrimSpace(u.Loc)
		return loc, loc != ""
	}), nil
}

// expectEOF rejects anything but whitespace and comments after the root
// element.
func expectEOF(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("decode urlset: %w", err)
		}
		switch t := tok.(type) {
		case xml.Comment:
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return fmt.Errorf("unexpected text after urlset")
			}
		default:
			return fmt.Errorf("unexpected %T after urlset", tok)
		}
	}
}

// Filter keeps the locations whose URL path contains substr, preserving
// order. Unparseable locations are dropped.
func Filter(locs []string, substr string) []string {
	return lo.Filter(locs, func(loc string, _ int) bool {
		u, err := url.Parse(loc)
		return err == nil && strings.Contains(u.Path, substr)
	})
}
