package models

import (
	"fmt"
	"net/url"
	"strings"
)

// Placeholder descriptions used when a page could not be turned into a record.
const (
	DescFetchFailed   = "Failed to fetch content"
	DescExtractFailed = "Failed to extract content"
)

// TutorRecord is one row of output, built once per sitemap URL.
type TutorRecord struct {
	URL         string `json:"url"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Teaching    string `json:"teaching,omitempty"`
	Levels      string `json:"levels,omitempty"`
	Ages        string `json:"ages,omitempty"`
	Genres      string `json:"genres,omitempty"`
	Available   string `json:"available,omitempty"`
}

// Dataset is the ordered list of records for a run, in sitemap order.
type Dataset []TutorRecord

// Field identifies one of the labeled sub-fields of a tutor biography.
type Field string

const (
	FieldTeaching  Field = "Teaching"
	FieldLevels    Field = "Levels"
	FieldAges      Field = "Ages"
	FieldGenres    Field = "Genres"
	FieldAvailable Field = "Available"
)

// Set assigns value to the record field identified by f.
func (r *TutorRecord) Set(f Field, value string) {
	switch f {
	case FieldTeaching:
		r.Teaching = value
	case FieldLevels:
		r.Levels = value
	case FieldAges:
		r.Ages = value
	case FieldGenres:
		r.Genres = value
	case FieldAvailable:
		r.Available = value
	}
}

// Placeholder builds the record emitted for a URL whose page could not be
// fetched or parsed.
func Placeholder(pageURL, description string) TutorRecord {
	return TutorRecord{
		URL:         pageURL,
		Name:        FallbackName(pageURL),
		Description: description,
	}
}

// FallbackName synthesizes a tutor name from the last path segment of the URL,
// e.g. https://example.com/tutor/42 -> tutor_42.
func FallbackName(pageURL string) string {
	return fmt.Sprintf("tutor_%s", lastSegment(pageURL))
}

func lastSegment(pageURL string) string {
	p := pageURL
	if u, err := url.Parse(pageURL); err == nil && u.Path != "" {
		p = u.Path
	}
	p = strings.TrimRight(p, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}
