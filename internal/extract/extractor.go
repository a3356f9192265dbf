// Package extract turns a tutor profile page into a models.TutorRecord.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/law-makers/tutor-scraper/pkg/models"
)

// ErrExtract reports a page whose markup could not be processed.
var ErrExtract = errors.New("failed to extract content")

// Extractor applies page shapes, boilerplate stripping and the label table
// to raw HTML.
type Extractor struct {
	shapes []Shape
	rules  Rules
}

// New creates an Extractor. Nil arguments select the defaults.
func New(shapes []Shape, rules Rules) *Extractor {
	if len(shapes) == 0 {
		shapes = DefaultShapes()
	}
	if rules == nil {
		rules = DefaultRules()
	}
	return &Extractor{shapes: shapes, rules: rules}
}

// Extract parses body and builds the record for pageURL. Fields missing
// from the page are left empty and a page with no usable heading is named
// after its URL. Any failure to process the markup is returned wrapping
// ErrExtract.
func (e *Extractor) Extract(pageURL string, body []byte) (models.TutorRecord, error) {
	return e.ExtractFrom(pageURL, bytes.NewReader(body))
}

// ExtractFrom is Extract over a streamed document.
func (e *Extractor) ExtractFrom(pageURL string, r io.Reader) (rec models.TutorRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec = models.TutorRecord{}
			err = fmt.Errorf("%w: %s: %v", ErrExtract, pageURL, r)
		}
	}()

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return models.TutorRecord{}, fmt.Errorf("%w: %s: %w", ErrExtract, pageURL, err)
	}

	rec = models.TutorRecord{URL: pageURL}

	shape, container := e.match(doc)
	rec.Name = e.title(doc, shape)
	if rec.Name == "" {
		rec.Name = models.FallbackName(pageURL)
	}

	if container == nil {
		log.Debug().Str("url", pageURL).Msg("No description container found")
		return rec, nil
	}

	// A heading inside the container is the name, not the description.
	if heading := doc.Find(shape.Title).First(); heading.Length() > 0 && container.Contains(heading.Nodes[0]) {
		heading.Remove()
	}

	stripped := stripBoilerplate(container)
	labelled := applyLabels(container, e.rules, &rec)
	rec.Description = Flatten(container.Nodes[0])

	log.Debug().
		Str("url", pageURL).
		Str("shape", shape.Name).
		Int("boilerplate_removed", stripped).
		Int("labels", labelled).
		Msg("Extracted profile")

	return rec, nil
}

// match returns the first shape whose container exists in doc.
func (e *Extractor) match(doc *goquery.Document) (Shape, *goquery.Selection) {
	for _, s := range e.shapes {
		if sel := doc.Find(s.Container).First(); sel.Length() > 0 {
			return s, sel
		}
	}
	return Shape{}, nil
}

// title tries the matched shape's heading first, then every other shape's.
func (e *Extractor) title(doc *goquery.Document, matched Shape) string {
	candidates := make([]string, 0, len(e.shapes)+1)
	if matched.Title != "" {
		candidates = append(candidates, matched.Title)
	}
	for _, s := range e.shapes {
		if s.Title != matched.Title {
			candidates = append(candidates, s.Title)
		}
	}

	for _, sel := range candidates {
		if t := collapse(doc.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}
