package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Shape describes one page layout: where the tutor's name heading and the
// biography container live.
type Shape struct {
	Name      string
	Title     string
	Container string
}

// DefaultShapes lists the known tutor page layouts in the order they are
// tried.
func DefaultShapes() []Shape {
	return []Shape{
		{
			Name:      "resume",
			Title:     "h2",
			Container: `div.resume-details[itemprop="description"]`,
		},
		{
			Name:      "article",
			Title:     "article#content h2",
			Container: "article#content",
		},
	}
}

// boilerplate matches container fragments that carry navigation or site
// notices rather than biography text.
type boilerplate struct {
	selector string
	exact    string
	contains string
}

var defaultBoilerplate = []boilerplate{
	{selector: "h4", exact: "Resume"},
	{selector: "p", contains: "Return to:"},
	{selector: "p", contains: "Any classes listed below"},
}

func (b boilerplate) matches(sel *goquery.Selection) bool {
	text := collapse(sel.Text())
	if b.exact != "" {
		return text == b.exact
	}
	return strings.Contains(text, b.contains)
}

// stripBoilerplate removes every boilerplate fragment from the container.
func stripBoilerplate(container *goquery.Selection) int {
	removed := 0
	for _, b := range defaultBoilerplate {
		matched := container.Find(b.selector).FilterFunction(func(_ int, s *goquery.Selection) bool {
			return b.matches(s)
		})
		removed += matched.Length()
		matched.Remove()
	}
	return removed
}
