package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/law-makers/tutor-scraper/pkg/models"
)

// labelSelector matches the emphasised inline elements that may introduce a
// labelled field, e.g. <strong>Teaching:</strong> Piano.
const labelSelector = "strong, b, em"

// Rules maps an exact, case-sensitive label name to the record field it
// fills.
type Rules map[string]models.Field

// DefaultRules returns the label table used for tutor pages.
func DefaultRules() Rules {
	return Rules{
		"Teaching":  models.FieldTeaching,
		"Levels":    models.FieldLevels,
		"Ages":      models.FieldAges,
		"Genres":    models.FieldGenres,
		"Available": models.FieldAvailable,
	}
}

// Lookup resolves a label name, without its colon, against the table.
func (r Rules) Lookup(name string) (models.Field, bool) {
	f, ok := r[name]
	return f, ok
}

// match reports the field a label element introduces. The element text must
// be a known name followed by a colon. Bold elements (strong, b) may omit the
// colon when they start their line; em never may.
func (r Rules) match(n *html.Node) (models.Field, bool) {
	if !isLabelElement(n) {
		return "", false
	}
	text := collapse(nodeText(n))
	if name, ok := strings.CutSuffix(text, ":"); ok {
		return r.Lookup(strings.TrimSpace(name))
	}
	if n.Data == "em" || !startsLine(n) {
		return "", false
	}
	return r.Lookup(text)
}

func isLabelElement(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "strong", "b", "em":
		return true
	}
	return false
}

// startsLine reports whether only whitespace separates n from the start of
// its parent or the preceding <br>.
func startsLine(n *html.Node) bool {
	for p := n.PrevSibling; p != nil; p = p.PrevSibling {
		switch {
		case p.Type == html.ElementNode && p.Data == "br":
			return true
		case p.Type == html.TextNode && strings.TrimSpace(p.Data) == "":
		case p.Type == html.CommentNode:
		default:
			return false
		}
	}
	return true
}

// applyLabels fills rec from every recognised label inside the container and
// removes each label together with its value, so neither appears in the
// description. A later non-empty value for the same field replaces an
// earlier one.
func applyLabels(container *goquery.Selection, rules Rules, rec *models.TutorRecord) int {
	applied := 0
	labels := container.Find(labelSelector).Nodes

	for _, label := range labels {
		// Skip labels detached by an earlier removal.
		if !container.Contains(label) || label.Parent == nil {
			continue
		}
		field, ok := rules.match(label)
		if !ok {
			continue
		}

		var (
			parts   []string
			consume []*html.Node
		)
		for n := label.NextSibling; n != nil; n = n.NextSibling {
			if n.Type == html.ElementNode && n.Data == "br" {
				break
			}
			if _, next := rules.match(n); next {
				break
			}
			parts = append(parts, nodeText(n))
			consume = append(consume, n)
		}

		value := collapse(strings.Join(parts, ""))
		value = strings.TrimSpace(strings.TrimLeft(value, ":"))

		parent := label.Parent
		for _, n := range consume {
			parent.RemoveChild(n)
		}
		parent.RemoveChild(label)

		if value != "" {
			rec.Set(field, value)
			applied++
		}
	}

	return applied
}
