// Package ux checks product listing markup against e-commerce usability
// guidelines (Baymard-style heuristics).
package ux

import (
	"fmt"
	"io"
	"math"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Check is a single guideline outcome.
type Check struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
	Pass  bool   `json:"pass" yaml:"pass"`
}

type Summary struct {
	Passed int `json:"passed" yaml:"passed"`
	Total  int `json:"total" yaml:"total"`
	// Score is percentage of passed checks rounded to integer.
	Score int `json:"score" yaml:"score"`
}

// Result is the outcome of one audited section.
type Result struct {
	Section string  `json:"section" yaml:"section"`
	Checks  []Check `json:"checks" yaml:"checks"`
	Summary Summary `json:"summary" yaml:"summary"`
}

// Failed returns checks which did not pass.
func (r Result) Failed() []Check {
	var failed []Check
	for _, c := range r.Checks {
		if !c.Pass {
			failed = append(failed, c)
		}
	}
	return failed
}

const productGridSection = "Product grid / listing"

// page is the audited document: raw markup and its visible text.
type page struct {
	markup string
	text   string
}

type guideline struct {
	id    string
	label string
	test  func(p page) bool
}

var (
	currencyPattern   = regexp.MustCompile(`\$|€|£|\d+\.\d{2}`)
	priceWordPattern  = regexp.MustCompile(`(?i)price|cost`)
	ctaPattern        = regexp.MustCompile(`(?i)add to cart|add to bag|buy now|view product|shop now`)
	titlePattern      = regexp.MustCompile(`<h[23]|class="[^"]*title[^"]*"|class="[^"]*name[^"]*"|itemprop="name"`)
	imageLinkPattern  = regexp.MustCompile(`<a[^>]*>[\s\S]*?<img|href="[^"]*"[^>]*>[\s\S]*?<img`)
	structurePattern  = regexp.MustCompile(`<article|role="listitem"|class="[^"]*product[^"]*"`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// productGrid checks run in this order and appear in results in this order.
var productGrid = []guideline{
	{"visible-price", "Price visible on listing", func(p page) bool {
		return currencyPattern.MatchString(p.text) &&
			(priceWordPattern.MatchString(p.markup) || strings.Contains(p.markup, `itemprop="price"`))
	}},
	{"cta-add-cart", "Clear add-to-cart or view CTA", func(p page) bool {
		return ctaPattern.MatchString(p.text)
	}},
	{"product-title", "Product title/name present", func(p page) bool {
		return titlePattern.MatchString(p.markup)
	}},
	{"image-link", "Product image linked to PDP", func(p page) bool {
		return imageLinkPattern.MatchString(p.markup)
	}},
	{"semantic-structure", "Semantic structure (article/card)", func(p page) bool {
		return structurePattern.MatchString(p.markup)
	}},
}

// Audit runs product grid checks on markup. It never fails: markup which
// cannot be parsed is treated as text.
func Audit(markup string) Result {
	p := page{markup: markup, text: VisibleText(markup)}

	res := Result{Section: productGridSection, Checks: make([]Check, 0, len(productGrid))}
	for _, g := range productGrid {
		pass := g.test(p)
		res.Checks = append(res.Checks, Check{ID: g.id, Label: g.label, Pass: pass})
		if pass {
			res.Summary.Passed++
		}
	}
	res.Summary.Total = len(res.Checks)
	if res.Summary.Total > 0 {
		res.Summary.Score = int(math.Round(float64(res.Summary.Passed) / float64(res.Summary.Total) * 100))
	}
	return res
}

// Issues lists failed checks as messages.
func Issues(markup string) []string {
	issues := make([]string, 0)
	for _, c := range Audit(markup).Failed() {
		issues = append(issues, "Missing or insufficient: "+c.Label)
	}
	return issues
}

// VisibleText returns text content of the document body outside of
// script, style and template elements with whitespace runs collapsed.
func VisibleText(markup string) string {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return collapse(markup)
	}
	var sb strings.Builder
	extractText(doc, &sb)
	return collapse(sb.String())
}

func extractText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		sb.WriteByte(' ')
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "template", "noscript", "head":
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, sb)
	}
}

func collapse(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// Decode reads markup converting it to UTF-8. Encoding is detected from
// content type, byte order mark or meta tags.
func Decode(r io.Reader, contentType string) (string, error) {
	cr, err := charset.NewReader(r, contentType)
	if err != nil {
		return "", fmt.Errorf("unable to detect markup encoding: %w", err)
	}
	data, err := io.ReadAll(cr)
	if err != nil {
		return "", fmt.Errorf("unable to read markup: %w", err)
	}
	return string(data), nil
}
