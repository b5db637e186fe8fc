// Package inspect parses rendered report HTML back into a structural
// summary. The frontend uses it to show what a stored report contains
// without re-running aggregation for past days.
package inspect

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// GroupSummary describes one atomic group in a rendered report.
type GroupSummary struct {
	ID        string `json:"id"`
	Word      string `json:"word"`
	ItemCount int    `json:"item_count"`
}

// Summary is the structural digest of a rendered report document.
type Summary struct {
	Title           string         `json:"title"`
	GeneratedAt     string         `json:"generated_at"`
	Groups          []GroupSummary `json:"groups"`
	TotalItems      int            `json:"total_items"`
	HasErrorSection bool           `json:"has_error_section"`
	FailedPlatforms []string       `json:"failed_platforms,omitempty"`
}

// Report parses a rendered report document.
func Report(r io.Reader) (*Summary, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse report html: %w", err)
	}

	summary := &Summary{
		Title: strings.TrimSpace(doc.Find(".header-title").First().Text()),
	}

	// The generation timestamp is the last header pill.
	summary.GeneratedAt = strings.TrimSpace(doc.Find(".header-meta .pill").Last().Text())

	// Keyword groups only; the new-titles block shares the word-group class
	// but carries its own data-group id.
	doc.Find(".word-group").Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr("data-group")
		if !strings.HasPrefix(id, "stat-") {
			return
		}
		items := sel.Find(".news-item").Length()
		summary.Groups = append(summary.Groups, GroupSummary{
			ID:        id,
			Word:      strings.TrimSpace(sel.Find(".word-name").First().Text()),
			ItemCount: items,
		})
		summary.TotalItems += items
	})

	errSection := doc.Find(".error-section")
	summary.HasErrorSection = errSection.Length() > 0
	errSection.Find(".error-item").Each(func(_ int, sel *goquery.Selection) {
		summary.FailedPlatforms = append(summary.FailedPlatforms, strings.TrimSpace(sel.Text()))
	})

	return summary, nil
}
