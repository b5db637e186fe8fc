// Package render produces the self-contained HTML trend report.
package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"github.com/jonesrussell/gotrends/internal/classify"
)

//go:embed report.html.tmpl
var reportTemplate string

var tmpl = template.Must(template.New("report").Parse(reportTemplate))

// Input carries everything a single report needs. Stats and NewTitles
// are already classified views, ordered the way they should appear.
type Input struct {
	Title           string
	TypeLabel       string
	TotalTitles     int
	FailedPlatforms []string
	Stats           []classify.StatView
	NewTitles       []classify.SourceGroupView
	GeneratedAt     time.Time
	// ReverseContent flips the word group order so the lowest-frequency
	// groups render first. Header and footer stay in place.
	ReverseContent bool
}

type page struct {
	Title           string
	TypeLabel       string
	TotalTitles     int
	MatchedCount    int
	FailedPlatforms []string
	Stats           []classify.StatView
	NewTitles       []classify.SourceGroupView
	TotalNewCount   int
	GeneratedAt     string
}

// Report renders the HTML document for the given input.
func Report(in Input) (string, error) {
	stats := in.Stats
	if in.ReverseContent {
		stats = make([]classify.StatView, len(in.Stats))
		for i, s := range in.Stats {
			stats[len(in.Stats)-1-i] = s
		}
	}

	matched := 0
	for _, s := range in.Stats {
		matched += len(s.Items)
	}
	newCount := 0
	for _, g := range in.NewTitles {
		newCount += g.Count
	}

	title := in.Title
	if title == "" {
		title = "Trend Report"
	}
	typeLabel := in.TypeLabel
	if typeLabel == "" {
		typeLabel = "summary"
	}

	p := page{
		Title:           title,
		TypeLabel:       typeLabel,
		TotalTitles:     in.TotalTitles,
		MatchedCount:    matched,
		FailedPlatforms: in.FailedPlatforms,
		Stats:           stats,
		NewTitles:       in.NewTitles,
		TotalNewCount:   newCount,
		GeneratedAt:     in.GeneratedAt.Format("2006-01-02 15:04"),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}
