package inspect_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gotrends/internal/classify"
	"github.com/jonesrussell/gotrends/internal/inspect"
	"github.com/jonesrussell/gotrends/internal/render"
)

func TestReportSummary(t *testing.T) {
	html, err := render.Report(render.Input{
		Title:           "Evening Trends",
		TotalTitles:     40,
		FailedPlatforms: []string{"toutiao", "douyin"},
		Stats: classify.Classify([]classify.RawStat{
			{Word: "ai", Count: 12, Items: []classify.RawItem{
				{SourceName: "weibo", Title: "one", Ranks: []int{1}},
				{SourceName: "zhihu", Title: "two", Ranks: []int{9}},
			}},
			{Word: "energy", Count: 3, Items: []classify.RawItem{
				{SourceName: "weibo", Title: "three", Ranks: []int{4}},
			}},
		}),
		GeneratedAt: time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	summary, err := inspect.Report(strings.NewReader(html))
	require.NoError(t, err)

	assert.Equal(t, "Evening Trends", summary.Title)
	assert.Equal(t, "2026-03-14 18:00", summary.GeneratedAt)
	require.Len(t, summary.Groups, 2)
	assert.Equal(t, "stat-1", summary.Groups[0].ID)
	assert.Equal(t, "ai", summary.Groups[0].Word)
	assert.Equal(t, 2, summary.Groups[0].ItemCount)
	assert.Equal(t, "energy", summary.Groups[1].Word)
	assert.Equal(t, 3, summary.TotalItems)
	assert.True(t, summary.HasErrorSection)
	assert.Equal(t, []string{"toutiao", "douyin"}, summary.FailedPlatforms)
}

func TestReportSummarySkipsNewTitlesBlock(t *testing.T) {
	html, err := render.Report(render.Input{
		Title: "Morning Trends",
		Stats: classify.Classify([]classify.RawStat{
			{Word: "ai", Count: 6, Items: []classify.RawItem{
				{SourceName: "weibo", Title: "one", Ranks: []int{2}},
			}},
		}),
		NewTitles: classify.ClassifyNewTitles([]classify.RawSourceGroup{
			{SourceName: "zhihu", Items: []classify.RawItem{
				{SourceName: "zhihu", Title: "fresh", Ranks: []int{7}},
			}},
		}),
		GeneratedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	summary, err := inspect.Report(strings.NewReader(html))
	require.NoError(t, err)

	require.Len(t, summary.Groups, 1)
	assert.Equal(t, "stat-1", summary.Groups[0].ID)
	assert.Equal(t, "ai", summary.Groups[0].Word)
	assert.Equal(t, 1, summary.TotalItems)
}

func TestReportSummaryNoErrorSection(t *testing.T) {
	html, err := render.Report(render.Input{
		Title:       "Quiet Day",
		GeneratedAt: time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	summary, err := inspect.Report(strings.NewReader(html))
	require.NoError(t, err)

	assert.False(t, summary.HasErrorSection)
	assert.Empty(t, summary.FailedPlatforms)
	assert.Empty(t, summary.Groups)
}

func TestReportSummaryNotHTML(t *testing.T) {
	// goquery parses almost anything; plain text yields an empty summary
	// rather than an error.
	summary, err := inspect.Report(strings.NewReader("just text"))
	require.NoError(t, err)
	assert.Empty(t, summary.Title)
}
