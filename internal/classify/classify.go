// Package classify turns raw per-keyword crawl aggregates into the
// presentation-ready view model consumed by the report renderer. It performs
// no I/O and keeps no state; classifying the same input twice yields
// identical output.
package classify

import (
	"fmt"
	"strings"
)

const (
	// Heat bucket thresholds on a group's match count.
	hotCountThreshold  = 10
	warmCountThreshold = 5

	// Rank bucket threshold for a top placement. The "high" threshold comes
	// from each item's RankThreshold.
	topRankThreshold = 3

	defaultRankThreshold = 10

	// unknownRankLabel is emitted when an item carries no observed ranks.
	unknownRankLabel = "unknown"
)

// Classify derives the view model for a sequence of keyword aggregates.
// Input order is preserved; callers control priority ordering upstream.
func Classify(stats []RawStat) []StatView {
	views := make([]StatView, 0, len(stats))
	for i, stat := range stats {
		views = append(views, StatView{
			Word:        stat.Word,
			Count:       stat.Count,
			Percentage:  stat.Percentage,
			Heat:        heatBucket(stat.Count),
			OrderIndex:  i + 1,
			TotalGroups: len(stats),
			Items:       classifyItems(stat.Items),
		})
	}
	return views
}

// ClassifyNewTitles derives the view model for the "new since last run"
// section, grouped by source. Items without observed ranks keep the "?"
// placeholder label the report has always shown there.
func ClassifyNewTitles(groups []RawSourceGroup) []SourceGroupView {
	views := make([]SourceGroupView, 0, len(groups))
	for _, group := range groups {
		items := classifyItems(group.Items)
		for i := range items {
			if len(group.Items[i].Ranks) == 0 {
				items[i].RankLabel = "?"
			}
		}
		views = append(views, SourceGroupView{
			SourceName: group.SourceName,
			Count:      len(items),
			Items:      items,
		})
	}
	return views
}

func classifyItems(items []RawItem) []ItemView {
	views := make([]ItemView, 0, len(items))
	for i, item := range items {
		rank, label := rankBucket(item.Ranks, item.RankThreshold)

		view := ItemView{
			SourceName:    item.SourceName,
			Title:         item.Title,
			LinkURL:       linkURL(item),
			DisplayNumber: i + 1,
			Rank:          rank,
			RankLabel:     label,
			TimeLabel:     simplifyTimeLabel(item.TimeDisplay),
			IsNew:         item.IsNew,
		}
		if item.OccurrenceCount > 1 {
			view.OccurrenceLabel = fmt.Sprintf("%dx", item.OccurrenceCount)
		}
		views = append(views, view)
	}
	return views
}

func heatBucket(count int) HeatBucket {
	switch {
	case count >= hotCountThreshold:
		return HeatHot
	case count >= warmCountThreshold:
		return HeatWarm
	default:
		return HeatNone
	}
}

func rankBucket(ranks []int, threshold int) (RankBucket, string) {
	if len(ranks) == 0 {
		return RankNone, unknownRankLabel
	}
	if threshold <= 0 {
		threshold = defaultRankThreshold
	}

	minRank, maxRank := ranks[0], ranks[0]
	for _, r := range ranks[1:] {
		if r < minRank {
			minRank = r
		}
		if r > maxRank {
			maxRank = r
		}
	}

	label := fmt.Sprintf("%d", minRank)
	if minRank != maxRank {
		label = fmt.Sprintf("%d-%d", minRank, maxRank)
	}

	switch {
	case minRank <= topRankThreshold:
		return RankTop, label
	case minRank <= threshold:
		return RankHigh, label
	default:
		return RankNone, label
	}
}

// simplifyTimeLabel compresses the crawler's free-form time range into the
// compact form the report shows: "[09:00 ~ 12:00]" becomes "09:00~12:00".
func simplifyTimeLabel(display string) string {
	if display == "" {
		return ""
	}
	r := strings.NewReplacer(" ~ ", "~", "[", "", "]", "")
	return r.Replace(display)
}

func linkURL(item RawItem) string {
	if item.MobileURL != "" {
		return item.MobileURL
	}
	return item.URL
}
