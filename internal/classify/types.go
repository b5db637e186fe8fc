package classify

// HeatBucket is the coarse popularity classification of a keyword group,
// derived from its match count.
type HeatBucket string

const (
	HeatNone HeatBucket = ""
	HeatWarm HeatBucket = "warm"
	HeatHot  HeatBucket = "hot"
)

// RankBucket is the coarse prominence classification of a news item, derived
// from the best rank it was observed at across crawl passes.
type RankBucket string

const (
	RankNone RankBucket = ""
	RankHigh RankBucket = "high"
	RankTop  RankBucket = "top"
)

// RawStat is one keyword group's aggregate for a crawl cycle, produced fresh
// each run by the upstream crawler.
type RawStat struct {
	Word       string    `json:"word"`
	Count      int       `json:"count"`
	Percentage int       `json:"percentage"`
	Items      []RawItem `json:"items"`
}

// RawItem is one news item within a keyword group.
type RawItem struct {
	SourceName      string `json:"source_name"`
	Title           string `json:"title"`
	URL             string `json:"url"`
	MobileURL       string `json:"mobile_url,omitempty"`
	Ranks           []int  `json:"ranks"`
	OccurrenceCount int    `json:"occurrence_count"`
	TimeDisplay     string `json:"time_display,omitempty"`
	IsNew           bool   `json:"is_new"`
	RankThreshold   int    `json:"rank_threshold,omitempty"`
}

// RawSourceGroup is one source's newly appeared items, produced by the
// upstream dedup pass.
type RawSourceGroup struct {
	SourceName string    `json:"source_name"`
	Items      []RawItem `json:"items"`
}

// StatView is the presentation-ready view of one keyword group.
type StatView struct {
	Word        string     `json:"word"`
	Count       int        `json:"count"`
	Percentage  int        `json:"percentage"`
	Heat        HeatBucket `json:"heat"`
	OrderIndex  int        `json:"order_index"`
	TotalGroups int        `json:"total_groups"`
	Items       []ItemView `json:"items"`
}

// ItemView is the presentation-ready view of one news item.
type ItemView struct {
	SourceName      string     `json:"source_name"`
	Title           string     `json:"title"`
	LinkURL         string     `json:"link_url,omitempty"`
	DisplayNumber   int        `json:"display_number"`
	Rank            RankBucket `json:"rank"`
	RankLabel       string     `json:"rank_label"`
	TimeLabel       string     `json:"time_label,omitempty"`
	OccurrenceLabel string     `json:"occurrence_label,omitempty"`
	IsNew           bool       `json:"is_new"`
}

// SourceGroupView is the presentation-ready view of one source's newly
// appeared items.
type SourceGroupView struct {
	SourceName string     `json:"source_name"`
	Count      int        `json:"count"`
	Items      []ItemView `json:"items"`
}
