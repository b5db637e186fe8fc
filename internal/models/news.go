// Package models defines the data structures shared between the browse
// repositories, handlers and the report scanner.
package models

// Platform is one crawled news platform as recorded in a day's crawl
// database.
type Platform struct {
	ID        string `json:"id"          db:"id"`
	Name      string `json:"name"        db:"name"`
	IsActive  bool   `json:"is_active"   db:"is_active"`
	UpdatedAt string `json:"updated_at"  db:"updated_at"`
}

// NewsItem is one crawled news item row.
type NewsItem struct {
	ID             int64   `json:"id"               db:"id"`
	Title          string  `json:"title"            db:"title"`
	PlatformID     string  `json:"platform_id"      db:"platform_id"`
	PlatformName   *string `json:"platform_name"    db:"platform_name"`
	Rank           int     `json:"rank"             db:"rank"`
	URL            string  `json:"url"              db:"url"`
	MobileURL      *string `json:"mobile_url"       db:"mobile_url"`
	FirstCrawlTime string  `json:"first_crawl_time" db:"first_crawl_time"`
	LastCrawlTime  string  `json:"last_crawl_time"  db:"last_crawl_time"`
	CrawlCount     int     `json:"crawl_count"      db:"crawl_count"`
}

// RankEntry is one observation in a news item's rank history.
type RankEntry struct {
	Rank      int    `json:"rank"       db:"rank"`
	CrawlTime string `json:"crawl_time" db:"crawl_time"`
	CreatedAt string `json:"created_at" db:"created_at"`
}

// NewsSearch describes a browse query over a day's news items.
type NewsSearch struct {
	Query      string `json:"q,omitempty"`
	PlatformID string `json:"platform_id,omitempty"`
	Sort       string `json:"sort"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
}

// NewsPage is one page of browse results.
type NewsPage struct {
	Total int        `json:"total"`
	Items []NewsItem `json:"items"`
}
