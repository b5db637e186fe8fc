// Package events defines the crawl command stream shared between the web
// service and the crawler worker.
package events

import (
	"time"

	"github.com/google/uuid"
)

// CrawlStream is the Redis stream crawl requests are published to.
const CrawlStream = "gotrends:crawl:requests"

// Crawl request origins.
const (
	TriggerManual    = "manual"
	TriggerScheduled = "scheduled"
)

// CrawlRequest asks the crawler worker to run a crawl cycle.
type CrawlRequest struct {
	EventID     uuid.UUID `json:"event_id"`
	TriggeredBy string    `json:"triggered_by"`
	Timestamp   time.Time `json:"timestamp"`
}
