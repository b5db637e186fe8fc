package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/gotrends/internal/logger"
)

// asyncPublishTimeout is the context timeout for async publish operations.
const asyncPublishTimeout = 5 * time.Second

// Publisher publishes crawl requests to the Redis command stream.
type Publisher struct {
	client *redis.Client
	log    logger.Logger
}

// NewPublisher creates a new crawl request publisher.
// Returns nil if client is nil.
func NewPublisher(client *redis.Client, log logger.Logger) *Publisher {
	if client == nil {
		return nil
	}
	return &Publisher{
		client: client,
		log:    log,
	}
}

// Publish sends a crawl request to the stream. A nil publisher is a no-op,
// so callers running without Redis don't need to guard every call site.
func (p *Publisher) Publish(ctx context.Context, req CrawlRequest) (string, error) {
	if p == nil || p.client == nil {
		return "", nil
	}

	if req.EventID == uuid.Nil {
		req.EventID = uuid.New()
	}
	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now().UTC()
	}
	if req.TriggeredBy == "" {
		req.TriggeredBy = TriggerManual
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal crawl request: %w", err)
	}

	result := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: CrawlStream,
		Values: map[string]any{
			"event": string(payload),
		},
	})

	if publishErr := result.Err(); publishErr != nil {
		if p.log != nil {
			p.log.Error("Failed to publish crawl request",
				logger.String("triggered_by", req.TriggeredBy),
				logger.String("event_id", req.EventID.String()),
				logger.Error(publishErr),
			)
		}
		return "", fmt.Errorf("publish to stream: %w", publishErr)
	}

	if p.log != nil {
		p.log.Info("Published crawl request",
			logger.String("triggered_by", req.TriggeredBy),
			logger.String("event_id", req.EventID.String()),
			logger.String("stream_id", result.Val()),
		)
	}

	return req.EventID.String(), nil
}

// PublishAsync publishes a crawl request asynchronously.
// Errors are logged but not returned.
func (p *Publisher) PublishAsync(req CrawlRequest) {
	if p == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncPublishTimeout)
		defer cancel()

		if _, err := p.Publish(ctx, req); err != nil && p.log != nil {
			p.log.Error("Async publish failed",
				logger.String("triggered_by", req.TriggeredBy),
				logger.Error(err),
			)
		}
	}()
}
