// Package events_test provides tests for the events package.
package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonesrussell/gotrends/internal/events"
)

func TestPublisher_NewPublisher_RequiresClient(t *testing.T) {
	t.Helper()

	pub := events.NewPublisher(nil, nil)
	if pub != nil {
		t.Error("expected nil publisher when client is nil")
	}
}

func TestPublisher_Publish_NilReceiverIsNoOp(t *testing.T) {
	t.Helper()

	var pub *events.Publisher
	req := events.CrawlRequest{TriggeredBy: events.TriggerManual}

	// Should not panic and return nil
	id, err := pub.Publish(context.Background(), req)
	if err != nil {
		t.Errorf("expected nil error for nil receiver, got: %v", err)
	}
	if id != "" {
		t.Errorf("expected empty event id for nil receiver, got: %v", id)
	}
}

func TestPublisher_PublishAsync_NilReceiverIsNoOp(t *testing.T) {
	t.Helper()

	var pub *events.Publisher
	req := events.CrawlRequest{TriggeredBy: events.TriggerScheduled}

	// Should not panic
	pub.PublishAsync(req)

	// Give the goroutine a chance to run (though it should return immediately)
	time.Sleep(10 * time.Millisecond)
}
