// Package activity counts domain events for the health endpoint.
package activity

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/nfrund/stylelens/internal/pubsub"
)

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Captures         int64     `json:"captures"`
	ReportsGenerated int64     `json:"reports_generated"`
	ReportsFailed    int64     `json:"reports_failed"`
	ChatReplies      int64     `json:"chat_replies"`
	ChatFailures     int64     `json:"chat_failures"`
	Since            time.Time `json:"since"`
}

// Tracker keeps process-lifetime counters fed by the event bus.
type Tracker struct {
	captures         atomic.Int64
	reportsGenerated atomic.Int64
	reportsFailed    atomic.Int64
	chatReplies      atomic.Int64
	chatFailures     atomic.Int64
	since            time.Time
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{since: time.Now().UTC()}
}

// Start subscribes the tracker to every counted topic.
func (t *Tracker) Start(ctx context.Context, sub pubsub.Subscriber) error {
	err := pubsub.Subscribe(ctx, sub, pubsub.TopicImageCaptured, func(context.Context, string, pubsub.ImageCaptured) error {
		t.captures.Add(1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", pubsub.TopicImageCaptured.Name(), err)
	}

	err = pubsub.Subscribe(ctx, sub, pubsub.TopicReportGenerated, func(context.Context, string, pubsub.ReportGenerated) error {
		t.reportsGenerated.Add(1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", pubsub.TopicReportGenerated.Name(), err)
	}

	err = pubsub.Subscribe(ctx, sub, pubsub.TopicReportFailed, func(context.Context, string, pubsub.ReportFailed) error {
		t.reportsFailed.Add(1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", pubsub.TopicReportFailed.Name(), err)
	}

	err = pubsub.Subscribe(ctx, sub, pubsub.TopicChatExchanged, func(_ context.Context, _ string, ev pubsub.ChatExchanged) error {
		if ev.Failed {
			t.chatFailures.Add(1)
		} else {
			t.chatReplies.Add(1)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", pubsub.TopicChatExchanged.Name(), err)
	}
	return nil
}

// Snapshot returns the current counter values.
func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		Captures:         t.captures.Load(),
		ReportsGenerated: t.reportsGenerated.Load(),
		ReportsFailed:    t.reportsFailed.Load(),
		ChatReplies:      t.chatReplies.Load(),
		ChatFailures:     t.chatFailures.Load(),
		Since:            t.since,
	}
}
