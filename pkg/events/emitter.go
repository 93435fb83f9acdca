// Package events emits scan lifecycle events to Kafka.
package events

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/kafka"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

const (
	EventScanCompleted = "scan.completed"
	EventListRefreshed = "list.refreshed"
)

// Publisher is the subset of the Kafka producer the emitter needs.
type Publisher interface {
	PublishScanEvent(ctx context.Context, event *kafka.ScanEvent) error
}

// Emitter publishes scan lifecycle events. Emission failures are logged and
// swallowed so event delivery never fails a request.
type Emitter struct {
	producer Publisher
	logger   ectologger.Logger
	enabled  bool
}

// NewEmitter creates a new event emitter. A nil producer disables emission.
func NewEmitter(producer Publisher, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
		enabled:  producer != nil,
	}
}

// EmitScanCompleted publishes a scan.completed event.
func (e *Emitter) EmitScanCompleted(ctx context.Context, collectorID, scanID string, matched []string, detectedCount int) {
	if !e.enabled {
		return
	}

	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitScanCompleted")
	defer span.End()

	event := &kafka.ScanEvent{
		EventType:     EventScanCompleted,
		CollectorID:   collectorID,
		ScanID:        scanID,
		Matched:       matched,
		DetectedCount: detectedCount,
		MatchedCount:  len(matched),
		Timestamp:     time.Now().UTC(),
	}

	if err := e.producer.PublishScanEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).WithFields(map[string]interface{}{
			"collector_id": collectorID,
			"scan_id":      scanID,
		}).Warn("Failed to emit scan.completed event")
	}
}

// EmitListRefreshed publishes a list.refreshed event.
func (e *Emitter) EmitListRefreshed(ctx context.Context, collectorID string, listSize int) {
	if !e.enabled {
		return
	}

	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitListRefreshed")
	defer span.End()

	event := &kafka.ScanEvent{
		EventType:   EventListRefreshed,
		CollectorID: collectorID,
		ListSize:    listSize,
		Timestamp:   time.Now().UTC(),
	}

	if err := e.producer.PublishScanEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).WithField("collector_id", collectorID).Warn("Failed to emit list.refreshed event")
	}
}
