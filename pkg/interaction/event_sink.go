package interaction

import (
	"context"
	"time"

	"discharge-care-be/internal/pkg/logger"
	"discharge-care-be/pkg/events"
)

// Publisher is satisfied by *nats.Publisher.
type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// EventSink publishes each record as an interaction.<type> event.
type EventSink struct {
	publisher Publisher
	timeout   time.Duration
	log       logger.ILogger
}

func NewEventSink(publisher Publisher, log logger.ILogger) *EventSink {
	return &EventSink{publisher: publisher, timeout: 3 * time.Second, log: log}
}

func (s *EventSink) Record(ctx context.Context, rec Record) {
	rec = Stamp(rec)
	payload := map[string]interface{}{
		"session_id":   rec.SessionID,
		"patient_name": rec.PatientName,
		"agent":        rec.Agent,
		"message_type": rec.MessageType,
		"text":         rec.Text,
		"metadata":     rec.Metadata,
	}

	// Detached from the request so a finished turn does not cancel the publish.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, events.NewInteractionEvent(rec.SessionID, rec.MessageType, payload, rec.Timestamp)); err != nil {
		s.log.Warn("INTERACTION", "Failed to publish interaction event", map[string]interface{}{
			"session_id":   rec.SessionID,
			"message_type": rec.MessageType,
			"error":        err.Error(),
		})
	}
}
