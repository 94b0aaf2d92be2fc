package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"discharge-care-be/internal/pkg/logger"
	"discharge-care-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const StreamName = "DISCHARGE_EVENTS"

// Publisher handles sending events to the NATS bus.
type Publisher struct {
	nc *nats.Conn
	js jetstream.JetStream
}

func NewPublisher(url string, log logger.ILogger) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Interaction events are an audit trail, kept by age rather than consumed.
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:       StreamName,
		Subjects:   []string{"events.>"},
		Storage:    jetstream.FileStorage,
		Retention:  jetstream.LimitsPolicy,
		MaxAge:     30 * 24 * time.Hour,
		// window for WithMsgID de-duplication
		Duplicates: 2 * time.Minute,
	})
	if err != nil {
		log.Warn("NATS", "Failed to ensure stream", map[string]interface{}{
			"stream": StreamName,
			"error":  err.Error(),
		})
	}

	return &Publisher{nc: nc, js: js}, nil
}

// Publish sends an event to events.<subject> with the event id as the
// JetStream message id, so a retried publish is stored once.
func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	data, err := Encode(event)
	if err != nil {
		return err
	}

	msg := nats.NewMsg(SubjectFor(event))
	msg.Data = data
	msg.Header.Set("Session-Id", event.SessionID())

	if _, err = p.js.PublishMsg(ctx, msg, jetstream.WithMsgID(event.ID())); err != nil {
		return fmt.Errorf("failed to publish event to subject %s: %w", msg.Subject, err)
	}
	return nil
}

func SubjectFor(event events.Event) string {
	return "events." + event.Subject()
}

// Encode renders the wire body: {"id","type","session_id","timestamp","payload"}.
func Encode(event events.Event) ([]byte, error) {
	data, err := json.Marshal(map[string]interface{}{
		"id":         event.ID(),
		"type":       event.Subject(),
		"session_id": event.SessionID(),
		"timestamp":  event.OccurredAt().UTC().Format(time.RFC3339Nano),
		"payload":    event.Payload(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return data, nil
}

func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
