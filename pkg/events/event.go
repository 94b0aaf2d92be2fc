package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is anything published on the interaction bus.
type Event interface {
	// ID is unique per event and used for broker-side de-duplication.
	ID() string
	// Subject is the suffix after "events.", e.g. "interaction.user_input".
	Subject() string
	SessionID() string
	Payload() map[string]interface{}
	OccurredAt() time.Time
}

// InteractionEvent mirrors one interaction journal record.
type InteractionEvent struct {
	EventID     string
	MessageType string
	Session     string
	Data        map[string]interface{}
	At          time.Time
}

var _ Event = InteractionEvent{}

func NewInteractionEvent(sessionID, messageType string, data map[string]interface{}, at time.Time) InteractionEvent {
	return InteractionEvent{
		EventID:     uuid.NewString(),
		MessageType: messageType,
		Session:     sessionID,
		Data:        data,
		At:          at,
	}
}

func (e InteractionEvent) ID() string                      { return e.EventID }
func (e InteractionEvent) Subject() string                 { return "interaction." + e.MessageType }
func (e InteractionEvent) SessionID() string               { return e.Session }
func (e InteractionEvent) Payload() map[string]interface{} { return e.Data }
func (e InteractionEvent) OccurredAt() time.Time           { return e.At }
