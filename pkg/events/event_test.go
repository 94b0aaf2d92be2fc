package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewInteractionEvent(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	a := NewInteractionEvent("s-1", "agent_handoff", map[string]interface{}{"k": "v"}, at)
	b := NewInteractionEvent("s-1", "agent_handoff", nil, at)

	assert.Equal(t, "interaction.agent_handoff", a.Subject())
	assert.Equal(t, "s-1", a.SessionID())
	assert.Equal(t, at, a.OccurredAt())
	assert.Equal(t, "v", a.Payload()["k"])
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}
