package service

import (
	"context"
	"testing"
	"time"

	"discharge-care-be/internal/dto"
	"discharge-care-be/pkg/ai/orchestrator"
	"discharge-care-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConversation struct {
	lastSession string
	lastText    string
	sessions    map[string]store.Session
}

func (f *fakeConversation) ProcessTurn(ctx context.Context, sessionID, userText string) orchestrator.TurnResult {
	f.lastSession, f.lastText = sessionID, userText
	if sessionID == "" {
		sessionID = "generated"
	}
	return orchestrator.TurnResult{
		SessionID:       sessionID,
		Reply:           "reply to " + userText,
		ActiveResponder: store.Clinical,
		Routed:          true,
		PatientName:     "John Smith",
	}
}

func (f *fakeConversation) ResetSession(ctx context.Context, sessionID string) string {
	f.lastSession = sessionID
	return "fresh"
}

func (f *fakeConversation) Snapshot(sessionID string) (store.Session, bool) {
	s, ok := f.sessions[sessionID]
	return s, ok
}

func TestChatServiceSendChat(t *testing.T) {
	conv := &fakeConversation{}
	svc := NewChatService(conv)

	res, err := svc.SendChat(context.Background(), &dto.SendChatRequest{SessionId: " s-1 ", Message: "  is swelling normal?  "})
	require.NoError(t, err)
	assert.Equal(t, "s-1", conv.lastSession)
	assert.Equal(t, "is swelling normal?", conv.lastText)
	assert.Equal(t, "s-1", res.SessionId)
	assert.Equal(t, "clinical", res.ActiveResponder)
	assert.True(t, res.Routed)
	assert.Equal(t, "John Smith", res.PatientName)

	_, err = svc.SendChat(context.Background(), &dto.SendChatRequest{Message: "   "})
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestChatServiceReset(t *testing.T) {
	conv := &fakeConversation{}
	svc := NewChatService(conv)

	res, err := svc.ResetSession(context.Background(), &dto.ResetSessionRequest{SessionId: "old"})
	require.NoError(t, err)
	assert.Equal(t, "fresh", res.SessionId)
	assert.Equal(t, "old", conv.lastSession)
}

func TestChatServiceHistory(t *testing.T) {
	now := time.Now()
	conv := &fakeConversation{sessions: map[string]store.Session{
		"s-1": {
			ID:              "s-1",
			ActiveResponder: store.Receptionist,
			PatientContext:  &store.PatientContext{PatientName: "Jane Doe"},
			Turns: []store.Turn{
				{Author: store.AuthorUser, Text: "hi", Timestamp: now},
				{Author: store.Receptionist, Text: "hello", Timestamp: now},
			},
		},
	}}
	svc := NewChatService(conv)

	res, err := svc.GetChatHistory(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", res.PatientName)
	require.Len(t, res.Turns, 2)
	assert.Equal(t, "user", res.Turns[0].Author)
	assert.Equal(t, "hello", res.Turns[1].Text)

	_, err = svc.GetChatHistory(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
