package service

import (
	"context"
	"errors"
	"strings"

	"discharge-care-be/internal/dto"
	"discharge-care-be/pkg/ai/orchestrator"
	"discharge-care-be/pkg/store"
)

var (
	ErrEmptyMessage    = errors.New("message must not be empty")
	ErrSessionNotFound = errors.New("session not found")
)

// Conversation is satisfied by *orchestrator.Orchestrator.
type Conversation interface {
	ProcessTurn(ctx context.Context, sessionID, userText string) orchestrator.TurnResult
	ResetSession(ctx context.Context, sessionID string) string
	Snapshot(sessionID string) (store.Session, bool)
}

type IChatService interface {
	SendChat(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	ResetSession(ctx context.Context, req *dto.ResetSessionRequest) (*dto.ResetSessionResponse, error)
	GetChatHistory(ctx context.Context, sessionId string) (*dto.GetChatHistoryResponse, error)
}

type chatService struct {
	conversation Conversation
}

func NewChatService(conversation Conversation) IChatService {
	return &chatService{conversation: conversation}
}

func (cs *chatService) SendChat(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	text := strings.TrimSpace(req.Message)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	res := cs.conversation.ProcessTurn(ctx, strings.TrimSpace(req.SessionId), text)
	return &dto.SendChatResponse{
		SessionId:       res.SessionID,
		Reply:           res.Reply,
		ActiveResponder: string(res.ActiveResponder),
		Routed:          res.Routed,
		PatientName:     res.PatientName,
	}, nil
}

func (cs *chatService) ResetSession(ctx context.Context, req *dto.ResetSessionRequest) (*dto.ResetSessionResponse, error) {
	id := cs.conversation.ResetSession(ctx, strings.TrimSpace(req.SessionId))
	return &dto.ResetSessionResponse{SessionId: id}, nil
}

func (cs *chatService) GetChatHistory(ctx context.Context, sessionId string) (*dto.GetChatHistoryResponse, error) {
	session, ok := cs.conversation.Snapshot(sessionId)
	if !ok {
		return nil, ErrSessionNotFound
	}

	turns := make([]dto.ChatTurnDTO, 0, len(session.Turns))
	for _, t := range session.Turns {
		turns = append(turns, dto.ChatTurnDTO{
			Author:    string(t.Author),
			Text:      t.Text,
			Timestamp: t.Timestamp,
		})
	}

	res := &dto.GetChatHistoryResponse{
		SessionId:       session.ID,
		ActiveResponder: string(session.ActiveResponder),
		Turns:           turns,
	}
	if session.PatientContext != nil {
		res.PatientName = session.PatientContext.PatientName
	}
	return res, nil
}
