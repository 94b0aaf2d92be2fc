package dto

import "time"

type SendChatRequest struct {
	SessionId string `json:"session_id" validate:"omitempty,max=64"`
	Message   string `json:"message" validate:"required,max=4000"`
}

type SendChatResponse struct {
	SessionId       string `json:"session_id"`
	Reply           string `json:"reply"`
	ActiveResponder string `json:"active_responder"`
	Routed          bool   `json:"routed"`
	PatientName     string `json:"patient_name,omitempty"`
}

type ResetSessionRequest struct {
	SessionId string `json:"session_id" validate:"omitempty,max=64"`
}

type ResetSessionResponse struct {
	SessionId string `json:"session_id"`
}

type ChatTurnDTO struct {
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type GetChatHistoryResponse struct {
	SessionId       string        `json:"session_id"`
	ActiveResponder string        `json:"active_responder"`
	PatientName     string        `json:"patient_name,omitempty"`
	Turns           []ChatTurnDTO `json:"turns"`
}

// ChatSocketRequest is one inbound websocket frame. Type is "message" or "reset".
type ChatSocketRequest struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type ChatSocketResponse struct {
	Type            string `json:"type"` // "reply" | "reset" | "error"
	SessionId       string `json:"session_id"`
	Reply           string `json:"reply,omitempty"`
	ActiveResponder string `json:"active_responder,omitempty"`
	Error           string `json:"error,omitempty"`
}
