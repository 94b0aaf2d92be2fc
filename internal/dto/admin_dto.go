package dto

import "time"

type IndexDocumentRequest struct {
	SourceId string            `json:"source_id" validate:"required,max=255"`
	Text     string            `json:"text" validate:"required"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type IndexDocumentResponse struct {
	SourceId    string `json:"source_id"`
	ContentHash string `json:"content_hash,omitempty"`
	Chunks      int    `json:"chunks"`
	Skipped     bool   `json:"skipped"`
}

type IndexQueuedResponse struct {
	JobId    string `json:"job_id"`
	SourceId string `json:"source_id"`
}

// PublishIndexDocumentMessage is the watermill payload for async indexing.
type PublishIndexDocumentMessage struct {
	SourceId string            `json:"source_id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type IndexDirectoryResponse struct {
	Directory string                  `json:"directory"`
	Indexed   int                     `json:"indexed"`
	Skipped   int                     `json:"skipped"`
	Failed    int                     `json:"failed"`
	Documents []IndexDocumentResponse `json:"documents"`
}

type InteractionResponse struct {
	SessionId   string                 `json:"session_id"`
	PatientName string                 `json:"patient_name,omitempty"`
	Agent       string                 `json:"agent"`
	MessageType string                 `json:"message_type"`
	Message     string                 `json:"message"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

type LogListResponse struct {
	Id        string                 `json:"id"`
	Level     string                 `json:"level"`
	Module    string                 `json:"module"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp string                 `json:"timestamp"`
}
