package entity

import (
	"time"

	"github.com/google/uuid"
)

type InteractionType string

const (
	InteractionUserInput     InteractionType = "user_input"
	InteractionAgentResponse InteractionType = "agent_response"
	InteractionHandoff       InteractionType = "agent_handoff"
	InteractionRagRetrieval  InteractionType = "rag_retrieval"
	InteractionWebSearch     InteractionType = "web_search"
	InteractionPatientLookup InteractionType = "patient_lookup"
	InteractionError         InteractionType = "error"
)

// Interaction is one journal record of something that happened in a session.
type Interaction struct {
	Id          uuid.UUID
	SessionId   string
	PatientName string
	Agent       string
	MessageType InteractionType
	Message     string
	Metadata    map[string]interface{}
	CreatedAt   time.Time
}
