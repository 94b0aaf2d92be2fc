package interaction

import (
	"context"
	"time"
)

const (
	TypeUserInput     = "user_input"
	TypeAgentResponse = "agent_response"
	TypeHandoff       = "agent_handoff"
	TypeRagRetrieval  = "rag_retrieval"
	TypeWebSearch     = "web_search"
	TypePatientLookup = "patient_lookup"
	TypeError         = "error"
)

// Record is one journal entry. Agent is the responder tag or "system".
type Record struct {
	SessionID   string                 `json:"session_id"`
	PatientName string                 `json:"patient_name,omitempty"`
	Agent       string                 `json:"agent"`
	MessageType string                 `json:"message_type"`
	Text        string                 `json:"text"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
}

// Sink accepts journal records. Implementations handle their own failures;
// callers never see an error.
type Sink interface {
	Record(ctx context.Context, rec Record)
}

// MultiSink fans a record out to every sink in order.
type MultiSink []Sink

func (m MultiSink) Record(ctx context.Context, rec Record) {
	for _, s := range m {
		if s != nil {
			s.Record(ctx, rec)
		}
	}
}

type NopSink struct{}

func (NopSink) Record(context.Context, Record) {}

// Stamp fills the timestamp when the caller left it empty.
func Stamp(rec Record) Record {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	return rec
}
