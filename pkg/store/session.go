package store

import (
	"time"
)

// Responder identifies which conversational role produced a turn or owns the session.
type Responder string

const (
	AuthorUser   Responder = "user"
	Receptionist Responder = "receptionist"
	Clinical     Responder = "clinical"
)

// Turn is one message in the conversation. Turns are never edited after append.
type Turn struct {
	Author    Responder `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// PatientContext is the discharge record attached to a session once the
// patient has been identified.
type PatientContext struct {
	PatientName           string   `json:"patient_name"`
	DischargeDate         string   `json:"discharge_date"`
	PrimaryDiagnosis      string   `json:"primary_diagnosis"`
	Medications           []string `json:"medications"`
	DietaryRestrictions   string   `json:"dietary_restrictions"`
	FollowUp              string   `json:"follow_up"`
	WarningSigns          string   `json:"warning_signs"`
	DischargeInstructions string   `json:"discharge_instructions"`
}

// Session represents the active conversation state in memory
type Session struct {
	ID              string          `json:"id"`
	Turns           []Turn          `json:"turns"`
	ActiveResponder Responder       `json:"active_responder"`
	PatientContext  *PatientContext `json:"patient_context,omitempty"`
	LastResponse    string          `json:"last_response"`
	CreatedAt       time.Time       `json:"created_at"`
}

func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:              id,
		ActiveResponder: Receptionist,
		CreatedAt:       now,
	}
}

// Append adds a turn at the end of the history.
func (s *Session) Append(author Responder, text string, at time.Time) {
	s.Turns = append(s.Turns, Turn{Author: author, Text: text, Timestamp: at})
	if author != AuthorUser {
		s.LastResponse = text
	}
}

// History returns a copy of the turns so callers cannot reorder the session.
func (s *Session) History() []Turn {
	out := make([]Turn, len(s.Turns))
	copy(out, s.Turns)
	return out
}

// LastUserText returns the most recent user message, or "" if there is none.
func (s *Session) LastUserText() string {
	for i := len(s.Turns) - 1; i >= 0; i-- {
		if s.Turns[i].Author == AuthorUser {
			return s.Turns[i].Text
		}
	}
	return ""
}

// AttachPatient sets the patient context only when none is set yet.
// It reports whether the context was attached.
func (s *Session) AttachPatient(p *PatientContext) bool {
	if p == nil || s.PatientContext != nil {
		return false
	}
	s.PatientContext = p
	return true
}

// PatientMatch is the outcome of a name lookup: a single patient, several
// candidate names, or neither when nothing matched.
type PatientMatch struct {
	Patient    *PatientContext
	Candidates []string
}

func (m PatientMatch) Found() bool {
	return m.Patient != nil
}
