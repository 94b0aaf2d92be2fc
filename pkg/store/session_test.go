package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionAppendKeepsOrder(t *testing.T) {
	now := time.Now()
	s := NewSession("s-1", now)

	s.Append(AuthorUser, "hi", now)
	s.Append(Receptionist, "hello, what is your name?", now)
	s.Append(AuthorUser, "John Smith", now)

	assert.Equal(t, Receptionist, s.ActiveResponder)
	assert.Equal(t, "hello, what is your name?", s.LastResponse)
	assert.Equal(t, "John Smith", s.LastUserText())

	h := s.History()
	h[0].Text = "mutated"
	assert.Equal(t, "hi", s.Turns[0].Text)
	assert.Len(t, s.Turns, 3)
}

func TestSessionLastUserTextEmpty(t *testing.T) {
	s := NewSession("s-2", time.Now())
	assert.Equal(t, "", s.LastUserText())
}

func TestAttachPatientFirstWins(t *testing.T) {
	s := NewSession("s-3", time.Now())

	assert.False(t, s.AttachPatient(nil))
	assert.True(t, s.AttachPatient(&PatientContext{PatientName: "John Smith"}))
	assert.False(t, s.AttachPatient(&PatientContext{PatientName: "Jane Doe"}))
	assert.Equal(t, "John Smith", s.PatientContext.PatientName)
}
