// Package orchestrator drives one conversational turn end to end: the
// receptionist answers first and may hand the turn to the clinical responder.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"discharge-care-be/internal/pkg/logger"
	"discharge-care-be/pkg/ai/agent"
	"discharge-care-be/pkg/interaction"
	"discharge-care-be/pkg/store"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("discharge-care-be/orchestrator")

const (
	ReceptionistApology = "I apologize, but I encountered an error. Please try again."
	ClinicalApology     = "I apologize, but I encountered an error while processing your medical question. Please consult your healthcare provider directly."

	DefaultAgentTimeout = 90 * time.Second

	lockStripes = 64
)

type Receptionist interface {
	Respond(ctx context.Context, in agent.ReceptionistInput) (*agent.ReceptionistReply, error)
}

type Clinical interface {
	Respond(ctx context.Context, in agent.ClinicalInput) (string, error)
}

// SessionStore is satisfied by *memory.SessionRepository.
type SessionStore interface {
	Save(session *store.Session)
	Get(sessionID string) (*store.Session, bool)
	Delete(sessionID string)
}

// Observer receives turn outcomes for metrics.
type Observer interface {
	ObserveTurn(responder store.Responder, failed bool, elapsed time.Duration)
	ObserveHandoff()
}

type nopObserver struct{}

func (nopObserver) ObserveTurn(store.Responder, bool, time.Duration) {}
func (nopObserver) ObserveHandoff() {}

type TurnResult struct {
	SessionID       string          `json:"session_id"`
	Reply           string          `json:"reply"`
	ActiveResponder store.Responder `json:"active_responder"`
	Routed          bool            `json:"routed"`
	PatientName     string          `json:"patient_name,omitempty"`
}

type Options struct {
	AgentTimeout time.Duration
	Observer     Observer
	Now          func() time.Time
	NewID        func() string
}

type Orchestrator struct {
	receptionist Receptionist
	clinical     Clinical
	sessions     SessionStore
	sink         interaction.Sink
	log          logger.ILogger
	observer     Observer
	timeout      time.Duration
	now          func() time.Time
	newID        func() string
	locks        [lockStripes]sync.Mutex
}

func New(
	receptionist Receptionist,
	clinical Clinical,
	sessions SessionStore,
	sink interaction.Sink,
	log logger.ILogger,
	opts Options,
) *Orchestrator {
	o := &Orchestrator{
		receptionist: receptionist,
		clinical:     clinical,
		sessions:     sessions,
		sink:         sink,
		log:          log,
		observer:     opts.Observer,
		timeout:      opts.AgentTimeout,
		now:          opts.Now,
		newID:        opts.NewID,
	}
	if o.sink == nil {
		o.sink = interaction.NopSink{}
	}
	if o.observer == nil {
		o.observer = nopObserver{}
	}
	if o.timeout <= 0 {
		o.timeout = DefaultAgentTimeout
	}
	if o.now == nil {
		o.now = func() time.Time { return time.Now().UTC() }
	}
	if o.newID == nil {
		o.newID = func() string { return uuid.NewString() }
	}
	return o
}

// lock serializes turns of one session. Unrelated sessions may share a
// stripe, which only costs parallelism.
func (o *Orchestrator) lock(sessionID string) *sync.Mutex {
	return &o.locks[xxhash.Sum64String(sessionID)%lockStripes]
}

func (o *Orchestrator) loadOrCreate(sessionID string) *store.Session {
	if s, ok := o.sessions.Get(sessionID); ok {
		return s
	}
	s := store.NewSession(sessionID, o.now())
	o.sessions.Save(s)
	return s
}

// ProcessTurn never fails. Responder errors become a fixed apology which is
// appended to the session like any other reply. An empty sessionID starts a
// new session; the id in use is returned in the result.
func (o *Orchestrator) ProcessTurn(ctx context.Context, sessionID, userText string) TurnResult {
	if sessionID == "" {
		sessionID = o.newID()
	}

	ctx, span := tracer.Start(ctx, "orchestrator.ProcessTurn", trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	mu := o.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	started := time.Now()
	session := o.loadOrCreate(sessionID)
	defer o.sessions.Save(session)

	prior := session.History()
	session.Append(store.AuthorUser, userText, o.now())
	o.record(ctx, session, store.AuthorUser, interaction.TypeUserInput, userText, nil)

	reply, err := o.callReceptionist(ctx, agent.ReceptionistInput{
		SessionID: session.ID,
		UserText:  userText,
		History:   prior,
		Patient:   session.PatientContext,
	})
	if err != nil {
		span.RecordError(err)
		session.ActiveResponder = store.Receptionist
		o.fail(ctx, session, store.Receptionist, ReceptionistApology, err)
		o.observer.ObserveTurn(store.Receptionist, true, time.Since(started))
		return o.result(session, false)
	}

	if session.AttachPatient(reply.Patient) {
		o.log.Info("ORCHESTRATOR", "Patient context attached", map[string]interface{}{
			"session_id":   session.ID,
			"patient_name": reply.Patient.PatientName,
		})
	}

	decision := reply.Decision
	if !decision.ShouldRoute {
		session.ActiveResponder = store.Receptionist
		session.Append(store.Receptionist, decision.VisibleReply, o.now())
		o.record(ctx, session, store.Receptionist, interaction.TypeAgentResponse, decision.VisibleReply, map[string]interface{}{
			"should_route": false,
		})
		o.observer.ObserveTurn(store.Receptionist, false, time.Since(started))
		return o.result(session, false)
	}

	query := decision.QueryOr(session.LastUserText())
	if decision.RoutedQuery == "" {
		o.log.Warn("ORCHESTRATOR", "Hand-off without a routed query, using last user message", map[string]interface{}{
			"kind":       "MalformedRouting",
			"session_id": session.ID,
			"query":      query,
		})
	}
	o.observer.ObserveHandoff()
	span.SetAttributes(attribute.Bool("turn.routed", true))
	o.record(ctx, session, store.Receptionist, interaction.TypeHandoff, decision.VisibleReply, map[string]interface{}{
		"from":           string(store.Receptionist),
		"to":             string(store.Clinical),
		"clinical_query": query,
	})

	session.ActiveResponder = store.Clinical
	answer, err := o.callClinical(ctx, agent.ClinicalInput{
		SessionID: session.ID,
		Query:     query,
		Patient:   session.PatientContext,
		History:   prior,
	})
	if err != nil {
		span.RecordError(err)
		o.fail(ctx, session, store.Clinical, ClinicalApology, err)
		o.observer.ObserveTurn(store.Clinical, true, time.Since(started))
		return o.result(session, true)
	}

	session.Append(store.Clinical, answer, o.now())
	o.record(ctx, session, store.Clinical, interaction.TypeAgentResponse, answer, map[string]interface{}{
		"patient_context_used": session.PatientContext != nil,
	})
	o.observer.ObserveTurn(store.Clinical, false, time.Since(started))
	return o.result(session, true)
}

// ResetSession drops the session and returns the id of a fresh one.
func (o *Orchestrator) ResetSession(ctx context.Context, sessionID string) string {
	if sessionID != "" {
		mu := o.lock(sessionID)
		mu.Lock()
		o.sessions.Delete(sessionID)
		mu.Unlock()
	}

	fresh := store.NewSession(o.newID(), o.now())
	o.sessions.Save(fresh)

	o.log.Info("ORCHESTRATOR", "Session reset", map[string]interface{}{
		"previous_session_id": sessionID,
		"session_id":          fresh.ID,
	})
	return fresh.ID
}

// Snapshot returns a copy of the session for read-only callers.
func (o *Orchestrator) Snapshot(sessionID string) (store.Session, bool) {
	mu := o.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	s, ok := o.sessions.Get(sessionID)
	if !ok {
		return store.Session{}, false
	}
	cp := *s
	cp.Turns = s.History()
	return cp, true
}

func (o *Orchestrator) callReceptionist(ctx context.Context, in agent.ReceptionistInput) (reply *agent.ReceptionistReply, err error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	defer recoverInto(&err)

	reply, err = o.receptionist.Respond(ctx, in)
	if err == nil && reply == nil {
		err = fmt.Errorf("receptionist returned no reply")
	}
	return reply, err
}

func (o *Orchestrator) callClinical(ctx context.Context, in agent.ClinicalInput) (answer string, err error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	defer recoverInto(&err)

	return o.clinical.Respond(ctx, in)
}

func recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("responder panic: %v", r)
	}
}

// fail journals the error, then the apology shown in its place.
func (o *Orchestrator) fail(ctx context.Context, session *store.Session, responder store.Responder, apology string, err error) {
	o.log.Error("ORCHESTRATOR", "Responder failed", map[string]interface{}{
		"kind":       "UpstreamUnavailable",
		"session_id": session.ID,
		"responder":  string(responder),
		"error":      err.Error(),
	})
	o.record(ctx, session, responder, interaction.TypeError, err.Error(), map[string]interface{}{
		"error_type": string(responder) + "_agent_error",
	})

	session.Append(responder, apology, o.now())
	o.record(ctx, session, responder, interaction.TypeAgentResponse, apology, map[string]interface{}{
		"failed": true,
	})
}

func (o *Orchestrator) record(ctx context.Context, session *store.Session, agentTag store.Responder, messageType, text string, metadata map[string]interface{}) {
	rec := interaction.Record{
		SessionID:   session.ID,
		Agent:       string(agentTag),
		MessageType: messageType,
		Text:        text,
		Metadata:    metadata,
		Timestamp:   o.now(),
	}
	if session.PatientContext != nil {
		rec.PatientName = session.PatientContext.PatientName
	}
	o.sink.Record(ctx, rec)
}

func (o *Orchestrator) result(session *store.Session, routed bool) TurnResult {
	res := TurnResult{
		SessionID:       session.ID,
		Reply:           session.LastResponse,
		ActiveResponder: session.ActiveResponder,
		Routed:          routed,
	}
	if session.PatientContext != nil {
		res.PatientName = session.PatientContext.PatientName
	}
	return res
}
