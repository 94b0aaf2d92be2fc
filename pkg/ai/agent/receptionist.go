package agent

import (
	"context"
	"fmt"
	"strings"

	"discharge-care-be/internal/pkg/logger"
	"discharge-care-be/pkg/ai/router"
	"discharge-care-be/pkg/interaction"
	"discharge-care-be/pkg/llm"
	"discharge-care-be/pkg/rag/history"
	"discharge-care-be/pkg/rag/prompt"
	"discharge-care-be/pkg/store"
)

const (
	ReceptionistMaxIterations = 3
	receptionistTemperature   = 0.7

	lookupErrorText = "I encountered an error while retrieving the patient data. Please try again."
)

// PatientDirectory finds discharge records by patient name.
type PatientDirectory interface {
	FindPatientByName(ctx context.Context, name string) (store.PatientMatch, error)
}

type ReceptionistInput struct {
	SessionID string
	UserText  string
	History   []store.Turn
	Patient   *store.PatientContext
}

// ReceptionistReply carries the routing decision derived from the final
// output and the patient found by a lookup during this turn, if any.
type ReceptionistReply struct {
	Decision router.Decision
	Raw      string
	Patient  *store.PatientContext
}

type Receptionist struct {
	llm       llm.LLMProvider
	directory PatientDirectory
	sink      interaction.Sink
	log       logger.ILogger
	system    string
}

func NewReceptionist(provider llm.LLMProvider, directory PatientDirectory, sink interaction.Sink, log logger.ILogger) *Receptionist {
	if sink == nil {
		sink = interaction.NopSink{}
	}
	return &Receptionist{
		llm:       provider,
		directory: directory,
		sink:      sink,
		log:       log,
		system:    receptionistPrompt(),
	}
}

func receptionistPrompt() string {
	return prompt.NewSystemBuilder("You are a friendly and professional Receptionist Agent for a post-discharge medical care system.").
		Duties(
			"Greet patients warmly and professionally",
			"Ask for the patient's name if not provided",
			"Use the lookup_patient tool to fetch their discharge report",
			"Review the discharge information and ask how they are feeling, about medication adherence, dietary compliance and concerning symptoms",
			"Identify when a patient has a MEDICAL QUESTION that requires clinical expertise",
		).
		Tools(prompt.Tool{
			Name:        CapabilityLookupPatient,
			Description: "Retrieves a patient's discharge report by name. Input is the patient's name.",
		}).
		Guidelines(
			"Always be empathetic and supportive, and use simple, clear language",
			"After retrieving discharge info, ask 2-3 relevant follow-up questions",
			"If the patient mentions symptoms from their warning signs list, route to the Clinical Agent immediately",
			"For questions about medications, diet or symptoms, route to the Clinical Agent",
			"Never provide medical advice yourself",
		).
		Closing(fmt.Sprintf("When a medical question needs clinical expertise, end your final reply with:\n%s <the patient's question>", router.Sentinel)).
		Build()
}

func (r *Receptionist) Respond(ctx context.Context, in ReceptionistInput) (*ReceptionistReply, error) {
	system := r.system
	if in.Patient != nil {
		system += "\n\n<known_patient>\n" + prompt.PatientReport(in.Patient) + "\n</known_patient>"
	}

	messages := make([]llm.Message, 0, len(in.History)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: system})
	messages = append(messages, history.ToMessages(in.History, history.DefaultLimit)...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: in.UserText})

	var found *store.PatientContext
	loop := toolLoop{
		llm:           r.llm,
		maxIterations: ReceptionistMaxIterations,
		temperature:   receptionistTemperature,
		tools: map[string]toolFunc{
			CapabilityLookupPatient: func(ctx context.Context, name string) string {
				text, patient := r.lookupPatient(ctx, in.SessionID, name)
				if patient != nil {
					found = patient
				}
				return text
			},
		},
	}

	out, err := loop.run(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("receptionist: %w", err)
	}

	return &ReceptionistReply{
		Decision: router.Decide(out),
		Raw:      out,
		Patient:  found,
	}, nil
}

// lookupPatient resolves a name to a report: an exact or single fuzzy match
// returns the report, several matches ask for the full name.
func (r *Receptionist) lookupPatient(ctx context.Context, sessionID, name string) (string, *store.PatientContext) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Please ask the patient for their full name.", nil
	}

	match, err := r.directory.FindPatientByName(ctx, name)
	if err != nil {
		r.log.Error("RECEPTIONIST", "Patient lookup failed", map[string]interface{}{
			"kind":       "UpstreamUnavailable",
			"session_id": sessionID,
			"name":       name,
			"error":      err.Error(),
		})
		r.sink.Record(ctx, interaction.Record{
			SessionID:   sessionID,
			Agent:       string(store.Receptionist),
			MessageType: interaction.TypeError,
			Text:        "patient lookup failed",
			Metadata:    map[string]interface{}{"error_type": "PatientRetrievalError", "patient_name": name, "error": err.Error()},
		})
		return lookupErrorText, nil
	}

	rec := interaction.Record{
		SessionID:   sessionID,
		Agent:       string(store.Receptionist),
		MessageType: interaction.TypePatientLookup,
		Text:        name,
		Metadata:    map[string]interface{}{"found": match.Found(), "candidates": len(match.Candidates)},
	}

	switch {
	case match.Found():
		rec.PatientName = match.Patient.PatientName
		r.sink.Record(ctx, rec)
		return prompt.PatientReport(match.Patient), match.Patient
	case len(match.Candidates) > 1:
		r.sink.Record(ctx, rec)
		return fmt.Sprintf("I found multiple patients with similar names: %s. Please specify the full name.",
			strings.Join(match.Candidates, ", ")), nil
	default:
		r.sink.Record(ctx, rec)
		return fmt.Sprintf("I couldn't find a patient named '%s' in our system. Please check the spelling or provide the full name.", name), nil
	}
}
