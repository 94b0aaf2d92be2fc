package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"discharge-care-be/internal/pkg/logger"
	"discharge-care-be/pkg/ai/pipeline"
	"discharge-care-be/pkg/llm"
	"discharge-care-be/pkg/rag/history"
	"discharge-care-be/pkg/rag/prompt"
	"discharge-care-be/pkg/rag/response"
	"discharge-care-be/pkg/store"
)

const (
	ClinicalMaxIterations = 5
	clinicalTemperature   = 0.3
)

// KnowledgeTools is satisfied by *pipeline.ClinicalPipeline.
type KnowledgeTools interface {
	LookupKnowledge(ctx context.Context, sessionID, query string) string
	SearchWeb(ctx context.Context, sessionID, query string) string
	Execute(ctx context.Context, sessionID, query string) *pipeline.RAGResult
}

type ClinicalInput struct {
	SessionID string
	Query     string
	Patient   *store.PatientContext
	History   []store.Turn
}

type Clinical struct {
	llm    llm.LLMProvider
	tools  KnowledgeTools
	log    logger.ILogger
	system string
}

func NewClinical(provider llm.LLMProvider, tools KnowledgeTools, log logger.ILogger) *Clinical {
	return &Clinical{
		llm:    provider,
		tools:  tools,
		log:    log,
		system: clinicalPrompt(),
	}
}

func clinicalPrompt() string {
	return prompt.NewSystemBuilder("You are a knowledgeable Clinical AI Agent specializing in nephrology and post-discharge patient care.").
		Duties(
			"Answer medical questions accurately and professionally",
			"Use the retrieve_knowledge tool FIRST to search the reference materials",
			"If the reference materials do not cover the question, or the patient asks about recent research, use the search_web tool",
			"Always cite your sources and say whether they came from reference materials or web search",
			"Explain medical concepts in clear, patient-friendly language",
		).
		Tools(
			prompt.Tool{Name: CapabilityRetrieveKnowledge, Description: "Searches the reference materials. Input is a clear medical question."},
			prompt.Tool{Name: CapabilitySearchWeb, Description: "Searches the web for information not found in the reference materials. Input is a specific search query."},
		).
		Guidelines(
			"Be empathetic and supportive",
			"Consider the patient's diagnosis, medications and restrictions when they are provided",
			"Emphasize when symptoms require immediate medical attention, and advise calling emergency services for emergencies",
			"Never diagnose conditions or prescribe treatments",
		).
		Closing("Medical Disclaimer: \"" + response.Disclaimer + "\"").
		Build()
}

// Respond answers a routed clinical question. The returned text always
// carries the medical disclaimer. When the model keeps calling tools past the
// iteration cap, the fixed retrieve-then-search pipeline answers instead.
func (c *Clinical) Respond(ctx context.Context, in ClinicalInput) (string, error) {
	messages := make([]llm.Message, 0, len(in.History)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: c.system})
	messages = append(messages, history.ToMessages(in.History, history.DefaultLimit)...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: prompt.ClinicalQuery(in.Query, in.Patient)})

	loop := toolLoop{
		llm:           c.llm,
		maxIterations: ClinicalMaxIterations,
		temperature:   clinicalTemperature,
		tools: map[string]toolFunc{
			CapabilityRetrieveKnowledge: func(ctx context.Context, q string) string {
				return c.tools.LookupKnowledge(ctx, in.SessionID, queryOr(q, in.Query))
			},
			CapabilitySearchWeb: func(ctx context.Context, q string) string {
				return c.tools.SearchWeb(ctx, in.SessionID, queryOr(q, in.Query))
			},
		},
	}

	out, err := loop.run(ctx, messages)
	switch {
	case errors.Is(err, ErrIterationLimit):
		c.log.Warn("CLINICAL", "Iteration limit reached, answering from pipeline", map[string]interface{}{
			"session_id": in.SessionID,
			"query":      in.Query,
		})
		return c.tools.Execute(ctx, in.SessionID, in.Query).Reply, nil
	case err != nil:
		return "", fmt.Errorf("clinical: %w", err)
	}

	if strings.TrimSpace(out) == "" {
		return c.tools.Execute(ctx, in.SessionID, in.Query).Reply, nil
	}
	return response.EnsureDisclaimer(out), nil
}

func queryOr(q, fallback string) string {
	if strings.TrimSpace(q) == "" {
		return fallback
	}
	return q
}
