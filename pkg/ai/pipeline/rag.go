package pipeline

import (
	"context"

	"discharge-care-be/internal/pkg/logger"
	"discharge-care-be/pkg/interaction"
	"discharge-care-be/pkg/rag/retriever"
	"discharge-care-be/pkg/rag/response"
	"discharge-care-be/pkg/websearch"
)

const (
	knowledgeErrorText = "I encountered an error while searching the reference materials. Please try rephrasing your question."
	knowledgeEmptyText = "I couldn't find specific information about this in the reference materials. Use search_web to look for more current information."
)

// Observer receives pipeline outcomes for metrics.
type Observer interface {
	ObserveRetrieval(sufficient bool)
	ObserveWebSearch(provider string, results int)
}

type nopObserver struct{}

func (nopObserver) ObserveRetrieval(bool) {}
func (nopObserver) ObserveWebSearch(string, int) {}

// WebSearcher is satisfied by *websearch.Fallback.
type WebSearcher interface {
	Search(ctx context.Context, query string) websearch.Result
}

// RAGResult is the outcome of a full retrieve, fallback and compose run.
type RAGResult struct {
	Reply        string
	Citations    []string
	Sufficient   bool
	ProviderUsed string
}

// ClinicalPipeline runs reference retrieval with a web fallback and composes
// the answer. Its methods never fail: problems become answer text plus a log
// entry and an interaction record.
type ClinicalPipeline struct {
	retriever *retriever.Retriever
	web       WebSearcher
	composer  *response.Composer
	sink      interaction.Sink
	observer  Observer
	log       logger.ILogger
}

func NewClinicalPipeline(
	r *retriever.Retriever,
	web WebSearcher,
	composer *response.Composer,
	sink interaction.Sink,
	observer Observer,
	log logger.ILogger,
) *ClinicalPipeline {
	if sink == nil {
		sink = interaction.NopSink{}
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &ClinicalPipeline{
		retriever: r,
		web:       web,
		composer:  composer,
		sink:      sink,
		observer:  observer,
		log:       log,
	}
}

// LookupKnowledge answers the retrieve_knowledge capability.
func (p *ClinicalPipeline) LookupKnowledge(ctx context.Context, sessionID, query string) string {
	retrieval, err := p.retrieve(ctx, sessionID, query)
	if err != nil {
		return knowledgeErrorText
	}
	if !retrieval.Sufficient {
		return knowledgeEmptyText
	}
	return p.composer.Compose(retrieval.Chunks, nil, query)
}

// SearchWeb answers the search_web capability.
func (p *ClinicalPipeline) SearchWeb(ctx context.Context, sessionID, query string) string {
	res := p.search(ctx, sessionID, query)
	return p.composer.Compose(nil, res.Results, query)
}

// Execute runs the fixed sequence: retrieve, fall back to the web when the
// reference material has nothing, then compose.
func (p *ClinicalPipeline) Execute(ctx context.Context, sessionID, query string) *RAGResult {
	retrieval, err := p.retrieve(ctx, sessionID, query)
	if err == nil && retrieval.Sufficient {
		return &RAGResult{
			Reply:      p.composer.Compose(retrieval.Chunks, nil, query),
			Citations:  retriever.Citations(retrieval.Chunks),
			Sufficient: true,
		}
	}

	web := p.search(ctx, sessionID, query)
	citations := make([]string, 0, len(web.Results))
	for _, r := range web.Results {
		if r.URL != "" {
			citations = append(citations, r.URL)
		}
	}
	return &RAGResult{
		Reply:        p.composer.Compose(nil, web.Results, query),
		Citations:    citations,
		ProviderUsed: web.ProviderUsed,
	}
}

func (p *ClinicalPipeline) retrieve(ctx context.Context, sessionID, query string) (retriever.Retrieval, error) {
	retrieval, err := p.retriever.RetrieveDefault(ctx, query)
	if err != nil {
		p.log.Error("PIPELINE", "Knowledge retrieval failed", map[string]interface{}{
			"kind":       "UpstreamUnavailable",
			"session_id": sessionID,
			"query":      query,
			"error":      err.Error(),
		})
		p.sink.Record(ctx, interaction.Record{
			SessionID:   sessionID,
			Agent:       "clinical",
			MessageType: interaction.TypeError,
			Text:        "knowledge retrieval failed",
			Metadata:    map[string]interface{}{"error_type": "RetrievalError", "query": query, "error": err.Error()},
		})
		return retrieval, err
	}

	p.observer.ObserveRetrieval(retrieval.Sufficient)
	p.sink.Record(ctx, interaction.Record{
		SessionID:   sessionID,
		Agent:       "clinical",
		MessageType: interaction.TypeRagRetrieval,
		Text:        query,
		Metadata: map[string]interface{}{
			"num_results": len(retrieval.Chunks),
			"sources":     retriever.Citations(retrieval.Chunks),
			"sufficient":  retrieval.Sufficient,
		},
	})
	return retrieval, nil
}

func (p *ClinicalPipeline) search(ctx context.Context, sessionID, query string) websearch.Result {
	res := p.web.Search(ctx, query)
	p.observer.ObserveWebSearch(res.ProviderUsed, len(res.Results))
	p.sink.Record(ctx, interaction.Record{
		SessionID:   sessionID,
		Agent:       "clinical",
		MessageType: interaction.TypeWebSearch,
		Text:        query,
		Metadata: map[string]interface{}{
			"search_engine": res.ProviderUsed,
			"num_results":   len(res.Results),
			"success":       res.ProviderUsed != websearch.ProviderNone,
		},
	})
	return res
}
