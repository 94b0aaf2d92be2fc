package response

import (
	"fmt"
	"strings"

	"discharge-care-be/pkg/rag/index"
	"discharge-care-be/pkg/rag/retriever"
	"discharge-care-be/pkg/websearch"
)

const (
	DisclaimerMarker = "⚕️"
	Disclaimer       = "⚕️ This is an AI assistant for educational purposes only. Always consult healthcare professionals for medical advice."

	NotFoundMessage = "I couldn't find information about this in our reference materials or on the web. Please consult your healthcare provider for guidance on this question."

	WebAdvisory = "⚠️ Note: This information comes from web search and should be verified with healthcare professionals."
)

// Composer turns retrieved chunks or web results into a single answer text.
type Composer struct{}

func NewComposer() *Composer {
	return &Composer{}
}

// Compose prefers reference chunks over web results. Every answer it returns
// carries the disclaimer, including the not-found message.
func (c *Composer) Compose(chunks []index.RetrievedChunk, web []websearch.SearchResult, query string) string {
	var body string
	switch {
	case len(chunks) > 0:
		body = composeFromChunks(chunks)
	case len(web) > 0:
		body = composeFromWeb(web, query)
	default:
		body = NotFoundMessage
	}
	return EnsureDisclaimer(body)
}

func composeFromChunks(chunks []index.RetrievedChunk) string {
	var sb strings.Builder
	sb.WriteString("📚 Information from Reference Materials:\n\n")

	for i, ch := range chunks {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(ch.Text)
	}

	sb.WriteString("\n\n📖 Sources:\n")
	for _, src := range retriever.Citations(chunks) {
		sb.WriteString("  - ")
		sb.WriteString(src)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func composeFromWeb(results []websearch.SearchResult, query string) string {
	var sb strings.Builder
	if query != "" {
		sb.WriteString(fmt.Sprintf("🔍 Web Search Results for: '%s'\n\n", query))
	}
	sb.WriteString(WebAdvisory)
	sb.WriteString("\n")

	for i, r := range results {
		title := r.Title
		if title == "" {
			title = "No title"
		}
		sb.WriteString(fmt.Sprintf("\n%d. %s\n", i+1, title))
		if r.Snippet != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", r.Snippet))
		}
		if r.URL != "" {
			sb.WriteString(fmt.Sprintf("   Source: %s\n", r.URL))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// HasDisclaimer reports whether text carries the disclaimer marker.
func HasDisclaimer(text string) bool {
	return strings.Contains(text, DisclaimerMarker)
}

// EnsureDisclaimer appends the canonical disclaimer when none is present.
func EnsureDisclaimer(text string) string {
	if HasDisclaimer(text) {
		return text
	}
	if strings.TrimSpace(text) == "" {
		return Disclaimer
	}
	return strings.TrimRight(text, "\n ") + "\n\n" + Disclaimer
}
