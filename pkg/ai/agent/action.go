package agent

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"discharge-care-be/pkg/llm"
	"discharge-care-be/pkg/rag/prompt"

	"github.com/tidwall/gjson"
)

// Capability names the model may request in its action envelope.
const (
	CapabilityRetrieveKnowledge = "retrieve_knowledge"
	CapabilitySearchWeb         = "search_web"
	CapabilityLookupPatient     = "lookup_patient"

	ActionFinal = "final"
)

var (
	ErrIterationLimit = errors.New("agent: iteration limit reached without a final answer")
	ErrUpstream       = errors.New("agent: text generation unavailable")
)

// Action is the parsed model output: either a capability call or the final reply.
type Action struct {
	Name  string
	Input string
}

func (a Action) IsFinal() bool {
	return a.Name == ActionFinal
}

// ParseAction reads {"action": ..., "input": ...}, optionally wrapped in a
// markdown code fence or preceded by prose. Anything else is taken as a
// final plain-text reply.
func ParseAction(output string) Action {
	text := strings.TrimSpace(output)
	if a, ok := envelope(stripFence(text)); ok {
		return a
	}

	// Models often say a sentence before the JSON; take the first { to the last }.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		if a, ok := envelope(text[start : end+1]); ok {
			return a
		}
	}
	return Action{Name: ActionFinal, Input: text}
}

func envelope(candidate string) (Action, bool) {
	if !gjson.Valid(candidate) {
		return Action{}, false
	}
	doc := gjson.Parse(candidate)
	if !doc.IsObject() || !doc.Get("action").Exists() {
		return Action{}, false
	}

	name := strings.ToLower(strings.TrimSpace(doc.Get("action").String()))
	input := doc.Get("input")
	if !input.Exists() {
		input = doc.Get("action_input")
	}
	if name == "" {
		name = ActionFinal
	}
	return Action{Name: name, Input: strings.TrimSpace(input.String())}, true
}

func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") || len(text) < 6 {
		return text
	}
	body := strings.TrimSuffix(strings.TrimPrefix(text, "```"), "```")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.HasPrefix(strings.TrimSpace(body[:nl]), "{") {
		body = body[nl+1:]
	}
	return strings.TrimSpace(body)
}

type toolFunc func(ctx context.Context, input string) string

// toolLoop alternates model calls and capability invocations until the model
// gives a final answer or maxIterations model calls have been made.
type toolLoop struct {
	llm           llm.LLMProvider
	tools         map[string]toolFunc
	maxIterations int
	temperature   float64
}

func (l toolLoop) run(ctx context.Context, messages []llm.Message) (string, error) {
	for i := 0; i < l.maxIterations; i++ {
		out, err := l.llm.Chat(ctx, messages, llm.WithTemperature(l.temperature))
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrUpstream, err)
		}

		action := ParseAction(out)
		if action.IsFinal() {
			return action.Input, nil
		}

		var observation string
		if tool, ok := l.tools[action.Name]; ok {
			observation = tool(ctx, action.Input)
		} else {
			observation = fmt.Sprintf("Unknown tool %q. Available tools: %s.", action.Name, strings.Join(l.toolNames(), ", "))
		}

		messages = append(messages,
			llm.Message{Role: llm.RoleAssistant, Content: out},
			llm.Message{Role: llm.RoleUser, Content: prompt.Observation(action.Name, observation)},
		)
	}
	return "", ErrIterationLimit
}

func (l toolLoop) toolNames() []string {
	names := make([]string, 0, len(l.tools))
	for name := range l.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
