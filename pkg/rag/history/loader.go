package history

import (
	"discharge-care-be/pkg/llm"
	"discharge-care-be/pkg/store"
)

// DefaultLimit is the number of prior turns replayed to a responder.
const DefaultLimit = 10

// ToMessages converts the most recent turns into chat messages, oldest first.
// User turns keep the user role; both responders speak as the assistant.
func ToMessages(turns []store.Turn, limit int) []llm.Message {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}

	messages := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		if t.Text == "" {
			continue
		}
		role := llm.RoleAssistant
		if t.Author == store.AuthorUser {
			role = llm.RoleUser
		}
		messages = append(messages, llm.Message{Role: role, Content: t.Text})
	}
	return messages
}
