package history

import (
	"testing"
	"time"

	"discharge-care-be/pkg/llm"
	"discharge-care-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func TestToMessages(t *testing.T) {
	now := time.Now()
	turns := []store.Turn{
		{Author: store.AuthorUser, Text: "hi", Timestamp: now},
		{Author: store.Receptionist, Text: "hello, your name?", Timestamp: now},
		{Author: store.AuthorUser, Text: "", Timestamp: now},
		{Author: store.AuthorUser, Text: "is swelling normal?", Timestamp: now},
		{Author: store.Clinical, Text: "some swelling is expected", Timestamp: now},
	}

	got := ToMessages(turns, 0)
	assert.Equal(t, []llm.Message{
		{Role: llm.RoleUser, Content: "hi"},
		{Role: llm.RoleAssistant, Content: "hello, your name?"},
		{Role: llm.RoleUser, Content: "is swelling normal?"},
		{Role: llm.RoleAssistant, Content: "some swelling is expected"},
	}, got)

	tail := ToMessages(turns, 2)
	assert.Equal(t, []llm.Message{
		{Role: llm.RoleUser, Content: "is swelling normal?"},
		{Role: llm.RoleAssistant, Content: "some swelling is expected"},
	}, tail)

	assert.Empty(t, ToMessages(nil, 5))
}
