package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		chunkSize int
		overlap   int
		want      []string
	}{
		{
			name:      "empty text yields no chunks",
			text:      "   \n ",
			chunkSize: 10,
			want:      nil,
		},
		{
			name:      "short text is a single trimmed chunk",
			text:      "  take with food  ",
			chunkSize: 100,
			want:      []string{"take with food"},
		},
		{
			name:      "paragraphs preferred over words",
			text:      "para one.\n\npara two is here",
			chunkSize: 20,
			want:      []string{"para one.", "para two is here"},
		},
		{
			name:      "word windows carry overlap",
			text:      "one two three four five six seven eight nine ten",
			chunkSize: 15,
			overlap:   5,
			want: []string{
				"one two three",
				"three four five",
				"five six seven",
				"seven eight",
				"eight nine ten",
			},
		},
		{
			name:      "character fallback counts runes",
			text:      strings.Repeat("é", 25),
			chunkSize: 10,
			want: []string{
				strings.Repeat("é", 10),
				strings.Repeat("é", 10),
				strings.Repeat("é", 5),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitText(tt.text, tt.chunkSize, tt.overlap)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitTextRespectsChunkSize(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteString("Patients should monitor the incision site daily. ")
		if i%7 == 0 {
			b.WriteString("\n\n")
		}
	}

	chunks := SplitText(b.String(), DefaultChunkSize, DefaultChunkOverlap)

	assert.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), DefaultChunkSize, "chunk %d too long", i)
		assert.NotEmpty(t, c)
	}
}

func TestSplitTextInvalidOverlapIgnored(t *testing.T) {
	chunks := SplitText("aaaa bbbb cccc", 9, 50)
	assert.Equal(t, []string{"aaaa bbbb", "cccc"}, chunks)
}
