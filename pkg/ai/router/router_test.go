package router

import (
	"testing"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name      string
		output    string
		wantRoute bool
		wantQuery string
		wantReply string
	}{
		{
			name:      "no sentinel passes through unchanged",
			output:    "  Hello John, how are you feeling today?  ",
			wantRoute: false,
			wantQuery: "",
			wantReply: "  Hello John, how are you feeling today?  ",
		},
		{
			name:      "prefix and query",
			output:    "I'll connect you. ROUTE_TO_CLINICAL: Is swelling normal after knee surgery?",
			wantRoute: true,
			wantQuery: "Is swelling normal after knee surgery?",
			wantReply: "I'll connect you.",
		},
		{
			name:      "empty prefix gets hand-off notice",
			output:    "ROUTE_TO_CLINICAL: chest pain when walking",
			wantRoute: true,
			wantQuery: "chest pain when walking",
			wantReply: HandoffNotice,
		},
		{
			name:      "whitespace-only prefix gets hand-off notice",
			output:    " \n ROUTE_TO_CLINICAL:dizziness",
			wantRoute: true,
			wantQuery: "dizziness",
			wantReply: HandoffNotice,
		},
		{
			name:      "sentinel with empty suffix",
			output:    "One moment. ROUTE_TO_CLINICAL:   ",
			wantRoute: true,
			wantQuery: "",
			wantReply: "One moment.",
		},
		{
			name:      "only first sentinel splits",
			output:    "A ROUTE_TO_CLINICAL: B ROUTE_TO_CLINICAL: C",
			wantRoute: true,
			wantQuery: "B ROUTE_TO_CLINICAL: C",
			wantReply: "A",
		},
		{
			name:      "case sensitive",
			output:    "route_to_clinical: nope",
			wantRoute: false,
			wantReply: "route_to_clinical: nope",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.output)
			if got.ShouldRoute != tt.wantRoute {
				t.Errorf("ShouldRoute = %v, want %v", got.ShouldRoute, tt.wantRoute)
			}
			if got.RoutedQuery != tt.wantQuery {
				t.Errorf("RoutedQuery = %q, want %q", got.RoutedQuery, tt.wantQuery)
			}
			if got.VisibleReply != tt.wantReply {
				t.Errorf("VisibleReply = %q, want %q", got.VisibleReply, tt.wantReply)
			}
		})
	}
}

func TestDecisionQueryOr(t *testing.T) {
	if got := Decide("ROUTE_TO_CLINICAL:").QueryOr("my knee hurts"); got != "my knee hurts" {
		t.Errorf("QueryOr fallback = %q", got)
	}
	if got := Decide("ROUTE_TO_CLINICAL: fever").QueryOr("ignored"); got != "fever" {
		t.Errorf("QueryOr = %q", got)
	}
}
