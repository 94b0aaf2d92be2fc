// Package router decides whether a receptionist reply hands the turn to the
// clinical responder. The hand-off is signalled in-band by a sentinel marker.
package router

import "strings"

// Sentinel marks a hand-off. Text after the first occurrence is the routed query.
const Sentinel = "ROUTE_TO_CLINICAL:"

// HandoffNotice is shown when the receptionist wrote nothing before the sentinel.
const HandoffNotice = "Let me connect you with our clinical specialist who can help with your medical question."

// Decision is computed per turn and never persisted.
type Decision struct {
	ShouldRoute  bool
	RoutedQuery  string
	VisibleReply string
}

// Decide splits output at the first Sentinel only. Further sentinels stay
// inside RoutedQuery verbatim. An empty RoutedQuery means the caller should
// fall back to the last user message.
func Decide(output string) Decision {
	idx := strings.Index(output, Sentinel)
	if idx < 0 {
		return Decision{VisibleReply: output}
	}

	visible := strings.TrimSpace(output[:idx])
	if visible == "" {
		visible = HandoffNotice
	}

	return Decision{
		ShouldRoute:  true,
		RoutedQuery:  strings.TrimSpace(output[idx+len(Sentinel):]),
		VisibleReply: visible,
	}
}

// QueryOr returns the routed query, or fallback when the sentinel carried none.
func (d Decision) QueryOr(fallback string) string {
	if d.RoutedQuery == "" {
		return fallback
	}
	return d.RoutedQuery
}
