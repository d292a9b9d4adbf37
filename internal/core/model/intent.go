package model

import "strings"

// Intent is the classified purpose of a user utterance. Exactly one value is
// produced per invocation and selects the single outgoing pipeline branch.
type Intent string

const (
	IntentRAG         Intent = "RAG"
	IntentAppointment Intent = "APPOINTMENT"
	IntentChat        Intent = "CHAT"
)

// ParseIntent normalizes free-text classifier output into an Intent.
// Classifier phrasing drifts ("APPOINTMENT_BOOKING", "rag query", ...), so
// matching is by substring, with CHAT as the default. All of the routing
// fuzziness lives here so it can be tested in one place.
func ParseIntent(raw string) Intent {
	label := strings.ToUpper(strings.TrimSpace(raw))
	switch {
	case strings.Contains(label, "APPOINT"):
		return IntentAppointment
	case strings.Contains(label, "RAG"):
		return IntentRAG
	default:
		return IntentChat
	}
}
