package model

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one role-tagged message in a session's history. Turns are immutable
// once appended and are only ever appended by the pipeline's final step.
type Turn struct {
	Role      string
	Content   string
	CreatedAt time.Time
}

// DialogueState carries everything one pipeline invocation produces. It is
// created fresh per invocation and discarded after the terminal step; only the
// Turns it appended survive in the store.
type DialogueState struct {
	SessionID      string
	UserQuery      string
	RewrittenQuery string
	Intent         Intent
	Details        *AppointmentDetails
	Answer         string
	History        []Turn
}
