// Package store provides persistence for conversations, agents and
// appointments behind a small repository interface so pipelines can be tested
// against fakes and multiple instances never share ambient state.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/agenthands/cobalt/internal/core/model"
)

// ErrSlotConflict is returned by CreateAppointment when a conflicting
// appointment exists at insert time. The availability check and the insert are
// separate calls, so two bookings can race; the insert-side check inside a
// transaction serializes the winner.
var ErrSlotConflict = errors.New("store: appointment slot already taken")

type Repository interface {
	// LoadRecentTurns returns the last n turns for a session, oldest first.
	LoadRecentTurns(ctx context.Context, sessionID string, n int) ([]model.Turn, error)

	// AppendTurn appends one immutable turn to a session's history.
	AppendTurn(ctx context.Context, sessionID, role, content string) error

	// ListAgentsByRole returns agents of a role in creation order.
	ListAgentsByRole(ctx context.Context, role string) ([]model.Agent, error)

	// FindConflicts returns the agent's appointments overlapping
	// [start, end) under half-open interval intersection.
	FindConflicts(ctx context.Context, agentID int64, start, end time.Time) ([]model.Appointment, error)

	// CreateAppointment inserts a booking, re-checking for conflicts in the
	// same transaction. Returns ErrSlotConflict if the slot was taken.
	CreateAppointment(ctx context.Context, appt *model.Appointment) error

	// ListUpcomingAppointments returns the most imminent future appointments
	// system-wide, ordered by start time ascending.
	ListUpcomingAppointments(ctx context.Context, limit int) ([]model.UpcomingAppointment, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
