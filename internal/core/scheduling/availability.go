package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/agenthands/cobalt/internal/core/model"
)

// ConflictFinder is the slice of the store the availability check needs.
type ConflictFinder interface {
	FindConflicts(ctx context.Context, agentID int64, start, end time.Time) ([]model.Appointment, error)
}

// Checker decides whether an agent is free for a proposed interval. It never
// mutates state.
type Checker struct {
	Conflicts ConflictFinder
}

// IsSlotAvailable reports whether [start, start+duration) lies entirely inside
// the agent's working hours on that date and does not intersect any existing
// appointment. Intervals are half-open: two conflict iff each starts before
// the other ends.
func (c *Checker) IsSlotAvailable(ctx context.Context, agent model.Agent, start time.Time, durationMinutes int) (bool, error) {
	end := start.Add(time.Duration(durationMinutes) * time.Minute)

	workStart, err := clockOn(agent.WorkStart, start)
	if err != nil {
		return false, fmt.Errorf("agent %d work_start: %w", agent.ID, err)
	}
	workEnd, err := clockOn(agent.WorkEnd, start)
	if err != nil {
		return false, fmt.Errorf("agent %d work_end: %w", agent.ID, err)
	}

	// Both boundaries: start in [workStart, workEnd), end in (workStart, workEnd].
	if start.Before(workStart) || !start.Before(workEnd) || !end.After(workStart) || end.After(workEnd) {
		return false, nil
	}

	conflicts, err := c.Conflicts.FindConflicts(ctx, agent.ID, start, end)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

// clockOn places a "15:04" time-of-day string on the given date.
func clockOn(clock string, date time.Time) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse clock %q: %w", clock, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}
