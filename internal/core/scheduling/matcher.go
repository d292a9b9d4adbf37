package scheduling

import (
	"context"
	"strings"
	"time"

	"github.com/agenthands/cobalt/internal/core/model"
)

// AgentLister is the slice of the store the matcher needs.
type AgentLister interface {
	ListAgentsByRole(ctx context.Context, role string) ([]model.Agent, error)
}

// Matcher filters agents of a role through the availability check and selects
// one for a booking.
type Matcher struct {
	Agents  AgentLister
	Checker *Checker
}

// FindAvailable returns the agents of the role free for the interval, in
// stable creation order.
func (m *Matcher) FindAvailable(ctx context.Context, role string, start time.Time, durationMinutes int) ([]model.Agent, error) {
	agents, err := m.Agents.ListAgentsByRole(ctx, role)
	if err != nil {
		return nil, err
	}

	var available []model.Agent
	for _, agent := range agents {
		ok, err := m.Checker.IsSlotAvailable(ctx, agent, start, durationMinutes)
		if err != nil {
			return nil, err
		}
		if ok {
			available = append(available, agent)
		}
	}
	return available, nil
}

// Select picks an agent from the available set. With a preference, matching is
// case-insensitive by substring and a miss returns no agent rather than
// silently falling back to someone else. Without one, the first available
// agent wins (first-fit, not load-balanced).
func Select(available []model.Agent, preference string) (model.Agent, bool) {
	if preference != "" {
		for _, agent := range available {
			if strings.Contains(strings.ToLower(agent.Name), strings.ToLower(preference)) {
				return agent, true
			}
		}
		return model.Agent{}, false
	}
	if len(available) > 0 {
		return available[0], true
	}
	return model.Agent{}, false
}
