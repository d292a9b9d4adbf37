package scheduling

import (
	"context"
	"time"

	"github.com/agenthands/cobalt/internal/core/model"
	"github.com/agenthands/cobalt/internal/store"
)

// mockRepo is an in-memory store.Repository for engine tests.
type mockRepo struct {
	agents       []model.Agent
	appointments []model.Appointment
	upcoming     []model.UpcomingAppointment

	failCreate   error
	createdAppts []*model.Appointment
}

func (m *mockRepo) LoadRecentTurns(ctx context.Context, sessionID string, n int) ([]model.Turn, error) {
	return nil, nil
}

func (m *mockRepo) AppendTurn(ctx context.Context, sessionID, role, content string) error {
	return nil
}

func (m *mockRepo) ListAgentsByRole(ctx context.Context, role string) ([]model.Agent, error) {
	var out []model.Agent
	for _, a := range m.agents {
		if a.Role == role {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockRepo) FindConflicts(ctx context.Context, agentID int64, start, end time.Time) ([]model.Appointment, error) {
	var out []model.Appointment
	for _, a := range m.appointments {
		if a.AgentID != agentID {
			continue
		}
		aEnd := a.StartTime.Add(time.Duration(a.DurationMinutes) * time.Minute)
		if a.StartTime.Before(end) && start.Before(aEnd) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockRepo) CreateAppointment(ctx context.Context, appt *model.Appointment) error {
	if m.failCreate != nil {
		return m.failCreate
	}
	end := appt.StartTime.Add(time.Duration(appt.DurationMinutes) * time.Minute)
	conflicts, _ := m.FindConflicts(ctx, appt.AgentID, appt.StartTime, end)
	if len(conflicts) > 0 {
		return store.ErrSlotConflict
	}
	m.appointments = append(m.appointments, *appt)
	m.createdAppts = append(m.createdAppts, appt)
	return nil
}

func (m *mockRepo) ListUpcomingAppointments(ctx context.Context, limit int) ([]model.UpcomingAppointment, error) {
	if limit < len(m.upcoming) {
		return m.upcoming[:limit], nil
	}
	return m.upcoming, nil
}

func (m *mockRepo) Ping(ctx context.Context) error { return nil }
func (m *mockRepo) Close() error                   { return nil }
