package core

import (
	"context"
	"errors"
	"time"

	"github.com/agenthands/cobalt/internal/core/model"
	"github.com/agenthands/cobalt/internal/llm"
	"github.com/agenthands/cobalt/internal/retrieval"
)

// mockChat replays scripted responses in call order. One pipeline turn
// consumes one response for the rewrite, one for the classification and one
// for the branch answer when that branch talks to the model.
type mockChat struct {
	Queue    []string
	Requests []llm.ChatRequest

	calls int
}

func (m *mockChat) Chat(ctx context.Context, req llm.ChatRequest) (string, error) {
	m.Requests = append(m.Requests, req)
	if m.calls >= len(m.Queue) {
		return "", errors.New("mock chat: script exhausted")
	}
	resp := m.Queue[m.calls]
	m.calls++
	return resp, nil
}

type mockSearcher struct {
	Results []retrieval.SearchResult
	Err     error

	Queries []string
	K       int
}

func (m *mockSearcher) Search(ctx context.Context, query string, k int) ([]retrieval.SearchResult, error) {
	m.Queries = append(m.Queries, query)
	m.K = k
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Results, nil
}

// memRepo is an in-memory store.Repository for pipeline tests.
type memRepo struct {
	turns  map[string][]model.Turn
	agents []model.Agent
	appts  []model.Appointment

	appendErr error
	loadErr   error
}

func newMemRepo() *memRepo {
	return &memRepo{turns: make(map[string][]model.Turn)}
}

func (r *memRepo) LoadRecentTurns(ctx context.Context, sessionID string, n int) ([]model.Turn, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	all := r.turns[sessionID]
	if len(all) > n {
		all = all[len(all)-n:]
	}
	out := make([]model.Turn, len(all))
	copy(out, all)
	return out, nil
}

func (r *memRepo) AppendTurn(ctx context.Context, sessionID, role, content string) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.turns[sessionID] = append(r.turns[sessionID], model.Turn{
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (r *memRepo) ListAgentsByRole(ctx context.Context, role string) ([]model.Agent, error) {
	var out []model.Agent
	for _, a := range r.agents {
		if a.Role == role {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memRepo) FindConflicts(ctx context.Context, agentID int64, start, end time.Time) ([]model.Appointment, error) {
	var out []model.Appointment
	for _, a := range r.appts {
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

func (r *memRepo) CreateAppointment(ctx context.Context, appt *model.Appointment) error {
	r.appts = append(r.appts, *appt)
	return nil
}

func (r *memRepo) ListUpcomingAppointments(ctx context.Context, limit int) ([]model.UpcomingAppointment, error) {
	return nil, nil
}

func (r *memRepo) Ping(ctx context.Context) error { return nil }
func (r *memRepo) Close() error                   { return nil }
