package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/cobalt/internal/core/model"
	"github.com/agenthands/cobalt/internal/core/scheduling"
	"github.com/agenthands/cobalt/internal/retrieval"
)

func newTestPipeline(repo *memRepo, chat *mockChat, searcher *mockSearcher) *Pipeline {
	engine := scheduling.NewEngine(repo, 5)
	return NewPipeline(repo, chat, searcher, engine, 12, 3)
}

func TestRunTurn_RAGBranch(t *testing.T) {
	repo := newMemRepo()
	chat := &mockChat{Queue: []string{
		"What are the service department hours?",
		"RAG",
		"We're open Monday through Saturday, 7 AM to 6 PM.",
	}}
	searcher := &mockSearcher{Results: []retrieval.SearchResult{
		{Score: 0.91, Text: "Service hours: Mon-Sat 7am-6pm.", Source: "https://example.com/hours"},
	}}
	p := newTestPipeline(repo, chat, searcher)

	st := p.RunTurn(context.Background(), "s1", "when are you open for service")

	assert.Equal(t, model.IntentRAG, st.Intent)
	assert.Equal(t, "What are the service department hours?", st.RewrittenQuery)
	assert.Equal(t, "We're open Monday through Saturday, 7 AM to 6 PM.", st.Answer)

	require.Len(t, searcher.Queries, 1)
	assert.Equal(t, "What are the service department hours?", searcher.Queries[0])
	assert.Equal(t, 3, searcher.K)

	// The answer call carries the retrieved chunk as a context message.
	require.Len(t, chat.Requests, 3)
	var sawChunk bool
	for _, msg := range chat.Requests[2].Messages {
		if strings.Contains(msg.Content, "Source: https://example.com/hours\nService hours: Mon-Sat 7am-6pm.") {
			sawChunk = true
		}
	}
	assert.True(t, sawChunk, "expected the retrieved chunk in the answer request")
}

func TestRunTurn_ChitchatBranchSkipsRetrieval(t *testing.T) {
	repo := newMemRepo()
	chat := &mockChat{Queue: []string{
		"Hello there!",
		"CHAT",
		"Hi! Welcome to Stevens Creek Chevrolet. How can I help you today?",
	}}
	searcher := &mockSearcher{}
	p := newTestPipeline(repo, chat, searcher)

	st := p.RunTurn(context.Background(), "s1", "hi")

	assert.Equal(t, model.IntentChat, st.Intent)
	assert.Empty(t, searcher.Queries)
	assert.Equal(t, "Hi! Welcome to Stevens Creek Chevrolet. How can I help you today?", st.Answer)
}

func TestRunTurn_AppointmentBranchBooks(t *testing.T) {
	repo := newMemRepo()
	repo.agents = []model.Agent{
		{ID: 1, Name: "Sarah Johnson", Role: model.RoleSales, WorkStart: "09:00", WorkEnd: "17:00"},
	}
	details := `{"action": "book", "appointment_type": "sales", "customer_name": "Joe", "time_preference": "tomorrow at 10 AM", "duration_minutes": 30}`
	chat := &mockChat{Queue: []string{
		"Book a sales appointment for Joe tomorrow at 10 AM",
		"APPOINTMENT\n" + details,
	}}
	p := newTestPipeline(repo, chat, &mockSearcher{})

	st := p.RunTurn(context.Background(), "s1", "book me in tomorrow at 10")

	assert.Equal(t, model.IntentAppointment, st.Intent)
	require.NotNil(t, st.Details)
	assert.Equal(t, "Joe", st.Details.CustomerName)
	assert.Contains(t, st.Answer, "successfully booked for Joe")
	require.Len(t, repo.appts, 1)
	assert.Equal(t, int64(1), repo.appts[0].AgentID)
}

func TestRunTurn_BranchFailureStillPersisted(t *testing.T) {
	repo := newMemRepo()
	chat := &mockChat{Queue: []string{
		"What financing options are available?",
		"RAG",
	}}
	searcher := &mockSearcher{Err: errors.New("memgraph unreachable")}
	p := newTestPipeline(repo, chat, searcher)

	st := p.RunTurn(context.Background(), "s1", "financing options?")

	assert.Contains(t, st.Answer, "I'm sorry, something went wrong")
	assert.Contains(t, st.Answer, "memgraph unreachable")

	turns := repo.turns["s1"]
	require.Len(t, turns, 2)
	assert.Equal(t, model.RoleUser, turns[0].Role)
	assert.Equal(t, "financing options?", turns[0].Content)
	assert.Equal(t, model.RoleAssistant, turns[1].Role)
	assert.Equal(t, st.Answer, turns[1].Content)
}

func TestRunTurn_PersistFailureKeepsInMemoryHistory(t *testing.T) {
	repo := newMemRepo()
	repo.appendErr = errors.New("database is locked")
	chat := &mockChat{Queue: []string{"Hello!", "CHAT", "Hi there!"}}
	p := newTestPipeline(repo, chat, &mockSearcher{})

	st := p.RunTurn(context.Background(), "s1", "hello")

	require.Len(t, st.History, 2)
	assert.Equal(t, model.RoleUser, st.History[0].Role)
	assert.Equal(t, "hello", st.History[0].Content)
	assert.Equal(t, model.RoleAssistant, st.History[1].Role)
	assert.Equal(t, "Hi there!", st.History[1].Content)
	assert.Empty(t, repo.turns["s1"])
}

func TestRunTurn_HistoryAccumulatesAcrossTurns(t *testing.T) {
	repo := newMemRepo()
	var script []string
	for i := 0; i < 3; i++ {
		script = append(script,
			fmt.Sprintf("rewritten %d", i),
			"CHAT",
			fmt.Sprintf("answer %d", i),
		)
	}
	chat := &mockChat{Queue: script}
	p := newTestPipeline(repo, chat, &mockSearcher{})

	for i := 0; i < 3; i++ {
		p.RunTurn(context.Background(), "s1", fmt.Sprintf("query %d", i))
	}

	turns := repo.turns["s1"]
	require.Len(t, turns, 6)
	for i, turn := range turns {
		want := model.RoleUser
		if i%2 == 1 {
			want = model.RoleAssistant
		}
		assert.Equal(t, want, turn.Role, "turn %d", i)
	}
	assert.Equal(t, "query 2", turns[4].Content)
	assert.Equal(t, "answer 2", turns[5].Content)
}

func TestRunTurn_UnknownClassifierLabelCompletes(t *testing.T) {
	repo := newMemRepo()
	chat := &mockChat{Queue: []string{
		"Hello!",
		"SOMETHING_ELSE_ENTIRELY",
		"Happy to help!",
	}}
	p := newTestPipeline(repo, chat, &mockSearcher{})

	st := p.RunTurn(context.Background(), "s1", "hello")

	assert.Equal(t, model.IntentChat, st.Intent)
	assert.Equal(t, "Happy to help!", st.Answer)
	require.Len(t, repo.turns["s1"], 2)
}

func TestRunTurn_SessionsAreIsolated(t *testing.T) {
	repo := newMemRepo()
	chat := &mockChat{Queue: []string{
		"Hello!", "CHAT", "Hi A!",
		"Hello!", "CHAT", "Hi B!",
	}}
	p := newTestPipeline(repo, chat, &mockSearcher{})

	p.RunTurn(context.Background(), "a", "hello")
	p.RunTurn(context.Background(), "b", "hello")

	require.Len(t, repo.turns["a"], 2)
	require.Len(t, repo.turns["b"], 2)
	assert.Equal(t, "Hi A!", repo.turns["a"][1].Content)
	assert.Equal(t, "Hi B!", repo.turns["b"][1].Content)
}
