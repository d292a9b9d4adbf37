// Package core wires the dialogue pipeline together: one invocation takes a
// user utterance through rewrite, intent classification, a single branch
// handler and history persistence.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/agenthands/cobalt/internal/core/dialogue"
	"github.com/agenthands/cobalt/internal/core/model"
	"github.com/agenthands/cobalt/internal/core/scheduling"
	"github.com/agenthands/cobalt/internal/llm"
	"github.com/agenthands/cobalt/internal/retrieval"
	"github.com/agenthands/cobalt/internal/store"
)

// phase is one state of the per-turn machine. Exactly one of the three middle
// phases executes per invocation, selected by the classified intent; there is
// no retry loop and no re-execution within a turn.
type phase int

const (
	phaseRewriting phase = iota
	phaseClassifying
	phaseRetrieving
	phaseScheduling
	phaseChitchatting
	phasePersisting
	phaseDone
)

// Pipeline holds the per-turn state machine and its collaborators. All fields
// are set at construction and never mutated, so one Pipeline may serve many
// sessions concurrently; per-invocation state lives in the DialogueState.
type Pipeline struct {
	Store store.Repository

	Rewriter     *dialogue.Rewriter
	Router       *dialogue.Router
	RAG          *dialogue.RAGHandler
	Appointments *dialogue.AppointmentHandler
	Chitchat     *dialogue.ChitchatHandler

	HistoryWindow int
}

func NewPipeline(repo store.Repository, chat llm.ChatClient, retriever retrieval.Searcher, engine *scheduling.Engine, historyWindow, topK int) *Pipeline {
	return &Pipeline{
		Store:         repo,
		Rewriter:      &dialogue.Rewriter{LLM: chat},
		Router:        &dialogue.Router{LLM: chat},
		RAG:           &dialogue.RAGHandler{LLM: chat, Retriever: retriever, TopK: topK},
		Appointments:  &dialogue.AppointmentHandler{LLM: chat, Engine: engine},
		Chitchat:      &dialogue.ChitchatHandler{LLM: chat},
		HistoryWindow: historyWindow,
	}
}

// RunTurn processes one user utterance for one session. It never returns an
// error: every failure inside the machine degrades to a user-facing answer,
// and the history is updated with whatever answer was produced so session
// continuity survives partial failure.
func (p *Pipeline) RunTurn(ctx context.Context, sessionID, query string) *model.DialogueState {
	st := &model.DialogueState{
		SessionID: sessionID,
		UserQuery: query,
	}

	history, err := p.Store.LoadRecentTurns(ctx, sessionID, p.HistoryWindow)
	if err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("could not load history, starting empty")
	}
	st.History = history

	for ph := phaseRewriting; ph != phaseDone; {
		switch ph {
		case phaseRewriting:
			st.RewrittenQuery = p.Rewriter.Rewrite(ctx, st.UserQuery, st.History)
			ph = phaseClassifying

		case phaseClassifying:
			st.Intent, st.Details = p.Router.Classify(ctx, st.RewrittenQuery)
			switch st.Intent {
			case model.IntentRAG:
				ph = phaseRetrieving
			case model.IntentAppointment:
				ph = phaseScheduling
			default:
				// IntentChat, plus anything outside the enum so the loop
				// always terminates.
				ph = phaseChitchatting
			}

		case phaseRetrieving:
			answer, err := p.RAG.Answer(ctx, st.RewrittenQuery, st.History)
			st.Answer = p.recover("rag", answer, err)
			ph = phasePersisting

		case phaseScheduling:
			answer, err := p.Appointments.Answer(ctx, st.Details, st.History)
			st.Answer = p.recover("appointment", answer, err)
			ph = phasePersisting

		case phaseChitchatting:
			answer, err := p.Chitchat.Answer(ctx, st.RewrittenQuery, st.History)
			st.Answer = p.recover("chitchat", answer, err)
			ph = phasePersisting

		case phasePersisting:
			p.persistHistory(ctx, st)
			ph = phaseDone
		}
	}

	return st
}

// recover converts a branch failure into an apologetic answer so the turn
// always reaches history persistence.
func (p *Pipeline) recover(branch, answer string, err error) string {
	if err == nil {
		return answer
	}
	log.Error().Err(err).Str("branch", branch).Msg("branch handler failed")
	return fmt.Sprintf("I'm sorry, something went wrong while processing your request: %v. Please try again.", err)
}

// persistHistory appends the user turn then the assistant turn, in that
// order, and reloads the bounded recent window. On failure the in-memory
// history (plus the two new turns) is kept so the caller never loses the
// turn entirely.
func (p *Pipeline) persistHistory(ctx context.Context, st *model.DialogueState) {
	inMemory := func() []model.Turn {
		now := time.Now().UTC()
		return append(st.History,
			model.Turn{Role: model.RoleUser, Content: st.UserQuery, CreatedAt: now},
			model.Turn{Role: model.RoleAssistant, Content: st.Answer, CreatedAt: now},
		)
	}

	if err := p.Store.AppendTurn(ctx, st.SessionID, model.RoleUser, st.UserQuery); err != nil {
		log.Error().Err(err).Str("session", st.SessionID).Msg("failed to persist user turn")
		st.History = inMemory()
		return
	}
	if err := p.Store.AppendTurn(ctx, st.SessionID, model.RoleAssistant, st.Answer); err != nil {
		log.Error().Err(err).Str("session", st.SessionID).Msg("failed to persist assistant turn")
		st.History = inMemory()
		return
	}

	updated, err := p.Store.LoadRecentTurns(ctx, st.SessionID, p.HistoryWindow)
	if err != nil {
		log.Warn().Err(err).Str("session", st.SessionID).Msg("failed to reload history")
		st.History = inMemory()
		return
	}
	st.History = updated
}
