package dialogue

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/agenthands/cobalt/internal/core/model"
	"github.com/agenthands/cobalt/internal/llm"
)

const (
	rewriteMaxTokens     = 150
	rewriteHistoryWindow = 6
)

// Rewriter turns a follow-up utterance into a standalone question so
// downstream components never need history beyond the rewritten text.
type Rewriter struct {
	LLM llm.ChatClient
}

// Rewrite folds recent context into the query. On any failure it returns the
// original utterance unchanged; rewriting must never abort the turn.
func (r *Rewriter) Rewrite(ctx context.Context, query string, history []model.Turn) string {
	messages := []llm.ChatMessage{{Role: llm.RoleSystem, Content: RephraseQueryPrompt}}
	for _, t := range tail(history, rewriteHistoryWindow) {
		messages = append(messages, llm.ChatMessage{Role: t.Role, Content: t.Content})
	}
	messages = append(messages, llm.ChatMessage{
		Role:    llm.RoleUser,
		Content: fmt.Sprintf("Rewrite this into a standalone question: %s", query),
	})

	rewritten, err := r.LLM.Chat(ctx, llm.ChatRequest{
		Messages:  messages,
		MaxTokens: rewriteMaxTokens,
	})
	if err != nil {
		log.Warn().Err(err).Msg("query rewrite failed, keeping original")
		return query
	}

	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return query
	}
	log.Debug().Str("rewritten", rewritten).Msg("query rewritten")
	return rewritten
}
