// Package dialogue implements the per-turn conversation pieces: query
// rewriting, intent routing and the three branch handlers.
package dialogue

import (
	"context"
	"strings"

	"github.com/agenthands/cobalt/internal/core/model"
	"github.com/agenthands/cobalt/internal/llm"
)

const (
	answerMaxTokens   = 400
	answerTemperature = 0.7

	// historyTail is how many trailing turns ride along on an answer call.
	// The rewriter already folded older context into the standalone query.
	historyTail = 2
)

// chatWithContext issues one answer-generation call: system prompt, optional
// context block, a short history tail, then the user query.
func chatWithContext(ctx context.Context, client llm.ChatClient, systemPrompt, userQuery string, contextChunks []string, history []model.Turn) (string, error) {
	messages := []llm.ChatMessage{{Role: llm.RoleSystem, Content: systemPrompt}}

	if len(contextChunks) > 0 {
		messages = append(messages, llm.ChatMessage{
			Role:    llm.RoleSystem,
			Content: "Context (use this to answer):\n" + strings.Join(contextChunks, "\n\n"),
		})
	}

	for _, t := range tail(history, historyTail) {
		messages = append(messages, llm.ChatMessage{Role: t.Role, Content: t.Content})
	}

	messages = append(messages, llm.ChatMessage{Role: llm.RoleUser, Content: userQuery})

	answer, err := client.Chat(ctx, llm.ChatRequest{
		Messages:    messages,
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

func tail(turns []model.Turn, n int) []model.Turn {
	if len(turns) <= n {
		return turns
	}
	return turns[len(turns)-n:]
}
