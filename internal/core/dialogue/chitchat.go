package dialogue

import (
	"context"

	"github.com/agenthands/cobalt/internal/core/model"
	"github.com/agenthands/cobalt/internal/llm"
)

// ChitchatHandler keeps casual conversation in persona, with no retrieval.
type ChitchatHandler struct {
	LLM llm.ChatClient
}

func (h *ChitchatHandler) Answer(ctx context.Context, rewritten string, history []model.Turn) (string, error) {
	return chatWithContext(ctx, h.LLM, ChitchatSystemPrompt, rewritten, nil, history)
}
