package dialogue

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/agenthands/cobalt/internal/core/model"
	"github.com/agenthands/cobalt/internal/llm"
	"github.com/agenthands/cobalt/internal/retrieval"
)

const chunkLimit = 2000

// RAGHandler answers informational queries from the retrieval corpus.
type RAGHandler struct {
	LLM       llm.ChatClient
	Retriever retrieval.Searcher
	TopK      int
}

func (h *RAGHandler) Answer(ctx context.Context, rewritten string, history []model.Turn) (string, error) {
	results, err := h.Retriever.Search(ctx, rewritten, h.TopK)
	if err != nil {
		return "", fmt.Errorf("retrieval: %w", err)
	}

	chunks := make([]string, 0, len(results))
	for _, res := range results {
		text := res.Text
		if len(text) > chunkLimit {
			text = text[:chunkLimit]
		}
		chunks = append(chunks, fmt.Sprintf("Source: %s\n%s", res.Source, text))
	}
	log.Debug().Int("chunks", len(chunks)).Msg("rag context assembled")

	return chatWithContext(ctx, h.LLM, RAGSystemPrompt, rewritten, chunks, history)
}
