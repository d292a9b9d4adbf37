package llm

import (
	"context"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	Role    string
	Content string
}

type ChatRequest struct {
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float32
}

// ChatClient is the single-shot chat completion boundary. Calls may fail and
// are not retried here; fallback policy belongs to the caller.
type ChatClient interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

type EmbedderClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type RerankerClient interface {
	Rank(ctx context.Context, query string, documents []string) ([]int, error)
}
