package dialogue

import (
	"context"
	"errors"

	"github.com/agenthands/cobalt/internal/llm"
)

type mockLLM struct {
	Response      string
	ResponseQueue []string
	Err           error
	Requests      []llm.ChatRequest
}

func (m *mockLLM) Chat(ctx context.Context, req llm.ChatRequest) (string, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.ResponseQueue) > 0 {
		resp := m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
		return resp, nil
	}
	return m.Response, nil
}

var errLLMDown = errors.New("llm unavailable")
