package dialogue

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/agenthands/cobalt/internal/core/common"
	"github.com/agenthands/cobalt/internal/core/model"
	"github.com/agenthands/cobalt/internal/llm"
)

const classifyMaxTokens = 200

// Router classifies a rewritten query into exactly one Intent and, for
// appointment intents, extracts the structured booking fields.
type Router struct {
	LLM llm.ChatClient
}

// Classify never fails: a classifier error degrades to RAG with no details
// (informational queries are the common case and retrieval is safer to
// attempt than to skip), and an unparseable details blob yields nil details,
// which the appointment handler treats as "need more information".
func (r *Router) Classify(ctx context.Context, rewritten string) (model.Intent, *model.AppointmentDetails) {
	output, err := r.LLM.Chat(ctx, llm.ChatRequest{
		Messages: []llm.ChatMessage{
			{Role: llm.RoleSystem, Content: ClassifyExtractPrompt},
			{Role: llm.RoleUser, Content: fmt.Sprintf("User query: %s", rewritten)},
		},
		MaxTokens:   classifyMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		log.Warn().Err(err).Msg("intent classification failed, defaulting to RAG")
		return model.IntentRAG, nil
	}

	lines := strings.SplitN(strings.TrimSpace(output), "\n", 2)
	intent := model.ParseIntent(lines[0])

	var details *model.AppointmentDetails
	if intent == model.IntentAppointment && len(lines) > 1 {
		obj, err := common.ParseJSON[map[string]any](lines[1])
		if err != nil {
			log.Warn().Err(err).Msg("could not parse appointment details blob")
		} else {
			details = model.DecodeAppointmentDetails(obj)
		}
	}

	log.Debug().Str("intent", string(intent)).Msg("intent classified")
	return intent, details
}
