package conversation

import (
	"context"
	"strings"

	"github.com/viajai/whatsapp-travel-bot/pkg/logging"
)

// systemInstruction opens every prompt sent to the chat model.
const systemInstruction = "Você é um assistente de viagens especializado em encontrar voos."

// FallbackReply is returned whenever the chat model fails or answers empty.
const FallbackReply = "Não entendi, pode repetir?"

// LLMClient is the external chat-completion boundary. Implementations return
// the model's text or an error; they never pick user-facing fallbacks.
type LLMClient interface {
	Generate(ctx context.Context, parts []string) (string, error)
}

// Responder produces general chat replies: it keeps the per-sender history and
// delegates prompt completion to the LLM client.
type Responder struct {
	store  Store
	llm    LLMClient
	logger *logging.Logger
}

// NewResponder creates a responder over the given store and LLM client.
func NewResponder(store Store, llm LLMClient, logger *logging.Logger) *Responder {
	if logger == nil {
		logger = logging.Default()
	}
	return &Responder{store: store, llm: llm, logger: logger}
}

// Reply appends the user's text to history, asks the model for a completion
// over the whole history and returns the answer. LLM failures are logged and
// masked with FallbackReply; they never propagate. The reply, real or
// fallback, is recorded as an assistant entry before returning.
func (r *Responder) Reply(ctx context.Context, sender, text string) string {
	if err := r.store.Append(ctx, sender, RoleUser, text); err != nil {
		r.logger.Error("failed to append user entry", "error", err, "sender", sender)
	}

	history, err := r.store.Recent(ctx, sender)
	if err != nil {
		r.logger.Error("failed to load history", "error", err, "sender", sender)
		history = []Entry{{Role: RoleUser, Text: text}}
	}

	// The remote model receives the raw texts in arrival order, both roles
	// merged, without role labels.
	parts := make([]string, 0, len(history)+1)
	parts = append(parts, systemInstruction)
	for _, entry := range history {
		parts = append(parts, entry.Text)
	}

	reply, err := r.llm.Generate(ctx, parts)
	if err != nil || strings.TrimSpace(reply) == "" {
		if err != nil {
			r.logger.Error("chat completion failed", "error", err, "sender", sender)
		} else {
			r.logger.Warn("chat completion returned empty text", "sender", sender)
		}
		reply = FallbackReply
	}

	if err := r.store.Append(ctx, sender, RoleAssistant, reply); err != nil {
		r.logger.Error("failed to append assistant entry", "error", err, "sender", sender)
	}
	return reply
}
