// internal/prompt/trimmer.go

// Package prompt keeps conversation histories inside the model's context
// window before reply generation.
package prompt

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/user/hotline/internal/types"
	"github.com/user/hotline/pkg/llm"
)

// Trimmer drops the oldest exchange turns once a call's history exceeds the
// token budget. The system directive at position zero is always kept.
type Trimmer struct {
	tokenizer *tiktoken.Tiktoken
	budget    int
}

// New creates a Trimmer for the given model and input-token budget.
// model selects the tokenizer (e.g. "gpt-4"); unknown models fall back to
// cl100k_base.
func New(model string, budget int) (*Trimmer, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("get tokenizer: %w", err)
		}
	}
	return &Trimmer{tokenizer: enc, budget: budget}, nil
}

// countTokens returns the token count for a string.
func (t *Trimmer) countTokens(text string) int {
	return len(t.tokenizer.Encode(text, nil, nil))
}

// Trim converts the session history into provider messages, dropping the
// oldest non-directive messages until the total fits the budget. The most
// recent messages win because they carry the turn being answered.
func (t *Trimmer) Trim(messages []types.Message) []llm.Message {
	if len(messages) == 0 {
		return nil
	}

	directive := llm.Message{Role: string(messages[0].Role), Content: messages[0].Content}
	remaining := t.budget - t.countTokens(directive.Content)

	// Walk backwards from the newest message, taking turns until the
	// budget is spent.
	var kept []llm.Message
	for i := len(messages) - 1; i >= 1; i-- {
		msg := messages[i]
		cost := t.countTokens(msg.Content)
		if cost > remaining {
			break
		}
		kept = append(kept, llm.Message{Role: string(msg.Role), Content: msg.Content})
		remaining -= cost
	}

	// Reverse back into chronological order behind the directive.
	out := make([]llm.Message, 0, len(kept)+1)
	out = append(out, directive)
	for i := len(kept) - 1; i >= 0; i-- {
		out = append(out, kept[i])
	}
	return out
}
