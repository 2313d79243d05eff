// internal/classify/classifier.go

// Package classify assigns a topic label to each caller utterance.
package classify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/user/hotline/internal/types"
	"github.com/user/hotline/pkg/llm"
)

// DefaultLabel is returned whenever the classification capability fails.
// It still participates in the per-call majority vote.
const DefaultLabel = "Allgemeine Anfrage"

const promptFormat = `Ordne die Nachricht einer Kategorie zu (Support, Reklamation, Verkauf, Allgemeine Anfrage): %q`

// Classifier labels transcripts through an LLM provider. Its output is
// advisory: callers must not rely on it being deterministic or correct.
type Classifier struct {
	provider llm.Provider
}

// New creates a Classifier backed by the given provider. The provider should
// be configured with a small output budget; the label is a few tokens.
func New(provider llm.Provider) *Classifier {
	return &Classifier{provider: provider}
}

// Classify returns a topic label for the transcript. It never fails: any
// capability error degrades to DefaultLabel.
func (c *Classifier) Classify(ctx context.Context, transcript string) string {
	prompt := fmt.Sprintf(promptFormat, transcript)
	resp, err := c.provider.Complete(ctx, []llm.Message{{Role: "user", Content: prompt}})
	if err != nil {
		cerr := &types.CapabilityError{Capability: "classify", Err: err}
		slog.Warn("classification failed, using default label", "error", cerr)
		return DefaultLabel
	}

	label := strings.TrimSpace(resp.Content)
	if label == "" {
		return DefaultLabel
	}
	return label
}
