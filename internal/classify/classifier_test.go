// internal/classify/classifier_test.go
package classify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/user/hotline/pkg/llm"
)

type fakeProvider struct {
	lastMessages []llm.Message
	response     string
	err          error
}

func (f *fakeProvider) Complete(_ context.Context, messages []llm.Message) (*llm.Response, error) {
	f.lastMessages = messages
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Response{Content: f.response}, nil
}

func TestClassifyReturnsLabel(t *testing.T) {
	provider := &fakeProvider{response: " Support \n"}
	c := New(provider)

	got := c.Classify(context.Background(), "Mein Gerät ist kaputt")
	if got != "Support" {
		t.Errorf("expected trimmed label Support, got %q", got)
	}

	if len(provider.lastMessages) != 1 {
		t.Fatalf("expected 1 prompt message, got %d", len(provider.lastMessages))
	}
	prompt := provider.lastMessages[0].Content
	if !strings.Contains(prompt, "Mein Gerät ist kaputt") {
		t.Errorf("prompt must contain the transcript: %q", prompt)
	}
	if !strings.Contains(prompt, "Allgemeine Anfrage") {
		t.Errorf("prompt must list the categories: %q", prompt)
	}
}

func TestClassifyFailureReturnsDefault(t *testing.T) {
	c := New(&fakeProvider{err: errors.New("boom")})

	got := c.Classify(context.Background(), "irgendwas")
	if got != DefaultLabel {
		t.Errorf("expected default label on failure, got %q", got)
	}
}

func TestClassifyEmptyResponseReturnsDefault(t *testing.T) {
	c := New(&fakeProvider{response: "   "})

	got := c.Classify(context.Background(), "irgendwas")
	if got != DefaultLabel {
		t.Errorf("expected default label on blank response, got %q", got)
	}
}

func TestClassifyEmptyTranscript(t *testing.T) {
	provider := &fakeProvider{response: "Allgemeine Anfrage"}
	c := New(provider)

	// Empty transcripts (failed transcription) are still classified.
	got := c.Classify(context.Background(), "")
	if got == "" {
		t.Error("label must never be empty")
	}
}
