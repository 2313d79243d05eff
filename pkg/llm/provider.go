package llm

import "context"

// Provider defines the interface for interacting with LLM backends.
// Implementations handle protocol-specific details such as request formatting,
// authentication, and response parsing.
type Provider interface {
	// Complete sends a chat completion request and returns the full response.
	Complete(ctx context.Context, messages []Message) (*Response, error)
}

// Transcriber converts recorded audio into text via a speech-to-text backend.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio []byte) (string, error)
}

// Config holds common configuration for LLM providers. A nil Temperature
// leaves the sampling temperature to the backend default; a pointer to zero
// pins deterministic output.
type Config struct {
	BaseURL         string
	APIKey          string
	Model           string
	TranscribeModel string
	MaxTokens       int
	Temperature     *float32
}
