// internal/types/interfaces.go
package types

import "context"

// Classifier assigns a topic label to a transcript. Implementations must
// return a non-empty label even when the underlying capability fails; the
// label is advisory only and feeds the per-call majority vote.
type Classifier interface {
	Classify(ctx context.Context, transcript string) string
}

// Transcriber converts recorded call audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio []byte) (string, error)
}

// AudioFetcher resolves a provider recording reference into raw audio bytes.
type AudioFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Notifier delivers a formatted call log. Delivery is fire-and-forget:
// failures are logged by the implementation and never surface to the call.
type Notifier interface {
	Dispatch(subject, body string)
}
