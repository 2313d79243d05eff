// Package audio resolves provider recording references into raw audio bytes
// for offline transcription.
package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxRecordingBytes bounds a single recording download. The provider caps
// fallback recordings at 60 seconds, so anything past this is junk.
const maxRecordingBytes = 32 << 20

// Fetcher downloads call recordings from the telephony provider.
type Fetcher struct {
	client *http.Client
	policy *RetryPolicy
}

// NewFetcher creates a Fetcher with a bounded HTTP client and the default
// retry policy.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: 30 * time.Second},
		policy: DefaultRetryPolicy(),
	}
}

// Fetch downloads the recording at the given URL. The provider serves the
// audio as MP3 under the recording URL with an ".mp3" suffix.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var data []byte
	err := f.policy.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url+".mp3", nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			return fmt.Errorf("downloading recording: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("downloading recording: status %d", resp.StatusCode)
		}

		data, err = io.ReadAll(io.LimitReader(resp.Body, maxRecordingBytes))
		if err != nil {
			return fmt.Errorf("reading recording: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
