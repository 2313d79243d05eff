package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/user/hotline/pkg/llm"
)

// Client implements the llm.Provider and llm.Transcriber interfaces for
// OpenAI-compatible APIs.
type Client struct {
	config     *llm.Config
	httpClient *http.Client
}

// New creates a new OpenAI-compatible client with the given configuration.
func New(config *llm.Config) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// chatRequest is the OpenAI chat completions request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature *float32      `json:"temperature,omitempty"`
}

// chatResponse is the OpenAI chat completions response body.
type chatResponse struct {
	Choices []choice      `json:"choices"`
	Usage   responseUsage `json:"usage"`
}

// choice represents a single completion choice.
type choice struct {
	Message llm.Message `json:"message"`
}

// responseUsage is the OpenAI token usage format.
type responseUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Complete sends a chat completion request and returns the full response.
func (c *Client) Complete(ctx context.Context, messages []llm.Message) (*llm.Response, error) {
	reqBody := chatRequest{
		Model:    c.config.Model,
		Messages: messages,
	}

	if c.config.MaxTokens > 0 {
		reqBody.MaxTokens = c.config.MaxTokens
	}

	if c.config.Temperature != nil {
		reqBody.Temperature = c.config.Temperature
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := c.config.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	return &llm.Response{
		Content: chatResp.Choices[0].Message.Content,
		Usage: llm.Usage{
			InputTokens:  chatResp.Usage.PromptTokens,
			OutputTokens: chatResp.Usage.CompletionTokens,
			TotalTokens:  chatResp.Usage.TotalTokens,
		},
	}, nil
}

// transcribeResponse is the OpenAI audio transcriptions response body.
type transcribeResponse struct {
	Text string `json:"text"`
}

// Transcribe sends recorded audio to the transcriptions endpoint and returns
// the recognized text.
func (c *Client) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("writing audio: %w", err)
	}

	model := c.config.TranscribeModel
	if model == "" {
		model = "whisper-1"
	}
	if err := mw.WriteField("model", model); err != nil {
		return "", fmt.Errorf("writing model field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("closing multipart writer: %w", err)
	}

	url := c.config.BaseURL + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var tr transcribeResponse
	if err := json.Unmarshal(respBody, &tr); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}

	return tr.Text, nil
}
