package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/user/hotline/pkg/llm"
)

func completionBody(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
			},
		},
		"usage": map[string]any{
			"prompt_tokens":     10,
			"completion_tokens": 5,
			"total_tokens":      15,
		},
	}
}

func TestClientComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Error("missing or invalid auth header")
		}
		if r.URL.Path != "/chat/completions" {
			t.Errorf("expected path '/chat/completions', got %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(completionBody("test response"))
	}))
	defer server.Close()

	client := New(&llm.Config{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "gpt-3.5-turbo",
	})

	resp, err := client.Complete(context.Background(), []llm.Message{
		{Role: "user", Content: "hallo"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Content != "test response" {
		t.Errorf("expected 'test response', got %s", resp.Content)
	}
	if resp.Usage.InputTokens != 10 || resp.Usage.OutputTokens != 5 || resp.Usage.TotalTokens != 15 {
		t.Errorf("unexpected usage: %+v", resp.Usage)
	}
}

func TestClientTemperaturePinnedToZero(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Error(err)
		}
		json.NewEncoder(w).Encode(completionBody("ok"))
	}))
	defer server.Close()

	temp := float32(0)
	client := New(&llm.Config{
		BaseURL:     server.URL,
		APIKey:      "test-key",
		Model:       "gpt-3.5-turbo",
		MaxTokens:   10,
		Temperature: &temp,
	})

	if _, err := client.Complete(context.Background(), []llm.Message{{Role: "user", Content: "hallo"}}); err != nil {
		t.Fatal(err)
	}

	// A configured zero must reach the wire, not fall back to the backend
	// default.
	got, ok := body["temperature"]
	if !ok {
		t.Fatal("expected 'temperature' in the request body")
	}
	if got.(float64) != 0 {
		t.Errorf("expected temperature 0, got %v", got)
	}
	if body["max_tokens"].(float64) != 10 {
		t.Errorf("expected max_tokens 10, got %v", body["max_tokens"])
	}
}

func TestClientTemperatureUnsetOmitted(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Error(err)
		}
		json.NewEncoder(w).Encode(completionBody("ok"))
	}))
	defer server.Close()

	client := New(&llm.Config{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "gpt-3.5-turbo",
	})

	if _, err := client.Complete(context.Background(), []llm.Message{{Role: "user", Content: "hallo"}}); err != nil {
		t.Fatal(err)
	}

	if _, ok := body["temperature"]; ok {
		t.Errorf("unset temperature must be omitted, got %v", body["temperature"])
	}
}

func TestClientTranscribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("expected path '/audio/transcriptions', got %q", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatal(err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("expected model 'whisper-1', got %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatal(err)
		}
		defer file.Close()
		if header.Filename != "recording.mp3" {
			t.Errorf("expected filename 'recording.mp3', got %q", header.Filename)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "mp3-bytes" {
			t.Errorf("expected audio payload, got %q", string(data))
		}

		json.NewEncoder(w).Encode(map[string]any{"text": "Hallo Welt"})
	}))
	defer server.Close()

	client := New(&llm.Config{
		BaseURL:         server.URL,
		APIKey:          "test-key",
		TranscribeModel: "whisper-1",
	})

	text, err := client.Transcribe(context.Background(), "recording.mp3", []byte("mp3-bytes"))
	if err != nil {
		t.Fatal(err)
	}
	if text != "Hallo Welt" {
		t.Errorf("expected 'Hallo Welt', got %q", text)
	}
}
