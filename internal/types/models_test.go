// internal/types/models_test.go
package types

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestNewSessionStartsWithDirective(t *testing.T) {
	sess := NewSession("call-1", "+491234", "directive text", time.Now())

	history := sess.History()
	if len(history) != 1 {
		t.Fatalf("expected 1 message, got %d", len(history))
	}
	if history[0].Role != RoleSystem {
		t.Errorf("expected system role first, got %q", history[0].Role)
	}
	if history[0].Content != "directive text" {
		t.Errorf("expected directive content, got %q", history[0].Content)
	}
}

func TestSessionAppendOrder(t *testing.T) {
	sess := NewSession("call-1", "+491234", "sys", time.Now())
	sess.AppendUser("question")
	sess.Annotate("Support")
	sess.AppendAssistant("answer")

	history := sess.History()
	if len(history) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(history))
	}
	if history[0].Role != RoleSystem {
		t.Errorf("directive must stay first, got %q", history[0].Role)
	}
	if history[1].Role != RoleUser || history[1].Content != "question" {
		t.Errorf("unexpected user turn: %+v", history[1])
	}
	if history[2].Role != RoleSystem || history[2].Content != "Thema: Support" {
		t.Errorf("unexpected annotation: %+v", history[2])
	}
	if history[3].Role != RoleAssistant || history[3].Content != "answer" {
		t.Errorf("unexpected assistant turn: %+v", history[3])
	}

	topics := sess.Topics()
	if len(topics) != 1 || topics[0] != "Support" {
		t.Errorf("expected topics [Support], got %v", topics)
	}
}

func TestSessionHistoryIsCopy(t *testing.T) {
	sess := NewSession("call-1", "+491234", "sys", time.Now())
	sess.AppendUser("one")

	history := sess.History()
	history[0].Content = "mutated"

	if sess.History()[0].Content != "sys" {
		t.Error("mutating the returned history must not affect the session")
	}
}

func TestDominantTopic(t *testing.T) {
	tests := []struct {
		name   string
		topics []string
		want   string
	}{
		{"empty", nil, ""},
		{"single", []string{"Support"}, "Support"},
		{"majority", []string{"Support", "Verkauf", "Support"}, "Support"},
		{"tie breaks first seen", []string{"Support", "Verkauf"}, "Support"},
		{"tie breaks first seen interleaved", []string{"Verkauf", "Support", "Support", "Verkauf"}, "Verkauf"},
		{"late majority wins", []string{"Support", "Verkauf", "Verkauf"}, "Verkauf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := NewSession("call-1", "+491234", "sys", time.Now())
			for _, topic := range tt.topics {
				sess.Annotate(topic)
			}
			if got := sess.DominantTopic(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCallRecordJSON(t *testing.T) {
	started := time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC)
	rec := CallRecord{
		ID:       "CA123",
		Caller:   "+491234",
		Time:     started,
		Duration: 3,
		Topic:    "Support",
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"time":"2024-06-01T14:30:00Z"`) {
		t.Errorf("expected RFC 3339 time, got %s", data)
	}
	if !strings.Contains(string(data), `"duration":3`) {
		t.Errorf("expected duration in minutes, got %s", data)
	}
}
