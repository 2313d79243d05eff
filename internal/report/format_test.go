// internal/report/format_test.go
package report

import (
	"strings"
	"testing"

	"github.com/user/hotline/internal/types"
)

func TestConversationLog(t *testing.T) {
	messages := []types.Message{
		{Role: types.RoleSystem, Content: "Du bist ein freundlicher Kundendienst."},
		{Role: types.RoleUser, Content: "Wie sind Ihre Öffnungszeiten?"},
		{Role: types.RoleSystem, Content: "Thema: Allgemeine Anfrage"},
		{Role: types.RoleAssistant, Content: "Wir haben von 9 bis 18 Uhr geöffnet."},
	}

	got := ConversationLog(messages, "Allgemeine Anfrage")

	lines := strings.Split(got, "\n")
	want := []string{
		"Thema: Allgemeine Anfrage",
		"Kunde: Wie sind Ihre Öffnungszeiten?",
		"Thema: Allgemeine Anfrage",
		"KI: Wir haben von 9 bis 18 Uhr geöffnet.",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), got)
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d: expected %q, got %q", i, w, lines[i])
		}
	}
}

func TestConversationLogElidesDirective(t *testing.T) {
	messages := []types.Message{
		{Role: types.RoleSystem, Content: "geheime Direktive"},
		{Role: types.RoleUser, Content: "Hallo"},
	}

	got := ConversationLog(messages, "Support")
	if strings.Contains(got, "geheime Direktive") {
		t.Errorf("directive must not appear in the log: %q", got)
	}
}

func TestConversationLogEmptyHistory(t *testing.T) {
	got := ConversationLog(nil, "Support")
	if got != "Thema: Support" {
		t.Errorf("expected header only, got %q", got)
	}
}

func TestSubject(t *testing.T) {
	got := Subject("CA123", "Reklamation")
	want := "Anrufprotokoll CA123 – Thema: Reklamation"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
