// internal/report/format.go

// Package report renders a call's conversation history into the plain-text
// log that gets dispatched when the call ends.
package report

import (
	"strings"

	"github.com/user/hotline/internal/types"
)

// ConversationLog renders the message history plus the dominant topic into a
// human-readable report. The leading system directive is elided; topic
// annotations recorded during the call stay visible.
func ConversationLog(messages []types.Message, topTopic string) string {
	var b strings.Builder
	b.WriteString("Thema: " + topTopic)

	for i, msg := range messages {
		if i == 0 && msg.Role == types.RoleSystem {
			continue
		}
		b.WriteString("\n")
		switch msg.Role {
		case types.RoleUser:
			b.WriteString("Kunde: " + msg.Content)
		case types.RoleAssistant:
			b.WriteString("KI: " + msg.Content)
		default:
			b.WriteString(msg.Content)
		}
	}
	return b.String()
}

// Subject builds the notification subject line for a completed call.
func Subject(id types.CallID, topTopic string) string {
	return "Anrufprotokoll " + string(id) + " – Thema: " + topTopic
}
