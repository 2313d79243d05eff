// internal/types/models.go
package types

import (
	"sync"
	"time"
)

// CallID is the provider-assigned identifier for one phone call. It is
// stable across every webhook the provider issues for that call.
type CallID string

// Role tags a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a call's conversation history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Session holds the mutable state of one in-progress call. It exists in the
// session store exactly while the call is open. Appends are guarded so that
// overlapping webhooks for the same call cannot interleave a read with a
// write.
type Session struct {
	ID        CallID
	Caller    string
	StartedAt time.Time

	mu       sync.Mutex
	messages []Message
	topics   []string
}

// NewSession creates a session whose first message is the system directive.
func NewSession(id CallID, caller, directive string, startedAt time.Time) *Session {
	return &Session{
		ID:        id,
		Caller:    caller,
		StartedAt: startedAt,
		messages:  []Message{{Role: RoleSystem, Content: directive}},
	}
}

// AppendUser records a caller utterance.
func (s *Session) AppendUser(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, Message{Role: RoleUser, Content: text})
}

// AppendAssistant records a spoken reply.
func (s *Session) AppendAssistant(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, Message{Role: RoleAssistant, Content: text})
}

// Annotate records the topic label for the current turn: it is appended to
// the topic tally and mirrored into the history as a system annotation so it
// shows up in formatted call logs.
func (s *Session) Annotate(topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topics = append(s.topics, topic)
	s.messages = append(s.messages, Message{Role: RoleSystem, Content: "Thema: " + topic})
}

// History returns a copy of the conversation so far.
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Topics returns a copy of the per-turn topic labels.
func (s *Session) Topics() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.topics))
	copy(out, s.topics)
	return out
}

// DominantTopic returns the most frequent topic label, with ties broken by
// whichever label was seen first. Returns "" when no turn has completed.
func (s *Session) DominantTopic() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int, len(s.topics))
	max := 0
	for _, topic := range s.topics {
		counts[topic]++
		if counts[topic] > max {
			max = counts[topic]
		}
	}
	for _, topic := range s.topics {
		if counts[topic] == max {
			return topic
		}
	}
	return ""
}

// CallRecord is the immutable summary of a completed call. Time marshals as
// RFC 3339, which is what the reporting dashboard expects.
type CallRecord struct {
	ID       CallID    `json:"id"`
	Caller   string    `json:"caller"`
	Time     time.Time `json:"time"`
	Duration int       `json:"duration"` // whole minutes
	Topic    string    `json:"topic"`
}
