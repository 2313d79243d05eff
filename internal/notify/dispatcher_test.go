// internal/notify/dispatcher_test.go
package notify

import (
	"errors"
	"sync"
	"testing"
)

type recordingChannel struct {
	mu       sync.Mutex
	subjects []string
	bodies   []string
	err      error
}

func (c *recordingChannel) handler(subject, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subjects = append(c.subjects, subject)
	c.bodies = append(c.bodies, body)
	return c.err
}

func (c *recordingChannel) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subjects)
}

func TestDispatchReachesAllChannels(t *testing.T) {
	d := NewDispatcher(2)
	email := &recordingChannel{}
	telegram := &recordingChannel{}
	d.Register("email", email.handler)
	d.Register("telegram", telegram.handler)

	d.Dispatch("Anrufprotokoll CA1 – Thema: Support", "Thema: Support\nKunde: Hallo")
	d.Wait()

	for name, ch := range map[string]*recordingChannel{"email": email, "telegram": telegram} {
		if ch.count() != 1 {
			t.Errorf("channel %s: expected 1 delivery, got %d", name, ch.count())
			continue
		}
		if ch.subjects[0] != "Anrufprotokoll CA1 – Thema: Support" {
			t.Errorf("channel %s: unexpected subject %q", name, ch.subjects[0])
		}
	}
}

func TestDispatchFailureDoesNotBlockOthers(t *testing.T) {
	d := NewDispatcher(2)
	failing := &recordingChannel{err: errors.New("smtp down")}
	working := &recordingChannel{}
	d.Register("email", failing.handler)
	d.Register("telegram", working.handler)

	d.Dispatch("subject", "body")
	d.Wait()

	if working.count() != 1 {
		t.Errorf("working channel must still deliver, got %d", working.count())
	}
}

func TestDispatchNoChannels(t *testing.T) {
	d := NewDispatcher(1)
	d.Dispatch("subject", "body") // must not panic
	d.Wait()
}

func TestDispatchMultiple(t *testing.T) {
	d := NewDispatcher(1)
	ch := &recordingChannel{}
	d.Register("email", ch.handler)

	for i := 0; i < 5; i++ {
		d.Dispatch("subject", "body")
	}
	d.Wait()

	if ch.count() != 5 {
		t.Errorf("expected 5 deliveries, got %d", ch.count())
	}
}
