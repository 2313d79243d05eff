// internal/state/archive.go
package state

import (
	"sync"
	"time"

	"github.com/user/hotline/internal/types"
)

// Archive is the append-only list of completed call records. Records are
// never mutated, removed, or compacted; queries are non-destructive filters
// over a lookback window.
type Archive struct {
	mu      sync.RWMutex
	records []types.CallRecord
	now     func() time.Time
}

// NewArchive creates an empty Archive.
func NewArchive() *Archive {
	return &Archive{now: time.Now}
}

// Append adds a completed call record.
func (a *Archive) Append(rec types.CallRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, rec)
}

// Since returns all records whose start time falls within the last `days`
// days, in insertion order. Days below 1 are treated as 1.
func (a *Archive) Since(days int) []types.CallRecord {
	if days < 1 {
		days = 1
	}
	cutoff := a.now().Add(-time.Duration(days) * 24 * time.Hour)

	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]types.CallRecord, 0, len(a.records))
	for _, rec := range a.records {
		if !rec.Time.Before(cutoff) {
			out = append(out, rec)
		}
	}
	return out
}

// Len returns the total number of archived records.
func (a *Archive) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.records)
}
