// Package metrics counts what a diff session did: patches forwarded to
// the document store, stale async responses dropped, diff refreshes. The
// counters are logged when the session ends; nothing leaves the machine.
package metrics

import (
	"crypto/rand"
	"fmt"
	"sync/atomic"
	"time"

	"diffpane/logger"
)

// Tracker accumulates counters for one diff session. All methods are safe
// for concurrent use.
type Tracker struct {
	sessionID string
	startedAt time.Time

	diffRefreshes  atomic.Int64
	patchesApplied atomic.Int64
	patchesFailed  atomic.Int64
	staleDropped   atomic.Int64
	pairResolved   atomic.Int64
	searches       atomic.Int64
}

// NewTracker creates a tracker with a fresh session id.
func NewTracker() *Tracker {
	return &Tracker{
		sessionID: GenerateUUID(),
		startedAt: time.Now(),
	}
}

// SessionID returns the session's random identifier.
func (t *Tracker) SessionID() string { return t.sessionID }

// DiffRefreshed counts a full alignment fetched from the backend.
func (t *Tracker) DiffRefreshed() { t.diffRefreshes.Add(1) }

// PatchApplied counts a minimal edit accepted by the document store.
func (t *Tracker) PatchApplied() { t.patchesApplied.Add(1) }

// PatchFailed counts a rejected edit. These are surfaced to the user.
func (t *Tracker) PatchFailed() { t.patchesFailed.Add(1) }

// StaleDropped counts an async response discarded by a sequence guard.
func (t *Tracker) StaleDropped() { t.staleDropped.Add(1) }

// PairResolved counts a completed pair-highlight lookup.
func (t *Tracker) PairResolved() { t.pairResolved.Add(1) }

// SearchIssued counts a search request sent to the backend.
func (t *Tracker) SearchIssued() { t.searches.Add(1) }

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	DiffRefreshes  int64
	PatchesApplied int64
	PatchesFailed  int64
	StaleDropped   int64
	PairResolved   int64
	Searches       int64
}

// Snapshot returns the current counter values.
func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		DiffRefreshes:  t.diffRefreshes.Load(),
		PatchesApplied: t.patchesApplied.Load(),
		PatchesFailed:  t.patchesFailed.Load(),
		StaleDropped:   t.staleDropped.Load(),
		PairResolved:   t.pairResolved.Load(),
		Searches:       t.searches.Load(),
	}
}

// LogSummary writes the session's counters to the log. Called on session
// shutdown.
func (t *Tracker) LogSummary() {
	s := t.Snapshot()
	logger.Info("session %s over %v: refreshes=%d patches=%d failed=%d stale=%d pairs=%d searches=%d",
		t.sessionID, time.Since(t.startedAt).Round(time.Second),
		s.DiffRefreshes, s.PatchesApplied, s.PatchesFailed, s.StaleDropped, s.PairResolved, s.Searches)
}

// GenerateUUID returns a random version-4 UUID string.
func GenerateUUID() string {
	var uuid [16]byte
	if _, err := rand.Read(uuid[:]); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	uuid[6] = (uuid[6] & 0x0f) | 0x40 // version 4
	uuid[8] = (uuid[8] & 0x3f) | 0x80 // variant 2
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		uuid[0:4], uuid[4:6], uuid[6:8], uuid[8:10], uuid[10:16])
}
