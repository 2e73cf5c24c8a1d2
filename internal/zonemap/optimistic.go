package zonemap

import (
	"sort"
	"time"
)

// OptimisticStore is the in-memory overlay of pending entity positions:
// cells whose move has been requested but not yet confirmed or rejected
// by the backend, plus the operation lock that bridges the gap between
// a confirmed move and the next authoritative refresh.
//
// The store is owned by exactly one ZoneView and is only touched from
// the update loop, so it carries no locking of its own.
type OptimisticStore struct {
	now         func() time.Time
	pending     map[string]Cell
	lockedUntil time.Time
}

// NewOptimisticStore builds a store around an injectable clock; pass
// time.Now outside tests.
func NewOptimisticStore(now func() time.Time) *OptimisticStore {
	if now == nil {
		now = time.Now
	}
	return &OptimisticStore{
		now:     now,
		pending: make(map[string]Cell),
	}
}

// Apply upserts the pending cell for an entity. Last write wins.
func (s *OptimisticStore) Apply(id string, cell Cell) {
	s.pending[id] = cell
}

// ApplyPair applies both participants of a swap in one call, so no
// render can observe a state where only one side has moved.
func (s *OptimisticStore) ApplyPair(idA string, cellA Cell, idB string, cellB Cell) {
	s.pending[idA] = cellA
	s.pending[idB] = cellB
}

// Clear removes the pending entry for an entity, reverting it to
// authoritative data.
func (s *OptimisticStore) Clear(ids ...string) {
	for _, id := range ids {
		delete(s.pending, id)
	}
}

// Pending returns the pending cell for an entity, if any.
func (s *OptimisticStore) Pending(id string) (Cell, bool) {
	cell, ok := s.pending[id]
	return cell, ok
}

// PendingIDs returns the ids with pending entries in a stable order.
func (s *OptimisticStore) PendingIDs() []string {
	ids := make([]string, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of pending entries.
func (s *OptimisticStore) Len() int { return len(s.pending) }

// SetOperationLock refuses new drag sessions until now+d. Armed after a
// confirmed move so stale authoritative data cannot snap the entity
// back before the refreshed data catches up.
func (s *OptimisticStore) SetOperationLock(d time.Duration) {
	s.lockedUntil = s.now().Add(d)
}

// IsLocked reports whether the operation lock is currently armed.
func (s *OptimisticStore) IsLocked() bool {
	return s.now().Before(s.lockedUntil)
}
