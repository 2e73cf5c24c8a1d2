package zonemap

import (
	"testing"
	"time"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestOptimisticLastWriteWins(t *testing.T) {
	s := NewOptimisticStore(newFakeClock().Now)
	s.Apply("venue-1", Cell{Row: 1, Col: 3})
	s.Apply("venue-1", Cell{Row: 1, Col: 7})

	cell, ok := s.Pending("venue-1")
	if !ok {
		t.Fatal("expected a pending entry")
	}
	if cell != (Cell{Row: 1, Col: 7}) {
		t.Fatalf("expected last write to win, got %v", cell)
	}
	if s.Len() != 1 {
		t.Fatalf("expected one entry per id, got %d", s.Len())
	}
}

func TestOptimisticClearReverts(t *testing.T) {
	s := NewOptimisticStore(newFakeClock().Now)
	s.Apply("venue-1", Cell{Row: 2, Col: 5})
	s.Clear("venue-1")
	if _, ok := s.Pending("venue-1"); ok {
		t.Fatal("cleared entry still pending")
	}
}

func TestApplyPairIsAtomicForRenders(t *testing.T) {
	s := NewOptimisticStore(newFakeClock().Now)
	s.ApplyPair("venue-1", Cell{Row: 1, Col: 7}, "venue-2", Cell{Row: 1, Col: 3})

	a, okA := s.Pending("venue-1")
	b, okB := s.Pending("venue-2")
	if !okA || !okB {
		t.Fatal("both swap participants must be pending after one call")
	}
	if a == b {
		t.Fatalf("both entities claim the same cell: %v", a)
	}
}

func TestOperationLock(t *testing.T) {
	clock := newFakeClock()
	s := NewOptimisticStore(clock.Now)
	if s.IsLocked() {
		t.Fatal("fresh store should not be locked")
	}
	s.SetOperationLock(500 * time.Millisecond)
	if !s.IsLocked() {
		t.Fatal("store should be locked immediately after arming")
	}
	clock.Advance(499 * time.Millisecond)
	if !s.IsLocked() {
		t.Fatal("lock expired early")
	}
	clock.Advance(2 * time.Millisecond)
	if s.IsLocked() {
		t.Fatal("lock should have expired")
	}
}

func TestMergeReflectsOptimisticOverlay(t *testing.T) {
	s := NewOptimisticStore(newFakeClock().Now)
	authoritative := []Entity{
		{ID: "venue-1", Name: "Lucky Star", Kind: KindVenue, Cell: Cell{Row: 1, Col: 3}},
		{ID: "venue-2", Name: "Blue Moon", Kind: KindVenue, Cell: Cell{Row: 1, Col: 7}},
	}

	s.Apply("venue-1", Cell{Row: 2, Col: 4})
	merged := MergeRenderList(authoritative, s)
	if got := entityIn(merged, "venue-1").Cell; got != (Cell{Row: 2, Col: 4}) {
		t.Fatalf("pending cell should override authoritative data, got %v", got)
	}
	if got := entityIn(merged, "venue-2").Cell; got != (Cell{Row: 1, Col: 7}) {
		t.Fatalf("untouched entity moved: %v", got)
	}

	// Rollback: the merged list reverts to authoritative data.
	s.Clear("venue-1")
	merged = MergeRenderList(authoritative, s)
	if got := entityIn(merged, "venue-1").Cell; got != (Cell{Row: 1, Col: 3}) {
		t.Fatalf("cleared entry should revert, got %v", got)
	}
}

func TestMergeKeepsOptimisticOnlyEntities(t *testing.T) {
	s := NewOptimisticStore(newFakeClock().Now)
	s.Apply("venue-9", Cell{Row: 2, Col: 2})

	merged := MergeRenderList(nil, s)
	if len(merged) != 1 {
		t.Fatalf("optimistic-only id must still render, got %d entities", len(merged))
	}
	if merged[0].ID != "venue-9" || merged[0].Cell != (Cell{Row: 2, Col: 2}) {
		t.Fatalf("reconstructed entity wrong: %+v", merged[0])
	}
}
