package zonemap

import (
	"strings"
	"testing"
)

func TestBuildLayoutReport(t *testing.T) {
	cfg := testConfig()
	store := NewOptimisticStore(newFakeClock().Now)
	entities := []Entity{
		{ID: "venue-2", Name: "Blue Moon", Kind: KindVenue, Cell: Cell{Row: 1, Col: 7}},
		{ID: "venue-1", Name: "Lucky Star", Kind: KindVenue, Cell: Cell{Row: 1, Col: 3}},
		{ID: "worker-1", Name: "Nok", Kind: KindWorker, Cell: Cell{Row: 2, Col: 3}},
	}
	store.Apply("venue-1", Cell{Row: 2, Col: 8})
	store.Apply("venue-9", Cell{Row: 2, Col: 2})

	report := BuildLayoutReport(cfg, entities, store)
	t.Logf("\n%s", report)

	for _, want := range []string{
		"Walking Street",
		"shape=horizontal grid=2x10",
		"pending=2",
		"Lucky Star",
		"[pending -> (2,8)]",
		"worker   Nok",
		"pending-only venue-9",
	} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}

	// Entities are listed row-major.
	if strings.Index(report, "Lucky Star") > strings.Index(report, "Blue Moon") {
		t.Fatal("entities not sorted by cell")
	}
}
