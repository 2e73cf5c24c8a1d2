package zonemap

import (
	"fmt"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
)

// BuildLayoutReport renders the zone's current layout as plain text:
// grid configuration, per-entity cells with pending optimistic entries
// marked, and the lock state. Copied to the clipboard on demand so an
// operator can paste the layout into a ticket.
func BuildLayoutReport(cfg Config, authoritative []Entity, store *OptimisticStore) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- zone layout: %s (%s) ---\n", cfg.Name, cfg.ZoneID)
	fmt.Fprintf(&b, "shape=%s grid=%dx%d locked=%v pending=%d\n\n",
		cfg.Shape, cfg.MaxRows, cfg.MaxCols, store.IsLocked(), store.Len())

	entities := append([]Entity(nil), authoritative...)
	sort.Slice(entities, func(i, j int) bool {
		if entities[i].Cell.Row != entities[j].Cell.Row {
			return entities[i].Cell.Row < entities[j].Cell.Row
		}
		if entities[i].Cell.Col != entities[j].Cell.Col {
			return entities[i].Cell.Col < entities[j].Cell.Col
		}
		return entities[i].ID < entities[j].ID
	})

	for _, e := range entities {
		mark := ""
		if pending, ok := store.Pending(e.ID); ok {
			mark = fmt.Sprintf("  [pending -> (%d,%d)]", pending.Row, pending.Col)
		}
		fmt.Fprintf(&b, "(%d,%2d) %-8s %s%s\n", e.Cell.Row, e.Cell.Col, e.Kind, e.Name, mark)
	}

	orphans := 0
	for _, id := range store.PendingIDs() {
		found := false
		for _, e := range entities {
			if e.ID == id {
				found = true
				break
			}
		}
		if !found {
			cell, _ := store.Pending(id)
			fmt.Fprintf(&b, "(%d,%2d) pending-only %s\n", cell.Row, cell.Col, id)
			orphans++
		}
	}
	if orphans > 0 {
		fmt.Fprintf(&b, "\n%d pending entries await their authoritative refresh\n", orphans)
	}
	return b.String()
}

// CopyLayoutReport places the layout report on the system clipboard.
func CopyLayoutReport(cfg Config, authoritative []Entity, store *OptimisticStore) error {
	return clipboard.WriteAll(BuildLayoutReport(cfg, authoritative, store))
}
