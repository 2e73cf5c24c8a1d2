package zonemap

import (
	"fmt"
	"image/color"
)

// Kind distinguishes the two placeable entity variants. They obey
// different interaction rules: independent workers may only be moved
// to empty cells and never participate in swaps.
type Kind int

const (
	KindVenue Kind = iota
	KindWorker
)

func (k Kind) String() string {
	if k == KindWorker {
		return "worker"
	}
	return "venue"
}

// Entity is a placeable marker on the zone grid: a venue or an
// independent worker.
type Entity struct {
	ID    string
	Name  string
	Kind  Kind
	Cell  Cell
	Color color.RGBA
}

// Swappable reports whether the entity may take part in a swap.
func (e Entity) Swappable() bool { return e.Kind == KindVenue }

// Label is the accessible name/role string carried by the entity's marker.
func (e Entity) Label() string {
	return fmt.Sprintf("%s (%s)", e.Name, e.Kind)
}

// MergeRenderList combines the authoritative entity list with the
// optimistic overlay: pending cells override authoritative ones, and
// ids that exist only in the overlay (the gap between an optimistic
// apply and the next authoritative refresh) are still rendered from
// reconstructed minimal data so they do not flicker out of existence.
func MergeRenderList(authoritative []Entity, store *OptimisticStore) []Entity {
	out := make([]Entity, 0, len(authoritative))
	seen := make(map[string]bool, len(authoritative))
	for _, e := range authoritative {
		if cell, ok := store.Pending(e.ID); ok {
			e.Cell = cell
		}
		out = append(out, e)
		seen[e.ID] = true
	}
	for _, id := range store.PendingIDs() {
		if seen[id] {
			continue
		}
		cell, _ := store.Pending(id)
		out = append(out, Entity{
			ID:    id,
			Name:  id,
			Kind:  KindVenue,
			Cell:  cell,
			Color: color.RGBA{R: 120, G: 120, B: 120, A: 255},
		})
	}
	return out
}

// EntityAt returns the entity occupying the given cell in a merged
// render list, or nil.
func EntityAt(entities []Entity, cell Cell) *Entity {
	for i := range entities {
		if entities[i].Cell == cell {
			return &entities[i]
		}
	}
	return nil
}
