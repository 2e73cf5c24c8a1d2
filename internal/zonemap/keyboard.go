package zonemap

import "sort"

// FocusDir is an arrow-key focus movement.
type FocusDir int

const (
	FocusLeft FocusDir = iota
	FocusRight
	FocusUp
	FocusDown
)

// NextFocus returns the id of the entity that should receive input
// focus after moving in the given direction. Left/right walk within the
// current row by column; up/down jump to the nearest-by-column entity
// in the nearest populated row in that direction. Focus never performs
// moves, only selection for activation.
//
// An empty currentID (or one that no longer exists) focuses the first
// entity in row/column order. The id is returned unchanged when there
// is nowhere to go.
func NextFocus(entities []Entity, currentID string, dir FocusDir) string {
	if len(entities) == 0 {
		return ""
	}
	sorted := append([]Entity(nil), entities...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Cell.Row != sorted[j].Cell.Row {
			return sorted[i].Cell.Row < sorted[j].Cell.Row
		}
		return sorted[i].Cell.Col < sorted[j].Cell.Col
	})

	cur := -1
	for i, e := range sorted {
		if e.ID == currentID {
			cur = i
			break
		}
	}
	if cur < 0 {
		return sorted[0].ID
	}
	at := sorted[cur]

	switch dir {
	case FocusLeft, FocusRight:
		step := 1
		if dir == FocusLeft {
			step = -1
		}
		for i := cur + step; i >= 0 && i < len(sorted); i += step {
			if sorted[i].Cell.Row == at.Cell.Row {
				return sorted[i].ID
			}
			break // left the row; nothing further that way
		}
		return currentID

	case FocusUp, FocusDown:
		rowStep := -1
		if dir == FocusDown {
			rowStep = 1
		}
		// Find the nearest populated row in that direction.
		bestRow := 0
		bestDr := -1
		for _, e := range sorted {
			dr := (e.Cell.Row - at.Cell.Row) * rowStep
			if dr <= 0 {
				continue
			}
			if bestDr < 0 || dr < bestDr {
				bestDr = dr
				bestRow = e.Cell.Row
			}
		}
		if bestDr < 0 {
			return currentID
		}
		// Nearest by column within that row.
		bestID := currentID
		bestDist := -1
		for _, e := range sorted {
			if e.Cell.Row != bestRow {
				continue
			}
			dist := e.Cell.Col - at.Cell.Col
			if dist < 0 {
				dist = -dist
			}
			if bestDist < 0 || dist < bestDist {
				bestDist = dist
				bestID = e.ID
			}
		}
		return bestID
	}
	return currentID
}
