package zonemap

import "testing"

func focusEntities() []Entity {
	return []Entity{
		{ID: "a", Cell: Cell{Row: 1, Col: 2}},
		{ID: "b", Cell: Cell{Row: 1, Col: 5}},
		{ID: "c", Cell: Cell{Row: 1, Col: 9}},
		{ID: "d", Cell: Cell{Row: 2, Col: 4}},
		{ID: "e", Cell: Cell{Row: 2, Col: 8}},
	}
}

func TestNextFocusWithinRow(t *testing.T) {
	es := focusEntities()
	cases := []struct {
		cur  string
		dir  FocusDir
		want string
	}{
		{"a", FocusRight, "b"},
		{"b", FocusRight, "c"},
		{"c", FocusRight, "c"}, // end of row, stays put
		{"b", FocusLeft, "a"},
		{"a", FocusLeft, "a"},
		{"d", FocusRight, "e"},
	}
	for _, c := range cases {
		if got := NextFocus(es, c.cur, c.dir); got != c.want {
			t.Fatalf("from %s dir %d: got %s want %s", c.cur, c.dir, got, c.want)
		}
	}
}

func TestNextFocusAcrossRows(t *testing.T) {
	es := focusEntities()
	// From b (1,5): down picks the nearest by column in row 2, d at col 4.
	if got := NextFocus(es, "b", FocusDown); got != "d" {
		t.Fatalf("b down: got %s want d", got)
	}
	// From c (1,9): down picks e at col 8.
	if got := NextFocus(es, "c", FocusDown); got != "e" {
		t.Fatalf("c down: got %s want e", got)
	}
	// From e (2,8): up picks the nearest in row 1, c at col 9.
	if got := NextFocus(es, "e", FocusUp); got != "c" {
		t.Fatalf("e up: got %s want c", got)
	}
	// No row above row 1.
	if got := NextFocus(es, "a", FocusUp); got != "a" {
		t.Fatalf("a up: got %s want a", got)
	}
}

func TestNextFocusInitialAndMissing(t *testing.T) {
	es := focusEntities()
	if got := NextFocus(es, "", FocusRight); got != "a" {
		t.Fatalf("empty focus should land on the first entity, got %s", got)
	}
	if got := NextFocus(es, "gone", FocusLeft); got != "a" {
		t.Fatalf("stale focus should land on the first entity, got %s", got)
	}
	if got := NextFocus(nil, "a", FocusRight); got != "" {
		t.Fatalf("no entities, got %q", got)
	}
}
