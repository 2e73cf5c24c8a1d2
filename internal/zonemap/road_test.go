package zonemap

import (
	"math"
	"testing"
)

func TestShapePolylines(t *testing.T) {
	w, h := 1000.0, 500.0

	horizontal := shapePolyline(Config{Shape: ShapeHorizontal, StartX: 10, EndX: 90, StartY: 40, EndY: 60}, w, h)
	if len(horizontal) != 2 {
		t.Fatalf("horizontal road should be one segment, got %d points", len(horizontal))
	}
	if horizontal[0][1] != horizontal[1][1] {
		t.Fatal("horizontal road is not level")
	}
	if horizontal[0][1] != 250 { // midway between 40% and 60% of 500
		t.Fatalf("horizontal midline at %.1f, want 250", horizontal[0][1])
	}

	vertical := shapePolyline(Config{Shape: ShapeVertical, StartX: 40, EndX: 60, StartY: 10, EndY: 90}, w, h)
	if vertical[0][0] != vertical[1][0] {
		t.Fatal("vertical road is not plumb")
	}

	l := shapePolyline(Config{Shape: ShapeLShape, StartX: 10, EndX: 90, StartY: 30, EndY: 90, CornerX: 70, CornerY: 40}, w, h)
	if len(l) != 3 {
		t.Fatalf("l-shape should have one corner, got %d points", len(l))
	}
	if l[0][1] != l[1][1] || l[1][0] != l[2][0] {
		t.Fatalf("l-shape legs not axis-aligned: %v", l)
	}

	u := shapePolyline(Config{Shape: ShapeUShape, StartX: 20, EndX: 80, StartY: 20, EndY: 80}, w, h)
	if len(u) != 4 {
		t.Fatalf("u-shape should have two corners, got %d points", len(u))
	}
}

func TestPointOnRoad(t *testing.T) {
	pts := [][2]float64{{100, 250}, {900, 250}}
	width := 60.0

	if !pointOnRoad(pts, width, 500, 250) {
		t.Fatal("centre line point should be on the road")
	}
	if !pointOnRoad(pts, width, 500, 279) {
		t.Fatal("point inside the half-width should be on the road")
	}
	if pointOnRoad(pts, width, 500, 281) {
		t.Fatal("point outside the half-width should be off the road")
	}
	if pointOnRoad(pts, width, 50, 250) {
		t.Fatal("point beyond the road end should be off the road")
	}
}

func TestPointToSegmentDist(t *testing.T) {
	// Perpendicular case.
	if d := pointToSegmentDist(5, 3, 0, 0, 10, 0); math.Abs(d-3) > 1e-9 {
		t.Fatalf("perpendicular distance: got %f want 3", d)
	}
	// Beyond an endpoint the distance is to the endpoint.
	if d := pointToSegmentDist(13, 4, 0, 0, 10, 0); math.Abs(d-5) > 1e-9 {
		t.Fatalf("endpoint distance: got %f want 5", d)
	}
	// Degenerate zero-length segment.
	if d := pointToSegmentDist(3, 4, 0, 0, 0, 0); math.Abs(d-5) > 1e-9 {
		t.Fatalf("degenerate segment distance: got %f want 5", d)
	}
}

func TestGrainsAreSeededOnce(t *testing.T) {
	cfg := testConfig()
	a := NewRoadRenderer(cfg, DefaultRoadStyle(), 42)
	b := NewRoadRenderer(cfg, DefaultRoadStyle(), 42)
	if len(a.grains) != roadGrainCount {
		t.Fatalf("expected %d grains, got %d", roadGrainCount, len(a.grains))
	}
	for i := range a.grains {
		if a.grains[i] != b.grains[i] {
			t.Fatalf("grain %d differs between renderers with the same seed", i)
		}
	}

	// Resizing never regenerates the grain set, only rescales it.
	before := append([]roadGrain(nil), a.grains...)
	a.Resize(800, 600)
	a.Resize(1600, 900)
	for i := range before {
		if a.grains[i] != before[i] {
			t.Fatalf("grain %d changed across resizes", i)
		}
	}
}

func TestRoadRendererSkipsDegenerateTargets(t *testing.T) {
	r := NewRoadRenderer(testConfig(), DefaultRoadStyle(), 1)
	// No size recorded yet: redraw must no-op without allocating.
	r.Redraw()
	if r.buf != nil {
		t.Fatal("zero-size redraw should not allocate a buffer")
	}
	// Drawing with no buffer (or no destination) skips the frame.
	r.Draw(nil, 0, 0)
}

func TestRoadStrokeWidth(t *testing.T) {
	w, h := 1000.0, 500.0
	horizontal := roadStrokeWidth(Config{Shape: ShapeHorizontal, StartY: 40, EndY: 60}, w, h)
	if horizontal != 35 { // 20% of 500 * 0.35
		t.Fatalf("horizontal width: got %.1f want 35", horizontal)
	}
	// The floor keeps hairline configurations visible.
	thin := roadStrokeWidth(Config{Shape: ShapeHorizontal, StartY: 49, EndY: 51}, w, h)
	if thin != 32 {
		t.Fatalf("thin road should clamp to 32, got %.1f", thin)
	}
}
