package zonemap

// Shape is the road layout class of a zone. It drives both the road
// painter and which anchor lines the grid transform uses.
type Shape int

const (
	ShapeHorizontal Shape = iota
	ShapeVertical
	ShapeUShape
	ShapeLShape
)

func (s Shape) String() string {
	switch s {
	case ShapeHorizontal:
		return "horizontal"
	case ShapeVertical:
		return "vertical"
	case ShapeUShape:
		return "u-shape"
	case ShapeLShape:
		return "l-shape"
	}
	return "unknown"
}

// Viewport selects which of the two row-mapping formulas the grid
// transform uses. The two are deliberately separate code paths, not a
// continuous responsive function.
type Viewport int

const (
	ViewportDesktop Viewport = iota
	ViewportMobile
)

// Config is the static per-zone grid configuration. All bounds are
// percentages (0-100) of the container; CornerX/CornerY are only read
// for the u-shape and l-shape roads.
type Config struct {
	ZoneID string
	Name   string
	Shape  Shape

	StartX, EndX float64
	StartY, EndY float64
	CornerX      float64
	CornerY      float64

	MaxRows int
	MaxCols int

	// MobileWidthCutoff is the container width (px) at or below which
	// the mobile row formula applies. Injected by the embedder; the
	// transform itself has no opinion on the number.
	MobileWidthCutoff int
}

// ViewportFor classifies a container width against the injected cutoff.
func (c Config) ViewportFor(containerW int) Viewport {
	if containerW <= c.MobileWidthCutoff {
		return ViewportMobile
	}
	return ViewportDesktop
}

// ValidCell reports whether (row, col) is a placeable cell.
func (c Config) ValidCell(cell Cell) bool {
	return cell.Row >= 1 && cell.Row <= c.MaxRows &&
		cell.Col >= 1 && cell.Col <= c.MaxCols
}
