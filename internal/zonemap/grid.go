package zonemap

import "math"

// Cell is a logical (row, col) grid coordinate within a zone.
type Cell struct {
	Row int
	Col int
}

// CellBox is the pixel-space placement of a cell: top-left corner plus
// the square cell size.
type CellBox struct {
	X    float64
	Y    float64
	Size float64
}

// Center returns the pixel centre of the box.
func (b CellBox) Center() (float64, float64) {
	return b.X + b.Size/2, b.Y + b.Size/2
}

const (
	cellGap      = 4.0  // horizontal gap between neighbouring cells, px
	minCellSize  = 28.0 // cells never shrink below this on narrow containers
	maxCellSize  = 64.0 // nor grow beyond this on wide ones
	mobileRowGap = 10.0 // vertical gap in the mobile row ladder, px
)

// Grid maps logical cells to pixel positions for one zone at one
// container size. All methods are pure; a Grid is cheap to rebuild
// whenever the container resizes.
type Grid struct {
	cfg      Config
	viewport Viewport
	w, h     float64
}

// NewGrid builds a transform for the given container size. The viewport
// class is derived from the configured cutoff.
func NewGrid(cfg Config, containerW, containerH int) Grid {
	return Grid{
		cfg:      cfg,
		viewport: cfg.ViewportFor(containerW),
		w:        float64(containerW),
		h:        float64(containerH),
	}
}

func (g Grid) Viewport() Viewport { return g.viewport }

// degenerate reports whether the container cannot hold a grid at all.
func (g Grid) degenerate() bool {
	return g.w <= 0 || g.h <= 0 || g.cfg.MaxCols < 1 || g.cfg.MaxRows < 1
}

// bounds returns the configured grid rectangle in container pixels.
func (g Grid) bounds() (x0, y0, x1, y1 float64) {
	x0 = g.cfg.StartX / 100 * g.w
	x1 = g.cfg.EndX / 100 * g.w
	y0 = g.cfg.StartY / 100 * g.h
	y1 = g.cfg.EndY / 100 * g.h
	return
}

// transposed reports whether columns run vertically. Only the vertical
// road lays its cells top to bottom, and only on desktop; the mobile
// formula stacks every shape the same way.
func (g Grid) transposed() bool {
	return g.cfg.Shape == ShapeVertical && g.viewport == ViewportDesktop
}

// CellSize returns the clamped cell size for the current container.
func (g Grid) CellSize() float64 {
	if g.degenerate() {
		return 0
	}
	x0, y0, x1, y1 := g.bounds()
	usable := x1 - x0
	if g.transposed() {
		usable = y1 - y0
	}
	size := (usable - cellGap*float64(g.cfg.MaxCols-1)) / float64(g.cfg.MaxCols)
	return clampF(size, minCellSize, maxCellSize)
}

// CellToPixel maps a logical cell to its pixel box. Out-of-range cells
// are clamped to the nearest valid cell first.
func (g Grid) CellToPixel(cell Cell) CellBox {
	if g.degenerate() {
		return CellBox{}
	}
	cell = g.clampCell(cell)
	size := g.CellSize()
	step := size + cellGap

	x0, y0, x1, y1 := g.bounds()
	along := float64(cell.Col-1) * step

	if g.transposed() {
		return CellBox{X: g.anchorPos(cell.Row, x0, x1, size), Y: y0 + along, Size: size}
	}

	var y float64
	if g.viewport == ViewportMobile {
		// Mobile ladder: rows stack downward from the top bound at a
		// fixed pitch, ignoring the bottom anchor entirely.
		y = y0 + float64(cell.Row-1)*(size+mobileRowGap)
	} else {
		y = g.anchorPos(cell.Row, y0, y1, size)
	}
	return CellBox{X: x0 + along, Y: y, Size: size}
}

// anchorPos places row r on evenly spaced anchor lines between the two
// bounds, with row 1 flush to the near bound and row MaxRows flush to
// the far one.
func (g Grid) anchorPos(row int, near, far, size float64) float64 {
	if g.cfg.MaxRows <= 1 {
		return near + (far-near-size)/2
	}
	pitch := (far - near - size) / float64(g.cfg.MaxRows-1)
	return near + float64(row-1)*pitch
}

// PixelToCell maps a container-relative pixel position back to a cell.
// The second result is false when the position lies outside the grid's
// bounding rectangle entirely; positions inside it are clamped to the
// nearest valid cell.
func (g Grid) PixelToCell(x, y float64) (Cell, bool) {
	if g.degenerate() {
		return Cell{}, false
	}
	size := g.CellSize()
	step := size + cellGap
	x0, y0, x1, y1 := g.bounds()

	// The hit rectangle is the configured rectangle or the laid-out
	// extent, whichever is larger: size clamping can push cells past
	// the configured bounds on small containers.
	extent := float64(g.cfg.MaxCols)*step - cellGap

	if g.transposed() {
		fy1 := math.Max(y1, y0+extent)
		fx1 := math.Max(x1, x0+size)
		if x < x0 || x > fx1 || y < y0 || y > fy1 {
			return Cell{}, false
		}
		col := int(math.Floor((y-y0)/step)) + 1
		row := g.anchorRow(x, x0, x1, size)
		return g.clampCell(Cell{Row: row, Col: col}), true
	}

	fx1 := math.Max(x1, x0+extent)
	fy1 := y1
	if g.viewport == ViewportMobile {
		ladder := float64(g.cfg.MaxRows)*(size+mobileRowGap) - mobileRowGap
		fy1 = math.Max(y1, y0+ladder)
	} else {
		fy1 = math.Max(y1, y0+size)
	}
	if x < x0 || x > fx1 || y < y0 || y > fy1 {
		return Cell{}, false
	}

	col := int(math.Floor((x-x0)/step)) + 1
	var row int
	if g.viewport == ViewportMobile {
		row = int(math.Floor((y-y0)/(size+mobileRowGap))) + 1
	} else {
		row = g.anchorRow(y, y0, y1, size)
	}
	return g.clampCell(Cell{Row: row, Col: col}), true
}

// anchorRow inverts anchorPos: nearest anchor line to the position.
func (g Grid) anchorRow(pos, near, far, size float64) int {
	if g.cfg.MaxRows <= 1 {
		return 1
	}
	pitch := (far - near - size) / float64(g.cfg.MaxRows-1)
	if pitch <= 0 {
		return 1
	}
	return int(math.Round((pos-near-size/2)/pitch)) + 1
}

func (g Grid) clampCell(c Cell) Cell {
	c.Row = clampI(c.Row, 1, g.cfg.MaxRows)
	c.Col = clampI(c.Col, 1, g.cfg.MaxCols)
	return c
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
