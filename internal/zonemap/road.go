package zonemap

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// RoadStyle is the painter's palette. Opacities live in the alpha
// channels.
type RoadStyle struct {
	Base    color.RGBA // asphalt under-layer
	Overlay color.RGBA // darker wear layer
	Edge    color.RGBA // kerb highlight
	Center  color.RGBA // dashed centre line
	Grain   color.RGBA // texture speckle base shade
}

func DefaultRoadStyle() RoadStyle {
	return RoadStyle{
		Base:    color.RGBA{R: 58, G: 56, B: 52, A: 255},
		Overlay: color.RGBA{R: 48, G: 46, B: 42, A: 255},
		Edge:    color.RGBA{R: 86, G: 84, B: 76, A: 255},
		Center:  color.RGBA{R: 188, G: 176, B: 120, A: 150},
		Grain:   color.RGBA{R: 70, G: 68, B: 62, A: 46},
	}
}

const (
	roadOversample = 2   // buffer is painted at 2x and blitted down
	roadGrainCount = 280 // grains are seeded once and only rescaled
	roadDashLen    = 24.0
	roadDashGap    = 16.0
	// resizeDebounceTicks coalesces rapid resizes into one repaint,
	// roughly 300ms at 60 ticks/s.
	resizeDebounceTicks = 18
)

// roadGrain is one texture speckle in proportional 0-1 coordinates.
// Positions are generated once at construction and re-projected onto
// the current pixel size on every redraw, so the texture never jumps
// on resize.
type roadGrain struct {
	u, v  float32
	size  float32
	shade uint8 // offset applied to the grain base shade
}

// RoadRenderer paints a zone's road shape into an oversampled offscreen
// image, independent of the entities placed on it. It owns its buffer
// exclusively.
type RoadRenderer struct {
	cfg    Config
	style  RoadStyle
	grains []roadGrain

	w, h  int
	buf   *ebiten.Image
	white *ebiten.Image
}

func NewRoadRenderer(cfg Config, style RoadStyle, seed int64) *RoadRenderer {
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- cosmetic only
	grains := make([]roadGrain, 0, roadGrainCount)
	for i := 0; i < roadGrainCount; i++ {
		grains = append(grains, roadGrain{
			u:     rng.Float32(),
			v:     rng.Float32(),
			size:  1.5 + rng.Float32()*2.5,
			shade: uint8(rng.Intn(18)),
		})
	}
	return &RoadRenderer{cfg: cfg, style: style, grains: grains}
}

// Resize records the container size. The caller debounces the actual
// repaint; Redraw must follow before the next Draw shows the new size.
func (r *RoadRenderer) Resize(w, h int) {
	r.w, r.h = w, h
}

// Redraw repaints the road into the offscreen buffer at the current
// size. A zero-sized container skips the paint entirely.
func (r *RoadRenderer) Redraw() {
	if r.w <= 0 || r.h <= 0 {
		return
	}
	bw := r.w * roadOversample
	bh := r.h * roadOversample
	if r.buf == nil || r.buf.Bounds().Dx() != bw || r.buf.Bounds().Dy() != bh {
		r.buf = ebiten.NewImage(bw, bh)
	}
	if r.white == nil {
		r.white = ebiten.NewImage(1, 1)
		r.white.Fill(color.White)
	}
	r.buf.Clear()

	pts := shapePolyline(r.cfg, float64(r.w), float64(r.h))
	if len(pts) < 2 {
		return
	}
	width := roadStrokeWidth(r.cfg, float64(r.w), float64(r.h))

	// Scale the path to buffer space.
	bp := make([][2]float64, len(pts))
	for i, p := range pts {
		bp[i] = [2]float64{p[0] * roadOversample, p[1] * roadOversample}
	}
	bWidth := width * roadOversample

	// Layered strokes: asphalt base, wear overlay, then a kerb pass 3px
	// wider redrawn 4px narrower in the overlay colour, leaving a
	// bordered edge. Round joins keep multi-segment shapes seamless.
	r.strokePolyline(bp, bWidth, r.style.Base)
	r.strokePolyline(bp, bWidth, r.style.Overlay)
	r.strokePolyline(bp, bWidth+3*roadOversample, r.style.Edge)
	r.strokePolyline(bp, bWidth-4*roadOversample, r.style.Overlay)

	r.drawGrains(bp, bWidth)
	r.drawCenterLine(bp)
}

// Draw blits the pre-painted road onto the destination. A missing
// buffer or destination skips the frame silently.
func (r *RoadRenderer) Draw(dst *ebiten.Image, offX, offY float64) {
	if dst == nil || r.buf == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(1.0/roadOversample, 1.0/roadOversample)
	op.GeoM.Translate(offX, offY)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(r.buf, op)
}

func (r *RoadRenderer) strokePolyline(pts [][2]float64, width float64, clr color.RGBA) {
	if width <= 0 {
		return
	}
	var path vector.Path
	path.MoveTo(float32(pts[0][0]), float32(pts[0][1]))
	for _, p := range pts[1:] {
		path.LineTo(float32(p[0]), float32(p[1]))
	}
	op := &vector.StrokeOptions{
		Width:    float32(width),
		LineCap:  vector.LineCapRound,
		LineJoin: vector.LineJoinRound,
	}
	vs, is := path.AppendVerticesAndIndicesForStroke(nil, nil, op)
	for i := range vs {
		vs[i].SrcX = 0
		vs[i].SrcY = 0
		vs[i].ColorR = float32(clr.R) / 255
		vs[i].ColorG = float32(clr.G) / 255
		vs[i].ColorB = float32(clr.B) / 255
		vs[i].ColorA = float32(clr.A) / 255
	}
	r.buf.DrawTriangles(vs, is, r.white, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// drawGrains re-projects the fixed grain set onto the current buffer
// size. Grains only render where they fall within the stroked road.
func (r *RoadRenderer) drawGrains(pts [][2]float64, width float64) {
	base := r.style.Grain
	for _, gr := range r.grains {
		gx := float64(gr.u) * float64(r.w) * roadOversample
		gy := float64(gr.v) * float64(r.h) * roadOversample
		if !pointOnRoad(pts, width, gx, gy) {
			continue
		}
		shade := base
		shade.R = addShade(shade.R, gr.shade)
		shade.G = addShade(shade.G, gr.shade)
		shade.B = addShade(shade.B, gr.shade)
		sz := gr.size * roadOversample
		vector.FillRect(r.buf, float32(gx), float32(gy), sz, sz, shade, false)
	}
}

func (r *RoadRenderer) drawCenterLine(pts [][2]float64) {
	dash := roadDashLen * roadOversample
	gap := roadDashGap * roadOversample
	clr := r.style.Center

	carry := 0.0 // distance into the dash/gap cycle, carried across segments
	for i := 0; i+1 < len(pts); i++ {
		ax, ay := pts[i][0], pts[i][1]
		bx, by := pts[i+1][0], pts[i+1][1]
		segLen := math.Hypot(bx-ax, by-ay)
		if segLen < 1e-6 {
			continue
		}
		ux, uy := (bx-ax)/segLen, (by-ay)/segLen
		pos := 0.0
		for pos < segLen {
			cyclePos := math.Mod(carry+pos, dash+gap)
			if cyclePos < dash {
				run := math.Min(dash-cyclePos, segLen-pos)
				vector.StrokeLine(r.buf,
					float32(ax+ux*pos), float32(ay+uy*pos),
					float32(ax+ux*(pos+run)), float32(ay+uy*(pos+run)),
					1.5*roadOversample, clr, false)
				pos += run
			} else {
				pos += (dash + gap) - cyclePos
			}
		}
		carry = math.Mod(carry+segLen, dash+gap)
	}
}

// shapePolyline returns the road's centre path for the configured shape
// in container pixels.
func shapePolyline(cfg Config, w, h float64) [][2]float64 {
	sx := cfg.StartX / 100 * w
	ex := cfg.EndX / 100 * w
	sy := cfg.StartY / 100 * h
	ey := cfg.EndY / 100 * h
	cx := cfg.CornerX / 100 * w
	cy := cfg.CornerY / 100 * h

	switch cfg.Shape {
	case ShapeVertical:
		mid := (sx + ex) / 2
		return [][2]float64{{mid, sy}, {mid, ey}}
	case ShapeLShape:
		return [][2]float64{{sx, cy}, {cx, cy}, {cx, ey}}
	case ShapeUShape:
		return [][2]float64{{sx, sy}, {sx, ey}, {ex, ey}, {ex, sy}}
	}
	mid := (sy + ey) / 2
	return [][2]float64{{sx, mid}, {ex, mid}}
}

// roadStrokeWidth sizes the base stroke from the configured bounds.
func roadStrokeWidth(cfg Config, w, h float64) float64 {
	spanX := (cfg.EndX - cfg.StartX) / 100 * w
	spanY := (cfg.EndY - cfg.StartY) / 100 * h
	span := spanY
	if cfg.Shape == ShapeVertical {
		span = spanX
	}
	if cfg.Shape == ShapeUShape || cfg.Shape == ShapeLShape {
		span = math.Min(spanX, spanY)
	}
	return math.Max(32, span*0.35)
}

// pointOnRoad reports whether the point lies within the stroked road
// rectangle for the given centre path.
func pointOnRoad(pts [][2]float64, width, x, y float64) bool {
	half := width / 2
	for i := 0; i+1 < len(pts); i++ {
		d := pointToSegmentDist(x, y, pts[i][0], pts[i][1], pts[i+1][0], pts[i+1][1])
		if d <= half {
			return true
		}
	}
	return false
}

// pointToSegmentDist returns the minimum distance from point (px,py) to
// the line segment (ax,ay)-(bx,by).
func pointToSegmentDist(px, py, ax, ay, bx, by float64) float64 {
	dx := bx - ax
	dy := by - ay
	lenSq := dx*dx + dy*dy
	if lenSq < 1e-9 {
		return math.Sqrt((px-ax)*(px-ax) + (py-ay)*(py-ay))
	}
	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	cx := ax + t*dx
	cy := ay + t*dy
	return math.Sqrt((px-cx)*(px-cx) + (py-cy)*(py-cy))
}

func addShade(c, offset uint8) uint8 {
	v := int(c) + int(offset) - 9
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(v)
}
