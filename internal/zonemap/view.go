package zonemap

import (
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

const (
	// dragDeadZone is the pixel movement needed before a press becomes
	// a drag instead of a click.
	dragDeadZone = 4.0
	// noticeTicks keeps a user-facing message on screen for ~4s.
	noticeTicks = 240
)

var dropIndicatorColors = map[DropKind]color.RGBA{
	DropMove:         {R: 60, G: 190, B: 90, A: 210},  // green
	DropSwap:         {R: 235, G: 170, B: 40, A: 210}, // amber
	DropBlocked:      {R: 220, G: 60, B: 50, A: 210},  // red
	DropUndetermined: {R: 130, G: 130, B: 130, A: 160},
}

// View is the composition root for one zone map: it owns the optimistic
// store, the drag engine, the road renderer, and the scheduler, merges
// authoritative data with the optimistic overlay into a render list,
// and drives everything from the ebiten update loop. Stores and locks
// are per-View, so multiple maps can coexist.
type View struct {
	cfg     Config
	store   *OptimisticStore
	engine  *DragEngine
	source  DataSource
	sched   *Scheduler
	road    *RoadRenderer
	resize  *Debouncer
	pointer *pointerReader

	w, h int
	grid Grid

	entities []Entity // authoritative
	merged   []Entity // rebuilt every tick from entities + overlay

	focusID     string
	pressID     string
	pressX      float64
	pressY      float64
	pressArmed  bool
	dragRefused bool

	notice     string
	noticeTask *Task

	debug bool

	onSelect func(Entity)

	tornDown bool
}

// NewView wires a zone map around the given persistence endpoint and
// entity data source.
func NewView(cfg Config, persist Persister, source DataSource) *View {
	sched := NewScheduler()
	store := NewOptimisticStore(time.Now)
	engine := NewDragEngine(cfg, store, persist, sched)
	engine.SetHaptic(hapticPulse)
	road := NewRoadRenderer(cfg, DefaultRoadStyle(), time.Now().UnixNano())

	v := &View{
		cfg:     cfg,
		store:   store,
		engine:  engine,
		source:  source,
		sched:   sched,
		road:    road,
		pointer: newPointerReader(),
	}
	v.resize = NewDebouncer(sched, resizeDebounceTicks, road.Redraw)
	return v
}

// SetPermission injects the "may this actor edit" source, re-evaluated
// whenever edit mode is toggled and at every drag start.
func (v *View) SetPermission(fn func() bool) { v.engine.SetPermission(fn) }

// SetOnSelect injects the callback fired when a non-drag click or tap
// selects an entity.
func (v *View) SetOnSelect(fn func(Entity)) { v.onSelect = fn }

// SetOnRefresh injects the callback fired after any confirmed
// move/swap, for the hosting page to refetch authoritative data.
func (v *View) SetOnRefresh(fn func()) { v.engine.SetOnMoved(fn) }

// Teardown cancels every scheduled callback and closes the data feed.
// Nothing fires after this returns; an in-flight drop response is
// simply ignored.
func (v *View) Teardown() {
	if v.tornDown {
		return
	}
	v.tornDown = true
	v.resize.Cancel()
	v.sched.CancelAll()
	if err := v.source.Close(); err != nil {
		log.Printf("zonemap: close feed: %v", err)
	}
}

// Layout reports the container size and reacts to resizes: the grid is
// rebuilt immediately, the road repaint is debounced.
func (v *View) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != v.w || outsideHeight != v.h {
		first := v.w == 0 && v.h == 0
		v.w, v.h = outsideWidth, outsideHeight
		v.grid = NewGrid(v.cfg, v.w, v.h)
		v.road.Resize(v.w, v.h)
		if first {
			v.road.Redraw()
		} else {
			v.resize.Trigger()
		}
	}
	return outsideWidth, outsideHeight
}

func (v *View) Update() error {
	if v.tornDown {
		return nil
	}
	v.sched.Tick()

	// Authoritative refresh, cadence owned by the source.
	select {
	case snap := <-v.source.Snapshots():
		v.entities = snap
	default:
	}

	v.merged = MergeRenderList(v.entities, v.store)

	v.handleKeys()
	v.handlePointer()

	v.engine.Tick()
	if n := v.engine.Notice(); n != "" {
		v.showNotice(n)
	}
	return nil
}

func (v *View) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		v.focusID = NextFocus(v.merged, v.focusID, FocusLeft)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		v.focusID = NextFocus(v.merged, v.focusID, FocusRight)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		v.focusID = NextFocus(v.merged, v.focusID, FocusUp)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		v.focusID = NextFocus(v.merged, v.focusID, FocusDown)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if e := v.entityByID(v.focusID); e != nil && v.onSelect != nil {
			v.onSelect(*e)
		}
	}

	// E toggles edit mode; permission is re-evaluated on every toggle.
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		if v.engine.EditMode() {
			v.engine.SetEditMode(false)
			v.showNotice("edit mode off")
		} else if v.engine.canEdit() {
			v.engine.SetEditMode(true)
			v.showNotice("edit mode on - drag entries to rearrange")
		} else {
			v.showNotice("you do not have permission to edit this zone")
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		v.debug = !v.debug
	}

	// C copies the layout report.
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if err := CopyLayoutReport(v.cfg, v.entities, v.store); err != nil {
			log.Printf("zonemap: clipboard: %v", err)
			v.showNotice("could not copy layout report")
		} else {
			v.showNotice("layout report copied")
		}
	}
}

func (v *View) handlePointer() {
	ev := v.pointer.Read()
	touch := ev.Kind == PointerTouch
	x, y := ev.Position()

	if ev.Pressed {
		if hit := v.entityUnder(x, y); hit != nil {
			v.pressID = hit.ID
			v.pressX, v.pressY = x, y
			v.pressArmed = true
			v.dragRefused = false
			v.focusID = hit.ID
		}
		return
	}

	if ev.Held {
		if v.engine.Dragging() {
			v.engine.UpdatePointer(x, y)
			v.engine.Classify(v.grid, v.merged)
			return
		}
		if v.pressArmed && !v.dragRefused && exceedsDeadZone(x, y, v.pressX, v.pressY) {
			e := v.entityByID(v.pressID)
			if e == nil {
				v.pressArmed = false
				return
			}
			origin := e.Cell
			if auth := entityIn(v.entities, v.pressID); auth != nil {
				origin = auth.Cell
			}
			if !v.engine.StartDrag(*e, origin, x, y, touch) {
				v.dragRefused = true
				return
			}
			v.engine.Classify(v.grid, v.merged)
		}
		return
	}

	if ev.Released {
		if v.engine.Dragging() {
			v.engine.Drop()
		} else if v.pressArmed {
			// A press that never escaped the dead zone is a select.
			if e := v.entityByID(v.pressID); e != nil && v.onSelect != nil {
				v.onSelect(*e)
			}
		}
		v.pressArmed = false
		v.pressID = ""
	}
}

func (v *View) showNotice(msg string) {
	v.notice = msg
	v.noticeTask.Cancel()
	v.noticeTask = v.sched.After(noticeTicks, func() { v.notice = "" })
}

func (v *View) entityByID(id string) *Entity {
	return entityIn(v.merged, id)
}

func entityIn(entities []Entity, id string) *Entity {
	for i := range entities {
		if entities[i].ID == id {
			return &entities[i]
		}
	}
	return nil
}

// entityUnder hit-tests the merged markers, topmost first.
func (v *View) entityUnder(x, y float64) *Entity {
	for i := len(v.merged) - 1; i >= 0; i-- {
		box := v.grid.CellToPixel(v.merged[i].Cell)
		if x >= box.X && x <= box.X+box.Size && y >= box.Y && y <= box.Y+box.Size {
			return &v.merged[i]
		}
	}
	return nil
}

func exceedsDeadZone(x, y, px, py float64) bool {
	dx := x - px
	dy := y - py
	return dx*dx+dy*dy > dragDeadZone*dragDeadZone
}

func (v *View) Draw(screen *ebiten.Image) {
	if screen == nil {
		return
	}
	screen.Fill(color.RGBA{R: 16, G: 18, B: 22, A: 255})
	v.road.Draw(screen, 0, 0)

	session := v.engine.Session()

	// Target cell highlight under the markers.
	if session != nil && session.HasTarget {
		box := v.grid.CellToPixel(session.Target)
		hl := dropIndicatorColors[session.Kind]
		hl.A = 70
		vector.FillRect(screen, float32(box.X), float32(box.Y), float32(box.Size), float32(box.Size), hl, false)
		vector.StrokeRect(screen, float32(box.X), float32(box.Y), float32(box.Size), float32(box.Size), 1.5, dropIndicatorColors[session.Kind], false)
	}

	for i := range v.merged {
		e := &v.merged[i]
		box := v.grid.CellToPixel(e.Cell)
		if session != nil && session.Entity.ID == e.ID {
			// The dragged marker follows the pointer.
			box.X = session.PointerX - box.Size/2
			box.Y = session.PointerY - box.Size/2
		}
		v.drawMarker(screen, e, box)
	}

	// Transient drop indicator tracking the input device.
	if session != nil {
		ind := dropIndicatorColors[session.Kind]
		vector.FillCircle(screen, float32(session.PointerX), float32(session.PointerY), 7, ind, true)
		v.drawTargetPanel(screen, session)
	}

	v.drawStatus(screen)
	if v.debug {
		v.drawDebug(screen)
	}
}

func (v *View) drawDebug(screen *ebiten.Image) {
	vp := "desktop"
	if v.grid.viewport == ViewportMobile {
		vp = "mobile"
	}
	lines := []string{
		fmt.Sprintf("tps %.0f  fps %.0f", ebiten.ActualTPS(), ebiten.ActualFPS()),
		fmt.Sprintf("container %dx%d  viewport %s", v.w, v.h, vp),
		fmt.Sprintf("entities %d  pending %d  locked %v", len(v.entities), v.store.Len(), v.store.IsLocked()),
	}
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, v.w-220, 8+i*14)
	}
}

func (v *View) drawMarker(screen *ebiten.Image, e *Entity, box CellBox) {
	x0 := float32(box.X)
	y0 := float32(box.Y)
	sz := float32(box.Size)

	// Soft drop shadow.
	vector.FillRect(screen, x0+2, y0+2, sz, sz, color.RGBA{R: 0, G: 0, B: 0, A: 70}, false)

	if e.Kind == KindWorker {
		// Workers render as discs so their stricter rules read at a glance.
		cx := x0 + sz/2
		cy := y0 + sz/2
		vector.FillCircle(screen, cx, cy, sz/2, e.Color, true)
		vector.StrokeCircle(screen, cx, cy, sz/2, 1.5, color.RGBA{R: 240, G: 240, B: 240, A: 180}, true)
	} else {
		vector.FillRect(screen, x0, y0, sz, sz, e.Color, false)
		vector.StrokeRect(screen, x0, y0, sz, sz, 1.5, color.RGBA{R: 240, G: 240, B: 240, A: 160}, false)
	}

	if e.ID == v.focusID {
		vector.StrokeRect(screen, x0-3, y0-3, sz+6, sz+6, 2, color.RGBA{R: 255, G: 240, B: 60, A: 220}, false)
	}

	// Accessible name/role label under the marker.
	text.Draw(screen, e.Label(), basicfont.Face7x13, int(box.X), int(box.Y+box.Size)+12, color.RGBA{R: 225, G: 225, B: 225, A: 255})
}

// drawTargetPanel summarises the candidate target cell and what a drop
// there would do.
func (v *View) drawTargetPanel(screen *ebiten.Image, s *DragSession) {
	var line string
	switch {
	case !s.HasTarget:
		line = "outside the grid - release to cancel"
	case s.Kind == DropMove:
		line = fmt.Sprintf("(%d,%d): move %s here", s.Target.Row, s.Target.Col, s.Entity.Name)
	case s.Kind == DropSwap:
		line = fmt.Sprintf("(%d,%d): swap with %s", s.Target.Row, s.Target.Col, s.Occupant.Name)
	default:
		line = fmt.Sprintf("(%d,%d): %s", s.Target.Row, s.Target.Col, s.Reason)
	}

	pw := float32(7*len(line) + 16)
	ph := float32(24)
	px := float32(8)
	py := float32(v.h) - ph - 8
	vector.FillRect(screen, px, py, pw, ph, color.RGBA{R: 14, G: 16, B: 14, A: 230}, false)
	vector.StrokeRect(screen, px, py, pw, ph, 1, dropIndicatorColors[s.Kind], false)
	text.Draw(screen, line, basicfont.Face7x13, int(px)+8, int(py)+16, color.RGBA{R: 230, G: 230, B: 230, A: 255})
}

func (v *View) drawStatus(screen *ebiten.Image) {
	if v.engine.EditMode() {
		label := "EDIT"
		if v.store.IsLocked() || v.engine.InFlight() {
			label = "EDIT (saving...)"
		}
		text.Draw(screen, label, basicfont.Face7x13, 8, 16, color.RGBA{R: 235, G: 170, B: 40, A: 255})
	}
	if v.notice != "" {
		nw := float32(7*len(v.notice) + 16)
		vector.FillRect(screen, 8, 24, nw, 22, color.RGBA{R: 14, G: 16, B: 14, A: 220}, false)
		text.Draw(screen, v.notice, basicfont.Face7x13, 16, 39, color.RGBA{R: 230, G: 230, B: 230, A: 255})
	}
}
