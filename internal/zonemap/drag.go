package zonemap

import (
	"context"
	"errors"
	"time"
)

// DropKind is the live classification of what dropping at the current
// pointer cell would do.
type DropKind int

const (
	DropUndetermined DropKind = iota
	DropMove
	DropSwap
	DropBlocked
)

func (k DropKind) String() string {
	switch k {
	case DropMove:
		return "move"
	case DropSwap:
		return "swap"
	case DropBlocked:
		return "blocked"
	}
	return "undetermined"
}

const (
	// operationLockDuration refuses new drags after a confirmed move
	// while the authoritative refetch is still in flight.
	operationLockDuration = 500 * time.Millisecond
	// lockClearTicks delays the optimistic clear until the lock has
	// expired (500ms at 60 ticks/s), so the marker never snaps back.
	lockClearTicks = 30
	// dropTimeoutTicks forcibly resets a drop whose persistence call
	// never resolves (10s at 60 ticks/s).
	dropTimeoutTicks = 600
	dropTimeout      = 10 * time.Second
)

// DragSession is the single in-progress drag gesture. At most one
// exists per engine.
type DragSession struct {
	Entity     Entity // snapshot at drag start, merged cell
	OriginCell Cell   // authoritative cell at drag start; swap targets derive from this
	StartCell  Cell   // merged cell at drag start; dropping here is a no-op
	Touch      bool

	PointerX float64
	PointerY float64

	Target    Cell
	HasTarget bool
	Kind      DropKind
	Occupant  *Entity // swap partner when Kind == DropSwap
	Reason    string  // user-facing reason when Kind == DropBlocked
}

type dropResult struct {
	err error
}

// DragEngine owns the drag lifecycle: gating, per-tick destination
// classification, and the drop itself with optimistic apply, a single
// persistence call, and rollback on failure. It is fed pointer state by
// the view and never touches the display itself.
type DragEngine struct {
	cfg     Config
	store   *OptimisticStore
	persist Persister
	sched   *Scheduler

	editMode bool
	canEdit  func() bool
	haptic   func(time.Duration)
	onMoved  func()

	session     *DragSession
	inFlight    bool
	inFlightIDs []string
	lastTouch   bool
	results     chan dropResult
	timeout     *Task
	cancelReq   context.CancelFunc

	notice string
}

func NewDragEngine(cfg Config, store *OptimisticStore, persist Persister, sched *Scheduler) *DragEngine {
	return &DragEngine{
		cfg:     cfg,
		store:   store,
		persist: persist,
		sched:   sched,
		canEdit: func() bool { return false },
		results: make(chan dropResult, 1),
	}
}

// SetPermission injects the "may this actor edit the layout" source.
func (d *DragEngine) SetPermission(fn func() bool) {
	if fn != nil {
		d.canEdit = fn
	}
}

func (d *DragEngine) SetEditMode(on bool) { d.editMode = on }
func (d *DragEngine) EditMode() bool      { return d.editMode }

// SetHaptic injects the vibration hook fired on touch gestures. Purely
// best-effort; a nil hook is fine.
func (d *DragEngine) SetHaptic(fn func(time.Duration)) { d.haptic = fn }

// SetOnMoved injects the callback fired after any confirmed move/swap,
// so the hosting page can refresh authoritative data.
func (d *DragEngine) SetOnMoved(fn func()) { d.onMoved = fn }

func (d *DragEngine) Session() *DragSession { return d.session }
func (d *DragEngine) Dragging() bool        { return d.session != nil }
func (d *DragEngine) InFlight() bool        { return d.inFlight }

// Notice returns and clears the last user-facing message.
func (d *DragEngine) Notice() string {
	n := d.notice
	d.notice = ""
	return n
}

// CanDrag reports whether a new drag session may start right now.
func (d *DragEngine) CanDrag() bool {
	return d.editMode && d.canEdit() && !d.store.IsLocked() && !d.inFlight && d.session == nil
}

// StartDrag opens a drag session for the entity under the pointer.
// Returns false when a gate refuses the gesture; the caller must then
// leave the native input untouched.
func (d *DragEngine) StartDrag(e Entity, originCell Cell, x, y float64, touch bool) bool {
	if !d.CanDrag() {
		return false
	}
	d.session = &DragSession{
		Entity:     e,
		OriginCell: originCell,
		StartCell:  e.Cell,
		Touch:      touch,
		PointerX:   x,
		PointerY:   y,
	}
	d.lastTouch = touch
	if touch {
		d.pulse(30 * time.Millisecond)
	}
	return true
}

// UpdatePointer records the latest pointer position. Classification is
// recomputed separately, once per update tick rather than per event.
func (d *DragEngine) UpdatePointer(x, y float64) {
	if d.session == nil {
		return
	}
	d.session.PointerX = x
	d.session.PointerY = y
}

// Classify recomputes the destination cell and drop classification for
// the active session against the merged render list.
func (d *DragEngine) Classify(grid Grid, merged []Entity) {
	s := d.session
	if s == nil {
		return
	}
	cell, ok := grid.PixelToCell(s.PointerX, s.PointerY)
	if !ok {
		s.HasTarget = false
		s.Kind = DropUndetermined
		s.Occupant = nil
		s.Reason = ""
		return
	}
	s.Target = cell
	s.HasTarget = true
	s.Occupant = nil
	s.Reason = ""

	occ := EntityAt(merged, cell)
	switch {
	case cell == s.StartCell:
		s.Kind = DropBlocked
		s.Reason = "already at this position"
	case occ == nil:
		s.Kind = DropMove
	case occ.ID == s.Entity.ID:
		s.Kind = DropBlocked
		s.Reason = "already at this position"
	case s.Entity.Kind == KindWorker || occ.Kind == KindWorker:
		o := *occ
		s.Occupant = &o
		s.Kind = DropBlocked
		s.Reason = "independent workers cannot swap positions with other entries"
	default:
		o := *occ
		s.Occupant = &o
		s.Kind = DropSwap
	}
}

// Cancel abandons the active session without touching the store or the
// network.
func (d *DragEngine) Cancel() {
	d.session = nil
}

// Drop completes the gesture using the current classification. Blocked
// and undetermined drops cancel with no network call; move and swap
// apply optimistically and issue exactly one persistence request.
func (d *DragEngine) Drop() {
	s := d.session
	if s == nil {
		return
	}
	d.session = nil

	if !s.HasTarget || s.Kind == DropBlocked || s.Kind == DropUndetermined {
		if s.Reason != "" {
			d.notice = s.Reason
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dropTimeout)
	d.cancelReq = cancel

	switch s.Kind {
	case DropMove:
		d.store.Apply(s.Entity.ID, s.Target)
		d.begin(s.Entity.ID)
		req := MoveRequest{
			ZoneID:   d.cfg.ZoneID,
			EntityID: s.Entity.ID,
			Row:      s.Target.Row,
			Col:      s.Target.Col,
		}
		go func() { d.results <- dropResult{err: d.persist.Move(ctx, req)} }()

	case DropSwap:
		occ := *s.Occupant
		// The occupant inherits the dragged entity's authoritative
		// cell, never an already-optimistic one, so stale pending
		// state cannot compound.
		d.store.ApplyPair(s.Entity.ID, s.Target, occ.ID, s.OriginCell)
		d.begin(s.Entity.ID, occ.ID)
		req := SwapRequest{
			ZoneID: d.cfg.ZoneID,
			AID:    s.Entity.ID,
			BID:    occ.ID,
			ARow:   s.Target.Row,
			ACol:   s.Target.Col,
			BRow:   s.OriginCell.Row,
			BCol:   s.OriginCell.Col,
		}
		go func() { d.results <- dropResult{err: d.persist.Swap(ctx, req)} }()
	}
}

func (d *DragEngine) begin(ids ...string) {
	d.inFlight = true
	d.inFlightIDs = ids
	d.timeout = d.sched.After(dropTimeoutTicks, d.onTimeout)
}

// onTimeout force-resets a drop whose persistence call never resolved.
// A late response is ignored in Tick.
func (d *DragEngine) onTimeout() {
	if !d.inFlight {
		return
	}
	d.inFlight = false
	d.store.Clear(d.inFlightIDs...)
	d.notice = "the move took too long to save — try again"
	if d.cancelReq != nil {
		d.cancelReq()
		d.cancelReq = nil
	}
}

// Tick drains at most one persistence result per update frame and
// applies the success or rollback path.
func (d *DragEngine) Tick() {
	select {
	case r := <-d.results:
		d.timeout.Cancel()
		if d.cancelReq != nil {
			d.cancelReq()
			d.cancelReq = nil
		}
		if !d.inFlight {
			return // already timed out; stale response
		}
		d.inFlight = false
		if r.err != nil {
			d.store.Clear(d.inFlightIDs...)
			d.notice = dropErrorMessage(r.err)
			if d.lastTouch {
				d.pulse(60 * time.Millisecond)
			}
			return
		}
		// Lock first, then schedule the clear: the pending cells must
		// survive until the lock window has bridged the refetch gap.
		d.store.SetOperationLock(operationLockDuration)
		ids := append([]string(nil), d.inFlightIDs...)
		d.sched.After(lockClearTicks, func() { d.store.Clear(ids...) })
		if d.lastTouch {
			d.pulse(20 * time.Millisecond)
		}
		if d.onMoved != nil {
			d.onMoved()
		}
	default:
	}
}

func (d *DragEngine) pulse(dur time.Duration) {
	if d.haptic != nil {
		d.haptic(dur)
	}
}

func dropErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrPositionOccupied):
		return "that position is already occupied"
	case errors.Is(err, ErrOutOfRange):
		return "that position is outside the zone grid"
	}
	return "could not save the move — check your connection and try again"
}
