package zonemap

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PointerKind tags which device produced a pointer sample.
type PointerKind int

const (
	PointerMouse PointerKind = iota
	PointerTouch
)

// PointerEvent is the unified mouse/touch sample produced once per
// update tick. Handlers never probe the input device themselves; this
// tagged union is the only coordinate source.
type PointerEvent struct {
	Kind     PointerKind
	X        float64
	Y        float64
	Pressed  bool // went down this tick
	Held     bool // down now
	Released bool // went up this tick
}

// Position extracts the container-relative coordinates regardless of
// device kind.
func (e PointerEvent) Position() (float64, float64) { return e.X, e.Y }

// pointerReader tracks the active touch so multi-touch gestures fall
// back to the first touch point only.
type pointerReader struct {
	activeTouch ebiten.TouchID
	touching    bool
	lastX       float64
	lastY       float64
}

func newPointerReader() *pointerReader {
	return &pointerReader{activeTouch: -1}
}

// Read produces the pointer sample for this tick. Touch wins over the
// mouse while a touch is active; only the first touch point is read.
func (r *pointerReader) Read() PointerEvent {
	ids := ebiten.AppendTouchIDs(nil)

	if r.touching {
		for _, id := range ids {
			if id != r.activeTouch {
				continue
			}
			tx, ty := ebiten.TouchPosition(id)
			r.lastX, r.lastY = float64(tx), float64(ty)
			return PointerEvent{Kind: PointerTouch, X: r.lastX, Y: r.lastY, Held: true}
		}
		// The active touch ended this tick.
		r.touching = false
		r.activeTouch = -1
		return PointerEvent{Kind: PointerTouch, X: r.lastX, Y: r.lastY, Released: true}
	}

	if len(ids) > 0 {
		r.activeTouch = ids[0]
		r.touching = true
		tx, ty := ebiten.TouchPosition(r.activeTouch)
		r.lastX, r.lastY = float64(tx), float64(ty)
		return PointerEvent{Kind: PointerTouch, X: r.lastX, Y: r.lastY, Pressed: true, Held: true}
	}

	mx, my := ebiten.CursorPosition()
	return PointerEvent{
		Kind:     PointerMouse,
		X:        float64(mx),
		Y:        float64(my),
		Pressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		Held:     ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Released: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
	}
}

// hapticPulse fires a short vibration where the device supports it.
// Absence of support is not an error; ebiten no-ops on desktop.
func hapticPulse(d time.Duration) {
	ebiten.Vibrate(&ebiten.VibrateOptions{
		Duration:  d,
		Magnitude: 0.5,
	})
}
