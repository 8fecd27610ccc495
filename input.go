package prism

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultDragThreshold is the cursor travel in pixels, measured from the
// press position, that turns a press into a drag.
const DefaultDragThreshold = 10.0

// MouseState is the pan state machine's state.
type MouseState uint8

const (
	MouseUp       MouseState = iota // no button held
	MouseDown                       // held, not yet past the drag threshold
	MouseDragging                   // held and panning the camera
)

func (s MouseState) String() string {
	switch s {
	case MouseUp:
		return "up"
	case MouseDown:
		return "down"
	case MouseDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// ZoomPulse is a discrete zoom request latched from the wheel.
type ZoomPulse uint8

const (
	ZoomNone ZoomPulse = iota // nothing pending
	ZoomIn                    // multiply zoom by the zoom step
	ZoomOut                   // divide zoom by the zoom step
)

func (p ZoomPulse) String() string {
	switch p {
	case ZoomNone:
		return "none"
	case ZoomIn:
		return "in"
	case ZoomOut:
		return "out"
	default:
		return "unknown"
	}
}

// InputLatch holds the most recent pointer samples delivered by a host.
// Each setter overwrites the previous value; events between two frames are
// coalesced into their net effect. Hosts call the setters from the frame
// loop's goroutine (GLFW callbacks run inside PollEvents, Ebitengine is
// polled from Update).
type InputLatch struct {
	cursor   mgl32.Vec2
	pressed  bool
	pressPos mgl32.Vec2
	presses  uint64
	zoom     ZoomPulse

	scaleX float32
	scaleY float32
}

// NewInputLatch returns a latch with a 1:1 device-to-canvas scale.
func NewInputLatch() *InputLatch {
	return &InputLatch{scaleX: 1, scaleY: 1}
}

// SetPointerScale sets the factor converting host pointer coordinates to
// canvas pixels (for example framebuffer size / window size on HiDPI).
func (l *InputLatch) SetPointerScale(sx, sy float32) {
	if sx <= 0 || sy <= 0 {
		return
	}
	l.scaleX, l.scaleY = sx, sy
}

func (l *InputLatch) toCanvas(x, y float64) mgl32.Vec2 {
	return mgl32.Vec2{float32(x) * l.scaleX, float32(y) * l.scaleY}
}

// MoveTo records the latest pointer position in host coordinates.
func (l *InputLatch) MoveTo(x, y float64) {
	l.cursor = l.toCanvas(x, y)
}

// Press records a button press at (x, y).
func (l *InputLatch) Press(x, y float64) {
	p := l.toCanvas(x, y)
	l.cursor = p
	l.pressPos = p
	l.pressed = true
	l.presses++
}

// Release records a button release.
func (l *InputLatch) Release() {
	l.pressed = false
}

// Wheel latches a zoom pulse from a wheel delta. Positive dy (wheel turned
// toward the user) latches ZoomIn, negative latches ZoomOut, zero is
// ignored. Only the direction of the latest event survives.
func (l *InputLatch) Wheel(dy float64) {
	switch {
	case dy > 0:
		l.zoom = ZoomIn
	case dy < 0:
		l.zoom = ZoomOut
	}
}

// Cursor returns the latest pointer position in canvas pixels.
func (l *InputLatch) Cursor() mgl32.Vec2 { return l.cursor }

// Pressed reports whether the button is currently held.
func (l *InputLatch) Pressed() bool { return l.pressed }

// PendingZoom returns the latched pulse without consuming it.
func (l *InputLatch) PendingZoom() ZoomPulse { return l.zoom }

// takeZoom returns the latched pulse and resets it to ZoomNone.
func (l *InputLatch) takeZoom() ZoomPulse {
	p := l.zoom
	l.zoom = ZoomNone
	return p
}

// MouseController runs the Up/Down/Dragging machine that turns pointer
// samples into camera panning. Resolve is called once per frame.
type MouseController struct {
	state     MouseState
	threshold float32

	downPos    mgl32.Vec2
	dragAnchor mgl32.Vec3
	seen       uint64
}

// NewMouseController creates a controller with the given drag threshold in
// pixels.
func NewMouseController(threshold float32) *MouseController {
	return &MouseController{threshold: threshold}
}

// State returns the current state.
func (m *MouseController) State() MouseState { return m.state }

// DragAnchor returns the world point grabbed when the current drag started.
// ok is false unless the controller is dragging.
func (m *MouseController) DragAnchor() (anchor mgl32.Vec3, ok bool) {
	if m.state != MouseDragging {
		return mgl32.Vec3{}, false
	}
	return m.dragAnchor, true
}

// Resolve advances the state machine from the latch and pans cam while
// dragging so the grabbed world point stays under the cursor.
func (m *MouseController) Resolve(l *InputLatch, cam *Camera) {
	if !l.pressed {
		m.state = MouseUp
		m.seen = l.presses
		return
	}
	if l.presses != m.seen {
		// New press since the last frame, even if a release came in between.
		m.seen = l.presses
		m.state = MouseDown
		m.downPos = l.pressPos
	}

	cursor := l.cursor
	switch m.state {
	case MouseDown:
		if cursor.Sub(m.downPos).Len() > m.threshold {
			m.state = MouseDragging
			m.dragAnchor = cam.ScreenToWorld(cursor)
			cam.CancelScroll()
		}
	case MouseDragging:
		offset := flat(cam.ScreenToWorld(cursor).Sub(m.dragAnchor))
		cam.Translate(offset.Mul(-1))
	}
}

// resolveZoom consumes the latched pulse and applies it anchored at the
// cursor.
func resolveZoom(l *InputLatch, cam *Camera) ZoomPulse {
	p := l.takeZoom()
	if cam.ZoomAt(p, l.cursor) {
		cam.CancelScroll()
	}
	return p
}
