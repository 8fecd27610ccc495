package prism

import "github.com/go-gl/mathgl/mgl32"

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, camera interaction events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// EventType identifies a kind of interaction event.
type EventType uint8

const (
	EventPress    EventType = iota // button pressed, pan controller entered MouseDown
	EventRelease                   // button released before the drag threshold
	EventPanStart                  // cursor moved past the drag threshold
	EventPan                       // camera panned this frame
	EventPanEnd                    // button released after panning
	EventZoom                      // a zoom pulse was applied at the cursor
)

func (t EventType) String() string {
	switch t {
	case EventPress:
		return "press"
	case EventRelease:
		return "release"
	case EventPanStart:
		return "pan-start"
	case EventPan:
		return "pan"
	case EventPanEnd:
		return "pan-end"
	case EventZoom:
		return "zoom"
	default:
		return "unknown"
	}
}

// InteractionEvent carries camera interaction data for the ECS bridge.
type InteractionEvent struct {
	Type  EventType
	Frame uint64

	// Cursor position in canvas pixels and the world point under it after
	// this frame's camera update. For EventPanStart World is the grabbed
	// point.
	Screen mgl32.Vec2
	World  mgl32.Vec3

	// Pan fields (valid for EventPan): camera translation this frame.
	Delta mgl32.Vec3

	// Zoom fields (valid for EventZoom)
	Pulse ZoomPulse
	Zoom  float32
}

// SetEntityStore sets the optional ECS store that receives interaction
// events. Pass nil to stop forwarding.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// emitInput derives events from the pan controller's transition this frame.
// prev and prevPos are the state and camera position before Resolve;
// newPress reports a press latched since the last frame, which may have been
// released again or may follow a release within the same frame.
func (s *Scene) emitInput(prev MouseState, prevPos mgl32.Vec3, newPress bool, zoom ZoomPulse) {
	if s.store == nil {
		return
	}
	cursor := s.input.Cursor()
	evt := func(t EventType) InteractionEvent {
		return InteractionEvent{
			Type:   t,
			Frame:  s.frame,
			Screen: cursor,
			World:  s.camera.ScreenToWorld(cursor),
		}
	}

	state := s.mouse.State()
	switch {
	case prev == MouseDragging && (state != MouseDragging || newPress):
		s.store.EmitEvent(evt(EventPanEnd))
	case prev == MouseDown && (state == MouseUp || newPress):
		s.store.EmitEvent(evt(EventRelease))
	}
	if newPress {
		s.store.EmitEvent(evt(EventPress))
		if state == MouseUp {
			// Pressed and released between two frames.
			s.store.EmitEvent(evt(EventRelease))
		}
	}
	switch {
	case state == MouseDragging && (prev != MouseDragging || newPress):
		e := evt(EventPanStart)
		e.World, _ = s.mouse.DragAnchor()
		s.store.EmitEvent(e)
	case state == MouseDragging:
		if d := s.camera.Position().Sub(prevPos); d != (mgl32.Vec3{}) {
			e := evt(EventPan)
			e.Delta = d
			s.store.EmitEvent(e)
		}
	}

	if zoom != ZoomNone {
		e := evt(EventZoom)
		e.Pulse = zoom
		e.Zoom = s.camera.Zoom()
		s.store.EmitEvent(e)
	}
}
