package prism

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// Scene owns the camera, input state machines and entity list, and drives
// one frame at a time through Frame. A Scene is not safe for concurrent use;
// hosts call every method from the goroutine that renders.
type Scene struct {
	dev Device
	cfg Config

	camera *Camera
	input  *InputLatch
	mouse  *MouseController

	entities []*Entity
	failed   map[*Entity]bool
	animator Animator
	tweens   []*TweenGroup
	loader   *TextureLoader
	store    EntityStore
	update   func(dt float64)

	frame         uint64
	elapsed       float64
	lastTimestamp float64
	started       bool

	// Test automation
	injectQueue     []syntheticEvent
	testRunner      *TestRunner
	screenshotQueue []string

	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string
}

// NewScene validates cfg and creates an empty scene rendering through dev.
func NewScene(dev Device, cfg Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new scene: %w", err)
	}
	s := &Scene{
		dev:           dev,
		cfg:           cfg,
		camera:        NewCamera(cfg.Camera, cfg.Window.Width, cfg.Window.Height),
		input:         NewInputLatch(),
		mouse:         NewMouseController(cfg.Input.DragThreshold),
		failed:        make(map[*Entity]bool),
		loader:        NewTextureLoader(nil),
		ScreenshotDir: cfg.ScreenshotDir,
	}
	return s, nil
}

// Camera returns the scene's camera.
func (s *Scene) Camera() *Camera { return s.camera }

// Input returns the latch hosts write pointer events into.
func (s *Scene) Input() *InputLatch { return s.input }

// MouseState returns the pan state machine's current state.
func (s *Scene) MouseState() MouseState { return s.mouse.State() }

// Device returns the device the scene draws with.
func (s *Scene) Device() Device { return s.dev }

// Config returns the configuration the scene was created with.
func (s *Scene) Config() Config { return s.cfg }

// Elapsed returns the seconds accumulated since the first frame.
func (s *Scene) Elapsed() float64 { return s.elapsed }

// AddEntity appends e to the draw list. Entities draw in insertion order.
func (s *Scene) AddEntity(e *Entity) {
	s.entities = append(s.entities, e)
}

// Entities returns the draw list. The returned slice MUST NOT be mutated.
func (s *Scene) Entities() []*Entity { return s.entities }

// SetAnimator sets the function applied to every entity each frame. Nil
// disables animation.
func (s *Scene) SetAnimator(a Animator) { s.animator = a }

// SetUpdateFunc sets a callback run every frame after animation and before
// drawing. dt is the frame's delta time in seconds.
func (s *Scene) SetUpdateFunc(fn func(dt float64)) { s.update = fn }

// AddTween registers a tween group advanced every frame until done.
func (s *Scene) AddTween(g *TweenGroup) {
	s.tweens = append(s.tweens, g)
}

// LoadTexture starts loading source into mat's texture. The placeholder
// stays in place until the load finishes, or for good if it fails.
func (s *Scene) LoadTexture(ctx context.Context, source string, mat *Material) {
	s.loader.Load(ctx, source, mat)
}

// Loader returns the scene's texture loader.
func (s *Scene) Loader() *TextureLoader { return s.loader }

// Recenter animates the camera back to its starting position.
func (s *Scene) Recenter() {
	s.camera.Recenter(s.cfg.RecenterDuration)
}

// Frame runs one frame. timestampMs is a monotonic timestamp in
// milliseconds; width and height are the drawable size in device pixels.
//
// Order within a frame:
//
//	delta time -> scripted input -> pan -> zoom -> camera tweens ->
//	animation -> update func -> texture uploads -> viewport -> draw ->
//	screenshots
func (s *Scene) Frame(timestampMs float64, width, height int) FrameStats {
	t0 := time.Now()
	s.frame++

	dt := 0.0
	if s.started {
		dt = max((timestampMs-s.lastTimestamp)/1000, 0)
	}
	s.started = true
	s.lastTimestamp = timestampMs
	s.elapsed += dt

	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	s.processInjectedInput()

	prevState, prevPos, seen := s.mouse.State(), s.camera.Position(), s.mouse.seen
	s.mouse.Resolve(s.input, s.camera)
	zoom := resolveZoom(s.input, s.camera)
	s.emitInput(prevState, prevPos, s.mouse.seen != seen, zoom)
	s.camera.update(float32(dt))

	s.updateTweens(float32(dt))
	if s.animator != nil {
		for i, e := range s.entities {
			s.animator(e, i, s.elapsed)
		}
	}
	if s.update != nil {
		s.update(dt)
	}

	uploaded := s.loader.Poll(s.dev)
	s.camera.SetViewport(width, height)

	stats := FrameStats{
		Frame:            s.frame,
		DeltaTime:        dt,
		Elapsed:          s.elapsed,
		Mouse:            s.mouse.State(),
		Zoom:             zoom,
		TexturesUploaded: uploaded,
	}
	t1 := time.Now()
	stats.UpdateTime = t1.Sub(t0)

	s.draw(&stats)
	s.flushScreenshots()

	stats.DrawTime = time.Since(t1)
	if s.cfg.Debug {
		s.debugLog(stats)
	}
	return stats
}

func (s *Scene) updateTweens(dt float32) {
	live := s.tweens[:0]
	for _, g := range s.tweens {
		g.Update(dt)
		if !g.Done {
			live = append(live, g)
		}
	}
	clear(s.tweens[len(live):])
	s.tweens = live
}

// draw clears the surface and submits every entity. A failing entity is
// skipped and logged once until it draws successfully again.
func (s *Scene) draw(stats *FrameStats) {
	w, h := s.camera.Viewport()
	s.dev.BeginFrame(w, h, s.cfg.ClearColor)

	frame := s.camera.Uniforms()
	for _, e := range s.entities {
		if err := e.Draw(s.dev, frame); err != nil {
			stats.Failed++
			if !s.failed[e] {
				s.failed[e] = true
				Logger().Warn("entity draw skipped", "entity", e.Name, "err", err)
			}
			continue
		}
		delete(s.failed, e)
		stats.Drawn++
	}
}

// Close abandons pending texture loads and releases every entity, which
// frees meshes and materials no longer referenced.
func (s *Scene) Close() {
	s.loader.Close()
	for _, e := range s.entities {
		e.release(s.dev)
	}
	s.entities = nil
	s.tweens = nil
	clear(s.failed)
}

// BuildGrid creates grid.Columns x grid.Rows entities sharing mesh and
// material, centered on the origin and spaced grid.Spacing apart. Column
// indices run from -(Columns/2) and row indices from -(Rows/2).
func BuildGrid(grid GridConfig, mesh *Mesh, material *Material) []*Entity {
	entities := make([]*Entity, 0, grid.Columns*grid.Rows)
	x0, y0 := -(grid.Columns / 2), -(grid.Rows / 2)
	for x := x0; x < x0+grid.Columns; x++ {
		for y := y0; y < y0+grid.Rows; y++ {
			e := NewEntity(fmt.Sprintf("cell_%d_%d", x, y), mesh, material)
			e.Position = mgl32.Vec3{float32(x) * grid.Spacing, float32(y) * grid.Spacing, 0}
			entities = append(entities, e)
		}
	}
	return entities
}
