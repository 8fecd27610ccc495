// Package prism is a small orthographic 3D scene renderer with a
// pan-and-zoom camera.
//
// Prism owns the camera and projection, the pointer state machines that
// turn drags into panning and wheel pulses into cursor-anchored zoom, and
// the mesh/material/entity model drawn every frame. Rendering goes through
// a [Device]; the backend/opengl and backend/ebitengine packages provide
// one each, together with a window host that drives [Scene.Frame].
//
// # Quick start
//
// The Ebitengine host creates the window and game loop for you:
//
//	cfg := prism.DefaultConfig()
//	err := ebitengine.Run(cfg, func(dev prism.Device, program prism.ProgramID) (*prism.Scene, error) {
//		return prism.NewGridScene(ctx, dev, cfg, program)
//	})
//
// For full control, feed a [Scene] yourself: write pointer events into
// [Scene.Input] and call [Scene.Frame] once per displayed frame:
//
//	in := scene.Input()
//	in.MoveTo(x, y)
//	in.Press(x, y)
//	in.Wheel(dy)
//	stats := scene.Frame(nowMillis, fbWidth, fbHeight)
//
// # Camera
//
// The [Camera] looks down -Z with an orthographic projection whose width
// is derived from a field of view scaled by the zoom factor. Zooming keeps
// the world point under the cursor fixed; dragging keeps the grabbed world
// point under the cursor. [Camera.ScrollTo] and [Camera.Recenter] animate
// the position with [gween] tweens.
//
// # Drawing
//
// A [Mesh] is uploaded once and shared. A [Material] pairs a shader program
// with a texture and resolves every attribute and uniform location up
// front. An [Entity] places a mesh in the world; entities draw in insertion
// order. Textures can be loaded asynchronously with [Scene.LoadTexture];
// a magenta placeholder shows until they arrive.
//
// # Testing
//
// [Scene.InjectPress], [Scene.InjectDrag] and [Scene.InjectZoom] queue
// synthetic input one event per frame, and [LoadTestScript] drives whole
// sessions from JSON, taking screenshots along the way.
//
// [gween]: https://github.com/tanema/gween
package prism
