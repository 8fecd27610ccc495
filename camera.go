package prism

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// unprojectDepth is the clip-space depth of the plane ScreenToWorld maps
// onto. Only x and y of the result drive panning and zoom anchoring.
const unprojectDepth = 1.0

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera is an orthographic camera looking down -Z. It owns the projection
// and view matrices and maps screen pixels to world space.
//
// Matrices are cached and recomputed on first read after any change to the
// viewport, zoom or position, so a read never observes stale state.
type Camera struct {
	position mgl32.Vec3
	home     mgl32.Vec3

	zoom     float32
	minZoom  float32
	maxZoom  float32
	zoomStep float32

	width  float32
	height float32
	aspect float32
	fov    float32 // radians
	near   float32
	far    float32

	projection    mgl32.Mat4
	invProjection mgl32.Mat4
	view          mgl32.Mat4
	projDirty     bool
	viewDirty     bool

	scrollTween *scrollAnim
}

// NewCamera creates a camera from cfg with an initial viewport of
// width x height pixels.
func NewCamera(cfg CameraConfig, width, height int) *Camera {
	c := &Camera{
		position:  cfg.Position,
		home:      cfg.Position,
		zoom:      mgl32.Clamp(cfg.Zoom, cfg.MinZoom, cfg.MaxZoom),
		minZoom:   cfg.MinZoom,
		maxZoom:   cfg.MaxZoom,
		zoomStep:  cfg.ZoomStep,
		width:     1,
		height:    1,
		aspect:    1,
		fov:       mgl32.DegToRad(cfg.FieldOfView),
		near:      cfg.Near,
		far:       cfg.Far,
		projDirty: true,
		viewDirty: true,
	}
	c.SetViewport(width, height)
	return c
}

// SetViewport updates the drawable size in pixels. Non-positive sizes (a
// minimised window) are ignored and the previous viewport is kept.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	w, h := float32(width), float32(height)
	if w == c.width && h == c.height {
		return
	}
	c.width, c.height = w, h
	c.aspect = w / h
	c.projDirty = true
}

// Viewport returns the current viewport size in pixels.
func (c *Camera) Viewport() (width, height int) {
	return int(c.width), int(c.height)
}

// Position returns the camera's world-space position.
func (c *Camera) Position() mgl32.Vec3 { return c.position }

// SetPosition moves the camera to p.
func (c *Camera) SetPosition(p mgl32.Vec3) {
	c.position = p
	c.viewDirty = true
}

// Translate moves the camera by delta. Pan and zoom anchoring always pass a
// delta with Z = 0.
func (c *Camera) Translate(delta mgl32.Vec3) {
	if delta == (mgl32.Vec3{}) {
		return
	}
	c.position = c.position.Add(delta)
	c.viewDirty = true
}

// Zoom returns the current zoom factor. The zoom scales the field of view:
// larger values show more of the world.
func (c *Camera) Zoom() float32 { return c.zoom }

// SetZoom sets the zoom factor, clamped to the configured range.
func (c *Camera) SetZoom(z float32) {
	z = mgl32.Clamp(z, c.minZoom, c.maxZoom)
	if z == c.zoom {
		return
	}
	c.zoom = z
	c.projDirty = true
}

// ApplyZoomPulse multiplies the zoom by the zoom step (ZoomIn) or divides by
// it (ZoomOut), clamped to the configured range. ZoomNone is a no-op.
func (c *Camera) ApplyZoomPulse(p ZoomPulse) {
	switch p {
	case ZoomIn:
		c.SetZoom(c.zoom * c.zoomStep)
	case ZoomOut:
		c.SetZoom(c.zoom / c.zoomStep)
	}
}

// ZoomAt applies p while keeping the world point under cursor fixed on
// screen. It reports whether a pulse was applied.
func (c *Camera) ZoomAt(p ZoomPulse, cursor mgl32.Vec2) bool {
	if p == ZoomNone {
		return false
	}
	before := c.ScreenToWorld(cursor)
	c.ApplyZoomPulse(p)
	after := c.ScreenToWorld(cursor)
	c.Translate(flat(before.Sub(after)))
	return true
}

// Projection returns the orthographic projection matrix.
//
// The frustum follows a field-of-view construction: the visible width is
// far * tan(fov*zoom/2) and the height is width / aspect.
func (c *Camera) Projection() mgl32.Mat4 {
	c.computeProjection()
	return c.projection
}

// View returns inverse(Translate(position)).
func (c *Camera) View() mgl32.Mat4 {
	if c.viewDirty {
		c.view = mgl32.Translate3D(-c.position[0], -c.position[1], -c.position[2])
		c.viewDirty = false
	}
	return c.view
}

// Uniforms returns the matrices uploaded to every entity this frame.
func (c *Camera) Uniforms() FrameUniforms {
	return FrameUniforms{Projection: c.Projection(), View: c.View()}
}

func (c *Camera) computeProjection() {
	if !c.projDirty {
		return
	}
	c.projDirty = false

	w := c.far * float32(math.Tan(float64(c.fov*c.zoom)/2))
	h := w / c.aspect
	c.projection = mgl32.Ortho(-w/2, w/2, -h/2, h/2, c.near, c.far)
	c.invProjection = c.projection.Inv()
}

// ScreenToWorld maps a pixel position (origin top-left, y down) to the
// world-space point on the camera's reference plane.
func (c *Camera) ScreenToWorld(p mgl32.Vec2) mgl32.Vec3 {
	c.computeProjection()
	clip := mgl32.Vec4{
		p[0]/c.width*2 - 1,
		(c.height-p[1])/c.height*2 - 1,
		unprojectDepth,
		1,
	}
	v := c.invProjection.Mul4x1(clip)
	return v.Vec3().Mul(1 / v[3]).Add(c.position)
}

// WorldToScreen maps a world-space point to pixel coordinates (origin
// top-left, y down). Depth is discarded.
func (c *Camera) WorldToScreen(w mgl32.Vec3) mgl32.Vec2 {
	clip := transformPoint(c.Projection(), w.Sub(c.position))
	return mgl32.Vec2{
		(clip[0] + 1) / 2 * c.width,
		c.height - (clip[1]+1)/2*c.height,
	}
}

// ScrollTo animates the camera's X and Y to the given world position over
// duration seconds. Any pan or zoom by the user cancels the animation.
func (c *Camera) ScrollTo(x, y float32, duration float32, easeFn ease.TweenFunc) {
	if duration <= 0 {
		c.CancelScroll()
		c.SetPosition(mgl32.Vec3{x, y, c.position[2]})
		return
	}
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(c.position[0], x, duration, easeFn),
		tweenY: gween.New(c.position[1], y, duration, easeFn),
	}
}

// Recenter scrolls back to the configured starting position. Zoom is left
// unchanged.
func (c *Camera) Recenter(duration float32) {
	c.ScrollTo(c.home[0], c.home[1], duration, ease.OutCubic)
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (c *Camera) Scrolling() bool { return c.scrollTween != nil }

// CancelScroll stops any ScrollTo animation where it is.
func (c *Camera) CancelScroll() { c.scrollTween = nil }

// update advances the scroll animation. Called once per frame.
func (c *Camera) update(dt float32) {
	if c.scrollTween == nil {
		return
	}
	x, y := c.position[0], c.position[1]
	if !c.scrollTween.doneX {
		x, c.scrollTween.doneX = c.scrollTween.tweenX.Update(dt)
	}
	if !c.scrollTween.doneY {
		y, c.scrollTween.doneY = c.scrollTween.tweenY.Update(dt)
	}
	c.SetPosition(mgl32.Vec3{x, y, c.position[2]})
	if c.scrollTween.doneX && c.scrollTween.doneY {
		c.scrollTween = nil
	}
}

// flat returns v with Z forced to 0.
func flat(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v[0], v[1], 0}
}
