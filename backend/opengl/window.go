package opengl

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/phanxgames/prism"
)

// SceneFactory builds the scene once the window and device exist. program
// is the linked DefaultShaders program.
type SceneFactory func(dev prism.Device, program prism.ProgramID) (*prism.Scene, error)

// Window is a GLFW window with a 4.1 core context, the Device drawing into
// it and the Scene it hosts. GLFW callbacks write pointer events into the
// scene's input latch; they fire inside PollEvents on the frame loop's
// thread.
type Window struct {
	window *glfw.Window
	device *Device
	scene  *prism.Scene
}

// NewWindow initialises GLFW, opens a window and creates its Device. The
// caller must have locked the OS thread and must call Destroy.
func NewWindow(cfg prism.WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	dev, err := NewDevice()
	if err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, err
	}

	fbW, fbH := win.GetFramebufferSize()
	prism.Logger().Info("window opened",
		"title", cfg.Title,
		"width", cfg.Width,
		"height", cfg.Height,
		"framebuffer_width", fbW,
		"framebuffer_height", fbH,
	)
	return &Window{window: win, device: dev}, nil
}

// Device returns the window's rendering device.
func (w *Window) Device() *Device { return w.device }

// Attach makes s the hosted scene and routes input to it.
func (w *Window) Attach(s *prism.Scene) {
	w.scene = s
	in := s.Input()

	w.window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		in.MoveTo(x, y)
	})
	w.window.SetMouseButtonCallback(func(win *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft && button != glfw.MouseButtonMiddle {
			return
		}
		switch action {
		case glfw.Press:
			in.Press(win.GetCursorPos())
		case glfw.Release:
			in.Release()
		}
	})
	w.window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		// GLFW reports wheel-away as positive; the latch takes wheel-toward.
		in.Wheel(-yoff)
	})
	w.window.SetKeyCallback(func(win *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyEscape:
			win.SetShouldClose(true)
		case glfw.KeyHome, glfw.KeyR:
			s.Recenter()
		}
	})
}

// updatePointerScale maps window coordinates onto framebuffer pixels.
func (w *Window) updatePointerScale(fbW, fbH int) {
	winW, winH := w.window.GetSize()
	if winW <= 0 || winH <= 0 {
		return
	}
	w.scene.Input().SetPointerScale(float32(fbW)/float32(winW), float32(fbH)/float32(winH))
}

// Loop runs frames until the window is closed or ctx is done. Closing the
// window returns nil.
func (w *Window) Loop(ctx context.Context) error {
	if w.scene == nil {
		return errors.New("opengl: no scene attached")
	}
	for !w.window.ShouldClose() {
		if err := ctx.Err(); err != nil {
			return err
		}
		glfw.PollEvents()

		fbW, fbH := w.window.GetFramebufferSize()
		w.updatePointerScale(fbW, fbH)
		w.scene.Frame(glfw.GetTime()*1000, fbW, fbH)
		w.window.SwapBuffers()
	}
	return nil
}

// Destroy releases the device, closes the window and terminates GLFW.
func (w *Window) Destroy() {
	w.device.Release()
	w.window.Destroy()
	glfw.Terminate()
}

// Run opens a window for cfg, builds the scene with build and runs it until
// the window closes or ctx is done. It locks the calling goroutine to its
// OS thread for the lifetime of the GL context; call it from main.
func Run(ctx context.Context, cfg prism.Config, build SceneFactory) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	w, err := NewWindow(cfg.Window)
	if err != nil {
		return err
	}
	defer w.Destroy()

	program, err := DefaultProgram(w.device)
	if err != nil {
		return err
	}
	defer w.device.DeleteProgram(program)

	scene, err := build(w.device, program)
	if err != nil {
		return err
	}
	defer scene.Close()

	w.Attach(scene)
	return w.Loop(ctx)
}
