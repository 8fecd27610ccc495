package ebitengine

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/prism"
)

// SceneFactory builds the scene once the device exists. program is the
// compiled DefaultShaders program.
type SceneFactory func(dev prism.Device, program prism.ProgramID) (*prism.Scene, error)

// Game adapts a Scene to ebiten.Game. Update samples input into the scene's
// latch; Draw runs one Scene.Frame into the screen. The logical screen is
// sized in device pixels so pointer positions and the framebuffer agree.
type Game struct {
	ctx     context.Context
	scene   *prism.Scene
	dev     *Device
	start   time.Time
	pressed bool
	fps     *fpsOverlay
}

// NewGame wraps scene for RunGame. dev must be the device the scene draws
// with. If showFPS is set an overlay with frame rate and camera state is
// drawn on top.
func NewGame(ctx context.Context, scene *prism.Scene, dev *Device, showFPS bool) *Game {
	g := &Game{ctx: ctx, scene: scene, dev: dev, start: time.Now()}
	if showFPS {
		g.fps = newFPSOverlay()
	}
	return g
}

// Update latches the pointer state. Several updates between two draws
// coalesce in the latch.
func (g *Game) Update() error {
	if g.ctx.Err() != nil || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	in := g.scene.Input()
	x, y := ebiten.CursorPosition()
	in.MoveTo(float64(x), float64(y))

	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) ||
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	switch {
	case pressed && !g.pressed:
		in.Press(float64(x), float64(y))
	case !pressed && g.pressed:
		in.Release()
	}
	g.pressed = pressed

	// Ebitengine reports wheel-away as positive; the latch takes wheel-toward.
	if _, dy := ebiten.Wheel(); dy != 0 {
		in.Wheel(-dy)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyHome) || inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.scene.Recenter()
	}
	return nil
}

// Draw renders one frame.
func (g *Game) Draw(screen *ebiten.Image) {
	g.dev.SetTarget(screen)
	b := screen.Bounds()
	now := float64(time.Since(g.start).Microseconds()) / 1000
	stats := g.scene.Frame(now, b.Dx(), b.Dy())
	g.dev.Flush()

	if g.fps != nil {
		g.fps.draw(screen, stats, g.scene.Camera())
	}
}

// Layout is unused; LayoutF takes precedence.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// LayoutF sizes the screen in device pixels.
func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	s := ebiten.Monitor().DeviceScaleFactor()
	return math.Ceil(outsideWidth * s), math.Ceil(outsideHeight * s)
}

// Run opens a window for cfg, builds the scene with build and runs it until
// the window closes, Escape is pressed or ctx is done. Config.Debug turns
// on the FPS overlay.
func Run(ctx context.Context, cfg prism.Config, build SceneFactory) error {
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	dev := NewDevice()
	program, err := DefaultProgram(dev)
	if err != nil {
		return err
	}
	defer dev.DeleteProgram(program)

	scene, err := build(dev, program)
	if err != nil {
		return err
	}
	defer scene.Close()

	prism.Logger().Info("window opened",
		"title", cfg.Window.Title,
		"width", cfg.Window.Width,
		"height", cfg.Window.Height,
	)
	err = ebiten.RunGame(NewGame(ctx, scene, dev, cfg.Debug))
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
