package ebitengine

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/prism"
)

// fpsOverlay draws frame rate and camera state in the top-left corner. The
// text is redrawn every half second.
type fpsOverlay struct {
	img        *ebiten.Image
	lastUpdate float64
	op         ebiten.DrawImageOptions
}

func newFPSOverlay() *fpsOverlay {
	// Enough for four lines of DebugPrint text.
	return &fpsOverlay{img: ebiten.NewImage(140, 64)}
}

func (o *fpsOverlay) draw(screen *ebiten.Image, stats prism.FrameStats, cam *prism.Camera) {
	o.lastUpdate += stats.DeltaTime
	if stats.Frame == 1 || o.lastUpdate >= 0.5 {
		o.lastUpdate = 0
		o.img.Clear()
		// Semi-transparent background for readability
		o.img.Fill(color.RGBA{0, 0, 0, 128})
		pos := cam.Position()
		ebitenutil.DebugPrint(o.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nZoom: %.2f\nCam: %.1f, %.1f",
			ebiten.ActualFPS(), ebiten.ActualTPS(), cam.Zoom(), pos[0], pos[1]))
	}
	screen.DrawImage(o.img, &o.op)
}
