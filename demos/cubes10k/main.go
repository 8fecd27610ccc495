// cubes10k spawns 10,000 lit cubes that drift, tumble and bounce around a
// wide field simultaneously. A stress test for the Ebitengine backend's CPU
// vertex stage; the FPS overlay is always on.
package main

import (
	"context"
	"image"
	"image/color"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"os/signal"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/phanxgames/prism"
	"github.com/phanxgames/prism/backend/ebitengine"
)

const (
	count  = 10_000
	fieldW = 120.0
	fieldH = 70.0
)

type cube struct {
	x0, y0   float64
	dx, dy   float64
	rotSpeed mgl32.Vec3
	scale    float32
}

// bounce folds an unbounded coordinate into [-half, half] as if it
// reflected off both walls.
func bounce(v, half float64) float64 {
	span := 4 * half
	m := math.Mod(v+half, span)
	if m < 0 {
		m += span
	}
	if m > 2*half {
		m = span - m
	}
	return m - half
}

func checker(size, cell int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			c := color.NRGBA{R: 230, G: 190, B: 90, A: 255}
			if (x/cell+y/cell)%2 == 1 {
				c = color.NRGBA{R: 70, G: 110, B: 200, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func main() {
	cubes := make([]cube, count)
	for i := range cubes {
		cubes[i] = cube{
			x0: (rand.Float64() - 0.5) * fieldW,
			y0: (rand.Float64() - 0.5) * fieldH,
			dx: (rand.Float64() - 0.5) * 8,
			dy: (rand.Float64() - 0.5) * 8,
			rotSpeed: mgl32.Vec3{
				float32(rand.Float64()-0.5) * 3,
				float32(rand.Float64()-0.5) * 3,
				float32(rand.Float64()-0.5) * 3,
			},
			scale: 0.2 + rand.Float32()*0.3,
		}
	}

	cfg := prism.DefaultConfig()
	cfg.Window.Title = "prism: 10k cubes"
	cfg.Camera.Zoom = 2.5
	cfg.Grid.Shape = prism.ShapeCube
	cfg.Debug = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := ebitengine.Run(ctx, cfg, func(dev prism.Device, program prism.ProgramID) (*prism.Scene, error) {
		scene, err := prism.NewScene(dev, cfg)
		if err != nil {
			return nil, err
		}
		mesh, err := prism.NewMesh(dev, prism.CubeData())
		if err != nil {
			return nil, err
		}
		tex, err := dev.NewTexture(checker(64, 8))
		if err != nil {
			return nil, err
		}
		mat, err := prism.NewMaterial(dev, program, tex)
		if err != nil {
			return nil, err
		}
		for range cubes {
			scene.AddEntity(prism.NewEntity("cube", mesh, mat))
		}

		scene.SetAnimator(func(e *prism.Entity, i int, t float64) {
			c := &cubes[i]
			e.Position = mgl32.Vec3{
				float32(bounce(c.x0+c.dx*t, fieldW/2)),
				float32(bounce(c.y0+c.dy*t, fieldH/2)),
				0,
			}
			e.Rotation = c.rotSpeed.Mul(float32(t))
			e.Scale = mgl32.Vec3{c.scale, c.scale, c.scale}
		})
		return scene, nil
	})
	if err != nil {
		log.Fatal(err)
	}
}
