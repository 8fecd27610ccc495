package prism

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R float32 `yaml:"r"`
	G float32 `yaml:"g"`
	B float32 `yaml:"b"`
	A float32 `yaml:"a"`
}

// ColorBlack is the default clear color.
var ColorBlack = Color{0, 0, 0, 1}

// RGBA converts the color to an 8-bit straight-alpha color.
func (c Color) RGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(mgl32.Clamp(c.R, 0, 1)*255 + 0.5),
		G: uint8(mgl32.Clamp(c.G, 0, 1)*255 + 0.5),
		B: uint8(mgl32.Clamp(c.B, 0, 1)*255 + 0.5),
		A: uint8(mgl32.Clamp(c.A, 0, 1)*255 + 0.5),
	}
}

// Shader vocabulary. Every program handed to NewMaterial must expose these
// attributes and uniforms; backends ship a default program that does.
const (
	AttribPosition = "aVertexPosition"
	AttribUV       = "aTextureCoord"
	AttribNormal   = "aVertexNormal"

	UniformProjection = "uProjectionMatrix"
	UniformView       = "uModelViewMatrix"
	UniformModel      = "uTransformationMatrix"
	UniformNormal     = "uNormalMatrix"
	UniformSampler    = "uSampler"
)

// FrameUniforms carries the camera matrices uploaded to every entity drawn
// in a frame. Values are identical for all entities of the same frame.
type FrameUniforms struct {
	Projection mgl32.Mat4
	View       mgl32.Mat4
}
