package prism

import (
	"fmt"
	"image"
	"image/color"
)

// placeholderColor is what a material shows until its real texture arrives.
var placeholderColor = color.NRGBA{R: 255, G: 0, B: 255, A: 255}

// PlaceholderImage returns a new 1x1 opaque magenta image.
func PlaceholderImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, placeholderColor)
	return img
}

// NewPlaceholderTexture creates a texture holding the magenta placeholder
// pixel. Pass it to NewMaterial and hand the material to a TextureLoader to
// swap in the real image once it loads.
func NewPlaceholderTexture(dev Device) (TextureID, error) {
	return dev.NewTexture(PlaceholderImage())
}

// attribSlots and uniformSlots cache resolved locations so nothing is looked
// up by name inside the frame loop.
type attribSlots struct {
	position Location
	uv       Location
	normal   Location
}

type uniformSlots struct {
	projection Location
	view       Location
	model      Location
	normal     Location
	sampler    Location
}

// Material pairs a shader program with a texture. It is immutable after
// construction and shared by the entities that draw with it.
type Material struct {
	program ProgramID
	texture TextureID
	attribs attribSlots
	uniform uniformSlots
	refs    int
}

// NewMaterial resolves every attribute and uniform the renderer uploads.
// A missing location is a setup error wrapping ErrMissingAttribute or
// ErrMissingUniform.
func NewMaterial(dev Device, program ProgramID, texture TextureID) (*Material, error) {
	m := &Material{program: program, texture: texture}

	attrib := func(name string) (Location, error) {
		loc, ok := dev.AttribLocation(program, name)
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrMissingAttribute, name)
		}
		return loc, nil
	}
	uniform := func(name string) (Location, error) {
		loc, ok := dev.UniformLocation(program, name)
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrMissingUniform, name)
		}
		return loc, nil
	}

	var err error
	if m.attribs.position, err = attrib(AttribPosition); err != nil {
		return nil, err
	}
	if m.attribs.uv, err = attrib(AttribUV); err != nil {
		return nil, err
	}
	if m.attribs.normal, err = attrib(AttribNormal); err != nil {
		return nil, err
	}
	if m.uniform.projection, err = uniform(UniformProjection); err != nil {
		return nil, err
	}
	if m.uniform.view, err = uniform(UniformView); err != nil {
		return nil, err
	}
	if m.uniform.model, err = uniform(UniformModel); err != nil {
		return nil, err
	}
	if m.uniform.normal, err = uniform(UniformNormal); err != nil {
		return nil, err
	}
	if m.uniform.sampler, err = uniform(UniformSampler); err != nil {
		return nil, err
	}
	return m, nil
}

// Program returns the material's shader program.
func (m *Material) Program() ProgramID { return m.program }

// Texture returns the material's texture. Its contents may change when a
// TextureLoader finishes, the handle never does.
func (m *Material) Texture() TextureID { return m.texture }

// bind activates the program and binds the texture to unit 0.
func (m *Material) bind(dev Device) {
	dev.UseProgram(m.program)
	dev.BindTexture(0, m.texture, m.uniform.sampler)
}

func (m *Material) retain() { m.refs++ }

// release drops one reference. The texture is freed with the last one;
// programs are owned by whoever created them and may back other materials.
func (m *Material) release(dev Device) {
	m.refs--
	if m.refs == 0 && m.texture != 0 {
		dev.DeleteTexture(m.texture)
		m.texture = 0
	}
}
