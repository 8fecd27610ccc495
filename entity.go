package prism

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Drawable is anything the scene can submit for drawing.
type Drawable interface {
	Draw(dev Device, frame FrameUniforms) error
}

// Entity is a transformed instance of a shared Mesh drawn with a shared
// Material. Entities are drawn in the order they were added to the scene.
type Entity struct {
	Name string

	// Position, Rotation (Euler XYZ, radians) and Scale are read every frame
	// when the entity is drawn.
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3

	mesh     *Mesh
	material *Material
}

var _ Drawable = (*Entity)(nil)

// NewEntity creates an entity at the origin with unit scale. The mesh and
// material are shared, not copied.
func NewEntity(name string, mesh *Mesh, material *Material) *Entity {
	mesh.retain()
	material.retain()
	return &Entity{
		Name:     name,
		Scale:    mgl32.Vec3{1, 1, 1},
		mesh:     mesh,
		material: material,
	}
}

// Mesh returns the entity's mesh.
func (e *Entity) Mesh() *Mesh { return e.mesh }

// Material returns the entity's material.
func (e *Entity) Material() *Material { return e.material }

// ModelMatrix returns Translate(Position) * Rotate(Rotation) * Scale(Scale).
func (e *Entity) ModelMatrix() mgl32.Mat4 {
	return composeModel(e.Position, e.Rotation, e.Scale)
}

// NormalMatrix returns transpose(inverse(ModelMatrix())), or
// ErrSingularTransform if the model matrix has no inverse.
func (e *Entity) NormalMatrix() (mgl32.Mat4, error) {
	return normalFromModel(e.ModelMatrix())
}

// Draw binds the mesh and material, uploads the camera and transform
// uniforms and issues one indexed draw. If the transform is singular nothing
// is submitted.
func (e *Entity) Draw(dev Device, frame FrameUniforms) error {
	model := e.ModelMatrix()
	normal, err := normalFromModel(model)
	if err != nil {
		return fmt.Errorf("entity %q: %w", e.Name, err)
	}

	mat := e.material
	e.mesh.bind(dev, mat)
	mat.bind(dev)

	dev.UniformMatrix4(mat.uniform.projection, frame.Projection)
	dev.UniformMatrix4(mat.uniform.view, frame.View)
	dev.UniformMatrix4(mat.uniform.model, model)
	dev.UniformMatrix4(mat.uniform.normal, normal)

	dev.DrawIndexed(e.mesh.vertexCount)
	return nil
}

// release returns the entity's references to its mesh and material.
func (e *Entity) release(dev Device) {
	if e.mesh != nil {
		e.mesh.release(dev)
		e.mesh = nil
	}
	if e.material != nil {
		e.material.release(dev)
		e.material = nil
	}
}
