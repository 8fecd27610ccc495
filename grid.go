package prism

import (
	"context"
	"fmt"
)

// animators maps GridConfig.Animation names to animators.
var animators = map[string]Animator{
	"":       nil,
	"none":   nil,
	"spin":   Spin(1),
	"tumble": Tumble(),
	"pulse":  Pulse(2, 0.25),
}

// NewGridScene builds the sample scene: one shared mesh and one material
// with a placeholder texture, instanced over cfg.Grid. If cfg.Grid.Texture
// is set it starts loading in the background.
//
// program must expose the standard attribute and uniform names; each
// backend's DefaultProgram does.
func NewGridScene(ctx context.Context, dev Device, cfg Config, program ProgramID) (*Scene, error) {
	s, err := NewScene(dev, cfg)
	if err != nil {
		return nil, err
	}

	data := QuadData()
	if cfg.Grid.Shape == ShapeCube {
		data = CubeData()
	}
	mesh, err := NewMesh(dev, data)
	if err != nil {
		return nil, fmt.Errorf("grid mesh: %w", err)
	}
	tex, err := NewPlaceholderTexture(dev)
	if err != nil {
		mesh.delete(dev)
		return nil, fmt.Errorf("placeholder texture: %w", err)
	}
	mat, err := NewMaterial(dev, program, tex)
	if err != nil {
		mesh.delete(dev)
		dev.DeleteTexture(tex)
		return nil, fmt.Errorf("grid material: %w", err)
	}

	entities := BuildGrid(cfg.Grid, mesh, mat)
	if len(entities) == 0 {
		// Nothing holds a reference, so Close would never free these.
		mesh.delete(dev)
		dev.DeleteTexture(tex)
		Logger().Info("grid scene is empty", "columns", cfg.Grid.Columns, "rows", cfg.Grid.Rows)
		return s, nil
	}
	for _, e := range entities {
		s.AddEntity(e)
	}
	s.SetAnimator(animators[cfg.Grid.Animation])
	if cfg.Grid.Texture != "" {
		s.LoadTexture(ctx, cfg.Grid.Texture, mat)
	}

	Logger().Info("grid scene ready",
		"entities", len(s.entities),
		"shape", cfg.Grid.Shape,
		"vertices", mesh.VertexCount(),
	)
	return s, nil
}
