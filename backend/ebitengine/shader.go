package ebitengine

import (
	"fmt"

	"github.com/phanxgames/prism"
)

// fragmentShaderSource modulates the texel by the per-vertex lighting the
// vertex stage writes into the vertex color. Ebitengine textures are
// premultiplied, so scaling rgb keeps the result premultiplied.
const fragmentShaderSource = `//kage:unit pixels
package main

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	texel := imageSrc0At(srcPos)
	return vec4(texel.rgb*color.rgb, texel.a)
}
`

// DefaultShaders returns the default Kage fragment shader. The vertex stage
// is fixed and runs on the CPU.
func DefaultShaders() prism.ShaderSource {
	return prism.ShaderSource{Fragment: fragmentShaderSource}
}

// DefaultProgram compiles DefaultShaders on d.
func DefaultProgram(d *Device) (prism.ProgramID, error) {
	p, err := d.NewProgram(DefaultShaders())
	if err != nil {
		return 0, fmt.Errorf("default program: %w", err)
	}
	return p, nil
}
