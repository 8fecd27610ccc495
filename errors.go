package prism

import "errors"

// Setup errors. Any of these returned while building a scene means the
// renderer cannot run; callers are expected to abort initialization.
var (
	ErrShaderCompile    = errors.New("prism: shader compilation failed")
	ErrShaderLink       = errors.New("prism: shader program link failed")
	ErrMissingAttribute = errors.New("prism: attribute location not found")
	ErrMissingUniform   = errors.New("prism: uniform location not found")
	ErrInvalidMesh      = errors.New("prism: invalid mesh data")
	ErrInvalidConfig    = errors.New("prism: invalid config")
)

// ErrSingularTransform is returned when an entity's model matrix cannot be
// inverted (a zero scale on some axis). It aborts that entity's draw only.
var ErrSingularTransform = errors.New("prism: model matrix is not invertible")
