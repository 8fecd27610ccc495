package opengl

import (
	"fmt"

	"github.com/phanxgames/prism"
)

const vertexShaderSource = `#version 410 core
in vec3 aVertexPosition;
in vec2 aTextureCoord;
in vec3 aVertexNormal;

uniform mat4 uProjectionMatrix;
uniform mat4 uModelViewMatrix;
uniform mat4 uTransformationMatrix;
uniform mat4 uNormalMatrix;

out vec2 vTextureCoord;
out vec3 vLighting;

void main() {
    gl_Position = uProjectionMatrix * uModelViewMatrix * uTransformationMatrix * vec4(aVertexPosition, 1.0);
    vTextureCoord = aTextureCoord;

    vec3 ambientLight = vec3(0.3, 0.3, 0.3);
    vec3 directionalLightColor = vec3(1.0, 1.0, 1.0);
    vec3 directionalVector = normalize(vec3(0.85, 0.8, 0.75));

    vec4 transformedNormal = uNormalMatrix * vec4(aVertexNormal, 1.0);
    float directional = max(dot(transformedNormal.xyz, directionalVector), 0.0);
    vLighting = ambientLight + (directionalLightColor * directional);
}
`

const fragmentShaderSource = `#version 410 core
in vec2 vTextureCoord;
in vec3 vLighting;

uniform sampler2D uSampler;

out vec4 FragColor;

void main() {
    vec4 texelColor = texture(uSampler, vTextureCoord);
    FragColor = vec4(texelColor.rgb * vLighting, texelColor.a);
}
`

// DefaultShaders returns GLSL 4.10 sources exposing the prism shader
// vocabulary, lit by a fixed ambient term plus one directional light.
func DefaultShaders() prism.ShaderSource {
	return prism.ShaderSource{
		Vertex:   vertexShaderSource,
		Fragment: fragmentShaderSource,
	}
}

// DefaultProgram compiles and links DefaultShaders on d.
func DefaultProgram(d *Device) (prism.ProgramID, error) {
	p, err := d.NewProgram(DefaultShaders())
	if err != nil {
		return 0, fmt.Errorf("default program: %w", err)
	}
	return p, nil
}
