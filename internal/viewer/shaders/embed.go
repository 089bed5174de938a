// Package shaders provides the viewer's embedded GLSL programs.
package shaders

import (
	_ "embed"

	"github.com/Faultbox/modelview/internal/engine/shader"
)

// ModelVertexShader transforms model vertices to clip space.
//
//go:embed model.vert
var ModelVertexShader string

// ModelGeometryShader attaches barycentric coordinates for the wireframe.
//
//go:embed model.geom
var ModelGeometryShader string

// ModelFragmentShader does textured Phong shading with an optional
// wireframe overlay.
//
//go:embed model.frag
var ModelFragmentShader string

// NormalVertexShader is the vertex stage of the normals overlay.
//
//go:embed normal.vert
var NormalVertexShader string

// NormalGeometryShader emits one line per vertex normal.
//
//go:embed normal.geom
var NormalGeometryShader string

// NormalFragmentShader fills normal lines with a flat colour.
//
//go:embed normal.frag
var NormalFragmentShader string

// OutlineVertexShader pushes vertices out along their normals.
//
//go:embed outline.vert
var OutlineVertexShader string

// OutlineFragmentShader fills the outline with a flat colour.
//
//go:embed outline.frag
var OutlineFragmentShader string

// BboxVertexShader is the vertex shader for bounding box and marker lines.
//
//go:embed bbox.vert
var BboxVertexShader string

// BboxFragmentShader is the fragment shader for bounding box and marker lines.
//
//go:embed bbox.frag
var BboxFragmentShader string

// Model returns the sources of the main shading program.
func Model() shader.Sources {
	return shader.Sources{Vertex: ModelVertexShader, Geometry: ModelGeometryShader, Fragment: ModelFragmentShader}
}

// Normals returns the sources of the normals overlay program.
func Normals() shader.Sources {
	return shader.Sources{Vertex: NormalVertexShader, Geometry: NormalGeometryShader, Fragment: NormalFragmentShader}
}

// Outline returns the sources of the outline program.
func Outline() shader.Sources {
	return shader.Sources{Vertex: OutlineVertexShader, Fragment: OutlineFragmentShader}
}

// Lines returns the sources of the flat line program.
func Lines() shader.Sources {
	return shader.Sources{Vertex: BboxVertexShader, Fragment: BboxFragmentShader}
}
