// Package debug provides debug visualization utilities.
package debug

import "github.com/Faultbox/modelview/internal/engine/geometry"

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24

// GenerateBBoxWireframeVertices creates line vertices for a wireframe bounding box.
// Returns 24 vertices (12 edges × 2 endpoints), format: [x, y, z] per vertex.
func GenerateBBoxWireframeVertices(minX, minY, minZ, maxX, maxY, maxZ float32) []float32 {
	return []float32{
		// Bottom face
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// BoundsWireframe returns the wireframe of a bounds box grown by padding on
// every side. An invalid box yields nil.
func BoundsWireframe(b geometry.Bounds, padding float32) []float32 {
	if !b.Valid() {
		return nil
	}
	return GenerateBBoxWireframeVertices(
		b.Min[0]-padding, b.Min[1]-padding, b.Min[2]-padding,
		b.Max[0]+padding, b.Max[1]+padding, b.Max[2]+padding,
	)
}

// CenterCross returns three axis-aligned line segments of the given half
// length crossing at the box centre.
func CenterCross(b geometry.Bounds, half float32) []float32 {
	if !b.Valid() {
		return nil
	}
	c := b.Center()
	return []float32{
		c[0] - half, c[1], c[2], c[0] + half, c[1], c[2],
		c[0], c[1] - half, c[2], c[0], c[1] + half, c[2],
		c[0], c[1], c[2] - half, c[0], c[1], c[2] + half,
	}
}
