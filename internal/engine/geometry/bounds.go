package geometry

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// EmptyBounds returns the sentinel box every scan starts from: min at +Inf
// and max at -Inf, so the first point sets both.
func EmptyBounds() Bounds {
	inf := float32(math.Inf(1))
	return Bounds{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// Valid reports whether the box has been extended by at least one point.
func (b Bounds) Valid() bool {
	return b.Min[0] <= b.Max[0] && b.Min[1] <= b.Max[1] && b.Min[2] <= b.Max[2]
}

// Extend grows the box to include p. Each axis updates min and max
// independently.
func (b *Bounds) Extend(p mgl32.Vec3) {
	for axis := 0; axis < 3; axis++ {
		if p[axis] < b.Min[axis] {
			b.Min[axis] = p[axis]
		}
		if p[axis] > b.Max[axis] {
			b.Max[axis] = p[axis]
		}
	}
}

// Center returns the midpoint of the box. This is the box centre, not the
// mean of the points that built it.
func (b Bounds) Center() mgl32.Vec3 {
	return mgl32.Vec3{
		midpoint(b.Min[0], b.Max[0]),
		midpoint(b.Min[1], b.Max[1]),
		midpoint(b.Min[2], b.Max[2]),
	}
}

// Size returns the per-axis magnitude |max - min|.
func (b Bounds) Size() mgl32.Vec3 {
	return mgl32.Vec3{
		abs32(b.Max[0] - b.Min[0]),
		abs32(b.Max[1] - b.Min[1]),
		abs32(b.Max[2] - b.Min[2]),
	}
}

// String formats the box the way it is printed in the load log.
func (b Bounds) String() string {
	c := b.Center()
	return fmt.Sprintf("min=(%.3f, %.3f, %.3f) max=(%.3f, %.3f, %.3f) center=(%.3f, %.3f, %.3f)",
		b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2], c[0], c[1], c[2])
}

// ComputeBounds scans every vertex position of every buffer once.
// With no vertices the sentinel box is returned.
func ComputeBounds(buffers []*Buffer) Bounds {
	box := EmptyBounds()
	for _, b := range buffers {
		for i := range b.Vertices {
			box.Extend(b.Vertices[i].Position)
		}
	}
	return box
}

func midpoint(a, b float32) float32 {
	return (a + b) / 2
}

func abs32(v float32) float32 {
	return float32(math.Abs(float64(v)))
}
