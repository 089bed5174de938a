package geometry

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrDegenerateGeometry = errors.New("degenerate geometry")
	ErrInvalidRange       = errors.New("invalid target range")
)

// Axis identifies a coordinate axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("axis(%d)", int(a))
}

// DegenerateError reports a dominant axis that cannot be rescaled.
type DegenerateError struct {
	Axis      Axis
	Magnitude float32
}

func (e *DegenerateError) Error() string {
	return fmt.Sprintf("%s: dominant axis %s has magnitude %g", ErrDegenerateGeometry, e.Axis, e.Magnitude)
}

func (e *DegenerateError) Unwrap() error { return ErrDegenerateGeometry }

// DominantAxis picks the axis with the largest magnitude: y is compared
// against x, then z against the winner. Ties go to the later axis.
func DominantAxis(size [3]float32) Axis {
	best := AxisX
	if size[AxisY] >= size[best] {
		best = AxisY
	}
	if size[AxisZ] >= size[best] {
		best = AxisZ
	}
	return best
}

// Normalize rescales every vertex position in place so the dominant axis of
// box maps exactly onto [targetMin, targetMax]. The other two axes are
// multiplied by the same factor without re-anchoring, so they keep the
// aspect ratio but are neither centred nor clipped to the target range.
//
// All buffers are marked dirty; re-uploading them is up to the caller. The
// returned box is recomputed from the rescaled vertices.
func Normalize(buffers []*Buffer, box Bounds, targetMin, targetMax float32) (Bounds, error) {
	if !(targetMax > targetMin) {
		return box, fmt.Errorf("%w: [%g, %g]", ErrInvalidRange, targetMin, targetMax)
	}
	if !box.Valid() {
		return box, &DegenerateError{Axis: AxisX, Magnitude: 0}
	}

	size := box.Size()
	dominant := DominantAxis(size)
	mag := size[dominant]
	if mag == 0 || math.IsInf(float64(mag), 0) || math.IsNaN(float64(mag)) {
		return box, &DegenerateError{Axis: dominant, Magnitude: mag}
	}

	span := targetMax - targetMin
	scaleFactor := 1 / mag
	origin := box.Min[dominant]

	for _, b := range buffers {
		for i := range b.Vertices {
			p := &b.Vertices[i].Position
			for axis := AxisX; axis <= AxisZ; axis++ {
				if axis == dominant {
					p[axis] = span*(p[axis]-origin)/mag + targetMin
				} else {
					p[axis] = span * (p[axis] * scaleFactor)
				}
			}
		}
		b.MarkDirty()
	}

	return ComputeBounds(buffers), nil
}
