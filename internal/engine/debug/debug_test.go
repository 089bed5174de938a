package debug

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/modelview/internal/engine/geometry"
)

func TestBoundsWireframe(t *testing.T) {
	b := geometry.Bounds{Min: mgl32.Vec3{-1, -2, -3}, Max: mgl32.Vec3{1, 2, 3}}

	v := BoundsWireframe(b, 0.5)
	require.Len(t, v, BBoxWireframeVertexCount*3)
	for i := 0; i < len(v); i += 3 {
		assert.Contains(t, []float32{-1.5, 1.5}, v[i])
		assert.Contains(t, []float32{-2.5, 2.5}, v[i+1])
		assert.Contains(t, []float32{-3.5, 3.5}, v[i+2])
	}

	assert.Nil(t, BoundsWireframe(geometry.EmptyBounds(), 0))
}

func TestCenterCross(t *testing.T) {
	b := geometry.Bounds{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{2, 4, 6}}
	v := CenterCross(b, 1)
	require.Len(t, v, 18)
	assert.Equal(t, []float32{0, 2, 3, 2, 2, 3}, v[:6])
}

func TestFlipRows(t *testing.T) {
	// 1x2: bottom row red, top row green in GL order.
	pixels := []byte{255, 0, 0, 255, 0, 255, 0, 255}
	img, err := FlipRows(pixels, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{G: 255, A: 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(0, 1))

	_, err = FlipRows(pixels, 2, 2)
	assert.Error(t, err)
}

func TestScreenshotCapture(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := NewScreenshotCapture(dir, "modelview")
	sc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }

	name, err := sc.CaptureFromPixels(make([]byte, 2*2*4), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "modelview_2024-05-01_12-30-00.000.png"), name)

	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())
}
