package model

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/modelview/internal/engine/geometry"
	"github.com/Faultbox/modelview/internal/engine/importer"
	"github.com/Faultbox/modelview/internal/engine/texture"
)

type fakeBackend struct {
	meshUploads, meshUpdates, meshDeletes int
	texUploads                            int
	texDeletes                            []uint32
	failMeshAt                            int
	failUpdate                            bool
}

func (f *fakeBackend) UploadMesh(b *geometry.Buffer) error {
	if f.failMeshAt > 0 && f.meshUploads+1 == f.failMeshAt {
		return errors.New("vbo allocation failed")
	}
	f.meshUploads++
	b.GPU.VAO = uint32(f.meshUploads)
	return nil
}

func (f *fakeBackend) UpdateMesh(*geometry.Buffer) error {
	if f.failUpdate {
		return errors.New("buffer orphaning failed")
	}
	f.meshUpdates++
	return nil
}

func (f *fakeBackend) DeleteMesh(*geometry.Buffer) { f.meshDeletes++ }

func (f *fakeBackend) UploadTexture(*image.RGBA) (uint32, error) {
	f.texUploads++
	return uint32(f.texUploads), nil
}

func (f *fakeBackend) DeleteTexture(id uint32) { f.texDeletes = append(f.texDeletes, id) }

func writePNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	require.NoError(t, png.Encode(f, img))
}

// boxScene returns two meshes spanning [0,10]x[0,2]x[0,2] that share one
// diffuse texture.
func boxScene() *importer.Scene {
	mesh := func(name string, lo, hi [3]float32) *importer.Mesh {
		return &importer.Mesh{
			Name:      name,
			Positions: [][3]float32{lo, {hi[0], lo[1], lo[2]}, hi},
			Faces:     [][]uint32{{0, 1, 2}},
			Material:  0,
		}
	}
	return &importer.Scene{
		Root: &importer.Node{Meshes: []int{0}, Children: []*importer.Node{{Meshes: []int{1}}}},
		Meshes: []*importer.Mesh{
			mesh("left", [3]float32{0, 0, 0}, [3]float32{5, 2, 2}),
			mesh("right", [3]float32{5, 0, 0}, [3]float32{10, 1, 1}),
		},
		Materials: []*importer.Material{{Diffuse: []importer.TextureSlot{{Path: "wood.png"}}}},
	}
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "wood.png"))
	return New(filepath.Join(dir, "box.gltf"))
}

func TestModelLoadScene(t *testing.T) {
	m := newTestModel(t)
	be := &fakeBackend{}

	require.NoError(t, m.LoadScene(boxScene(), be))
	assert.True(t, m.Loaded())
	assert.Len(t, m.Buffers, 2)
	assert.Equal(t, 2, be.meshUploads)
	assert.Equal(t, 1, be.texUploads, "shared texture is uploaded once")
	assert.Len(t, m.Textures(), 1)

	assert.Equal(t, float32(0), m.Bounds.Min[0])
	assert.Equal(t, float32(10), m.Bounds.Max[0])
	assert.Equal(t, float32(2), m.Bounds.Max[1])

	vertices, triangles := m.Counts()
	assert.Equal(t, 6, vertices)
	assert.Equal(t, 2, triangles)

	assert.ErrorIs(t, m.LoadScene(boxScene(), be), ErrLoaded)
}

func TestModelNormalize(t *testing.T) {
	m := newTestModel(t)
	be := &fakeBackend{}
	require.NoError(t, m.LoadScene(boxScene(), be))

	require.NoError(t, m.Normalize(-1, 1))
	assert.Equal(t, 2, be.meshUpdates, "every buffer is re-uploaded")
	for _, b := range m.Buffers {
		assert.False(t, b.Dirty())
	}

	assert.InDelta(t, -1, m.Bounds.Min[0], 1e-5)
	assert.InDelta(t, 1, m.Bounds.Max[0], 1e-5)
	assert.InDelta(t, 0, m.Bounds.Min[1], 1e-5)
	assert.InDelta(t, 0.4, m.Bounds.Max[1], 1e-5)
}

func TestModelNormalizeDegenerate(t *testing.T) {
	m := newTestModel(t)
	be := &fakeBackend{}
	scene := &importer.Scene{
		Root: &importer.Node{Meshes: []int{0}},
		Meshes: []*importer.Mesh{{
			Positions: [][3]float32{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}},
			Faces:     [][]uint32{{0, 1, 2}},
			Material:  -1,
		}},
	}
	require.NoError(t, m.LoadScene(scene, be))

	err := m.Normalize(-1, 1)
	assert.ErrorIs(t, err, geometry.ErrDegenerateGeometry)
	assert.Zero(t, be.meshUpdates)
}

func TestModelNormalizeUpdateFailureKeepsBoundsInSync(t *testing.T) {
	m := newTestModel(t)
	be := &fakeBackend{}
	require.NoError(t, m.LoadScene(boxScene(), be))

	be.failUpdate = true
	err := m.Normalize(-1, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "buffer orphaning failed")

	assert.Equal(t, geometry.ComputeBounds(m.Buffers), m.Bounds)
	assert.InDelta(t, -1, m.Bounds.Min[0], 1e-5)
	assert.InDelta(t, 1, m.Bounds.Max[0], 1e-5)
}

func TestModelNormalizeNotLoaded(t *testing.T) {
	assert.ErrorIs(t, New("x.gltf").Normalize(-1, 1), ErrNotLoaded)
}

func TestModelUnload(t *testing.T) {
	m := newTestModel(t)
	be := &fakeBackend{}
	require.NoError(t, m.LoadScene(boxScene(), be))

	m.Unload()
	assert.False(t, m.Loaded())
	assert.Equal(t, 2, be.meshDeletes)
	assert.Equal(t, []uint32{1}, be.texDeletes)
	assert.Nil(t, m.Buffers)
	assert.False(t, m.Bounds.Valid())

	m.Unload()
	assert.Equal(t, 2, be.meshDeletes)

	require.NoError(t, m.LoadScene(boxScene(), be), "a model can be loaded again")
}

func TestModelLoadFailureLeavesNothingUploaded(t *testing.T) {
	m := newTestModel(t)
	be := &fakeBackend{failMeshAt: 2}

	err := m.LoadScene(boxScene(), be)
	require.Error(t, err)
	assert.False(t, m.Loaded())
	assert.Equal(t, 1, be.meshDeletes)
	assert.Equal(t, []uint32{1}, be.texDeletes)
}

func TestModelImportFailureReleasesTextures(t *testing.T) {
	m := newTestModel(t)
	be := &fakeBackend{}
	scene := boxScene()
	scene.Materials[0].Specular = []importer.TextureSlot{{Path: "missing.png"}}

	err := m.LoadScene(scene, be)
	assert.ErrorIs(t, err, texture.ErrDecode)
	var ie *importer.ImportError
	assert.ErrorAs(t, err, &ie)
	assert.Equal(t, []uint32{1}, be.texDeletes)
	assert.Zero(t, be.meshUploads)
}

func TestModelLoadUsesLoader(t *testing.T) {
	boom := errors.New("bad magic")
	m := New("broken.glb").WithLoader(func(string) (*importer.Scene, error) { return nil, boom })

	err := m.Load(&fakeBackend{})
	assert.ErrorIs(t, err, boom)
	var ie *importer.ImportError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "broken.glb", ie.Path)

	m = newTestModel(t).WithLoader(func(string) (*importer.Scene, error) { return boxScene(), nil })
	require.NoError(t, m.Load(&fakeBackend{}))
	m.LogBounds()
}

func TestModelLoadMissingFile(t *testing.T) {
	err := New(filepath.Join(t.TempDir(), "nope.gltf")).Load(&fakeBackend{})
	var ie *importer.ImportError
	assert.ErrorAs(t, err, &ie)
}
