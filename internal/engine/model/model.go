// Package model ties a model file to its GPU geometry: import, bounds,
// normalization and teardown.
package model

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/modelview/internal/engine/geometry"
	"github.com/Faultbox/modelview/internal/engine/gltfscene"
	"github.com/Faultbox/modelview/internal/engine/importer"
	"github.com/Faultbox/modelview/internal/engine/texture"
	"github.com/Faultbox/modelview/internal/logger"
)

var (
	ErrLoaded    = errors.New("model already loaded")
	ErrNotLoaded = errors.New("model not loaded")
)

// Backend uploads meshes and textures.
type Backend interface {
	geometry.Uploader
	texture.Uploader
}

// SceneLoader parses a model file.
type SceneLoader func(path string) (*importer.Scene, error)

// Model is a loaded asset. All of its buffers and textures are loaded and
// unloaded together.
type Model struct {
	ID     uuid.UUID
	Path   string
	Bounds geometry.Bounds

	Buffers  []*geometry.Buffer
	textures *texture.Cache
	backend  Backend
	open     SceneLoader
	log      *zap.Logger
}

// New creates an unloaded model for a glTF file.
func New(path string) *Model {
	id := uuid.New()
	return &Model{
		ID:     id,
		Path:   path,
		Bounds: geometry.EmptyBounds(),
		open:   gltfscene.Open,
		log:    logger.Named("model").With(zap.String("model", filepath.Base(path)), zap.Stringer("id", id)),
	}
}

// WithLoader replaces the file parser.
func (m *Model) WithLoader(open SceneLoader) *Model {
	m.open = open
	return m
}

// Loaded reports whether the model's buffers are on the GPU.
func (m *Model) Loaded() bool { return m.backend != nil }

// Load parses the file, imports its scene and uploads everything.
func (m *Model) Load(backend Backend) error {
	if m.Loaded() {
		return ErrLoaded
	}
	scene, err := m.open(m.Path)
	if err != nil {
		return &importer.ImportError{Path: m.Path, Err: err}
	}
	return m.LoadScene(scene, backend)
}

// LoadScene imports an already parsed scene. Texture paths resolve against
// the model file's directory. On failure nothing stays uploaded.
func (m *Model) LoadScene(scene *importer.Scene, backend Backend) error {
	if m.Loaded() {
		return ErrLoaded
	}

	cache := texture.NewCache(filepath.Dir(m.Path), backend)
	buffers, err := importer.New(cache).Import(scene)
	if err != nil {
		cache.Release()
		return err
	}

	for i, b := range buffers {
		if err := b.Load(backend); err != nil {
			for _, loaded := range buffers[:i] {
				loaded.Unload(backend)
			}
			cache.Release()
			return fmt.Errorf("load %s: %w", m.Path, err)
		}
	}

	m.Buffers = buffers
	m.textures = cache
	m.backend = backend
	m.Bounds = geometry.ComputeBounds(buffers)

	vertices, triangles := m.Counts()
	m.log.Info("model loaded",
		zap.Int("meshes", len(buffers)),
		zap.Int("vertices", vertices),
		zap.Int("triangles", triangles),
		zap.Int("textures", cache.Len()),
	)
	return nil
}

// Normalize rescales the model so its dominant axis spans
// [targetMin, targetMax], pushes the new vertex data to the GPU and
// recomputes the bounds. Bounds follow the CPU vertices even when a GPU
// update fails.
func (m *Model) Normalize(targetMin, targetMax float32) error {
	if !m.Loaded() {
		return ErrNotLoaded
	}
	box, err := geometry.Normalize(m.Buffers, m.Bounds, targetMin, targetMax)
	if err != nil {
		return fmt.Errorf("normalize %s: %w", m.Path, err)
	}
	m.Bounds = box
	for _, b := range m.Buffers {
		if err := b.Reload(m.backend); err != nil {
			return fmt.Errorf("normalize %s: %w", m.Path, err)
		}
	}
	m.log.Debug("model normalized", zap.Float32("min", targetMin), zap.Float32("max", targetMax))
	return nil
}

// Unload deletes every mesh, then every texture. It is a no-op on an
// unloaded model.
func (m *Model) Unload() {
	if !m.Loaded() {
		return
	}
	for _, b := range m.Buffers {
		b.Unload(m.backend)
	}
	m.textures.Release()

	m.Buffers = nil
	m.textures = nil
	m.backend = nil
	m.Bounds = geometry.EmptyBounds()
	m.log.Debug("model unloaded")
}

// Textures returns the model's distinct textures.
func (m *Model) Textures() []*texture.Ref {
	if m.textures == nil {
		return nil
	}
	return m.textures.Refs()
}

// Counts returns the total vertex and triangle counts.
func (m *Model) Counts() (vertices, triangles int) {
	for _, b := range m.Buffers {
		vertices += b.VertexCount()
		triangles += b.IndexCount() / geometry.IndicesPerTriangle
	}
	return vertices, triangles
}

// LogBounds writes the bounding box and its centre to the log.
func (m *Model) LogBounds() {
	m.log.Info("bounding box",
		zap.Stringer("min", vec(m.Bounds.Min)),
		zap.Stringer("max", vec(m.Bounds.Max)),
		zap.Stringer("center", vec(m.Bounds.Center())),
		zap.Stringer("size", vec(m.Bounds.Size())),
	)
}

type vec [3]float32

func (v vec) String() string { return fmt.Sprintf("(%.4f, %.4f, %.4f)", v[0], v[1], v[2]) }
