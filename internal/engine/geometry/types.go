// Package geometry holds renderable surfaces and the bounding box and
// normalization passes that run over them.
package geometry

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/modelview/internal/engine/texture"
)

var (
	ErrIndexCount = errors.New("index count is not a multiple of 3")
	ErrIndexRange = errors.New("index out of vertex range")
)

// Vertex is the interleaved vertex layout uploaded to the GPU.
// Attribute locations: 0 = position, 1 = normal, 2 = texcoord.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
}

// Vertex attribute byte offsets within Vertex.
const (
	VertexStride   = 8 * 4
	PositionOffset = 0
	NormalOffset   = 3 * 4
	TexCoordOffset = 6 * 4
)

// IndicesPerTriangle is the stride of a triangle list.
const IndicesPerTriangle = 3

const bytesPerIndexElement = 4

// GPUHandle holds the backend objects of an uploaded buffer.
type GPUHandle struct {
	VAO uint32
	VBO uint32
	EBO uint32
}

// Uploader moves buffer data to the rendering backend.
type Uploader interface {
	UploadMesh(b *Buffer) error
	UpdateMesh(b *Buffer) error
	DeleteMesh(b *Buffer)
}

// Binding attaches a cached texture to a buffer. Kind is the material slot
// the texture was listed under, which may differ from Ref.Kind when one
// image serves several slots.
type Binding struct {
	Ref  *texture.Ref
	Kind texture.Kind
}

// Buffer is a single renderable surface: vertices, a triangle list and the
// textures bound when it is drawn.
type Buffer struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Textures []Binding

	GPU    GPUHandle
	loaded bool
	dirty  bool
}

// NewBuffer creates a buffer and validates its index list.
func NewBuffer(name string, vertices []Vertex, indices []uint32, textures []Binding) (*Buffer, error) {
	b := &Buffer{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
		Textures: textures,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks the triangle list against the vertex count.
func (b *Buffer) Validate() error {
	if len(b.Indices)%IndicesPerTriangle != 0 {
		return fmt.Errorf("%s: %w (%d)", b.Name, ErrIndexCount, len(b.Indices))
	}
	n := uint32(len(b.Vertices))
	for i, idx := range b.Indices {
		if idx >= n {
			return fmt.Errorf("%s: %w: indices[%d]=%d, %d vertices", b.Name, ErrIndexRange, i, idx, n)
		}
	}
	return nil
}

// VertexCount returns the number of vertices.
func (b *Buffer) VertexCount() int { return len(b.Vertices) }

// IndexCount returns the number of indices.
func (b *Buffer) IndexCount() int { return len(b.Indices) }

// IndexBytes returns the size of the index list in bytes.
func (b *Buffer) IndexBytes() int { return len(b.Indices) * bytesPerIndexElement }

// Loaded reports whether the buffer currently lives on the GPU.
func (b *Buffer) Loaded() bool { return b.loaded }

// Dirty reports whether vertex data changed since the last upload.
func (b *Buffer) Dirty() bool { return b.dirty }

// MarkDirty flags the vertex data as changed.
func (b *Buffer) MarkDirty() { b.dirty = true }

// Load uploads the buffer.
func (b *Buffer) Load(u Uploader) error {
	if err := u.UploadMesh(b); err != nil {
		return fmt.Errorf("upload %s: %w", b.Name, err)
	}
	b.loaded = true
	b.dirty = false
	return nil
}

// Reload pushes changed vertex data to an already uploaded buffer.
func (b *Buffer) Reload(u Uploader) error {
	if !b.loaded {
		return b.Load(u)
	}
	if err := u.UpdateMesh(b); err != nil {
		return fmt.Errorf("reload %s: %w", b.Name, err)
	}
	b.dirty = false
	return nil
}

// Unload releases the GPU objects. Textures belong to the cache and are
// left alone.
func (b *Buffer) Unload(u Uploader) {
	if !b.loaded {
		return
	}
	u.DeleteMesh(b)
	b.GPU = GPUHandle{}
	b.loaded = false
}

// SamplerNames returns the shader slot name of each texture, numbered per
// slot kind in texture order: diffuse0, diffuse1, specular0, ...
func (b *Buffer) SamplerNames() []string {
	names := make([]string, len(b.Textures))
	counters := make(map[texture.Kind]int, 2)
	for i, t := range b.Textures {
		n := counters[t.Kind]
		counters[t.Kind] = n + 1
		names[i] = t.Kind.String() + strconv.Itoa(n)
	}
	return names
}
