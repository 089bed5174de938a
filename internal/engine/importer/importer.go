package importer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/modelview/internal/engine/geometry"
	"github.com/Faultbox/modelview/internal/engine/texture"
	"github.com/Faultbox/modelview/internal/logger"
)

// TextureSource hands out shared texture references. *texture.Cache
// implements it.
type TextureSource interface {
	Acquire(path string, kind texture.Kind) (*texture.Ref, error)
	AcquireData(key, name string, data []byte, kind texture.Kind) (*texture.Ref, error)
}

// Importer turns a Scene into geometry buffers.
type Importer struct {
	textures TextureSource
	log      *zap.Logger
}

// New creates an importer that acquires textures from src.
func New(src TextureSource) *Importer {
	return &Importer{
		textures: src,
		log:      logger.Named("importer"),
	}
}

// Import walks the scene depth-first in pre-order and returns one buffer per
// mesh reference, in visit order. A node's own meshes come before any of its
// children's.
//
// The scene is checked as a whole before any texture is acquired, so a
// malformed scene never touches the texture source.
func (im *Importer) Import(scene *Scene) ([]*geometry.Buffer, error) {
	if err := checkScene(scene); err != nil {
		return nil, err
	}
	if err := Precheck(scene); err != nil {
		return nil, err
	}

	buffers := make([]*geometry.Buffer, 0, scene.CountMeshes())
	var importErr error
	scene.Walk(func(node *Node, depth int) {
		if importErr != nil {
			return
		}
		for _, mi := range node.Meshes {
			buf, err := im.processMesh(scene, mi)
			if err != nil {
				importErr = err
				return
			}
			im.log.Debug("mesh imported",
				zap.String("node", node.Name),
				zap.Int("depth", depth),
				zap.String("mesh", buf.Name),
				zap.Int("vertices", buf.VertexCount()),
				zap.Int("triangles", buf.IndexCount()/geometry.IndicesPerTriangle),
				zap.Int("textures", len(buf.Textures)),
			)
			buffers = append(buffers, buf)
		}
	})
	if importErr != nil {
		return nil, importErr
	}
	return buffers, nil
}

func checkScene(scene *Scene) error {
	switch {
	case scene == nil:
		return &ImportError{Err: ErrNoScene}
	case scene.Root == nil:
		return &ImportError{Path: scene.Path, Err: ErrNoRoot}
	case scene.Incomplete:
		return &ImportError{Path: scene.Path, Err: ErrIncomplete}
	case scene.HasCycle():
		return &ImportError{Path: scene.Path, Err: fmt.Errorf("%w: node graph has a cycle", ErrIncomplete)}
	}
	return nil
}

// Precheck verifies every mesh reachable from the root: mesh and material
// indices resolve, every face has exactly three indices, and every index
// addresses an existing vertex.
func Precheck(scene *Scene) error {
	if err := checkScene(scene); err != nil {
		return err
	}

	var err error
	scene.Walk(func(node *Node, _ int) {
		if err != nil {
			return
		}
		for _, mi := range node.Meshes {
			if mi < 0 || mi >= len(scene.Meshes) || scene.Meshes[mi] == nil {
				err = &ImportError{Path: scene.Path, Err: fmt.Errorf("%w: node %q mesh %d", ErrMeshIndex, node.Name, mi)}
				return
			}
			if err = precheckMesh(scene, mi); err != nil {
				return
			}
		}
	})
	return err
}

func precheckMesh(scene *Scene, mi int) error {
	mesh := scene.Meshes[mi]
	if mesh.Material >= len(scene.Materials) || (mesh.Material >= 0 && scene.Materials[mesh.Material] == nil) {
		return &ImportError{Path: scene.Path, Err: fmt.Errorf("%w: mesh %q material %d", ErrMaterialIndex, mesh.Name, mesh.Material)}
	}

	n := uint32(len(mesh.Positions))
	for fi, face := range mesh.Faces {
		if len(face) != geometry.IndicesPerTriangle {
			return &PrecheckError{Mesh: mi, Name: mesh.Name, Face: fi, Err: fmt.Errorf("%w: %d indices", ErrNotTriangulated, len(face))}
		}
		for _, idx := range face {
			if idx >= n {
				return &PrecheckError{Mesh: mi, Name: mesh.Name, Face: fi, Err: fmt.Errorf("%w: %d >= %d", ErrIndexRange, idx, n)}
			}
		}
	}
	return nil
}

func (im *Importer) processMesh(scene *Scene, mi int) (*geometry.Buffer, error) {
	mesh := scene.Meshes[mi]

	vertices := make([]geometry.Vertex, len(mesh.Positions))
	var uv0 [][2]float32
	if len(mesh.UVs) > 0 {
		uv0 = mesh.UVs[0]
	}
	for i, p := range mesh.Positions {
		v := geometry.Vertex{Position: mgl32.Vec3(p)}
		if i < len(mesh.Normals) {
			v.Normal = mgl32.Vec3(mesh.Normals[i])
		}
		if i < len(uv0) {
			v.TexCoord = mgl32.Vec2(uv0[i])
		}
		vertices[i] = v
	}

	indices := make([]uint32, 0, len(mesh.Faces)*geometry.IndicesPerTriangle)
	for _, face := range mesh.Faces {
		indices = append(indices, face...)
	}

	var textures []geometry.Binding
	if mesh.Material >= 0 {
		mat := scene.Materials[mesh.Material]
		var err error
		if textures, err = im.materialTextures(mat.Diffuse, texture.KindDiffuse, textures); err != nil {
			return nil, err
		}
		if textures, err = im.materialTextures(mat.Specular, texture.KindSpecular, textures); err != nil {
			return nil, err
		}
	}

	name := mesh.Name
	if name == "" {
		name = fmt.Sprintf("mesh%d", mi)
	}
	return geometry.NewBuffer(name, vertices, indices, textures)
}

func (im *Importer) materialTextures(slots []TextureSlot, kind texture.Kind, out []geometry.Binding) ([]geometry.Binding, error) {
	for _, slot := range slots {
		var (
			ref *texture.Ref
			err error
		)
		if slot.Embedded() {
			name := slot.Name
			if name == "" {
				name = slot.Path
			}
			ref, err = im.textures.AcquireData(slot.Path, name, slot.Data, kind)
		} else {
			ref, err = im.textures.Acquire(slot.Path, kind)
		}
		if err != nil {
			return nil, &ImportError{Path: slot.Path, Err: err}
		}
		out = append(out, geometry.Binding{Ref: ref, Kind: kind})
	}
	return out, nil
}
