// Package gltfscene reads glTF 2.0 files (.gltf and .glb) into an
// importer.Scene.
//
// Each glTF primitive becomes one importer mesh, and a node's mesh reference
// expands to the primitives of that mesh in order. Triangle strips and fans
// are triangulated. Point and line primitives are passed through with their
// native face arity so the importer's precheck rejects them. Node transforms
// are not applied: every mesh keeps its own local coordinates.
package gltfscene

import (
	"encoding/json"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/modelview/internal/engine/importer"
	"github.com/Faultbox/modelview/internal/logger"
)

// Extension names read from materials.
const (
	extSpecular           = "KHR_materials_specular"
	extSpecularGlossiness = "KHR_materials_pbrSpecularGlossiness"
)

// Open parses a glTF file and converts its default scene.
func Open(path string) (*importer.Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf %s: %w", path, err)
	}
	return FromDocument(doc, path)
}

// FromDocument converts an already decoded document. path names the source
// file and keys embedded images.
func FromDocument(doc *gltf.Document, path string) (*importer.Scene, error) {
	c := &converter{
		doc:   doc,
		path:  path,
		scene: &importer.Scene{Path: path},
		log:   logger.Named("gltf"),
	}
	if err := c.convertMeshes(); err != nil {
		return nil, err
	}
	c.convertMaterials()
	c.convertNodes()

	c.log.Debug("gltf scene converted",
		zap.String("path", path),
		zap.Int("nodes", len(doc.Nodes)),
		zap.Int("meshes", len(c.scene.Meshes)),
		zap.Int("materials", len(c.scene.Materials)),
		zap.Bool("incomplete", c.scene.Incomplete),
	)
	return c.scene, nil
}

type converter struct {
	doc   *gltf.Document
	path  string
	scene *importer.Scene
	// prims maps a glTF mesh index to its importer mesh indices.
	prims [][]int
	log   *zap.Logger
}

func (c *converter) convertMeshes() error {
	c.prims = make([][]int, len(c.doc.Meshes))
	for mi, mesh := range c.doc.Meshes {
		if mesh == nil {
			c.scene.Incomplete = true
			continue
		}
		for pi, prim := range mesh.Primitives {
			if prim == nil {
				c.scene.Incomplete = true
				continue
			}
			m, err := c.convertPrimitive(prim)
			if err != nil {
				return fmt.Errorf("mesh %d (%s) primitive %d: %w", mi, mesh.Name, pi, err)
			}
			m.Name = mesh.Name
			if len(mesh.Primitives) > 1 {
				m.Name = fmt.Sprintf("%s.%d", mesh.Name, pi)
			}
			c.prims[mi] = append(c.prims[mi], len(c.scene.Meshes))
			c.scene.Meshes = append(c.scene.Meshes, m)
		}
	}
	return nil
}

func (c *converter) accessor(idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(c.doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	return c.doc.Accessors[idx], nil
}

func (c *converter) convertPrimitive(prim *gltf.Primitive) (*importer.Mesh, error) {
	m := &importer.Mesh{Material: -1}
	if prim.Material != nil {
		m.Material = int(*prim.Material)
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("no %s attribute", gltf.POSITION)
	}
	acc, err := c.accessor(int(posIdx))
	if err != nil {
		return nil, err
	}
	if m.Positions, err = modeler.ReadPosition(c.doc, acc, nil); err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if acc, err = c.accessor(int(idx)); err != nil {
			return nil, err
		}
		if m.Normals, err = modeler.ReadNormal(c.doc, acc, nil); err != nil {
			return nil, fmt.Errorf("read normals: %w", err)
		}
	}

	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if acc, err = c.accessor(int(idx)); err != nil {
			return nil, err
		}
		uv, err := modeler.ReadTextureCoord(c.doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("read texcoords: %w", err)
		}
		m.UVs = [][][2]float32{uv}
	}

	var indices []uint32
	if prim.Indices != nil {
		if acc, err = c.accessor(int(*prim.Indices)); err != nil {
			return nil, err
		}
		if indices, err = modeler.ReadIndices(c.doc, acc, nil); err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(m.Positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	m.Faces = faces(prim.Mode, indices)
	return m, nil
}

// faces splits an index list into faces according to the primitive mode.
func faces(mode gltf.PrimitiveMode, idx []uint32) [][]uint32 {
	var out [][]uint32
	switch mode {
	case gltf.PrimitiveTriangles:
		for i := 0; i < len(idx); i += 3 {
			out = append(out, idx[i:min(i+3, len(idx)):min(i+3, len(idx))])
		}
	case gltf.PrimitiveTriangleStrip:
		for i := 2; i < len(idx); i++ {
			if i%2 == 0 {
				out = append(out, []uint32{idx[i-2], idx[i-1], idx[i]})
			} else {
				out = append(out, []uint32{idx[i-1], idx[i-2], idx[i]})
			}
		}
	case gltf.PrimitiveTriangleFan:
		for i := 2; i < len(idx); i++ {
			out = append(out, []uint32{idx[0], idx[i-1], idx[i]})
		}
	case gltf.PrimitivePoints:
		for _, v := range idx {
			out = append(out, []uint32{v})
		}
	default:
		// Lines, line loops and line strips.
		for i := 1; i < len(idx); i += 2 {
			out = append(out, []uint32{idx[i-1], idx[i]})
		}
	}
	return out
}

type textureRef struct {
	Index *int `json:"index"`
}

type specularExt struct {
	SpecularTexture      *textureRef `json:"specularTexture"`
	SpecularColorTexture *textureRef `json:"specularColorTexture"`
}

type specularGlossinessExt struct {
	DiffuseTexture            *textureRef `json:"diffuseTexture"`
	SpecularGlossinessTexture *textureRef `json:"specularGlossinessTexture"`
}

// decodeExtension re-encodes an extension value into out. Unregistered
// extensions arrive as raw JSON and registered ones as typed structs; both
// marshal to the same document.
func decodeExtension(ext gltf.Extensions, name string, out any) bool {
	v, ok := ext[name]
	if !ok {
		return false
	}
	data, err := json.Marshal(v)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

func (c *converter) convertMaterials() {
	c.scene.Materials = make([]*importer.Material, len(c.doc.Materials))
	for i, mat := range c.doc.Materials {
		out := &importer.Material{}
		c.scene.Materials[i] = out
		if mat == nil {
			continue
		}
		out.Name = mat.Name

		if pbr := mat.PBRMetallicRoughness; pbr != nil && pbr.BaseColorTexture != nil {
			c.addSlot(&out.Diffuse, int(pbr.BaseColorTexture.Index))
		}

		var sg specularGlossinessExt
		if decodeExtension(mat.Extensions, extSpecularGlossiness, &sg) {
			if sg.DiffuseTexture != nil && sg.DiffuseTexture.Index != nil {
				c.addSlot(&out.Diffuse, *sg.DiffuseTexture.Index)
			}
			if sg.SpecularGlossinessTexture != nil && sg.SpecularGlossinessTexture.Index != nil {
				c.addSlot(&out.Specular, *sg.SpecularGlossinessTexture.Index)
			}
		}

		var spec specularExt
		if decodeExtension(mat.Extensions, extSpecular, &spec) {
			for _, ref := range []*textureRef{spec.SpecularTexture, spec.SpecularColorTexture} {
				if ref != nil && ref.Index != nil {
					c.addSlot(&out.Specular, *ref.Index)
				}
			}
		}
	}
}

// addSlot resolves a texture index to its image and appends the slot.
// Unresolvable references mark the scene incomplete.
func (c *converter) addSlot(slots *[]importer.TextureSlot, texIdx int) {
	if texIdx < 0 || texIdx >= len(c.doc.Textures) || c.doc.Textures[texIdx] == nil || c.doc.Textures[texIdx].Source == nil {
		c.log.Warn("unresolved texture", zap.String("path", c.path), zap.Int("texture", texIdx))
		c.scene.Incomplete = true
		return
	}
	imgIdx := int(*c.doc.Textures[texIdx].Source)
	slot, err := c.imageSlot(imgIdx)
	if err != nil {
		c.log.Warn("unresolved image", zap.String("path", c.path), zap.Int("image", imgIdx), zap.Error(err))
		c.scene.Incomplete = true
		return
	}
	*slots = append(*slots, slot)
}

func (c *converter) imageSlot(imgIdx int) (importer.TextureSlot, error) {
	if imgIdx < 0 || imgIdx >= len(c.doc.Images) || c.doc.Images[imgIdx] == nil {
		return importer.TextureSlot{}, fmt.Errorf("image %d out of range", imgIdx)
	}
	img := c.doc.Images[imgIdx]
	key := fmt.Sprintf("%s#image%d", filepath.Base(c.path), imgIdx)
	name := fmt.Sprintf("image%d%s", imgIdx, mimeExt(img.MimeType))

	switch {
	case img.BufferView != nil:
		data, err := c.bufferViewData(int(*img.BufferView))
		if err != nil {
			return importer.TextureSlot{}, err
		}
		return importer.TextureSlot{Path: key, Name: name, Data: data}, nil

	case img.IsEmbeddedResource():
		data, err := img.MarshalData()
		if err != nil {
			return importer.TextureSlot{}, err
		}
		if img.MimeType == "" {
			name = fmt.Sprintf("image%d%s", imgIdx, mimeExt(dataURIMime(img.URI)))
		}
		return importer.TextureSlot{Path: key, Name: name, Data: data}, nil

	case img.URI != "":
		p, err := url.PathUnescape(img.URI)
		if err != nil {
			p = img.URI
		}
		return importer.TextureSlot{Path: p}, nil
	}
	return importer.TextureSlot{}, fmt.Errorf("image %d has no source", imgIdx)
}

func (c *converter) bufferViewData(bvIdx int) ([]byte, error) {
	if bvIdx < 0 || bvIdx >= len(c.doc.BufferViews) || c.doc.BufferViews[bvIdx] == nil {
		return nil, fmt.Errorf("buffer view %d out of range", bvIdx)
	}
	bv := c.doc.BufferViews[bvIdx]
	bufIdx := int(bv.Buffer)
	if bufIdx < 0 || bufIdx >= len(c.doc.Buffers) || c.doc.Buffers[bufIdx] == nil {
		return nil, fmt.Errorf("buffer %d out of range", bufIdx)
	}
	data := c.doc.Buffers[bufIdx].Data
	start := int(bv.ByteOffset)
	end := start + int(bv.ByteLength)
	if start < 0 || end > len(data) || start > end {
		return nil, fmt.Errorf("buffer view %d exceeds buffer %d", bvIdx, bufIdx)
	}
	return data[start:end], nil
}

func mimeExt(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	case "image/gif":
		return ".gif"
	}
	return ""
}

// dataURIMime extracts the media type of a data URI.
func dataURIMime(uri string) string {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return ""
	}
	if i := strings.IndexAny(rest, ";,"); i >= 0 {
		return rest[:i]
	}
	return ""
}

// convertNodes builds the node tree under a synthetic root whose children
// are the root nodes of the selected scene.
func (c *converter) convertNodes() {
	if len(c.doc.Scenes) == 0 {
		return
	}
	sceneIdx := 0
	if c.doc.Scene != nil {
		sceneIdx = int(*c.doc.Scene)
	}
	if sceneIdx < 0 || sceneIdx >= len(c.doc.Scenes) || c.doc.Scenes[sceneIdx] == nil {
		c.scene.Incomplete = true
		return
	}
	s := c.doc.Scenes[sceneIdx]

	root := &importer.Node{Name: s.Name}
	onPath := make(map[int]bool)
	for _, n := range s.Nodes {
		if child := c.convertNode(int(n), onPath); child != nil {
			root.Children = append(root.Children, child)
		}
	}
	c.scene.Root = root
}

func (c *converter) convertNode(idx int, onPath map[int]bool) *importer.Node {
	if idx < 0 || idx >= len(c.doc.Nodes) || c.doc.Nodes[idx] == nil || onPath[idx] {
		c.scene.Incomplete = true
		return nil
	}
	onPath[idx] = true
	defer delete(onPath, idx)

	src := c.doc.Nodes[idx]
	node := &importer.Node{Name: src.Name}
	if src.Mesh != nil {
		mi := int(*src.Mesh)
		if mi < 0 || mi >= len(c.prims) {
			c.scene.Incomplete = true
		} else {
			node.Meshes = append(node.Meshes, c.prims[mi]...)
		}
	}
	for _, ch := range src.Children {
		if child := c.convertNode(int(ch), onPath); child != nil {
			node.Children = append(node.Children, child)
		}
	}
	return node
}
