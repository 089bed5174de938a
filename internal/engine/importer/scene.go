// Package importer flattens a parsed scene graph into renderable geometry
// buffers.
//
// The Scene types are a parser-neutral view of a model file. They are
// borrowed: Import copies everything it needs and keeps no reference to the
// scene once it returns.
package importer

// Scene is a parsed model file.
type Scene struct {
	// Path is the source file, used in error messages.
	Path      string
	Root      *Node
	Meshes    []*Mesh
	Materials []*Material
	// Incomplete is set by the parser when the file could only be partly
	// read.
	Incomplete bool
}

// Node is a scene graph node. Meshes index Scene.Meshes.
type Node struct {
	Name     string
	Meshes   []int
	Children []*Node
}

// Mesh is one triangulated surface.
type Mesh struct {
	Name      string
	Positions [][3]float32
	Normals   [][3]float32
	// UVs holds texture coordinate channels; only channel 0 is used.
	UVs   [][][2]float32
	Faces [][]uint32
	// Material indexes Scene.Materials. Negative means no material.
	Material int
}

// Material lists the texture slots of a surface, in slot order.
type Material struct {
	Name     string
	Diffuse  []TextureSlot
	Specular []TextureSlot
}

// TextureSlot is an image reference. Path is the file path relative to the
// model's directory, or a unique key when Data holds the encoded image.
type TextureSlot struct {
	Path string
	// Name is a file name hint for picking a decoder when Data is set.
	Name string
	Data []byte
}

// Embedded reports whether the image bytes are carried in the scene.
func (s TextureSlot) Embedded() bool { return s.Data != nil }

// CountMeshes returns the number of mesh references reachable from the root,
// which is the number of buffers Import produces.
func (s *Scene) CountMeshes() int {
	if s == nil || s.Root == nil {
		return 0
	}
	n := 0
	s.Walk(func(node *Node, _ int) {
		n += len(node.Meshes)
	})
	return n
}

// Walk visits nodes depth-first in pre-order, passing each node's depth.
// A child that is already an ancestor of the current node is skipped, so a
// cyclic graph terminates. A node shared by two parents is visited twice.
func (s *Scene) Walk(fn func(node *Node, depth int)) {
	if s == nil || s.Root == nil {
		return
	}
	walk(s.Root, 0, make(map[*Node]bool), fn)
}

func walk(node *Node, depth int, onPath map[*Node]bool, fn func(*Node, int)) {
	onPath[node] = true
	fn(node, depth)
	for _, child := range node.Children {
		if child != nil && !onPath[child] {
			walk(child, depth+1, onPath, fn)
		}
	}
	delete(onPath, node)
}

// HasCycle reports whether some node is its own ancestor.
func (s *Scene) HasCycle() bool {
	if s == nil || s.Root == nil {
		return false
	}
	return hasCycle(s.Root, make(map[*Node]bool), make(map[*Node]bool))
}

// done holds nodes whose subtrees are known to be acyclic.
func hasCycle(node *Node, onPath, done map[*Node]bool) bool {
	if done[node] {
		return false
	}
	onPath[node] = true
	for _, child := range node.Children {
		if child == nil {
			continue
		}
		if onPath[child] || hasCycle(child, onPath, done) {
			return true
		}
	}
	delete(onPath, node)
	done[node] = true
	return false
}
