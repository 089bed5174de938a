package importer

import (
	"errors"
	"fmt"
)

var (
	ErrNoScene         = errors.New("no scene")
	ErrNoRoot          = errors.New("scene has no root node")
	ErrIncomplete      = errors.New("scene is incomplete")
	ErrMeshIndex       = errors.New("node references a missing mesh")
	ErrMaterialIndex   = errors.New("mesh references a missing material")
	ErrNotTriangulated = errors.New("face is not a triangle")
	ErrIndexRange      = errors.New("face index out of vertex range")
)

// ImportError is a failure that aborts loading an asset. Path is the model
// file, or the texture path when a texture could not be acquired.
type ImportError struct {
	Path string
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import %s: %v", e.Path, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

// PrecheckError reports a mesh that breaks the triangle list contract.
type PrecheckError struct {
	Mesh int
	Name string
	Face int
	Err  error
}

func (e *PrecheckError) Error() string {
	return fmt.Sprintf("mesh %d (%s) face %d: %v", e.Mesh, e.Name, e.Face, e.Err)
}

func (e *PrecheckError) Unwrap() error { return e.Err }
