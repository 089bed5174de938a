package texture

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/modelview/internal/logger"
)

// ErrDecode is matched by every DecodeError.
var ErrDecode = errors.New("texture decode failed")

// Kind is the semantic slot of a texture within a material.
type Kind int

const (
	KindDiffuse Kind = iota
	KindSpecular
)

func (k Kind) String() string {
	switch k {
	case KindDiffuse:
		return "diffuse"
	case KindSpecular:
		return "specular"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Ref is an uploaded texture. One Ref exists per source path; every surface
// using that path shares the pointer.
type Ref struct {
	ID   uint32
	Kind Kind
	Path string
}

// DecodeError carries the path of an image that could not be read or decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("texture %q: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDecode) match any DecodeError.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// Uploader creates and deletes GPU textures.
type Uploader interface {
	UploadTexture(img *image.RGBA) (uint32, error)
	DeleteTexture(id uint32)
}

// Cache deduplicates texture uploads by exact path string. It is scoped to a
// single asset and is not safe for concurrent use.
type Cache struct {
	baseDir  string
	uploader Uploader
	refs     map[string]*Ref
	order    []*Ref
	log      *zap.Logger
}

// NewCache creates a cache that resolves relative paths against baseDir.
func NewCache(baseDir string, uploader Uploader) *Cache {
	return &Cache{
		baseDir:  baseDir,
		uploader: uploader,
		refs:     make(map[string]*Ref),
		log:      logger.Named("texture"),
	}
}

// Acquire returns the texture for path, reading, decoding and uploading it
// on first use only.
func (c *Cache) Acquire(path string, kind Kind) (*Ref, error) {
	if ref, ok := c.refs[path]; ok {
		return ref, nil
	}

	data, err := os.ReadFile(c.resolve(path))
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return c.upload(path, path, data, kind)
}

// AcquireData is Acquire for images embedded in the model file. key stands
// in for the path and must be unique within the asset.
func (c *Cache) AcquireData(key string, name string, data []byte, kind Kind) (*Ref, error) {
	if ref, ok := c.refs[key]; ok {
		return ref, nil
	}
	return c.upload(key, name, data, kind)
}

func (c *Cache) upload(key, name string, data []byte, kind Kind) (*Ref, error) {
	img, err := Decode(name, data)
	if err != nil {
		return nil, &DecodeError{Path: key, Err: err}
	}

	id, err := c.uploader.UploadTexture(img)
	if err != nil {
		return nil, fmt.Errorf("upload texture %q: %w", key, err)
	}

	ref := &Ref{ID: id, Kind: kind, Path: key}
	c.refs[key] = ref
	c.order = append(c.order, ref)

	c.log.Debug("texture uploaded",
		zap.String("path", key),
		zap.Stringer("kind", kind),
		zap.Uint32("id", id),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)
	return ref, nil
}

// Len returns the number of distinct textures held.
func (c *Cache) Len() int { return len(c.order) }

// Refs returns the textures in first-acquired order.
func (c *Cache) Refs() []*Ref {
	out := make([]*Ref, len(c.order))
	copy(out, c.order)
	return out
}

// Release deletes every uploaded texture once and empties the cache.
func (c *Cache) Release() {
	for _, ref := range c.order {
		c.uploader.DeleteTexture(ref.ID)
	}
	c.refs = make(map[string]*Ref)
	c.order = nil
}

func (c *Cache) resolve(path string) string {
	if filepath.IsAbs(path) || c.baseDir == "" {
		return path
	}
	return filepath.Join(c.baseDir, filepath.FromSlash(path))
}
