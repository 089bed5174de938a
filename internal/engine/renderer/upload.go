package renderer

import (
	"errors"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/modelview/internal/engine/geometry"
)

var errEmptyImage = errors.New("empty image")

// UploadMesh creates the VAO, VBO and EBO for a buffer and configures the
// interleaved position/normal/texcoord layout at locations 0, 1 and 2.
func (r *Renderer) UploadMesh(b *geometry.Buffer) error {
	var h geometry.GPUHandle

	gl.GenVertexArrays(1, &h.VAO)
	gl.BindVertexArray(h.VAO)

	gl.GenBuffers(1, &h.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, h.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(b.Vertices)*geometry.VertexStride, vertexPtr(b), gl.STATIC_DRAW)

	gl.GenBuffers(1, &h.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, h.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, b.IndexBytes(), indexPtr(b), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, geometry.VertexStride, geometry.PositionOffset)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, geometry.VertexStride, geometry.NormalOffset)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, geometry.VertexStride, geometry.TexCoordOffset)

	gl.BindVertexArray(0)

	b.GPU = h
	r.log.Debug("mesh uploaded",
		zap.String("mesh", b.Name),
		zap.Uint32("vao", h.VAO),
		zap.Int("vertices", b.VertexCount()),
		zap.Int("indices", b.IndexCount()),
	)
	return nil
}

// UpdateMesh replaces the vertex data of an uploaded buffer in place.
func (r *Renderer) UpdateMesh(b *geometry.Buffer) error {
	gl.BindBuffer(gl.ARRAY_BUFFER, b.GPU.VBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(b.Vertices)*geometry.VertexStride, vertexPtr(b))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return nil
}

// DeleteMesh frees the buffer's GL objects.
func (r *Renderer) DeleteMesh(b *geometry.Buffer) {
	h := b.GPU
	gl.BindVertexArray(h.VAO)
	gl.DisableVertexAttribArray(0)
	gl.DisableVertexAttribArray(1)
	gl.DisableVertexAttribArray(2)
	gl.BindVertexArray(0)

	gl.DeleteVertexArrays(1, &h.VAO)
	gl.DeleteBuffers(1, &h.VBO)
	gl.DeleteBuffers(1, &h.EBO)
}

// UploadTexture creates a mipmapped, repeating 2D texture.
func (r *Renderer) UploadTexture(img *image.RGBA) (uint32, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 {
		return 0, errEmptyImage
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return tex, nil
}

// DeleteTexture frees a texture.
func (r *Renderer) DeleteTexture(id uint32) {
	gl.DeleteTextures(1, &id)
}

func vertexPtr(b *geometry.Buffer) unsafe.Pointer {
	if len(b.Vertices) == 0 {
		return nil
	}
	return unsafe.Pointer(&b.Vertices[0])
}

func indexPtr(b *geometry.Buffer) unsafe.Pointer {
	if len(b.Indices) == 0 {
		return nil
	}
	return unsafe.Pointer(&b.Indices[0])
}
