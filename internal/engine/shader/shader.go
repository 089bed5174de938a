// Package shader provides OpenGL shader compilation utilities.
package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Sources holds GLSL stages. Geometry is optional.
type Sources struct {
	Vertex   string
	Geometry string
	Fragment string
}

// Program is a linked shader program with a uniform location cache.
type Program struct {
	ID       uint32
	name     string
	uniforms map[string]int32
}

// NewProgram compiles and links the given stages.
func NewProgram(name string, src Sources) (*Program, error) {
	id, err := CompileProgram(src)
	if err != nil {
		return nil, fmt.Errorf("%s program: %w", name, err)
	}
	return &Program{ID: id, name: name, uniforms: make(map[string]int32)}, nil
}

// CompileProgram compiles vertex, optional geometry, and fragment shaders and
// links them into a program.
func CompileProgram(src Sources) (uint32, error) {
	vertShader, err := compileShader(src.Vertex, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	var geomShader uint32
	if src.Geometry != "" {
		geomShader, err = compileShader(src.Geometry, gl.GEOMETRY_SHADER, "geometry")
		if err != nil {
			return 0, err
		}
		defer gl.DeleteShader(geomShader)
	}

	fragShader, err := compileShader(src.Fragment, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	if geomShader != 0 {
		gl.AttachShader(program, geomShader)
	}
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", string(log[:logLen]))
	}

	return program, nil
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, string(log[:logLen]))
	}

	return shader, nil
}

// GetUniform returns the uniform location for the given name, or -1 if the
// uniform is not active.
func GetUniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

// Use makes the program current.
func (p *Program) Use() { gl.UseProgram(p.ID) }

// Delete frees the program.
func (p *Program) Delete() {
	if p.ID != 0 {
		gl.DeleteProgram(p.ID)
		p.ID = 0
	}
}

// Location returns the cached location of a uniform. Writes to -1 are
// ignored by GL, so missing uniforms are harmless.
func (p *Program) Location(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := GetUniform(p.ID, name)
	p.uniforms[name] = loc
	return loc
}

func (p *Program) SetInt(name string, v int32) { gl.Uniform1i(p.Location(name), v) }

func (p *Program) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	gl.Uniform1i(p.Location(name), i)
}

func (p *Program) SetFloat(name string, v float32) { gl.Uniform1f(p.Location(name), v) }

func (p *Program) SetVec3(name string, v mgl32.Vec3) { gl.Uniform3fv(p.Location(name), 1, &v[0]) }

func (p *Program) SetVec4(name string, v mgl32.Vec4) { gl.Uniform4fv(p.Location(name), 1, &v[0]) }

func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(p.Location(name), 1, false, &m[0])
}
