package gfx

import "github.com/go-gl/mathgl/mgl32"

type ClearMask uint8

const (
	ClearColorBit ClearMask = 1 << iota
	ClearDepthBit
)

// Device is the slice of the graphics API used by ShaderProgram and
// FrameRenderer. Handles are never zero for live objects and are unique
// among live objects of the same device.
type Device interface {
	CreateShader(stage ShaderStage) uint32
	CompileShader(shader uint32, source string) (infoLog string, ok bool)
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32) (infoLog string, ok bool)
	ValidateProgram(program uint32) (infoLog string, ok bool)
	DeleteProgram(program uint32)
	UseProgram(program uint32)

	// UniformLocation returns -1 for names the program does not use.
	UniformLocation(program uint32, name string) int32
	UniformFloat(location int32, v float32)
	UniformMatrix4(location int32, m mgl32.Mat4)

	CreateVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)
	// UploadVertices and UploadIndices attach the new buffer to the bound
	// vertex array.
	UploadVertices(data []float32) uint32
	UploadIndices(data []uint32) uint32
	DeleteBuffer(buffer uint32)
	VertexAttrib(index uint32, layout VertexLayout)

	SetDepthTest(enabled bool)
	SetClearColor(rgba [4]float32)
	Clear(mask ClearMask)
	Viewport(width, height int32)
	DrawArrays(first, count int32)
	DrawElements(count int32)
}
