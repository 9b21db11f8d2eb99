package gfx

import "fmt"

type RendererState uint8

const (
	Uninitialized RendererState = iota
	Ready
	Destroyed
)

func (s RendererState) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case Destroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// FrameRenderer draws one static mesh with one shader program. It owns the
// buffers it uploads and the program it is initialized with.
type FrameRenderer struct {
	dev   Device
	opts  RendererOptions
	state RendererState

	program *ShaderProgram
	vao     uint32
	vbo     uint32
	ebo     uint32

	layout      VertexLayout
	vertexCount int32
	indexCount  int32

	clearColor [4]float32
	uniforms   *UniformBinding
	locations  map[string]int32
}

func NewFrameRenderer(dev Device, opts RendererOptions) *FrameRenderer {
	return &FrameRenderer{
		dev:        dev,
		opts:       opts,
		clearColor: colorToFloat(opts.ClearColor),
		uniforms:   NewUniformBinding(),
		locations:  make(map[string]int32),
	}
}

func (r *FrameRenderer) State() RendererState {
	return r.state
}

func (r *FrameRenderer) Program() *ShaderProgram {
	return r.program
}

func (r *FrameRenderer) Layout() VertexLayout {
	return r.layout
}

// Initialize uploads the mesh and takes ownership of program. Nothing is
// sent to the device unless both arguments are valid and no other renderer
// owns the program.
func (r *FrameRenderer) Initialize(mesh Mesh, program *ShaderProgram) error {
	if r.state != Uninitialized {
		return &InvalidStateError{Op: "initialize", State: r.state}
	}
	if err := mesh.Validate(); err != nil {
		return err
	}
	if !program.Valid() {
		return ErrInvalidProgram
	}
	if program.Owned() {
		return fmt.Errorf("%w: program %d is owned by another renderer", ErrInvalidProgram, program.Handle())
	}

	r.vao = r.dev.CreateVertexArray()
	r.dev.BindVertexArray(r.vao)
	r.vbo = r.dev.UploadVertices(mesh.Vertices)
	r.layout = mesh.Layout()
	r.dev.VertexAttrib(0, r.layout)
	if mesh.Indexed() {
		r.ebo = r.dev.UploadIndices(mesh.Indices)
	}
	r.dev.SetDepthTest(r.opts.DepthTest)
	r.dev.UseProgram(program.Handle())

	program.owned = true
	r.program = program
	r.vertexCount = int32(mesh.VertexCount())
	r.indexCount = int32(len(mesh.Indices))
	r.state = Ready

	Logger().Debug("frame renderer ready",
		"program", program.Handle(),
		"vertices", r.vertexCount,
		"indices", r.indexCount,
		"components", r.layout.Components)
	return nil
}

// SetUniform records a value to be sent on the next RenderFrame. Setting the
// same name twice before a frame keeps only the last value.
func (r *FrameRenderer) SetUniform(name string, value UniformValue) error {
	if r.state != Ready {
		return &InvalidStateError{Op: "set uniform", State: r.state}
	}
	if value.Kind() != UniformFloat && value.Kind() != UniformMat4 {
		return fmt.Errorf("%w: %q has kind %d", ErrInvalidUniform, name, value.Kind())
	}
	r.uniforms.Set(name, value)
	return nil
}

func (r *FrameRenderer) RenderFrame() error {
	if r.state != Ready {
		return &InvalidStateError{Op: "render frame", State: r.state}
	}
	if !r.program.Valid() {
		return fmt.Errorf("%w: program released while in use", ErrInvalidProgram)
	}
	r.dev.SetClearColor(r.clearColor)
	r.dev.Clear(r.opts.clearMask())
	r.dev.UseProgram(r.program.Handle())
	r.dev.BindVertexArray(r.vao)
	r.uniforms.flush(r.applyUniform)
	if r.ebo != 0 {
		r.dev.DrawElements(r.indexCount)
	} else {
		r.dev.DrawArrays(0, r.vertexCount)
	}
	return nil
}

func (r *FrameRenderer) applyUniform(name string, v UniformValue) {
	loc, ok := r.locations[name]
	if !ok {
		loc = r.dev.UniformLocation(r.program.Handle(), name)
		r.locations[name] = loc
		if loc < 0 {
			Logger().Warn("uniform not used by program", "name", name, "program", r.program.Handle())
		}
	}
	if loc < 0 {
		return
	}
	switch v.Kind() {
	case UniformFloat:
		f, _ := v.Float32()
		r.dev.UniformFloat(loc, f)
	case UniformMat4:
		m, _ := v.Matrix()
		r.dev.UniformMatrix4(loc, m)
	}
}

// Destroy releases the buffers and the program.
func (r *FrameRenderer) Destroy() error {
	if r.state != Ready {
		return &InvalidStateError{Op: "destroy", State: r.state}
	}
	if r.ebo != 0 {
		r.dev.DeleteBuffer(r.ebo)
	}
	if r.vbo != 0 {
		r.dev.DeleteBuffer(r.vbo)
	}
	if r.vao != 0 {
		r.dev.DeleteVertexArray(r.vao)
	}
	r.program.Release()
	r.vao, r.vbo, r.ebo = 0, 0, 0
	r.locations = nil
	r.state = Destroyed
	Logger().Debug("frame renderer destroyed")
	return nil
}
