package gfx

import (
	"fmt"
	"strings"
)

type ShaderStage uint8

const (
	Vertex ShaderStage = iota + 1
	Fragment
)

func (s ShaderStage) String() string {
	switch s {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	default:
		return fmt.Sprintf("stage(%d)", uint8(s))
	}
}

// ShaderSource is the GLSL text of a single stage. It cannot be changed
// after construction.
type ShaderSource struct {
	stage ShaderStage
	text  string
}

func NewShaderSource(stage ShaderStage, text string) ShaderSource {
	return ShaderSource{stage: stage, text: text}
}

func VertexSource(text string) ShaderSource   { return NewShaderSource(Vertex, text) }
func FragmentSource(text string) ShaderSource { return NewShaderSource(Fragment, text) }

func (s ShaderSource) Stage() ShaderStage { return s.stage }
func (s ShaderSource) Text() string       { return s.text }

// ShaderProgram is a linked and validated GPU program. A zero handle marks
// a program that was never built or has been released. At most one
// FrameRenderer owns a program.
type ShaderProgram struct {
	dev    Device
	handle uint32
	owned  bool
}

func (p *ShaderProgram) Handle() uint32 {
	if p == nil {
		return 0
	}
	return p.handle
}

func (p *ShaderProgram) Valid() bool {
	return p != nil && p.dev != nil && p.handle != 0
}

// Owned reports whether a FrameRenderer has taken the program.
func (p *ShaderProgram) Owned() bool {
	return p != nil && p.owned
}

// Release deletes the program handle. Calling it more than once is a no-op.
func (p *ShaderProgram) Release() {
	if !p.Valid() {
		return
	}
	p.dev.DeleteProgram(p.handle)
	Logger().Debug("shader program released", "program", p.handle)
	p.handle = 0
}

// BuildProgram compiles both stages, links them and validates the result.
// Either a usable program or an error is returned; shader stage objects
// never outlive the call.
func BuildProgram(dev Device, vertex, fragment ShaderSource) (*ShaderProgram, error) {
	if vertex.Stage() != Vertex || fragment.Stage() != Fragment {
		return nil, fmt.Errorf("%w: got %s and %s", ErrStageMismatch, vertex.Stage(), fragment.Stage())
	}

	vs, err := compileShader(dev, vertex)
	if err != nil {
		return nil, err
	}
	fs, err := compileShader(dev, fragment)
	if err != nil {
		dev.DeleteShader(vs)
		return nil, err
	}

	program := dev.CreateProgram()
	dev.AttachShader(program, vs)
	dev.AttachShader(program, fs)
	linkLog, linked := dev.LinkProgram(program)
	validateLog, valid := "", false
	if linked {
		validateLog, valid = dev.ValidateProgram(program)
	}

	dev.DeleteShader(fs)
	dev.DeleteShader(vs)

	if !linked {
		dev.DeleteProgram(program)
		return nil, &ShaderLinkError{Log: infoLog(linkLog, "link failed")}
	}
	if !valid {
		dev.DeleteProgram(program)
		return nil, &ShaderLinkError{Log: infoLog(validateLog, "validation failed")}
	}

	Logger().Debug("shader program built", "program", program)
	return &ShaderProgram{dev: dev, handle: program}, nil
}

func compileShader(dev Device, src ShaderSource) (uint32, error) {
	shader := dev.CreateShader(src.Stage())
	log, ok := dev.CompileShader(shader, src.Text())
	if !ok {
		dev.DeleteShader(shader)
		Logger().Warn("shader compile failed", "stage", src.Stage().String())
		return 0, &ShaderCompileError{Stage: src.Stage(), Log: infoLog(log, "compile failed")}
	}
	return shader, nil
}

func infoLog(log, fallback string) string {
	log = strings.TrimSpace(strings.TrimRight(log, "\x00"))
	if log == "" {
		return fallback
	}
	return log
}
