package gfx

import (
	"errors"
	"fmt"
)

var (
	ErrContextInit    = errors.New("gfx: context initialization failed")
	ErrWindowCreate   = errors.New("gfx: window creation failed")
	ErrLoaderInit     = errors.New("gfx: OpenGL loader initialization failed")
	ErrInvalidState   = errors.New("gfx: invalid renderer state")
	ErrMeshValidation = errors.New("gfx: invalid mesh")
	ErrInvalidProgram = errors.New("gfx: invalid shader program")
	ErrStageMismatch  = errors.New("gfx: shader stage mismatch")
	ErrInvalidUniform = errors.New("gfx: invalid uniform value")
)

// ShaderCompileError reports a stage that failed to compile together with
// the info log returned by the driver.
type ShaderCompileError struct {
	Stage ShaderStage
	Log   string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("gfx: compile %s shader: %s", e.Stage, e.Log)
}

// ShaderLinkError reports a program that failed to link or validate.
type ShaderLinkError struct {
	Log string
}

func (e *ShaderLinkError) Error() string {
	return fmt.Sprintf("gfx: link program: %s", e.Log)
}

// InvalidStateError is returned when a FrameRenderer operation is called
// out of lifecycle order.
type InvalidStateError struct {
	Op    string
	State RendererState
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("gfx: %s not allowed in state %s", e.Op, e.State)
}

func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}

// MeshValidationError describes why a mesh was rejected.
type MeshValidationError struct {
	Reason string
}

func (e *MeshValidationError) Error() string {
	return "gfx: invalid mesh: " + e.Reason
}

func (e *MeshValidationError) Is(target error) bool {
	return target == ErrMeshValidation
}
