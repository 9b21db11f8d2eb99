// Package gfxtest provides an in-memory gfx.Device that records every call,
// so renderers can be tested without a GL context.
package gfxtest

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/kjkrol/glscene/pkg/gfx"
)

// Draw is one recorded draw call.
type Draw struct {
	Program uint32
	VAO     uint32
	Indexed bool
	First   int32
	Count   int32
}

// UniformUpload is one value sent to a program.
type UniformUpload struct {
	Program uint32
	Name    string
	Value   gfx.UniformValue
}

type shader struct {
	stage    gfx.ShaderStage
	source   string
	compiled bool
}

type program struct {
	shaders   []uint32
	sources   map[gfx.ShaderStage]string
	linked    bool
	locations map[string]int32
	names     map[int32]string
}

type vertexArray struct {
	vertices uint32
	indices  uint32
	layout   gfx.VertexLayout
}

// Device is a recording gfx.Device. The zero value is not usable; call
// NewDevice.
type Device struct {
	// CompileFunc decides whether a stage compiles. Defaults to CheckGLSL.
	CompileFunc func(stage gfx.ShaderStage, source string) (string, bool)
	// LinkFunc decides whether a program links. The default requires one
	// compiled vertex and one compiled fragment stage.
	LinkFunc func(vertex, fragment string) (string, bool)

	Calls     []string
	DrawCalls []Draw
	Uploads   []UniformUpload
	Clears    []gfx.ClearMask
	// Misuse collects calls made with unknown or deleted handles.
	Misuse []string

	DepthTest    bool
	ClearColor   [4]float32
	ViewportSize [2]int32

	next        uint32
	shaders     map[uint32]*shader
	programs    map[uint32]*program
	buffers     map[uint32]any
	vaos        map[uint32]*vertexArray
	current     uint32
	boundVAO    uint32
	nextUniform int32
}

var _ gfx.Device = (*Device)(nil)

func NewDevice() *Device {
	return &Device{
		shaders:  make(map[uint32]*shader),
		programs: make(map[uint32]*program),
		buffers:  make(map[uint32]any),
		vaos:     make(map[uint32]*vertexArray),
	}
}

// Reset clears the recorded calls but keeps live objects.
func (d *Device) Reset() {
	d.Calls = nil
	d.DrawCalls = nil
	d.Uploads = nil
	d.Clears = nil
	d.Misuse = nil
}

func (d *Device) LiveShaders() int      { return len(d.shaders) }
func (d *Device) LivePrograms() int     { return len(d.programs) }
func (d *Device) LiveBuffers() int      { return len(d.buffers) }
func (d *Device) LiveVertexArrays() int { return len(d.vaos) }

func (d *Device) CurrentProgram() uint32 {
	return d.current
}

// Live reports whether any object is still allocated.
func (d *Device) Live() bool {
	return d.LiveShaders()+d.LivePrograms()+d.LiveBuffers()+d.LiveVertexArrays() > 0
}

func (d *Device) VertexData(buffer uint32) []float32 {
	data, _ := d.buffers[buffer].([]float32)
	return data
}

func (d *Device) IndexData(buffer uint32) []uint32 {
	data, _ := d.buffers[buffer].([]uint32)
	return data
}

// VertexArray returns the buffers and layout recorded for vao.
func (d *Device) VertexArray(vao uint32) (vertices, indices uint32, layout gfx.VertexLayout, ok bool) {
	v, ok := d.vaos[vao]
	if !ok {
		return 0, 0, gfx.VertexLayout{}, false
	}
	return v.vertices, v.indices, v.layout, true
}

func (d *Device) record(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

func (d *Device) misuse(format string, args ...any) {
	d.Misuse = append(d.Misuse, fmt.Sprintf(format, args...))
}

func (d *Device) handle() uint32 {
	d.next++
	return d.next
}

func (d *Device) CreateShader(stage gfx.ShaderStage) uint32 {
	h := d.handle()
	d.shaders[h] = &shader{stage: stage}
	d.record("CreateShader(%s) = %d", stage, h)
	return h
}

func (d *Device) CompileShader(h uint32, source string) (string, bool) {
	d.record("CompileShader(%d)", h)
	s, ok := d.shaders[h]
	if !ok {
		d.misuse("compile unknown shader %d", h)
		return "invalid shader", false
	}
	compile := d.CompileFunc
	if compile == nil {
		compile = CheckGLSL
	}
	log, ok := compile(s.stage, source)
	s.source = source
	s.compiled = ok
	return log, ok
}

func (d *Device) DeleteShader(h uint32) {
	d.record("DeleteShader(%d)", h)
	if _, ok := d.shaders[h]; !ok {
		d.misuse("delete unknown shader %d", h)
		return
	}
	delete(d.shaders, h)
}

func (d *Device) CreateProgram() uint32 {
	h := d.handle()
	d.programs[h] = &program{
		sources:   make(map[gfx.ShaderStage]string),
		locations: make(map[string]int32),
		names:     make(map[int32]string),
	}
	d.record("CreateProgram() = %d", h)
	return h
}

func (d *Device) AttachShader(p, s uint32) {
	d.record("AttachShader(%d, %d)", p, s)
	prog, ok := d.programs[p]
	if !ok {
		d.misuse("attach to unknown program %d", p)
		return
	}
	sh, ok := d.shaders[s]
	if !ok {
		d.misuse("attach unknown shader %d", s)
		return
	}
	prog.shaders = append(prog.shaders, s)
	if sh.compiled {
		prog.sources[sh.stage] = sh.source
	}
}

func (d *Device) LinkProgram(p uint32) (string, bool) {
	d.record("LinkProgram(%d)", p)
	prog, ok := d.programs[p]
	if !ok {
		d.misuse("link unknown program %d", p)
		return "invalid program", false
	}
	vs, hasVS := prog.sources[gfx.Vertex]
	fs, hasFS := prog.sources[gfx.Fragment]
	if d.LinkFunc != nil {
		log, ok := d.LinkFunc(vs, fs)
		prog.linked = ok
		return log, ok
	}
	if !hasVS || !hasFS {
		return "error: program lacks a compiled vertex or fragment shader", false
	}
	prog.linked = true
	return "", true
}

func (d *Device) ValidateProgram(p uint32) (string, bool) {
	d.record("ValidateProgram(%d)", p)
	prog, ok := d.programs[p]
	if !ok {
		d.misuse("validate unknown program %d", p)
		return "invalid program", false
	}
	if !prog.linked {
		return "program not linked", false
	}
	return "", true
}

func (d *Device) DeleteProgram(p uint32) {
	d.record("DeleteProgram(%d)", p)
	if _, ok := d.programs[p]; !ok {
		d.misuse("delete unknown program %d", p)
		return
	}
	delete(d.programs, p)
	if d.current == p {
		d.current = 0
	}
}

func (d *Device) UseProgram(p uint32) {
	d.record("UseProgram(%d)", p)
	if p != 0 {
		if prog, ok := d.programs[p]; !ok || !prog.linked {
			d.misuse("use unknown or unlinked program %d", p)
			return
		}
	}
	d.current = p
}

var uniformDecl = regexp.MustCompile(`uniform\s+\w+\s+(\w+)\s*;`)

func (d *Device) UniformLocation(p uint32, name string) int32 {
	d.record("UniformLocation(%d, %q)", p, name)
	prog, ok := d.programs[p]
	if !ok {
		d.misuse("uniform location on unknown program %d", p)
		return -1
	}
	if loc, ok := prog.locations[name]; ok {
		return loc
	}
	loc := int32(-1)
	for _, src := range prog.sources {
		for _, m := range uniformDecl.FindAllStringSubmatch(src, -1) {
			if m[1] == name && loc < 0 {
				loc = d.nextUniform
				d.nextUniform++
			}
		}
		if loc >= 0 {
			break
		}
	}
	prog.locations[name] = loc
	if loc >= 0 {
		prog.names[loc] = name
	}
	return loc
}

func (d *Device) uniformTarget(loc int32) (string, bool) {
	prog, ok := d.programs[d.current]
	if !ok {
		d.misuse("uniform %d set without a program", loc)
		return "", false
	}
	name, ok := prog.names[loc]
	if !ok {
		d.misuse("uniform %d unknown to program %d", loc, d.current)
		return "", false
	}
	return name, true
}

func (d *Device) UniformFloat(loc int32, v float32) {
	d.record("UniformFloat(%d, %v)", loc, v)
	if name, ok := d.uniformTarget(loc); ok {
		d.Uploads = append(d.Uploads, UniformUpload{Program: d.current, Name: name, Value: gfx.Float(v)})
	}
}

func (d *Device) UniformMatrix4(loc int32, m mgl32.Mat4) {
	d.record("UniformMatrix4(%d)", loc)
	if name, ok := d.uniformTarget(loc); ok {
		d.Uploads = append(d.Uploads, UniformUpload{Program: d.current, Name: name, Value: gfx.Mat4(m)})
	}
}

func (d *Device) CreateVertexArray() uint32 {
	h := d.handle()
	d.vaos[h] = &vertexArray{}
	d.record("CreateVertexArray() = %d", h)
	return h
}

func (d *Device) BindVertexArray(vao uint32) {
	d.record("BindVertexArray(%d)", vao)
	if _, ok := d.vaos[vao]; vao != 0 && !ok {
		d.misuse("bind unknown vertex array %d", vao)
		return
	}
	d.boundVAO = vao
}

func (d *Device) DeleteVertexArray(vao uint32) {
	d.record("DeleteVertexArray(%d)", vao)
	if _, ok := d.vaos[vao]; !ok {
		d.misuse("delete unknown vertex array %d", vao)
		return
	}
	delete(d.vaos, vao)
	if d.boundVAO == vao {
		d.boundVAO = 0
	}
}

func (d *Device) UploadVertices(data []float32) uint32 {
	h := d.handle()
	d.buffers[h] = slices.Clone(data)
	d.record("UploadVertices(%d floats) = %d", len(data), h)
	if v, ok := d.vaos[d.boundVAO]; ok {
		v.vertices = h
	} else {
		d.misuse("vertex upload without a vertex array")
	}
	return h
}

func (d *Device) UploadIndices(data []uint32) uint32 {
	h := d.handle()
	d.buffers[h] = slices.Clone(data)
	d.record("UploadIndices(%d indices) = %d", len(data), h)
	if v, ok := d.vaos[d.boundVAO]; ok {
		v.indices = h
	} else {
		d.misuse("index upload without a vertex array")
	}
	return h
}

func (d *Device) DeleteBuffer(h uint32) {
	d.record("DeleteBuffer(%d)", h)
	if _, ok := d.buffers[h]; !ok {
		d.misuse("delete unknown buffer %d", h)
		return
	}
	delete(d.buffers, h)
}

func (d *Device) VertexAttrib(index uint32, layout gfx.VertexLayout) {
	d.record("VertexAttrib(%d, %d, %d)", index, layout.Components, layout.Stride)
	v, ok := d.vaos[d.boundVAO]
	if !ok {
		d.misuse("vertex attribute without a vertex array")
		return
	}
	v.layout = layout
}

func (d *Device) SetDepthTest(enabled bool) {
	d.record("SetDepthTest(%t)", enabled)
	d.DepthTest = enabled
}

func (d *Device) SetClearColor(rgba [4]float32) {
	d.record("SetClearColor(%v)", rgba)
	d.ClearColor = rgba
}

func (d *Device) Clear(mask gfx.ClearMask) {
	d.record("Clear(%d)", mask)
	d.Clears = append(d.Clears, mask)
}

func (d *Device) Viewport(width, height int32) {
	d.record("Viewport(%d, %d)", width, height)
	d.ViewportSize = [2]int32{width, height}
}

func (d *Device) DrawArrays(first, count int32) {
	d.record("DrawArrays(%d, %d)", first, count)
	d.draw(Draw{First: first, Count: count})
}

func (d *Device) DrawElements(count int32) {
	d.record("DrawElements(%d)", count)
	if v, ok := d.vaos[d.boundVAO]; !ok || v.indices == 0 {
		d.misuse("indexed draw without an index buffer")
	}
	d.draw(Draw{Indexed: true, Count: count})
}

func (d *Device) draw(dc Draw) {
	if d.current == 0 {
		d.misuse("draw without a program")
	}
	if d.boundVAO == 0 {
		d.misuse("draw without a vertex array")
	}
	dc.Program = d.current
	dc.VAO = d.boundVAO
	d.DrawCalls = append(d.DrawCalls, dc)
}
