// Package scene describes what a program renders as data: window settings,
// a mesh, a shader pair and the uniforms that drive it.
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/kjkrol/glscene/pkg/gfx"
)

var ErrInvalidScene = errors.New("scene: invalid scene")

type Scene struct {
	Name       string             `yaml:"name"`
	Window     Window             `yaml:"window"`
	ClearColor []float32          `yaml:"clear_color"`
	DepthTest  bool               `yaml:"depth_test"`
	Mesh       *Mesh              `yaml:"mesh"`
	Shaders    *Shaders           `yaml:"shaders"`
	Uniforms   map[string]float32 `yaml:"uniforms"`
	Animation  *Animation         `yaml:"animation"`
	Projection *Projection        `yaml:"projection"`
	View       *View              `yaml:"view"`
}

type Window struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	Resizable bool   `yaml:"resizable"`
	VSync     *bool  `yaml:"vsync"`
	MaxFPS    int    `yaml:"max_fps"`
}

type Mesh struct {
	Dim      int       `yaml:"dim"`
	Vertices []float32 `yaml:"vertices"`
	Indices  []uint32  `yaml:"indices"`
}

type Shaders struct {
	Vertex   string `yaml:"vertex"`
	Fragment string `yaml:"fragment"`
}

// Animation rotates the model about Axis by Speed radians per second.
type Animation struct {
	Uniform string    `yaml:"uniform"`
	Axis    []float32 `yaml:"axis"`
	Speed   float32   `yaml:"speed"`
}

// Projection is a perspective projection; Fov is in degrees.
type Projection struct {
	Uniform string  `yaml:"uniform"`
	Fov     float32 `yaml:"fov"`
	Near    float32 `yaml:"near"`
	Far     float32 `yaml:"far"`
}

type View struct {
	Uniform string    `yaml:"uniform"`
	Eye     []float32 `yaml:"eye"`
	Center  []float32 `yaml:"center"`
	Up      []float32 `yaml:"up"`
}

func Load(r io.Reader) (*Scene, error) {
	var sc Scene
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("scene: decode: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	sc, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidScene, fmt.Sprintf(format, args...))
}

func (s *Scene) Validate() error {
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		return invalid("window size %dx%d", s.Window.Width, s.Window.Height)
	}
	if s.Window.MaxFPS < 0 {
		return invalid("max_fps %d", s.Window.MaxFPS)
	}
	if s.ClearColor != nil && len(s.ClearColor) != 3 && len(s.ClearColor) != 4 {
		return invalid("clear_color needs 3 or 4 components, got %d", len(s.ClearColor))
	}
	if s.Mesh == nil {
		if s.Shaders != nil {
			return invalid("shaders without a mesh")
		}
		return nil
	}
	if s.Shaders == nil || s.Shaders.Vertex == "" || s.Shaders.Fragment == "" {
		return invalid("a mesh needs a vertex and a fragment shader")
	}
	if err := s.GfxMesh().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	if a := s.Animation; a != nil {
		if a.Uniform == "" || len(a.Axis) != 3 || mgl32.Vec3(a.Axis).Len() == 0 {
			return invalid("animation needs a uniform and a non-zero 3D axis")
		}
	}
	if p := s.Projection; p != nil {
		if p.Uniform == "" || p.Fov <= 0 || p.Fov >= 180 || p.Near <= 0 || p.Far <= p.Near {
			return invalid("projection needs a uniform, 0 < fov < 180 and 0 < near < far")
		}
	}
	if v := s.View; v != nil {
		if v.Uniform == "" || len(v.Eye) != 3 || len(v.Center) != 3 || len(v.Up) != 3 {
			return invalid("view needs a uniform and 3D eye, center and up")
		}
	}
	return nil
}

// HasMesh reports whether the scene draws anything beyond clearing.
func (s *Scene) HasMesh() bool {
	return s.Mesh != nil
}

func (s *Scene) GfxMesh() gfx.Mesh {
	if s.Mesh == nil {
		return gfx.Mesh{}
	}
	return gfx.Mesh{Vertices: s.Mesh.Vertices, Dim: s.Mesh.Dim, Indices: s.Mesh.Indices}
}

func (s *Scene) ShaderSources() (gfx.ShaderSource, gfx.ShaderSource) {
	if s.Shaders == nil {
		return gfx.ShaderSource{}, gfx.ShaderSource{}
	}
	return gfx.VertexSource(s.Shaders.Vertex), gfx.FragmentSource(s.Shaders.Fragment)
}

func (s *Scene) WindowConfig() gfx.WindowConfig {
	vsync := true
	if s.Window.VSync != nil {
		vsync = *s.Window.VSync
	}
	title := s.Window.Title
	if title == "" {
		title = s.Name
	}
	return gfx.WindowConfig{
		Width:     s.Window.Width,
		Height:    s.Window.Height,
		Title:     title,
		Resizable: s.Window.Resizable,
		VSync:     vsync,
		MaxFPS:    s.Window.MaxFPS,
	}
}

func (s *Scene) RendererOptions() gfx.RendererOptions {
	return gfx.RendererOptions{ClearColor: s.clearColor(), DepthTest: s.DepthTest}
}

func (s *Scene) clearColor() color.Color {
	if len(s.ClearColor) < 3 {
		return nil
	}
	a := float32(1)
	if len(s.ClearColor) == 4 {
		a = s.ClearColor[3]
	}
	return color.NRGBA{
		R: unit(s.ClearColor[0]),
		G: unit(s.ClearColor[1]),
		B: unit(s.ClearColor[2]),
		A: unit(a),
	}
}

func unit(v float32) uint8 {
	return uint8(mgl32.Clamp(v, 0, 1)*255 + 0.5)
}

// Static returns the uniforms that only change with the framebuffer size.
func (s *Scene) Static(width, height int) map[string]gfx.UniformValue {
	out := make(map[string]gfx.UniformValue, len(s.Uniforms)+2)
	for name, v := range s.Uniforms {
		out[name] = gfx.Float(v)
	}
	if p := s.Projection; p != nil && width > 0 && height > 0 {
		aspect := float32(width) / float32(height)
		out[p.Uniform] = gfx.Mat4(mgl32.Perspective(mgl32.DegToRad(p.Fov), aspect, p.Near, p.Far))
	}
	if v := s.View; v != nil {
		out[v.Uniform] = gfx.Mat4(mgl32.LookAtV(mgl32.Vec3(v.Eye), mgl32.Vec3(v.Center), mgl32.Vec3(v.Up)))
	}
	return out
}

// Animate returns the uniforms for the given number of seconds since start.
func (s *Scene) Animate(elapsed float64) map[string]gfx.UniformValue {
	a := s.Animation
	if a == nil {
		return nil
	}
	angle := a.Speed * float32(elapsed)
	axis := mgl32.Vec3(a.Axis).Normalize()
	return map[string]gfx.UniformValue{
		a.Uniform: gfx.Mat4(mgl32.HomogRotate3D(angle, axis)),
	}
}
