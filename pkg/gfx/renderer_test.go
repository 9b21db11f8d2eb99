package gfx_test

import (
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjkrol/glscene/pkg/gfx"
	"github.com/kjkrol/glscene/pkg/gfx/gfxtest"
)

func buildProgram(t *testing.T, dev gfx.Device) *gfx.ShaderProgram {
	t.Helper()
	program, err := gfx.BuildProgram(dev, gfx.VertexSource(passVertex), gfx.FragmentSource(blueFragment))
	require.NoError(t, err)
	return program
}

func readyRenderer(t *testing.T, dev *gfxtest.Device, mesh gfx.Mesh, opts gfx.RendererOptions) *gfx.FrameRenderer {
	t.Helper()
	r := gfx.NewFrameRenderer(dev, opts)
	require.NoError(t, r.Initialize(mesh, buildProgram(t, dev)))
	require.Equal(t, gfx.Ready, r.State())
	dev.Reset()
	return r
}

func TestRenderQuadIndexed(t *testing.T) {
	dev := gfxtest.NewDevice()
	r := gfx.NewFrameRenderer(dev, gfx.RendererOptions{})
	program := buildProgram(t, dev)
	require.NoError(t, r.Initialize(quadMesh(), program))

	require.NoError(t, r.RenderFrame())

	require.Len(t, dev.DrawCalls, 1)
	draw := dev.DrawCalls[0]
	assert.True(t, draw.Indexed)
	assert.EqualValues(t, 6, draw.Count)
	assert.Equal(t, program.Handle(), draw.Program)

	vertices, indices, layout, ok := dev.VertexArray(draw.VAO)
	require.True(t, ok)
	assert.Equal(t, quadMesh().Vertices, dev.VertexData(vertices))
	assert.Equal(t, []uint32{0, 1, 2, 2, 1, 3}, dev.IndexData(indices))
	assert.Equal(t, gfx.VertexLayout{Components: 2, Stride: 8}, layout)
	assert.Empty(t, dev.Misuse)
}

func TestRenderTriangleNonIndexed(t *testing.T) {
	dev := gfxtest.NewDevice()
	triangle := gfx.Mesh{Vertices: []float32{-0.5, -0.5, 0.5, -0.5, 0, 0.5}, Dim: 2}
	r := readyRenderer(t, dev, triangle, gfx.RendererOptions{})

	require.NoError(t, r.RenderFrame())

	require.Len(t, dev.DrawCalls, 1)
	draw := dev.DrawCalls[0]
	assert.False(t, draw.Indexed)
	assert.EqualValues(t, 0, draw.First)
	assert.EqualValues(t, 3, draw.Count)
	assert.Equal(t, 1, dev.LiveBuffers(), "no index buffer for a non-indexed mesh")
	assert.Empty(t, dev.Misuse)
}

func TestRenderFrameClears(t *testing.T) {
	tests := []struct {
		name  string
		opts  gfx.RendererOptions
		mask  gfx.ClearMask
		color [4]float32
	}{
		{name: "color only", opts: gfx.RendererOptions{}, mask: gfx.ClearColorBit, color: [4]float32{0, 0, 0, 1}},
		{
			name:  "depth",
			opts:  gfx.RendererOptions{DepthTest: true, ClearColor: color.RGBA{R: 255, A: 255}},
			mask:  gfx.ClearColorBit | gfx.ClearDepthBit,
			color: [4]float32{1, 0, 0, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := gfxtest.NewDevice()
			r := gfx.NewFrameRenderer(dev, tt.opts)
			require.NoError(t, r.Initialize(quadMesh(), buildProgram(t, dev)))
			assert.Equal(t, tt.opts.DepthTest, dev.DepthTest)

			require.NoError(t, r.RenderFrame())
			assert.Equal(t, []gfx.ClearMask{tt.mask}, dev.Clears)
			assert.Equal(t, tt.color, dev.ClearColor)
		})
	}
}

func TestSetUniformLastValueWins(t *testing.T) {
	dev := gfxtest.NewDevice()
	r := readyRenderer(t, dev, quadMesh(), gfx.RendererOptions{})

	first := mgl32.Translate3D(1, 0, 0)
	last := mgl32.HomogRotate3DZ(0.5)
	require.NoError(t, r.SetUniform("model", gfx.Mat4(first)))
	require.NoError(t, r.SetUniform("model", gfx.Mat4(last)))
	assert.Empty(t, dev.Calls, "SetUniform has no immediate device effect")

	require.NoError(t, r.RenderFrame())

	require.Len(t, dev.Uploads, 1)
	m, ok := dev.Uploads[0].Value.Matrix()
	require.True(t, ok)
	assert.Equal(t, last, m)
	assert.Equal(t, "model", dev.Uploads[0].Name)
	assert.Equal(t, r.Program().Handle(), dev.Uploads[0].Program)
}

func TestUniformsPushedOnlyWhenChanged(t *testing.T) {
	dev := gfxtest.NewDevice()
	r := readyRenderer(t, dev, quadMesh(), gfx.RendererOptions{})

	require.NoError(t, r.SetUniform("alpha", gfx.Float(0.5)))
	require.NoError(t, r.SetUniform("model", gfx.Mat4(mgl32.Ident4())))
	require.NoError(t, r.RenderFrame())
	require.Len(t, dev.Uploads, 2)
	assert.Equal(t, "alpha", dev.Uploads[0].Name)
	assert.Equal(t, "model", dev.Uploads[1].Name)

	dev.Reset()
	require.NoError(t, r.RenderFrame())
	assert.Empty(t, dev.Uploads)

	require.NoError(t, r.SetUniform("alpha", gfx.Float(0.75)))
	require.NoError(t, r.RenderFrame())
	require.Len(t, dev.Uploads, 1)
	f, ok := dev.Uploads[0].Value.Float32()
	require.True(t, ok)
	assert.Equal(t, float32(0.75), f)
}

func TestUnknownUniformSkipped(t *testing.T) {
	dev := gfxtest.NewDevice()
	r := readyRenderer(t, dev, quadMesh(), gfx.RendererOptions{})

	require.NoError(t, r.SetUniform("nope", gfx.Float(1)))
	require.NoError(t, r.RenderFrame())
	require.NoError(t, r.SetUniform("nope", gfx.Float(2)))
	require.NoError(t, r.RenderFrame())

	assert.Empty(t, dev.Uploads)
	assert.Empty(t, dev.Misuse)
	lookups := 0
	for _, c := range dev.Calls {
		if strings.HasPrefix(c, "UniformLocation(") && strings.Contains(c, `"nope"`) {
			lookups++
		}
	}
	assert.Equal(t, 1, lookups, "locations are looked up once")
	assert.Len(t, dev.DrawCalls, 2)
}

func TestInitializeRejectsInvalidMesh(t *testing.T) {
	dev := gfxtest.NewDevice()
	program := buildProgram(t, dev)
	dev.Reset()

	r := gfx.NewFrameRenderer(dev, gfx.RendererOptions{})
	bad := quadMesh()
	bad.Indices = []uint32{0, 1, 4}
	err := r.Initialize(bad, program)

	var meshErr *gfx.MeshValidationError
	require.ErrorAs(t, err, &meshErr)
	assert.True(t, errors.Is(err, gfx.ErrMeshValidation))
	assert.Equal(t, gfx.Uninitialized, r.State())
	assert.Empty(t, dev.Calls)

	err = r.Initialize(gfx.Mesh{Dim: 2}, program)
	assert.True(t, errors.Is(err, gfx.ErrMeshValidation))
	assert.Equal(t, gfx.Uninitialized, r.State())

	require.NoError(t, r.Initialize(quadMesh(), program))
	assert.Equal(t, gfx.Ready, r.State())
}

func TestInitializeRejectsInvalidProgram(t *testing.T) {
	dev := gfxtest.NewDevice()
	r := gfx.NewFrameRenderer(dev, gfx.RendererOptions{})

	assert.ErrorIs(t, r.Initialize(quadMesh(), nil), gfx.ErrInvalidProgram)
	released := buildProgram(t, dev)
	released.Release()
	dev.Reset()
	assert.ErrorIs(t, r.Initialize(quadMesh(), released), gfx.ErrInvalidProgram)
	assert.Equal(t, gfx.Uninitialized, r.State())
	assert.Empty(t, dev.Calls)
}

func TestOperationsBeforeInitialize(t *testing.T) {
	dev := gfxtest.NewDevice()
	r := gfx.NewFrameRenderer(dev, gfx.RendererOptions{})

	ops := map[string]func() error{
		"set uniform":  func() error { return r.SetUniform("model", gfx.Float(1)) },
		"render frame": r.RenderFrame,
		"destroy":      r.Destroy,
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			err := op()
			var stateErr *gfx.InvalidStateError
			require.ErrorAs(t, err, &stateErr)
			assert.Equal(t, gfx.Uninitialized, stateErr.State)
			assert.ErrorIs(t, err, gfx.ErrInvalidState)
		})
	}
	assert.Empty(t, dev.Calls)
	assert.Equal(t, gfx.Uninitialized, r.State())
}

func TestOperationsAfterDestroy(t *testing.T) {
	dev := gfxtest.NewDevice()
	r := gfx.NewFrameRenderer(dev, gfx.RendererOptions{})
	program := buildProgram(t, dev)
	require.NoError(t, r.Initialize(quadMesh(), program))
	require.NoError(t, r.Destroy())
	assert.Equal(t, gfx.Destroyed, r.State())
	assert.False(t, dev.Live(), "destroy releases every handle")
	dev.Reset()

	ops := map[string]func() error{
		"initialize":   func() error { return r.Initialize(quadMesh(), program) },
		"set uniform":  func() error { return r.SetUniform("model", gfx.Float(1)) },
		"render frame": r.RenderFrame,
		"destroy":      r.Destroy,
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			err := op()
			assert.ErrorIs(t, err, gfx.ErrInvalidState)
			assert.Contains(t, err.Error(), "destroyed")
		})
	}
	assert.Empty(t, dev.Calls)
	assert.Empty(t, dev.Misuse)
}

func TestInitializeTwice(t *testing.T) {
	dev := gfxtest.NewDevice()
	r := readyRenderer(t, dev, quadMesh(), gfx.RendererOptions{})
	err := r.Initialize(quadMesh(), buildProgram(t, dev))
	assert.ErrorIs(t, err, gfx.ErrInvalidState)
	assert.Equal(t, gfx.Ready, r.State())
}

func TestIndependentRenderers(t *testing.T) {
	dev := gfxtest.NewDevice()
	a := readyRenderer(t, dev, quadMesh(), gfx.RendererOptions{})
	b := readyRenderer(t, dev, gfx.Mesh{Vertices: []float32{0, 0, 1, 0, 0, 1}, Dim: 2}, gfx.RendererOptions{})

	require.NoError(t, a.RenderFrame())
	require.NoError(t, b.RenderFrame())
	require.Len(t, dev.DrawCalls, 2)
	assert.NotEqual(t, dev.DrawCalls[0].Program, dev.DrawCalls[1].Program)
	assert.NotEqual(t, dev.DrawCalls[0].VAO, dev.DrawCalls[1].VAO)

	require.NoError(t, a.Destroy())
	dev.Reset()
	require.NoError(t, b.RenderFrame())
	assert.Len(t, dev.DrawCalls, 1)
	assert.Empty(t, dev.Misuse)
}

func TestProgramOwnedByOneRenderer(t *testing.T) {
	dev := gfxtest.NewDevice()
	program := buildProgram(t, dev)
	a := gfx.NewFrameRenderer(dev, gfx.RendererOptions{})
	require.NoError(t, a.Initialize(quadMesh(), program))
	assert.True(t, program.Owned())
	dev.Reset()

	b := gfx.NewFrameRenderer(dev, gfx.RendererOptions{})
	err := b.Initialize(quadMesh(), program)
	assert.ErrorIs(t, err, gfx.ErrInvalidProgram)
	assert.Equal(t, gfx.Uninitialized, b.State())
	assert.Empty(t, dev.Calls)

	require.NoError(t, a.Destroy())
	assert.ErrorIs(t, b.Initialize(quadMesh(), program), gfx.ErrInvalidProgram)
	assert.Empty(t, dev.Misuse)
}

func TestFailedInitializeLeavesProgramFree(t *testing.T) {
	dev := gfxtest.NewDevice()
	program := buildProgram(t, dev)

	a := gfx.NewFrameRenderer(dev, gfx.RendererOptions{})
	require.Error(t, a.Initialize(gfx.Mesh{Dim: 2}, program))
	assert.False(t, program.Owned())

	b := gfx.NewFrameRenderer(dev, gfx.RendererOptions{})
	require.NoError(t, b.Initialize(quadMesh(), program))
}

func TestRenderFrameAfterProgramReleased(t *testing.T) {
	dev := gfxtest.NewDevice()
	r := readyRenderer(t, dev, quadMesh(), gfx.RendererOptions{})

	r.Program().Release()
	dev.Reset()

	err := r.RenderFrame()
	assert.ErrorIs(t, err, gfx.ErrInvalidProgram)
	assert.Empty(t, dev.Calls)
	assert.Empty(t, dev.DrawCalls)

	require.NoError(t, r.Destroy())
	assert.False(t, dev.Live())
	assert.Empty(t, dev.Misuse)
}

func TestSetUniformRejectsEmptyValue(t *testing.T) {
	dev := gfxtest.NewDevice()
	r := readyRenderer(t, dev, quadMesh(), gfx.RendererOptions{})

	err := r.SetUniform("alpha", gfx.UniformValue{})
	assert.ErrorIs(t, err, gfx.ErrInvalidUniform)

	require.NoError(t, r.RenderFrame())
	assert.Empty(t, dev.Uploads)
	for _, c := range dev.Calls {
		assert.NotContains(t, c, "UniformLocation")
	}
}
