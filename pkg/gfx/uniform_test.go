package gfx_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/kjkrol/glscene/pkg/gfx"
)

func TestUniformValueKinds(t *testing.T) {
	f := gfx.Float(2.5)
	assert.Equal(t, gfx.UniformFloat, f.Kind())
	v, ok := f.Float32()
	assert.True(t, ok)
	assert.Equal(t, float32(2.5), v)
	_, ok = f.Matrix()
	assert.False(t, ok)

	m := gfx.Mat4(mgl32.Ident4())
	assert.Equal(t, gfx.UniformMat4, m.Kind())
	mat, ok := m.Matrix()
	assert.True(t, ok)
	assert.Equal(t, mgl32.Ident4(), mat)
	_, ok = m.Float32()
	assert.False(t, ok)
}

func TestUniformBinding(t *testing.T) {
	b := gfx.NewUniformBinding()
	b.Set("view", gfx.Float(1))
	b.Set("model", gfx.Float(1))
	b.Set("model", gfx.Float(2))

	assert.Equal(t, 2, b.Len())
	assert.Equal(t, []string{"model", "view"}, b.Pending())
	v, ok := b.Get("model")
	assert.True(t, ok)
	assert.Equal(t, gfx.Float(2), v)
	_, ok = b.Get("projection")
	assert.False(t, ok)
}
