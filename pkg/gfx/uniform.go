package gfx

import (
	"maps"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

type UniformKind uint8

const (
	UniformFloat UniformKind = iota + 1
	UniformMat4
)

// UniformValue holds either a scalar or a 4x4 matrix.
type UniformValue struct {
	kind UniformKind
	f    float32
	m    mgl32.Mat4
}

func Float(v float32) UniformValue       { return UniformValue{kind: UniformFloat, f: v} }
func Mat4(m mgl32.Mat4) UniformValue     { return UniformValue{kind: UniformMat4, m: m} }
func (v UniformValue) Kind() UniformKind { return v.kind }

func (v UniformValue) Float32() (float32, bool) {
	return v.f, v.kind == UniformFloat
}

func (v UniformValue) Matrix() (mgl32.Mat4, bool) {
	return v.m, v.kind == UniformMat4
}

// UniformBinding keeps the latest value per uniform name and remembers which
// names changed since the last flush.
type UniformBinding struct {
	values map[string]UniformValue
	dirty  map[string]struct{}
}

func NewUniformBinding() *UniformBinding {
	return &UniformBinding{
		values: make(map[string]UniformValue),
		dirty:  make(map[string]struct{}),
	}
}

func (b *UniformBinding) Set(name string, v UniformValue) {
	b.values[name] = v
	b.dirty[name] = struct{}{}
}

func (b *UniformBinding) Get(name string) (UniformValue, bool) {
	v, ok := b.values[name]
	return v, ok
}

func (b *UniformBinding) Len() int {
	return len(b.values)
}

// Pending returns the names set since the last flush, sorted.
func (b *UniformBinding) Pending() []string {
	return slices.Sorted(maps.Keys(b.dirty))
}

func (b *UniformBinding) flush(apply func(name string, v UniformValue)) {
	for _, name := range b.Pending() {
		apply(name, b.values[name])
	}
	clear(b.dirty)
}
