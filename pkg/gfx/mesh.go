package gfx

import "fmt"

const floatSize = 4

// Mesh is flat vertex position data plus optional triangle indices.
// Dim is the number of components per vertex (2 or 3).
type Mesh struct {
	Vertices []float32
	Dim      int
	Indices  []uint32
}

// VertexLayout describes how a vertex buffer is read by attribute 0.
type VertexLayout struct {
	Components int32
	Stride     int32
}

func (m Mesh) VertexCount() int {
	if m.Dim <= 0 {
		return 0
	}
	return len(m.Vertices) / m.Dim
}

func (m Mesh) Indexed() bool {
	return len(m.Indices) > 0
}

func (m Mesh) Layout() VertexLayout {
	return VertexLayout{Components: int32(m.Dim), Stride: int32(m.Dim * floatSize)}
}

func (m Mesh) Validate() error {
	if len(m.Vertices) == 0 {
		return &MeshValidationError{Reason: "no vertex data"}
	}
	if m.Dim != 2 && m.Dim != 3 {
		return &MeshValidationError{Reason: fmt.Sprintf("vertex dimension %d, want 2 or 3", m.Dim)}
	}
	if len(m.Vertices)%m.Dim != 0 {
		return &MeshValidationError{Reason: fmt.Sprintf("%d floats is not a multiple of dimension %d", len(m.Vertices), m.Dim)}
	}
	count := m.VertexCount()
	for i, idx := range m.Indices {
		if int(idx) >= count {
			return &MeshValidationError{Reason: fmt.Sprintf("index %d at position %d out of range for %d vertices", idx, i, count)}
		}
	}
	return nil
}
