package model

import (
	"errors"

	glm "github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidShape is returned by the generators when the shape
// parameters cannot produce a valid mesh
var ErrInvalidShape = errors.New("invalid shape parameters")

// Primitive represents an engine supported shape. The mesh is generated
// once on construction, only the texture coordinates are ever rebuilt.
type Primitive interface {

	// ID returns the identifier the primitive was declared with
	ID() string

	// GenerateBuffers returns the buffers for Renderer use
	GenerateBuffers() *Mesh

	// UpdateTexCoords recomputes texture coordinates for the given
	// texture-repeat lengths, leaving geometry and indices untouched
	UpdateTexCoords(lengthS, lengthT float32)

	// TexLengths returns the lengths the texture coordinates were last built for
	TexLengths() (float32, float32)

	// Clone creates an independent copy with its own buffers under a new ID
	Clone(id string) Primitive
}

// Vertex is an interleaved mesh vertex
type Vertex struct {
	Pos    glm.Vec3
	Normal glm.Vec3
	UV     glm.Vec2
}

// Uniform defines a model-view-projection object
type Uniform struct {
	Model      glm.Mat4
	View       glm.Mat4
	Projection glm.Mat4
}

// Mesh contains the buffers produced by a generator. Vertices and
// Normals hold 3 floats per vertex, TexCoords 2, Indices describe
// counter-clockwise triangles.
type Mesh struct {
	Vertices  []float32
	Normals   []float32
	TexCoords []float32
	Indices   []uint32
}

// VertexCount returns the number of vertices in the mesh
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// Interleaved packs the separate buffers into Vertex structs
func (m *Mesh) Interleaved() []Vertex {
	verts := make([]Vertex, m.VertexCount())
	for idx := range verts {
		verts[idx].Pos = glm.Vec3{m.Vertices[3*idx], m.Vertices[3*idx+1], m.Vertices[3*idx+2]}
		verts[idx].Normal = glm.Vec3{m.Normals[3*idx], m.Normals[3*idx+1], m.Normals[3*idx+2]}
		if 2*idx+1 < len(m.TexCoords) {
			verts[idx].UV = glm.Vec2{m.TexCoords[2*idx], m.TexCoords[2*idx+1]}
		}
	}
	return verts
}

func (m *Mesh) copy() *Mesh {
	return &Mesh{
		Vertices:  append([]float32(nil), m.Vertices...),
		Normals:   append([]float32(nil), m.Normals...),
		TexCoords: append([]float32(nil), m.TexCoords...),
		Indices:   append([]uint32(nil), m.Indices...),
	}
}

// shape holds what every generator shares: identity, buffers and
// the lengths the current texture coordinates were computed for.
type shape struct {
	id      string
	mesh    *Mesh
	lengthS float32
	lengthT float32
}

func (s *shape) ID() string {
	return s.id
}

func (s *shape) GenerateBuffers() *Mesh {
	return s.mesh
}

func (s *shape) TexLengths() (float32, float32) {
	return s.lengthS, s.lengthT
}

func (s *shape) setTexCoords(lengthS, lengthT float32, coords []float32) {
	s.lengthS = lengthS
	s.lengthT = lengthT
	s.mesh.TexCoords = coords
}

func (s *shape) cloneShape(id string) shape {
	return shape{
		id:      id,
		mesh:    s.mesh.copy(),
		lengthS: s.lengthS,
		lengthT: s.lengthT,
	}
}

// safeLength guards texture lengths against zero or negative values,
// which would otherwise produce infinite coordinates
func safeLength(l float32) float32 {
	if l <= 0 {
		return 1
	}
	return l
}

// scaleParametric divides unit parametric coordinates by the lengths
func scaleParametric(unit []float32, lengthS, lengthT float32) []float32 {
	coords := make([]float32, len(unit))
	for idx := 0; idx < len(unit); idx += 2 {
		coords[idx] = unit[idx] / lengthS
		coords[idx+1] = unit[idx+1] / lengthT
	}
	return coords
}

func pushVec3(dst []float32, v glm.Vec3) []float32 {
	return append(dst, v[0], v[1], v[2])
}
