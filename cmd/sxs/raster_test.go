package main

import (
	"testing"

	"github.com/devblok/sxs/core/renderer"
	"github.com/devblok/sxs/model"
	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capture struct {
	background glm.Vec4
	tris       []triangle
}

func (c *capture) Present(background glm.Vec4, tris []triangle) error {
	c.background = background
	c.tris = append([]triangle(nil), tris...)
	return nil
}

// square covers the lower left quarter of clip space at depth z
func square(z float32) *model.Mesh {
	return &model.Mesh{
		Vertices:  []float32{-1, -1, z, 0, -1, z, 0, 0, z, -1, 0, z},
		Normals:   []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1},
		TexCoords: []float32{0, 0, 1, 0, 1, 1, 0, 1},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
}

func newTestRasterizer() (*rasterizer, *capture) {
	c := &capture{}
	r := newRasterizer(100, 100, c)
	r.BeginFrame(glm.Vec4{0.1, 0.2, 0.3, 1})
	r.SetCamera(renderer.Camera{ID: "test", View: glm.Ident4(), Projection: glm.Ident4()})
	return r, c
}

func TestRasterizerProjects(t *testing.T) {
	r, c := newTestRasterizer()
	r.DrawMesh(renderer.DrawCall{
		Path:  []string{"root", "tile"},
		Mesh:  square(0),
		Model: glm.Ident4(),
	})
	require.NoError(t, r.EndFrame())

	require.Len(t, c.tris, 2)
	assert.Equal(t, glm.Vec4{0.1, 0.2, 0.3, 1}, c.background)
	first := c.tris[0].verts
	assert.InDelta(t, 0, first[0].X, 1e-4)
	assert.InDelta(t, 100, first[0].Y, 1e-4)
	assert.InDelta(t, 50, first[2].X, 1e-4)
	assert.InDelta(t, 50, first[2].Y, 1e-4)
	assert.Equal(t, float32(1), first[2].U)
}

func TestRasterizerPick(t *testing.T) {
	r, _ := newTestRasterizer()
	path := []string{"root", "far"}
	r.DrawMesh(renderer.DrawCall{Path: path, Mesh: square(0.5), Model: glm.Ident4()})
	r.DrawMesh(renderer.DrawCall{Path: []string{"root", "near"}, Mesh: square(-0.5), Model: glm.Ident4()})
	path[1] = "mutated"
	require.NoError(t, r.EndFrame())

	assert.Equal(t, []string{"root", "near"}, r.Pick(25, 75))
	assert.Nil(t, r.Pick(75, 25))
}

func TestRasterizerDropsBehindCamera(t *testing.T) {
	r, c := newTestRasterizer()
	behind := glm.Ident4()
	behind[15] = -1
	r.SetCamera(renderer.Camera{View: glm.Ident4(), Projection: behind})
	r.DrawMesh(renderer.DrawCall{Mesh: square(0), Model: glm.Ident4()})
	require.NoError(t, r.EndFrame())
	assert.Empty(t, c.tris)
}

func TestRasterizerLighting(t *testing.T) {
	r, c := newTestRasterizer()
	r.SetLights(glm.Vec4{}, []renderer.Light{{
		ID:       "sun",
		Location: glm.Vec4{0, 0, 1, 0},
		Diffuse:  glm.Vec4{1, 1, 1, 1},
	}})
	r.DrawMesh(renderer.DrawCall{
		Mesh:     square(0),
		Model:    glm.Ident4(),
		Material: renderer.Material{Diffuse: glm.Vec4{0.5, 0.5, 0.5, 1}},
	})
	require.NoError(t, r.EndFrame())

	require.NotEmpty(t, c.tris)
	assert.Equal(t, [4]uint8{127, 127, 127, 255}, c.tris[0].verts[0].Color)
}

func TestRasterizerSpotCone(t *testing.T) {
	r, c := newTestRasterizer()
	r.SetLights(glm.Vec4{}, []renderer.Light{{
		ID:        "lamp",
		Spot:      true,
		Location:  glm.Vec4{0, 0, 1, 1},
		Diffuse:   glm.Vec4{1, 1, 1, 1},
		Angle:     10,
		Exponent:  1,
		Direction: glm.Vec3{1, 0, 0},
	}})
	r.DrawMesh(renderer.DrawCall{
		Mesh:     square(0),
		Model:    glm.Ident4(),
		Material: renderer.Material{Emission: glm.Vec4{0, 0, 0, 1}, Diffuse: glm.Vec4{1, 1, 1, 1}},
	})
	require.NoError(t, r.EndFrame())

	require.NotEmpty(t, c.tris)
	assert.Equal(t, [4]uint8{0, 0, 0, 255}, c.tris[0].verts[0].Color)
}

func TestRasterizerHighlight(t *testing.T) {
	r, c := newTestRasterizer()
	r.SetUniform(renderer.UniformTimeFactor, 1)
	r.DrawMesh(renderer.DrawCall{
		Mesh:      square(0),
		Model:     glm.Ident4(),
		Material:  renderer.Material{Emission: glm.Vec4{0, 0, 1, 1}},
		Highlight: &renderer.Highlight{Color: glm.Vec3{1, 0, 0}, Scale: 1},
	})
	require.NoError(t, r.EndFrame())

	require.NotEmpty(t, c.tris)
	assert.Equal(t, [4]uint8{255, 0, 0, 255}, c.tris[0].verts[0].Color)
}
