package main

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/devblok/sxs/core/renderer"
	glm "github.com/go-gl/mathgl/mgl32"
)

// vertex is a projected, lit vertex in window coordinates
type vertex struct {
	X, Y  float32
	Color [4]uint8
	U, V  float32
}

// triangle is one screen space triangle waiting to be presented
type triangle struct {
	verts   [3]vertex
	depth   float32
	texture *renderer.Texture
	path    []string
}

// presenter puts the sorted triangles of a frame on screen
type presenter interface {
	Present(background glm.Vec4, tris []triangle) error
}

// rasterizer projects and lights draw calls on the CPU and hands
// painter-sorted triangles to a presenter
type rasterizer struct {
	width, height float32
	present       presenter

	background glm.Vec4
	camera     renderer.Camera
	ambient    glm.Vec4
	lights     []renderer.Light
	uniforms   map[string]float32

	tris []triangle
	last []triangle
}

func newRasterizer(width, height int, p presenter) *rasterizer {
	return &rasterizer{
		width:    float32(width),
		height:   float32(height),
		present:  p,
		uniforms: map[string]float32{},
	}
}

// Resize changes the window size triangles are projected onto
func (r *rasterizer) Resize(width, height int) {
	r.width, r.height = float32(width), float32(height)
}

// BeginFrame implements interface
func (r *rasterizer) BeginFrame(background glm.Vec4) {
	r.background = background
	r.tris = r.tris[:0]
}

// SetCamera implements interface
func (r *rasterizer) SetCamera(cam renderer.Camera) {
	r.camera = cam
}

// SetLights implements interface
func (r *rasterizer) SetLights(ambient glm.Vec4, lights []renderer.Light) {
	r.ambient = ambient
	r.lights = lights
}

// SetUniform implements interface
func (r *rasterizer) SetUniform(name string, value float32) {
	r.uniforms[name] = value
}

// DrawMesh implements interface
func (r *rasterizer) DrawMesh(dc renderer.DrawCall) {
	mesh := dc.Mesh
	if mesh == nil {
		return
	}
	mvp := r.camera.Projection.Mul4(r.camera.View).Mul4(dc.Model)

	path := append([]string(nil), dc.Path...)
	count := mesh.VertexCount()
	projected := make([]vertex, count)
	depth := make([]float32, count)
	visible := make([]bool, count)
	for idx := 0; idx < count; idx++ {
		pos := glm.Vec4{mesh.Vertices[3*idx], mesh.Vertices[3*idx+1], mesh.Vertices[3*idx+2], 1}
		normal := glm.Vec4{mesh.Normals[3*idx], mesh.Normals[3*idx+1], mesh.Normals[3*idx+2], 0}

		clip := mvp.Mul4x1(pos)
		if clip.W() <= 1e-4 {
			continue
		}
		visible[idx] = true
		ndc := clip.Vec3().Mul(1 / clip.W())
		depth[idx] = ndc.Z()

		v := vertex{
			X: (ndc.X() + 1) / 2 * r.width,
			Y: (1 - ndc.Y()) / 2 * r.height,
		}
		if 2*idx+1 < len(mesh.TexCoords) {
			v.U, v.V = mesh.TexCoords[2*idx], mesh.TexCoords[2*idx+1]
		}

		world := dc.Model.Mul4x1(pos).Vec3()
		n := dc.Model.Mul4x1(normal).Vec3()
		if n.Len() > 0 {
			n = n.Normalize()
		}
		v.Color = toColor(r.shade(world, n, dc))
		projected[idx] = v
	}

	for idx := 0; idx+2 < len(mesh.Indices); idx += 3 {
		a, b, c := mesh.Indices[idx], mesh.Indices[idx+1], mesh.Indices[idx+2]
		if !visible[a] || !visible[b] || !visible[c] {
			continue
		}
		r.tris = append(r.tris, triangle{
			verts:   [3]vertex{projected[a], projected[b], projected[c]},
			depth:   (depth[a] + depth[b] + depth[c]) / 3,
			texture: dc.Texture,
			path:    path,
		})
	}
}

// shade evaluates ambient and diffuse lighting at a world position
func (r *rasterizer) shade(pos, n glm.Vec3, dc renderer.DrawCall) glm.Vec4 {
	m := dc.Material
	col := m.Emission.Add(mulVec4(r.ambient, m.Ambient))
	for _, li := range r.lights {
		col = col.Add(mulVec4(li.Ambient, m.Ambient))

		var l glm.Vec3
		dist := float32(0)
		if li.Location.W() == 0 {
			l = li.Location.Vec3().Normalize()
		} else {
			l = li.Location.Vec3().Sub(pos)
			dist = l.Len()
			if dist == 0 {
				continue
			}
			l = l.Mul(1 / dist)
		}

		diffuse := n.Dot(l)
		if diffuse <= 0 {
			continue
		}
		factor := diffuse
		if li.Spot {
			cos := l.Mul(-1).Dot(li.Direction)
			if cos < math32.Cos(glm.DegToRad(li.Angle)) {
				continue
			}
			factor *= math32.Pow(cos, li.Exponent)
		}
		if att := li.Attenuation; att.X()+att.Y()+att.Z() > 0 {
			factor /= att.X() + att.Y()*dist + att.Z()*dist*dist
		}
		col = col.Add(mulVec4(li.Diffuse, m.Diffuse).Mul(factor))
	}

	if h := dc.Highlight; h != nil {
		t := r.uniforms[renderer.UniformTimeFactor]
		target := h.Color.Vec4(col.W())
		col = col.Add(target.Sub(col).Mul(t))
	}
	return col
}

// EndFrame implements interface. Triangles are sorted far to near.
func (r *rasterizer) EndFrame() error {
	sort.SliceStable(r.tris, func(i, j int) bool {
		return r.tris[i].depth > r.tris[j].depth
	})
	r.last = append(r.last[:0], r.tris...)
	if r.present == nil {
		return nil
	}
	return r.present.Present(r.background, r.last)
}

// Pick returns the component path of the nearest triangle under the
// window position, nil when nothing is there
func (r *rasterizer) Pick(x, y float32) []string {
	for idx := len(r.last) - 1; idx >= 0; idx-- {
		if r.last[idx].contains(x, y) {
			return r.last[idx].path
		}
	}
	return nil
}

func (t triangle) contains(x, y float32) bool {
	a, b, c := t.verts[0], t.verts[1], t.verts[2]
	d1 := edge(x, y, a, b)
	d2 := edge(x, y, b, c)
	d3 := edge(x, y, c, a)
	neg := d1 < 0 || d2 < 0 || d3 < 0
	pos := d1 > 0 || d2 > 0 || d3 > 0
	return !(neg && pos)
}

func edge(x, y float32, a, b vertex) float32 {
	return (x-b.X)*(a.Y-b.Y) - (a.X-b.X)*(y-b.Y)
}

func mulVec4(a, b glm.Vec4) glm.Vec4 {
	return glm.Vec4{a[0] * b[0], a[1] * b[1], a[2] * b[2], a[3] * b[3]}
}

func toColor(c glm.Vec4) [4]uint8 {
	var out [4]uint8
	for idx := range out {
		v := c[idx]
		if idx == 3 && v == 0 {
			v = 1
		}
		out[idx] = uint8(glm.Clamp(v, 0, 1) * 255)
	}
	return out
}
