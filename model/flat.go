package model

import (
	"fmt"

	"github.com/chewxy/math32"
	glm "github.com/go-gl/mathgl/mgl32"
)

// Rectangle is an axis aligned rectangle on the XY plane facing +Z
type Rectangle struct {
	shape

	X1, Y1, X2, Y2 float32
	DoubleSided    bool
}

// NewRectangle generates a rectangle spanning (x1, y1) to (x2, y2).
// A double sided rectangle duplicates its vertices with flipped winding
// and inverted normals.
func NewRectangle(id string, x1, y1, x2, y2 float32, doubleSided bool) (*Rectangle, error) {
	if x2 <= x1 || y2 <= y1 {
		return nil, fmt.Errorf("%w: rectangle %s needs x1 < x2 and y1 < y2", ErrInvalidShape, id)
	}
	r := &Rectangle{
		shape:       shape{id: id},
		X1:          x1,
		Y1:          y1,
		X2:          x2,
		Y2:          y2,
		DoubleSided: doubleSided,
	}
	r.mesh = r.build()
	r.UpdateTexCoords(1, 1)
	return r, nil
}

func (r *Rectangle) build() *Mesh {
	mesh := &Mesh{
		Vertices: []float32{
			r.X1, r.Y1, 0,
			r.X2, r.Y1, 0,
			r.X1, r.Y2, 0,
			r.X2, r.Y2, 0,
		},
		Normals: []float32{
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
		},
		Indices: []uint32{
			0, 1, 2,
			1, 3, 2,
		},
	}
	if r.DoubleSided {
		mesh.Vertices = append(mesh.Vertices, mesh.Vertices...)
		mesh.Normals = append(mesh.Normals,
			0, 0, -1,
			0, 0, -1,
			0, 0, -1,
			0, 0, -1,
		)
		mesh.Indices = append(mesh.Indices,
			4, 6, 5,
			5, 6, 7,
		)
	}
	return mesh
}

// UpdateTexCoords maps one texture repeat to lengthS x lengthT units of the rectangle
func (r *Rectangle) UpdateTexCoords(lengthS, lengthT float32) {
	lengthS, lengthT = safeLength(lengthS), safeLength(lengthT)
	s := (r.X2 - r.X1) / lengthS
	t := (r.Y2 - r.Y1) / lengthT

	coords := []float32{
		0, t,
		s, t,
		0, 0,
		s, 0,
	}
	if r.DoubleSided {
		coords = append(coords, coords...)
	}
	r.setTexCoords(lengthS, lengthT, coords)
}

// Clone implements interface
func (r *Rectangle) Clone(id string) Primitive {
	c := *r
	c.shape = r.cloneShape(id)
	return &c
}

// Triangle is an arbitrary triangle in space
type Triangle struct {
	shape

	P1, P2, P3  glm.Vec3
	DoubleSided bool
}

// NewTriangle generates a triangle from three points given in
// counter-clockwise order. Degenerate triangles are rejected.
func NewTriangle(id string, p1, p2, p3 glm.Vec3, doubleSided bool) (*Triangle, error) {
	if p2.Sub(p1).Cross(p3.Sub(p1)).Len() < 1e-6 {
		return nil, fmt.Errorf("%w: triangle %s has collinear points", ErrInvalidShape, id)
	}
	tr := &Triangle{
		shape:       shape{id: id},
		P1:          p1,
		P2:          p2,
		P3:          p3,
		DoubleSided: doubleSided,
	}
	tr.mesh = tr.build()
	tr.UpdateTexCoords(1, 1)
	return tr, nil
}

func (tr *Triangle) build() *Mesh {
	normal := tr.P2.Sub(tr.P1).Cross(tr.P3.Sub(tr.P1)).Normalize()

	mesh := &Mesh{Indices: []uint32{0, 1, 2}}
	for _, p := range []glm.Vec3{tr.P1, tr.P2, tr.P3} {
		mesh.Vertices = pushVec3(mesh.Vertices, p)
		mesh.Normals = pushVec3(mesh.Normals, normal)
	}
	if tr.DoubleSided {
		back := normal.Mul(-1)
		for _, p := range []glm.Vec3{tr.P1, tr.P2, tr.P3} {
			mesh.Vertices = pushVec3(mesh.Vertices, p)
			mesh.Normals = pushVec3(mesh.Normals, back)
		}
		mesh.Indices = append(mesh.Indices, 3, 5, 4)
	}
	return mesh
}

// UpdateTexCoords lays the triangle flat on the texture using the law of
// cosines: P1 at the origin, P2 along s, P3 placed by the angle at P1.
func (tr *Triangle) UpdateTexCoords(lengthS, lengthT float32) {
	lengthS, lengthT = safeLength(lengthS), safeLength(lengthT)

	a := tr.P2.Sub(tr.P1).Len()
	b := tr.P3.Sub(tr.P2).Len()
	c := tr.P1.Sub(tr.P3).Len()

	cosAlpha := (a*a - b*b + c*c) / (2 * a * c)
	sinAlpha := math32.Sqrt(math32.Max(0, 1-cosAlpha*cosAlpha))

	coords := []float32{
		0, 0,
		a / lengthS, 0,
		c * cosAlpha / lengthS, c * sinAlpha / lengthT,
	}
	if tr.DoubleSided {
		coords = append(coords, coords...)
	}
	tr.setTexCoords(lengthS, lengthT, coords)
}

// Clone implements interface
func (tr *Triangle) Clone(id string) Primitive {
	c := *tr
	c.shape = tr.cloneShape(id)
	return &c
}
