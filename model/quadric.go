package model

import (
	"fmt"

	"github.com/chewxy/math32"
	glm "github.com/go-gl/mathgl/mgl32"
)

// quadric keeps the unit parametric texture coordinates so that
// repeat lengths can be reapplied without regenerating geometry.
type quadric struct {
	shape

	unit []float32
}

// UpdateTexCoords divides the unit parametric coordinates by the lengths,
// so a length of 0.5 repeats the texture twice around the surface
func (q *quadric) UpdateTexCoords(lengthS, lengthT float32) {
	lengthS, lengthT = safeLength(lengthS), safeLength(lengthT)
	q.setTexCoords(lengthS, lengthT, scaleParametric(q.unit, lengthS, lengthT))
}

func (q *quadric) cloneQuadric(id string) quadric {
	return quadric{
		shape: q.cloneShape(id),
		unit:  append([]float32(nil), q.unit...),
	}
}

// gridIndices triangulates a (rows+1) x (cols+1) vertex grid where
// moving along a row follows the first surface tangent and moving to
// the next row the second one
func gridIndices(rows, cols int) []uint32 {
	indices := make([]uint32, 0, rows*cols*6)
	stride := uint32(cols + 1)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			a := uint32(row)*stride + uint32(col)
			b := a + 1
			c := a + stride
			d := c + 1
			indices = append(indices, a, b, c, b, d, c)
		}
	}
	return indices
}

// Cylinder is a frustum along +Z starting at the origin
type Cylinder struct {
	quadric

	BaseRadius float32
	TopRadius  float32
	Height     float32
	Slices     int
	Stacks     int
}

// NewCylinder generates a frustum with stacks rings along the height and
// slices radial divisions. The seam column is duplicated so texture
// coordinates do not wrap around.
func NewCylinder(id string, baseRadius, topRadius, height float32, slices, stacks int) (*Cylinder, error) {
	switch {
	case height <= 0:
		return nil, fmt.Errorf("%w: cylinder %s needs a positive height", ErrInvalidShape, id)
	case baseRadius < 0 || topRadius < 0 || (baseRadius == 0 && topRadius == 0):
		return nil, fmt.Errorf("%w: cylinder %s has invalid radii", ErrInvalidShape, id)
	case slices < 3 || stacks < 1:
		return nil, fmt.Errorf("%w: cylinder %s needs at least 3 slices and 1 stack", ErrInvalidShape, id)
	}

	cy := &Cylinder{
		quadric:    quadric{shape: shape{id: id}},
		BaseRadius: baseRadius,
		TopRadius:  topRadius,
		Height:     height,
		Slices:     slices,
		Stacks:     stacks,
	}
	cy.mesh = cy.build()
	cy.UpdateTexCoords(1, 1)
	return cy, nil
}

func (cy *Cylinder) build() *Mesh {
	mesh := &Mesh{}
	slant := math32.Atan((cy.BaseRadius - cy.TopRadius) / cy.Height)
	cosSlant, sinSlant := math32.Cos(slant), math32.Sin(slant)

	for stack := 0; stack <= cy.Stacks; stack++ {
		frac := float32(stack) / float32(cy.Stacks)
		radius := cy.BaseRadius + (cy.TopRadius-cy.BaseRadius)*frac
		z := cy.Height * frac

		for slice := 0; slice <= cy.Slices; slice++ {
			ang := 2 * math32.Pi * float32(slice%cy.Slices) / float32(cy.Slices)
			ca, sa := math32.Cos(ang), math32.Sin(ang)

			mesh.Vertices = append(mesh.Vertices, radius*ca, radius*sa, z)
			mesh.Normals = pushVec3(mesh.Normals, glm.Vec3{ca * cosSlant, sa * cosSlant, sinSlant}.Normalize())
			cy.unit = append(cy.unit, float32(slice)/float32(cy.Slices), 1-frac)
		}
	}
	mesh.Indices = gridIndices(cy.Stacks, cy.Slices)
	return mesh
}

// Clone implements interface
func (cy *Cylinder) Clone(id string) Primitive {
	c := *cy
	c.quadric = cy.cloneQuadric(id)
	return &c
}

// Sphere is centered on the origin with its poles on the Y axis
type Sphere struct {
	quadric

	Radius float32
	Slices int
	Stacks int
}

// NewSphere generates a sphere. Stacks count the bands from the equator
// to one pole, so the full sphere has twice as many latitude divisions.
func NewSphere(id string, radius float32, slices, stacks int) (*Sphere, error) {
	if radius <= 0 || slices < 3 || stacks < 1 {
		return nil, fmt.Errorf("%w: sphere %s needs a positive radius, 3 slices and 1 stack", ErrInvalidShape, id)
	}
	sp := &Sphere{
		quadric: quadric{shape: shape{id: id}},
		Radius:  radius,
		Slices:  slices,
		Stacks:  stacks,
	}
	sp.mesh = sp.build()
	sp.UpdateTexCoords(1, 1)
	return sp, nil
}

func (sp *Sphere) build() *Mesh {
	mesh := &Mesh{}
	latDivs := sp.Stacks * 2
	longDivs := sp.Slices
	latVertices := uint32(longDivs + 1)

	// one ring at a time from the north pole southwards
	for lat := 0; lat <= latDivs; lat++ {
		phi := math32.Pi * float32(lat) / float32(latDivs)
		sinPhi, cosPhi := math32.Sin(phi), math32.Cos(phi)

		for long := 0; long <= longDivs; long++ {
			theta := 2 * math32.Pi * float32(long%longDivs) / float32(longDivs)
			unit := glm.Vec3{math32.Cos(theta) * sinPhi, cosPhi, -math32.Sin(theta) * sinPhi}

			mesh.Vertices = pushVec3(mesh.Vertices, unit.Mul(sp.Radius))
			mesh.Normals = pushVec3(mesh.Normals, unit.Normalize())
			sp.unit = append(sp.unit, float32(long)/float32(longDivs), float32(lat)/float32(latDivs))

			if lat < latDivs && long < longDivs {
				current := uint32(lat)*latVertices + uint32(long)
				next := current + latVertices
				mesh.Indices = append(mesh.Indices,
					current+1, current, next,
					current+1, next, next+1,
				)
			}
		}
	}
	return mesh
}

// Clone implements interface
func (sp *Sphere) Clone(id string) Primitive {
	c := *sp
	c.quadric = sp.cloneQuadric(id)
	return &c
}

// Torus lies on the XY plane around the Z axis
type Torus struct {
	quadric

	Radius      float32
	InnerRadius float32
	Slices      int
	Loops       int
}

// NewTorus generates a torus with loops divisions around the major
// circle and slices divisions around the tube.
func NewTorus(id string, radius, innerRadius float32, slices, loops int) (*Torus, error) {
	switch {
	case innerRadius <= 0 || innerRadius >= radius:
		return nil, fmt.Errorf("%w: torus %s needs 0 < inner radius < radius", ErrInvalidShape, id)
	case slices < 3 || loops < 3:
		return nil, fmt.Errorf("%w: torus %s needs at least 3 slices and 3 loops", ErrInvalidShape, id)
	}
	to := &Torus{
		quadric:     quadric{shape: shape{id: id}},
		Radius:      radius,
		InnerRadius: innerRadius,
		Slices:      slices,
		Loops:       loops,
	}
	to.mesh = to.build()
	to.UpdateTexCoords(1, 1)
	return to, nil
}

func (to *Torus) build() *Mesh {
	mesh := &Mesh{}

	for slice := 0; slice <= to.Slices; slice++ {
		tube := 2 * math32.Pi * float32(slice%to.Slices) / float32(to.Slices)
		ringRadius := to.Radius + to.InnerRadius*math32.Cos(tube)
		z := to.InnerRadius * math32.Sin(tube)

		for loop := 0; loop <= to.Loops; loop++ {
			major := 2 * math32.Pi * float32(loop%to.Loops) / float32(to.Loops)
			cu, su := math32.Cos(major), math32.Sin(major)

			pos := glm.Vec3{ringRadius * cu, ringRadius * su, z}
			center := glm.Vec3{to.Radius * cu, to.Radius * su, 0}

			mesh.Vertices = pushVec3(mesh.Vertices, pos)
			mesh.Normals = pushVec3(mesh.Normals, pos.Sub(center).Normalize())
			to.unit = append(to.unit, float32(loop)/float32(to.Loops), float32(slice)/float32(to.Slices))
		}
	}
	mesh.Indices = gridIndices(to.Slices, to.Loops)
	return mesh
}

// Clone implements interface
func (to *Torus) Clone(id string) Primitive {
	c := *to
	c.quadric = to.cloneQuadric(id)
	return &c
}
