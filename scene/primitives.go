package scene

import (
	"fmt"

	"github.com/devblok/sxs/model"
	"github.com/devblok/sxs/util/xmltree"
	glm "github.com/go-gl/mathgl/mgl32"
)

var primitiveBuilders = map[string]func(id string, n *xmltree.Node) (model.Primitive, error){
	"rectangle": buildRectangle,
	"triangle":  buildTriangle,
	"cylinder":  buildCylinder,
	"sphere":    buildSphere,
	"torus":     buildTorus,
}

func (l *loader) parsePrimitives(n *xmltree.Node) error {
	g := l.graph
	for _, c := range n.Children {
		if c.Name != "primitive" {
			l.warn(c.Name, "", "unknown tag ignored")
			continue
		}
		id, err := uniqueID(c, func(id string) bool { _, ok := g.Primitives[id]; return ok })
		if err != nil {
			return err
		}
		if len(c.Children) != 1 {
			return parseErrf(c.Name, id, ErrInvalidValue,
				"there must be exactly 1 primitive type (rectangle, triangle, cylinder, sphere or torus)")
		}

		shape := c.Children[0]
		build, ok := primitiveBuilders[shape.Name]
		if !ok {
			return parseErrf(c.Name, id, ErrInvalidValue, "unknown primitive type <%s>", shape.Name)
		}
		prim, err := build(id, shape)
		if err != nil {
			return parseErr(shape.Name, id, err)
		}
		g.Primitives[id] = prim
	}
	return nil
}

func doubleSided(n *xmltree.Node) (bool, error) {
	if !n.Has("double_sided") {
		return false, nil
	}
	return n.Bool("double_sided")
}

func buildRectangle(id string, n *xmltree.Node) (model.Primitive, error) {
	v, err := floats(n, "x1", "y1", "x2", "y2")
	if err != nil {
		return nil, err
	}
	ds, err := doubleSided(n)
	if err != nil {
		return nil, err
	}
	return model.NewRectangle(id, v[0], v[1], v[2], v[3], ds)
}

func buildTriangle(id string, n *xmltree.Node) (model.Primitive, error) {
	v, err := floats(n, "x1", "y1", "z1", "x2", "y2", "z2", "x3", "y3", "z3")
	if err != nil {
		return nil, err
	}
	ds, err := doubleSided(n)
	if err != nil {
		return nil, err
	}
	return model.NewTriangle(id,
		glm.Vec3{v[0], v[1], v[2]},
		glm.Vec3{v[3], v[4], v[5]},
		glm.Vec3{v[6], v[7], v[8]},
		ds)
}

func divisions(n *xmltree.Node, names ...string) ([]int, error) {
	values := make([]int, len(names))
	for idx, name := range names {
		v, err := n.Int(name)
		if err != nil {
			return nil, err
		}
		values[idx] = v
	}
	return values, nil
}

func buildCylinder(id string, n *xmltree.Node) (model.Primitive, error) {
	v, err := floats(n, "baseRadius", "upperRadius", "height")
	if err != nil {
		return nil, err
	}
	d, err := divisions(n, "slices", "stacks")
	if err != nil {
		return nil, err
	}
	return model.NewCylinder(id, v[0], v[1], v[2], d[0], d[1])
}

func buildSphere(id string, n *xmltree.Node) (model.Primitive, error) {
	radius, err := n.Float("radius")
	if err != nil {
		return nil, err
	}
	d, err := divisions(n, "slices", "stacks")
	if err != nil {
		return nil, err
	}
	return model.NewSphere(id, radius, d[0], d[1])
}

func buildTorus(id string, n *xmltree.Node) (model.Primitive, error) {
	v, err := floats(n, "radius", "innerRadius")
	if err != nil {
		return nil, err
	}
	if v[1] >= v[0] {
		return nil, fmt.Errorf("%w: innerRadius cannot be equal to or greater than radius", ErrInvalidValue)
	}
	d, err := divisions(n, "slices", "loops")
	if err != nil {
		return nil, err
	}
	return model.NewTorus(id, v[0], v[1], d[0], d[1])
}
