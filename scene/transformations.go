package scene

import (
	"fmt"

	"github.com/devblok/sxs/util/xmltree"
	glm "github.com/go-gl/mathgl/mgl32"
)

var axes = map[string]glm.Vec3{
	"x": {1, 0, 0},
	"y": {0, 1, 0},
	"z": {0, 0, 1},
}

func (l *loader) parseTransformations(n *xmltree.Node) error {
	g := l.graph
	for _, c := range n.Children {
		if c.Name != "transformation" {
			l.warn(c.Name, "", "unknown tag ignored")
			continue
		}
		id, err := uniqueID(c, func(id string) bool { _, ok := g.Transformations[id]; return ok })
		if err != nil {
			return err
		}
		m, err := l.parseOps(c, id)
		if err != nil {
			return err
		}
		g.Transformations[id] = m
	}
	return nil
}

// parseOps composes translate, rotate and scale children in document
// order. No operations yield the identity.
func (l *loader) parseOps(n *xmltree.Node, id string) (glm.Mat4, error) {
	m := glm.Ident4()
	for _, op := range n.Children {
		switch op.Name {
		case "translate":
			v, err := vec3(op)
			if err != nil {
				return m, parseErr(n.Name, id, err)
			}
			m = m.Mul4(glm.Translate3D(v[0], v[1], v[2]))
		case "scale":
			v, err := vec3(op)
			if err != nil {
				return m, parseErr(n.Name, id, err)
			}
			m = m.Mul4(glm.Scale3D(v[0], v[1], v[2]))
		case "rotate":
			name, err := op.String("axis")
			if err != nil {
				return m, parseErr(n.Name, id, err)
			}
			axis, ok := axes[name]
			if !ok {
				return m, parseErr(n.Name, id, fmt.Errorf("%w: rotation axis '%s' is not one of x, y, z", ErrInvalidValue, name))
			}
			angle, err := op.Float("angle")
			if err != nil {
				return m, parseErr(n.Name, id, err)
			}
			m = m.Mul4(glm.HomogRotate3D(glm.DegToRad(angle), axis))
		default:
			l.warn(op.Name, id, "unknown transformation ignored")
		}
	}
	return m, nil
}
