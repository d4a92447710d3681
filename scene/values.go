package scene

import (
	"fmt"

	"github.com/devblok/sxs/util/xmltree"
	glm "github.com/go-gl/mathgl/mgl32"
)

func floats(n *xmltree.Node, names ...string) ([]float32, error) {
	values := make([]float32, len(names))
	for idx, name := range names {
		v, err := n.Float(name)
		if err != nil {
			return nil, err
		}
		values[idx] = v
	}
	return values, nil
}

func vec3(n *xmltree.Node) (glm.Vec3, error) {
	v, err := floats(n, "x", "y", "z")
	if err != nil {
		return glm.Vec3{}, err
	}
	return glm.Vec3{v[0], v[1], v[2]}, nil
}

func vec4(n *xmltree.Node) (glm.Vec4, error) {
	v, err := floats(n, "x", "y", "z", "w")
	if err != nil {
		return glm.Vec4{}, err
	}
	return glm.Vec4{v[0], v[1], v[2], v[3]}, nil
}

// color reads r, g, b, a and checks every component is within [0, 1]
func color(n *xmltree.Node) (glm.Vec4, error) {
	v, err := floats(n, "r", "g", "b", "a")
	if err != nil {
		return glm.Vec4{}, err
	}
	for idx, c := range v {
		if c < 0 || c > 1 {
			return glm.Vec4{}, fmt.Errorf("%w: colour component %s=%g outside [0, 1] in <%s>",
				ErrInvalidValue, []string{"r", "g", "b", "a"}[idx], c, n.Name)
		}
	}
	return glm.Vec4{v[0], v[1], v[2], v[3]}, nil
}

// requiredChild returns the named child of n or a missing block error
func requiredChild(n *xmltree.Node, name, id string) (*xmltree.Node, error) {
	c := n.Child(name)
	if c == nil {
		return nil, parseErrf(n.Name, id, ErrMissingBlock, "<%s> missing", name)
	}
	return c, nil
}
