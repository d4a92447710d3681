package scene

import (
	"github.com/devblok/sxs/animation"
	"github.com/devblok/sxs/util/xmltree"
	glm "github.com/go-gl/mathgl/mgl32"
)

// View is a perspective or orthographic camera definition
type View struct {
	ID    string
	Ortho bool

	Near float32
	Far  float32

	// Angle is the vertical field of view in degrees, perspective only
	Angle float32

	Left   float32
	Right  float32
	Top    float32
	Bottom float32

	From glm.Vec3
	To   glm.Vec3
	Up   glm.Vec3
}

// Pose returns the view as an interpolatable camera pose
func (v *View) Pose() animation.CameraPose {
	return animation.CameraPose{
		Position: v.From,
		Target:   v.To,
		Up:       v.Up,
		Fov:      glm.DegToRad(v.Angle),
		Near:     v.Near,
		Far:      v.Far,
	}
}

// Projection builds the projection matrix of the view for pose
func (v *View) Projection(pose animation.CameraPose, aspect float32) glm.Mat4 {
	if v.Ortho {
		return glm.Ortho(v.Left, v.Right, v.Bottom, v.Top, pose.Near, pose.Far)
	}
	return glm.Perspective(pose.Fov, aspect, pose.Near, pose.Far)
}

func (l *loader) parseScene(n *xmltree.Node) error {
	root, err := n.String("root")
	if err != nil {
		return parseErr(BlockScene, "", err)
	}
	l.graph.Root = root

	if axis, err := n.Float("axis_length"); err != nil {
		l.warn(BlockScene, "", "no axis_length defined, assuming 1")
		l.graph.AxisLength = 1
	} else {
		l.graph.AxisLength = axis
	}
	return nil
}

func (l *loader) parseViews(n *xmltree.Node) error {
	g := l.graph
	for _, c := range n.Children {
		if c.Name != "perspective" && c.Name != "ortho" {
			l.warn(c.Name, "", "unknown tag ignored")
			continue
		}
		id, err := uniqueID(c, func(id string) bool { _, ok := g.Views[id]; return ok })
		if err != nil {
			return err
		}
		view, err := l.parseView(c, id)
		if err != nil {
			return err
		}
		g.Views[id] = view
		g.viewOrder = append(g.viewOrder, id)
	}

	if len(g.Views) == 0 {
		return parseErrf(BlockViews, "", ErrMissingBlock, "at least one view must be defined")
	}

	def, err := n.String("default")
	if err != nil {
		return parseErr(BlockViews, "", err)
	}
	if _, ok := g.Views[def]; !ok {
		return parseErrf(BlockViews, def, ErrUnresolvedReference, "default view is not defined")
	}
	g.DefaultView = def
	return nil
}

func (l *loader) parseView(n *xmltree.Node, id string) (*View, error) {
	v := &View{
		ID:    id,
		Ortho: n.Name == "ortho",
		Up:    glm.Vec3{0, 1, 0},
	}

	var err error
	if v.Near, err = n.Float("near"); err != nil {
		return nil, parseErr(n.Name, id, err)
	}
	if v.Far, err = n.Float("far"); err != nil {
		return nil, parseErr(n.Name, id, err)
	}

	if v.Ortho {
		lrtb, err := floats(n, "left", "right", "top", "bottom")
		if err != nil {
			return nil, parseErr(n.Name, id, err)
		}
		v.Left, v.Right, v.Top, v.Bottom = lrtb[0], lrtb[1], lrtb[2], lrtb[3]
	} else if v.Angle, err = n.Float("angle"); err != nil {
		return nil, parseErr(n.Name, id, err)
	}

	var hasFrom, hasTo, hasUp bool
	for _, c := range n.Children {
		var dst *glm.Vec3
		switch c.Name {
		case "from":
			dst, hasFrom = &v.From, true
		case "to":
			dst, hasTo = &v.To, true
		case "up":
			dst, hasUp = &v.Up, true
		default:
			l.warn(c.Name, id, "unknown tag ignored")
			continue
		}
		if *dst, err = vec3(c); err != nil {
			return nil, parseErr(n.Name, id, err)
		}
	}
	if !hasFrom || !hasTo {
		return nil, parseErrf(n.Name, id, ErrMissingBlock, "view needs both <from> and <to>")
	}
	if v.Ortho && !hasUp {
		l.warn(n.Name, id, "no <up> defined, assuming (0, 1, 0)")
	}
	return v, nil
}
