package scene

import (
	"fmt"

	"github.com/devblok/sxs/animation"
	"github.com/devblok/sxs/core/renderer"
	"github.com/devblok/sxs/util/xmltree"
	glm "github.com/go-gl/mathgl/mgl32"
)

// ChildKind tells which table a child reference resolves against
type ChildKind int

// Child kinds
const (
	ComponentChild ChildKind = iota
	PrimitiveChild
)

func (k ChildKind) String() string {
	if k == PrimitiveChild {
		return "primitive"
	}
	return "component"
}

// Child is a reference to a component or a primitive by ID. Primitive
// references name the declared primitive, the instance drawn for it is
// picked at display time from the texture lengths in effect.
type Child struct {
	Kind ChildKind
	Ref  string
}

// PropagateLength marks a texture length that keeps the parent's value
const PropagateLength = -1

// TextureBinding is the texture a component declares: a texture ID,
// Inherit or None, plus the repeat lengths
type TextureBinding struct {
	ID      string
	LengthS float32
	LengthT float32
}

// Component is a named node of the scene graph
type Component struct {
	ID string

	Transformation glm.Mat4

	// TransformationRef is set when the transformation came from the table
	TransformationRef string

	// Materials are cycled through with NextMaterial, Inherit forwards
	// the parent's material
	Materials     []string
	materialIndex int

	Texture  TextureBinding
	Children []Child

	AnimationID string
	Animation   animation.Animation

	Highlight   *renderer.Highlight
	Highlighted bool
}

// Material returns the ID of the active material, possibly Inherit
func (c *Component) Material() string {
	return c.Materials[c.materialIndex%len(c.Materials)]
}

// NextMaterial advances to the next candidate material
func (c *Component) NextMaterial() {
	c.materialIndex = (c.materialIndex + 1) % len(c.Materials)
}

// MaterialIndex returns the position of the active material
func (c *Component) MaterialIndex() int {
	return c.materialIndex
}

// parseComponents runs in two passes so children can reference
// components declared further down the document
func (l *loader) parseComponents(n *xmltree.Node) error {
	g := l.graph

	var nodes []*xmltree.Node
	for _, c := range n.Children {
		if c.Name != "component" {
			l.warn(c.Name, "", "unknown tag ignored")
			continue
		}
		id, err := uniqueID(c, func(id string) bool { _, ok := g.Components[id]; return ok })
		if err != nil {
			return err
		}
		g.Components[id] = nil
		g.componentOrder = append(g.componentOrder, id)
		nodes = append(nodes, c)
	}

	for idx, c := range nodes {
		comp, err := l.parseComponent(c, g.componentOrder[idx])
		if err != nil {
			return err
		}
		g.Components[comp.ID] = comp
	}
	return nil
}

func (l *loader) parseComponent(n *xmltree.Node, id string) (*Component, error) {
	comp := &Component{ID: id}

	transformation, err := requiredChild(n, "transformation", id)
	if err != nil {
		return nil, err
	}
	if err := l.componentTransformation(comp, transformation); err != nil {
		return nil, err
	}

	materials, err := requiredChild(n, "materials", id)
	if err != nil {
		return nil, err
	}
	if err := l.componentMaterials(comp, materials); err != nil {
		return nil, err
	}

	texture, err := requiredChild(n, "texture", id)
	if err != nil {
		return nil, err
	}
	if err := l.componentTexture(comp, texture); err != nil {
		return nil, err
	}

	children, err := requiredChild(n, "children", id)
	if err != nil {
		return nil, err
	}
	if err := l.componentChildren(comp, children); err != nil {
		return nil, err
	}

	if ref := n.Child("animationref"); ref != nil {
		animID, err := ref.String("id")
		if err != nil {
			return nil, parseErr("component", id, err)
		}
		anim, ok := l.graph.Animations[animID]
		if !ok {
			return nil, l.unresolved(id, "animation", animID)
		}
		comp.AnimationID = animID
		comp.Animation = anim
	}

	if hl := n.Child("highlighted"); hl != nil {
		v, err := floats(hl, "r", "g", "b", "scale_h")
		if err != nil {
			return nil, parseErr("component", id, err)
		}
		comp.Highlight = &renderer.Highlight{Color: glm.Vec3{v[0], v[1], v[2]}, Scale: v[3]}
		l.graph.highlightable = append(l.graph.highlightable, id)
	}

	for _, c := range n.Children {
		switch c.Name {
		case "transformation", "materials", "texture", "children", "animationref", "highlighted":
		default:
			l.warn(c.Name, id, "unknown tag ignored")
		}
	}
	return comp, nil
}

func (l *loader) unresolved(id, kind, ref string) error {
	return &ParseError{
		Tag:   "component",
		ID:    id,
		Chain: []string{id, ref},
		Err:   fmt.Errorf("%w: %s '%s' is not defined", ErrUnresolvedReference, kind, ref),
	}
}

func (l *loader) componentTransformation(comp *Component, n *xmltree.Node) error {
	if ref := n.Child("transformationref"); ref != nil {
		if len(n.Children) > 1 {
			return parseErrf("component", comp.ID, ErrInvalidValue,
				"<transformationref> cannot be mixed with explicit transformations")
		}
		refID, err := ref.String("id")
		if err != nil {
			return parseErr("component", comp.ID, err)
		}
		m, ok := l.graph.Transformations[refID]
		if !ok {
			return l.unresolved(comp.ID, "transformation", refID)
		}
		comp.Transformation = m
		comp.TransformationRef = refID
		return nil
	}

	m, err := l.parseOps(n, comp.ID)
	if err != nil {
		return err
	}
	comp.Transformation = m
	return nil
}

func (l *loader) componentMaterials(comp *Component, n *xmltree.Node) error {
	for _, c := range n.Children {
		if c.Name != "material" {
			l.warn(c.Name, comp.ID, "unknown tag ignored")
			continue
		}
		matID, err := c.String("id")
		if err != nil {
			return parseErr("component", comp.ID, err)
		}
		if _, ok := l.graph.Materials[matID]; !ok && matID != Inherit {
			return l.unresolved(comp.ID, "material", matID)
		}
		comp.Materials = append(comp.Materials, matID)
	}
	if len(comp.Materials) == 0 {
		return parseErrf("component", comp.ID, ErrMissingBlock, "at least one material must be declared")
	}
	return nil
}

func (l *loader) componentTexture(comp *Component, n *xmltree.Node) error {
	texID, err := n.String("id")
	if err != nil {
		return parseErr("component", comp.ID, err)
	}
	comp.Texture.ID = texID

	switch texID {
	case None:
		return nil
	case Inherit:
		comp.Texture.LengthS, comp.Texture.LengthT = PropagateLength, PropagateLength
	default:
		if _, ok := l.graph.Textures[texID]; !ok {
			return l.unresolved(comp.ID, "texture", texID)
		}
		comp.Texture.LengthS, comp.Texture.LengthT = 1, 1
	}

	for _, axis := range []struct {
		name string
		dst  *float32
	}{
		{"length_s", &comp.Texture.LengthS},
		{"length_t", &comp.Texture.LengthT},
	} {
		if !n.Has(axis.name) {
			if texID != Inherit {
				l.warn("texture", comp.ID, "no %s defined, assuming 1", axis.name)
			}
			continue
		}
		v, err := n.Float(axis.name)
		if err != nil {
			return parseErr("component", comp.ID, err)
		}
		if v <= 0 {
			return parseErrf("component", comp.ID, ErrInvalidValue, "%s must be positive, got %g", axis.name, v)
		}
		*axis.dst = v
	}
	return nil
}

func (l *loader) componentChildren(comp *Component, n *xmltree.Node) error {
	g := l.graph
	for _, c := range n.Children {
		var kind ChildKind
		switch c.Name {
		case "componentref":
			kind = ComponentChild
		case "primitiveref":
			kind = PrimitiveChild
		default:
			l.warn(c.Name, comp.ID, "unknown tag ignored")
			continue
		}

		ref, err := c.String("id")
		if err != nil {
			return parseErr("component", comp.ID, err)
		}
		var ok bool
		if kind == ComponentChild {
			_, ok = g.Components[ref]
		} else {
			_, ok = g.Primitives[ref]
		}
		if !ok {
			return l.unresolved(comp.ID, kind.String(), ref)
		}
		comp.Children = append(comp.Children, Child{Kind: kind, Ref: ref})
	}
	if len(comp.Children) == 0 {
		return parseErrf("component", comp.ID, ErrMissingBlock, "a component must have at least one child")
	}
	return nil
}
