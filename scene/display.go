package scene

import (
	"github.com/devblok/sxs/core/renderer"
	glm "github.com/go-gl/mathgl/mgl32"
)

// matrixStack is the transform scope of the traversal
type matrixStack []glm.Mat4

func (s *matrixStack) push() {
	*s = append(*s, s.top())
}

func (s *matrixStack) pop() {
	*s = (*s)[:len(*s)-1]
}

func (s matrixStack) top() glm.Mat4 {
	return s[len(s)-1]
}

// MultMatrix multiplies m into the top of the stack
func (s matrixStack) MultMatrix(m glm.Mat4) {
	s[len(s)-1] = s[len(s)-1].Mul4(m)
}

type displayState struct {
	material  *Material
	tex       texState
	highlight *renderer.Highlight
}

type displayer struct {
	graph *Graph
	r     renderer.Renderer
	stack matrixStack
	path  []string
}

// Display draws the whole graph from the root through r
func (g *Graph) Display(r renderer.Renderer) error {
	r.BeginFrame(g.Background)
	r.SetCamera(g.Camera())
	r.SetLights(g.Ambient, g.ActiveLights())
	r.SetUniform(renderer.UniformTimeFactor, g.timeFactor)
	r.SetUniform(renderer.UniformTime, g.Time())

	d := displayer{
		graph: g,
		r:     r,
		stack: matrixStack{glm.Ident4()},
	}
	d.component(g.Root, displayState{material: defaultMaterial, tex: rootTexState})
	return r.EndFrame()
}

func (d *displayer) component(id string, parent displayState) {
	g := d.graph
	comp := g.Components[id]

	d.stack.push()
	defer d.stack.pop()
	d.stack.MultMatrix(comp.Transformation)
	if comp.Animation != nil {
		comp.Animation.Apply(d.stack)
	}

	state := displayState{
		material:  parent.material,
		tex:       parent.tex.apply(comp.Texture),
		highlight: parent.highlight,
	}
	if matID := comp.Material(); matID != Inherit {
		state.material = g.Materials[matID]
	}
	if comp.Highlighted && comp.Highlight != nil {
		state.highlight = comp.Highlight
	}

	d.path = append(d.path, id)
	for _, child := range comp.Children {
		if child.Kind == ComponentChild {
			d.component(child.Ref, state)
			continue
		}
		d.draw(child.Ref, state)
	}
	d.path = d.path[:len(d.path)-1]
}

func (d *displayer) draw(ref string, state displayState) {
	g := d.graph
	prim := g.Primitives[g.instance(ref, state.tex)]

	dc := renderer.DrawCall{
		Path:      d.path,
		Primitive: prim.ID(),
		Mesh:      prim.GenerateBuffers(),
		Model:     d.stack.top(),
		Material:  state.material.Material,
		Highlight: state.highlight,
	}
	if state.tex.id != "" {
		dc.Texture = g.Textures[state.tex.id].renderable()
	}
	d.r.DrawMesh(dc)
}
