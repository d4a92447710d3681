package scene

import (
	"github.com/devblok/sxs/core/renderer"
	"github.com/devblok/sxs/util/xmltree"
	glm "github.com/go-gl/mathgl/mgl32"
)

// Material is a named surface description
type Material struct {
	ID string
	renderer.Material
}

// defaultMaterial is used when nothing up the chain chose a material
var defaultMaterial = &Material{
	ID: "default",
	Material: renderer.Material{
		Ambient:   glm.Vec4{0.2, 0.4, 0.8, 1},
		Diffuse:   glm.Vec4{0.2, 0.4, 0.8, 1},
		Specular:  glm.Vec4{0.2, 0.4, 0.8, 1},
		Shininess: 10,
	},
}

func (l *loader) parseMaterials(n *xmltree.Node) error {
	g := l.graph
	for _, c := range n.Children {
		if c.Name != "material" {
			l.warn(c.Name, "", "unknown tag ignored")
			continue
		}
		id, err := uniqueID(c, func(id string) bool { _, ok := g.Materials[id]; return ok })
		if err != nil {
			return err
		}

		mat := &Material{ID: id}
		if mat.Shininess, err = c.Float("shininess"); err != nil {
			return parseErr(c.Name, id, err)
		}

		components := []struct {
			name string
			dst  *glm.Vec4
		}{
			{"emission", &mat.Emission},
			{"ambient", &mat.Ambient},
			{"diffuse", &mat.Diffuse},
			{"specular", &mat.Specular},
		}
		for _, comp := range components {
			cc, err := requiredChild(c, comp.name, id)
			if err != nil {
				return err
			}
			if *comp.dst, err = color(cc); err != nil {
				return parseErr(c.Name, id, err)
			}
		}
		g.Materials[id] = mat
	}
	return nil
}
