package scene

import (
	"fmt"

	"github.com/devblok/sxs/core/renderer"
	"github.com/devblok/sxs/util/xmltree"
	glm "github.com/go-gl/mathgl/mgl32"
)

// MaxLights is the amount of lights that can be active at once
const MaxLights = 8

// Light is an omni or spot light declared in the document
type Light struct {
	ID       string
	Spot     bool
	Enabled  bool
	Location glm.Vec4
	Ambient  glm.Vec4
	Diffuse  glm.Vec4
	Specular glm.Vec4

	// Attenuation is nil when the document does not declare one
	Attenuation *glm.Vec3

	Angle    float32
	Exponent float32
	Target   glm.Vec3
}

// Direction is the normalised spot direction from location to target
func (li *Light) Direction() glm.Vec3 {
	dir := li.Target.Sub(li.Location.Vec3())
	if dir.Len() == 0 {
		return glm.Vec3{0, -1, 0}
	}
	return dir.Normalize()
}

func (li *Light) resolved() renderer.Light {
	rl := renderer.Light{
		ID:          li.ID,
		Spot:        li.Spot,
		Location:    li.Location,
		Ambient:     li.Ambient,
		Diffuse:     li.Diffuse,
		Specular:    li.Specular,
		Attenuation: glm.Vec3{1, 0, 0},
	}
	if li.Attenuation != nil {
		rl.Attenuation = *li.Attenuation
	}
	if li.Spot {
		rl.Angle = li.Angle
		rl.Exponent = li.Exponent
		rl.Direction = li.Direction()
	}
	return rl
}

func (l *loader) parseAmbient(n *xmltree.Node) error {
	for _, name := range []string{"ambient", "background"} {
		c, err := requiredChild(n, name, "")
		if err != nil {
			return err
		}
		col, err := color(c)
		if err != nil {
			return parseErr(BlockAmbient, name, err)
		}
		if name == "ambient" {
			l.graph.Ambient = col
		} else {
			l.graph.Background = col
		}
	}
	return nil
}

func (l *loader) parseLights(n *xmltree.Node) error {
	g := l.graph
	taken := func(id string) bool {
		_, ok := g.lightIndex[id]
		return ok
	}

	for _, c := range n.Children {
		if c.Name != "omni" && c.Name != "spot" {
			l.warn(c.Name, "", "unknown tag ignored")
			continue
		}
		id, err := uniqueID(c, taken)
		if err != nil {
			return err
		}
		light, err := l.parseLight(c, id)
		if err != nil {
			return err
		}
		g.lightIndex[id] = len(g.Lights)
		g.Lights = append(g.Lights, light)
	}

	if len(g.Lights) == 0 {
		return parseErrf(BlockLights, "", ErrMissingBlock, "at least one light must be defined")
	}
	if len(g.Lights) > MaxLights {
		l.warn(BlockLights, "", "too many lights defined, only the first %d are used", MaxLights)
	}
	return nil
}

func (l *loader) parseLight(n *xmltree.Node, id string) (*Light, error) {
	li := &Light{ID: id, Spot: n.Name == "spot"}

	enabled, err := n.Bool("enabled")
	if err != nil {
		l.warn(n.Name, id, "unable to parse 'enabled', assuming true")
		enabled = true
	}
	li.Enabled = enabled

	loc, err := requiredChild(n, "location", id)
	if err != nil {
		return nil, err
	}
	if li.Location, err = vec4(loc); err != nil {
		return nil, parseErr(n.Name, id, err)
	}

	components := []struct {
		name string
		dst  *glm.Vec4
	}{
		{"ambient", &li.Ambient},
		{"diffuse", &li.Diffuse},
		{"specular", &li.Specular},
	}
	for _, comp := range components {
		c, err := requiredChild(n, comp.name, id)
		if err != nil {
			return nil, err
		}
		if *comp.dst, err = color(c); err != nil {
			return nil, parseErr(n.Name, id, err)
		}
	}

	if att := n.Child("attenuation"); att != nil {
		v, err := floats(att, "constant", "linear", "quadratic")
		if err != nil {
			return nil, parseErr(n.Name, id, err)
		}
		nonZero := 0
		for _, f := range v {
			if f != 0 {
				nonZero++
			}
		}
		if nonZero != 1 {
			return nil, parseErr(n.Name, id, fmt.Errorf("%w: exactly one attenuation term must be non-zero", ErrInvalidValue))
		}
		li.Attenuation = &glm.Vec3{v[0], v[1], v[2]}
	}

	if li.Spot {
		if li.Angle, err = n.Float("angle"); err != nil {
			return nil, parseErr(n.Name, id, err)
		}
		if li.Exponent, err = n.Float("exponent"); err != nil {
			return nil, parseErr(n.Name, id, err)
		}
		target, err := requiredChild(n, "target", id)
		if err != nil {
			return nil, err
		}
		if li.Target, err = vec3(target); err != nil {
			return nil, parseErr(n.Name, id, err)
		}
	}
	return li, nil
}
