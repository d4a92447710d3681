package scene

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

type visitState int

const (
	unvisited visitState = iota
	onPath
	done
)

// texState is the texture binding in effect while walking the graph.
// An empty id means texturing is off.
type texState struct {
	id string
	s  float32
	t  float32
}

var rootTexState = texState{s: 1, t: 1}

// apply derives the state a component hands to its children
func (ts texState) apply(b TextureBinding) texState {
	switch b.ID {
	case None:
		return texState{s: 1, t: 1}
	case Inherit:
		out := ts
		if b.LengthS != PropagateLength {
			out.s = b.LengthS
		}
		if b.LengthT != PropagateLength {
			out.t = b.LengthT
		}
		return out
	default:
		return texState{id: b.ID, s: b.LengthS, t: b.LengthT}
	}
}

type instanceKey struct {
	primitive string
	s         float32
	t         float32
}

func (g *Graph) resolve() error {
	if _, ok := g.Components[g.Root]; !ok {
		return &ParseError{
			Tag:   BlockScene,
			ID:    g.Root,
			Chain: []string{g.Root},
			Err:   fmt.Errorf("%w: root component '%s' is not defined", ErrUnresolvedReference, g.Root),
		}
	}
	if err := g.checkCycles(); err != nil {
		return err
	}
	g.multiplex()
	return nil
}

// checkCycles walks depth first from the root, then from every
// component the root does not reach, tracking the active path
func (g *Graph) checkCycles() error {
	state := make(map[string]visitState, len(g.Components))
	var path []string

	var visit func(id string) error
	visit = func(id string) error {
		state[id] = onPath
		path = append(path, id)

		for _, child := range g.Components[id].Children {
			if child.Kind != ComponentChild {
				continue
			}
			switch state[child.Ref] {
			case onPath:
				start := 0
				for idx, p := range path {
					if p == child.Ref {
						start = idx
						break
					}
				}
				chain := append(append([]string(nil), path[start:]...), child.Ref)
				return &ParseError{
					Tag:   "component",
					ID:    id,
					Chain: chain,
					Err:   fmt.Errorf("%w: '%s' references '%s'", ErrCircularDependency, id, child.Ref),
				}
			case unvisited:
				if err := visit(child.Ref); err != nil {
					return err
				}
			}
		}

		path = path[:len(path)-1]
		state[id] = done
		return nil
	}

	if err := visit(g.Root); err != nil {
		return err
	}
	for _, id := range g.componentOrder {
		if state[id] == unvisited {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// multiplex gives every primitive one instance per distinct pair of
// texture lengths it is reached with. The first pair reuses the declared
// primitive, every further pair gets a clone named "<id>-copy<n>".
func (g *Graph) multiplex() {
	type visitKey struct {
		component string
		tex       texState
	}
	seen := map[visitKey]bool{}

	var walk func(id string, parent texState)
	walk = func(id string, parent texState) {
		key := visitKey{id, parent}
		if seen[key] {
			return
		}
		seen[key] = true

		comp := g.Components[id]
		ts := parent.apply(comp.Texture)
		for _, child := range comp.Children {
			if child.Kind == ComponentChild {
				walk(child.Ref, ts)
			} else if ts.id != "" {
				g.registerInstance(child.Ref, ts.s, ts.t)
			}
		}
	}
	walk(g.Root, rootTexState)
}

func (g *Graph) registerInstance(base string, s, t float32) string {
	key := instanceKey{base, s, t}
	if id, ok := g.instances[key]; ok {
		return id
	}

	prim := g.Primitives[base]
	if !g.instanced[base] {
		g.instanced[base] = true
		prim.UpdateTexCoords(s, t)
		g.instances[key] = base
		return base
	}

	var id string
	for {
		g.copies[base]++
		id = fmt.Sprintf("%s-copy%d", base, g.copies[base])
		if _, taken := g.Primitives[id]; !taken {
			break
		}
	}
	clone := prim.Clone(id)
	clone.UpdateTexCoords(s, t)
	g.Primitives[id] = clone
	g.instances[key] = id
	g.logger.WithFields(log.Fields{"primitive": base, "instance": id}).
		Debugf("texture lengths (%g, %g) need their own instance", s, t)
	return id
}

// instance returns the primitive drawn for ref under the texture state ts
func (g *Graph) instance(ref string, ts texState) string {
	if ts.id == "" {
		return ref
	}
	if id, ok := g.instances[instanceKey{ref, ts.s, ts.t}]; ok {
		return id
	}
	return ref
}

// Instances returns the primitive IDs drawn for base, in creation order
func (g *Graph) Instances(base string) []string {
	if _, ok := g.Primitives[base]; !ok {
		return nil
	}
	ids := []string{}
	if g.instanced[base] {
		ids = append(ids, base)
	}
	for n := 1; n <= g.copies[base]; n++ {
		id := fmt.Sprintf("%s-copy%d", base, n)
		if _, ok := g.Primitives[id]; ok {
			for _, inst := range g.instances {
				if inst == id {
					ids = append(ids, id)
					break
				}
			}
		}
	}
	return ids
}
