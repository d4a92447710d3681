package scene

import (
	"fmt"
	"sort"
	"time"

	"github.com/chewxy/math32"
	"github.com/devblok/sxs/animation"
	"github.com/devblok/sxs/core/renderer"
	"github.com/devblok/sxs/model"
	glm "github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"
)

// Graph is a loaded and resolved scene. It is not safe for concurrent
// use: updates, game mutations and display are expected to happen on
// the same goroutine, one after another.
type Graph struct {
	Root       string
	AxisLength float32

	Ambient    glm.Vec4
	Background glm.Vec4

	DefaultView string
	Views       map[string]*View
	Lights      []*Light

	Textures        map[string]*Texture
	Materials       map[string]*Material
	Transformations map[string]glm.Mat4
	Animations      map[string]*animation.KeyframeAnimation
	Primitives      map[string]model.Primitive
	Components      map[string]*Component

	opts     Options
	logger   log.FieldLogger
	warnings []Warning

	viewOrder      []string
	textureOrder   []string
	componentOrder []string
	lightIndex     map[string]int
	highlightable  []string

	instances map[instanceKey]string
	instanced map[string]bool
	copies    map[string]int

	textureResults  chan textureResult
	pendingTextures int

	elapsed    time.Duration
	timeFactor float32

	currentView   string
	camera        animation.CameraPose
	timeline      *animation.CameraTimeline
	timelineViews []string
}

func newGraph(opts Options) *Graph {
	return &Graph{
		Views:           map[string]*View{},
		Textures:        map[string]*Texture{},
		Materials:       map[string]*Material{},
		Transformations: map[string]glm.Mat4{},
		Animations:      map[string]*animation.KeyframeAnimation{},
		Primitives:      map[string]model.Primitive{},
		Components:      map[string]*Component{},
		opts:            opts,
		logger:          opts.Logger,
		lightIndex:      map[string]int{},
		instances:       map[instanceKey]string{},
		instanced:       map[string]bool{},
		copies:          map[string]int{},
	}
}

func (g *Graph) warn(w Warning, format string, args ...interface{}) {
	w.Message = fmt.Sprintf(format, args...)
	g.warnings = append(g.warnings, w)
	g.logger.WithFields(log.Fields{"tag": w.Tag, "id": w.ID}).Warn(w.Message)
}

// Warnings returns every non-fatal diagnostic raised so far
func (g *Graph) Warnings() []Warning {
	return g.warnings
}

// ViewIDs returns the view IDs in document order
func (g *Graph) ViewIDs() []string {
	return g.viewOrder
}

// ComponentIDs returns the component IDs in document order
func (g *Graph) ComponentIDs() []string {
	return g.componentOrder
}

// Highlightable lists the components that declare a highlight
func (g *Graph) Highlightable() []string {
	return g.highlightable
}

// Time returns the seconds elapsed since the scene started updating
func (g *Graph) Time() float32 {
	return float32(g.elapsed.Seconds())
}

// TimeFactor returns the current value of the highlight pulse, in [0, 1]
func (g *Graph) TimeFactor() float32 {
	return g.timeFactor
}

// Update advances the scene clock. It applies finished texture loads,
// advances component animations and the camera, and recomputes the
// time varying uniforms.
func (g *Graph) Update(elapsed time.Duration) {
	g.elapsed += elapsed
	g.drainTextures()

	t := g.Time()
	updated := map[animation.Animation]bool{}
	for _, id := range g.componentOrder {
		anim := g.Components[id].Animation
		if anim == nil || updated[anim] {
			continue
		}
		anim.Update(t)
		updated[anim] = true
	}

	tSine := float32((g.elapsed.Milliseconds() / 10) % 314)
	g.timeFactor = (1 + math32.Sin(2*tSine*0.02)) / 2

	if g.timeline != nil {
		g.timeline.Update(t)
		g.camera = g.timeline.Pose()
		if g.timeline.Done() {
			g.currentView = g.timelineViews[len(g.timelineViews)-1]
			g.camera = g.Views[g.currentView].Pose()
			g.timeline = nil
			g.timelineViews = nil
		}
	}
}

// View returns the ID of the current view. During a transition it is
// the view the transition started from.
func (g *Graph) View() string {
	if g.currentView == "" {
		return g.DefaultView
	}
	return g.currentView
}

// Transitioning reports whether a camera transition is running
func (g *Graph) Transitioning() bool {
	return g.timeline != nil
}

// SetView switches the camera to the view id, dropping any transition
func (g *Graph) SetView(id string) error {
	v, ok := g.Views[id]
	if !ok {
		return fmt.Errorf("%w: view '%s'", ErrUnresolvedReference, id)
	}
	g.currentView = id
	g.camera = v.Pose()
	g.timeline = nil
	g.timelineViews = nil
	return nil
}

// TransitionCamera animates the camera from where it is now through
// every given view in turn, one transition length per view
func (g *Graph) TransitionCamera(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	for _, id := range ids {
		if _, ok := g.Views[id]; !ok {
			return fmt.Errorf("%w: view '%s'", ErrUnresolvedReference, id)
		}
	}

	duration := float32(g.opts.CameraTransition.Seconds())
	from := g.currentPose()
	tl := &animation.CameraTimeline{}
	for _, id := range ids {
		to := g.Views[id].Pose()
		tl.Push(animation.NewCameraAnimation(from, to, duration))
		from = to
	}
	tl.Start(g.Time())

	if g.currentView == "" {
		g.currentView = g.DefaultView
	}
	g.camera = tl.Pose()
	g.timeline = tl
	g.timelineViews = append([]string(nil), ids...)
	return nil
}

func (g *Graph) currentPose() animation.CameraPose {
	if g.currentView == "" {
		return g.Views[g.DefaultView].Pose()
	}
	return g.camera
}

// Camera returns the camera matrices for the current frame
func (g *Graph) Camera() renderer.Camera {
	pose := g.currentPose()
	view := g.Views[g.View()]
	if g.timeline != nil {
		view = g.Views[g.timelineViews[len(g.timelineViews)-1]]
	}
	return renderer.Camera{
		ID:         view.ID,
		Position:   pose.Position,
		View:       glm.LookAtV(pose.Position, pose.Target, pose.Up),
		Projection: view.Projection(pose, g.opts.AspectRatio),
	}
}

// SetAspectRatio updates the ratio used by perspective projections
func (g *Graph) SetAspectRatio(aspect float32) {
	if aspect > 0 {
		g.opts.AspectRatio = aspect
	}
}

// SetLightEnabled toggles a light on or off
func (g *Graph) SetLightEnabled(id string, enabled bool) error {
	idx, ok := g.lightIndex[id]
	if !ok {
		return fmt.Errorf("%w: light '%s'", ErrUnresolvedReference, id)
	}
	g.Lights[idx].Enabled = enabled
	return nil
}

// ActiveLights returns the enabled lights among the first MaxLights
func (g *Graph) ActiveLights() []renderer.Light {
	var lights []renderer.Light
	for idx, li := range g.Lights {
		if idx >= MaxLights {
			break
		}
		if li.Enabled {
			lights = append(lights, li.resolved())
		}
	}
	return lights
}

// NextMaterials advances every component to its next candidate material
func (g *Graph) NextMaterials() {
	for _, id := range g.componentOrder {
		g.Components[id].NextMaterial()
	}
}

// Component returns the component with the given ID
func (g *Graph) Component(id string) (*Component, error) {
	comp, ok := g.Components[id]
	if !ok || comp == nil {
		return nil, fmt.Errorf("%w: component '%s'", ErrUnresolvedReference, id)
	}
	return comp, nil
}

// SetMaterials replaces the candidate materials of a component
// and makes the first one active
func (g *Graph) SetMaterials(id string, materials ...string) error {
	comp, err := g.Component(id)
	if err != nil {
		return err
	}
	if len(materials) == 0 {
		return fmt.Errorf("%w: component '%s' needs at least one material", ErrInvalidValue, id)
	}
	for _, m := range materials {
		if _, ok := g.Materials[m]; !ok && m != Inherit {
			return fmt.Errorf("%w: material '%s'", ErrUnresolvedReference, m)
		}
	}
	comp.Materials = append([]string(nil), materials...)
	comp.materialIndex = 0
	return nil
}

// ComponentMaterials returns the candidate materials of a component
func (g *Graph) ComponentMaterials(id string) ([]string, error) {
	comp, err := g.Component(id)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), comp.Materials...), nil
}

// SetTransformation replaces the transformation of a component
func (g *Graph) SetTransformation(id string, m glm.Mat4) error {
	comp, err := g.Component(id)
	if err != nil {
		return err
	}
	comp.Transformation = m
	comp.TransformationRef = ""
	return nil
}

// Transformation returns the transformation of a component
func (g *Graph) Transformation(id string) (glm.Mat4, error) {
	comp, err := g.Component(id)
	if err != nil {
		return glm.Ident4(), err
	}
	return comp.Transformation, nil
}

// SetAnimation binds anim to a component, nil removes the animation
func (g *Graph) SetAnimation(id string, anim animation.Animation) error {
	comp, err := g.Component(id)
	if err != nil {
		return err
	}
	comp.Animation = anim
	comp.AnimationID = ""
	if anim != nil {
		anim.Update(g.Time())
	}
	return nil
}

// SetHighlighted turns the highlight of a component on or off. Components
// that declare no highlight colour cannot be highlighted.
func (g *Graph) SetHighlighted(id string, on bool) error {
	comp, err := g.Component(id)
	if err != nil {
		return err
	}
	if comp.Highlight == nil {
		return fmt.Errorf("%w: component '%s' declares no highlight", ErrInvalidValue, id)
	}
	comp.Highlighted = on
	return nil
}

// Stats summarises the table sizes of the graph
func (g *Graph) Stats() map[string]int {
	return map[string]int{
		"views":           len(g.Views),
		"lights":          len(g.Lights),
		"textures":        len(g.Textures),
		"materials":       len(g.Materials),
		"transformations": len(g.Transformations),
		"animations":      len(g.Animations),
		"primitives":      len(g.Primitives),
		"components":      len(g.Components),
	}
}

// PrimitiveIDs returns every primitive instance ID, sorted
func (g *Graph) PrimitiveIDs() []string {
	ids := make([]string, 0, len(g.Primitives))
	for id := range g.Primitives {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
