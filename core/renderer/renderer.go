// Package renderer declares what the scene expects from a rendering
// backend. The scene graph resolves every inherited state before a draw,
// so a backend only ever sees concrete values.
package renderer

import (
	"image"

	"github.com/devblok/sxs/model"
	glm "github.com/go-gl/mathgl/mgl32"
)

// Renderer describes the rendering machinery
type Renderer interface {
	// BeginFrame clears the target with the background colour
	BeginFrame(background glm.Vec4)

	// SetCamera resets projection and view matrices
	SetCamera(Camera)

	// SetLights replaces the global ambient and the light set.
	// Only enabled lights are passed in.
	SetLights(ambient glm.Vec4, lights []Light)

	// SetUniform sets a named time varying shader value
	SetUniform(name string, value float32)

	// DrawMesh issues a single primitive draw
	DrawMesh(DrawCall)

	// EndFrame presents the frame
	EndFrame() error
}

// Material is a fully resolved surface description
type Material struct {
	Emission  glm.Vec4
	Ambient   glm.Vec4
	Diffuse   glm.Vec4
	Specular  glm.Vec4
	Shininess float32
}

// Texture is a decoded image ready for upload
type Texture struct {
	ID    string
	Image image.Image
}

// Size returns the pixel dimensions of the texture image
func (t *Texture) Size() (int, int) {
	if t == nil || t.Image == nil {
		return 0, 0
	}
	b := t.Image.Bounds()
	return b.Dx(), b.Dy()
}

// Camera is the view state handed to the renderer
type Camera struct {
	ID         string
	Position   glm.Vec3
	View       glm.Mat4
	Projection glm.Mat4
}

// Light is a resolved omni or spot light
type Light struct {
	ID       string
	Spot     bool
	Location glm.Vec4
	Ambient  glm.Vec4
	Diffuse  glm.Vec4
	Specular glm.Vec4

	// Constant, linear, quadratic
	Attenuation glm.Vec3

	Angle     float32
	Exponent  float32
	Direction glm.Vec3
}

// Highlight is the pulsing colour a highlighted component is drawn with
type Highlight struct {
	Color glm.Vec3
	Scale float32
}

// DrawCall carries everything needed to draw one primitive instance
type DrawCall struct {
	// Path lists component IDs from the root to the component
	// that owns the primitive
	Path      []string
	Primitive string
	Mesh      *model.Mesh
	Model     glm.Mat4
	Material  Material

	// Texture is nil when texturing is disabled for the subtree
	Texture *Texture

	Highlight *Highlight
}

// Owner returns the component directly holding the primitive
func (dc DrawCall) Owner() string {
	if len(dc.Path) == 0 {
		return ""
	}
	return dc.Path[len(dc.Path)-1]
}

// Uniform names set by the scene
const (
	UniformTimeFactor = "timeFactor"
	UniformTime       = "time"
)
