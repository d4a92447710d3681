package renderer

import (
	glm "github.com/go-gl/mathgl/mgl32"
)

// Frame is everything a Recorder saw between BeginFrame and EndFrame
type Frame struct {
	Background glm.Vec4
	Camera     Camera
	Ambient    glm.Vec4
	Lights     []Light
	Uniforms   map[string]float32
	Draws      []DrawCall
}

// Recorder is a headless renderer that keeps the last frames it was given
type Recorder struct {
	// Keep bounds the number of stored frames, 0 keeps one
	Keep int

	frames  []*Frame
	current *Frame
}

// NewRecorder creates a recorder keeping the last keep frames
func NewRecorder(keep int) *Recorder {
	return &Recorder{Keep: keep}
}

func (r *Recorder) frame() *Frame {
	if r.current == nil {
		r.current = &Frame{Uniforms: map[string]float32{}}
	}
	return r.current
}

// BeginFrame implements interface
func (r *Recorder) BeginFrame(background glm.Vec4) {
	r.current = &Frame{
		Background: background,
		Uniforms:   map[string]float32{},
	}
}

// SetCamera implements interface
func (r *Recorder) SetCamera(cam Camera) {
	r.frame().Camera = cam
}

// SetLights implements interface
func (r *Recorder) SetLights(ambient glm.Vec4, lights []Light) {
	f := r.frame()
	f.Ambient = ambient
	f.Lights = append([]Light(nil), lights...)
}

// SetUniform implements interface
func (r *Recorder) SetUniform(name string, value float32) {
	r.frame().Uniforms[name] = value
}

// DrawMesh implements interface
func (r *Recorder) DrawMesh(dc DrawCall) {
	f := r.frame()
	dc.Path = append([]string(nil), dc.Path...)
	f.Draws = append(f.Draws, dc)
}

// EndFrame implements interface
func (r *Recorder) EndFrame() error {
	keep := r.Keep
	if keep <= 0 {
		keep = 1
	}
	r.frames = append(r.frames, r.frame())
	if len(r.frames) > keep {
		r.frames = r.frames[len(r.frames)-keep:]
	}
	r.current = nil
	return nil
}

// Frames returns the stored frames, oldest first
func (r *Recorder) Frames() []*Frame {
	return r.frames
}

// Last returns the most recently finished frame or nil
func (r *Recorder) Last() *Frame {
	if len(r.frames) == 0 {
		return nil
	}
	return r.frames[len(r.frames)-1]
}

// DrawsOf returns the draws in the last frame owned by the given component
func (r *Recorder) DrawsOf(component string) []DrawCall {
	last := r.Last()
	if last == nil {
		return nil
	}
	var draws []DrawCall
	for _, dc := range last.Draws {
		if dc.Owner() == component {
			draws = append(draws, dc)
		}
	}
	return draws
}
