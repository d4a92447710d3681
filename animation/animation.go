package animation

import (
	"errors"
	"sort"

	"github.com/chewxy/math32"
	glm "github.com/go-gl/mathgl/mgl32"
)

// ErrNoKeyframes is returned when an animation is created without keyframes
var ErrNoKeyframes = errors.New("animation needs at least one keyframe")

// TransformScope is anything holding a current transformation that an
// animation can multiply into, such as the display driver's matrix stack
type TransformScope interface {
	MultMatrix(glm.Mat4)
}

// Animation is the per-component animation contract used by the scene
type Animation interface {
	// Update advances the animation to absolute time t, in seconds
	Update(t float32)

	// Apply multiplies the current pose into scope
	Apply(scope TransformScope)

	// Matrix returns the current pose
	Matrix() glm.Mat4

	// Done reports whether the final pose has been reached for good
	Done() bool
}

// KeyframeAnimation interpolates between an ordered list of keyframes
type KeyframeAnimation struct {
	keyframes []*Keyframe
	loop      bool
	origin    float32

	cursor  int
	current float32
	active  bool
	matrix  glm.Mat4
}

// NewKeyframeAnimation sorts the keyframes by instant. A looping animation
// wraps time modulo the last instant.
func NewKeyframeAnimation(keyframes []*Keyframe, loop bool) (*KeyframeAnimation, error) {
	if len(keyframes) == 0 {
		return nil, ErrNoKeyframes
	}
	sorted := append([]*Keyframe(nil), keyframes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Instant < sorted[j].Instant
	})
	return &KeyframeAnimation{
		keyframes: sorted,
		loop:      loop,
		matrix:    glm.Ident4(),
	}, nil
}

// StartAt makes instants relative to t rather than to time zero
func (ka *KeyframeAnimation) StartAt(t float32) {
	ka.origin = t
	ka.cursor = 0
	ka.current = 0
	ka.active = false
	ka.matrix = glm.Ident4()
}

// Keyframes returns the sorted keyframes
func (ka *KeyframeAnimation) Keyframes() []*Keyframe {
	return ka.keyframes
}

// Duration is the instant of the last keyframe
func (ka *KeyframeAnimation) Duration() float32 {
	return ka.keyframes[len(ka.keyframes)-1].Instant
}

// Update implements interface. Before the first instant the animation is
// inactive and yields identity, at or after the last instant it freezes
// on the final pose unless it loops.
func (ka *KeyframeAnimation) Update(t float32) {
	t -= ka.origin
	first := ka.keyframes[0].Instant
	last := ka.Duration()

	if ka.loop && last > 0 && t >= last {
		t = math32.Mod(t, last)
	}
	if t < ka.current {
		ka.cursor = 0
	}
	ka.current = t

	if t < first {
		ka.active = false
		ka.matrix = glm.Ident4()
		return
	}
	ka.active = true

	if t >= last {
		n := len(ka.keyframes)
		var prev *Keyframe
		if n > 1 {
			prev = ka.keyframes[n-2]
		}
		ka.cursor = n - 1
		ka.matrix = ka.keyframes[n-1].Transform(prev, 1)
		return
	}

	// cursor ends on the first keyframe strictly after t
	for ka.cursor < len(ka.keyframes) && ka.keyframes[ka.cursor].Instant <= t {
		ka.cursor++
	}
	prev := ka.keyframes[ka.cursor-1]
	next := ka.keyframes[ka.cursor]
	pct := (t - prev.Instant) / (next.Instant - prev.Instant)
	ka.matrix = next.Transform(prev, pct)
}

// Active reports whether the first keyframe instant has been reached
func (ka *KeyframeAnimation) Active() bool {
	return ka.active
}

// Done implements interface
func (ka *KeyframeAnimation) Done() bool {
	return !ka.loop && ka.current >= ka.Duration()
}

// Matrix implements interface
func (ka *KeyframeAnimation) Matrix() glm.Mat4 {
	return ka.matrix
}

// Apply implements interface
func (ka *KeyframeAnimation) Apply(scope TransformScope) {
	scope.MultMatrix(ka.matrix)
}
