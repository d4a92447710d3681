// Package animation interpolates transformations over time: keyframe
// animations for scene components and camera transitions between views.
package animation

import (
	"github.com/chewxy/math32"
	glm "github.com/go-gl/mathgl/mgl32"
)

// Keyframe is a timestamped pose. The transformation is decomposed once
// on construction so rotation, scale and translation can be
// interpolated independently.
type Keyframe struct {
	Instant float32
	Matrix  glm.Mat4

	Rotation    glm.Quat
	Scale       glm.Vec3
	Translation glm.Vec3
}

// NewKeyframe decomposes m into its rotation, scale and translation
func NewKeyframe(instant float32, m glm.Mat4) *Keyframe {
	return &Keyframe{
		Instant:     instant,
		Matrix:      m,
		Rotation:    Rotation(m),
		Scale:       Scaling(m),
		Translation: Translation(m),
	}
}

// Translation extracts the translation column of an affine matrix
func Translation(m glm.Mat4) glm.Vec3 {
	return glm.Vec3{m[12], m[13], m[14]}
}

// Scaling extracts per axis scale factors as the length of each basis column
func Scaling(m glm.Mat4) glm.Vec3 {
	return glm.Vec3{
		math32.Hypot(math32.Hypot(m[0], m[1]), m[2]),
		math32.Hypot(math32.Hypot(m[4], m[5]), m[6]),
		math32.Hypot(math32.Hypot(m[8], m[9]), m[10]),
	}
}

// Rotation extracts the rotation of an affine matrix as a unit quaternion,
// removing scale from the basis columns first
func Rotation(m glm.Mat4) glm.Quat {
	s := Scaling(m)
	var r glm.Mat4
	for col := 0; col < 3; col++ {
		inv := float32(1)
		if s[col] != 0 {
			inv = 1 / s[col]
		}
		for row := 0; row < 3; row++ {
			r[col*4+row] = m[col*4+row] * inv
		}
	}
	r[15] = 1
	return glm.Mat4ToQuat(r).Normalize()
}

// FromRotationTranslationScale rebuilds the affine matrix T * R * S
func FromRotationTranslationScale(q glm.Quat, t, s glm.Vec3) glm.Mat4 {
	return glm.Translate3D(t[0], t[1], t[2]).
		Mul4(q.Normalize().Mat4()).
		Mul4(glm.Scale3D(s[0], s[1], s[2]))
}

// Transform interpolates from prev to this keyframe at pct in [0, 1].
// A nil prev interpolates from the identity pose.
func (k *Keyframe) Transform(prev *Keyframe, pct float32) glm.Mat4 {
	fromRot := glm.QuatIdent()
	fromScale := glm.Vec3{1, 1, 1}
	fromTrans := glm.Vec3{}
	if prev != nil {
		fromRot, fromScale, fromTrans = prev.Rotation, prev.Scale, prev.Translation
	}
	pct = glm.Clamp(pct, 0, 1)

	return FromRotationTranslationScale(
		slerp(fromRot, k.Rotation, pct),
		lerp(fromTrans, k.Translation, pct),
		lerp(fromScale, k.Scale, pct),
	)
}

func lerp(a, b glm.Vec3, t float32) glm.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// slerp takes the shortest arc between the two rotations
func slerp(a, b glm.Quat, t float32) glm.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return glm.QuatSlerp(a, b, t)
}
