package animation

import (
	glm "github.com/go-gl/mathgl/mgl32"
)

// CameraPose is the interpolatable state of a view
type CameraPose struct {
	Position glm.Vec3
	Target   glm.Vec3
	Up       glm.Vec3
	Fov      float32
	Near     float32
	Far      float32
}

// Lerp blends two poses linearly
func (p CameraPose) Lerp(to CameraPose, t float32) CameraPose {
	return CameraPose{
		Position: lerp(p.Position, to.Position, t),
		Target:   lerp(p.Target, to.Target, t),
		Up:       lerp(p.Up, to.Up, t),
		Fov:      p.Fov + (to.Fov-p.Fov)*t,
		Near:     p.Near + (to.Near-p.Near)*t,
		Far:      p.Far + (to.Far-p.Far)*t,
	}
}

// CameraAnimation moves a camera from one pose to another over a fixed
// window of time starting when Start is called
type CameraAnimation struct {
	From     CameraPose
	To       CameraPose
	Duration float32

	started  bool
	start    float32
	end      float32
	ongoing  bool
	finished bool
	pose     CameraPose
}

// NewCameraAnimation creates a not yet started camera transition
func NewCameraAnimation(from, to CameraPose, duration float32) *CameraAnimation {
	return &CameraAnimation{
		From:     from,
		To:       to,
		Duration: duration,
		pose:     from,
	}
}

// Start opens the time window at t
func (ca *CameraAnimation) Start(t float32) {
	ca.started = true
	ca.start = t
	ca.end = t + ca.Duration
	ca.ongoing = true
	ca.finished = false
	ca.pose = ca.From
}

// Update interpolates the pose for time t, snapping onto the target
// once the window has passed
func (ca *CameraAnimation) Update(t float32) {
	if !ca.started || t < ca.start {
		ca.ongoing = false
		return
	}
	if t >= ca.end || ca.Duration <= 0 {
		ca.pose = ca.To
		ca.ongoing = false
		ca.finished = true
		return
	}
	ca.pose = ca.From.Lerp(ca.To, (t-ca.start)/(ca.end-ca.start))
	ca.ongoing = true
}

// Ongoing reports whether the animation is inside its time window
func (ca *CameraAnimation) Ongoing() bool {
	return ca.ongoing
}

// Finished reports whether the animation was started and has ended
func (ca *CameraAnimation) Finished() bool {
	return ca.finished
}

// Pose returns the current interpolated pose
func (ca *CameraAnimation) Pose() CameraPose {
	return ca.pose
}

// Apply writes the current pose into cam while the animation runs
func (ca *CameraAnimation) Apply(cam *CameraPose) {
	if !ca.ongoing {
		return
	}
	*cam = ca.pose
}

// CameraTimeline chains camera animations one after another
type CameraTimeline struct {
	segments []*CameraAnimation
	index    int
	now      float32
}

// Push appends a segment; it starts when the previous one ends
func (ct *CameraTimeline) Push(seg *CameraAnimation) {
	ct.segments = append(ct.segments, seg)
}

// Start begins the first segment at t
func (ct *CameraTimeline) Start(t float32) {
	ct.index = 0
	ct.now = t
	if len(ct.segments) > 0 {
		ct.segments[0].Start(t)
	}
}

// Update advances through as many segments as time t covers
func (ct *CameraTimeline) Update(t float32) {
	ct.now = t
	for ct.index < len(ct.segments) {
		seg := ct.segments[ct.index]
		seg.Update(t)
		if !seg.Finished() || ct.index == len(ct.segments)-1 {
			return
		}
		ct.index++
		ct.segments[ct.index].Start(seg.end)
	}
}

// Pose returns the pose of the running segment
func (ct *CameraTimeline) Pose() CameraPose {
	if len(ct.segments) == 0 {
		return CameraPose{}
	}
	if ct.index >= len(ct.segments) {
		return ct.segments[len(ct.segments)-1].To
	}
	return ct.segments[ct.index].Pose()
}

// Done reports whether the last segment has finished
func (ct *CameraTimeline) Done() bool {
	if len(ct.segments) == 0 {
		return true
	}
	last := ct.segments[len(ct.segments)-1]
	return ct.index == len(ct.segments)-1 && last.Finished()
}
