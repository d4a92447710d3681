package renderer_test

import (
	"testing"

	"github.com/devblok/sxs/core/renderer"
	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderKeepsFrames(t *testing.T) {
	r := renderer.NewRecorder(2)
	assert.Nil(t, r.Last())

	for i := 0; i < 3; i++ {
		r.BeginFrame(glm.Vec4{0, 0, 0, 1})
		r.SetUniform(renderer.UniformTime, float32(i))
		require.NoError(t, r.EndFrame())
	}

	require.Len(t, r.Frames(), 2)
	assert.Equal(t, float32(2), r.Last().Uniforms[renderer.UniformTime])
}

func TestRecorderDrawsOf(t *testing.T) {
	r := renderer.NewRecorder(0)
	path := []string{"root", "board", "tile-0-0"}

	r.BeginFrame(glm.Vec4{})
	r.SetCamera(renderer.Camera{ID: "overview"})
	r.DrawMesh(renderer.DrawCall{Path: path, Primitive: "square"})
	r.DrawMesh(renderer.DrawCall{Path: path[:2], Primitive: "frame"})
	path[2] = "mutated"
	require.NoError(t, r.EndFrame())

	draws := r.DrawsOf("tile-0-0")
	require.Len(t, draws, 1)
	assert.Equal(t, "square", draws[0].Primitive)
	assert.Equal(t, "overview", r.Last().Camera.ID)
	assert.Empty(t, renderer.DrawCall{}.Owner())
}

func TestAspectRatio(t *testing.T) {
	assert.Equal(t, float32(2), renderer.Configuration{ScreenWidth: 800, ScreenHeight: 400}.AspectRatio())
	assert.Equal(t, float32(1), renderer.Configuration{}.AspectRatio())
}
