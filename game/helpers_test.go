package game_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/devblok/sxs/animation"
	"github.com/devblok/sxs/core/schedule"
	"github.com/devblok/sxs/game"
	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type fakeBinder struct {
	time       float32
	materials  map[string][]string
	transforms map[string]glm.Mat4
	animations map[string]animation.Animation
	cameras    [][]string
}

func newFakeBinder() *fakeBinder {
	fb := &fakeBinder{
		materials:  map[string][]string{},
		transforms: map[string]glm.Mat4{},
		animations: map[string]animation.Animation{},
	}
	for row := 0; row < game.Size; row++ {
		for col := 0; col < game.Size; col++ {
			base := "light"
			if (game.Position{Row: row, Col: col}).Dark() {
				base = "dark"
			}
			fb.materials[game.TileID(row, col)] = []string{base}
		}
	}
	for n := 0; n < game.PiecesPerSide; n++ {
		fb.materials[game.CheckerID(game.Black, n)] = []string{"black-wood"}
		fb.materials[game.CheckerID(game.White, n)] = []string{"white-wood"}
	}
	return fb
}

func (fb *fakeBinder) Time() float32 {
	return fb.time
}

func (fb *fakeBinder) ComponentMaterials(id string) ([]string, error) {
	m, ok := fb.materials[id]
	if !ok {
		return nil, fmt.Errorf("no component '%s'", id)
	}
	return m, nil
}

func (fb *fakeBinder) SetMaterials(id string, materials ...string) error {
	if _, ok := fb.materials[id]; !ok {
		return fmt.Errorf("no component '%s'", id)
	}
	fb.materials[id] = materials
	return nil
}

func (fb *fakeBinder) SetTransformation(id string, m glm.Mat4) error {
	fb.transforms[id] = m
	return nil
}

func (fb *fakeBinder) SetAnimation(id string, anim animation.Animation) error {
	fb.animations[id] = anim
	return nil
}

func (fb *fakeBinder) TransitionCamera(views ...string) error {
	fb.cameras = append(fb.cameras, views)
	return nil
}

func (fb *fakeBinder) position(id string) glm.Vec3 {
	return fb.transforms[id].Col(3).Vec3()
}

func place(c game.Color, row, col int) game.Placement {
	return game.Placement{Color: c, Row: row, Col: col}
}

func newGame(t *testing.T, setup ...game.Placement) (*game.Game, *fakeBinder) {
	logger, _ := test.NewNullLogger()
	cfg := game.DefaultConfig()
	cfg.Setup = setup
	fb := newFakeBinder()
	g := game.New(cfg, fb, &schedule.Queue{}, logger)
	require.NoError(t, g.Start())
	return g, fb
}

// settle lets the move animation finish without touching the clocks much
func settle(g *game.Game) {
	g.Update(600 * time.Millisecond)
}
