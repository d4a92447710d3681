package game_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/devblok/sxs/game"
	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func play(t *testing.T, g *game.Game, fromRow, fromCol, toRow, toCol int) {
	t.Helper()
	require.NoError(t, g.ClickCell(fromRow, fromCol))
	require.NoError(t, g.ClickCell(toRow, toCol))
	settle(g)
	require.NoError(t, g.Lock())
}

// opening plays three turns, the last one a black capture
func opening(t *testing.T, g *game.Game) {
	play(t, g, 2, 2, 3, 3)
	play(t, g, 5, 5, 4, 4)
	play(t, g, 3, 3, 5, 5)
}

func TestReplay(t *testing.T) {
	g, fb := newGame(t)
	play(t, g, 2, 0, 3, 1)
	play(t, g, 5, 1, 4, 0)
	turnLeft := g.TurnTimeLeft()

	require.NoError(t, g.Replay())
	assert.Equal(t, game.Replaying, g.State())
	assert.Equal(t, "checker-black-8", g.Board().At(game.Position{Row: 2, Col: 0}).ComponentID())
	assert.Equal(t, "checker-white-0", g.Board().At(game.Position{Row: 5, Col: 1}).ComponentID())
	assert.Equal(t, glm.Vec3{0.5, 0, 2.5}, fb.position("checker-black-8"))
	assert.True(t, game.IsRuleViolation(g.ClickCell(2, 2)))

	g.Update(time.Second)
	assert.True(t, g.Board().At(game.Position{Row: 3, Col: 1}).IsOccupant())
	assert.True(t, g.Board().At(game.Position{Row: 5, Col: 1}).IsOccupant())

	g.Update(time.Second)
	assert.True(t, g.Board().At(game.Position{Row: 4, Col: 0}).IsOccupant())
	assert.Equal(t, game.Replaying, g.State())

	g.Update(time.Second)
	assert.Equal(t, game.Playing, g.State())
	assert.Equal(t, game.Black, g.CurrentPlayer())
	assert.Equal(t, turnLeft, g.TurnTimeLeft())
	assert.True(t, g.Board().At(game.Position{Row: 3, Col: 1}).IsOccupant())
	assert.True(t, g.Board().At(game.Position{Row: 4, Col: 0}).IsOccupant())
	assert.Equal(t, glm.Vec3{0.5, 0, 4.5}, fb.position("checker-white-0"))
}

func TestReplayCaptures(t *testing.T) {
	g, _ := newGame(t)
	opening(t, g)
	require.Equal(t, 1, g.Captures(game.Black))

	require.NoError(t, g.Replay())
	assert.Equal(t, 0, g.Captures(game.Black))
	g.Update(3 * time.Second)
	assert.Equal(t, 1, g.Captures(game.Black))
	g.Update(time.Second)
	assert.Equal(t, game.Playing, g.State())
	assert.Equal(t, 1, g.Captures(game.Black))
}

func TestReplayRejected(t *testing.T) {
	g, _ := newGame(t)
	assert.True(t, game.IsRuleViolation(g.Replay()), "nothing to replay")

	play(t, g, 2, 0, 3, 1)
	require.NoError(t, g.ClickCell(5, 1))
	assert.True(t, game.IsRuleViolation(g.Replay()))
}

func TestResetCancelsReplay(t *testing.T) {
	g, _ := newGame(t)
	play(t, g, 2, 0, 3, 1)
	require.NoError(t, g.Replay())
	require.NoError(t, g.Reset())

	g.Update(5 * time.Second)
	assert.Equal(t, game.Playing, g.State())
	assert.False(t, g.Board().At(game.Position{Row: 3, Col: 1}).IsOccupant())
	assert.Empty(t, g.Log().Moves)
}

func TestSimulate(t *testing.T) {
	g, _ := newGame(t)
	opening(t, g)

	var buf bytes.Buffer
	require.NoError(t, g.Log().Save(&buf))
	l, err := game.LoadMoveLog(&buf)
	require.NoError(t, err)
	require.Len(t, l.Moves, 3)

	replayed, _ := newGame(t)
	require.NoError(t, replayed.Simulate(l))
	assert.Equal(t, g.Board().String(), replayed.Board().String())
	assert.Equal(t, 1, replayed.Captures(game.Black))
	assert.Equal(t, game.White, replayed.CurrentPlayer())
	assert.Equal(t, game.Playing, replayed.State())
	assert.Equal(t, l.Moves, replayed.Log().Moves)
}

func TestSimulateCombo(t *testing.T) {
	setup := []game.Placement{
		place(game.Black, 2, 2),
		place(game.White, 3, 3),
		place(game.White, 5, 5),
		place(game.White, 7, 1),
	}
	l := game.MoveLog{
		Setup: setup,
		Moves: []game.MoveRecord{
			{Color: game.Black, From: game.Position{Row: 2, Col: 2}, To: game.Position{Row: 4, Col: 4}},
			{Color: game.Black, From: game.Position{Row: 4, Col: 4}, To: game.Position{Row: 6, Col: 6}},
			{Color: game.White, From: game.Position{Row: 7, Col: 1}, To: game.Position{Row: 6, Col: 0}},
		},
	}

	g, _ := newGame(t)
	require.NoError(t, g.Simulate(l))
	assert.Equal(t, 2, g.Captures(game.Black))
	assert.Equal(t, game.Black, g.CurrentPlayer())
}

func TestSimulateIllegal(t *testing.T) {
	for name, moves := range map[string][]game.MoveRecord{
		"wrong colour": {
			{Color: game.White, From: game.Position{Row: 5, Col: 1}, To: game.Position{Row: 4, Col: 0}},
		},
		"too far": {
			{Color: game.Black, From: game.Position{Row: 2, Col: 2}, To: game.Position{Row: 4, Col: 4}},
		},
		"empty cell": {
			{Color: game.Black, From: game.Position{Row: 3, Col: 3}, To: game.Position{Row: 4, Col: 4}},
		},
	} {
		t.Run(name, func(t *testing.T) {
			g, _ := newGame(t)
			assert.Error(t, g.Simulate(game.MoveLog{Moves: moves}))
		})
	}
}
