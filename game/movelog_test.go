package game_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/devblok/sxs/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveLogYAML(t *testing.T) {
	l := game.MoveLog{
		Setup: []game.Placement{{Color: game.White, Row: 3, Col: 3, King: true}},
		Moves: []game.MoveRecord{
			{Color: game.Black, From: game.Position{Row: 2, Col: 0}, To: game.Position{Row: 3, Col: 1}},
			{Color: game.White, From: game.Position{Row: 5, Col: 1}, To: game.Position{Row: 4, Col: 0}},
		},
		Winner: "white",
	}

	var buf bytes.Buffer
	require.NoError(t, l.Save(&buf))
	assert.Contains(t, buf.String(), "color: black")
	assert.Contains(t, buf.String(), "winner: white")

	loaded, err := game.LoadMoveLog(&buf)
	require.NoError(t, err)
	assert.Equal(t, l, loaded)
}

func TestLoadMoveLogErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"colour":   "moves:\n  - {color: red, from: {row: 2, col: 0}, to: {row: 3, col: 1}}\n",
		"off":      "moves:\n  - {color: black, from: {row: 7, col: 7}, to: {row: 8, col: 8}}\n",
		"garbage":  "moves: [[[\n",
		"no moves": "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := game.LoadMoveLog(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestMoveRecordMove(t *testing.T) {
	step := game.MoveRecord{From: game.Position{Row: 2, Col: 0}, To: game.Position{Row: 3, Col: 1}}
	assert.False(t, step.Move().Capture)

	jump := game.MoveRecord{From: game.Position{Row: 5, Col: 5}, To: game.Position{Row: 3, Col: 3}}
	m := jump.Move()
	assert.True(t, m.Capture)
	assert.Equal(t, game.Position{Row: 4, Col: 4}, m.Over)
}
