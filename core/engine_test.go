package core_test

import (
	"testing"
	"time"

	"github.com/devblok/sxs/core"
	"github.com/devblok/sxs/core/renderer"
	"github.com/devblok/sxs/game"
	"github.com/devblok/sxs/scene"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, cfg core.Configuration) (*core.Engine, *renderer.Recorder) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	graph, closer, err := core.LoadScene(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { closer.Close() })

	rec := renderer.NewRecorder(1)
	e, err := core.NewEngine(cfg, graph, rec, logger)
	require.NoError(t, err)
	return e, rec
}

func drawsUnder(frame *renderer.Frame, component string) []renderer.DrawCall {
	var draws []renderer.DrawCall
	for _, dc := range frame.Draws {
		for _, id := range dc.Path {
			if id == component {
				draws = append(draws, dc)
				break
			}
		}
	}
	return draws
}

func TestEnginePlaysTurn(t *testing.T) {
	e, rec := newEngine(t, core.DefaultConfiguration())
	g := e.Game()
	require.NotNil(t, g)
	assert.Equal(t, game.Playing, g.State())

	// the deepest component the game knows receives the click
	require.NoError(t, e.HandleClick("root", "pieces", "checker-black-8", "piece"))
	assert.Equal(t, game.CheckerSelected, g.State())

	materials, err := e.Graph().ComponentMaterials("tile-3-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"highlighted"}, materials)

	comp, err := e.Graph().Component("checker-black-8")
	require.NoError(t, err)
	assert.True(t, comp.Highlighted)

	require.NoError(t, e.Frame())
	frame := rec.Last()
	require.NotNil(t, frame)
	assert.Len(t, frame.Draws, 115)
	for _, dc := range drawsUnder(frame, "checker-black-8") {
		assert.NotNil(t, dc.Highlight)
	}
	for _, dc := range drawsUnder(frame, "checker-black-9") {
		assert.Nil(t, dc.Highlight)
	}

	require.NoError(t, e.HandleClick("root", "board", "tile-3-1"))
	assert.Equal(t, game.Animating, g.State())
	assert.False(t, comp.Highlighted)

	e.Update(600 * time.Millisecond)
	assert.Equal(t, game.CanLock, g.State())

	require.NoError(t, e.HandleKey("l"))
	assert.Equal(t, game.White, g.CurrentPlayer())
	assert.True(t, e.Graph().Transitioning())
}

func TestEngineIgnoresViolations(t *testing.T) {
	e, _ := newEngine(t, core.DefaultConfiguration())

	assert.NoError(t, e.HandleClick("root", "pieces", "checker-white-0", "piece"))
	assert.NoError(t, e.HandleClick("root", "table"))
	assert.NoError(t, e.HandleKey("l"))
	assert.NoError(t, e.HandleKey("u"))
	assert.Equal(t, game.Playing, e.Game().State())
}

func TestEngineKeys(t *testing.T) {
	e, _ := newEngine(t, core.DefaultConfiguration())
	graph := e.Graph()

	require.True(t, graph.Lights[1].Enabled)
	require.NoError(t, e.HandleKey("2"))
	assert.False(t, graph.Lights[1].Enabled)
	require.NoError(t, e.HandleKey("2"))
	assert.True(t, graph.Lights[1].Enabled)
	require.NoError(t, e.HandleKey("9"))

	e.Update(2 * time.Second)
	require.Equal(t, "player-black", graph.View())
	require.NoError(t, e.HandleKey("v"))
	assert.True(t, graph.Transitioning())
	e.Update(2 * time.Second)
	assert.Equal(t, "player-white", graph.View())

	require.NoError(t, e.HandleClick("checker-black-8"))
	require.NoError(t, e.HandleClick("tile-3-1"))
	require.NoError(t, e.HandleKey("n"))
	assert.Equal(t, game.Playing, e.Game().State())
	assert.True(t, e.Game().Board().At(game.Position{Row: 2, Col: 0}).IsOccupant())
}

func TestEngineWithoutGame(t *testing.T) {
	cfg := core.DefaultConfiguration()
	cfg.Game.Enabled = false
	e, rec := newEngine(t, cfg)

	assert.Nil(t, e.Game())
	assert.NoError(t, e.HandleClick("checker-black-8"))
	assert.NoError(t, e.HandleKey("l"))
	e.Update(time.Second)
	require.NoError(t, e.Frame())
	assert.Len(t, rec.Last().Draws, 115)
}

func TestEngineSceneMismatch(t *testing.T) {
	cfg := core.DefaultConfiguration()
	cfg.Scene.Assets = "../scene/testdata"
	cfg.Scene.File = "basic.xml"
	logger, _ := test.NewNullLogger()

	graph, closer, err := core.LoadScene(cfg, logger)
	require.NoError(t, err)
	defer closer.Close()

	_, err = core.NewEngine(cfg, graph, renderer.NewRecorder(1), logger)
	assert.ErrorIs(t, err, scene.ErrUnresolvedReference)
}

func TestEngineSetGraphKeepsGame(t *testing.T) {
	e, _ := newEngine(t, core.DefaultConfiguration())
	graph, g := e.Graph(), e.Game()
	require.NoError(t, e.HandleClick("root", "pieces", "checker-black-8", "piece"))
	require.Equal(t, game.CheckerSelected, g.State())

	cfg := core.DefaultConfiguration()
	cfg.Scene.Assets = "../scene/testdata"
	cfg.Scene.File = "basic.xml"
	logger, _ := test.NewNullLogger()
	broken, closer, err := core.LoadScene(cfg, logger)
	require.NoError(t, err)
	defer closer.Close()

	assert.ErrorIs(t, e.SetGraph(broken), scene.ErrUnresolvedReference)
	assert.Same(t, graph, e.Graph())
	assert.Same(t, g, e.Game())
	assert.Equal(t, game.CheckerSelected, g.State())

	fresh, closer2, err := core.LoadScene(core.DefaultConfiguration(), logger)
	require.NoError(t, err)
	defer closer2.Close()
	require.NoError(t, e.SetGraph(fresh))
	assert.Same(t, fresh, e.Graph())
	assert.NotSame(t, g, e.Game())
	assert.Equal(t, game.Playing, e.Game().State())
}

func TestLoadSceneErrors(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cfg := core.DefaultConfiguration()

	cfg.Scene.Assets = t.TempDir()
	_, _, err := core.LoadScene(cfg, logger)
	assert.Error(t, err)

	cfg.Scene.Assets = "missing.kar"
	_, _, err = core.LoadScene(cfg, logger)
	assert.Error(t, err)
}
