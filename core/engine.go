// Package core wires the scene graph, the checkers game and a renderer
// into the frame loop driven by the window layer
package core

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/devblok/sxs/assets"
	"github.com/devblok/sxs/core/renderer"
	"github.com/devblok/sxs/core/schedule"
	"github.com/devblok/sxs/game"
	"github.com/devblok/sxs/scene"
	"github.com/devblok/sxs/utility/kar"
	log "github.com/sirupsen/logrus"
)

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}

// LoadScene loads the configured scene document from the bundled assets,
// a directory or a kar archive. The returned closer releases the archive
// and must outlive texture loading.
func LoadScene(cfg Configuration, logger log.FieldLogger) (*scene.Graph, io.Closer, error) {
	var (
		src    scene.Source
		closer io.Closer = closerFunc(func() error { return nil })
	)
	file := cfg.Scene.File

	switch {
	case cfg.Scene.Assets == "":
		src = scene.BoxSource{Box: assets.Box}
		if file == "" {
			file = assets.Scene
		}
	case strings.HasSuffix(cfg.Scene.Assets, ".kar"):
		archive, err := kar.OpenFile(cfg.Scene.Assets)
		if err != nil {
			return nil, nil, err
		}
		src = scene.ArchiveSource{Archive: archive}
		closer = archive
	default:
		src = scene.DirSource(cfg.Scene.Assets)
	}
	if file == "" {
		file = assets.Scene
	}

	graph, err := scene.LoadFile(src, file, scene.Options{
		Logger:           logger,
		ResizeTextures:   cfg.Scene.ResizeTextures,
		AspectRatio:      cfg.Renderer.AspectRatio(),
		CameraTransition: cfg.Scene.CameraTransition.Duration,
	})
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return graph, closer, nil
}

// Engine drives one scene, and the game played on it, frame by frame.
// Every method must be called from the same goroutine.
type Engine struct {
	cfg      Configuration
	graph    *scene.Graph
	game     *game.Game
	renderer renderer.Renderer
	sched    *schedule.Queue
	logger   log.FieldLogger

	highlighted string
}

// NewEngine binds a game to the graph when the configuration enables it
func NewEngine(cfg Configuration, graph *scene.Graph, r renderer.Renderer, logger log.FieldLogger) (*Engine, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	e := &Engine{
		cfg:      cfg,
		renderer: r,
		sched:    &schedule.Queue{},
		logger:   logger,
	}
	if err := e.SetGraph(graph); err != nil {
		return nil, err
	}
	return e, nil
}

// SetGraph swaps the scene, starting a new game on it. When the game
// cannot start on graph the current scene and game are kept.
func (e *Engine) SetGraph(graph *scene.Graph) error {
	var g *game.Game
	if e.cfg.Game.Enabled {
		g = game.New(e.cfg.Game.GameConfig(), graph, e.sched, e.logger)
		if err := g.Start(); err != nil {
			return err
		}
	}

	e.sched.Reset()
	e.graph = graph
	e.game = g
	e.highlighted = ""
	return nil
}

// Graph returns the current scene
func (e *Engine) Graph() *scene.Graph {
	return e.graph
}

// Game returns the game, nil when disabled
func (e *Engine) Game() *game.Game {
	return e.game
}

// Update advances the scene and the game
func (e *Engine) Update(elapsed time.Duration) {
	e.graph.Update(elapsed)
	if e.game != nil {
		e.game.Update(elapsed)
		e.syncHighlight()
	}
}

// Frame draws the scene with the renderer
func (e *Engine) Frame() error {
	return e.graph.Display(e.renderer)
}

// HandleClick dispatches a click on the object at the end of path, the
// component IDs from the root down to the picked one. The deepest
// component the game knows about receives the click.
func (e *Engine) HandleClick(path ...string) error {
	if e.game == nil {
		return nil
	}
	for idx := len(path) - 1; idx >= 0; idx-- {
		if !e.game.Pickable(path[idx]) {
			continue
		}
		return e.command(func() error {
			return e.game.Click(path[idx])
		})
	}
	return nil
}

// HandleKey runs the command bound to key. Digits toggle the lights.
func (e *Engine) HandleKey(key string) error {
	k := e.cfg.Keys
	switch key {
	case "":
		return nil
	case k.NextMaterials:
		e.graph.NextMaterials()
		return nil
	case k.NextView:
		return e.nextView()
	}

	if e.game != nil {
		switch key {
		case k.Lock:
			return e.command(e.game.Lock)
		case k.Undo:
			return e.command(e.game.Undo)
		case k.Replay:
			return e.command(e.game.Replay)
		case k.Reset:
			return e.command(e.game.Reset)
		}
	}

	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(e.graph.Lights) && n <= scene.MaxLights {
		li := e.graph.Lights[n-1]
		return e.graph.SetLightEnabled(li.ID, !li.Enabled)
	}
	return nil
}

// command runs a game action. Rule violations are part of play and
// only logged.
func (e *Engine) command(fn func() error) error {
	err := fn()
	e.syncHighlight()
	if game.IsRuleViolation(err) {
		e.logger.WithError(err).Debug("move rejected")
		return nil
	}
	return err
}

func (e *Engine) nextView() error {
	ids := e.graph.ViewIDs()
	if len(ids) < 2 {
		return nil
	}
	current := e.graph.View()
	next := ids[0]
	for idx, id := range ids {
		if id == current {
			next = ids[(idx+1)%len(ids)]
			break
		}
	}
	return e.graph.TransitionCamera(next)
}

// syncHighlight pulses the checker the player is working with
func (e *Engine) syncHighlight() {
	id := ""
	if ch := e.game.Selected(); ch != nil {
		id = ch.Component
	}
	if id == e.highlighted {
		return
	}
	if e.highlighted != "" {
		if err := e.graph.SetHighlighted(e.highlighted, false); err != nil {
			e.logger.WithError(err).Debug("unable to clear highlight")
		}
	}
	if id != "" {
		if err := e.graph.SetHighlighted(id, true); err != nil {
			e.logger.WithError(err).Debug("unable to highlight")
		}
	}
	e.highlighted = id
}
