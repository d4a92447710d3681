// Command sxscli checks scene documents and replays saved games
// without opening a window.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/devblok/sxs/core"
	"github.com/devblok/sxs/core/renderer"
	"github.com/devblok/sxs/game"
	"github.com/devblok/sxs/scene"
	log "github.com/sirupsen/logrus"
)

const usage = `usage: sxscli <command> [flags] <file>

commands:
  validate  load a scene document and report warnings and statistics
  replay    play a saved move log on the scene and print the outcome
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "validate":
		err = validate(os.Args[2:], os.Stdout)
	case "replay":
		err = replay(os.Args[2:], os.Stdout)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		var pe *scene.ParseError
		if errors.As(err, &pe) && len(pe.Chain) > 0 {
			fmt.Fprintln(os.Stderr, "chain:", pe.Chain)
		}
		os.Exit(1)
	}
}

// sceneFlags are shared by every command
type sceneFlags struct {
	set    *flag.FlagSet
	assets *string
	config *string
	level  *string
}

func newSceneFlags(name string) sceneFlags {
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	return sceneFlags{
		set:    set,
		assets: set.String("assets", "", "Asset directory or kar archive, bundled assets when empty"),
		config: set.String("config", "", "Configuration file"),
		level:  set.String("log", "warn", "Log level"),
	}
}

func (f sceneFlags) configuration() (core.Configuration, log.FieldLogger, error) {
	cfg, err := core.LoadConfiguration(*f.config)
	if err != nil {
		return cfg, nil, err
	}
	if *f.assets != "" {
		cfg.Scene.Assets = *f.assets
	}
	cfg.Log.Level = *f.level
	logger, err := core.NewLogger(cfg.Log)
	if err != nil {
		return cfg, nil, err
	}
	logger.SetOutput(os.Stderr)
	return cfg, logger, nil
}

func validate(args []string, out io.Writer) error {
	flags := newSceneFlags("validate")
	timeout := flags.set.Duration("timeout", 10*time.Second, "How long to wait for textures")
	if err := flags.set.Parse(args); err != nil {
		return err
	}
	cfg, logger, err := flags.configuration()
	if err != nil {
		return err
	}
	if flags.set.NArg() > 0 {
		cfg.Scene.File = flags.set.Arg(0)
	}

	graph, closer, err := core.LoadScene(cfg, logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	if err := graph.WaitTextures(ctx); err != nil {
		return fmt.Errorf("waiting for textures: %w", err)
	}

	for _, w := range graph.Warnings() {
		fmt.Fprintln(out, "warning:", w)
	}

	textureIDs := make([]string, 0, len(graph.Textures))
	for id := range graph.Textures {
		textureIDs = append(textureIDs, id)
	}
	sort.Strings(textureIDs)
	for _, id := range textureIDs {
		if tex := graph.Textures[id]; tex.Err != nil {
			fmt.Fprintf(out, "texture '%s' untextured: %v\n", id, tex.Err)
		}
	}

	stats := graph.Stats()
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "%-16s %d\n", k, stats[k])
	}
	fmt.Fprintln(out, "ok")
	return nil
}

func replay(args []string, out io.Writer) error {
	flags := newSceneFlags("replay")
	if err := flags.set.Parse(args); err != nil {
		return err
	}
	if flags.set.NArg() != 1 {
		return errors.New("replay needs a move log")
	}
	cfg, logger, err := flags.configuration()
	if err != nil {
		return err
	}
	cfg.Game.Enabled = true

	f, err := os.Open(flags.set.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()
	moves, err := game.LoadMoveLog(f)
	if err != nil {
		return err
	}

	graph, closer, err := core.LoadScene(cfg, logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	engine, err := core.NewEngine(cfg, graph, renderer.NewRecorder(1), logger)
	if err != nil {
		return err
	}
	g := engine.Game()
	simErr := g.Simulate(moves)

	fmt.Fprint(out, g.Board())
	fmt.Fprintf(out, "moves: %d\n", len(g.Log().Moves))
	fmt.Fprintf(out, "captures: black %d, white %d\n", g.Captures(game.Black), g.Captures(game.White))
	if winner, ok := g.Winner(); ok {
		fmt.Fprintf(out, "winner: %s\n", winner)
	} else {
		fmt.Fprintf(out, "to play: %s\n", g.CurrentPlayer())
	}
	return simErr
}
