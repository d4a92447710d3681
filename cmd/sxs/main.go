package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/devblok/sxs/core"
	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
)

func init() {
	runtime.LockOSThread()
}

var (
	configPath = flag.String("config", core.DefaultConfigurationPath, "Configuration file")
	envFile    = flag.String("env", ".env", "Environment file filling unset variables")
	sceneFile  = flag.String("scene", "", "Scene document, overrides the configuration")
	assetsPath = flag.String("assets", "", "Asset directory or kar archive, overrides the configuration")
	watch      = flag.Bool("watch", false, "Reload the scene when its files change")
	moveLog    = flag.String("movelog", "", "Save the move log here on exit")
	cpuProfile = flag.String("cpuprof", "", "Profile CPU usage to file")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := core.LoadConfiguration(*configPath, *envFile)
	if err != nil {
		return err
	}
	if *sceneFile != "" {
		cfg.Scene.File = *sceneFile
	}
	if *assetsPath != "" {
		cfg.Scene.Assets = *assetsPath
	}
	if *moveLog != "" {
		cfg.Game.MoveLog = *moveLog
	}

	logger, err := core.NewLogger(cfg.Log)
	if err != nil {
		return err
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			return err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return err
	}
	defer sdl.Quit()

	win, err := newWindow(cfg.Renderer, logger)
	if err != nil {
		return err
	}
	defer win.Destroy()

	graph, closer, err := core.LoadScene(cfg, logger)
	if err != nil {
		return err
	}
	for _, w := range graph.Warnings() {
		logger.Warn(w.String())
	}

	width, height := win.Size()
	raster := newRasterizer(width, height, win)
	engine, err := core.NewEngine(cfg, graph, raster, logger)
	if err != nil {
		closer.Close()
		return err
	}

	a := &app{
		cfg:    cfg,
		engine: engine,
		raster: raster,
		window: win,
		closer: closer,
		logger: logger,
	}
	defer a.close()

	var changes <-chan fsnotify.Event
	if *watch {
		watcher, err := a.watch()
		if err != nil {
			return err
		}
		defer watcher.Close()
		changes = watcher.Events
	}

	timeService := core.NewTime(cfg.Time)
	defer timeService.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reload := false
Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		case ev := <-changes:
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				logger.WithField("file", ev.Name).Debug("change detected")
				reload = true
			}
		case <-timeService.EventTicker().C:
			for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
				if !a.handle(event) {
					cancel()
					continue Loop
				}
			}
		case <-timeService.FpsTicker().C:
			if reload {
				reload = false
				a.reload()
			}
			engine.Update(timeService.Elapsed())
			if err := engine.Frame(); err != nil {
				logger.WithError(err).Error("draw failed")
			}
		}
	}
	return a.saveMoveLog()
}

// app holds what the frame loop swaps on reload
type app struct {
	cfg    core.Configuration
	engine *core.Engine
	raster *rasterizer
	window *window
	closer io.Closer
	logger log.FieldLogger
}

// handle processes one SDL event, false means quit
func (a *app) handle(event sdl.Event) bool {
	switch et := event.(type) {
	case *sdl.QuitEvent:
		return false
	case *sdl.KeyboardEvent:
		if et.Type != sdl.KEYDOWN {
			return true
		}
		if et.Keysym.Sym == sdl.K_ESCAPE {
			return false
		}
		if err := a.engine.HandleKey(keyName(et.Keysym.Sym)); err != nil {
			a.logger.WithError(err).Warn("key failed")
		}
	case *sdl.MouseButtonEvent:
		if et.Type != sdl.MOUSEBUTTONDOWN || et.Button != sdl.BUTTON_LEFT {
			return true
		}
		path := a.raster.Pick(float32(et.X), float32(et.Y))
		if err := a.engine.HandleClick(path...); err != nil {
			a.logger.WithError(err).Warn("click failed")
		}
	case *sdl.WindowEvent:
		if et.Event == sdl.WINDOWEVENT_SIZE_CHANGED && et.Data2 > 0 {
			a.raster.Resize(int(et.Data1), int(et.Data2))
			a.engine.Graph().SetAspectRatio(float32(et.Data1) / float32(et.Data2))
		}
	}
	return true
}

// watch observes the directory holding the scene files
func (a *app) watch() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := a.cfg.Scene.Assets
	switch {
	case dir == "":
		a.logger.Warn("bundled assets are not watched")
		return watcher, nil
	case strings.HasSuffix(dir, ".kar"):
		dir = filepath.Dir(dir)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}
	a.logger.WithField("dir", dir).Info("watching scene")
	return watcher, nil
}

// reload loads the scene again and starts over on it. A broken
// document keeps the current scene.
func (a *app) reload() {
	graph, closer, err := core.LoadScene(a.cfg, a.logger)
	if err != nil {
		a.logger.WithError(err).Error("reload failed")
		return
	}
	width, height := a.window.Size()
	if height > 0 {
		graph.SetAspectRatio(float32(width) / float32(height))
	}
	old := a.engine.Graph()
	if err := a.engine.SetGraph(graph); err != nil {
		a.logger.WithError(err).Error("reload failed, keeping the current scene")
		closer.Close()
		return
	}
	a.window.ResetTextures()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	old.WaitTextures(ctx)
	a.closer.Close()
	a.closer = closer

	for _, w := range graph.Warnings() {
		a.logger.Warn(w.String())
	}
	a.logger.Info("scene reloaded")
}

func (a *app) saveMoveLog() error {
	g := a.engine.Game()
	if a.cfg.Game.MoveLog == "" || g == nil {
		return nil
	}
	f, err := os.Create(a.cfg.Game.MoveLog)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := g.Log().Save(f); err != nil {
		return err
	}
	a.logger.WithField("file", a.cfg.Game.MoveLog).Info("move log saved")
	return nil
}

func (a *app) close() {
	if err := a.closer.Close(); err != nil {
		a.logger.WithError(err).Warn("closing assets")
	}
}
