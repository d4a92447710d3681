package core

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"strconv"
	"time"

	"github.com/devblok/sxs/core/renderer"
	"github.com/devblok/sxs/game"
	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	log "github.com/sirupsen/logrus"
)

// Environment variables overriding the configuration file
const (
	EnvScene    = "SXS_SCENE"
	EnvLogLevel = "SXS_LOG_LEVEL"
	EnvFps      = "SXS_FPS"
	EnvAssets   = "SXS_ASSETS"
)

// DefaultConfigurationPath is where the binaries look for a configuration
const DefaultConfigurationPath = "~/.config/sxs/sxs.toml"

// Configuration defines a global engine configuration setting
type Configuration struct {
	Time     TimeConfiguration      `toml:"time"`
	Renderer renderer.Configuration `toml:"renderer"`
	Scene    SceneConfiguration     `toml:"scene"`
	Game     GameConfiguration      `toml:"game"`
	Keys     KeyConfiguration       `toml:"keys"`
	Log      LogConfiguration       `toml:"log"`
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out
	// To unlimit, set to 0
	FramesPerSecond int `toml:"fps"`

	// EventPollDelay is the delay between input polls in milliseconds
	EventPollDelay int `toml:"event_poll_delay"`
}

// SceneConfiguration selects the scene document and where its assets live
type SceneConfiguration struct {
	// File is the scene document, relative to Assets
	File string `toml:"file"`

	// Assets is a directory or a kar archive. Empty means the bundled assets.
	Assets string `toml:"assets"`

	ResizeTextures   bool     `toml:"resize_textures"`
	CameraTransition Duration `toml:"camera_transition"`
}

// GameConfiguration configures the checkers game played on the scene
type GameConfiguration struct {
	Enabled      bool     `toml:"enabled"`
	TurnTime     Duration `toml:"turn_time"`
	GameTime     Duration `toml:"game_time"`
	MoveTime     Duration `toml:"move_time"`
	ComboDelay   Duration `toml:"combo_delay"`
	ReplayDelay  Duration `toml:"replay_delay"`
	WarningFlash Duration `toml:"warning_flash"`

	Layout    game.Layout    `toml:"layout"`
	Views     game.Views     `toml:"views"`
	Materials game.Materials `toml:"materials"`

	// MoveLog is where the move log is saved on exit, empty disables it
	MoveLog string `toml:"move_log"`
}

// KeyConfiguration maps key names, as reported by the window, to commands
type KeyConfiguration struct {
	NextMaterials string `toml:"next_materials"`
	NextView      string `toml:"next_view"`
	Lock          string `toml:"lock"`
	Undo          string `toml:"undo"`
	Replay        string `toml:"replay"`
	Reset         string `toml:"reset"`
}

// LogConfiguration configures the logger
type LogConfiguration struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Duration reads and writes durations as text, e.g. "1.5s"
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfiguration returns the settings used when nothing else is given
func DefaultConfiguration() Configuration {
	g := game.DefaultConfig()
	return Configuration{
		Time: TimeConfiguration{
			FramesPerSecond: 60,
			EventPollDelay:  10,
		},
		Renderer: renderer.Configuration{
			ScreenWidth:  800,
			ScreenHeight: 600,
			Title:        "sxs",
		},
		Scene: SceneConfiguration{
			CameraTransition: Duration{1500 * time.Millisecond},
		},
		Game: GameConfiguration{
			Enabled:      true,
			TurnTime:     Duration{g.TurnTime},
			GameTime:     Duration{g.GameTime},
			MoveTime:     Duration{g.MoveTime},
			ComboDelay:   Duration{g.ComboDelay},
			ReplayDelay:  Duration{g.ReplayDelay},
			WarningFlash: Duration{g.WarningFlash},
			Layout:       g.Layout,
			Views:        g.Views,
			Materials:    g.Materials,
		},
		Keys: KeyConfiguration{
			NextMaterials: "m",
			NextView:      "v",
			Lock:          "l",
			Undo:          "u",
			Replay:        "r",
			Reset:         "n",
		},
		Log: LogConfiguration{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfiguration reads a TOML configuration over the defaults, then
// applies the environment. A missing file at the default path is not an
// error. Variables from envFiles fill in what the environment lacks.
func LoadConfiguration(path string, envFiles ...string) (Configuration, error) {
	cfg := DefaultConfiguration()

	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return cfg, err
		}
		data, err := ioutil.ReadFile(expanded)
		switch {
		case errors.Is(err, os.ErrNotExist) && path == DefaultConfigurationPath:
		case err != nil:
			return cfg, err
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing %s: %w", expanded, err)
			}
		}
	}

	if len(envFiles) > 0 {
		vars, err := godotenv.Read(envFiles...)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, err
		}
		for k, v := range vars {
			if envy.Get(k, "") == "" {
				envy.Set(k, v)
			}
		}
	}

	if err := cfg.applyEnvironment(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Configuration) applyEnvironment() error {
	c.Scene.File = envy.Get(EnvScene, c.Scene.File)
	c.Scene.Assets = envy.Get(EnvAssets, c.Scene.Assets)
	c.Log.Level = envy.Get(EnvLogLevel, c.Log.Level)
	if fps := envy.Get(EnvFps, ""); fps != "" {
		v, err := strconv.Atoi(fps)
		if err != nil || v < 0 {
			return fmt.Errorf("%s must be a non-negative integer, got '%s'", EnvFps, fps)
		}
		c.Time.FramesPerSecond = v
	}
	return nil
}

// GameConfig converts the section into a game configuration
func (c GameConfiguration) GameConfig() game.Config {
	return game.Config{
		TurnTime:     c.TurnTime.Duration,
		GameTime:     c.GameTime.Duration,
		MoveTime:     c.MoveTime.Duration,
		ComboDelay:   c.ComboDelay.Duration,
		ReplayDelay:  c.ReplayDelay.Duration,
		WarningFlash: c.WarningFlash.Duration,
		Layout:       c.Layout,
		Views:        c.Views,
		Materials:    c.Materials,
	}
}

// NewLogger creates a logger with the configured level and format
func NewLogger(cfg LogConfiguration) (*log.Logger, error) {
	logger := log.New()
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)

	switch cfg.Format {
	case "", "text":
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&log.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format '%s'", cfg.Format)
	}
	return logger, nil
}
