package game

import (
	"time"

	"github.com/devblok/sxs/animation"
	glm "github.com/go-gl/mathgl/mgl32"
)

// Binder is the view of the scene graph the game mutates. Components are
// addressed by ID, see TileID and CheckerID.
type Binder interface {
	// Time is the scene clock in seconds, animations start relative to it
	Time() float32

	ComponentMaterials(id string) ([]string, error)
	SetMaterials(id string, materials ...string) error
	SetTransformation(id string, m glm.Mat4) error
	SetAnimation(id string, anim animation.Animation) error
	TransitionCamera(views ...string) error
}

// Layout places board cells and auxiliary board slots in scene space
type Layout struct {
	// Origin is the centre of cell (0, 0)
	Origin glm.Vec3 `toml:"origin"`

	// TileSize is the distance between neighbouring cell centres
	TileSize float32 `toml:"tile_size"`

	// Aux is the first slot of each colour's auxiliary board, indexed by
	// the capturing colour
	Aux [2]glm.Vec3 `toml:"aux"`

	// AuxStep is the offset between consecutive auxiliary slots
	AuxStep glm.Vec3 `toml:"aux_step"`

	// Hop is how high a moving checker rises halfway through a move
	Hop float32 `toml:"hop"`
}

// DefaultLayout matches the bundled board scene
func DefaultLayout() Layout {
	return Layout{
		Origin:   glm.Vec3{0.5, 0, 0.5},
		TileSize: 1,
		Aux:      [2]glm.Vec3{{-1.5, 0, 0.5}, {9.5, 0, 7.5}},
		AuxStep:  glm.Vec3{0, 0.25, 0},
		Hop:      0.5,
	}
}

// Cell is the position of a cell centre
func (l Layout) Cell(p Position) glm.Vec3 {
	return l.Origin.Add(glm.Vec3{float32(p.Col) * l.TileSize, 0, float32(p.Row) * l.TileSize})
}

// Slot is the position of an auxiliary board slot of the capturer
func (l Layout) Slot(capturer Color, slot int) glm.Vec3 {
	return l.Aux[capturer].Add(l.AuxStep.Mul(float32(slot)))
}

// Views names the scene views used by the game camera
type Views struct {
	Overview string `toml:"overview"`
	Black    string `toml:"black"`
	White    string `toml:"white"`
}

func (v Views) of(c Color) string {
	if c == White {
		return v.White
	}
	return v.Black
}

// Materials names the scene materials used for highlighting. King is
// optional, kings keep their own material when it is empty.
type Materials struct {
	Highlighted string `toml:"highlighted"`
	Selected    string `toml:"selected"`
	Warning     string `toml:"warning"`
	King        string `toml:"king"`
}

// Config configures a game
type Config struct {
	TurnTime     time.Duration
	GameTime     time.Duration
	MoveTime     time.Duration
	ComboDelay   time.Duration
	ReplayDelay  time.Duration
	WarningFlash time.Duration

	Layout    Layout
	Views     Views
	Materials Materials

	// Setup overrides the opening position when not empty
	Setup []Placement
}

// DefaultConfig returns the standard timings, layout, views and
// materials of the bundled board scene
func DefaultConfig() Config {
	return Config{
		TurnTime:     60 * time.Second,
		GameTime:     10 * time.Minute,
		MoveTime:     500 * time.Millisecond,
		ComboDelay:   600 * time.Millisecond,
		ReplayDelay:  time.Second,
		WarningFlash: time.Second,
		Layout:       DefaultLayout(),
		Views: Views{
			Overview: "overview",
			Black:    "player-black",
			White:    "player-white",
		},
		Materials: Materials{
			Highlighted: "highlighted",
			Selected:    "selected",
			Warning:     "warning",
		},
	}
}
