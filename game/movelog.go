package game

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// MoveRecord is one step of a checker. A turn with a combo is recorded
// as several consecutive records of the same colour.
type MoveRecord struct {
	Color Color    `yaml:"color"`
	From  Position `yaml:"from,flow"`
	To    Position `yaml:"to,flow"`
}

// Move rebuilds the board move, jumps are recognised by their length
func (r MoveRecord) Move() Move {
	m := Move{From: r.From, To: r.To}
	if abs(r.To.Row-r.From.Row) == 2 {
		m.Capture = true
		m.Over = Position{(r.From.Row + r.To.Row) / 2, (r.From.Col + r.To.Col) / 2}
	}
	return m
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// MoveLog is the record of a game: the opening position when it was not
// the standard one, every locked move and the winner once decided
type MoveLog struct {
	Setup  []Placement  `yaml:"setup,omitempty"`
	Moves  []MoveRecord `yaml:"moves"`
	Winner string       `yaml:"winner,omitempty"`
}

// MarshalYAML writes colours by name
func (c Color) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// UnmarshalYAML reads colours by name
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseColor(name)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Save writes the log as YAML
func (l MoveLog) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(l); err != nil {
		return err
	}
	return enc.Close()
}

// LoadMoveLog reads a log written by Save
func LoadMoveLog(r io.Reader) (MoveLog, error) {
	var l MoveLog
	if err := yaml.NewDecoder(r).Decode(&l); err != nil {
		return MoveLog{}, fmt.Errorf("reading move log: %w", err)
	}
	for idx, rec := range l.Moves {
		if !rec.From.InBounds() || !rec.To.InBounds() {
			return MoveLog{}, fmt.Errorf("reading move log: move %d leaves the board", idx)
		}
	}
	return l, nil
}
