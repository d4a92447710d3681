package game

import (
	"fmt"
	"strings"
)

// Size is the amount of rows and columns of the board
const Size = 8

// PiecesPerSide is the amount of checkers each player starts with
const PiecesPerSide = 12

// Color identifies a player and the checkers it owns
type Color int

// Player colours. Black starts on rows 0-2 and moves towards row 7.
const (
	Black Color = iota
	White
)

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Opponent returns the other colour
func (c Color) Opponent() Color {
	return 1 - c
}

// forward is the row direction plain checkers of c move in
func (c Color) forward() int {
	if c == White {
		return -1
	}
	return 1
}

// promotionRow is the row where checkers of c become kings
func (c Color) promotionRow() int {
	if c == White {
		return 0
	}
	return Size - 1
}

// ParseColor is the inverse of Color.String
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(s) {
	case "black":
		return Black, nil
	case "white":
		return White, nil
	}
	return Black, fmt.Errorf("unknown colour '%s'", s)
}

// Position is a board cell
type Position struct {
	Row int `yaml:"row"`
	Col int `yaml:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// Add offsets the position by d
func (p Position) Add(d Position) Position {
	return Position{p.Row + d.Row, p.Col + d.Col}
}

// InBounds reports whether the position lies on the board
func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

// Dark reports whether the cell is one of the playable squares
func (p Position) Dark() bool {
	return (p.Row+p.Col)%2 == 0
}

// Entity is anything that can sit on a board cell
type Entity interface {
	// IsOccupant is true for checkers and false for empty tiles
	IsOccupant() bool

	// AvailableDirections lists the unit diagonals the entity may move along
	AvailableDirections() []Position

	// Position is the cell the entity is on
	Position() Position

	// ComponentID names the scene component bound to the entity
	ComponentID() string
}

// Tile is a plain board cell
type Tile struct {
	Row       int
	Col       int
	Component string
}

// IsOccupant implements interface
func (t *Tile) IsOccupant() bool {
	return false
}

// AvailableDirections implements interface
func (t *Tile) AvailableDirections() []Position {
	return nil
}

// Position implements interface
func (t *Tile) Position() Position {
	return Position{t.Row, t.Col}
}

// ComponentID implements interface
func (t *Tile) ComponentID() string {
	return t.Component
}

// Checker is a playing piece
type Checker struct {
	Color     Color
	Row       int
	Col       int
	King      bool
	Captured  bool
	Component string

	// AuxSlot is the place on the capturer's auxiliary board, valid
	// while Captured is set
	AuxSlot int
}

// IsOccupant implements interface
func (ch *Checker) IsOccupant() bool {
	return true
}

// AvailableDirections implements interface. Plain checkers move along the
// two forward diagonals, kings along all four.
func (ch *Checker) AvailableDirections() []Position {
	f := ch.Color.forward()
	dirs := []Position{{f, -1}, {f, 1}}
	if ch.King {
		dirs = append(dirs, Position{-f, -1}, Position{-f, 1})
	}
	return dirs
}

// Position implements interface
func (ch *Checker) Position() Position {
	return Position{ch.Row, ch.Col}
}

// ComponentID implements interface
func (ch *Checker) ComponentID() string {
	return ch.Component
}

// Move is a single step of a checker, either to an adjacent diagonal
// cell or a jump over an opposing checker
type Move struct {
	From    Position
	To      Position
	Capture bool
	Over    Position
}

// Placement puts a checker on the board when setting up a position
type Placement struct {
	Color Color `yaml:"color"`
	Row   int   `yaml:"row"`
	Col   int   `yaml:"col"`
	King  bool  `yaml:"king,omitempty"`
}

// StandardSetup is the opening position: twelve checkers per side on the
// dark squares of the three rows closest to each player
func StandardSetup() []Placement {
	var setup []Placement
	for row := 0; row < Size; row++ {
		var color Color
		switch {
		case row <= 2:
			color = Black
		case row >= Size-3:
			color = White
		default:
			continue
		}
		for col := 0; col < Size; col++ {
			if (Position{row, col}).Dark() {
				setup = append(setup, Placement{Color: color, Row: row, Col: col})
			}
		}
	}
	return setup
}

// TileID is the component bound to the tile at (row, col)
func TileID(row, col int) string {
	return fmt.Sprintf("tile-%d-%d", row, col)
}

// CheckerID is the component bound to the n-th checker of a colour
func CheckerID(c Color, n int) string {
	return fmt.Sprintf("checker-%s-%d", c, n)
}

// Board is the 8x8 grid. Cells hold a checker or nothing, in which case
// the tile underneath is what is there.
type Board struct {
	tiles    [Size][Size]*Tile
	cells    [Size][Size]*Checker
	checkers []*Checker
}

// NewBoard sets up a board with the given placements. Checkers are
// numbered per colour in placement order.
func NewBoard(setup []Placement) (*Board, error) {
	b := &Board{}
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			b.tiles[row][col] = &Tile{Row: row, Col: col, Component: TileID(row, col)}
		}
	}

	counts := [2]int{}
	for _, p := range setup {
		pos := Position{p.Row, p.Col}
		if !pos.InBounds() {
			return nil, fmt.Errorf("%w: %s is off the board", ErrInvalidSetup, pos)
		}
		if b.cells[p.Row][p.Col] != nil {
			return nil, fmt.Errorf("%w: %s is occupied twice", ErrInvalidSetup, pos)
		}
		ch := &Checker{
			Color:     p.Color,
			Row:       p.Row,
			Col:       p.Col,
			King:      p.King,
			Component: CheckerID(p.Color, counts[p.Color]),
		}
		counts[p.Color]++
		b.cells[p.Row][p.Col] = ch
		b.checkers = append(b.checkers, ch)
	}
	return b, nil
}

// At returns the checker on the cell, or the tile when it is empty
func (b *Board) At(p Position) Entity {
	if ch := b.cells[p.Row][p.Col]; ch != nil {
		return ch
	}
	return b.tiles[p.Row][p.Col]
}

// Checker returns the checker on the cell or nil
func (b *Board) Checker(p Position) *Checker {
	if !p.InBounds() {
		return nil
	}
	return b.cells[p.Row][p.Col]
}

// Tile returns the tile of the cell
func (b *Board) Tile(p Position) *Tile {
	return b.tiles[p.Row][p.Col]
}

// Checkers returns every checker, captured ones included
func (b *Board) Checkers() []*Checker {
	return b.checkers
}

// Pieces returns the checkers of c still on the board
func (b *Board) Pieces(c Color) []*Checker {
	var pieces []*Checker
	for _, ch := range b.checkers {
		if ch.Color == c && !ch.Captured {
			pieces = append(pieces, ch)
		}
	}
	return pieces
}

// Moves returns the simple moves and the jumps available to ch
func (b *Board) Moves(ch *Checker) (simple, jumps []Move) {
	from := ch.Position()
	for _, d := range ch.AvailableDirections() {
		next := from.Add(d)
		if !next.InBounds() {
			continue
		}
		occupant := b.cells[next.Row][next.Col]
		if occupant == nil {
			simple = append(simple, Move{From: from, To: next})
			continue
		}
		if occupant.Color == ch.Color {
			continue
		}
		land := next.Add(d)
		if land.InBounds() && b.cells[land.Row][land.Col] == nil {
			jumps = append(jumps, Move{From: from, To: land, Capture: true, Over: next})
		}
	}
	return simple, jumps
}

// HasJump reports whether any checker of c can capture
func (b *Board) HasJump(c Color) bool {
	for _, ch := range b.Pieces(c) {
		if _, jumps := b.Moves(ch); len(jumps) > 0 {
			return true
		}
	}
	return false
}

// LegalMoves applies the forced capture rule: when any checker of the
// colour can jump, only jumps are legal
func (b *Board) LegalMoves(ch *Checker) []Move {
	if ch.Captured {
		return nil
	}
	simple, jumps := b.Moves(ch)
	if b.HasJump(ch.Color) {
		return jumps
	}
	return simple
}

// Available returns the checkers of c that have at least one legal move
func (b *Board) Available(c Color) []*Checker {
	forced := b.HasJump(c)
	var available []*Checker
	for _, ch := range b.Pieces(c) {
		simple, jumps := b.Moves(ch)
		if len(jumps) > 0 || (!forced && len(simple) > 0) {
			available = append(available, ch)
		}
	}
	return available
}

// apply moves the checker and removes a captured one. It reports the
// captured checker and whether the move promoted the mover.
func (b *Board) apply(m Move) (captured *Checker, promoted bool) {
	ch := b.cells[m.From.Row][m.From.Col]
	b.cells[m.From.Row][m.From.Col] = nil
	b.cells[m.To.Row][m.To.Col] = ch
	ch.Row, ch.Col = m.To.Row, m.To.Col

	if m.Capture {
		captured = b.cells[m.Over.Row][m.Over.Col]
		b.cells[m.Over.Row][m.Over.Col] = nil
		captured.Captured = true
	}
	if !ch.King && ch.Row == ch.Color.promotionRow() {
		ch.King = true
		promoted = true
	}
	return captured, promoted
}

type checkerState struct {
	Row      int
	Col      int
	King     bool
	Captured bool
	AuxSlot  int
}

type boardSnapshot []checkerState

func (b *Board) snapshot() boardSnapshot {
	snap := make(boardSnapshot, len(b.checkers))
	for idx, ch := range b.checkers {
		snap[idx] = checkerState{ch.Row, ch.Col, ch.King, ch.Captured, ch.AuxSlot}
	}
	return snap
}

func (b *Board) restore(snap boardSnapshot) {
	b.cells = [Size][Size]*Checker{}
	for idx, ch := range b.checkers {
		s := snap[idx]
		ch.Row, ch.Col, ch.King, ch.Captured, ch.AuxSlot = s.Row, s.Col, s.King, s.Captured, s.AuxSlot
		if !ch.Captured {
			b.cells[ch.Row][ch.Col] = ch
		}
	}
}

// String draws the board with row 7 on top. b and w are plain
// checkers, B and W kings, dots are empty dark squares.
func (b *Board) String() string {
	var sb strings.Builder
	for row := Size - 1; row >= 0; row-- {
		for col := 0; col < Size; col++ {
			ch := b.cells[row][col]
			switch {
			case ch == nil && (Position{row, col}).Dark():
				sb.WriteByte('.')
			case ch == nil:
				sb.WriteByte(' ')
			default:
				r := ch.Color.String()[0]
				if ch.King {
					r -= 'a' - 'A'
				}
				sb.WriteByte(r)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
