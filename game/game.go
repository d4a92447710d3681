// Package game implements the checkers state machine that drives the
// board scene. The game owns the board; the scene only sees the results
// through the Binder.
package game

import (
	"fmt"
	"time"

	"github.com/devblok/sxs/animation"
	"github.com/devblok/sxs/core/schedule"
	glm "github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"
)

// State of the game state machine
type State int

// Game states
const (
	Initial State = iota
	Playing
	CheckerSelected
	Animating
	OnCombo
	CanLock
	Finished
	Replaying
)

var stateNames = [...]string{
	"initial",
	"playing",
	"checker-selected",
	"animating",
	"on-combo",
	"can-lock",
	"finished",
	"replaying",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

type checkpoint struct {
	board    boardSnapshot
	captures [2]int
	aux      [2]int
}

// Game is a checkers match bound to a scene. Like the scene it is not
// safe for concurrent use.
type Game struct {
	cfg    Config
	binder Binder
	sched  *schedule.Queue
	logger log.FieldLogger

	board   *Board
	initial boardSnapshot
	state   State
	current Color
	winner  Color
	won     bool

	selected *Checker
	combo    *Checker
	targets  []Move

	captures [2]int
	aux      [2]int

	turnLeft time.Duration
	gameLeft [2]time.Duration

	checkpoint checkpoint
	turn       []MoveRecord
	log        MoveLog

	base    map[string][]string
	applied map[string][]string
	warned  map[string]int
	epoch   uint64
}

// New creates a game in the initial state. A nil queue or logger are
// replaced with fresh defaults.
func New(cfg Config, binder Binder, sched *schedule.Queue, logger log.FieldLogger) *Game {
	if sched == nil {
		sched = &schedule.Queue{}
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Game{
		cfg:     cfg,
		binder:  binder,
		sched:   sched,
		logger:  logger,
		base:    map[string][]string{},
		applied: map[string][]string{},
		warned:  map[string]int{},
	}
}

// Start sets up the board and hands the first turn to black. Every
// tile and checker component must exist in the scene.
func (g *Game) Start() error {
	setup := g.cfg.Setup
	if len(setup) == 0 {
		setup = StandardSetup()
	}
	board, err := NewBoard(setup)
	if err != nil {
		return err
	}

	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if err := g.readBase(board.Tile(Position{row, col}).Component); err != nil {
				return err
			}
		}
	}
	for _, ch := range board.Checkers() {
		if err := g.readBase(ch.Component); err != nil {
			return err
		}
	}

	g.epoch++
	g.warned = map[string]int{}
	g.board = board
	g.initial = board.snapshot()
	g.state = Playing
	g.current = Black
	g.won = false
	g.selected, g.combo, g.targets = nil, nil, nil
	g.captures, g.aux = [2]int{}, [2]int{}
	g.turnLeft = g.cfg.TurnTime
	g.gameLeft = [2]time.Duration{g.cfg.GameTime, g.cfg.GameTime}
	g.turn = nil
	g.log = MoveLog{Setup: append([]Placement(nil), g.cfg.Setup...)}
	g.checkpoint = g.takeCheckpoint()

	g.syncScene()
	g.transition(g.cfg.Views.of(Black))

	g.logger.WithFields(log.Fields{
		"state": g.state,
		"color": g.current,
	}).Info("game started")
	return nil
}

func (g *Game) readBase(id string) error {
	if _, ok := g.base[id]; ok {
		return nil
	}
	materials, err := g.binder.ComponentMaterials(id)
	if err != nil {
		return fmt.Errorf("binding board to scene: %w", err)
	}
	g.base[id] = materials
	return nil
}

// Reset drops every deferred action and starts a new game
func (g *Game) Reset() error {
	g.sched.Reset()
	return g.Start()
}

// State returns the current state
func (g *Game) State() State {
	return g.state
}

// CurrentPlayer returns the colour to move
func (g *Game) CurrentPlayer() Color {
	return g.current
}

// Captures returns how many opposing checkers c has captured
func (g *Game) Captures(c Color) int {
	return g.captures[c]
}

// Winner returns the winning colour once the game is finished
func (g *Game) Winner() (Color, bool) {
	return g.winner, g.won
}

// Board returns the live board
func (g *Game) Board() *Board {
	return g.board
}

// Selected returns the selected checker, or the one in the middle of a
// combo
func (g *Game) Selected() *Checker {
	if g.combo != nil {
		return g.combo
	}
	return g.selected
}

// Targets returns the moves currently offered to the player
func (g *Game) Targets() []Move {
	return g.targets
}

// TurnTimeLeft returns what is left of the current turn
func (g *Game) TurnTimeLeft() time.Duration {
	return g.turnLeft
}

// GameTimeLeft returns what is left of a player's game clock
func (g *Game) GameTimeLeft(c Color) time.Duration {
	return g.gameLeft[c]
}

// Log returns the locked moves of the game so far
func (g *Game) Log() MoveLog {
	l := g.log
	l.Setup = append([]Placement(nil), g.log.Setup...)
	l.Moves = append([]MoveRecord(nil), g.log.Moves...)
	return l
}

// AvailableCheckers returns the checkers the current player may select.
// When any of them can capture only the capturing ones are returned.
func (g *Game) AvailableCheckers() []*Checker {
	switch g.state {
	case Playing, CheckerSelected:
		return g.board.Available(g.current)
	case OnCombo:
		return []*Checker{g.combo}
	}
	return nil
}

// LegalMoves returns the moves ch may make right now
func (g *Game) LegalMoves(ch *Checker) []Move {
	switch g.state {
	case Playing, CheckerSelected:
		if ch.Color != g.current {
			return nil
		}
		return g.board.LegalMoves(ch)
	case OnCombo:
		if ch != g.combo {
			return nil
		}
		_, jumps := g.board.Moves(ch)
		return jumps
	}
	return nil
}

// Locate maps a tile or checker component to its board cell. Captured
// checkers are off the board and cannot be located.
func (g *Game) Locate(id string) (Position, bool) {
	if g.board == nil {
		return Position{}, false
	}
	for _, ch := range g.board.Checkers() {
		if ch.Component == id {
			return ch.Position(), !ch.Captured
		}
	}
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if g.board.Tile(Position{row, col}).Component == id {
				return Position{row, col}, true
			}
		}
	}
	return Position{}, false
}

// Pickable reports whether clicking the component means anything to the game
func (g *Game) Pickable(id string) bool {
	_, ok := g.Locate(id)
	return ok
}

// Click handles a click on a scene component
func (g *Game) Click(objectID string) error {
	p, ok := g.Locate(objectID)
	if !ok {
		return fmt.Errorf("%w: '%s'", ErrNotPickable, objectID)
	}
	return g.ClickCell(p.Row, p.Col)
}

// ClickCell handles a click on the board cell (row, col)
func (g *Game) ClickCell(row, col int) error {
	p := Position{row, col}
	if !p.InBounds() {
		return g.violation(p, "cell is off the board")
	}

	switch g.state {
	case Playing:
		return g.selectAt(p)
	case CheckerSelected:
		if ch := g.board.Checker(p); ch != nil && ch.Color == g.current {
			if ch == g.selected {
				g.deselect()
				return nil
			}
			return g.selectAt(p)
		}
		if m, ok := g.target(p); ok {
			g.move(g.selected, m)
			return nil
		}
		g.deselect()
		return nil
	case OnCombo:
		if m, ok := g.target(p); ok {
			g.move(g.combo, m)
			return nil
		}
		g.flash(g.combo.Component)
		return g.violation(p, "only a continuation jump can be played")
	}
	return g.violation(p, "board is not accepting moves")
}

func (g *Game) selectAt(p Position) error {
	ch := g.board.Checker(p)
	if ch == nil || ch.Color != g.current {
		return g.violation(p, fmt.Sprintf("no %s checker to select", g.current))
	}

	moves := g.board.LegalMoves(ch)
	if len(moves) == 0 {
		if g.board.HasJump(g.current) {
			for _, forced := range g.board.Available(g.current) {
				g.flash(forced.Component)
			}
			return g.violation(p, "a capture is forced elsewhere")
		}
		g.flash(ch.Component)
		return g.violation(p, "checker has no moves")
	}

	g.selected = ch
	g.targets = moves
	g.state = CheckerSelected
	g.refreshMaterials()

	g.logger.WithFields(log.Fields{
		"id":    ch.Component,
		"color": ch.Color,
	}).Debug("checker selected")
	return nil
}

func (g *Game) deselect() {
	g.selected = nil
	g.targets = nil
	g.state = Playing
	g.refreshMaterials()
}

func (g *Game) target(p Position) (Move, bool) {
	for _, m := range g.targets {
		if m.To == p {
			return m, true
		}
	}
	return Move{}, false
}

func (g *Game) violation(p Position, reason string) error {
	v := &RuleViolation{State: g.state, Cell: p, Reason: reason}
	g.logger.WithFields(log.Fields{
		"state": g.state,
		"color": g.current,
	}).Debug(v.Error())
	return v
}

// move plays m and waits for the animation to settle before deciding
// whether the checker goes on with a combo
func (g *Game) move(ch *Checker, m Move) {
	g.selected, g.combo, g.targets = nil, nil, nil
	promoted := g.apply(ch, m, true)
	g.turn = append(g.turn, MoveRecord{Color: ch.Color, From: m.From, To: m.To})
	g.state = Animating
	g.refreshMaterials()

	epoch := g.epoch
	g.sched.After(g.cfg.ComboDelay, func() {
		if g.epoch != epoch || g.state != Animating {
			return
		}
		g.settle(ch, m, promoted)
	})
}

func (g *Game) settle(ch *Checker, m Move, promoted bool) {
	if m.Capture && !promoted {
		if _, jumps := g.board.Moves(ch); len(jumps) > 0 {
			g.combo = ch
			g.targets = jumps
			g.state = OnCombo
			g.refreshMaterials()
			return
		}
	}
	g.state = CanLock
	g.refreshMaterials()
}

// apply updates the board, the capture counters and the scene for m
func (g *Game) apply(ch *Checker, m Move, animate bool) bool {
	captured, promoted := g.board.apply(m)
	if captured != nil {
		captured.AuxSlot = g.aux[ch.Color]
		g.aux[ch.Color]++
		g.captures[ch.Color]++
		g.transfer(captured, g.cfg.Layout.Cell(m.Over), g.cfg.Layout.Slot(ch.Color, captured.AuxSlot), animate)
	}
	g.transfer(ch, g.cfg.Layout.Cell(m.From), g.cfg.Layout.Cell(m.To), animate)

	if promoted {
		g.logger.WithFields(log.Fields{
			"id":    ch.Component,
			"color": ch.Color,
		}).Info("checker promoted")
	}
	return promoted
}

// Lock finishes the turn and hands the board to the other player
func (g *Game) Lock() error {
	if g.state != CanLock {
		return g.violation(Position{}, "nothing to lock")
	}

	mover := g.current
	g.log.Moves = append(g.log.Moves, g.turn...)
	g.turn = nil
	g.current = mover.Opponent()
	g.turnLeft = g.cfg.TurnTime
	g.checkpoint = g.takeCheckpoint()

	if len(g.board.Available(g.current)) == 0 {
		g.finish(mover, "no legal moves left")
		return nil
	}

	g.state = Playing
	g.refreshMaterials()
	g.transition(g.cfg.Views.Overview, g.cfg.Views.of(g.current))

	g.logger.WithFields(log.Fields{
		"state": g.state,
		"color": g.current,
	}).Debug("turn locked")
	return nil
}

// Undo takes back the moves of the unlocked turn
func (g *Game) Undo() error {
	if g.state != CanLock && g.state != OnCombo {
		return g.violation(Position{}, "nothing to undo")
	}
	g.restoreCheckpoint(g.checkpoint)
	g.turn = nil
	g.selected, g.combo, g.targets = nil, nil, nil
	g.state = Playing
	g.syncScene()

	g.logger.WithFields(log.Fields{
		"state": g.state,
		"color": g.current,
	}).Debug("turn undone")
	return nil
}

// Update advances the clocks of the current player and runs deferred
// actions that became due. A clock limit of zero or less never runs out.
func (g *Game) Update(elapsed time.Duration) {
	switch g.state {
	case Playing, CheckerSelected, Animating, OnCombo, CanLock:
		if g.cfg.TurnTime > 0 {
			g.turnLeft -= elapsed
		}
		if g.cfg.GameTime > 0 {
			g.gameLeft[g.current] -= elapsed
		}
		if (g.cfg.TurnTime > 0 && g.turnLeft <= 0) || (g.cfg.GameTime > 0 && g.gameLeft[g.current] <= 0) {
			if g.turnLeft < 0 {
				g.turnLeft = 0
			}
			if g.gameLeft[g.current] < 0 {
				g.gameLeft[g.current] = 0
			}
			g.finish(g.current.Opponent(), "clock ran out")
		}
	}
	g.sched.Advance(g.sched.Now() + elapsed)
}

func (g *Game) finish(winner Color, reason string) {
	g.log.Moves = append(g.log.Moves, g.turn...)
	g.turn = nil
	g.state = Finished
	g.winner = winner
	g.won = true
	g.log.Winner = winner.String()
	g.selected, g.combo, g.targets = nil, nil, nil
	g.warned = map[string]int{}
	g.refreshMaterials()
	g.transition(g.cfg.Views.Overview)

	g.logger.WithFields(log.Fields{
		"state":  g.state,
		"color":  winner,
		"reason": reason,
	}).Info("game finished")
}

func (g *Game) takeCheckpoint() checkpoint {
	return checkpoint{
		board:    g.board.snapshot(),
		captures: g.captures,
		aux:      g.aux,
	}
}

func (g *Game) restoreCheckpoint(cp checkpoint) {
	g.board.restore(cp.board)
	g.captures = cp.captures
	g.aux = cp.aux
}

// transition moves the camera through the named views, skipping
// unconfigured ones
func (g *Game) transition(views ...string) {
	var ids []string
	for _, v := range views {
		if v != "" {
			ids = append(ids, v)
		}
	}
	if len(ids) == 0 {
		return
	}
	g.bind("", g.binder.TransitionCamera(ids...))
}

func (g *Game) bind(id string, err error) {
	if err != nil {
		g.logger.WithField("id", id).WithError(err).Warn("scene binding failed")
	}
}

// placement is where ch rests: its cell, or its slot on the capturer's
// auxiliary board
func (g *Game) placement(ch *Checker) glm.Vec3 {
	if ch.Captured {
		return g.cfg.Layout.Slot(ch.Color.Opponent(), ch.AuxSlot)
	}
	return g.cfg.Layout.Cell(ch.Position())
}

// syncScene puts every checker where the board says it is and
// reapplies the materials
func (g *Game) syncScene() {
	for _, ch := range g.board.Checkers() {
		g.bind(ch.Component, g.binder.SetTransformation(ch.Component, glm.Translate3D(g.placement(ch).Elem())))
		g.bind(ch.Component, g.binder.SetAnimation(ch.Component, nil))
	}
	g.applied = map[string][]string{}
	g.refreshMaterials()
}

// transfer rests ch at to. When animated it hops over from from.
func (g *Game) transfer(ch *Checker, from, to glm.Vec3, animate bool) {
	g.bind(ch.Component, g.binder.SetTransformation(ch.Component, glm.Translate3D(to.Elem())))
	if !animate || g.cfg.MoveTime <= 0 {
		g.bind(ch.Component, g.binder.SetAnimation(ch.Component, nil))
		return
	}
	g.bind(ch.Component, g.binder.SetAnimation(ch.Component, g.hop(from.Sub(to))))
}

// hop animates from offset back to the resting pose, rising by the
// layout hop height halfway
func (g *Game) hop(offset glm.Vec3) animation.Animation {
	duration := float32(g.cfg.MoveTime.Seconds())
	mid := offset.Mul(0.5).Add(glm.Vec3{0, g.cfg.Layout.Hop, 0})
	anim, err := animation.NewKeyframeAnimation([]*animation.Keyframe{
		animation.NewKeyframe(0, glm.Translate3D(offset.Elem())),
		animation.NewKeyframe(duration/2, glm.Translate3D(mid.Elem())),
		animation.NewKeyframe(duration, glm.Ident4()),
	}, false)
	if err != nil {
		return nil
	}
	anim.StartAt(g.binder.Time())
	return anim
}

// flash shows the warning material on id for a while
func (g *Game) flash(id string) {
	if g.cfg.Materials.Warning == "" {
		return
	}
	g.warned[id]++
	g.refreshMaterials()
	epoch := g.epoch
	g.sched.After(g.cfg.WarningFlash, func() {
		if g.epoch != epoch || g.state == Finished || g.warned[id] == 0 {
			return
		}
		g.warned[id]--
		if g.warned[id] == 0 {
			delete(g.warned, id)
		}
		g.refreshMaterials()
	})
}

// Warned reports whether id is showing the warning material
func (g *Game) Warned(id string) bool {
	return g.warned[id] > 0
}

func (g *Game) materialsOf(id string, ch *Checker, p Position) []string {
	m := g.cfg.Materials
	if g.warned[id] > 0 && m.Warning != "" {
		return []string{m.Warning}
	}
	if ch != nil {
		if (ch == g.selected || ch == g.combo) && m.Selected != "" {
			return []string{m.Selected}
		}
		if ch.King && m.King != "" {
			return []string{m.King}
		}
		return g.base[id]
	}
	if _, ok := g.target(p); ok && m.Highlighted != "" {
		return []string{m.Highlighted}
	}
	return g.base[id]
}

// refreshMaterials pushes the materials every tile and checker should
// show to the scene, skipping the ones that did not change
func (g *Game) refreshMaterials() {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			p := Position{row, col}
			id := g.board.Tile(p).Component
			g.applyMaterials(id, g.materialsOf(id, nil, p))
		}
	}
	for _, ch := range g.board.Checkers() {
		g.applyMaterials(ch.Component, g.materialsOf(ch.Component, ch, ch.Position()))
	}
}

func (g *Game) applyMaterials(id string, materials []string) {
	if sameMaterials(g.applied[id], materials) {
		return
	}
	g.applied[id] = materials
	g.bind(id, g.binder.SetMaterials(id, materials...))
}

func sameMaterials(a, b []string) bool {
	if a == nil || len(a) != len(b) {
		return false
	}
	for idx := range a {
		if a[idx] != b[idx] {
			return false
		}
	}
	return true
}
