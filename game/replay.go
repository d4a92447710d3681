package game

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type savedGame struct {
	checkpoint checkpoint
	state      State
	current    Color
	winner     Color
	won        bool
	turnLeft   time.Duration
	gameLeft   [2]time.Duration
}

// Replay plays the locked moves again from the opening position, one
// every replay delay, then puts the game back the way it was. The board
// ignores clicks and the clocks stand still meanwhile.
func (g *Game) Replay() error {
	if g.state != Playing && g.state != Finished {
		return g.violation(Position{}, "replay needs a settled board")
	}
	if len(g.log.Moves) == 0 {
		return g.violation(Position{}, "no moves to replay")
	}

	saved := savedGame{
		checkpoint: g.takeCheckpoint(),
		state:      g.state,
		current:    g.current,
		winner:     g.winner,
		won:        g.won,
		turnLeft:   g.turnLeft,
		gameLeft:   g.gameLeft,
	}
	moves := append([]MoveRecord(nil), g.log.Moves...)

	g.epoch++
	epoch := g.epoch
	g.state = Replaying
	g.restoreCheckpoint(checkpoint{board: g.initial})
	g.syncScene()

	for idx, rec := range moves {
		rec := rec
		g.sched.After(time.Duration(idx+1)*g.cfg.ReplayDelay, func() {
			if g.epoch != epoch || g.state != Replaying {
				return
			}
			ch := g.board.Checker(rec.From)
			if ch == nil {
				g.logger.WithField("cell", rec.From).Warn("replay found no checker to move")
				return
			}
			g.apply(ch, rec.Move(), true)
		})
	}
	g.sched.After(time.Duration(len(moves)+1)*g.cfg.ReplayDelay, func() {
		if g.epoch != epoch || g.state != Replaying {
			return
		}
		g.restoreCheckpoint(saved.checkpoint)
		g.state = saved.state
		g.current = saved.current
		g.winner, g.won = saved.winner, saved.won
		g.turnLeft, g.gameLeft = saved.turnLeft, saved.gameLeft
		g.syncScene()
		g.logger.WithField("state", g.state).Info("replay finished")
	})

	g.logger.WithFields(log.Fields{
		"moves": len(moves),
	}).Info("replay started")
	return nil
}

// Simulate starts a new game from the log's opening position and plays
// every recorded move through the rules, settling each one at once. It
// stops at the first move the rules reject.
func (g *Game) Simulate(l MoveLog) error {
	g.cfg.Setup = l.Setup
	if err := g.Reset(); err != nil {
		return err
	}

	for idx, rec := range l.Moves {
		if g.state == Finished {
			return fmt.Errorf("move %d: game already finished", idx)
		}
		if g.state == CanLock && rec.Color != g.current {
			if err := g.Lock(); err != nil {
				return fmt.Errorf("move %d: %w", idx, err)
			}
			if g.state == Finished {
				return fmt.Errorf("move %d: game already finished", idx)
			}
		}
		if rec.Color != g.current {
			return fmt.Errorf("move %d: %s to play, log has %s", idx, g.current, rec.Color)
		}
		if g.state != OnCombo {
			if err := g.ClickCell(rec.From.Row, rec.From.Col); err != nil {
				return fmt.Errorf("move %d: %w", idx, err)
			}
		} else if g.combo.Position() != rec.From {
			return fmt.Errorf("move %d: combo continues from %s", idx, g.combo.Position())
		}
		if err := g.ClickCell(rec.To.Row, rec.To.Col); err != nil {
			return fmt.Errorf("move %d: %w", idx, err)
		}
		if g.state != Animating {
			return fmt.Errorf("move %d: %s to %s is not a legal move", idx, rec.From, rec.To)
		}
		g.sched.Advance(g.sched.Now() + g.cfg.ComboDelay)
	}

	if g.state == CanLock {
		return g.Lock()
	}
	return nil
}
