package game

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSetup is returned for board setups that put two checkers
	// on one cell or a checker off the board
	ErrInvalidSetup = errors.New("invalid board setup")

	// ErrNotPickable is returned when a clicked object is not a tile or
	// a checker
	ErrNotPickable = errors.New("object is not part of the board")

	// ErrNotStarted is returned by operations that need a started game
	ErrNotStarted = errors.New("game not started")
)

// RuleViolation is an illegal selection or move. The game state is left
// as it was and the offending pieces flash a warning.
type RuleViolation struct {
	State  State
	Cell   Position
	Reason string
}

func (v *RuleViolation) Error() string {
	return fmt.Sprintf("rule violation in state %s at %s: %s", v.State, v.Cell, v.Reason)
}

// IsRuleViolation reports whether err is a *RuleViolation
func IsRuleViolation(err error) bool {
	var v *RuleViolation
	return errors.As(err, &v)
}
