package domain

import (
	"errors"
	"fmt"
)

// Errors returned by domain operations.
var (
	ErrOutOfBounds  = errors.New("out of bounds")
	ErrOccupied     = errors.New("cell occupied")
	ErrIllegalMove  = errors.New("illegal move")
	ErrNotYourTurn  = errors.New("not your turn")
	ErrGameOver     = errors.New("game over")
	ErrBadNotation  = errors.New("bad notation")
	ErrPassOverflow = errors.New("more than one pass in a single turn transition")
)

// PositionOutOfRangeError is the panic value of board-level calls made with
// coordinates outside the grid.
type PositionOutOfRangeError struct {
	Row, Col int
}

// NewPositionOutOfRangeError panics if (r, c) is actually on the board.
func NewPositionOutOfRangeError(r, c int) error {
	if InBounds(r, c) {
		panic(fmt.Errorf("position (row %d, col %d) is on the board but treated as out of range", r, c))
	}
	return &PositionOutOfRangeError{Row: r, Col: c}
}

func (e *PositionOutOfRangeError) Error() string {
	return fmt.Sprintf("position out of range (0-%d): row %d, col %d", Size-1, e.Row, e.Col)
}

// Unwrap lets callers match the panic value with errors.Is(err, ErrOutOfBounds).
func (e *PositionOutOfRangeError) Unwrap() error { return ErrOutOfBounds }
