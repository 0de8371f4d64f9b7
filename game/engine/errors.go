package engine

import "errors"

var (
	ErrInvalidDimensions = errors.New("dimensions must be numbers between 6 and 12")
	ErrIllegalMove       = errors.New("illegal move")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrGameInProgress    = errors.New("board can only be resized before the game starts")
)
