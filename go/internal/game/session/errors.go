package session

import "errors"

// ErrNotFound is returned for operations against an absent session.
var ErrNotFound = errors.New("session not found")

// ErrGameOver is returned when a session has already finished.
var ErrGameOver = errors.New("game is over")

// ErrBallsExhausted is returned once all 75 balls have been drawn.
var ErrBallsExhausted = errors.New("all balls drawn")
