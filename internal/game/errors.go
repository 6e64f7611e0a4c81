package game

import "errors"

var (
	ErrNotEnoughPlayers  = errors.New("not enough players")
	ErrGameNotStarted    = errors.New("game not started")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrInvalidAction     = errors.New("invalid action")
	ErrInvalidCheck      = errors.New("invalid check")
	ErrInvalidFold       = errors.New("invalid fold")
	ErrInvalidRaise      = errors.New("invalid raise")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrStageClosed       = errors.New("stage closed")
)
