package model

import "errors"

// Common errors used across the application
var (
	// Room errors
	ErrRoomNotFound = errors.New("room not found")
	ErrWrongSecret  = errors.New("wrong room password")
	ErrRoomFull     = errors.New("room is full")

	// Game errors
	ErrPlayersNotReady = errors.New("not all players are ready")

	// Board errors
	ErrColumnFull    = errors.New("column is full")
	ErrInvalidColumn = errors.New("invalid column index")
)
