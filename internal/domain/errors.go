package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrGameNotFound      = errors.New("game_not_found")
	ErrGameOver          = errors.New("game_over")
	ErrActionOutOfRange  = errors.New("action_out_of_range")
	ErrNotChanceTurn     = errors.New("not_chance_turn")
	ErrNotPlayerTurn     = errors.New("not_player_turn")
	ErrGameNotOver       = errors.New("game_not_over")
	ErrNothingToUndo     = errors.New("nothing_to_undo")
	ErrPlayerOutOfBounds = errors.New("player_out_of_bounds")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
