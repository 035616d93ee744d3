package apperror

import "errors"

var (
	ErrGameInProgress   = errors.New("game is already in progress")
	ErrNoActiveGame     = errors.New("no active game")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrNotParticipant   = errors.New("not a participant of the session")
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrMalformedPayload = errors.New("malformed payload")
)
