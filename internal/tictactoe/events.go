package tictactoe

import "github.com/rocketscienceinc/tictactoe-duel/internal/entity"

// Outbound actions.
const (
	ActionPlayerConnected = "player:connected"
	ActionPlayerRejected  = "player:rejected"
	ActionPlayersUpdate   = "players:update"
	ActionGameStart       = "game:start"
	ActionBoardUpdate     = "board:update"
	ActionTurnSwitch      = "turn:switch"
	ActionGameOver        = "game:over"
	ActionGameReset       = "game:reset"
)

// Inbound actions.
const (
	ActionGameMove = "game:move"
)

const (
	// DrawWinner is the winner value of a game that ended without a line.
	DrawWinner = "Draw"

	RejectReasonGameInProgress = "Game in progress. Please try again later."
	MessageDraw                = "It's a draw!"
	MessageOpponentLeft        = "Opponent left the game."
)

type PlayerPayload struct {
	ID string `json:"id"`
}

type RejectPayload struct {
	Reason string `json:"reason"`
}

type PlayersPayload struct {
	Players []string `json:"players"`
}

type GameStartPayload struct {
	CurrentPlayer string       `json:"current_player"`
	Board         entity.Board `json:"board"`
}

type BoardPayload struct {
	Board entity.Board `json:"board"`
}

type TurnPayload struct {
	CurrentPlayer string `json:"current_player"`
}

type GameOverPayload struct {
	Winner  string `json:"winner"`
	Message string `json:"message"`
}

// MovePayload is the body of an inbound game:move.
type MovePayload struct {
	Cell *int `json:"cell"`
}

func winMessage(mark entity.Mark) string {
	return "Player " + string(mark) + " wins!"
}
