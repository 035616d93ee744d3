package tictactoe

import (
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-duel/internal/metrics"
)

// Notifier delivers outbound events to connections.
type Notifier interface {
	Broadcast(action string, payload any)
	Unicast(participantID, action string, payload any)
	Disconnect(participantID string)
}

// Randomizer picks the starting participant. *rand.Rand satisfies it.
type Randomizer interface {
	Intn(n int) int
}

// Coordinator drives the session state machine.
// It is not safe for concurrent use: every call must come from one goroutine.
type Coordinator struct {
	logger   *slog.Logger
	session  *entity.Session
	notifier Notifier
	random   Randomizer
}

func NewCoordinator(logger *slog.Logger, session *entity.Session, notifier Notifier, random Randomizer) *Coordinator {
	return &Coordinator{
		logger:   logger.With("component", "coordinator"),
		session:  session,
		notifier: notifier,
		random:   random,
	}
}

// OnConnect - admits a new participant or rejects it when a game is running.
func (that *Coordinator) OnConnect(id string) error {
	log := that.logger.With("method", "OnConnect", "participantID", id)

	if that.session.IsActive() || that.session.Len() >= entity.MaxParticipants {
		that.notifier.Unicast(id, ActionPlayerRejected, RejectPayload{Reason: RejectReasonGameInProgress})
		that.notifier.Disconnect(id)

		metrics.Connections.WithLabelValues(metrics.ResultRejected).Inc()
		log.Info("connection rejected, game in progress")

		return apperror.ErrGameInProgress
	}

	that.session.AddParticipant(id)
	that.notifier.Unicast(id, ActionPlayerConnected, PlayerPayload{ID: id})
	that.broadcastParticipants()

	metrics.Connections.WithLabelValues(metrics.ResultAccepted).Inc()
	log.Info("participant joined", "slot", that.session.IndexOf(id))

	if that.session.Len() == entity.MaxParticipants {
		that.startGame()
	}

	return nil
}

// OnMove - validates and applies a move. Rejected moves emit nothing.
func (that *Coordinator) OnMove(id string, cell int) error {
	log := that.logger.With("method", "OnMove", "participantID", id, "cell", cell)

	if !that.session.IsActive() {
		return apperror.ErrNoActiveGame
	}

	if that.session.Turn() != id {
		return apperror.ErrNotYourTurn
	}

	mark, ok := that.session.MarkOf(id)
	if !ok {
		return apperror.ErrNotParticipant
	}

	board, err := that.session.Board().ApplyMove(cell, mark)
	if err != nil {
		return fmt.Errorf("invalid move: %w", err)
	}

	that.session.SetBoard(board)
	that.notifier.Broadcast(ActionBoardUpdate, BoardPayload{Board: board})

	log.Debug("move applied", "mark", mark)

	if winner := board.EvaluateWinner(); winner != entity.Empty {
		that.finish(winner, metrics.OutcomeWin, GameOverPayload{Winner: string(winner), Message: winMessage(winner)})
		return nil
	}

	if board.IsFull() {
		that.finish(entity.Empty, metrics.OutcomeDraw, GameOverPayload{Winner: DrawWinner, Message: MessageDraw})
		return nil
	}

	next := that.session.Opponent(id)
	that.session.SetTurn(next)
	that.notifier.Broadcast(ActionTurnSwitch, TurnPayload{CurrentPlayer: next})

	return nil
}

// OnDisconnect - removes the participant; a running game is forfeited to the one who stays.
func (that *Coordinator) OnDisconnect(id string) error {
	log := that.logger.With("method", "OnDisconnect", "participantID", id)

	wasActive := that.session.IsActive()

	// marks shift with slots, so the survivor's mark is read before removal
	survivorMark, _ := that.session.MarkOf(that.session.Opponent(id))

	if !that.session.RemoveParticipant(id) {
		return apperror.ErrNotParticipant
	}

	that.broadcastParticipants()
	log.Info("participant left", "remaining", that.session.Len())

	switch {
	case wasActive:
		that.finish(survivorMark, metrics.OutcomeForfeit, GameOverPayload{Winner: string(survivorMark), Message: MessageOpponentLeft})
	case that.session.Len() == 0:
		that.reset()
	}

	return nil
}

// Session - the state owned by the coordinator.
func (that *Coordinator) Session() *entity.Session {
	return that.session
}

func (that *Coordinator) startGame() {
	players := that.session.Participants()
	starter := players[that.random.Intn(len(players))]

	that.session.SetActive(true)
	that.session.SetTurn(starter)
	that.session.SetBoard(entity.NewBoard())

	that.notifier.Broadcast(ActionGameStart, GameStartPayload{
		CurrentPlayer: starter,
		Board:         that.session.Board(),
	})

	that.logger.Info("game started", "starter", starter)
}

func (that *Coordinator) finish(winner entity.Mark, outcome string, payload GameOverPayload) {
	that.notifier.Broadcast(ActionGameOver, payload)

	metrics.GamesFinished.WithLabelValues(outcome).Inc()
	that.logger.Info("game over", "outcome", outcome, "winner", winner)

	that.reset()
}

func (that *Coordinator) reset() {
	that.session.Reset()
	that.notifier.Broadcast(ActionGameReset, nil)

	metrics.Participants.Set(0)
	that.logger.Debug("session reset")
}

func (that *Coordinator) broadcastParticipants() {
	that.notifier.Broadcast(ActionPlayersUpdate, PlayersPayload{Players: that.session.Participants()})
	metrics.Participants.Set(float64(that.session.Len()))
}
