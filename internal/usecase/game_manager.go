package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-duel/internal/metrics"
)

const DefaultQueueSize = 64

type coordinator interface {
	OnConnect(id string) error
	OnMove(id string, cell int) error
	OnDisconnect(id string) error
	Session() *entity.Session
}

type eventKind int

const (
	eventConnect eventKind = iota
	eventMove
	eventDisconnect
	eventSnapshot
)

func (that eventKind) String() string {
	switch that {
	case eventConnect:
		return "connect"
	case eventMove:
		return "move"
	case eventDisconnect:
		return "disconnect"
	case eventSnapshot:
		return "snapshot"
	default:
		return "unknown"
	}
}

type event struct {
	kind          eventKind
	participantID string
	cell          int
	reply         chan entity.SessionView
}

// GameManager is the single serialization point in front of the coordinator.
// Inbound events are queued and handled one at a time by Run.
type GameManager struct {
	logger      *slog.Logger
	coordinator coordinator
	events      chan event
}

func NewGameManager(logger *slog.Logger, coordinator coordinator, queueSize int) *GameManager {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	return &GameManager{
		logger:      logger.With("component", "game_manager"),
		coordinator: coordinator,
		events:      make(chan event, queueSize),
	}
}

// Run - processes queued events until ctx is canceled.
func (that *GameManager) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")
	log.Info("game manager started")

	for {
		select {
		case <-ctx.Done():
			log.Info("game manager stopped")
			return nil
		case ev := <-that.events:
			that.dispatch(ev)
		}
	}
}

func (that *GameManager) Connect(ctx context.Context, participantID string) error {
	return that.enqueue(ctx, event{kind: eventConnect, participantID: participantID})
}

func (that *GameManager) Move(ctx context.Context, participantID string, cell int) error {
	return that.enqueue(ctx, event{kind: eventMove, participantID: participantID, cell: cell})
}

func (that *GameManager) Disconnect(ctx context.Context, participantID string) error {
	return that.enqueue(ctx, event{kind: eventDisconnect, participantID: participantID})
}

// Snapshot - session state as seen after every previously queued event.
func (that *GameManager) Snapshot(ctx context.Context) (entity.SessionView, error) {
	reply := make(chan entity.SessionView, 1)

	if err := that.enqueue(ctx, event{kind: eventSnapshot, reply: reply}); err != nil {
		return entity.SessionView{}, err
	}

	select {
	case view := <-reply:
		return view, nil
	case <-ctx.Done():
		return entity.SessionView{}, fmt.Errorf("failed to wait for snapshot: %w", ctx.Err())
	}
}

func (that *GameManager) enqueue(ctx context.Context, ev event) error {
	select {
	case that.events <- ev:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to queue %s event: %w", ev.kind, ctx.Err())
	}
}

func (that *GameManager) dispatch(ev event) {
	log := that.logger.With("method", "dispatch", "event", ev.kind.String(), "participantID", ev.participantID)

	switch ev.kind {
	case eventConnect:
		if err := that.coordinator.OnConnect(ev.participantID); err != nil {
			log.Debug("connection not admitted", "error", err)
		}
	case eventMove:
		err := that.coordinator.OnMove(ev.participantID, ev.cell)
		metrics.Moves.WithLabelValues(MoveResult(err)).Inc()

		if err != nil {
			log.Debug("move ignored", "cell", ev.cell, "error", err)
		}
	case eventDisconnect:
		if err := that.coordinator.OnDisconnect(ev.participantID); err != nil {
			log.Debug("disconnect ignored", "error", err)
		}
	case eventSnapshot:
		ev.reply <- that.coordinator.Session().Snapshot()
	}
}

// MoveResult - metrics label for the outcome of a move intent.
func MoveResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultApplied
	case errors.Is(err, apperror.ErrNoActiveGame):
		return "no_active_game"
	case errors.Is(err, apperror.ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, apperror.ErrNotParticipant):
		return "not_participant"
	case errors.Is(err, apperror.ErrInvalidCell):
		return "invalid_cell"
	case errors.Is(err, apperror.ErrCellOccupied):
		return "cell_occupied"
	default:
		return "error"
	}
}
