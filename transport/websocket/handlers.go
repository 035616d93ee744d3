package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-duel/internal/tictactoe"
)

const actionGameMove = tictactoe.ActionGameMove

func (that *Server) handleMove(ctx context.Context, c *client, msg *Message) error {
	var payload tictactoe.MovePayload

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		metrics.Moves.WithLabelValues(metrics.ResultMalformed).Inc()
		return fmt.Errorf("%w: %w", apperror.ErrMalformedPayload, err)
	}

	if payload.Cell == nil {
		metrics.Moves.WithLabelValues(metrics.ResultMalformed).Inc()
		return fmt.Errorf("%w: cell is required", apperror.ErrMalformedPayload)
	}

	if err := that.manager.Move(ctx, c.id, *payload.Cell); err != nil {
		return fmt.Errorf("failed to queue move: %w", err)
	}

	return nil
}
