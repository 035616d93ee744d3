package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

const snapshotTimeout = 2 * time.Second

type sessionReader interface {
	Snapshot(ctx context.Context) (entity.SessionView, error)
}

type HealthResponse struct {
	Status       string `json:"status"`
	Participants int    `json:"participants"`
	Active       bool   `json:"active"`
}

type Handlers struct {
	logger   *slog.Logger
	sessions sessionReader
}

func NewHandlers(logger *slog.Logger, sessions sessionReader) *Handlers {
	return &Handlers{
		logger:   logger.With("component", "rest"),
		sessions: sessions,
	}
}

func (that *Handlers) Ping(ctx *gin.Context) {
	ctx.String(http.StatusOK, "pong")
}

// Health - reports the session as seen by the game manager.
func (that *Handlers) Health(ctx *gin.Context) {
	log := that.logger.With("method", "Health")

	snapshotCtx, cancel := context.WithTimeout(ctx.Request.Context(), snapshotTimeout)
	defer cancel()

	view, err := that.sessions.Snapshot(snapshotCtx)
	if err != nil {
		log.Error("failed to read session", "error", err)
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}

	ctx.JSON(http.StatusOK, HealthResponse{
		Status:       "ok",
		Participants: len(view.Participants),
		Active:       view.Active,
	})
}
