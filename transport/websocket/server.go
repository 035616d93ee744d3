package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-duel/internal/config"
	"github.com/rocketscienceinc/tictactoe-duel/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

type gameManager interface {
	Connect(ctx context.Context, participantID string) error
	Move(ctx context.Context, participantID string, cell int) error
	Disconnect(ctx context.Context, participantID string) error
}

// Server is the websocket gateway. It owns every open connection and
// implements the coordinator's Notifier on top of them.
type Server struct {
	logger   *slog.Logger
	conf     config.Websocket
	upgrader websocket.Upgrader
	manager  gameManager

	clientsMutex sync.RWMutex
	clients      map[string]*client

	handlers map[string]func(ctx context.Context, c *client, msg *Message) error
}

func New(logger *slog.Logger, conf config.Websocket, allowedOrigins []string) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		conf:    conf,
		clients: make(map[string]*client),

		handlers: make(map[string]func(context.Context, *client, *Message) error),
	}

	server.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin(allowedOrigins),
	}

	server.handlers[actionGameMove] = server.handleMove

	return server
}

// Handler - http handler serving /ws; inbound events go to manager.
func (that *Server) Handler(ctx context.Context, manager gameManager) http.Handler {
	that.manager = manager

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server and stops it when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string, manager gameManager) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(ctx, manager),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Broadcast - queues the frame on every open connection; slow ones are dropped.
func (that *Server) Broadcast(action string, payload any) {
	log := that.logger.With("method", "Broadcast", "action", action)

	data, err := encodeMessage(action, payload)
	if err != nil {
		log.Error("failed to encode message", "error", err)
		return
	}

	var slow []string

	that.clientsMutex.RLock()
	for id, c := range that.clients {
		if !c.queue(data) {
			slow = append(slow, id)
		}
	}
	that.clientsMutex.RUnlock()

	for _, id := range slow {
		log.Warn("send buffer is full, dropping connection", "participantID", id)
		that.unregister(id)
	}
}

func (that *Server) Unicast(participantID, action string, payload any) {
	log := that.logger.With("method", "Unicast", "action", action, "participantID", participantID)

	data, err := encodeMessage(action, payload)
	if err != nil {
		log.Error("failed to encode message", "error", err)
		return
	}

	that.clientsMutex.RLock()
	c, ok := that.clients[participantID]
	queued := ok && c.queue(data)
	that.clientsMutex.RUnlock()

	if ok && !queued {
		log.Warn("send buffer is full, dropping connection")
		that.unregister(participantID)
	}
}

// Disconnect - flushes queued frames, then closes the connection.
func (that *Server) Disconnect(participantID string) {
	that.unregister(participantID)
}

func (that *Server) serveWebSocket(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWebSocket")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("failed to upgrade connection", "error", err, "origin", r.Header.Get("Origin"))
		return
	}

	c := newClient(uuid.NewString(), conn, that.conf.SendBuffer)
	that.register(c)

	go c.writePump(that.conf)

	log.Info("WebSocket connection established", "participantID", c.id)

	if err = that.manager.Connect(ctx, c.id); err != nil {
		log.Error("failed to queue connect", "participantID", c.id, "error", err)
		that.unregister(c.id)
	}

	that.readPump(ctx, c)
}

func (that *Server) readPump(ctx context.Context, c *client) {
	log := that.logger.With("method", "readPump", "participantID", c.id)

	defer func() {
		that.unregister(c.id)
		_ = c.conn.Close()

		if err := that.manager.Disconnect(ctx, c.id); err != nil {
			log.Error("failed to queue disconnect", "error", err)
		}

		log.Info("WebSocket connection closed")
	}()

	c.conn.SetReadLimit(that.conf.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(that.conf.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(that.conf.PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("unexpected close", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			metrics.Moves.WithLabelValues(metrics.ResultMalformed).Inc()
			log.Debug("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Debug("unknown action", "action", message.Action)
			continue
		}

		if err = handler(ctx, c, &message); err != nil {
			log.Debug("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) register(c *client) {
	that.clientsMutex.Lock()
	that.clients[c.id] = c
	that.clientsMutex.Unlock()

	metrics.OpenConnections.Inc()
}

// unregister - idempotent; closing the send queue makes the write pump
// send a close frame after the frames already queued.
func (that *Server) unregister(id string) {
	that.clientsMutex.Lock()
	c, ok := that.clients[id]
	delete(that.clients, id)
	that.clientsMutex.Unlock()

	if !ok {
		return
	}

	c.close()
	metrics.OpenConnections.Dec()
}

// checkOrigin - an empty allow list accepts every origin; requests without
// an Origin header come from non-browser clients and are accepted.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if len(allowed) == 0 {
			return true
		}

		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}

		return slices.Contains(allowed, origin)
	}
}
