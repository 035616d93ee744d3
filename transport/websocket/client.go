package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-duel/internal/config"
)

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
}

func newClient(id string, conn *websocket.Conn, bufferSize int) *client {
	return &client{
		id:   id,
		conn: conn,
		send: make(chan []byte, bufferSize),
	}
}

// close - stops the write pump once queued frames are flushed.
func (that *client) close() {
	that.closeOnce.Do(func() {
		close(that.send)
	})
}

// queue - non-blocking; false when the send buffer is full.
func (that *client) queue(data []byte) bool {
	select {
	case that.send <- data:
		return true
	default:
		return false
	}
}

func (that *client) writePump(conf config.Websocket) {
	ticker := time.NewTicker(conf.PingPeriod())
	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case data, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(conf.WriteWait))
			if !ok {
				closeFrame := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
				_ = that.conn.WriteMessage(websocket.CloseMessage, closeFrame)
				return
			}

			if err := that.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(conf.WriteWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
