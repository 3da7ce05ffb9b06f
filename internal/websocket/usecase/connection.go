package usecase

import (
	"context"
	"sync"
	"time"

	ws "evento-notification/internal/websocket"
	"evento-notification/pkg/log"

	"github.com/gorilla/websocket"
)

// Connection is one client session. userID and state are guarded by the
// registry mutex; send and done are safe for concurrent use.
type Connection struct {
	id         string
	remoteAddr string
	transport  ws.Transport
	handler    ws.ClientHandler

	userID string
	state  ws.State

	// Buffered channel of outbound messages. Never closed; done signals shutdown.
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	logger log.Logger
}

func newConnection(id string, input ws.ConnectInput, sendBuffer int, logger log.Logger) *Connection {
	return &Connection{
		id:         id,
		remoteAddr: input.RemoteAddr,
		transport:  input.Transport,
		handler:    input.Handler,
		state:      ws.StateConnected,
		send:       make(chan []byte, sendBuffer),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// enqueue never blocks.
func (c *Connection) enqueue(message []byte) error {
	select {
	case <-c.done:
		return ws.ErrConnectionClosed
	default:
	}

	select {
	case c.send <- message:
		return nil
	case <-c.done:
		return ws.ErrConnectionClosed
	default:
		return ws.ErrSendBufferFull
	}
}

// close signals the write pump, which sends the close frame and releases
// the transport.
func (c *Connection) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// readPump pumps frames from the client to the handler. It is the only
// reader of the transport and disconnects the connection when it returns.
func (c *Connection) readPump(uc *implUseCase) {
	ctx := context.Background()
	defer uc.Disconnect(ctx, c.id)

	c.transport.SetReadLimit(uc.cfg.MaxMessageSize)
	_ = c.transport.SetReadDeadline(time.Now().Add(uc.cfg.PongWait))
	c.transport.SetPongHandler(func(string) error {
		return c.transport.SetReadDeadline(time.Now().Add(uc.cfg.PongWait))
	})

	for {
		_, frame, err := c.transport.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Warnf(ctx, "internal.websocket.usecase.readPump.ReadMessage: conn=%s err=%v", c.id, err)
			}
			return
		}

		msg, err := ws.DecodeClientMessage(frame)
		if err != nil {
			c.logger.Debugf(ctx, "dropping malformed frame from conn=%s: %v", c.id, err)
			_ = uc.EmitToConnection(ctx, c.id, ws.EventError, ws.ErrorPayload{Message: err.Error()})
			continue
		}

		if c.handler != nil {
			c.handler.HandleClientMessage(ctx, c.id, msg)
		}
	}
}

// writePump pumps queued messages to the client, one frame per message,
// and pings on the keepalive interval. It is the only writer.
func (c *Connection) writePump(uc *implUseCase) {
	ticker := time.NewTicker(uc.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.close()
		_ = c.transport.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.transport.SetWriteDeadline(time.Now().Add(uc.cfg.WriteWait))
			if err := c.transport.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Debugf(context.Background(), "write to conn=%s failed: %v", c.id, err)
				return
			}

		case <-ticker.C:
			_ = c.transport.SetWriteDeadline(time.Now().Add(uc.cfg.WriteWait))
			if err := c.transport.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			_ = c.transport.SetWriteDeadline(time.Now().Add(uc.cfg.WriteWait))
			_ = c.transport.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
