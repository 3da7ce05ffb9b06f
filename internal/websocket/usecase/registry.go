package usecase

import (
	"context"
	"strings"

	"evento-notification/internal/metrics"
	ws "evento-notification/internal/websocket"

	"github.com/google/uuid"
)

func (uc *implUseCase) Connect(ctx context.Context, input ws.ConnectInput) (string, error) {
	if input.Transport == nil {
		return "", ws.ErrConnectionClosed
	}

	c := newConnection(uuid.NewString(), input, uc.cfg.SendBufferSize, uc.logger)
	if err := uc.add(c); err != nil {
		return "", err
	}

	go c.writePump(uc)
	go c.readPump(uc)

	uc.logger.Debugf(ctx, "connection %s opened from %s", c.id, c.remoteAddr)
	return c.id, nil
}

func (uc *implUseCase) Accepting(ctx context.Context) error {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.admitLocked()
}

func (uc *implUseCase) admitLocked() error {
	if uc.closed {
		return ws.ErrRegistryClosed
	}
	if uc.cfg.MaxConnections > 0 && len(uc.conns) >= uc.cfg.MaxConnections {
		return ws.ErrMaxConnectionsReached
	}
	return nil
}

// add registers an unidentified connection.
func (uc *implUseCase) add(c *Connection) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.admitLocked(); err != nil {
		return err
	}

	uc.conns[c.id] = c
	metrics.WSConnections.Set(float64(len(uc.conns)))
	return nil
}

func (uc *implUseCase) Identify(ctx context.Context, connID, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ws.ErrInvalidUserID
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	c, ok := uc.conns[connID]
	if !ok {
		return ws.ErrConnectionNotFound
	}

	if c.state == ws.StateIdentified && c.userID == userID {
		return nil
	}
	if c.state == ws.StateIdentified {
		uc.leaveRoomLocked(c)
	}

	room, ok := uc.rooms[userID]
	if !ok {
		room = make(map[string]*Connection)
		uc.rooms[userID] = room
	}
	room[c.id] = c
	c.userID = userID
	c.state = ws.StateIdentified

	metrics.WSRooms.Set(float64(len(uc.rooms)))
	uc.logger.Debugf(ctx, "connection %s identified as %s", connID, userID)
	return nil
}

// leaveRoomLocked removes c from its room and drops the room when empty.
func (uc *implUseCase) leaveRoomLocked(c *Connection) {
	room, ok := uc.rooms[c.userID]
	if !ok {
		return
	}
	delete(room, c.id)
	if len(room) == 0 {
		delete(uc.rooms, c.userID)
	}
}

func (uc *implUseCase) Disconnect(ctx context.Context, connID string) {
	uc.mu.Lock()
	c, ok := uc.conns[connID]
	if !ok {
		uc.mu.Unlock()
		return
	}
	delete(uc.conns, connID)
	if c.state == ws.StateIdentified {
		uc.leaveRoomLocked(c)
	}
	c.state = ws.StateDisconnected
	metrics.WSConnections.Set(float64(len(uc.conns)))
	metrics.WSRooms.Set(float64(len(uc.rooms)))
	uc.mu.Unlock()

	c.close()
	uc.logger.Debugf(ctx, "connection %s closed", connID)
}

func (uc *implUseCase) Broadcast(ctx context.Context, userID, event string, payload any) error {
	message, err := ws.EncodeEnvelope(event, payload)
	if err != nil {
		uc.logger.Errorf(ctx, "internal.websocket.usecase.Broadcast.EncodeEnvelope: %v", err)
		return err
	}

	uc.SendToUser(ctx, userID, message)
	metrics.WSMessagesSent.WithLabelValues(event).Inc()
	return nil
}

func (uc *implUseCase) SendToUser(ctx context.Context, userID string, message []byte) int {
	uc.mu.RLock()
	room := uc.rooms[userID]
	recipients := make([]*Connection, 0, len(room))
	for _, c := range room {
		recipients = append(recipients, c)
	}
	uc.mu.RUnlock()

	delivered := 0
	for _, c := range recipients {
		if err := c.enqueue(message); err != nil {
			metrics.WSSendDropped.Inc()
			uc.logger.Warnf(ctx, "internal.websocket.usecase.SendToUser.enqueue: conn=%s user=%s err=%v", c.id, userID, err)
			continue
		}
		delivered++
	}

	return delivered
}

func (uc *implUseCase) EmitToConnection(ctx context.Context, connID, event string, payload any) error {
	uc.mu.RLock()
	c, ok := uc.conns[connID]
	uc.mu.RUnlock()
	if !ok {
		return ws.ErrConnectionNotFound
	}

	message, err := ws.EncodeEnvelope(event, payload)
	if err != nil {
		uc.logger.Errorf(ctx, "internal.websocket.usecase.EmitToConnection.EncodeEnvelope: %v", err)
		return err
	}

	if err := c.enqueue(message); err != nil {
		metrics.WSSendDropped.Inc()
		return err
	}
	metrics.WSMessagesSent.WithLabelValues(event).Inc()
	return nil
}

func (uc *implUseCase) GetStats(ctx context.Context) ws.HubStats {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	identified := 0
	for _, room := range uc.rooms {
		identified += len(room)
	}

	return ws.HubStats{
		ActiveConnections:     len(uc.conns),
		IdentifiedConnections: identified,
		TotalUniqueUsers:      len(uc.rooms),
	}
}

// Shutdown closes every connection and rejects new ones.
func (uc *implUseCase) Shutdown(ctx context.Context) error {
	uc.mu.Lock()
	uc.closed = true
	conns := make([]*Connection, 0, len(uc.conns))
	for _, c := range uc.conns {
		c.state = ws.StateDisconnected
		conns = append(conns, c)
	}
	uc.conns = make(map[string]*Connection)
	uc.rooms = make(map[string]map[string]*Connection)
	metrics.WSConnections.Set(0)
	metrics.WSRooms.Set(0)
	uc.mu.Unlock()

	for _, c := range conns {
		c.close()
	}

	uc.logger.Infof(ctx, "connection registry closed %d connections", len(conns))
	return nil
}
