package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"

	ws "evento-notification/internal/websocket"
	"evento-notification/pkg/log"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, cfg Config) *implUseCase {
	t.Helper()
	return newRegistry(log.NewNop(), cfg)
}

// addConn registers a connection without starting pumps.
func addConn(t *testing.T, uc *implUseCase, id string) *Connection {
	t.Helper()
	c := newConnection(id, ws.ConnectInput{}, uc.cfg.SendBufferSize, uc.logger)
	require.NoError(t, uc.add(c))
	return c
}

func drain(c *Connection) []ws.Envelope {
	var out []ws.Envelope
	for {
		select {
		case msg := <-c.send:
			var env ws.Envelope
			_ = json.Unmarshal(msg, &env)
			out = append(out, env)
		default:
			return out
		}
	}
}

func TestUnidentifiedConnectionReceivesNoBroadcast(t *testing.T) {
	uc := newTestRegistry(t, Config{})
	c := addConn(t, uc, "c1")

	require.NoError(t, uc.Broadcast(context.Background(), "U1", ws.EventNewEvent, "x"))
	assert.Empty(t, drain(c))
}

func TestBroadcastFansOutToRoom(t *testing.T) {
	uc := newTestRegistry(t, Config{})
	ctx := context.Background()
	a := addConn(t, uc, "a")
	b := addConn(t, uc, "b")
	other := addConn(t, uc, "other")

	require.NoError(t, uc.Identify(ctx, "a", "U1"))
	require.NoError(t, uc.Identify(ctx, "b", "U1"))
	require.NoError(t, uc.Identify(ctx, "other", "U2"))

	require.NoError(t, uc.Broadcast(ctx, "U1", ws.EventNewEvent, map[string]string{"notificationId": "n1"}))

	for _, c := range []*Connection{a, b} {
		got := drain(c)
		require.Len(t, got, 1, c.id)
		assert.Equal(t, ws.EventNewEvent, got[0].Event)
	}
	assert.Empty(t, drain(other))
}

func TestBroadcastEmptyRoomIsNoop(t *testing.T) {
	uc := newTestRegistry(t, Config{})
	assert.NoError(t, uc.Broadcast(context.Background(), "nobody", ws.EventNotifications, []string{}))
	assert.Equal(t, 0, uc.SendToUser(context.Background(), "nobody", []byte("{}")))
}

func TestIdentifyIsIdempotent(t *testing.T) {
	uc := newTestRegistry(t, Config{})
	ctx := context.Background()
	c := addConn(t, uc, "c1")

	require.NoError(t, uc.Identify(ctx, "c1", "U1"))
	require.NoError(t, uc.Identify(ctx, "c1", "U1"))

	require.NoError(t, uc.Broadcast(ctx, "U1", ws.EventNewEvent, "x"))
	assert.Len(t, drain(c), 1)
	assert.Equal(t, ws.HubStats{ActiveConnections: 1, IdentifiedConnections: 1, TotalUniqueUsers: 1}, uc.GetStats(ctx))
}

func TestReidentifyMovesRoom(t *testing.T) {
	uc := newTestRegistry(t, Config{})
	ctx := context.Background()
	c := addConn(t, uc, "c1")

	require.NoError(t, uc.Identify(ctx, "c1", "U1"))
	require.NoError(t, uc.Identify(ctx, "c1", "U2"))

	assert.Equal(t, 0, uc.SendToUser(ctx, "U1", []byte("{}")))
	assert.Equal(t, 1, uc.SendToUser(ctx, "U2", []byte("{}")))
	_, stillThere := uc.rooms["U1"]
	assert.False(t, stillThere)
	assert.Equal(t, ws.StateIdentified, c.state)
}

func TestIdentifyErrors(t *testing.T) {
	uc := newTestRegistry(t, Config{})
	addConn(t, uc, "c1")

	assert.ErrorIs(t, uc.Identify(context.Background(), "c1", "  "), ws.ErrInvalidUserID)
	assert.ErrorIs(t, uc.Identify(context.Background(), "missing", "U1"), ws.ErrConnectionNotFound)
}

func TestDisconnectDropsEmptyRoom(t *testing.T) {
	uc := newTestRegistry(t, Config{})
	ctx := context.Background()
	a := addConn(t, uc, "a")
	addConn(t, uc, "b")
	require.NoError(t, uc.Identify(ctx, "a", "U1"))
	require.NoError(t, uc.Identify(ctx, "b", "U1"))

	uc.Disconnect(ctx, "a")
	assert.Equal(t, ws.StateDisconnected, a.state)
	assert.Len(t, uc.rooms["U1"], 1)
	assert.ErrorIs(t, a.enqueue([]byte("x")), ws.ErrConnectionClosed)

	uc.Disconnect(ctx, "b")
	assert.Empty(t, uc.rooms)
	assert.Empty(t, uc.conns)

	// terminal: no way back
	uc.Disconnect(ctx, "a")
	assert.ErrorIs(t, uc.Identify(ctx, "a", "U1"), ws.ErrConnectionNotFound)
}

func TestEmitToConnectionTargetsOnlyThatConnection(t *testing.T) {
	uc := newTestRegistry(t, Config{})
	ctx := context.Background()
	a := addConn(t, uc, "a")
	b := addConn(t, uc, "b")
	require.NoError(t, uc.Identify(ctx, "a", "U1"))
	require.NoError(t, uc.Identify(ctx, "b", "U1"))

	require.NoError(t, uc.EmitToConnection(ctx, "a", ws.EventNotifications, []string{"n1"}))
	assert.Len(t, drain(a), 1)
	assert.Empty(t, drain(b))

	assert.ErrorIs(t, uc.EmitToConnection(ctx, "zzz", ws.EventNotifications, nil), ws.ErrConnectionNotFound)
}

func TestFullBufferIsIsolated(t *testing.T) {
	uc := newTestRegistry(t, Config{SendBufferSize: 1})
	ctx := context.Background()
	slow := addConn(t, uc, "slow")
	fast := addConn(t, uc, "fast")
	require.NoError(t, uc.Identify(ctx, "slow", "U1"))
	require.NoError(t, uc.Identify(ctx, "fast", "U1"))

	require.NoError(t, uc.Broadcast(ctx, "U1", ws.EventNewEvent, 1))
	drain(fast)

	// slow never drained: second broadcast overflows only slow
	assert.Equal(t, 1, uc.SendToUser(ctx, "U1", []byte(`{"event":"new_event"}`)))
	assert.Len(t, drain(fast), 1)
	assert.Len(t, drain(slow), 1)
	assert.ErrorIs(t, func() error {
		require.NoError(t, slow.enqueue([]byte("a")))
		return slow.enqueue([]byte("b"))
	}(), ws.ErrSendBufferFull)
}

func TestMaxConnections(t *testing.T) {
	uc := newTestRegistry(t, Config{MaxConnections: 1})
	addConn(t, uc, "a")
	assert.ErrorIs(t, uc.Accepting(context.Background()), ws.ErrMaxConnectionsReached)

	err := uc.add(newConnection("b", ws.ConnectInput{}, 1, uc.logger))
	assert.ErrorIs(t, err, ws.ErrMaxConnectionsReached)
}

func TestShutdownClosesEverything(t *testing.T) {
	uc := newTestRegistry(t, Config{})
	ctx := context.Background()
	a := addConn(t, uc, "a")
	require.NoError(t, uc.Identify(ctx, "a", "U1"))

	require.NoError(t, uc.Shutdown(ctx))
	assert.ErrorIs(t, a.enqueue([]byte("x")), ws.ErrConnectionClosed)
	assert.Equal(t, ws.HubStats{}, uc.GetStats(ctx))
	assert.ErrorIs(t, uc.add(newConnection("b", ws.ConnectInput{}, 1, uc.logger)), ws.ErrRegistryClosed)
	assert.ErrorIs(t, uc.Accepting(ctx), ws.ErrRegistryClosed)
}

func TestConcurrentIdentifyBroadcastDisconnect(t *testing.T) {
	uc := newTestRegistry(t, Config{SendBufferSize: 1024})
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		c := addConn(t, uc, fmt.Sprintf("c%d", i))
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = uc.Identify(ctx, c.id, fmt.Sprintf("U%d", i%5))
		}()
		go func() {
			defer wg.Done()
			_ = uc.Broadcast(ctx, fmt.Sprintf("U%d", i%5), ws.EventNewEvent, i)
		}()
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		i := i
		if i%2 == 0 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				uc.Disconnect(ctx, fmt.Sprintf("c%d", i))
			}()
		}
	}
	wg.Wait()

	stats := uc.GetStats(ctx)
	assert.Equal(t, n/2, stats.ActiveConnections)
	assert.Equal(t, n/2, stats.IdentifiedConnections)
}
