package redis

import (
	"context"
	"errors"
	"sync"
	"testing"

	"evento-notification/internal/websocket"
	"evento-notification/pkg/log"
	pkgRedis "evento-notification/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	channel string
	message string
}

type fakeRedis struct {
	pkgRedis.IRedis

	mu         sync.Mutex
	published  []published
	publishErr error
}

func (f *fakeRedis) Publish(_ context.Context, channel string, message []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, published{channel: channel, message: string(message)})
	return nil
}

type sent struct {
	userID  string
	message string
}

type fakeRegistry struct {
	websocket.UseCase

	mu      sync.Mutex
	sent    []sent
	emitted []string
}

func (f *fakeRegistry) SendToUser(_ context.Context, userID string, message []byte) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sent{userID: userID, message: string(message)})
	return 1
}

func (f *fakeRegistry) EmitToConnection(_ context.Context, connID, event string, _ any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emitted = append(f.emitted, connID+"/"+event)
	return nil
}

func TestUserFromChannel(t *testing.T) {
	tests := []struct {
		channel string
		want    string
		wantOK  bool
	}{
		{channel: "user_noti:U1", want: "U1", wantOK: true},
		{channel: "user_noti:6f1c0e4e-8c7a-4a55-9d3b-2b0c1c1f9e10", want: "6f1c0e4e-8c7a-4a55-9d3b-2b0c1c1f9e10", wantOK: true},
		{channel: "user_noti:", wantOK: false},
		{channel: "project:1:user:2", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.channel, func(t *testing.T) {
			got, ok := userFromChannel(tt.channel)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "user_noti:U1", userChannel("U1"))
}

func TestPublisherBroadcast(t *testing.T) {
	r := &fakeRedis{}
	local := &fakeRegistry{}
	p := NewPublisher(r, local, log.NewNop())

	require.NoError(t, p.Broadcast(context.Background(), "U1", websocket.EventNewEvent, map[string]string{"eventID": "E1"}))

	require.Len(t, r.published, 1)
	assert.Equal(t, "user_noti:U1", r.published[0].channel)
	assert.JSONEq(t, `{"event":"new_event","data":{"eventID":"E1"}}`, r.published[0].message)
	assert.Empty(t, local.sent)
}

func TestPublisherFallsBackToLocalOnPublishError(t *testing.T) {
	r := &fakeRedis{publishErr: errors.New("connection refused")}
	local := &fakeRegistry{}
	p := NewPublisher(r, local, log.NewNop())

	require.NoError(t, p.Broadcast(context.Background(), "U1", websocket.EventNotifications, []string{}))

	require.Len(t, local.sent, 1)
	assert.Equal(t, "U1", local.sent[0].userID)
	assert.JSONEq(t, `{"event":"notifications","data":[]}`, local.sent[0].message)
}

func TestPublisherEmitStaysLocal(t *testing.T) {
	r := &fakeRedis{}
	local := &fakeRegistry{}
	p := NewPublisher(r, local, log.NewNop())

	require.NoError(t, p.EmitToConnection(context.Background(), "c1", websocket.EventNotifications, nil))

	assert.Empty(t, r.published)
	assert.Equal(t, []string{"c1/notifications"}, local.emitted)
}

func TestSubscriberHandleMessage(t *testing.T) {
	local := &fakeRegistry{}
	s := NewSubscriber(&fakeRedis{}, local, log.NewNop()).(*subscriber)

	s.handleMessage(context.Background(), &goredis.Message{Channel: "user_noti:U7", Payload: `{"event":"new_event","data":{}}`})
	s.handleMessage(context.Background(), &goredis.Message{Channel: "system:all", Payload: `{}`})

	require.Len(t, local.sent, 1)
	assert.Equal(t, sent{userID: "U7", message: `{"event":"new_event","data":{}}`}, local.sent[0])
}
