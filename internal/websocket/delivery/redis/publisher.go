package redis

import (
	"context"

	"evento-notification/internal/metrics"
	"evento-notification/internal/websocket"
)

func (p *publisher) Broadcast(ctx context.Context, userID, event string, payload any) error {
	message, err := websocket.EncodeEnvelope(event, payload)
	if err != nil {
		p.logger.Errorf(ctx, "internal.websocket.delivery.redis.Broadcast.EncodeEnvelope: %v", err)
		return err
	}

	if err := p.redis.Publish(ctx, userChannel(userID), message); err != nil {
		metrics.RelayPublishErrors.Inc()
		p.logger.Errorf(ctx, "internal.websocket.delivery.redis.Broadcast.Publish: user=%s event=%s: %v", userID, event, err)
		// Local connections still get the push.
		p.local.SendToUser(ctx, userID, message)
		return nil
	}

	return nil
}

func (p *publisher) EmitToConnection(ctx context.Context, connID, event string, payload any) error {
	return p.local.EmitToConnection(ctx, connID, event, payload)
}
