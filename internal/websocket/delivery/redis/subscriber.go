package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

func (s *subscriber) Start(ctx context.Context) error {
	pattern := ChannelPrefix + "*"

	s.pubsub = s.redis.PSubscribe(ctx, pattern)

	// Wait for confirmation that subscription is created
	if _, err := s.pubsub.Receive(ctx); err != nil {
		_ = s.pubsub.Close()
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	s.wg.Add(1)
	go s.listen(context.WithoutCancel(ctx))

	s.logger.Infof(ctx, "Redis relay subscriber started on pattern: %s", pattern)
	return nil
}

func (s *subscriber) listen(ctx context.Context) {
	defer s.wg.Done()

	ch := s.pubsub.Channel()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				s.logger.Warnf(ctx, "redis pubsub channel closed")
				return
			}
			s.handleMessage(ctx, msg)
		case <-s.quit:
			return
		}
	}
}

func (s *subscriber) handleMessage(ctx context.Context, msg *goredis.Message) {
	userID, ok := userFromChannel(msg.Channel)
	if !ok {
		s.logger.Warnf(ctx, "internal.websocket.delivery.redis.handleMessage: unexpected channel %q", msg.Channel)
		return
	}
	s.uc.SendToUser(ctx, userID, []byte(msg.Payload))
}

func (s *subscriber) Shutdown(ctx context.Context) error {
	s.once.Do(func() {
		close(s.quit)
		if s.pubsub != nil {
			if err := s.pubsub.Close(); err != nil {
				s.logger.Errorf(ctx, "failed to close pubsub: %v", err)
			}
		}
	})
	s.wg.Wait()
	s.logger.Infof(ctx, "Redis relay subscriber stopped")
	return nil
}
