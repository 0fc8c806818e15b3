package peer

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBus carries sync messages over Redis pub/sub, which lets boards on
// different machines share a channel. Redis delivers to the publisher too.
type RedisBus struct {
	rdb     *redis.Client
	channel string
}

// RedisChannel returns the pub/sub channel name for a room.
func RedisChannel(room string) string {
	return fmt.Sprintf("localboard:%s:events", room)
}

// NewRedisBus wraps an existing client. The caller keeps ownership of rdb.
func NewRedisBus(rdb *redis.Client, room string) *RedisBus {
	return &RedisBus{rdb: rdb, channel: RedisChannel(room)}
}

func (b *RedisBus) Publish(ctx context.Context, data []byte) error {
	if err := b.rdb.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish sync event: %w", err)
	}
	return nil
}

// Subscribe returns once Redis has confirmed the subscription, so messages
// published afterwards are not missed.
func (b *RedisBus) Subscribe(ctx context.Context, deliver func([]byte)) (Subscription, error) {
	pubsub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}

	subCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		ch := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				deliver([]byte(msg.Payload))
			}
		}
	}()

	return &redisSub{pubsub: pubsub, cancel: cancel, done: done}, nil
}

type redisSub struct {
	pubsub *redis.PubSub
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *redisSub) Close() error {
	s.cancel()
	err := s.pubsub.Close()
	<-s.done
	return err
}
