package events

import (
	"context"
	"fmt"
	"time"

	"todo_webapp/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

const DefaultChannel = "todos:events"

// RedisBroker publishes events on a Redis channel and forwards everything it
// hears on that channel to the local sink, so all instances see all mutations.
type RedisBroker struct {
	client  *redis.Client
	channel string
	sink    Sink
}

// NewRedisClient connects and pings; the caller owns the returned client.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func NewRedisBroker(client *redis.Client, channel string, sink Sink) *RedisBroker {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisBroker{client: client, channel: channel, sink: sink}
}

func (b *RedisBroker) Publish(ctx context.Context, e Event) error {
	payload, err := Encode(e)
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Run forwards channel messages to the sink until ctx is cancelled.
// ready, if non-nil, is closed once the subscription is confirmed.
func (b *RedisBroker) Run(ctx context.Context, ready chan<- struct{}) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}
	if ready != nil {
		close(ready)
	}
	logger.Info("subscribed to todo events", "channel", b.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.sink.Broadcast([]byte(msg.Payload))
		}
	}
}
