package broadcast

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/brainydx/task-tracker/internal/core/ports"
)

// wireEvent is the envelope published on the Redis channel. Payload stays raw
// so subscribers re-emit exactly the bytes the mutating instance produced.
type wireEvent struct {
	Name    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// RedisBridge shares one broadcast domain across server instances through a
// Redis pub/sub channel. Each instance publishes to the channel and fans out
// to its local subscribers on receipt, publisher included via loopback.
type RedisBridge struct {
	client  *redis.Client
	channel string
	hub     *Hub
	log     zerolog.Logger
}

func NewRedisBridge(client *redis.Client, channel string, hub *Hub, log zerolog.Logger) *RedisBridge {
	return &RedisBridge{client: client, channel: channel, hub: hub, log: log}
}

// Publish marshals evt and pushes it onto the shared channel.
func (b *RedisBridge) Publish(evt ports.Event) error {
	payload, err := json.Marshal(evt.Payload)
	if err != nil {
		return fmt.Errorf("bridge marshal payload: %w", err)
	}
	data, err := json.Marshal(wireEvent{Name: evt.Name, Payload: payload})
	if err != nil {
		return fmt.Errorf("bridge marshal event: %w", err)
	}
	if err := b.client.Publish(context.Background(), b.channel, data).Err(); err != nil {
		return fmt.Errorf("bridge publish: %w", err)
	}
	return nil
}

// Start subscribes to the shared channel and fans received events out to the
// local hub until ctx is cancelled.
func (b *RedisBridge) Start(ctx context.Context) {
	sub := b.client.Subscribe(ctx, b.channel)

	go func() {
		defer func() { _ = sub.Close() }()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var evt wireEvent
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
					b.log.Warn().Err(err).Msg("bridge received malformed event")
					continue
				}
				b.hub.fanout(ports.Event{Name: evt.Name, Payload: evt.Payload})
			}
		}
	}()
}
