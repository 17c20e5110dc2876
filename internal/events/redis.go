package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/society_ledger/internal/core/domain"
	"github.com/redis/go-redis/v9"
)

// DefaultChannel receives every ledger event.
const DefaultChannel = "society_ledger:events"

// RedisClient is the part of *redis.Client the publisher needs.
type RedisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisher fans events out over Redis pub/sub: once on the shared
// channel and once on a per-event-type channel.
type RedisPublisher struct {
	rdb     RedisClient
	channel string
	logger  *slog.Logger
}

func NewRedisPublisher(rdb RedisClient, channel string, logger *slog.Logger) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisPublisher{rdb: rdb, channel: channel, logger: logger}
}

func (p *RedisPublisher) typedChannel(t domain.EventType) string {
	return p.channel + ":" + string(t)
}

// Publish sends the event to the shared channel; a failure on the typed channel is only logged.
func (p *RedisPublisher) Publish(ctx context.Context, event domain.LedgerEvent) error {
	payload, err := Encode(event)
	if err != nil {
		return err
	}

	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.typedChannel(event.EventType), payload).Err(); err != nil {
		p.logger.Warn("failed to publish to typed channel",
			slog.String("event_type", string(event.EventType)),
			slog.String("error", err.Error()))
	}

	p.logger.Debug("ledger event published",
		slog.String("event_type", string(event.EventType)),
		slog.String("entity_id", event.EntityID))
	return nil
}

// Close is a no-op; the client is owned by main, which shares it with the rate limiter.
func (p *RedisPublisher) Close() error {
	return nil
}
