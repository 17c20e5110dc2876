// Package events announces committed ledger activity to other systems.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/society_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/society_ledger/internal/core/ports/services"
)

// Drivers accepted by New.
const (
	DriverNone  = "none"
	DriverRedis = "redis"
	DriverKafka = "kafka"
)

// Encode renders an event in its wire form. Amounts are serialised as strings.
func Encode(event domain.LedgerEvent) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return payload, nil
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, domain.LedgerEvent) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}

var (
	_ portssvc.EventPublisher = NoopPublisher{}
	_ portssvc.EventPublisher = (*RedisPublisher)(nil)
	_ portssvc.EventPublisher = (*KafkaPublisher)(nil)
)

// Config selects and configures a publisher.
type Config struct {
	Driver       string
	RedisClient  RedisClient
	Channel      string
	KafkaBrokers []string
	KafkaTopic   string
}

// New builds the publisher named by cfg.Driver.
func New(cfg Config, logger *slog.Logger) (portssvc.EventPublisher, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", DriverNone:
		return NoopPublisher{}, nil
	case DriverRedis:
		if cfg.RedisClient == nil {
			return nil, fmt.Errorf("redis event driver requires a redis client")
		}
		return NewRedisPublisher(cfg.RedisClient, cfg.Channel, logger), nil
	case DriverKafka:
		if len(cfg.KafkaBrokers) == 0 || cfg.KafkaTopic == "" {
			return nil, fmt.Errorf("kafka event driver requires brokers and a topic")
		}
		return NewKafkaPublisher(NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger), logger), nil
	}
	return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
}
