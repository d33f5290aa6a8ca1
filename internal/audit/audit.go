// Package audit publishes a record of every successful mutation to Kafka.
// Consumers downstream (retention tooling, HR reporting) are out of process.
package audit

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/openkpi/kpi-manager-api/internal/config"
	"github.com/openkpi/kpi-manager-api/internal/logger"
	"github.com/segmentio/kafka-go"
)

// Event is the payload written per mutation.
type Event struct {
	ActorID  uint64    `json:"actor_id"`
	Action   string    `json:"action"`
	Entity   string    `json:"entity"`
	EntityID uint64    `json:"entity_id"`
	At       time.Time `json:"at"`
}

// Publisher is a fire-and-forget Kafka producer. A nil Publisher is a valid
// no-op, so callers never need to guard the call site.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher builds a publisher, or nil when no brokers are configured.
func NewPublisher(cfg config.KafkaConfig) *Publisher {
	if cfg.Brokers == "" {
		return nil
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(strings.Split(cfg.Brokers, ",")...),
			Topic:    cfg.Topic,
			Balancer: &kafka.LeastBytes{},
			Async:    true,
		},
	}
}

// Record publishes one event. Failures are logged, never surfaced; the
// mutation already committed.
func (p *Publisher) Record(actorID uint64, action, entity string, entityID uint64) {
	if p == nil {
		return
	}
	event := Event{
		ActorID:  actorID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		At:       time.Now(),
	}
	value, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := p.writer.WriteMessages(context.Background(), kafka.Message{Value: value}); err != nil {
		logger.Error("failed to publish audit event", err)
	}
}

// Close flushes the underlying writer.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
