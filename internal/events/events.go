// Package events publishes domain events to an optional message broker.
// Publishing is best-effort: callers use Emit, which logs failures and never
// fails the request that produced the event.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lucy-college/common/metrics"
	"lucy-college/internal/config"
)

const (
	UserRegistered    = "user.registered"
	TokenRevoked      = "token.revoked"
	FacultyCreated    = "faculty.created"
	FacultyUpdated    = "faculty.updated"
	FacultyDeleted    = "faculty.deleted"
	DepartmentCreated = "department.created"
	DepartmentUpdated = "department.updated"
	DepartmentDeleted = "department.deleted"
)

// Event is the envelope written to the broker as JSON.
type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

func New(eventType, key string, data any) Event {
	return Event{
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Emit publishes event and logs instead of returning a failure.
func Emit(ctx context.Context, p Publisher, logger *slog.Logger, event Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, event); err != nil {
		logger.WarnContext(ctx, "failed to publish event", "type", event.Type, "key", event.Key, "error", err)
	}
}

// NewPublisher builds the publisher selected by cfg.Driver.
func NewPublisher(cfg config.EventsConfig, m *metrics.EventMetrics, logger *slog.Logger) (Publisher, error) {
	switch cfg.Driver {
	case "", "none":
		return Noop{}, nil
	case "nats":
		return NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix, m, logger)
	case "kafka":
		return NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, m, logger)
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }
