package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"lucy-college/common/metrics"

	"github.com/nats-io/nats.go"
)

type NATSPublisher struct {
	conn    *nats.Conn
	prefix  string
	metrics *metrics.EventMetrics
	logger  *slog.Logger
}

func NewNATSPublisher(url, subjectPrefix string, m *metrics.EventMetrics, logger *slog.Logger) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("lucy-college"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info("NATS publisher initialized", "url", url, "subject_prefix", subjectPrefix)

	return &NATSPublisher{
		conn:    nc,
		prefix:  subjectPrefix,
		metrics: m,
		logger:  logger,
	}, nil
}

// Subject is prefix.type, e.g. college.faculty.created.
func (p *NATSPublisher) Subject(eventType string) string {
	if p.prefix == "" {
		return eventType
	}
	return p.prefix + "." + eventType
}

func (p *NATSPublisher) Publish(ctx context.Context, event Event) error {
	subject := p.Subject(event.Type)
	start := time.Now()

	data, err := json.Marshal(event)
	if err == nil {
		err = p.conn.Publish(subject, data)
	}

	p.metrics.RecordPublish(ctx, "nats", subject, time.Since(start), err)

	if err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	p.logger.DebugContext(ctx, "event sent to NATS", "subject", subject, "key", event.Key)
	return nil
}

func (p *NATSPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}
