package metrics

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// latencyBuckets are shared by every duration histogram (seconds): 1ms .. 10s.
var latencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0}

// Metrics groups the infrastructure collectors shared by all components.
type Metrics struct {
	Database *DatabaseMetrics
	Events   *EventMetrics
	Health   *HealthMetrics
	Grpc     *GrpcMetrics
	meter    metric.Meter
}

func New(serviceName string, logger *slog.Logger) (*Metrics, error) {
	meter := otel.Meter(serviceName)

	database, err := NewDatabaseMetrics(meter)
	if err != nil {
		return nil, err
	}

	events, err := NewEventMetrics(meter)
	if err != nil {
		return nil, err
	}

	health, err := NewHealthMetrics(meter)
	if err != nil {
		return nil, err
	}

	grpcMetrics, err := NewGrpcMetrics(meter)
	if err != nil {
		return nil, err
	}

	logger.Info("metrics collectors initialized")

	return &Metrics{
		Database: database,
		Events:   events,
		Health:   health,
		Grpc:     grpcMetrics,
		meter:    meter,
	}, nil
}

// Meter returns the meter the collectors were registered on.
func (m *Metrics) Meter() metric.Meter {
	return m.meter
}

// NewMock creates a no-op Metrics instance for testing.
// Every Record* call on it is ignored.
func NewMock() *Metrics {
	return &Metrics{
		Database: &DatabaseMetrics{},
		Events:   &EventMetrics{},
		Health:   &HealthMetrics{},
		Grpc:     &GrpcMetrics{},
	}
}
