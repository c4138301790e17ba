package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the business counters of the college service.
type Metrics struct {
	usersRegistered   metric.Int64Counter
	loginAttempts     metric.Int64Counter
	authRejections    metric.Int64Counter
	tokensRevoked     metric.Int64Counter
	revocationsPruned metric.Int64Counter
	codesRegistered   metric.Int64Counter
	codeConflicts     metric.Int64Counter
	entitiesDeleted   metric.Int64Counter
}

func New(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.usersRegistered, err = meter.Int64Counter(
		"college.users.registered",
		metric.WithDescription("Total number of user accounts created"),
		metric.WithUnit("{user}"),
	)
	if err != nil {
		return nil, err
	}

	m.loginAttempts, err = meter.Int64Counter(
		"college.auth.logins",
		metric.WithDescription("Login attempts by outcome"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	m.authRejections, err = meter.Int64Counter(
		"college.auth.rejections",
		metric.WithDescription("Requests rejected by the authenticator or authorizer, by kind"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	m.tokensRevoked, err = meter.Int64Counter(
		"college.tokens.revoked",
		metric.WithDescription("Total number of tokens revoked on logout"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return nil, err
	}

	m.revocationsPruned, err = meter.Int64Counter(
		"college.tokens.pruned",
		metric.WithDescription("Expired revocation records removed by the pruner"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return nil, err
	}

	m.codesRegistered, err = meter.Int64Counter(
		"college.codes.registered",
		metric.WithDescription("Faculty and department codes reserved, by entity"),
		metric.WithUnit("{code}"),
	)
	if err != nil {
		return nil, err
	}

	m.codeConflicts, err = meter.Int64Counter(
		"college.codes.conflicts",
		metric.WithDescription("Code registrations rejected because the code was taken, by entity"),
		metric.WithUnit("{code}"),
	)
	if err != nil {
		return nil, err
	}

	m.entitiesDeleted, err = meter.Int64Counter(
		"college.entities.deleted",
		metric.WithDescription("Faculties and departments deleted, by entity"),
		metric.WithUnit("{entity}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) RecordUserRegistered(ctx context.Context, role string) {
	if m != nil && m.usersRegistered != nil {
		m.usersRegistered.Add(ctx, 1, metric.WithAttributes(attribute.String("role", role)))
	}
}

func (m *Metrics) RecordLogin(ctx context.Context, success bool) {
	if m != nil && m.loginAttempts != nil {
		outcome := "failure"
		if success {
			outcome = "success"
		}
		m.loginAttempts.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

func (m *Metrics) RecordAuthRejection(ctx context.Context, kind string) {
	if m != nil && m.authRejections != nil {
		m.authRejections.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
	}
}

func (m *Metrics) RecordTokenRevoked(ctx context.Context) {
	if m != nil && m.tokensRevoked != nil {
		m.tokensRevoked.Add(ctx, 1)
	}
}

func (m *Metrics) RecordRevocationsPruned(ctx context.Context, n int64) {
	if m != nil && m.revocationsPruned != nil && n > 0 {
		m.revocationsPruned.Add(ctx, n)
	}
}

func (m *Metrics) RecordCodeRegistered(ctx context.Context, entity string) {
	if m != nil && m.codesRegistered != nil {
		m.codesRegistered.Add(ctx, 1, metric.WithAttributes(attribute.String("entity", entity)))
	}
}

func (m *Metrics) RecordCodeConflict(ctx context.Context, entity string) {
	if m != nil && m.codeConflicts != nil {
		m.codeConflicts.Add(ctx, 1, metric.WithAttributes(attribute.String("entity", entity)))
	}
}

func (m *Metrics) RecordEntityDeleted(ctx context.Context, entity string) {
	if m != nil && m.entitiesDeleted != nil {
		m.entitiesDeleted.Add(ctx, 1, metric.WithAttributes(attribute.String("entity", entity)))
	}
}

// NewMock creates a no-op Metrics instance for testing
func NewMock() *Metrics {
	return &Metrics{}
}
