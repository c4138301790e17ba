package auth

import (
	"context"
	"time"

	"lucy-college/common/metrics"
	"lucy-college/internal/apperr"
	"lucy-college/internal/db"

	"github.com/uptrace/bun"
)

// Ledger records tokens invalidated before their natural expiry.
type Ledger interface {
	// Revoke fails with apperr.KindDuplicateToken when token is already recorded.
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	// IsRevoked is true iff a record exists and its expiry is strictly in the future.
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// Pruner is implemented by ledgers whose expired records must be removed explicitly.
type Pruner interface {
	Prune(ctx context.Context) (int64, error)
}

type RevokedToken struct {
	bun.BaseModel `bun:"table:revoked_tokens,alias:rt"`

	ID        int       `bun:"id,pk,autoincrement"`
	Token     string    `bun:"token,unique,notnull"`
	ExpiresAt time.Time `bun:"expires_at,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Tables returns the schema owned by this package.
func Tables() []db.Table {
	return []db.Table{
		{
			Model: (*RevokedToken)(nil),
			Indexes: []db.Index{
				{Name: "revoked_tokens_expires_at_idx", Columns: []string{"expires_at"}},
			},
		},
	}
}

type PostgresLedger struct {
	db      *bun.DB
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewPostgresLedger(db *bun.DB, m *metrics.Metrics) *PostgresLedger {
	return &PostgresLedger{
		db:      db,
		metrics: m,
		now:     time.Now,
	}
}

func (l *PostgresLedger) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	start := time.Now()
	_, err := l.db.NewInsert().
		Model(&RevokedToken{Token: token, ExpiresAt: expiresAt.UTC()}).
		Exec(ctx)

	l.metrics.Database.RecordQuery(ctx, "insert", "revoked_tokens", time.Since(start), err)

	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return apperr.Wrap(err, apperr.KindDuplicateToken, "token already revoked")
		}
		return err
	}
	return nil
}

func (l *PostgresLedger) IsRevoked(ctx context.Context, token string) (bool, error) {
	start := time.Now()
	exists, err := l.db.NewSelect().
		Model((*RevokedToken)(nil)).
		Where("token = ?", token).
		Where("expires_at > ?", l.now().UTC()).
		Exists(ctx)

	l.metrics.Database.RecordQuery(ctx, "select", "revoked_tokens", time.Since(start), err)

	return exists, err
}

// Prune deletes records whose expiry has passed and returns how many were removed.
func (l *PostgresLedger) Prune(ctx context.Context) (int64, error) {
	start := time.Now()
	result, err := l.db.NewDelete().
		Model((*RevokedToken)(nil)).
		Where("expires_at <= ?", l.now().UTC()).
		Exec(ctx)

	l.metrics.Database.RecordQuery(ctx, "delete", "revoked_tokens", time.Since(start), err)

	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
