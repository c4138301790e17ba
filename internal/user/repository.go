package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"lucy-college/common/metrics"
	"lucy-college/internal/apperr"
	"lucy-college/internal/db"

	"github.com/uptrace/bun"
)

// Repository is the credential store.
type Repository interface {
	// FindByEmail returns nil, nil when no account uses email.
	FindByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int) (*User, error)
	Create(ctx context.Context, email, hashedPassword string, role Role) (*User, error)
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) Repository {
	return &repository{
		db:      db,
		metrics: m,
	}
}

// NormalizeEmail is applied on every write and lookup so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	start := time.Now()
	u := new(User)
	err := r.db.NewSelect().
		Model(u).
		Where("email = ?", NormalizeEmail(email)).
		Scan(ctx)

	if errors.Is(err, sql.ErrNoRows) {
		r.metrics.Database.RecordQuery(ctx, "select", "users", time.Since(start), nil)
		return nil, nil
	}
	r.metrics.Database.RecordQuery(ctx, "select", "users", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*User, error) {
	start := time.Now()
	u := new(User)
	err := r.db.NewSelect().Model(u).Where("id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "users", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Wrap(err, apperr.KindNotFound, "user not found")
		}
		return nil, err
	}
	return u, nil
}

func (r *repository) Create(ctx context.Context, email, hashedPassword string, role Role) (*User, error) {
	start := time.Now()
	u := &User{
		Email:    NormalizeEmail(email),
		Password: hashedPassword,
		Role:     role,
	}
	_, err := r.db.NewInsert().Model(u).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "users", time.Since(start), err)

	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, apperr.Wrap(err, apperr.KindDuplicateEmail, "email already exists")
		}
		return nil, err
	}
	return u, nil
}
