package faculty

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"lucy-college/common/metrics"
	"lucy-college/internal/apperr"
	"lucy-college/internal/db"
	"lucy-college/internal/registry"

	"github.com/uptrace/bun"
)

const (
	codeConstraint = "faculties_faculty_code_key"
	nameConstraint = "faculties_name_key"
)

var ErrFacultyNotFound = apperr.New(apperr.KindNotFound, "Faculty not found")

type Repository interface {
	List(ctx context.Context) ([]Faculty, error)
	// GetByCode loads the faculty together with its departments.
	GetByCode(ctx context.Context, code string) (*Faculty, error)
	FacultyCodeExists(ctx context.Context, code string) (bool, error)
	CountDepartments(ctx context.Context, code string) (int, error)
	Create(ctx context.Context, f *Faculty) (*Faculty, error)
	// Update writes columns of f to the row currently keyed by code.
	Update(ctx context.Context, code string, f *Faculty, columns ...string) (*Faculty, error)
	Delete(ctx context.Context, code string) error
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

func (r *repository) List(ctx context.Context) ([]Faculty, error) {
	start := time.Now()
	var faculties []Faculty
	err := r.db.NewSelect().Model(&faculties).Order("name ASC").Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "faculties", time.Since(start), err)

	if faculties == nil {
		faculties = []Faculty{}
	}
	return faculties, err
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Faculty, error) {
	start := time.Now()
	f := new(Faculty)
	err := r.db.NewSelect().
		Model(f).
		Relation("Departments", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("d.name ASC")
		}).
		Where("f.faculty_code = ?", code).
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "faculties", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFacultyNotFound
		}
		return nil, err
	}
	if f.Departments == nil {
		f.Departments = []DepartmentSummary{}
	}
	return f, nil
}

func (r *repository) FacultyCodeExists(ctx context.Context, code string) (bool, error) {
	start := time.Now()
	exists, err := r.db.NewSelect().
		Model((*Faculty)(nil)).
		Where("faculty_code = ?", code).
		Exists(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "faculties", time.Since(start), err)

	return exists, err
}

func (r *repository) CountDepartments(ctx context.Context, code string) (int, error) {
	start := time.Now()
	count, err := r.db.NewSelect().
		Model((*DepartmentSummary)(nil)).
		Where("faculty_code = ?", code).
		Count(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "departments", time.Since(start), err)

	return count, err
}

func (r *repository) Create(ctx context.Context, f *Faculty) (*Faculty, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(f).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "faculties", time.Since(start), err)

	if err != nil {
		return nil, translateWriteError(err, f)
	}
	return f, nil
}

func (r *repository) Update(ctx context.Context, code string, f *Faculty, columns ...string) (*Faculty, error) {
	start := time.Now()
	f.UpdatedAt = time.Now()
	result, err := r.db.NewUpdate().
		Model(f).
		Column(append(columns, "updated_at")...).
		Where("faculty_code = ?", code).
		Returning("*").
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "faculties", time.Since(start), err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFacultyNotFound
	}
	if err != nil {
		return nil, translateWriteError(err, f)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, ErrFacultyNotFound
	}
	return f, nil
}

func (r *repository) Delete(ctx context.Context, code string) error {
	start := time.Now()
	result, err := r.db.NewDelete().
		Model((*Faculty)(nil)).
		Where("faculty_code = ?", code).
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "delete", "faculties", time.Since(start), err)

	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrHasDepartments
		}
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrFacultyNotFound
	}
	return nil
}

func translateWriteError(err error, f *Faculty) error {
	switch {
	case db.IsUniqueViolation(err, codeConstraint):
		return registry.FacultyCodeConflict(f.FacultyCode)
	case db.IsUniqueViolation(err, nameConstraint):
		return apperr.Wrap(err, apperr.KindConflict, "Faculty name already exists")
	default:
		return err
	}
}
