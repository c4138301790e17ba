package department

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

const codeConstraint = "departments_department_code_key"

var ErrDepartmentNotFound = apperr.New(apperr.KindNotFound, "Department not found")

type Repository interface {
	// List returns every department, or only those of facultyCode when it is non-empty.
	List(ctx context.Context, facultyCode string) ([]Department, error)
	GetByCode(ctx context.Context, code string) (*Department, error)
	DepartmentCodeExists(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, d *Department) (*Department, error)
	Update(ctx context.Context, code string, d *Department, columns ...string) (*Department, error)
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

func (r *repository) List(ctx context.Context, facultyCode string) ([]Department, error) {
	start := time.Now()
	var departments []Department
	q := r.db.NewSelect().Model(&departments).Order("d.name ASC")
	if facultyCode != "" {
		q = q.Where("d.faculty_code = ?", facultyCode)
	}
	err := q.Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "departments", time.Since(start), err)

	if departments == nil {
		departments = []Department{}
	}
	return departments, err
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Department, error) {
	start := time.Now()
	d := new(Department)
	err := r.db.NewSelect().
		Model(d).
		Relation("Faculty").
		Where("d.department_code = ?", code).
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "departments", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *repository) DepartmentCodeExists(ctx context.Context, code string) (bool, error) {
	start := time.Now()
	exists, err := r.db.NewSelect().
		Model((*Department)(nil)).
		Where("department_code = ?", code).
		Exists(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "departments", time.Since(start), err)

	return exists, err
}

func (r *repository) Create(ctx context.Context, d *Department) (*Department, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(d).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "departments", time.Since(start), err)

	if err != nil {
		return nil, translateWriteError(err, d)
	}
	return d, nil
}

func (r *repository) Update(ctx context.Context, code string, d *Department, columns ...string) (*Department, error) {
	start := time.Now()
	d.UpdatedAt = time.Now()
	result, err := r.db.NewUpdate().
		Model(d).
		Column(append(columns, "updated_at")...).
		Where("department_code = ?", code).
		Returning("*").
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "departments", time.Since(start), err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDepartmentNotFound
	}
	if err != nil {
		return nil, translateWriteError(err, d)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, ErrDepartmentNotFound
	}
	return d, nil
}

func (r *repository) Delete(ctx context.Context, code string) error {
	start := time.Now()
	result, err := r.db.NewDelete().
		Model((*Department)(nil)).
		Where("department_code = ?", code).
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "delete", "departments", time.Since(start), err)

	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrDepartmentNotFound
	}
	return nil
}

// translateWriteError maps constraint rejections from a lost race to domain errors.
func translateWriteError(err error, d *Department) error {
	switch {
	case db.IsUniqueViolation(err, codeConstraint):
		return registry.DepartmentCodeConflict(d.DepartmentCode)
	case db.IsForeignKeyViolation(err):
		return registry.ParentNotFound(d.FacultyCode)
	default:
		return err
	}
}
