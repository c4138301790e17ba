package department

import (
	"context"
	"log/slog"
	"strings"

	"lucy-college/internal/apperr"
	"lucy-college/internal/events"
	"lucy-college/internal/metrics"
	"lucy-college/internal/registry"
)

type Service interface {
	List(ctx context.Context, facultyCode string) ([]Department, error)
	Get(ctx context.Context, code string) (*Department, error)
	Create(ctx context.Context, req CreateRequest) (*Department, error)
	Update(ctx context.Context, code string, req UpdateRequest) (*Department, error)
	Delete(ctx context.Context, code string) error
}

type service struct {
	repo      Repository
	registry  *registry.Registry
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewService(repo Repository, reg *registry.Registry, publisher events.Publisher, m *metrics.Metrics, logger *slog.Logger) Service {
	return &service{
		repo:      repo,
		registry:  reg,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

func (s *service) List(ctx context.Context, facultyCode string) ([]Department, error) {
	return s.repo.List(ctx, registry.NormalizeCode(facultyCode))
}

func (s *service) Get(ctx context.Context, code string) (*Department, error) {
	return s.repo.GetByCode(ctx, registry.NormalizeCode(code))
}

// Create validates the parent faculty before anything is written.
func (s *service) Create(ctx context.Context, req CreateRequest) (*Department, error) {
	name := strings.TrimSpace(req.Name)
	facultyCode := registry.NormalizeCode(req.FacultyCode)

	code, err := registry.CodeFor(req.DepartmentCode, name)
	if err != nil {
		return nil, err
	}
	code, err = s.registry.RegisterDepartmentCode(ctx, code, facultyCode)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &Department{
		Name:           name,
		DepartmentCode: code,
		FacultyCode:    facultyCode,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordCodeRegistered(ctx, registry.EntityDepartment)
	events.Emit(ctx, s.publisher, s.logger, events.New(events.DepartmentCreated, created.DepartmentCode, created))
	return created, nil
}

// Update applies the non-nil fields of req. A changed facultyCode must name an
// existing faculty; a changed departmentCode must be free.
func (s *service) Update(ctx context.Context, code string, req UpdateRequest) (*Department, error) {
	if req.Empty() {
		return nil, apperr.New(apperr.KindInvalid, "nothing to update")
	}
	code = registry.NormalizeCode(code)

	current, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	next := &Department{
		ID:             current.ID,
		Name:           current.Name,
		DepartmentCode: current.DepartmentCode,
		FacultyCode:    current.FacultyCode,
		CreatedAt:      current.CreatedAt,
	}
	var columns []string

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.New(apperr.KindInvalid, "name must not be empty")
		}
		if name != current.Name {
			next.Name = name
			columns = append(columns, "name")
		}
	}

	if req.FacultyCode != nil {
		facultyCode := registry.NormalizeCode(*req.FacultyCode)
		if facultyCode != current.FacultyCode {
			if err := s.registry.ValidateParentLink(ctx, facultyCode); err != nil {
				return nil, err
			}
			next.FacultyCode = facultyCode
			columns = append(columns, "faculty_code")
		}
	}

	if req.DepartmentCode != nil {
		newCode := registry.NormalizeCode(*req.DepartmentCode)
		if newCode != current.DepartmentCode {
			if newCode, err = s.registry.RegisterDepartmentCode(ctx, newCode, next.FacultyCode); err != nil {
				return nil, err
			}
			next.DepartmentCode = newCode
			columns = append(columns, "department_code")
		}
	}

	if len(columns) == 0 {
		return current, nil
	}

	updated, err := s.repo.Update(ctx, code, next, columns...)
	if err != nil {
		return nil, err
	}

	if updated.DepartmentCode != code {
		s.metrics.RecordCodeRegistered(ctx, registry.EntityDepartment)
	}
	events.Emit(ctx, s.publisher, s.logger, events.New(events.DepartmentUpdated, updated.DepartmentCode, map[string]any{
		"previousCode": code,
		"department":   updated,
	}))
	return updated, nil
}

func (s *service) Delete(ctx context.Context, code string) error {
	code = registry.NormalizeCode(code)
	if err := s.repo.Delete(ctx, code); err != nil {
		return err
	}

	s.metrics.RecordEntityDeleted(ctx, registry.EntityDepartment)
	events.Emit(ctx, s.publisher, s.logger, events.New(events.DepartmentDeleted, code, nil))
	return nil
}
