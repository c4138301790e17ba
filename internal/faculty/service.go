package faculty

import (
	"context"
	"log/slog"
	"strings"

	"lucy-college/internal/apperr"
	"lucy-college/internal/events"
	"lucy-college/internal/metrics"
	"lucy-college/internal/registry"
)

var ErrHasDepartments = apperr.New(apperr.KindHasDependents, "Cannot delete faculty while it has associated departments.")

type Service interface {
	List(ctx context.Context) ([]Faculty, error)
	Get(ctx context.Context, code string) (*Faculty, error)
	Create(ctx context.Context, req CreateRequest) (*Faculty, error)
	Update(ctx context.Context, code string, req UpdateRequest) (*Faculty, error)
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

func (s *service) List(ctx context.Context) ([]Faculty, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, code string) (*Faculty, error) {
	return s.repo.GetByCode(ctx, registry.NormalizeCode(code))
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Faculty, error) {
	name := strings.TrimSpace(req.Name)

	code, err := registry.CodeFor(req.FacultyCode, name)
	if err != nil {
		return nil, err
	}
	code, err = s.registry.RegisterFacultyCode(ctx, code)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &Faculty{Name: name, FacultyCode: code})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordCodeRegistered(ctx, registry.EntityFaculty)
	events.Emit(ctx, s.publisher, s.logger, events.New(events.FacultyCreated, created.FacultyCode, created))
	return created, nil
}

// Update applies the non-nil fields of req. A changed code is re-registered;
// departments follow the new code through the ON UPDATE CASCADE foreign key.
func (s *service) Update(ctx context.Context, code string, req UpdateRequest) (*Faculty, error) {
	if req.Empty() {
		return nil, apperr.New(apperr.KindInvalid, "nothing to update")
	}
	code = registry.NormalizeCode(code)

	current, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	next := &Faculty{ID: current.ID, Name: current.Name, FacultyCode: current.FacultyCode, CreatedAt: current.CreatedAt}
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
		newCode := registry.NormalizeCode(*req.FacultyCode)
		if newCode != current.FacultyCode {
			if newCode, err = s.registry.RegisterFacultyCode(ctx, newCode); err != nil {
				return nil, err
			}
			next.FacultyCode = newCode
			columns = append(columns, "faculty_code")
		}
	}

	if len(columns) == 0 {
		return current, nil
	}

	updated, err := s.repo.Update(ctx, code, next, columns...)
	if err != nil {
		return nil, err
	}

	if updated.FacultyCode != code {
		s.metrics.RecordCodeRegistered(ctx, registry.EntityFaculty)
	}
	events.Emit(ctx, s.publisher, s.logger, events.New(events.FacultyUpdated, updated.FacultyCode, map[string]any{
		"previousCode": code,
		"faculty":      updated,
	}))
	return updated, nil
}

// Delete is vetoed while any department references the faculty.
func (s *service) Delete(ctx context.Context, code string) error {
	code = registry.NormalizeCode(code)

	exists, err := s.repo.FacultyCodeExists(ctx, code)
	if err != nil {
		return err
	}
	if !exists {
		return ErrFacultyNotFound
	}

	children, err := s.repo.CountDepartments(ctx, code)
	if err != nil {
		return err
	}
	if children > 0 {
		return ErrHasDepartments
	}

	if err := s.repo.Delete(ctx, code); err != nil {
		return err
	}

	s.metrics.RecordEntityDeleted(ctx, registry.EntityFaculty)
	events.Emit(ctx, s.publisher, s.logger, events.New(events.FacultyDeleted, code, nil))
	return nil
}
