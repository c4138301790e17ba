// Package registry is the uniqueness and derivation authority for faculty and
// department codes. It checks availability before a write; the unique indexes
// on the code columns remain the final arbiter when two writers race.
package registry

import (
	"context"
	"fmt"

	"lucy-college/internal/apperr"
	"lucy-college/internal/metrics"
)

const (
	EntityFaculty    = "faculty"
	EntityDepartment = "department"
)

type FacultyCodes interface {
	FacultyCodeExists(ctx context.Context, code string) (bool, error)
}

type DepartmentCodes interface {
	DepartmentCodeExists(ctx context.Context, code string) (bool, error)
}

type Registry struct {
	faculties   FacultyCodes
	departments DepartmentCodes
	metrics     *metrics.Metrics
}

func New(faculties FacultyCodes, departments DepartmentCodes, m *metrics.Metrics) *Registry {
	return &Registry{
		faculties:   faculties,
		departments: departments,
		metrics:     m,
	}
}

// RegisterFacultyCode returns code if no faculty holds it yet.
func (r *Registry) RegisterFacultyCode(ctx context.Context, code string) (string, error) {
	code = NormalizeCode(code)
	if err := ValidateCode(code); err != nil {
		return "", err
	}

	taken, err := r.faculties.FacultyCodeExists(ctx, code)
	if err != nil {
		return "", fmt.Errorf("check faculty code: %w", err)
	}
	if taken {
		r.metrics.RecordCodeConflict(ctx, EntityFaculty)
		return "", FacultyCodeConflict(code)
	}
	return code, nil
}

// RegisterDepartmentCode checks the parent faculty first, then the code.
func (r *Registry) RegisterDepartmentCode(ctx context.Context, code, facultyCode string) (string, error) {
	code = NormalizeCode(code)
	if err := ValidateCode(code); err != nil {
		return "", err
	}
	if err := r.ValidateParentLink(ctx, facultyCode); err != nil {
		return "", err
	}

	taken, err := r.departments.DepartmentCodeExists(ctx, code)
	if err != nil {
		return "", fmt.Errorf("check department code: %w", err)
	}
	if taken {
		r.metrics.RecordCodeConflict(ctx, EntityDepartment)
		return "", DepartmentCodeConflict(code)
	}
	return code, nil
}

// ValidateParentLink fails with ParentNotFound unless facultyCode names an existing faculty.
func (r *Registry) ValidateParentLink(ctx context.Context, facultyCode string) error {
	facultyCode = NormalizeCode(facultyCode)
	if facultyCode == "" {
		return apperr.New(apperr.KindInvalid, "facultyCode is required")
	}

	exists, err := r.faculties.FacultyCodeExists(ctx, facultyCode)
	if err != nil {
		return fmt.Errorf("check parent faculty: %w", err)
	}
	if !exists {
		return ParentNotFound(facultyCode)
	}
	return nil
}

func FacultyCodeConflict(code string) *apperr.Error {
	return apperr.New(apperr.KindCodeConflict,
		fmt.Sprintf("Faculty Code %s already exists. Please provide a manual code.", code))
}

func DepartmentCodeConflict(code string) *apperr.Error {
	return apperr.New(apperr.KindCodeConflict,
		fmt.Sprintf("Department Code %s already exists. Please provide a manual code.", code))
}

func ParentNotFound(facultyCode string) *apperr.Error {
	return apperr.New(apperr.KindParentNotFound,
		fmt.Sprintf("Faculty with code %s does not exist", facultyCode))
}
