package faculty

import (
	"time"

	"lucy-college/internal/db"

	"github.com/uptrace/bun"
)

type Faculty struct {
	bun.BaseModel `bun:"table:faculties,alias:f"`

	ID          int       `bun:"id,pk,autoincrement" json:"id"`
	Name        string    `bun:"name,unique,notnull" json:"name"`
	FacultyCode string    `bun:"faculty_code,unique,notnull" json:"facultyCode"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`

	Departments []DepartmentSummary `bun:"rel:has-many,join:faculty_code=faculty_code" json:"departments,omitempty"`
}

// DepartmentSummary is the read-only view of a child department.
// The departments table itself is owned by the department package.
type DepartmentSummary struct {
	bun.BaseModel `bun:"table:departments,alias:d"`

	ID             int    `bun:"id,pk" json:"id"`
	Name           string `bun:"name" json:"name"`
	DepartmentCode string `bun:"department_code" json:"departmentCode"`
	FacultyCode    string `bun:"faculty_code" json:"-"`
}

// Tables returns the schema owned by this package.
func Tables() []db.Table {
	return []db.Table{
		{Model: (*Faculty)(nil)},
	}
}

// CreateRequest is the body of POST /api/admin/faculties.
// FacultyCode is derived from Name when omitted.
type CreateRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	FacultyCode string `json:"facultyCode" validate:"omitempty,max=16"`
}

// UpdateRequest is a partial update; nil fields are left unchanged.
type UpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=200"`
	FacultyCode *string `json:"facultyCode" validate:"omitempty,min=1,max=16"`
}

func (r UpdateRequest) Empty() bool {
	return r.Name == nil && r.FacultyCode == nil
}
