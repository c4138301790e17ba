package department

import (
	"time"

	"lucy-college/internal/db"
	"lucy-college/internal/faculty"

	"github.com/uptrace/bun"
)

type Department struct {
	bun.BaseModel `bun:"table:departments,alias:d"`

	ID             int       `bun:"id,pk,autoincrement" json:"id"`
	Name           string    `bun:"name,notnull" json:"name"`
	DepartmentCode string    `bun:"department_code,unique,notnull" json:"departmentCode"`
	FacultyCode    string    `bun:"faculty_code,notnull" json:"facultyCode"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt      time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`

	Faculty *faculty.Faculty `bun:"rel:belongs-to,join:faculty_code=faculty_code" json:"faculty,omitempty"`
}

// Tables returns the schema owned by this package. faculties must exist first.
func Tables() []db.Table {
	return []db.Table{
		{
			Model: (*Department)(nil),
			ForeignKeys: []string{
				`("faculty_code") REFERENCES "faculties" ("faculty_code") ON UPDATE CASCADE ON DELETE RESTRICT`,
			},
			Indexes: []db.Index{
				{Name: "departments_faculty_code_idx", Columns: []string{"faculty_code"}},
			},
		},
	}
}

// CreateRequest is the body of POST /api/admin/departments.
// DepartmentCode is derived from Name when omitted.
type CreateRequest struct {
	Name           string `json:"name" validate:"required,min=2,max=200"`
	DepartmentCode string `json:"departmentCode" validate:"omitempty,max=16"`
	FacultyCode    string `json:"facultyCode" validate:"required,max=16"`
}

// UpdateRequest is a partial update; nil fields are left unchanged.
type UpdateRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=2,max=200"`
	DepartmentCode *string `json:"departmentCode" validate:"omitempty,min=1,max=16"`
	FacultyCode    *string `json:"facultyCode" validate:"omitempty,min=1,max=16"`
}

func (r UpdateRequest) Empty() bool {
	return r.Name == nil && r.DepartmentCode == nil && r.FacultyCode == nil
}
