package user

import (
	"time"

	"lucy-college/internal/db"

	"github.com/uptrace/bun"
)

type Role string

const (
	RoleSuperAdmin Role = "SUPERADMIN"
	RoleRegistrar  Role = "REGISTRAR"
	RoleLecturer   Role = "LECTURER"
	RoleStudent    Role = "STUDENT"
)

// Roles lists every role an account may hold.
var Roles = []Role{RoleSuperAdmin, RoleRegistrar, RoleLecturer, RoleStudent}

func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int       `bun:"id,pk,autoincrement" json:"id"`
	Email     string    `bun:"email,unique,notnull" json:"email"`
	Password  string    `bun:"password,notnull" json:"-"` // bcrypt digest, never serialized
	Role      Role      `bun:"role,notnull" json:"role"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}

// Tables returns the schema owned by this package.
func Tables() []db.Table {
	return []db.Table{
		{Model: (*User)(nil)},
	}
}
