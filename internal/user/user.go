package user

import (
	"time"

	userDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/user"
)

// Roles known to the portal. Only the administrative role changes
// permission resolution; the rest are descriptive.
const (
	RoleAdmin          = "admin"
	RoleDepartmentHead = "department_head"
	RoleManager        = "manager"
	RoleEmployee       = "employee"
	RoleIntern         = "intern"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

func FromDataModel(row *userDatamodel.User) *User {
	return &User{
		ID:        row.ID,
		Email:     row.Email,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Role:      row.Role,
		IsActive:  row.IsActive,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func FromDataModels(rows []*userDatamodel.User) []*User {
	users := make([]*User, len(rows))
	for i, row := range rows {
		users[i] = FromDataModel(row)
	}
	return users
}
