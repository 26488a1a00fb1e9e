package entity

import "time"

// Role is a row of user_roles, referenced by User.RoleID
type Role struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
