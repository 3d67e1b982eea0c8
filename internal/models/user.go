package models

import "gorm.io/gorm"

// Roles known to the system. users.role is always exactly one of these.
const (
	RoleViewer = "viewer"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

// User represents a registered user of the workout tracker.
type User struct {
	ID       string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email    string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password string `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	Role     string `json:"role" gorm:"type:varchar(20);default:viewer" validate:"omitempty,oneof=viewer editor admin"`

	// Personal parameters used for load estimation.
	Age        int     `json:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
	Weight     float64 `json:"weight,omitempty" validate:"omitempty,gte=0"`
	Height     int     `json:"height,omitempty" validate:"omitempty,gte=0"`
	Gender     string  `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	gorm.Model         // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanEdit reports whether the user's role permits creating and editing resources.
func (u *User) CanEdit() bool {
	return u.Role == RoleEditor || u.Role == RoleAdmin
}
