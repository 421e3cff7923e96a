package model

import "time"

// Role values for User.Role. Roles are fixed at creation.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an admin or regular user account.
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Username     string     `json:"username" gorm:"uniqueIndex;size:80;not null"`
	Email        string     `json:"email,omitempty" gorm:"size:120;index"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         string     `json:"role" gorm:"size:20;not null;default:'user';index"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	LastBooking  *time.Time `json:"last_booking,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
