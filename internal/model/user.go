package model

import (
	"time"

	"gorm.io/gorm"
)

// UserRole controls what a system user may do.
type UserRole string

const (
	// RoleAdmin has full system access.
	RoleAdmin UserRole = "ADMIN"
	// RoleSeller may manage inventory, customers and sales.
	RoleSeller UserRole = "SELLER"
	// RoleManager may read everything and generate reports.
	RoleManager UserRole = "MANAGER"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleSeller, RoleManager:
		return true
	}
	return false
}

// User represents an authenticated operator of the system. Password
// holds a bcrypt hash and is never serialized.
type User struct {
	ID       uint     `json:"id" gorm:"primarykey"`
	Username string   `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password string   `json:"-" gorm:"type:varchar(255);not null"`
	Name     string   `json:"name" gorm:"type:varchar(255);not null"`
	Role     UserRole `json:"role" gorm:"type:varchar(16);not null"`
	Active   bool     `json:"active" gorm:"not null;default:true"`

	RegistrationDate time.Time      `json:"registration_date" gorm:"not null"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}

// NewUser builds an active user with an already-hashed password and
// stamps its registration date.
func NewUser(username, hashedPassword, name string, role UserRole) *User {
	return &User{
		Username:         username,
		Password:         hashedPassword,
		Name:             name,
		Role:             role,
		Active:           true,
		RegistrationDate: time.Now(),
	}
}
