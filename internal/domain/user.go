package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleInstructor Role = "INSTRUCTOR"
	RoleAdmin      Role = "ADMIN"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName    string
	LastName     string
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string `json:"-"`
	Role         Role   `gorm:"index"`
	Active       bool   `gorm:"default:true"`

	CreatedAt time.Time
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
