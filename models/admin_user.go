package models

import "time"

// AdminUser can sign in to the admin panel. Passwords are stored as
// bcrypt hashes and never serialized.
type AdminUser struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"not null"`
}

func (AdminUser) TableName() string { return "admin_users" }
