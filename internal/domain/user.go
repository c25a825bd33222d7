package domain

import "time"

// User Model
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`                          // Primary key
	Username     string    `gorm:"size:191;uniqueIndex;not null" json:"username"` // Unique username
	Email        string    `gorm:"size:191;uniqueIndex;not null" json:"email"`    // Unique email
	PasswordHash string    `gorm:"size:255;not null" json:"-"`                    // bcrypt hash, never serialized
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`              // Set once on insert
}
