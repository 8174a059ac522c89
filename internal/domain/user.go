package domain

import "time"

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                          // Primary key
	Username  string    `gorm:"size:150;uniqueIndex;not null" json:"username"` // Unique username
	Email     string    `gorm:"size:254;uniqueIndex;not null" json:"email"`    // Unique email address
	Password  string    `gorm:"not null" json:"-"`                             // Hashed password, never serialized
	CreatedAt time.Time `json:"created_at"`                                    // Registration timestamp
}
