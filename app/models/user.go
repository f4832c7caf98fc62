package models

import "time"

// User is a registered account. Rows are never updated or deleted; the row
// with the lowest ID is the privileged account.
type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash string    `gorm:"column:password;size:255;not null" json:"-"` // digest, never serialised
	CreatedAt    time.Time `json:"created_at"`
}
